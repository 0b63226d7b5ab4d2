// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

// PHSRRecord is one port handle reported by a PHSR query: a 2-character
// handle and its 3-character status code.
type PHSRRecord struct {
	Handle string
	Status string
}

// ParsePHSR decodes a PHSR reply: a 2-hex-digit count followed by that
// many 5-character records (2-char handle + 3-char status).
func ParsePHSR(payload []byte) ([]PHSRRecord, error) {
	c := newCursor(payload)
	count, err := c.takeHexUint32(2)
	if err != nil {
		return nil, err
	}
	records := make([]PHSRRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		handle, err := c.take(2)
		if err != nil {
			return nil, err
		}
		status, err := c.take(3)
		if err != nil {
			return nil, err
		}
		records = append(records, PHSRRecord{Handle: handle, Status: status})
	}
	return records, nil
}
