// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package ndiproto implements the NDI combined API wire protocol: the
// CRC-validated ASCII command/response framing and the fixed-width
// PHINF/TX/PHSR reply parsers.
package ndiproto

// oddParity carries, for each nibble value 0-15, the parity (1 if the
// number of set bits is odd) of that nibble. The device's CRC-16 uses it
// to decide when to fold in the feedback polynomial.
var oddParity = [16]byte{0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0}

// crcStep folds one byte into a running CRC-16 accumulator using the
// device's proprietary polynomial.
func crcStep(crc uint16, b byte) uint16 {
	t := uint16(b^byte(crc)) & 0xFF
	crc >>= 8
	if oddParity[t&0x0F]^oddParity[t>>4] != 0 {
		crc ^= 0xC001
	}
	t <<= 6
	crc ^= t
	t <<= 1
	crc ^= t
	return crc
}

// CRC16 computes the NDI CRC-16 over payload. It stops at the first zero
// byte, matching the device's C-string convention, so trailing NUL padding
// never perturbs the checksum.
func CRC16(payload []byte) uint16 {
	var crc uint16
	for _, b := range payload {
		if b == 0 {
			break
		}
		crc = crcStep(crc, b)
	}
	return crc
}

// crcHexDigits is the fixed upper-case hex alphabet used for the 4-digit
// ASCII CRC representation that ends every response and, when requested,
// is appended to an outgoing command.
const crcHexDigits = "0123456789ABCDEF"

// FormatCRC renders crc as 4 upper-case, zero-padded hex digits.
func FormatCRC(crc uint16) string {
	buf := [4]byte{
		crcHexDigits[(crc>>12)&0xF],
		crcHexDigits[(crc>>8)&0xF],
		crcHexDigits[(crc>>4)&0xF],
		crcHexDigits[crc&0xF],
	}
	return string(buf[:])
}

// ParseCRC decodes a 4-character hex CRC; upper- and lower-case digits are
// both accepted. It returns
// ErrMalformedCRC if s is not exactly 4 valid hex digits.
func ParseCRC(s string) (uint16, error) {
	if len(s) != 4 {
		return 0, ErrMalformedCRC
	}
	var crc uint16
	for i := 0; i < 4; i++ {
		c := s[i]
		var v uint16
		switch {
		case c >= '0' && c <= '9':
			v = uint16(c - '0')
		case c >= 'A' && c <= 'F':
			v = uint16(c-'A') + 10
		case c >= 'a' && c <= 'f':
			v = uint16(c-'a') + 10
		default:
			return 0, ErrMalformedCRC
		}
		crc = crc<<4 | v
	}
	return crc, nil
}
