// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

import "github.com/golang/geo/r3"

// TXRow is one tool's decoded pose as reported by a single TX reply,
// before the tooltip offset is applied.
type TXRow struct {
	Handle      string
	Pose        Pose
	ErrorRMS    float64
	PortStatus  uint32
	FrameNumber uint32
}

// TXReply is the fully decoded result of one TX round-trip.
type TXReply struct {
	Rows         []TXRow
	Strays       StrayMarkerRows
	StrayCount   int
	SystemStatus uint32
}

const (
	rowShapeMissing    = "MISSING"
	rowShapeDisabled   = "DISABLED"
	rowShapeUnoccupied = "UNOCCUPIED"
)

// translationFieldWidth is the total width, sign included, of every
// fixed-point translation/position field on the wire: one sign character
// plus seven digits.
const translationFieldWidth = 8

// ParseTX decodes a TX reply payload. withStrays must match the 0x1000
// bit of the request that produced this reply: it controls whether a
// stray-marker block is expected after the per-tool rows.
func ParseTX(payload []byte, withStrays bool) (TXReply, error) {
	c := newCursor(payload)

	count, err := c.takeHexUint32(2)
	if err != nil {
		return TXReply{}, err
	}

	reply := TXReply{Rows: make([]TXRow, 0, count)}
	for i := uint32(0); i < count; i++ {
		row, err := parseTXRow(c)
		if err != nil {
			return TXReply{}, err
		}
		reply.Rows = append(reply.Rows, row)
	}

	if withStrays {
		strays, n, err := parseStrayBlock(c)
		if err != nil {
			return TXReply{}, err
		}
		reply.Strays = strays
		reply.StrayCount = n
	}

	status, err := c.takeHexUint32(4)
	if err != nil {
		return TXReply{}, err
	}
	reply.SystemStatus = status
	return reply, nil
}

func parseTXRow(c *cursor) (TXRow, error) {
	handle, err := c.take(2)
	if err != nil {
		return TXRow{}, err
	}

	row := TXRow{Handle: handle}

	switch {
	case peekLiteral(c, rowShapeMissing):
		if err := c.skip(len(rowShapeMissing)); err != nil {
			return TXRow{}, err
		}
	case peekLiteral(c, rowShapeDisabled):
		if err := c.skip(len(rowShapeDisabled)); err != nil {
			return TXRow{}, err
		}
	case peekLiteral(c, rowShapeUnoccupied):
		if err := c.skip(len(rowShapeUnoccupied)); err != nil {
			return TXRow{}, err
		}
	default:
		w, err := c.takeSignedInt(6)
		if err != nil {
			return TXRow{}, err
		}
		x, err := c.takeSignedInt(6)
		if err != nil {
			return TXRow{}, err
		}
		y, err := c.takeSignedInt(6)
		if err != nil {
			return TXRow{}, err
		}
		z, err := c.takeSignedInt(6)
		if err != nil {
			return TXRow{}, err
		}
		tx, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return TXRow{}, err
		}
		ty, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return TXRow{}, err
		}
		tz, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return TXRow{}, err
		}
		errRMS, err := c.takeSignedFixed(6, 10000)
		if err != nil {
			return TXRow{}, err
		}
		row.Pose = Pose{
			Rotation:    DecodeQuaternion(w, x, y, z),
			Translation: r3.Vector{X: tx, Y: ty, Z: tz},
			Valid:       true,
		}
		row.ErrorRMS = errRMS
	}

	portStatus, err := c.takeHexUint32(8)
	if err != nil {
		return TXRow{}, err
	}
	row.PortStatus = portStatus

	frame, err := c.takeHexUint32(8)
	if err != nil {
		return TXRow{}, err
	}
	row.FrameNumber = frame

	nl, err := c.take(1)
	if err != nil {
		return TXRow{}, err
	}
	if nl != "\n" {
		return TXRow{}, ErrProtocolFraming
	}

	return row, nil
}

// peekLiteral reports whether the cursor's remaining bytes begin with
// lit, without consuming anything.
func peekLiteral(c *cursor, lit string) bool {
	if c.remaining() < len(lit) {
		return false
	}
	return string(c.data[c.pos:c.pos+len(lit)]) == lit
}

func parseStrayBlock(c *cursor) (StrayMarkerRows, int, error) {
	var rows StrayMarkerRows

	count, err := c.takeHexUint32(2)
	if err != nil {
		return rows, 0, err
	}
	m := int(count)

	flagBytes := (m + 3) / 4
	bits := make([]byte, 0, flagBytes*4)
	for i := 0; i < flagBytes; i++ {
		b, err := c.take(1)
		if err != nil {
			return rows, 0, err
		}
		inverted := ^b[0] & 0x0F
		bits = append(bits,
			(inverted>>3)&1,
			(inverted>>2)&1,
			(inverted>>1)&1,
			inverted&1,
		)
	}
	garbage := len(bits) - m
	if garbage < 0 {
		garbage = 0
	}
	visibility := bits[garbage:]

	for i := 0; i < m && i < MaxStrayMarkers; i++ {
		x, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return rows, 0, err
		}
		y, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return rows, 0, err
		}
		z, err := c.takeSignedFixed(translationFieldWidth, 100)
		if err != nil {
			return rows, 0, err
		}
		rows[i][0] = 1.0
		rows[i][1] = float64(visibility[i])
		rows[i][2] = x
		rows[i][3] = y
		rows[i][4] = z
	}

	return rows, m, nil
}
