// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

import "errors"

// Sentinel errors for the wire-level protocol layer. Callers compare with
// errors.Is; context is added with github.com/pkg/errors.Wrap at call sites.
var (
	// ErrTimeout is returned when a read deadline elapses before a
	// terminating CR arrives.
	ErrTimeout = errors.New("ndiproto: read timeout")

	// ErrBadCRC is returned when the CRC embedded in a response does not
	// match the CRC computed over its payload.
	ErrBadCRC = errors.New("ndiproto: CRC mismatch")

	// ErrUnexpected is returned by ResponseRead when the payload does not
	// begin with the required literal prefix.
	ErrUnexpected = errors.New("ndiproto: unexpected response")

	// ErrProtocolFraming is returned when a TX reply is missing the LF
	// that must follow the frame number.
	ErrProtocolFraming = errors.New("ndiproto: missing frame terminator")

	// ErrMalformedCRC is returned when a 4-character CRC field is not
	// valid hex (upper or lower case is accepted), and by HexDecode for a
	// string that is not valid hex.
	ErrMalformedCRC = errors.New("ndiproto: malformed CRC field")

	// ErrShortResponse is returned when a response is shorter than the
	// minimum shape its command requires.
	ErrShortResponse = errors.New("ndiproto: response too short to parse")

	// ErrUnknownToolType names a PHINF main_type outside the recognized
	// set. No function in this package returns it: PENAMode reports such
	// types with ok == false.
	ErrUnknownToolType = errors.New("ndiproto: unrecognized tool main_type")

	// ErrDefinitionTooLarge is returned when a passive-tool .rom exceeds
	// the 960-byte upload limit.
	ErrDefinitionTooLarge = errors.New("ndiproto: tool definition exceeds 960 bytes")

	// ErrTransientZeroSerial marks a PHINF reply whose serial_number read
	// back as all zeros, the known Aurora USB transient fault.
	ErrTransientZeroSerial = errors.New("ndiproto: transient zero serial number")
)
