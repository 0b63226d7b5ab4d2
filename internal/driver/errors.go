// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import "errors"

// Driver-level sentinel errors, per the error taxonomy. Protocol-decode
// errors (ErrBadCRC, ErrTimeout, ...) live in pkg/ndiproto and are
// wrapped, not redeclared, at the call sites below.
var (
	// ErrNoDevice is returned when discovery exhausts every candidate
	// port without receiving a RESET.
	ErrNoDevice = errors.New("driver: no device found")

	// ErrDuplicateName is returned by AddTool when the requested name
	// already names a different tool in the registry.
	ErrDuplicateName = errors.New("driver: duplicate tool name")

	// ErrUnsupportedFirmware is returned during bring-up when VER 5
	// reports anything other than "024".
	ErrUnsupportedFirmware = errors.New("driver: unsupported firmware version")

	// ErrInvalidTooltipOffset is returned by AddTool when the supplied
	// offset contains a NaN or infinite component.
	ErrInvalidTooltipOffset = errors.New("driver: invalid tooltip offset")

	// ErrInvalidBeepCount is returned by Beep for n outside 1..9.
	ErrInvalidBeepCount = errors.New("driver: beep count out of range")

	// ErrUnexpectedResponse covers BEEP replies other than busy/success
	// and exhausted busy-retries.
	ErrUnexpectedResponse = errors.New("driver: unexpected device response")

	// ErrNotConnected is returned when a control command that requires
	// an open session is issued while Disconnected.
	ErrNotConnected = errors.New("driver: not connected")
)
