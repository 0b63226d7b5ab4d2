// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

import "time"

// Link is the serial-port interface the protocol engine requires from its
// transport. C1 in the component design: open/close, read, write, break,
// and baud/framing changes are all external collaborators — this package
// only specifies the shape it needs. The concrete go.bug.st/serial-backed
// implementation lives in internal/driver.
type Link interface {
	// Write sends p in full or returns an error.
	Write(p []byte) (int, error)

	// ReadByte blocks for at most the link's configured read timeout and
	// returns one byte, or ErrTimeout if none arrived.
	ReadByte() (byte, error)

	// SetReadTimeout changes the deadline ReadByte waits before failing.
	SetReadTimeout(d time.Duration) error

	// SetMode reconfigures baud rate and framing, used after the COMM
	// handshake renegotiates link parameters.
	SetMode(p LinkParams) error

	// Break asserts a line break for d, used to trigger a device RESET.
	Break(d time.Duration) error
}
