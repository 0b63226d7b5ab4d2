// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"time"

	"github.com/pkg/errors"
	goserial "go.bug.st/serial"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

// serialLink adapts a go.bug.st/serial port to ndiproto.Link, the only
// surface the protocol engine requires from its transport.
type serialLink struct {
	port goserial.Port
}

// OpenSerialLink opens name at the given link parameters and returns a
// ready-to-use ndiproto.Link.
func OpenSerialLink(name string, params ndiproto.LinkParams) (ndiproto.Link, error) {
	port, err := goserial.Open(name, toSerialMode(params))
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	return &serialLink{port: port}, nil
}

func toSerialMode(p ndiproto.LinkParams) *goserial.Mode {
	mode := &goserial.Mode{
		BaudRate: p.BaudRate,
		DataBits: p.DataBits,
	}
	switch p.Parity {
	case ndiproto.ParityOdd:
		mode.Parity = goserial.OddParity
	case ndiproto.ParityEven:
		mode.Parity = goserial.EvenParity
	default:
		mode.Parity = goserial.NoParity
	}
	if p.StopBits == 2 {
		mode.StopBits = goserial.TwoStopBits
	} else {
		mode.StopBits = goserial.OneStopBit
	}
	return mode
}

func (s *serialLink) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	return n, errors.Wrap(err, "writing to serial link")
}

func (s *serialLink) ReadByte() (byte, error) {
	var b [1]byte
	n, err := s.port.Read(b[:])
	if err != nil {
		return 0, errors.Wrap(err, "reading from serial link")
	}
	if n == 0 {
		// go.bug.st/serial returns (0, nil) on a read-timeout expiry
		// rather than an error value.
		return 0, ndiproto.ErrTimeout
	}
	return b[0], nil
}

func (s *serialLink) SetReadTimeout(d time.Duration) error {
	return errors.Wrap(s.port.SetReadTimeout(d), "setting read timeout")
}

func (s *serialLink) SetMode(p ndiproto.LinkParams) error {
	return errors.Wrap(s.port.SetMode(toSerialMode(p)), "setting link mode")
}

func (s *serialLink) Break(d time.Duration) error {
	return errors.Wrap(s.port.Break(d), "asserting break")
}

func (s *serialLink) Close() error {
	return errors.Wrap(s.port.Close(), "closing serial link")
}
