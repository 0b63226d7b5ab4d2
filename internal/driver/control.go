// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

const (
	beepMaxRetries  = 5
	beepRetryDelay  = 100 * time.Millisecond
	toggleSettleDelay = 500 * time.Millisecond
)

// Disconnect closes the link and returns the driver to Disconnected,
// emitting Connected("").
func (d *Driver) Disconnect() error {
	return d.submit(func(d *Driver) error {
		d.closeLinkIfOpen()
		d.isTracking = false
		d.setState(Disconnected)
		d.emitConnected("")
		return nil
	})
}

// Beep sends BEEP n (n in 1..9), retrying while the device reports busy,
// bounded at beepMaxRetries attempts.
func (d *Driver) Beep(n int) error {
	if n < 1 || n > 9 {
		return ErrInvalidBeepCount
	}
	return d.submit(func(d *Driver) error {
		if d.state == Disconnected {
			return ErrNotConnected
		}
		for attempt := 0; attempt < beepMaxRetries; attempt++ {
			if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbBEEP+" "+beepArg(n), false); err != nil {
				return err
			}
			payload, err := ndiproto.ReadResponse(d.link, &d.buf)
			if err != nil {
				return err
			}
			switch {
			case len(payload) > 0 && payload[0] == '1':
				return nil
			case len(payload) > 0 && payload[0] == '0':
				time.Sleep(beepRetryDelay)
				continue
			default:
				return ErrUnexpectedResponse
			}
		}
		return ErrUnexpectedResponse
	})
}

func beepArg(n int) string {
	return string([]byte{byte('0' + n)})
}

// ToggleTracking starts or stops the tracking loop.
func (d *Driver) ToggleTracking(on bool) error {
	return d.submit(func(d *Driver) error {
		if d.state == Disconnected {
			return ErrNotConnected
		}
		if on {
			if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbTSTART+" 80", false); err != nil {
				return err
			}
			if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
				return errors.Wrap(err, "TSTART")
			}
			d.isTracking = true
			d.setState(Tracking)
		} else {
			if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbTSTOP, false); err != nil {
				return err
			}
			if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
				return errors.Wrap(err, "TSTOP")
			}
			d.isTracking = false
			d.setState(Ready)
		}
		time.Sleep(toggleSettleDelay)
		d.emitTracking(d.isTracking)
		return nil
	})
}

// ToggleStray enables or disables continuous stray-marker reporting on
// every subsequent tracking tick.
func (d *Driver) ToggleStray(on bool) error {
	return d.submit(func(d *Driver) error {
		d.trackStrayMarkers = on
		return nil
	})
}

// ReportStrayMarkers requests exactly one tick's worth of stray-marker
// data without committing to continuous publication: if stray tracking is
// already on this is a no-op (the next tick already reports them),
// otherwise the 0x1000 bit is set for exactly one tick and then cleared.
func (d *Driver) ReportStrayMarkers() error {
	return d.submit(func(d *Driver) error {
		if d.state == Disconnected {
			return ErrNotConnected
		}
		if !d.trackStrayMarkers {
			d.pendingOneShotStray = true
		}
		return nil
	})
}
