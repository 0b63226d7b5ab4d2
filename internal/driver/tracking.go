// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"github.com/pkg/errors"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

// trackOnce issues one TX round-trip and publishes the decoded poses into
// the registry. A read timeout, bad CRC or framing error simply drops this
// tick; enough
// consecutive drops are treated as a possible device reset/unplug.
func (d *Driver) trackOnce() error {
	withStrays := d.trackStrayMarkers || d.pendingOneShotStray

	bits := ndiproto.TXTransformationData
	if withStrays {
		bits |= ndiproto.TXStrayMarkers
	}

	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbTX+" "+formatTXBits(bits), false); err != nil {
		return d.handleTrackingError(err)
	}
	payload, err := ndiproto.ReadResponse(d.link, &d.buf)
	if err != nil {
		return d.handleTrackingError(err)
	}

	reply, err := ndiproto.ParseTX(payload, withStrays)
	if err != nil {
		return d.handleTrackingError(err)
	}

	d.droppedTicks = 0
	d.applyTXReply(reply)

	if d.pendingOneShotStray {
		d.pendingOneShotStray = false
	}
	return nil
}

func (d *Driver) applyTXReply(reply ndiproto.TXReply) {
	for _, row := range reply.Rows {
		tool, ok := d.registry.ToolByPortHandle(row.Handle)
		if !ok {
			continue
		}
		tool.ErrorRMS = row.ErrorRMS
		tool.FrameNumber = row.FrameNumber
		tool.ApplyTooltipOffset(row.Pose)
	}
	if reply.StrayCount > 0 || d.trackStrayMarkers || d.pendingOneShotStray {
		d.lastStrayMarkers = reply.Strays
	}
}

// handleTrackingError classifies a failure from a TX round-trip: timeouts,
// bad CRCs and missing frame terminators are transient and are counted
// toward the dropped-tick threshold; other errors are not counted. Every
// error is returned unchanged.
func (d *Driver) handleTrackingError(err error) error {
	if errors.Is(err, ndiproto.ErrTimeout) || errors.Is(err, ndiproto.ErrBadCRC) || errors.Is(err, ndiproto.ErrProtocolFraming) {
		d.droppedTicks++
		if d.droppedTicks >= d.cfg.maxDroppedTicks() {
			d.log.Warnw("too many dropped ticks, treating as disconnect", "dropped", d.droppedTicks)
			d.closeLinkIfOpen()
			d.isTracking = false
			d.setState(Disconnected)
			d.emitConnected("")
			d.droppedTicks = 0
		}
		return err
	}
	return err
}

func formatTXBits(bits uint16) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{
		hex[(bits>>12)&0xF],
		hex[(bits>>8)&0xF],
		hex[(bits>>4)&0xF],
		hex[bits&0xF],
	})
}
