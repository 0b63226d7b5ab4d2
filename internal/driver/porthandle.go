// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

const phrqPlaceholder = "*********1****" // 14-char request form, a fixed handle-assignment placeholder.

const transientZeroRetryDelay = 500 * time.Millisecond

// loadPassiveToolDefinitions requests a port handle for every registered
// tool that names a .rom definition, then uploads it in 64-byte chunks.
func (d *Driver) loadPassiveToolDefinitions() error {
	for _, tool := range d.registry.ToolsWithDefinition() {
		if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbPHRQ+" "+phrqPlaceholder, false); err != nil {
			return err
		}
		payload, err := ndiproto.ReadResponse(d.link, &d.buf)
		if err != nil {
			return errors.Wrapf(err, "PHRQ for tool %s", tool.Name)
		}
		if len(payload) < 2 {
			return ndiproto.ErrShortResponse
		}
		handle := string(payload[:2])
		d.registry.BindPortHandle(tool.SerialNumber, handle)

		if err := d.uploadROM(handle, tool.DefinitionPath); err != nil {
			d.log.Warnw("skipping passive tool definition upload", "tool", tool.Name, "error", err)
			continue
		}
	}
	return nil
}

func (d *Driver) uploadROM(handle, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading definition %s", path)
	}
	chunks, err := ndiproto.ChunkROM(data)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		body := ndiproto.VerbPVWR + " " + handle + ndiproto.FormatROMAddress(chunk.Address) + chunk.HexData
		// PVWR is a bulk command; per the open question on outgoing CRC,
		// we append it here since some firmware rejects the plain form
		// for multi-byte payload writes.
		if err := ndiproto.SendCommand(d.link, &d.buf, body, true); err != nil {
			return err
		}
		if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
			return errors.Wrapf(err, "PVWR chunk at %04X", chunk.Address)
		}
	}
	return nil
}

// runInitializeAndQuery drives the initialize→query→enable port-handle
// passes, retrying from the top when PHINF reports a transient all-zero
// serial number (the known Aurora USB fault), bounded at
// cfg.MaxTransientZeroRetries.
func (d *Driver) runInitializeAndQuery(depth int) error {
	if err := d.freeAndInitializePortHandles(); err != nil {
		return err
	}
	err := d.queryAndBindPortHandles()
	if errors.Is(err, ndiproto.ErrTransientZeroSerial) {
		if depth >= d.cfg.MaxTransientZeroRetries {
			return errors.Wrap(err, "transient zero serial retry limit exceeded")
		}
		d.log.Warnw("transient zero serial number, retrying", "depth", depth)
		time.Sleep(transientZeroRetryDelay)
		return d.runInitializeAndQuery(depth + 1)
	}
	if err != nil {
		return err
	}
	return d.enablePortHandles()
}

// freeAndInitializePortHandles frees any handle the device reports as
// stale (PHSR 01 → PHF) and then initializes every handle pending
// initialization (PHSR 02 → PINIT).
func (d *Driver) freeAndInitializePortHandles() error {
	toFree, err := d.queryPHSR(ndiproto.PHSRHandlesToFree)
	if err != nil {
		return errors.Wrap(err, "PHSR 01")
	}
	for _, rec := range toFree {
		if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbPHF+" "+rec.Handle, false); err != nil {
			return err
		}
		if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
			return errors.Wrapf(err, "PHF %s", rec.Handle)
		}
		d.registry.ReleasePortHandle(rec.Handle)
	}

	toInit, err := d.queryPHSR(ndiproto.PHSRHandlesToInitialize)
	if err != nil {
		return errors.Wrap(err, "PHSR 02")
	}
	for _, rec := range toInit {
		if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbPINIT+" "+rec.Handle, false); err != nil {
			return err
		}
		if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
			return errors.Wrapf(err, "PINIT %s", rec.Handle)
		}
	}
	return nil
}

// queryAndBindPortHandles reads metadata for every handle pending enable
// via PHINF, binding each to a registry Tool (auto-registering one if the
// serial number is new).
func (d *Driver) queryAndBindPortHandles() error {
	toEnable, err := d.queryPHSR(ndiproto.PHSRHandlesToEnable)
	if err != nil {
		return errors.Wrap(err, "PHSR 03")
	}
	for _, rec := range toEnable {
		info, err := d.queryPHINF(rec.Handle)
		if err != nil {
			return err
		}
		tool, ok := d.registry.ToolBySerial(info.SerialNumber)
		if !ok {
			autoName := info.MainType + "-" + info.SerialNumber
			tool, err = d.registry.AddTool(autoName, info.SerialNumber, "", ndiVector(0, 0, 0))
			if err != nil {
				return err
			}
		}
		tool.MainType = info.MainType
		tool.ManufacturerID = info.ManufacturerID
		tool.ToolRevision = info.ToolRevision
		tool.PartNumber = info.PartNumber
		d.registry.BindPortHandle(info.SerialNumber, rec.Handle)
	}
	return nil
}

// enablePortHandles re-queries PHSR 03 and issues PENA for each handle,
// deriving the mode byte from the bound tool's main_type.
func (d *Driver) enablePortHandles() error {
	toEnable, err := d.queryPHSR(ndiproto.PHSRHandlesToEnable)
	if err != nil {
		return errors.Wrap(err, "PHSR 03")
	}
	for _, rec := range toEnable {
		tool, ok := d.registry.ToolByPortHandle(rec.Handle)
		if !ok {
			continue
		}
		mode, ok := ndiproto.PENAMode(tool.MainType)
		if !ok {
			d.log.Warnw("unknown tool type, skipping enable", "handle", rec.Handle, "mainType", tool.MainType)
			continue
		}
		body := ndiproto.VerbPENA + " " + rec.Handle + string(mode)
		if err := ndiproto.SendCommand(d.link, &d.buf, body, false); err != nil {
			return err
		}
		if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
			return errors.Wrapf(err, "PENA %s", rec.Handle)
		}
	}
	return nil
}

func (d *Driver) queryPHSR(query string) ([]ndiproto.PHSRRecord, error) {
	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbPHSR+" "+query, false); err != nil {
		return nil, err
	}
	payload, err := ndiproto.ReadResponse(d.link, &d.buf)
	if err != nil {
		return nil, err
	}
	return ndiproto.ParsePHSR(payload)
}

func (d *Driver) queryPHINF(handle string) (ndiproto.PHINFReply, error) {
	const phinfOptions = "0021"
	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbPHINF+" "+handle+phinfOptions, false); err != nil {
		return ndiproto.PHINFReply{}, err
	}
	payload, err := ndiproto.ReadResponse(d.link, &d.buf)
	if err != nil {
		return ndiproto.PHINFReply{}, err
	}
	info, err := ndiproto.ParsePHINF(payload)
	if err != nil && !errors.Is(err, ndiproto.ErrTransientZeroSerial) {
		return ndiproto.PHINFReply{}, err
	}
	return info, err
}

// ListTools reports every currently assigned port handle via PHSR 00,
// the read-only enumeration the control surface uses for a point-in-time
// inventory without mutating any state.
func (d *Driver) ListTools() ([]ndiproto.PHSRRecord, error) {
	var records []ndiproto.PHSRRecord
	err := d.submit(func(d *Driver) error {
		if d.state == Disconnected {
			return ErrNotConnected
		}
		var err error
		records, err = d.queryPHSR(ndiproto.PHSRAllHandles)
		return err
	})
	return records, err
}
