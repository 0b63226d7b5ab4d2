// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

const (
	commSettleDelay    = 200 * time.Millisecond
	steadyReadTimeout  = 2 * time.Second
	bringupReadTimeout = 5 * time.Second
	requiredFirmware   = "024"
)

// Connect runs discovery (if port is empty, auto-scan) and the full
// bring-up sequence, enqueued on the driver's mailbox so it never races
// with an in-progress tick.
func (d *Driver) Connect(port string) error {
	return d.submit(func(d *Driver) error {
		return d.connect(port)
	})
}

func (d *Driver) connect(port string) error {
	d.setState(Opening)
	if port == "" {
		port = d.cfg.SerialPort
	}

	link, name, err := discover(port, d.log)
	if err != nil {
		d.setState(Disconnected)
		d.emitConnected("")
		return errors.Wrap(err, "discovery")
	}
	d.link = link
	d.portName = name

	d.setState(Resetting)
	if err := d.runBringup(); err != nil {
		d.log.Errorw("bring-up failed", "error", err)
		d.closeLinkIfOpen()
		d.setState(Disconnected)
		d.emitConnected("")
		return err
	}

	if err := d.link.SetReadTimeout(steadyReadTimeout); err != nil {
		d.closeLinkIfOpen()
		d.setState(Disconnected)
		d.emitConnected("")
		return errors.Wrap(err, "setting steady read timeout")
	}

	d.setState(Ready)
	d.emitConnected(d.portName)
	d.emitToolsUpdated()
	return nil
}

// runBringup negotiates link parameters, initializes the device, checks
// firmware, and drives the full port-handle lifecycle for every
// configured tool.
func (d *Driver) runBringup() error {
	d.setState(Initializing)

	if err := d.link.SetReadTimeout(bringupReadTimeout); err != nil {
		return errors.Wrap(err, "setting bring-up read timeout")
	}

	if err := d.negotiateCOMM(); err != nil {
		return errors.Wrap(err, "COMM negotiation")
	}

	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbINIT, false); err != nil {
		return errors.Wrap(err, "sending INIT")
	}
	if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
		return errors.Wrap(err, "INIT reply")
	}

	for _, idx := range []string{"0", "3", "4"} {
		payload, err := d.queryVersion(idx)
		if err != nil {
			return errors.Wrapf(err, "VER %s", idx)
		}
		if d.events.VersionInfo != nil {
			d.events.VersionInfo(idx, payload)
		}
	}

	fw, err := d.queryVersion("5")
	if err != nil {
		return errors.Wrap(err, "VER 5")
	}
	if d.events.VersionInfo != nil {
		d.events.VersionInfo("5", fw)
	}
	if fw != requiredFirmware {
		return errors.Wrapf(ErrUnsupportedFirmware, "got %q, want %q", fw, requiredFirmware)
	}

	if err := d.registerConfiguredTools(); err != nil {
		return errors.Wrap(err, "registering configured tools")
	}
	if err := d.loadPassiveToolDefinitions(); err != nil {
		return errors.Wrap(err, "loading passive tool definitions")
	}
	if err := d.runInitializeAndQuery(0); err != nil {
		return errors.Wrap(err, "initialize/query/enable port handles")
	}
	return nil
}

func (d *Driver) queryVersion(index string) (string, error) {
	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbVER+" "+index, false); err != nil {
		return "", err
	}
	payload, err := ndiproto.ReadResponse(d.link, &d.buf)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// negotiateCOMM issues COMM at the current (9600) baud, then reconfigures
// the host link to match once the device confirms.
func (d *Driver) negotiateCOMM() error {
	args, ok := ndiproto.FormatCOMMArgs(ndiproto.DefaultBringupParams)
	if !ok {
		return errors.New("no encoding for bring-up link parameters")
	}
	if err := ndiproto.SendCommand(d.link, &d.buf, ndiproto.VerbCOMM+" "+args, false); err != nil {
		return err
	}
	if _, err := ndiproto.ResponseRead(d.link, &d.buf, "OKAY"); err != nil {
		return err
	}

	time.Sleep(commSettleDelay)
	if err := d.link.SetMode(ndiproto.DefaultBringupParams); err != nil {
		return err
	}
	time.Sleep(commSettleDelay)
	return nil
}

// registerConfiguredTools adds every tool named in the driver's
// configuration to the registry, resolving relative definition paths
// against the configured definition-path list.
func (d *Driver) registerConfiguredTools() error {
	for _, tc := range d.cfg.Tools {
		offset := ndiVector(tc.TooltipOffsetX, tc.TooltipOffsetY, tc.TooltipOffsetZ)
		path := resolveDefinitionPath(tc.DefinitionPath, d.cfg.DefinitionPaths)
		if _, err := d.registry.AddTool(tc.Name, tc.SerialNumber, path, offset); err != nil {
			return err
		}
	}
	return nil
}
