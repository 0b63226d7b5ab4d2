// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

const (
	breakAssertDuration  = 500 * time.Millisecond
	breakSettleMargin    = 500 * time.Millisecond
	resetAwaitTimeout    = 5 * time.Second
)

// candidatePorts builds the platform-dependent list of device paths to
// try when no serial-port is configured explicitly.
func candidatePorts() []string {
	switch runtime.GOOS {
	case "windows":
		ports := make([]string, 0, 256)
		for i := 1; i <= 256; i++ {
			ports = append(ports, "COM"+strconv.Itoa(i))
		}
		return ports
	case "darwin":
		return globAny("/dev/tty*", "/dev/cu*")
	default:
		return globAny("/dev/ttyS*", "/dev/ttyUSB*")
	}
}

func globAny(patterns ...string) []string {
	var out []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(pat)
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	return out
}

// discover tries, in order, a single configured port name or the full
// platform candidate list, opening each at 9600-8-N-1-NoFlow, asserting a
// break, and awaiting a CRC-checked RESET reply. The first candidate to
// answer is returned open and latched; its read timeout is left at
// resetAwaitTimeout, not restored to its previous value. ErrNoDevice is
// returned if every candidate fails.
func discover(configuredPort string, log *zap.SugaredLogger) (ndiproto.Link, string, error) {
	candidates := []string{configuredPort}
	if configuredPort == "" {
		candidates = candidatePorts()
	}

	for _, name := range candidates {
		if name == "" {
			continue
		}
		log.Debugw("trying candidate port", "port", name)
		link, err := OpenSerialLink(name, ndiproto.DiscoveryParams)
		if err != nil {
			log.Debugw("candidate port failed to open", "port", name, "error", err)
			continue
		}

		ok := awaitReset(link, log)
		if ok {
			log.Infow("device responded to reset", "port", name)
			return link, name, nil
		}

		if closer, ok := link.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	return nil, "", errors.Wrap(ErrNoDevice, "discovery exhausted all candidates")
}

func awaitReset(link ndiproto.Link, log *zap.SugaredLogger) bool {
	if err := link.Break(breakAssertDuration); err != nil {
		log.Debugw("break assertion failed", "error", err)
		return false
	}
	time.Sleep(breakAssertDuration + breakSettleMargin)

	var buf ndiproto.Buffer
	payload, err := ndiproto.ReadResponseDeadline(link, &buf, resetAwaitTimeout)
	if err != nil {
		return false
	}
	return string(payload) == "RESET"
}
