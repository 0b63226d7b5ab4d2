// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/auroralink/auroralink/internal/driver"
)

// fileConfig mirrors driver.Config/driver.ToolConfig with JSON tags; the
// core package never depends on encoding/json itself, per its rule that
// configuration loading is an external concern.
type fileConfig struct {
	SerialPort              string           `json:"serial-port"`
	DefinitionPaths         []string         `json:"definition-paths"`
	Tools                   []fileToolConfig `json:"tools"`
	TrackingPeriodMS        int              `json:"tracking-period-ms"`
	MaxTransientZeroRetries *int             `json:"max-transient-zero-retries"`
	MaxDroppedTicks         int              `json:"max-dropped-ticks"`
}

type fileToolConfig struct {
	Name           string  `json:"name"`
	SerialNumber   string  `json:"serial-number"`
	DefinitionPath string  `json:"definition-path"`
	TooltipOffsetX float64 `json:"tooltip-offset-x"`
	TooltipOffsetY float64 `json:"tooltip-offset-y"`
	TooltipOffsetZ float64 `json:"tooltip-offset-z"`
}

// loadConfig reads path, if non-empty, into a driver.Config seeded with
// DefaultConfig's tunables; otherwise it returns DefaultConfig unchanged.
// portOverride, when non-empty, always wins over the file's serial-port.
func loadConfig(path, portOverride string) (driver.Config, error) {
	cfg := driver.DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading config %s", path)
		}
		var fc fileConfig
		if err := json.Unmarshal(raw, &fc); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %s", path)
		}

		cfg.SerialPort = fc.SerialPort
		cfg.DefinitionPaths = fc.DefinitionPaths
		if fc.TrackingPeriodMS > 0 {
			cfg.TrackingPeriodMS = fc.TrackingPeriodMS
		}
		if fc.MaxDroppedTicks > 0 {
			cfg.MaxDroppedTicks = fc.MaxDroppedTicks
		}
		if fc.MaxTransientZeroRetries != nil {
			cfg.MaxTransientZeroRetries = *fc.MaxTransientZeroRetries
		}

		cfg.Tools = make([]driver.ToolConfig, len(fc.Tools))
		for i, t := range fc.Tools {
			cfg.Tools[i] = driver.ToolConfig{
				Name:           t.Name,
				SerialNumber:   t.SerialNumber,
				DefinitionPath: t.DefinitionPath,
				TooltipOffsetX: t.TooltipOffsetX,
				TooltipOffsetY: t.TooltipOffsetY,
				TooltipOffsetZ: t.TooltipOffsetZ,
			}
		}
	}

	if portOverride != "" {
		cfg.SerialPort = portOverride
	}
	return cfg, nil
}
