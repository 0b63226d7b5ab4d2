// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

// ToolConfig describes one tool to register at bring-up, as supplied by
// an external configuration loader.
type ToolConfig struct {
	Name           string
	SerialNumber   string
	DefinitionPath string

	// TooltipOffset is the rigid translation, in millimetres, applied to
	// the tool's local frame after orientation to yield the tip
	// position. The zero value disables the offset.
	TooltipOffsetX, TooltipOffsetY, TooltipOffsetZ float64
}

// Config is the plain record an external loader (the CLI host's JSON
// reader, in this repository) populates before constructing a Driver. The
// core never reads a configuration file itself.
type Config struct {
	// SerialPort is the device path to use. Empty triggers discovery.
	SerialPort string

	// DefinitionPaths is the ordered list of directories searched for a
	// tool's .rom file when DefinitionPath is not absolute.
	DefinitionPaths []string

	Tools []ToolConfig

	// TrackingPeriodMS is the tracking loop's fixed tick period. Zero
	// selects the default of 20ms (50Hz).
	TrackingPeriodMS int

	// MaxTransientZeroRetries bounds the depth of the
	// initialize+query retry triggered by a PHINF serial_number of
	// "00000000" (the Aurora USB transient fault). Zero disables the
	// workaround entirely.
	MaxTransientZeroRetries int

	// MaxDroppedTicks is the number of consecutive dropped TX ticks
	// (timeouts, bad CRCs or framing errors) while tracking at which the
	// driver closes the link, moves to Disconnected and emits
	// Connected(""); bring-up is not re-run. Zero selects the default of 10.
	MaxDroppedTicks int
}

const (
	defaultTrackingPeriodMS    = 20
	defaultMaxDroppedTicks     = 10
	defaultMaxTransientRetries = 3
)

func (c Config) trackingPeriodMS() int {
	if c.TrackingPeriodMS <= 0 {
		return defaultTrackingPeriodMS
	}
	return c.TrackingPeriodMS
}

func (c Config) maxDroppedTicks() int {
	if c.MaxDroppedTicks <= 0 {
		return defaultMaxDroppedTicks
	}
	return c.MaxDroppedTicks
}

// DefaultConfig returns a Config with the recommended defaults for every
// tunable, including the transient-zero-serial retry bound. Callers that
// want the historical "never bounded" behavior's opposite — disabling the
// workaround outright — should start from this and set
// MaxTransientZeroRetries to 0 explicitly.
func DefaultConfig() Config {
	return Config{
		TrackingPeriodMS:        defaultTrackingPeriodMS,
		MaxDroppedTicks:         defaultMaxDroppedTicks,
		MaxTransientZeroRetries: defaultMaxTransientRetries,
	}
}
