// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// configPath names the JSON configuration file describing the serial
	// port, tool definitions, and tracking tunables. Empty uses an
	// all-defaults Config with discovery on the usual candidate ports.
	configPath string

	// portOverride, when set, takes precedence over the configuration
	// file's serial-port field.
	portOverride string
)

var rootCmd = &cobra.Command{
	Use:   "auroralink",
	Short: "NDI Polaris/Aurora optical tracker driver",
	Long: `auroralink - a CLI driver for NDI Polaris/Aurora optical tracking systems.

Handles device discovery, port-handle bring-up, passive tool definition
upload, and transformation streaming over the NDI ASCII serial protocol.

Connection:
  --config path/to/config.json   load serial port, tool, and tunable settings
  --port /dev/ttyUSB0             override the configured serial port

With no --port and no configured serial-port, the driver probes the usual
candidate devices and waits for the unit's post-break RESET banner.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON configuration file")
	rootCmd.PersistentFlags().StringVarP(&portOverride, "port", "p", "", "Serial port device (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
