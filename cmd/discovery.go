// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoveryCmd = &cobra.Command{
	Use:   "discover",
	Short: "Probe candidate serial ports for an NDI unit and report the one found",
	Long: `Discover scans the platform's usual candidate serial devices (or the
configured/overridden port alone), asserts a break, and waits for the
unit's post-break RESET banner. It runs bring-up and immediately
disconnects, printing the port that answered.

Exit codes:
  0 - a unit was found and answered bring-up
  1 - no unit answered on any candidate port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, cancel, err := newDriver()
		if err != nil {
			return err
		}
		defer cancel()

		if err := d.Connect(portOverride); err != nil {
			fmt.Fprintf(os.Stderr, "no unit found: %v\n", err)
			os.Exit(1)
		}

		snap := d.Snapshot()
		fmt.Printf("found unit, state=%s\n", snap.State.String())
		return d.Disconnect()
	},
}

func init() {
	rootCmd.AddCommand(discoveryCmd)
}
