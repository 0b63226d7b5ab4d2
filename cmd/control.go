// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	goutils "go.viam.com/utils"

	"github.com/auroralink/auroralink/internal/driver"
)

// newDriver loads configuration, builds a logger, and starts the tick
// loop in the background. Callers are responsible for calling Connect and
// for cancelling the returned context when done.
func newDriver() (*driver.Driver, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig(configPath, portOverride)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, err
	}
	sugared := logger.Sugar()

	events := driver.Events{
		Connected: func(port string) {
			if port == "" {
				sugared.Warnw("disconnected")
			} else {
				sugared.Infow("connected", "port", port)
			}
		},
		Tracking: func(on bool) {
			sugared.Infow("tracking", "on", on)
		},
		ToolsUpdated: func() {
			sugared.Infow("tools updated")
		},
		VersionInfo: func(index, payload string) {
			sugared.Infow("version", "index", index, "payload", payload)
		},
	}

	d := driver.New(cfg, sugared, events)

	ctx, cancel := context.WithCancel(context.Background())
	goutils.PanicCapturingGo(func() { d.Run(ctx) })

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return d, ctx, cancel, nil
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Discover the tracker, run bring-up, and stream tool poses",
	Long: `Connect discovers the NDI unit (or opens the configured port), runs the
COMM/INIT/VER/port-handle bring-up sequence, starts tracking, and opens a
live terminal view of every registered tool's pose.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, cancel, err := newDriver()
		if err != nil {
			return err
		}
		defer cancel()

		if err := d.Connect(portOverride); err != nil {
			return err
		}
		if err := d.ToggleTracking(true); err != nil {
			return err
		}

		p := tea.NewProgram(newWatchModel(d))
		_, err = p.Run()
		return err
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Connect and list currently assigned port handles (PHSR 00)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, cancel, err := newDriver()
		if err != nil {
			return err
		}
		defer cancel()

		if err := d.Connect(portOverride); err != nil {
			return err
		}
		records, err := d.ListTools()
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%s  %s\n", r.Handle, r.Status)
		}
		return nil
	},
}

var beepCmd = &cobra.Command{
	Use:   "beep [count]",
	Short: "Connect and sound the tracker's beeper 1-9 times",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid beep count %q", args[0])
			}
			n = v
		}

		d, _, cancel, err := newDriver()
		if err != nil {
			return err
		}
		defer cancel()

		if err := d.Connect(portOverride); err != nil {
			return err
		}
		return d.Beep(n)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(beepCmd)
}
