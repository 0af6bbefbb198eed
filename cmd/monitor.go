// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive housekeeping monitor",
	Long: `Poll housekeeping telemetry and display it in a terminal UI.

The monitor reads the attitude state, measurements, power and temperature
blocks and the node identification every --interval, flags implausible
values and keeps a running event log.

Telecommands can be typed into the command line at the bottom of the screen
using the same syntax as 'adcsctl tc', for example:
  set_wheel_speed 630 786 912

Keys:
  enter   - Send the typed telecommand
  esc     - Clear the command line
  ctrl+c  - Quit`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 2*time.Second, "Housekeeping poll interval")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	m := initialMonitorModel(s, monitorInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
