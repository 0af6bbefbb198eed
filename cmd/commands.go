// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var listCmd = &cobra.Command{
	Use:   "list [tc|tm]",
	Short: "List telecommands and telemetry",
	Long: `Print the command and telemetry table with IDs and lengths.

Telecommand lengths include the ID byte; telemetry lengths are the
payload size. Telecommands that 'adcsctl tc' can send show their arguments.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"tc", "tm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := ""
		if len(args) == 1 {
			kind = args[0]
		}
		fmt.Print(formatCommandList(kind))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// formatCommandList renders the command table filtered by kind ("tc",
// "tm" or empty for both)
func formatCommandList(kind string) string {
	var sb strings.Builder
	for _, c := range adcs.Commands() {
		if kind != "" && !strings.EqualFold(kind, c.Kind.String()) {
			continue
		}
		fmt.Fprintf(&sb, "%s %3d  %-32s len=%-3d", c.Kind, c.ID, c.Name, c.Length)
		if c.Kind == adcs.KindTelecommand {
			if tc, ok := telecommands[c.Name]; ok && tc.usage != "" {
				fmt.Fprintf(&sb, " %s", tc.usage)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
