// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var (
	checkCount         int
	checkInterval      time.Duration
	checkItem          string
	checkShowAll       bool
	checkStatsInterval time.Duration
)

var linkCheckCmd = &cobra.Command{
	Use:   "link_check",
	Short: "Exercise the link and track exchange errors",
	Long: `Repeatedly request a telemetry frame and track the outcome of every exchange.

This command detects:
  - Reply timeouts and malformed frames
  - Device status errors (invalid ID, incorrect length, ...)
  - Replies that belong to a different request
  - Anomalous telemetry values (wheel speed, temperatures, unit vectors)

By default, only errors are displayed. Use --show-all to display valid replies too.
Statistics are printed periodically and once more on exit.`,
	RunE: runLinkCheck,
}

func init() {
	rootCmd.AddCommand(linkCheckCmd)
	linkCheckCmd.Flags().IntVar(&checkCount, "count", 0, "Number of requests (0 runs until interrupted)")
	linkCheckCmd.Flags().DurationVar(&checkInterval, "interval", 200*time.Millisecond, "Delay between requests")
	linkCheckCmd.Flags().StringVar(&checkItem, "item", "node_identification", "Telemetry to request")
	linkCheckCmd.Flags().BoolVar(&checkShowAll, "show-all", false, "Show all replies (not just errors)")
	linkCheckCmd.Flags().DurationVar(&checkStatsInterval, "stats-interval", 10*time.Second, "Statistics update interval")
}

// printExchangeError prints a failed exchange in highlighted format
func printExchangeError(name string, err error) {
	timestamp := time.Now().Format("15:04:05.000")
	if status, ok := adcs.StatusOf(err); ok {
		fmt.Printf("[%s] \033[1;33mSTATUS ERROR:\033[0m %s returned %s\n\n", timestamp, name, status.String())
		return
	}
	fmt.Printf("[%s] \033[1;31mEXCHANGE ERROR:\033[0m %v\n", timestamp, err)
	fmt.Printf("  >>> REQUEST FAILED <<<\n\n")
}

// printAnomalies prints implausible values in a decoded reply
func printAnomalies(name string, anomalies []adcs.Anomaly) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;33mVALIDATION ERROR:\033[0m %s\n", timestamp, name)
	for i, a := range anomalies {
		fmt.Printf("  Issue %d: \033[1;33m%s\033[0m (%s)\n", i+1, a.Message, a.Field)
	}
	fmt.Printf("  >>> VALUE REJECTED <<<\n\n")
}

func runLinkCheck(cmd *cobra.Command, args []string) error {
	if _, ok := adcs.LookupTelemetry(checkItem); !ok {
		return fmt.Errorf("unknown telemetry %q", checkItem)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("adcsctl - Link Check\n")
	fmt.Printf("Connection: %s\n", s.info)
	fmt.Printf("Request: %s every %s\n", checkItem, checkInterval)
	fmt.Printf("Statistics interval: %s\n", checkStatsInterval)
	if checkShowAll {
		fmt.Printf("Mode: All replies\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	statsTicker := time.NewTicker(checkStatsInterval)
	defer statsTicker.Stop()

loop:
	for n := 0; checkCount == 0 || n < checkCount; n++ {
		var value any
		err := s.do(func(c *adcs.Client) error {
			var err error
			_, value, err = c.Request(checkItem)
			if err == nil {
				anomalies := adcs.ValidateTelemetry(value)
				c.Stats().AddAnomalies(anomalies)
				if len(anomalies) > 0 {
					printAnomalies(checkItem, anomalies)
				}
			}
			return err
		})
		if err != nil {
			printExchangeError(checkItem, err)
		} else if checkShowAll {
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), checkItem)
			fmt.Print(adcs.FormatTelemetry(value))
		}

		select {
		case <-ctx.Done():
			break loop
		case <-statsTicker.C:
			st := s.stats()
			fmt.Println()
			fmt.Print(st.String())
			fmt.Println()
		case <-time.After(checkInterval):
		}
	}

	st := s.stats()
	fmt.Println()
	fmt.Print(st.String())

	if st.Errors() > 0 {
		return fmt.Errorf("%d of %d exchanges failed", st.Errors(), st.Total())
	}
	return nil
}
