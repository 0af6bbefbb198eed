// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
	"github.com/Thermoquad/adcsctl/pkg/archive"
)

var (
	historyDB     string
	historySince  time.Duration
	historyLimit  int
	historyLatest bool
	historyDecode bool
	historyPrune  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Query the telemetry archive",
	Long: `Print archived telemetry captured by 'adcsctl record'.

Without a name every telemetry item is listed. No device connection is needed.

Examples:
  adcsctl history --since 1h
  adcsctl history current_state --latest --decode
  adcsctl history --prune 720h`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyDB, "db", "adcs.db", "SQLite archive path")
	historyCmd.Flags().DurationVar(&historySince, "since", 24*time.Hour, "Show records captured within this window")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 100, "Maximum records to print (0 for no limit)")
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "Show only the newest record (requires a name)")
	historyCmd.Flags().BoolVar(&historyDecode, "decode", false, "Print decoded fields for each record")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete records older than this age instead of listing")
}

func printArchived(row *archive.TelemetryRecord) error {
	rec, err := row.Record()
	if err != nil {
		return err
	}
	if historyDecode {
		fmt.Print(adcs.FormatRecord(rec))
	} else {
		fmt.Printf("[%s] %s (%d) % X\n",
			rec.Timestamp().Format("2006-01-02 15:04:05.000"), rec.Name, rec.ID, rec.Raw)
	}
	if row.Anomalies > 0 {
		fmt.Printf("  ! %d anomalous values\n", row.Anomalies)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
		if _, ok := adcs.LookupTelemetry(name); !ok {
			return fmt.Errorf("unknown telemetry %q", name)
		}
	}

	db, err := archive.NewDB(archive.Config{Path: historyDB})
	if err != nil {
		return err
	}
	defer db.Close()
	repo := archive.NewRepository(db.GetDB())

	if historyPrune > 0 {
		n, err := repo.Prune(time.Now().Add(-historyPrune))
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d records older than %s\n", n, historyPrune)
		return nil
	}

	if historyLatest {
		if name == "" {
			return fmt.Errorf("--latest requires a telemetry name")
		}
		row, err := repo.Latest(name)
		if errors.Is(err, archive.ErrNotFound) {
			fmt.Printf("No %s records in %s\n", name, historyDB)
			return nil
		}
		if err != nil {
			return err
		}
		return printArchived(row)
	}

	now := time.Now()
	rows, err := repo.Range(name, now.Add(-historySince), now, historyLimit)
	if err != nil {
		return err
	}
	for i := range rows {
		if err := printArchived(&rows[i]); err != nil {
			return err
		}
	}

	count, err := repo.Count(name)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d shown, %d stored\n", len(rows), count)
	return nil
}
