package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"codemap/internal/analysis"
	"codemap/internal/check"
	"codemap/internal/git"
	"codemap/internal/report"
	"codemap/internal/storage"

	"github.com/spf13/cobra"
)

var (
	checkMap          string
	checkDB           string
	checkChangedSince string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when the dead-code report exceeds the configured limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fmt.Println("🔍 Checking for dead code...")

		rep, err := loadReport(ctx, cmd)
		if err != nil {
			return err
		}

		if checkChangedSince != "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			changed, err := git.ChangedPaths(ctx, cwd, checkChangedSince)
			if err != nil {
				return err
			}
			filtered := check.FilterChanged(*rep, changed)
			rep = &filtered
			fmt.Printf("🔎 Limited to %d files changed since %s\n", len(changed), checkChangedSince)
		}

		base, _ := os.Getwd()
		return check.Run(os.Stdout, os.Stderr, base, *rep, cfg.Check)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkMap, "map", "", "Code map JSON to check (default from config, code-map.json)")
	checkCmd.Flags().StringVar(&checkDB, "db", "", "Read the report from a SQLite snapshot instead of the code map")
	checkCmd.Flags().StringVar(&checkChangedSince, "changed-since", "", "Only gate files changed relative to this git ref")
}

func loadReport(ctx context.Context, cmd *cobra.Command) (*analysis.DeadReport, error) {
	if checkDB != "" {
		store, err := storage.NewSQLiteStore(checkDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		return store.LoadReport(ctx)
	}

	path := cfg.Output.Path
	if cmd.Flags().Changed("map") {
		path = checkMap
	}
	m, err := report.Read(path)
	if errors.Is(err, report.ErrMapNotFound) {
		return nil, fmt.Errorf("%w\n   Run: codemap scan -o %s", err, path)
	}
	if err != nil {
		return nil, err
	}
	rep, err := m.DeadReport()
	if err != nil {
		return nil, fmt.Errorf("%w\n   Re-run codemap scan to regenerate %s", err, path)
	}
	return rep, nil
}
