package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"codemap/internal/extractor"
	"codemap/internal/report"
	"codemap/internal/storage"

	"github.com/spf13/cobra"
)

var (
	scanOutput string
	scanDB     string
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the project and write the code map with its dead-code report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScanFlags(cmd)
		ext := extractor.NewExtractor(nil)
		return runScan(cmd.Context(), rootArg(args), ext)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Output JSON file (default from config, code-map.json)")
	scanCmd.Flags().StringVar(&scanDB, "db", "", "Also write the snapshot to this SQLite database")
}

func applyScanFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = scanOutput
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DB = scanDB
	}
}

// runScan indexes root, analyzes it and writes every configured output.
func runScan(ctx context.Context, root string, ext *extractor.Extractor) error {
	ix, err := newIndexer(ext)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Scanning %s\n", root)
	start := time.Now()
	idx, res, err := ix.Run(ctx, root)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Graph built in %v. Found %d files.\n", time.Since(start).Round(time.Millisecond), len(idx.Files))

	m := report.New(idx.Root, idx.Graph, &res.Report)
	report.PrintCategories(os.Stdout, m)

	if err := report.Write(cfg.Output.Path, m); err != nil {
		return err
	}
	fmt.Printf("✅ Code map written to %s\n", cfg.Output.Path)

	if cfg.Output.DB != "" {
		store, err := storage.NewSQLiteStore(cfg.Output.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()

		if err := store.SaveSnapshot(ctx, idx.Graph, res.Report); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Printf("💾 Snapshot saved to %s\n", cfg.Output.DB)
	}

	report.PrintSummary(os.Stdout, idx.Root, res.Report)
	return nil
}
