package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codemap/internal/check"
	"codemap/internal/config"
	"codemap/internal/crawler"
	"codemap/internal/ctxlog"
	"codemap/internal/extractor"
	"codemap/internal/index"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "codemap",
		Short:         "Code map and dead-code analysis for React / Next.js projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}
	configPath string
	verbose    bool

	cfg *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, check.ErrDeadCode) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "codemap.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the configuration and puts a logger into the command context.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := ctxlog.New(os.Stderr, level)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// newIndexer wires the crawler and extractor from the loaded config.
func newIndexer(ext *extractor.Extractor) (*index.Indexer, error) {
	cr, err := crawler.NewCrawler(cfg.Scan.Include, cfg.Scan.Exclude, cfg.Scan.IgnoreDirs)
	if err != nil {
		return nil, err
	}
	return index.NewIndexer(cr,
		index.WithExtractor(ext),
		index.WithSpecialEntries(cfg.Entries.Special),
	), nil
}

// rootArg returns the project root from args, falling back to the config.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Project.Root
}
