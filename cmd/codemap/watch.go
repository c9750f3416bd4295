package main

import (
	"fmt"
	"path/filepath"
	"time"

	"codemap/internal/crawler"
	"codemap/internal/ctxlog"
	"codemap/internal/extractor"
	"codemap/internal/watcher"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-run scan whenever source files change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := ctxlog.FromContext(ctx)
		root := rootArg(args)

		cache, err := extractor.NewCache(extractor.DefaultCacheSize)
		if err != nil {
			return err
		}
		ext := extractor.NewExtractor(cache)

		if err := runScan(ctx, root, ext); err != nil {
			return err
		}

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		cr, err := crawler.NewCrawler(cfg.Scan.Include, cfg.Scan.Exclude, cfg.Scan.IgnoreDirs)
		if err != nil {
			return err
		}
		// Only files a scan would pick up trigger a rescan.
		isSource := func(path string) bool {
			rel, err := filepath.Rel(absRoot, path)
			return err == nil && cr.Match(filepath.ToSlash(rel))
		}

		w, err := watcher.New(absRoot, func(changed []string) {
			fmt.Printf("\n🔄 %d file(s) changed, rescanning...\n", len(changed))
			if err := runScan(ctx, root, ext); err != nil {
				log.Error("rescan failed", "error", err)
			}
		},
			watcher.WithDebounceDelay(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
			watcher.WithIgnoredDirs(cfg.Scan.IgnoreDirs),
			watcher.WithSourceFilter(isSource),
			watcher.WithOnError(func(err error) { log.Warn("watch error", "error", err) }),
		)
		if err != nil {
			return err
		}
		w.Start()
		defer w.Stop()

		fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", root)
		<-ctx.Done()
		fmt.Println("\n👋 Stopped watching")
		return nil
	},
}
