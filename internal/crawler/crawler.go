package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"codemap/internal/ctxlog"

	"github.com/bmatcuk/doublestar/v4"
)

// File is one discovered source file.
type File struct {
	Path string // absolute
	Rel  string // slash-separated, relative to the scan root
}

// Crawler scans a directory for source files.
type Crawler struct {
	include []string
	exclude []string
	ignored []string
}

// NewCrawler creates a new crawler. Directory names in ignored are pruned
// wherever they occur; include and exclude are doublestar globs matched
// against root-relative paths.
func NewCrawler(include, exclude, ignored []string) (*Crawler, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return &Crawler{include: include, exclude: exclude, ignored: ignored}, nil
}

// ScanProject walks the root directory in lexical order and calls onFile
// for every matching file. Unreadable entries are logged and skipped.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(File) error) error {
	log := ctxlog.FromContext(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", root, err)
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			log.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Skip ignored directories
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if c.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !c.Match(rel) {
			return nil
		}
		return onFile(File{Path: path, Rel: rel})
	})
}

// Match reports whether a root-relative path is in scope.
func (c *Crawler) Match(rel string) bool {
	if !matchAny(c.include, rel) {
		return false
	}
	return !matchAny(c.exclude, rel)
}

// IsIgnoredDir reports whether a directory name is pruned.
func (c *Crawler) IsIgnoredDir(name string) bool {
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
