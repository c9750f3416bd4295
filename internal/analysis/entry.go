package analysis

import (
	"fmt"
	"path/filepath"

	"codemap/internal/graph"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSpecialEntries match framework files that are invoked without an
// import: the pages-router _app and _document and app-router layouts.
var DefaultSpecialEntries = []string{
	"**/pages/_app.{ts,tsx,js,jsx}",
	"**/pages/_document.{ts,tsx,js,jsx}",
	"**/app/layout.{ts,tsx,js,jsx}",
}

// EntryRootSet is the set of files considered reachable by definition.
// It is immutable once built.
type EntryRootSet struct {
	paths []string
	set   map[string]struct{}
}

// NewEntryRootSet builds the set from the three entry sources, keeping the
// first occurrence of each path.
func NewEntryRootSet(pages, apis, special []string) *EntryRootSet {
	s := &EntryRootSet{set: make(map[string]struct{})}
	for _, group := range [][]string{pages, apis, special} {
		for _, p := range group {
			if _, ok := s.set[p]; ok {
				continue
			}
			s.set[p] = struct{}{}
			s.paths = append(s.paths, p)
		}
	}
	return s
}

// DetectEntryRoots derives the entry roots of a tagged file list: every page,
// every api route, and every file whose root-relative path matches one of
// the special patterns.
func DetectEntryRoots(files []graph.FileNode, root string, patterns []string) (*EntryRootSet, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid special entry pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	var pages, apis, special []string
	for _, f := range files {
		switch f.Role {
		case graph.RolePage:
			pages = append(pages, f.Path)
		case graph.RoleAPI:
			apis = append(apis, f.Path)
		}
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, rel); ok {
				special = append(special, f.Path)
				break
			}
		}
	}
	return NewEntryRootSet(pages, apis, special), nil
}

// Contains reports whether path is an entry root.
func (s *EntryRootSet) Contains(path string) bool {
	_, ok := s.set[path]
	return ok
}

// Paths returns the roots in insertion order.
func (s *EntryRootSet) Paths() []string {
	return append([]string(nil), s.paths...)
}

func (s *EntryRootSet) Len() int {
	return len(s.paths)
}
