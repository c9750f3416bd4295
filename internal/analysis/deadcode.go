package analysis

import (
	"context"

	"codemap/internal/ctxlog"
	"codemap/internal/graph"
)

// ExportProvider supplies the exported names of a file.
type ExportProvider interface {
	Exports(path string) ([]string, error)
}

// UnusedExport is one export judged dead.
type UnusedExport struct {
	File       string `json:"file"`
	ExportName string `json:"exportName"`
}

// UnusedExports flags the exports of reachable files that nothing imports.
//
// A file with no incoming edge reports every export, except "default" on
// an entry root, which the framework invokes directly. A file with at least
// one importer counts as fully used: there is no per-name analysis, so
// unused names in imported files are not reported.
func UnusedExports(ctx context.Context, g *graph.Graph, roots *EntryRootSet, reachable ReachableSet, exports ExportProvider) []UnusedExport {
	log := ctxlog.FromContext(ctx)
	out := []UnusedExport{}

	for _, path := range g.Nodes() {
		if !reachable.Contains(path) {
			continue
		}
		names, err := exports.Exports(path)
		if err != nil {
			log.Warn("could not analyze exports", "file", path, "error", err)
			continue
		}
		if g.InDegree(path) > 0 {
			continue
		}
		for _, name := range names {
			if name == "default" && roots.Contains(path) {
				continue
			}
			out = append(out, UnusedExport{File: path, ExportName: name})
		}
	}
	return out
}
