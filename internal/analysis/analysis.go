// Package analysis derives dead files and dead exports from the import graph.
package analysis

import (
	"context"

	"codemap/internal/ctxlog"
	"codemap/internal/graph"
)

// DeadReport is the outbound result of one analysis run.
type DeadReport struct {
	UnusedFiles   []string       `json:"unusedFiles"`
	UnusedExports []UnusedExport `json:"unusedExports"`
}

// Result bundles the report with the intermediate sets it was derived from.
type Result struct {
	Report    DeadReport
	Roots     *EntryRootSet
	Reachable ReachableSet
}

// Analyzer runs reachability and export classification over a built graph.
type Analyzer struct {
	g *graph.Graph
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g}
}

// Analyze computes the dead report. The graph itself is the export provider.
func (a *Analyzer) Analyze(ctx context.Context, roots *EntryRootSet) *Result {
	return a.AnalyzeWith(ctx, roots, a.g)
}

// AnalyzeWith is Analyze with a custom export provider.
func (a *Analyzer) AnalyzeWith(ctx context.Context, roots *EntryRootSet, exports ExportProvider) *Result {
	log := ctxlog.FromContext(ctx)
	log.Debug("entry points found", "count", roots.Len())

	reachable := Reachable(a.g, roots)
	unusedFiles := UnusedFiles(a.g, reachable)
	log.Debug("reachability done", "reachable", len(reachable), "total", len(a.g.Nodes()))

	unusedExports := UnusedExports(ctx, a.g, roots, reachable, exports)
	log.Debug("dead code found", "unused_files", len(unusedFiles), "unused_exports", len(unusedExports))

	return &Result{
		Report: DeadReport{
			UnusedFiles:   unusedFiles,
			UnusedExports: unusedExports,
		},
		Roots:     roots,
		Reachable: reachable,
	}
}
