package storage

import (
	"context"

	"codemap/internal/analysis"
	"codemap/internal/graph"
)

// Edge is one persisted import edge.
type Edge struct {
	From string
	To   string
}

// Store persists analysis snapshots.
type Store interface {
	SnapshotStore
	Close() error
}

// SnapshotStore defines operations for persisting one graph and its report.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored snapshot with g and report.
	SaveSnapshot(ctx context.Context, g *graph.Graph, report analysis.DeadReport) error

	// LoadFiles returns the stored file nodes in registration order.
	LoadFiles(ctx context.Context) ([]graph.FileNode, error)

	// LoadEdges returns the stored import edges.
	LoadEdges(ctx context.Context) ([]Edge, error)

	// LoadReport rebuilds the stored dead-code report in its original order.
	LoadReport(ctx context.Context) (*analysis.DeadReport, error)
}
