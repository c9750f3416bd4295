package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codemap/internal/analysis"
	"codemap/internal/classifier"
	"codemap/internal/crawler"
	"codemap/internal/ctxlog"
	"codemap/internal/extractor"
	"codemap/internal/graph"
	"codemap/internal/resolver"
)

// Index is one scanned project: the tagged files and the graph built from them.
type Index struct {
	Root  string
	Files []graph.FileNode
	Graph *graph.Graph
}

// Indexer orchestrates codebase indexing and graph management.
type Indexer struct {
	crawler    *crawler.Crawler
	classifier classifier.Classifier
	resolver   graph.Resolver
	extractor  *extractor.Extractor
	special    []string
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithClassifier replaces the default path-then-content classifier.
func WithClassifier(c classifier.Classifier) Option {
	return func(i *Indexer) { i.classifier = c }
}

// WithResolver replaces the default suffix resolver chain.
func WithResolver(r graph.Resolver) Option {
	return func(i *Indexer) { i.resolver = r }
}

// WithExtractor shares an extractor (and its cache) across runs.
func WithExtractor(e *extractor.Extractor) Option {
	return func(i *Indexer) { i.extractor = e }
}

// WithSpecialEntries sets the glob patterns of framework entry files.
func WithSpecialEntries(patterns []string) Option {
	return func(i *Indexer) { i.special = patterns }
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler, opts ...Option) *Indexer {
	i := &Indexer{
		crawler:    c,
		classifier: classifier.Default(),
		resolver:   resolver.NewDefaultChain(),
		special:    analysis.DefaultSpecialEntries,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.extractor == nil {
		i.extractor = extractor.NewExtractor(nil)
	}
	return i
}

// BuildGraph scans the project root and constructs a dependency graph.
func (i *Indexer) BuildGraph(ctx context.Context, root string) (*Index, error) {
	log := ctxlog.FromContext(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	var files []graph.FileNode
	err = i.crawler.ScanProject(ctx, absRoot, func(f crawler.File) error {
		node, ok := i.load(ctx, f)
		if ok {
			files = append(files, node)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	g, err := graph.Build(files, i.resolver)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	st := g.Stats()
	log.Info("graph built", "files", st.Nodes, "edges", st.Edges, "unresolved", st.Unresolved)
	return &Index{Root: absRoot, Files: files, Graph: g}, nil
}

// load reads, classifies and extracts one file. Untagged and unreadable
// files are dropped; extraction failures keep the node.
func (i *Indexer) load(ctx context.Context, f crawler.File) (graph.FileNode, bool) {
	log := ctxlog.FromContext(ctx)

	content, err := os.ReadFile(f.Path)
	if err != nil {
		log.Warn("skipping unreadable file", "path", f.Path, "error", err)
		return graph.FileNode{}, false
	}

	role, ok := i.classifier.Classify(classifier.Candidate{Path: f.Path, Rel: f.Rel, Content: content})
	if !ok {
		log.Debug("file not classified", "path", f.Rel)
		return graph.FileNode{}, false
	}

	node := graph.FileNode{Path: f.Path, Role: role}
	model, err := i.extractor.Extract(ctx, f.Path, content)
	if err != nil {
		log.Warn("extraction failed", "path", f.Rel, "error", err)
		node.ExtractErr = err
		return node, true
	}
	node.Exports = model.Exports
	node.Imports = model.Imports
	return node, true
}

// Analyze detects entry roots and runs the dead-code analysis over idx.
func (i *Indexer) Analyze(ctx context.Context, idx *Index) (*analysis.Result, error) {
	roots, err := analysis.DetectEntryRoots(idx.Files, idx.Root, i.special)
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(idx.Graph).Analyze(ctx, roots), nil
}

// Run is BuildGraph followed by Analyze.
func (i *Indexer) Run(ctx context.Context, root string) (*Index, *analysis.Result, error) {
	idx, err := i.BuildGraph(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	res, err := i.Analyze(ctx, idx)
	if err != nil {
		return nil, nil, err
	}
	return idx, res, nil
}
