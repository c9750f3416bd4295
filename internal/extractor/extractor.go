package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrUnsupportedLanguage is returned for files with no matching grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

const (
	importQuery = `(import_statement source: (string) @source)`
	exportQuery = `(export_statement) @export`
)

type queries struct {
	imports *sitter.Query
	exports *sitter.Query
}

// Extractor parses JS/TS source files into SourceModels.
type Extractor struct {
	mu      sync.Mutex
	queries map[string]*queries
	cache   *Cache
}

// NewExtractor creates an extractor. A nil cache disables caching.
func NewExtractor(cache *Cache) *Extractor {
	return &Extractor{
		queries: make(map[string]*queries),
		cache:   cache,
	}
}

// ExtractFromFile reads and extracts a single source file.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*SourceModel, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(ctx, path, source)
}

// Extract parses already-loaded source code.
func (e *Extractor) Extract(ctx context.Context, path string, source []byte) (*SourceModel, error) {
	lang, ok := languageFor(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedLanguage)
	}

	if e.cache != nil {
		if m, ok := e.cache.Get(path, source); ok {
			return m, nil
		}
	}

	q, err := e.queriesFor(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	root := tree.RootNode()

	model := &SourceModel{
		Path:     path,
		Language: lang.Name(),
		Imports:  collectImports(q.imports, root, source),
		Exports:  collectExports(q.exports, root, source),
	}

	if e.cache != nil {
		e.cache.Add(path, source, model)
	}
	return model.clone(), nil
}

func (e *Extractor) queriesFor(lang LanguageExtractor) (*queries, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if q, ok := e.queries[lang.Name()]; ok {
		return q, nil
	}
	imports, err := sitter.NewQuery([]byte(importQuery), lang.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create import query for %s: %w", lang.Name(), err)
	}
	exports, err := sitter.NewQuery([]byte(exportQuery), lang.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create export query for %s: %w", lang.Name(), err)
	}
	q := &queries{imports: imports, exports: exports}
	e.queries[lang.Name()] = q
	return q, nil
}

// collectImports returns the relative specifiers of top-level import
// statements, in source order. Package imports are dropped.
func collectImports(q *sitter.Query, root *sitter.Node, source []byte) []string {
	var specs []string
	forEachTopLevel(q, root, func(n *sitter.Node) {
		spec := stringContent(n, source)
		if strings.HasPrefix(spec, ".") {
			specs = append(specs, spec)
		}
	})
	return specs
}

func collectExports(q *sitter.Query, root *sitter.Node, source []byte) []string {
	names := newNameSet()
	forEachTopLevel(q, root, func(n *sitter.Node) {
		exportNames(n, source, names)
	})
	return names.list
}

// forEachTopLevel runs q and calls fn for every capture whose statement
// sits directly under the program node, skipping namespace and
// `declare module` bodies.
func forEachTopLevel(q *sitter.Query, root *sitter.Node, fn func(*sitter.Node)) {
	qc := sitter.NewQueryCursor()
	qc.Exec(q, root)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			stmt := c.Node
			if stmt.Type() != "export_statement" {
				stmt = stmt.Parent()
			}
			if stmt == nil {
				continue
			}
			parent := stmt.Parent()
			if parent == nil || parent.Type() != "program" {
				continue
			}
			fn(c.Node)
		}
	}
}

func stringContent(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "string_fragment" {
			return child.Content(source)
		}
	}
	text := n.Content(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
