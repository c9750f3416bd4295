package graph

// Resolver maps a relative import specifier to one of the candidate paths.
type Resolver interface {
	Resolve(specifier string, candidates []string) (string, bool)
}

// Build constructs the import graph. Every file is registered before any
// edge is added, so the order of files only affects node order. Specifiers
// that resolve to no registered file are dropped.
func Build(files []FileNode, r Resolver) (*Graph, error) {
	g := newGraph()
	for _, f := range files {
		g.register(f)
	}

	candidates := g.Nodes()
	for _, path := range candidates {
		n := g.nodes[path]
		for _, spec := range n.Imports {
			target, ok := r.Resolve(spec, candidates)
			if !ok || !g.Has(target) {
				g.unresolved = append(g.unresolved, UnresolvedImport{From: path, Specifier: spec})
				continue
			}
			if err := g.link(path, target); err != nil {
				return nil, err
			}
		}
	}

	if err := g.freeze(); err != nil {
		return nil, err
	}
	return g, nil
}
