package graph

import (
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// Graph is the directed file-level import graph. An edge a -> b means
// "a imports b". It is only mutated by Build and is read-only afterwards.
type Graph struct {
	g graphlib.Graph[string, string]

	nodes map[string]*FileNode
	order []string
	index map[string]int

	// succ and pred are snapshots of the frozen graph's adjacency,
	// sorted by registration order.
	succ map[string][]string
	pred map[string][]string

	unresolved []UnresolvedImport
	selfLoops  int
}

func newGraph() *Graph {
	return &Graph{
		g:     graphlib.New(graphlib.StringHash, graphlib.Directed()),
		nodes: make(map[string]*FileNode),
		index: make(map[string]int),
	}
}

// register adds a node. Registering a known path overwrites its metadata
// and keeps its original position.
func (g *Graph) register(n FileNode) {
	node := n
	if _, ok := g.nodes[n.Path]; ok {
		g.nodes[n.Path] = &node
		return
	}
	if err := g.g.AddVertex(n.Path); err != nil {
		// Only ErrVertexAlreadyExists is possible here, which the map above excludes.
		panic(fmt.Sprintf("graph: add vertex %s: %v", n.Path, err))
	}
	g.nodes[n.Path] = &node
	g.index[n.Path] = len(g.order)
	g.order = append(g.order, n.Path)
}

// link adds the edge from -> to. Duplicate edges collapse into one.
func (g *Graph) link(from, to string) error {
	if _, err := g.g.Edge(from, to); err == nil {
		return nil
	}
	if err := g.g.AddEdge(from, to); err != nil {
		return fmt.Errorf("add edge %s -> %s: %w", from, to, err)
	}
	if from == to {
		g.selfLoops++
	}
	return nil
}

// freeze snapshots the adjacency views once construction is complete.
func (g *Graph) freeze() error {
	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("adjacency map: %w", err)
	}
	preds, err := g.g.PredecessorMap()
	if err != nil {
		return fmt.Errorf("predecessor map: %w", err)
	}
	g.succ = g.orderedNeighbors(adj)
	g.pred = g.orderedNeighbors(preds)
	return nil
}

func (g *Graph) orderedNeighbors(m map[string]map[string]graphlib.Edge[string]) map[string][]string {
	out := make(map[string][]string, len(m))
	for node, neighbors := range m {
		if len(neighbors) == 0 {
			continue
		}
		list := make([]string, 0, len(neighbors))
		for n := range neighbors {
			list = append(list, n)
		}
		sort.Slice(list, func(i, j int) bool { return g.index[list[i]] < g.index[list[j]] })
		out[node] = list
	}
	return out
}

// Nodes returns every registered path in registration order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Node returns the payload registered for path.
func (g *Graph) Node(path string) (FileNode, bool) {
	n, ok := g.nodes[path]
	if !ok {
		return FileNode{}, false
	}
	return *n, true
}

// Has reports whether path is a registered node.
func (g *Graph) Has(path string) bool {
	_, ok := g.nodes[path]
	return ok
}

// HasEdge reports whether from imports to.
func (g *Graph) HasEdge(from, to string) bool {
	_, err := g.g.Edge(from, to)
	return err == nil
}

// Uses returns the files imported by path.
func (g *Graph) Uses(path string) []string {
	return append([]string{}, g.succ[path]...)
}

// UsedBy returns the files importing path.
func (g *Graph) UsedBy(path string) []string {
	return append([]string{}, g.pred[path]...)
}

// InDegree is len(UsedBy(path)) without the copy.
func (g *Graph) InDegree(path string) int {
	return len(g.pred[path])
}

// Exports returns the exported names of path. It fails with ErrNoExports
// when extraction failed for that file.
func (g *Graph) Exports(path string) ([]string, error) {
	n, ok := g.nodes[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	if n.ExtractErr != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNoExports, n.ExtractErr)
	}
	return append([]string(nil), n.Exports...), nil
}

// Unresolved returns the specifiers that produced no edge.
func (g *Graph) Unresolved() []UnresolvedImport {
	return append([]UnresolvedImport(nil), g.unresolved...)
}

// Stats reports node, edge and unresolved counts.
func (g *Graph) Stats() Stats {
	edges, _ := g.g.Size()
	return Stats{
		Nodes:      len(g.order),
		Edges:      edges,
		SelfLoops:  g.selfLoops,
		Unresolved: len(g.unresolved),
	}
}
