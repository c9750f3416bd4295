package analysis

import "codemap/internal/graph"

// ReachableSet holds the files transitively imported from the entry roots.
type ReachableSet map[string]struct{}

func (r ReachableSet) Contains(path string) bool {
	_, ok := r[path]
	return ok
}

// Reachable walks import edges forward from every entry root at once.
// The visited guard makes cycles and self-loops harmless, and roots that
// are not graph nodes are ignored.
func Reachable(g *graph.Graph, roots *EntryRootSet) ReachableSet {
	visited := make(ReachableSet)
	stack := make([]string, 0, roots.Len())
	for _, r := range roots.Paths() {
		if g.Has(r) {
			stack = append(stack, r)
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(cur) {
			continue
		}
		visited[cur] = struct{}{}
		for _, next := range g.Uses(cur) {
			if !visited.Contains(next) {
				stack = append(stack, next)
			}
		}
	}
	return visited
}

// UnusedFiles lists graph nodes absent from the reachable set, in node
// registration order.
func UnusedFiles(g *graph.Graph, reachable ReachableSet) []string {
	unused := []string{}
	for _, n := range g.Nodes() {
		if !reachable.Contains(n) {
			unused = append(unused, n)
		}
	}
	return unused
}
