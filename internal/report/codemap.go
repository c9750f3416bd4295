// Package report renders an analyzed graph as a code map and prints the
// dead-code summary.
package report

import (
	"path/filepath"
	"strings"

	"codemap/internal/analysis"
	"codemap/internal/graph"
)

// Entry is one file in the code map.
type Entry struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Category string   `json:"category"`
	Route    string   `json:"route,omitempty"`
	Uses     []string `json:"uses"`
	UsedBy   []string `json:"usedBy"`
}

// CodeMap is the JSON document written by scan and read by check.
type CodeMap struct {
	Pages      []Entry              `json:"pages"`
	Components []Entry              `json:"components"`
	APIs       []Entry              `json:"apis"`
	Utils      []Entry              `json:"utils"`
	Hooks      []Entry              `json:"hooks"`
	Contexts   []Entry              `json:"contexts"`
	Types      []Entry              `json:"types"`
	Dead       *analysis.DeadReport `json:"dead,omitempty"`
}

// New groups every graph node by role. Entries keep node registration
// order. dead may be nil.
func New(root string, g *graph.Graph, dead *analysis.DeadReport) *CodeMap {
	m := &CodeMap{
		Pages:      []Entry{},
		Components: []Entry{},
		APIs:       []Entry{},
		Utils:      []Entry{},
		Hooks:      []Entry{},
		Contexts:   []Entry{},
		Types:      []Entry{},
		Dead:       dead,
	}

	for _, path := range g.Nodes() {
		node, _ := g.Node(path)
		e := Entry{
			Name:     baseName(path),
			File:     path,
			Category: string(node.Role),
			Uses:     g.Uses(path),
			UsedBy:   g.UsedBy(path),
		}
		if node.Role == graph.RolePage {
			e.Route = FromPageFile(path, root)
		}
		if group := m.group(node.Role); group != nil {
			*group = append(*group, e)
		}
	}
	return m
}

func (m *CodeMap) group(r graph.Role) *[]Entry {
	switch r {
	case graph.RolePage:
		return &m.Pages
	case graph.RoleComponent:
		return &m.Components
	case graph.RoleAPI:
		return &m.APIs
	case graph.RoleUtil:
		return &m.Utils
	case graph.RoleHook:
		return &m.Hooks
	case graph.RoleContext:
		return &m.Contexts
	case graph.RoleType:
		return &m.Types
	}
	return nil
}

// Count returns the number of entries for a role.
func (m *CodeMap) Count(r graph.Role) int {
	if g := m.group(r); g != nil {
		return len(*g)
	}
	return 0
}

// DeadReport returns the attached report, or ErrNoDeadSection.
func (m *CodeMap) DeadReport() (*analysis.DeadReport, error) {
	if m.Dead == nil {
		return nil, ErrNoDeadSection
	}
	return m.Dead, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
