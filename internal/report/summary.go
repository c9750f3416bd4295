package report

import (
	"fmt"
	"io"
	"path/filepath"

	"codemap/internal/analysis"
	"codemap/internal/graph"
)

var roleEmoji = map[graph.Role]string{
	graph.RolePage:      "📄",
	graph.RoleComponent: "🧩",
	graph.RoleAPI:       "🔌",
	graph.RoleUtil:      "🛠️",
	graph.RoleHook:      "🪝",
	graph.RoleContext:   "🔄",
	graph.RoleType:      "📝",
}

// PrintCategories prints a file count per non-empty role.
func PrintCategories(w io.Writer, m *CodeMap) {
	for _, r := range graph.Roles {
		if n := m.Count(r); n > 0 {
			fmt.Fprintf(w, "  %s %s: %d files\n", roleEmoji[r], r, n)
		}
	}
}

// PrintSummary prints the dead-code report with paths relative to root.
func PrintSummary(w io.Writer, root string, rep analysis.DeadReport) {
	fmt.Fprintf(w, "\n📊 Dead Code Summary:\n")
	fmt.Fprintf(w, "🗑️  Unused files: %d\n", len(rep.UnusedFiles))
	fmt.Fprintf(w, "🗑️  Unused exports: %d\n", len(rep.UnusedExports))

	if len(rep.UnusedFiles) > 0 {
		fmt.Fprintf(w, "\n📁 Unused files:\n")
		for _, f := range rep.UnusedFiles {
			fmt.Fprintf(w, "  • %s\n", Rel(root, f))
		}
	}
	if len(rep.UnusedExports) > 0 {
		fmt.Fprintf(w, "\n📤 Unused exports:\n")
		for _, e := range rep.UnusedExports {
			fmt.Fprintf(w, "  • %s in %s\n", e.ExportName, Rel(root, e.File))
		}
	}
}

// Rel returns path relative to root, or path unchanged when that fails.
func Rel(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
