package classifier

import (
	"path"
	"strings"

	"codemap/internal/graph"
)

// PathClassifier tags files from directory and file name conventions.
type PathClassifier struct{}

func (PathClassifier) Classify(c Candidate) (graph.Role, bool) {
	rel := strings.ToLower(c.Rel)
	dir := path.Dir(rel)
	file := path.Base(rel)

	switch {
	case strings.Contains(rel, "api/"):
		return graph.RoleAPI, true
	case strings.Contains(dir, "pages") && !strings.Contains(dir, "api"):
		return graph.RolePage, true
	case strings.Contains(dir, "app") && isPageFile(file):
		return graph.RolePage, true
	case containsAny(dir, "component", "ui", "widget"):
		return graph.RoleComponent, true
	case strings.HasPrefix(file, "use") || strings.Contains(dir, "hook"):
		return graph.RoleHook, true
	case containsAny(file, "context", "provider") || strings.Contains(dir, "context"):
		return graph.RoleContext, true
	case containsAny(dir, "util", "helper", "lib"):
		return graph.RoleUtil, true
	case containsAny(file, "type", "interface") || strings.Contains(dir, "type"):
		return graph.RoleType, true
	}
	return "", false
}

func isPageFile(name string) bool {
	switch name {
	case "page.tsx", "page.ts", "page.jsx", "page.js":
		return true
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
