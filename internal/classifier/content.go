package classifier

import (
	"bytes"
	"path"
	"strings"

	"codemap/internal/graph"
)

// previewLines bounds how much of a file the export keyword checks read.
const previewLines = 50

// ContentClassifier tags files by peeking at their source. It always
// answers for .ts/.tsx/.js/.jsx files.
type ContentClassifier struct{}

func (ContentClassifier) Classify(c Candidate) (graph.Role, bool) {
	content := string(c.Content)
	head := strings.ToLower(preview(c.Content, previewLines))
	file := path.Base(c.Rel)

	returnsJSX := strings.Contains(content, "return (")
	if returnsJSX && containsAny(content, "<", "jsx", "tsx") {
		if containsAny(head, "export default", "export const", "export function") {
			return graph.RoleComponent, true
		}
	}
	if strings.HasPrefix(file, "use") && containsAny(content, "useState", "useEffect", "useCallback") {
		return graph.RoleHook, true
	}
	if containsAny(content, "createContext", "Provider", "useContext") {
		return graph.RoleContext, true
	}
	if containsAny(content, "req:", "res:", "NextApiRequest", "Response") {
		return graph.RoleAPI, true
	}
	if containsAny(content, "export const", "export function") && !returnsJSX && !strings.Contains(content, "<") {
		return graph.RoleUtil, true
	}
	if containsAny(content, "interface ", "type ", "enum ") {
		return graph.RoleType, true
	}

	switch {
	case strings.HasSuffix(file, ".tsx"), strings.HasSuffix(file, ".jsx"):
		return graph.RoleComponent, true
	case strings.HasSuffix(file, ".ts"), strings.HasSuffix(file, ".js"):
		return graph.RoleUtil, true
	}
	return "", false
}

func preview(content []byte, n int) string {
	lines := bytes.SplitN(content, []byte("\n"), n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
