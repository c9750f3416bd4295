package graph

import (
	"errors"
	"fmt"
)

// Role is the closed set of tags the classifier may assign to a file.
type Role string

const (
	RolePage      Role = "page"
	RoleAPI       Role = "api"
	RoleComponent Role = "component"
	RoleHook      Role = "hook"
	RoleContext   Role = "context"
	RoleUtil      Role = "util"
	RoleType      Role = "type"
)

// Roles lists every valid role in code map order.
var Roles = []Role{RolePage, RoleComponent, RoleAPI, RoleUtil, RoleHook, RoleContext, RoleType}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

var (
	// ErrUnknownFile is returned for paths that were never registered.
	ErrUnknownFile = errors.New("file not in graph")
	// ErrNoExports is returned when export extraction failed for a file.
	ErrNoExports = errors.New("exports unavailable")
)

// FileNode is the graph-domain payload for one analyzed source file.
type FileNode struct {
	Path    string   `json:"path"`
	Role    Role     `json:"role"`
	Exports []string `json:"exports,omitempty"`
	Imports []string `json:"imports,omitempty"`

	// ExtractErr is set when the source model could not be extracted.
	// The file keeps its node but is skipped for export analysis.
	ExtractErr error `json:"-"`
}

// UnresolvedImport records a specifier that matched no registered file.
type UnresolvedImport struct {
	From      string `json:"from"`
	Specifier string `json:"specifier"`
}

// Stats summarizes a built graph.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	SelfLoops  int `json:"self_loops"`
	Unresolved int `json:"unresolved"`
}
