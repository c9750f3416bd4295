// Package resolver maps relative import specifiers to discovered files.
package resolver

import (
	"path"
	"strings"
)

// Extensions are the source extensions tried after a specifier, in order.
var Extensions = []string{".ts", ".tsx", ".js", ".jsx"}

// ImportResolver resolves one specifier against the candidate file paths.
type ImportResolver interface {
	Name() string
	Resolve(specifier string, candidates []string) (string, bool)
}

// ResolverChain tries each resolver in turn and returns the first match.
type ResolverChain struct {
	resolvers []ImportResolver
}

func NewResolverChain(resolvers ...ImportResolver) *ResolverChain {
	return &ResolverChain{resolvers: resolvers}
}

// NewDefaultChain returns the suffix resolver alone.
func NewDefaultChain() *ResolverChain {
	return NewResolverChain(NewSuffixResolver())
}

func (c *ResolverChain) Resolve(specifier string, candidates []string) (string, bool) {
	for _, r := range c.resolvers {
		if target, ok := r.Resolve(specifier, candidates); ok {
			return target, true
		}
	}
	return "", false
}

// Names lists the resolvers in the order they are tried.
func (c *ResolverChain) Names() []string {
	names := make([]string, 0, len(c.resolvers))
	for _, r := range c.resolvers {
		names = append(names, r.Name())
	}
	return names
}

// SuffixResolver matches a candidate whose path ends with the specifier
// plus a source extension, or that is an index file inside the specified
// directory. The first candidate in iteration order wins; when several
// files could match, no further disambiguation is attempted.
type SuffixResolver struct{}

func NewSuffixResolver() *SuffixResolver {
	return &SuffixResolver{}
}

func (r *SuffixResolver) Name() string {
	return "suffix"
}

func (r *SuffixResolver) Resolve(specifier string, candidates []string) (string, bool) {
	tail := normalize(specifier)
	if tail == "" {
		return "", false
	}
	explicit := hasSourceExt(tail)

	for _, c := range candidates {
		p := toSlash(c)
		if explicit && strings.HasSuffix(p, tail) {
			return c, true
		}
		for _, ext := range Extensions {
			if strings.HasSuffix(p, tail+ext) {
				return c, true
			}
		}
		if strings.Contains(p, tail+"/index.") && hasSourceExt(p) {
			return c, true
		}
	}
	return "", false
}

// normalize drops the leading "./" and "../" segments of a relative
// specifier and returns the rest anchored at a path separator, so that
// "./Button" becomes "/Button" and never matches "BigButton.tsx".
func normalize(specifier string) string {
	s := toSlash(strings.TrimSpace(specifier))
	if !strings.HasPrefix(s, ".") {
		return ""
	}
	for {
		switch {
		case strings.HasPrefix(s, "./"):
			s = s[2:]
		case strings.HasPrefix(s, "../"):
			s = s[3:]
		default:
			s = strings.TrimSuffix(path.Clean("/"+s), "/")
			if s == "/." || s == "/.." {
				return ""
			}
			return s
		}
	}
}

func hasSourceExt(p string) bool {
	ext := path.Ext(p)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
