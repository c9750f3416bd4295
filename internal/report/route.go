package report

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sourceExt      = regexp.MustCompile(`\.[tj]sx?$`)
	dynamicSegment = regexp.MustCompile(`\[(.+?)\]`)
)

// FromPageFile converts a page file to the route it serves.
//
//	pages/index.tsx        -> /
//	pages/blog/[slug].tsx  -> /blog/:slug
//	app/dashboard/page.tsx -> /dashboard
//
// A leading src/ directory is ignored.
func FromPageFile(abs, root string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		rel = abs
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "src/")
	route := sourceExt.ReplaceAllString(rel, "")

	switch {
	case strings.HasPrefix(route, "pages"):
		route = strings.TrimPrefix(route, "pages")
		if strings.HasSuffix(route, "/index") {
			route = strings.TrimSuffix(route, "index")
		}
	case strings.HasPrefix(route, "app/") && (route == "app/page" || strings.HasSuffix(route, "/page")):
		route = strings.TrimSuffix(strings.TrimPrefix(route, "app"), "page")
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
	}

	route = dynamicSegment.ReplaceAllString(route, ":$1")
	if route == "" {
		return "/"
	}
	return route
}
