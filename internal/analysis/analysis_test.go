package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"codemap/internal/ctxlog"
	"codemap/internal/graph"
	"codemap/internal/resolver"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, files ...graph.FileNode) *graph.Graph {
	t.Helper()
	g, err := graph.Build(files, resolver.NewDefaultChain())
	require.NoError(t, err)
	return g
}

func analyze(t *testing.T, g *graph.Graph, roots *EntryRootSet) DeadReport {
	t.Helper()
	return NewAnalyzer(g).Analyze(context.Background(), roots).Report
}

func TestAnalyze_ImportedUtilIsUsed(t *testing.T) {
	g := build(t,
		graph.FileNode{Path: "/repo/pages/page.tsx", Role: graph.RolePage, Exports: []string{"default"}, Imports: []string{"../lib/util"}},
		graph.FileNode{Path: "/repo/lib/util.ts", Role: graph.RoleUtil, Exports: []string{"helper"}},
	)
	roots := NewEntryRootSet([]string{"/repo/pages/page.tsx"}, nil, nil)

	report := analyze(t, g, roots)

	// util.ts has an importer, so it is treated as fully used.
	want := DeadReport{UnusedFiles: []string{}, UnusedExports: []UnusedExport{}}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_OrphanIsFileLevelDead(t *testing.T) {
	g := build(t, graph.FileNode{Path: "/repo/lib/orphan.ts", Role: graph.RoleUtil, Exports: []string{"a", "b"}})

	report := analyze(t, g, NewEntryRootSet(nil, nil, nil))

	assert.Equal(t, []string{"/repo/lib/orphan.ts"}, report.UnusedFiles)
	assert.Empty(t, report.UnusedExports)
}

func TestAnalyze_EntryDefaultExportExempt(t *testing.T) {
	g := build(t, graph.FileNode{Path: "/repo/pages/api/login.ts", Role: graph.RoleAPI, Exports: []string{"default"}})
	roots := NewEntryRootSet(nil, []string{"/repo/pages/api/login.ts"}, nil)

	report := analyze(t, g, roots)

	assert.Empty(t, report.UnusedFiles)
	assert.Empty(t, report.UnusedExports)
}

func TestAnalyze_EntryNamedExportsReported(t *testing.T) {
	g := build(t, graph.FileNode{Path: "/repo/pages/index.tsx", Role: graph.RolePage, Exports: []string{"default", "getStaticProps"}})
	roots := NewEntryRootSet([]string{"/repo/pages/index.tsx"}, nil, nil)

	report := analyze(t, g, roots)

	assert.Equal(t, []UnusedExport{{File: "/repo/pages/index.tsx", ExportName: "getStaticProps"}}, report.UnusedExports)
}

func TestAnalyze_SpecialEntryDefaultExportExempt(t *testing.T) {
	files := []graph.FileNode{
		{Path: "/repo/app/layout.tsx", Role: graph.RoleComponent, Exports: []string{"default"}},
		{Path: "/repo/pages/_document.tsx", Role: graph.RoleComponent, Exports: []string{"default", "metadata"}},
	}
	g := build(t, files...)
	roots, err := DetectEntryRoots(files, "/repo", DefaultSpecialEntries)
	require.NoError(t, err)
	require.True(t, roots.Contains("/repo/app/layout.tsx"))

	report := analyze(t, g, roots)

	assert.Empty(t, report.UnusedFiles)
	assert.Equal(t, []UnusedExport{{File: "/repo/pages/_document.tsx", ExportName: "metadata"}}, report.UnusedExports)
}

func TestAnalyze_UnresolvedImportKeepsNode(t *testing.T) {
	g := build(t,
		graph.FileNode{Path: "/repo/pages/page.tsx", Role: graph.RolePage, Imports: []string{"./missing", "../components/Card"}},
		graph.FileNode{Path: "/repo/components/Card.tsx", Role: graph.RoleComponent, Exports: []string{"Card"}},
	)
	roots := NewEntryRootSet([]string{"/repo/pages/page.tsx"}, nil, nil)

	assert.True(t, g.Has("/repo/pages/page.tsx"))
	assert.Equal(t, []string{"/repo/components/Card.tsx"}, g.Uses("/repo/pages/page.tsx"))

	report := analyze(t, g, roots)
	assert.Empty(t, report.UnusedFiles)
}

func TestReachable_CycleTerminates(t *testing.T) {
	g := build(t,
		graph.FileNode{Path: "/repo/a.ts", Role: graph.RolePage, Imports: []string{"./b", "./a"}},
		graph.FileNode{Path: "/repo/b.ts", Role: graph.RoleUtil, Imports: []string{"./a"}},
		graph.FileNode{Path: "/repo/c.ts", Role: graph.RoleUtil, Imports: []string{"./c"}},
	)
	roots := NewEntryRootSet([]string{"/repo/a.ts"}, nil, nil)

	reachable := Reachable(g, roots)
	assert.True(t, reachable.Contains("/repo/a.ts"))
	assert.True(t, reachable.Contains("/repo/b.ts"))
	assert.False(t, reachable.Contains("/repo/c.ts"))
	assert.Equal(t, []string{"/repo/c.ts"}, UnusedFiles(g, reachable))
}

func TestReachable_EmptyRootsMarksEverythingUnused(t *testing.T) {
	g := build(t,
		graph.FileNode{Path: "/repo/b.ts", Role: graph.RoleUtil},
		graph.FileNode{Path: "/repo/a.ts", Role: graph.RoleUtil, Imports: []string{"./b"}},
	)

	report := analyze(t, g, NewEntryRootSet(nil, nil, nil))
	assert.Equal(t, []string{"/repo/b.ts", "/repo/a.ts"}, report.UnusedFiles)
}

func TestReachable_RootOutsideGraphIgnored(t *testing.T) {
	g := build(t, graph.FileNode{Path: "/repo/a.ts", Role: graph.RoleUtil})

	reachable := Reachable(g, NewEntryRootSet([]string{"/repo/ghost.tsx"}, nil, nil))
	assert.Empty(t, reachable)
}

func TestReachable_Monotonic(t *testing.T) {
	files := []graph.FileNode{
		{Path: "/repo/pages/index.tsx", Role: graph.RolePage},
		{Path: "/repo/lib/x.ts", Role: graph.RoleUtil},
	}
	roots := NewEntryRootSet([]string{"/repo/pages/index.tsx"}, nil, nil)

	before := Reachable(build(t, files...), roots)
	assert.False(t, before.Contains("/repo/lib/x.ts"))

	files[0].Imports = []string{"../lib/x"}
	after := Reachable(build(t, files...), roots)
	assert.True(t, after.Contains("/repo/lib/x.ts"))
	for p := range before {
		assert.True(t, after.Contains(p))
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	files := []graph.FileNode{
		{Path: "/repo/pages/index.tsx", Role: graph.RolePage, Exports: []string{"default", "config"}, Imports: []string{"../components/Nav"}},
		{Path: "/repo/components/Nav.tsx", Role: graph.RoleComponent, Exports: []string{"Nav"}},
		{Path: "/repo/lib/a.ts", Role: graph.RoleUtil, Exports: []string{"a"}, Imports: []string{"./b"}},
		{Path: "/repo/lib/b.ts", Role: graph.RoleUtil, Exports: []string{"b"}},
	}
	roots := NewEntryRootSet([]string{"/repo/pages/index.tsx"}, nil, nil)

	var outputs [][]byte
	for i := 0; i < 5; i++ {
		report := analyze(t, build(t, files...), roots)
		b, err := json.Marshal(report)
		require.NoError(t, err)
		outputs = append(outputs, b)
	}
	for _, out := range outputs[1:] {
		assert.Equal(t, string(outputs[0]), string(out))
	}
	assert.JSONEq(t, `{
		"unusedFiles": ["/repo/lib/a.ts", "/repo/lib/b.ts"],
		"unusedExports": [{"file": "/repo/pages/index.tsx", "exportName": "config"}]
	}`, string(outputs[0]))
}

type failingExports struct {
	fail map[string]bool
	g    *graph.Graph
}

func (f failingExports) Exports(path string) ([]string, error) {
	if f.fail[path] {
		return nil, errors.New("boom")
	}
	return f.g.Exports(path)
}

func TestUnusedExports_ExtractionFailureIsSkipped(t *testing.T) {
	g := build(t,
		graph.FileNode{Path: "/repo/pages/a.tsx", Role: graph.RolePage, Exports: []string{"default", "extra"}},
		graph.FileNode{Path: "/repo/pages/b.tsx", Role: graph.RolePage, Exports: []string{"helper"}},
	)
	roots := NewEntryRootSet([]string{"/repo/pages/a.tsx", "/repo/pages/b.tsx"}, nil, nil)

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New(&buf, "warn"))

	provider := failingExports{fail: map[string]bool{"/repo/pages/a.tsx": true}, g: g}
	result := NewAnalyzer(g).AnalyzeWith(ctx, roots, provider)

	assert.Equal(t, []UnusedExport{{File: "/repo/pages/b.tsx", ExportName: "helper"}}, result.Report.UnusedExports)
	assert.Contains(t, buf.String(), "could not analyze exports")
	assert.Contains(t, buf.String(), "/repo/pages/a.tsx")
}

func TestUnusedExports_GraphExtractErr(t *testing.T) {
	g := build(t, graph.FileNode{Path: "/repo/pages/a.tsx", Role: graph.RolePage, ExtractErr: errors.New("unreadable")})
	roots := NewEntryRootSet([]string{"/repo/pages/a.tsx"}, nil, nil)

	report := analyze(t, g, roots)
	assert.Empty(t, report.UnusedFiles)
	assert.Empty(t, report.UnusedExports)
}

func TestDetectEntryRoots(t *testing.T) {
	files := []graph.FileNode{
		{Path: "/repo/pages/index.tsx", Role: graph.RolePage},
		{Path: "/repo/pages/_app.tsx", Role: graph.RolePage},
		{Path: "/repo/pages/api/login.ts", Role: graph.RoleAPI},
		{Path: "/repo/src/app/layout.tsx", Role: graph.RoleComponent},
		{Path: "/repo/components/_app.tsx", Role: graph.RoleComponent},
		{Path: "/repo/lib/util.ts", Role: graph.RoleUtil},
	}

	roots, err := DetectEntryRoots(files, "/repo", DefaultSpecialEntries)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/repo/pages/index.tsx",
		"/repo/pages/_app.tsx",
		"/repo/pages/api/login.ts",
		"/repo/src/app/layout.tsx",
	}, roots.Paths())
	assert.False(t, roots.Contains("/repo/lib/util.ts"))

	_, err = DetectEntryRoots(files, "/repo", []string{"pages/[_app"})
	assert.Error(t, err)
}
