package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codemap/internal/analysis"
	"codemap/internal/classifier"
	"codemap/internal/config"
	"codemap/internal/crawler"
	"codemap/internal/graph"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newIndexer(t *testing.T, opts ...Option) *Indexer {
	t.Helper()
	cfg := config.Default()
	c, err := crawler.NewCrawler(cfg.Scan.Include, cfg.Scan.Exclude, cfg.Scan.IgnoreDirs)
	require.NoError(t, err)
	return NewIndexer(c, opts...)
}

var nextTree = map[string]string{
	"pages/index.tsx": `import Button from '../components/Button'
import { fmt } from '../lib/format'
export default function Home() {
  return (<Button label={fmt('hi')} />)
}
`,
	"pages/_app.tsx":            "export default function App() {\n  return (<div />)\n}\n",
	"pages/api/login.ts":        "export const config = {}\nexport default function handler(req: any, res: any) {}\n",
	"components/Button.tsx":     "export default function Button() {\n  return (<button />)\n}\n",
	"lib/format.ts":             "export function fmt(x: string) { return x }\n",
	"lib/orphan.ts":             "export const unused = 1\n",
	"node_modules/pkg/index.js": "export const vendored = 1\n",
	"styles/site.css":           "body {}\n",
}

func TestIndexer_Run(t *testing.T) {
	root := writeTree(t, nextTree)
	abs := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	idx, res, err := newIndexer(t).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, root, idx.Root)
	assert.Equal(t, []string{
		abs("components/Button.tsx"),
		abs("lib/format.ts"),
		abs("lib/orphan.ts"),
		abs("pages/_app.tsx"),
		abs("pages/api/login.ts"),
		abs("pages/index.tsx"),
	}, idx.Graph.Nodes())

	roles := map[string]graph.Role{}
	for _, f := range idx.Files {
		roles[f.Path] = f.Role
	}
	assert.Equal(t, graph.RoleComponent, roles[abs("components/Button.tsx")])
	assert.Equal(t, graph.RoleUtil, roles[abs("lib/format.ts")])
	assert.Equal(t, graph.RoleAPI, roles[abs("pages/api/login.ts")])
	assert.Equal(t, graph.RolePage, roles[abs("pages/index.tsx")])

	assert.Equal(t, []string{abs("components/Button.tsx"), abs("lib/format.ts")}, idx.Graph.Uses(abs("pages/index.tsx")))

	want := analysis.DeadReport{
		UnusedFiles: []string{abs("lib/orphan.ts")},
		UnusedExports: []analysis.UnusedExport{
			{File: abs("pages/api/login.ts"), ExportName: "config"},
		},
	}
	if diff := cmp.Diff(want, res.Report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.Roots.Contains(abs("pages/_app.tsx")))
	assert.False(t, res.Reachable.Contains(abs("lib/orphan.ts")))
}

func TestIndexer_UnclassifiedFilesExcluded(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pages/index.tsx": "import './main'\nexport default function Home() {}\n",
		"src/main.tsx":    "render()\n",
	})

	idx, err := newIndexer(t, WithClassifier(classifier.PathClassifier{})).BuildGraph(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "pages", "index.tsx")}, idx.Graph.Nodes())
	assert.Equal(t, 1, idx.Graph.Stats().Unresolved)
}

func TestIndexer_SpecialEntries(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/bootstrap.ts": "export default function boot() {}\nexport const flag = true\n",
	})

	ix := newIndexer(t, WithSpecialEntries([]string{"lib/bootstrap.ts"}))
	_, res, err := ix.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, res.Report.UnusedFiles)
	assert.Equal(t, []analysis.UnusedExport{
		{File: filepath.Join(root, "lib", "bootstrap.ts"), ExportName: "flag"},
	}, res.Report.UnusedExports)

	_, _, err = newIndexer(t, WithSpecialEntries([]string{"[bad"})).Run(context.Background(), root)
	assert.Error(t, err)
}

func TestIndexer_MissingRoot(t *testing.T) {
	_, err := newIndexer(t).BuildGraph(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
