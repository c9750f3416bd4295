package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("export {}\n"), 0600))
	}
}

func newTestCrawler(t *testing.T) *Crawler {
	t.Helper()
	c, err := NewCrawler(
		[]string{"**/*.{ts,tsx,js,jsx}"},
		[]string{"**/*.d.ts", "**/*.test.*", "**/*.spec.*", "**/*.stories.*"},
		[]string{"node_modules", ".next", "dist"},
	)
	require.NoError(t, err)
	return c
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"pages/index.tsx",
		"pages/api/login.ts",
		"components/Button.tsx",
		"components/Button.test.tsx",
		"components/Button.stories.tsx",
		"types/global.d.ts",
		"lib/legacy.js",
		"styles/site.css",
		"node_modules/react/index.js",
		"dist/bundle.js",
		".next/server/page.js",
	)

	var rels []string
	err := newTestCrawler(t).ScanProject(context.Background(), root, func(f File) error {
		assert.True(t, filepath.IsAbs(f.Path))
		rels = append(rels, f.Rel)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"components/Button.tsx",
		"lib/legacy.js",
		"pages/api/login.ts",
		"pages/index.tsx",
	}, rels)
}

func TestCrawler_CallbackErrorStopsScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.ts", "b.ts")

	stop := errors.New("stop")
	var seen int
	err := newTestCrawler(t).ScanProject(context.Background(), root, func(File) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestCrawler_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.ts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestCrawler(t).ScanProject(ctx, root, func(File) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCrawler_InvalidGlob(t *testing.T) {
	_, err := NewCrawler([]string{"src/[abc"}, nil, nil)
	assert.Error(t, err)
}

func TestCrawler_MissingRoot(t *testing.T) {
	err := newTestCrawler(t).ScanProject(context.Background(), filepath.Join(t.TempDir(), "nope"), func(File) error { return nil })
	assert.Error(t, err)
}
