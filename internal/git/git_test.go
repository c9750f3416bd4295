package git

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/pages/index.tsx b/pages/index.tsx
index 1111111..2222222 100644
--- a/pages/index.tsx
+++ b/pages/index.tsx
@@ -3 +3,2 @@ import Nav from '../components/Nav'
-old
+new
+newer
@@ -10,2 +11 @@ export default function Home() {
-a
-b
+c
diff --git a/lib/old.ts b/lib/old.ts
deleted file mode 100644
index 3333333..0000000
--- a/lib/old.ts
+++ /dev/null
@@ -1,2 +0,0 @@
-export const x = 1
-export const y = 2
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, ChangedFile{Path: "pages/index.tsx"}, changes[0])
	assert.Equal(t, ChangedFile{Path: "lib/old.ts", Deleted: true}, changes[1])
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestAbsPaths(t *testing.T) {
	top := filepath.FromSlash("/repo")
	paths := absPaths(top, []ChangedFile{{Path: "pages/index.tsx"}, {Path: "lib/old.ts", Deleted: true}})

	assert.Len(t, paths, 2)
	assert.Contains(t, paths, filepath.Join(top, "pages", "index.tsx"))
	assert.Contains(t, paths, filepath.Join(top, "lib", "old.ts"))
}

func TestParseDiff_LongLines(t *testing.T) {
	diff := "diff --git a/dist.js b/dist.js\n--- a/dist.js\n+++ b/dist.js\n@@ -1 +1 @@\n+" + strings.Repeat("x", 200*1024) + "\n"

	changes, err := parseDiff([]byte(diff))
	require.NoError(t, err)
	assert.Equal(t, []ChangedFile{{Path: "dist.js"}}, changes)
}
