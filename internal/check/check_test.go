package check

import (
	"bytes"
	"fmt"
	"testing"

	"codemap/internal/analysis"
	"codemap/internal/config"

	"github.com/stretchr/testify/assert"
)

func strictThresholds() config.Thresholds {
	return config.Default().Check
}

func reportWith(files, exports int) analysis.DeadReport {
	rep := analysis.DeadReport{UnusedFiles: []string{}, UnusedExports: []analysis.UnusedExport{}}
	for i := 0; i < files; i++ {
		rep.UnusedFiles = append(rep.UnusedFiles, fmt.Sprintf("/repo/lib/f%02d.ts", i))
	}
	for i := 0; i < exports; i++ {
		rep.UnusedExports = append(rep.UnusedExports, analysis.UnusedExport{File: "/repo/lib/x.ts", ExportName: fmt.Sprintf("e%d", i)})
	}
	return rep
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		rep         analysis.DeadReport
		th          func(*config.Thresholds)
		wantFiles   bool
		wantExports bool
	}{
		{"clean", reportWith(0, 0), nil, false, false},
		{"strict files", reportWith(1, 0), nil, true, false},
		{"strict exports", reportWith(0, 1), nil, false, true},
		{"files gate off", reportWith(3, 0), func(th *config.Thresholds) { th.FailOnUnusedFiles = false }, false, false},
		{"within limit", reportWith(2, 2), func(th *config.Thresholds) { th.MaxUnusedFiles = 2; th.MaxUnusedExports = 2 }, false, false},
		{"over limit", reportWith(3, 2), func(th *config.Thresholds) { th.MaxUnusedFiles = 2; th.MaxUnusedExports = 2 }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := strictThresholds()
			if tt.th != nil {
				tt.th(&th)
			}
			res := Evaluate(tt.rep, th)
			assert.Equal(t, tt.wantFiles, res.FilesExceeded)
			assert.Equal(t, tt.wantExports, res.ExportsExceeded)
			assert.Equal(t, tt.wantFiles || tt.wantExports, res.Failed())
		})
	}
}

func TestRun_ListsFirstTenOffenders(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(&out, &errOut, "/repo", reportWith(12, 0), strictThresholds())

	assert.ErrorIs(t, err, ErrDeadCode)
	assert.Contains(t, out.String(), "Unused files: 12")
	assert.Contains(t, errOut.String(), "Too many unused files found: 12 (max: 0)")
	assert.Contains(t, errOut.String(), "• lib/f09.ts")
	assert.NotContains(t, errOut.String(), "lib/f10.ts")
	assert.Contains(t, errOut.String(), "... and 2 more")
	assert.Contains(t, errOut.String(), "Dead code detected!")
}

func TestRun_WithinLimits(t *testing.T) {
	th := strictThresholds()
	th.MaxUnusedExports = 5

	var out, errOut bytes.Buffer
	err := Run(&out, &errOut, "/repo", reportWith(0, 1), th)

	assert.NoError(t, err)
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "No problematic dead code found!")
	assert.Contains(t, out.String(), "within acceptable limits")
}

func TestFilterChanged(t *testing.T) {
	rep := analysis.DeadReport{
		UnusedFiles: []string{"/repo/a.ts", "/repo/b.ts"},
		UnusedExports: []analysis.UnusedExport{
			{File: "/repo/b.ts", ExportName: "x"},
			{File: "/repo/c.ts", ExportName: "y"},
		},
	}
	got := FilterChanged(rep, map[string]struct{}{"/repo/b.ts": {}})

	assert.Equal(t, []string{"/repo/b.ts"}, got.UnusedFiles)
	assert.Equal(t, []analysis.UnusedExport{{File: "/repo/b.ts", ExportName: "x"}}, got.UnusedExports)

	empty := FilterChanged(rep, nil)
	assert.NotNil(t, empty.UnusedFiles)
	assert.Empty(t, empty.UnusedExports)
}
