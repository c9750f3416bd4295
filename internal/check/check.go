// Package check gates CI on a dead-code report.
package check

import (
	"errors"
	"fmt"
	"io"

	"codemap/internal/analysis"
	"codemap/internal/config"
	"codemap/internal/report"
)

// ErrDeadCode is returned by Run when a threshold is exceeded.
var ErrDeadCode = errors.New("dead code detected")

// maxListed bounds how many offenders are printed per category.
const maxListed = 10

// Result is the outcome of evaluating a report against thresholds.
type Result struct {
	Report          analysis.DeadReport
	Thresholds      config.Thresholds
	FilesExceeded   bool
	ExportsExceeded bool
}

// Failed reports whether any enabled gate tripped.
func (r Result) Failed() bool {
	return r.FilesExceeded || r.ExportsExceeded
}

// Evaluate compares the report with the thresholds.
func Evaluate(rep analysis.DeadReport, th config.Thresholds) Result {
	return Result{
		Report:          rep,
		Thresholds:      th,
		FilesExceeded:   th.FailOnUnusedFiles && len(rep.UnusedFiles) > th.MaxUnusedFiles,
		ExportsExceeded: th.FailOnUnusedExports && len(rep.UnusedExports) > th.MaxUnusedExports,
	}
}

// FilterChanged keeps only entries whose file is in changed.
func FilterChanged(rep analysis.DeadReport, changed map[string]struct{}) analysis.DeadReport {
	out := analysis.DeadReport{
		UnusedFiles:   []string{},
		UnusedExports: []analysis.UnusedExport{},
	}
	for _, f := range rep.UnusedFiles {
		if _, ok := changed[f]; ok {
			out.UnusedFiles = append(out.UnusedFiles, f)
		}
	}
	for _, e := range rep.UnusedExports {
		if _, ok := changed[e.File]; ok {
			out.UnusedExports = append(out.UnusedExports, e)
		}
	}
	return out
}

// Run evaluates rep, prints the outcome and returns ErrDeadCode on failure.
// Progress goes to out and failures to errOut; paths are shown relative to base.
func Run(out, errOut io.Writer, base string, rep analysis.DeadReport, th config.Thresholds) error {
	res := Evaluate(rep, th)
	Print(out, errOut, base, res)
	if res.Failed() {
		return ErrDeadCode
	}
	return nil
}

// Print writes the human-readable gate outcome.
func Print(out, errOut io.Writer, base string, res Result) {
	rep := res.Report
	fmt.Fprintf(out, "📊 Dead Code Analysis Results:\n")
	fmt.Fprintf(out, "   🗑️  Unused files: %d\n", len(rep.UnusedFiles))
	fmt.Fprintf(out, "   🗑️  Unused exports: %d\n", len(rep.UnusedExports))

	if res.FilesExceeded {
		fmt.Fprintf(errOut, "\n❌ Too many unused files found: %d (max: %d)\n", len(rep.UnusedFiles), res.Thresholds.MaxUnusedFiles)
		fmt.Fprintf(errOut, "   Unused files:\n")
		listed := make([]string, len(rep.UnusedFiles))
		for i, f := range rep.UnusedFiles {
			listed[i] = report.Rel(base, f)
		}
		printList(errOut, listed)
	}

	if res.ExportsExceeded {
		fmt.Fprintf(errOut, "\n❌ Too many unused exports found: %d (max: %d)\n", len(rep.UnusedExports), res.Thresholds.MaxUnusedExports)
		fmt.Fprintf(errOut, "   Unused exports:\n")
		listed := make([]string, len(rep.UnusedExports))
		for i, e := range rep.UnusedExports {
			listed[i] = fmt.Sprintf("%s in %s", e.ExportName, report.Rel(base, e.File))
		}
		printList(errOut, listed)
	}

	if res.Failed() {
		fmt.Fprintf(errOut, "\n🚨 Dead code detected! Please clean up unused code before merging.\n")
		fmt.Fprintf(errOut, "\n💡 Tips:\n")
		fmt.Fprintf(errOut, "   • Remove unused files completely\n")
		fmt.Fprintf(errOut, "   • Remove unused exports from files\n")
		fmt.Fprintf(errOut, "   • Check if code is actually used but not detected (dynamic imports, etc.)\n")
		return
	}

	fmt.Fprintf(out, "\n✅ No problematic dead code found!\n")
	if len(rep.UnusedFiles) > 0 || len(rep.UnusedExports) > 0 {
		fmt.Fprintf(out, "   (Some dead code exists but is within acceptable limits)\n")
	}
}

func printList(w io.Writer, items []string) {
	for i, item := range items {
		if i == maxListed {
			fmt.Fprintf(w, "     ... and %d more\n", len(items)-maxListed)
			return
		}
		fmt.Fprintf(w, "     • %s\n", item)
	}
}
