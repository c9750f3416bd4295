// Package git lists files changed relative to a git ref.
package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

type ChangedFile struct {
	Path    string // relative to the repository root
	Deleted bool
}

// GetChangedFiles runs git diff in dir and returns the changed files.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "-U0", baseRef)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return parseDiff(output)
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return filepath.FromSlash(strings.TrimSpace(string(output))), nil
}

// ChangedPaths returns the absolute paths of files changed since baseRef,
// deletions included.
func ChangedPaths(ctx context.Context, dir, baseRef string) (map[string]struct{}, error) {
	top, err := RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	changes, err := GetChangedFiles(ctx, top, baseRef)
	if err != nil {
		return nil, err
	}
	return absPaths(top, changes), nil
}

func absPaths(top string, changes []ChangedFile) map[string]struct{} {
	paths := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		paths[filepath.Join(top, filepath.FromSlash(c.Path))] = struct{}{}
	}
	return paths
}

func parseDiff(output []byte) ([]ChangedFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	// Minified sources produce diff lines far beyond the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var changes []ChangedFile
	var currentFile *ChangedFile

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "diff --git") {
			// a/path/to/file b/path/to/file; keep the new side.
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				if currentFile != nil {
					changes = append(changes, *currentFile)
				}
				currentFile = &ChangedFile{Path: strings.TrimPrefix(parts[3], "b/")}
			}
			continue
		}

		if currentFile == nil {
			continue
		}

		if line == "+++ /dev/null" {
			currentFile.Deleted = true
		}
	}

	if currentFile != nil {
		changes = append(changes, *currentFile)
	}

	return changes, scanner.Err()
}
