package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrMapNotFound is returned by Read when the code map file is missing.
	ErrMapNotFound = errors.New("code map not found")
	// ErrNoDeadSection is returned when a code map carries no dead-code report.
	ErrNoDeadSection = errors.New("code map has no dead-code report")
)

const schemaURL = "https://codemap.local/code-map.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Write stores the code map as indented JSON, creating parent directories.
func Write(path string, m *CodeMap) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode code map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write code map: %w", err)
	}
	return nil
}

// Read loads a code map and validates it against the embedded schema.
func Read(path string) (*CodeMap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read code map: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse code map %s: %w", path, err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile code map schema: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("code map schema validation failed: %w", err)
	}

	var m CodeMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode code map %s: %w", path, err)
	}
	return &m, nil
}
