package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codemap/internal/analysis"
	"codemap/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned by LoadReport when nothing was saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			exports JSON,
			imports JSON,
			extract_error TEXT,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			from_path TEXT,
			to_path TEXT,
			PRIMARY KEY (from_path, to_path)
		);`,
		`CREATE TABLE IF NOT EXISTS dead_files (
			path TEXT PRIMARY KEY,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dead_exports (
			file TEXT,
			export_name TEXT,
			position INTEGER NOT NULL,
			PRIMARY KEY (file, export_name)
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_path);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot replaces every table's content in a single transaction, so
// readers never observe a mix of two runs.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, g *graph.Graph, report analysis.DeadReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"files", "edges", "dead_files", "dead_exports", "snapshot"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// 1. Save Files
	fileStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files (path, role, exports, imports, extract_error, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer fileStmt.Close()

	for i, path := range g.Nodes() {
		n, _ := g.Node(path)
		exports, err := json.Marshal(n.Exports)
		if err != nil {
			return err
		}
		imports, err := json.Marshal(n.Imports)
		if err != nil {
			return err
		}
		var extractErr sql.NullString
		if n.ExtractErr != nil {
			extractErr = sql.NullString{String: n.ExtractErr.Error(), Valid: true}
		}
		if _, err := fileStmt.ExecContext(ctx, path, string(n.Role), exports, imports, extractErr, i); err != nil {
			return fmt.Errorf("failed to save file %s: %w", path, err)
		}
	}

	// 2. Save Edges
	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (from_path, to_path) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for _, from := range g.Nodes() {
		for _, to := range g.Uses(from) {
			if _, err := edgeStmt.ExecContext(ctx, from, to); err != nil {
				return fmt.Errorf("failed to save edge %s -> %s: %w", from, to, err)
			}
		}
	}

	// 3. Save Report
	for i, f := range report.UnusedFiles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dead_files (path, position) VALUES (?, ?)`, f, i); err != nil {
			return fmt.Errorf("failed to save unused file: %w", err)
		}
	}
	for i, e := range report.UnusedExports {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dead_exports (file, export_name, position) VALUES (?, ?, ?)`, e.File, e.ExportName, i); err != nil {
			return fmt.Errorf("failed to save unused export: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot (id) VALUES (1)`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadFiles(ctx context.Context) ([]graph.FileNode, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, role, exports, imports, extract_error FROM files ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []graph.FileNode{}
	for rows.Next() {
		var n graph.FileNode
		var role string
		var exports, imports []byte
		var extractErr sql.NullString
		if err := rows.Scan(&n.Path, &role, &exports, &imports, &extractErr); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		if n.Role, err = graph.ParseRole(role); err != nil {
			return nil, fmt.Errorf("file %s: %w", n.Path, err)
		}
		if len(exports) > 0 {
			if err := json.Unmarshal(exports, &n.Exports); err != nil {
				return nil, fmt.Errorf("file %s: decode exports: %w", n.Path, err)
			}
		}
		if len(imports) > 0 {
			if err := json.Unmarshal(imports, &n.Imports); err != nil {
				return nil, fmt.Errorf("file %s: decode imports: %w", n.Path, err)
			}
		}
		if extractErr.Valid {
			n.ExtractErr = errors.New(extractErr.String)
		}
		files = append(files, n)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) LoadEdges(ctx context.Context) ([]Edge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT from_path, to_path FROM edges ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	edges := []Edge{}
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.From, &e.To); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (s *SQLiteStore) LoadReport(ctx context.Context) (*analysis.DeadReport, error) {
	var saved int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshot").Scan(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	if saved == 0 {
		return nil, ErrNoSnapshot
	}

	report := &analysis.DeadReport{
		UnusedFiles:   []string{},
		UnusedExports: []analysis.UnusedExport{},
	}

	rows, err := s.db.QueryContext(ctx, "SELECT path FROM dead_files ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query unused files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan unused file: %w", err)
		}
		report.UnusedFiles = append(report.UnusedFiles, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	expRows, err := s.db.QueryContext(ctx, "SELECT file, export_name FROM dead_exports ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query unused exports: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var e analysis.UnusedExport
		if err := expRows.Scan(&e.File, &e.ExportName); err != nil {
			return nil, fmt.Errorf("failed to scan unused export: %w", err)
		}
		report.UnusedExports = append(report.UnusedExports, e)
	}
	return report, expRows.Err()
}

// LoadGraph rebuilds the stored graph by re-resolving the stored imports.
func (s *SQLiteStore) LoadGraph(ctx context.Context, r graph.Resolver) (*graph.Graph, error) {
	files, err := s.LoadFiles(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Build(files, r)
}
