// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records pipeline runs in a SQLite database so run
// history can be queried without walking the artifact tree.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "pipeline.db"

// Run is one catalog row: a pipeline stage invocation and the artifacts
// it produced. Source and Keywords are set only for derived datasets.
type Run struct {
	Dataset      string   `json:"dataset" yaml:"dataset"`
	Timestamp    string   `json:"timestamp" yaml:"timestamp"`
	ResultsCount int      `json:"results_count" yaml:"results_count"`
	RawPath      string   `json:"raw_path" yaml:"raw_path"`
	ParsedPath   string   `json:"parsed_path" yaml:"parsed_path"`
	LogPath      string   `json:"log_path" yaml:"log_path"`
	Source       string   `json:"source,omitempty" yaml:"source,omitempty"`
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Store manages the run catalog SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the catalog database at indexDir/pipeline.db,
// creating the schema when absent.
func NewStore(indexDir string, maxResults int) (*Store, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, indexDir: indexDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			results_count INTEGER NOT NULL,
			raw_path TEXT,
			parsed_path TEXT,
			log_path TEXT,
			source TEXT,
			keywords TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun appends one run to the catalog.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	var keywords any
	if len(r.Keywords) > 0 {
		data, err := json.Marshal(r.Keywords)
		if err != nil {
			return fmt.Errorf("marshaling keywords: %w", err)
		}
		keywords = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (dataset, timestamp, results_count, raw_path, parsed_path, log_path, source, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Dataset, r.Timestamp, r.ResultsCount, r.RawPath, r.ParsedPath, r.LogPath,
		nullable(r.Source), keywords)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// ListRuns returns runs newest-first, optionally filtered by dataset.
// A limit of zero uses the store default.
func (s *Store) ListRuns(ctx context.Context, dataset string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	var qb strings.Builder
	var args []any
	qb.WriteString(
		`SELECT dataset, timestamp, results_count, raw_path, parsed_path, log_path, source, keywords
		 FROM runs WHERE 1=1`)
	if dataset != "" {
		qb.WriteString(` AND dataset = ?`)
		args = append(args, dataset)
	}
	qb.WriteString(` ORDER BY timestamp DESC, rowid DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var source, keywords sql.NullString
		if err := rows.Scan(&r.Dataset, &r.Timestamp, &r.ResultsCount,
			&r.RawPath, &r.ParsedPath, &r.LogPath, &source, &keywords); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Source = source.String
		if keywords.Valid && keywords.String != "" {
			if err := json.Unmarshal([]byte(keywords.String), &r.Keywords); err != nil {
				return nil, fmt.Errorf("parsing keywords for %s/%s: %w", r.Dataset, r.Timestamp, err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FormatTable writes runs as a human-readable table to w.
func FormatTable(runs []Run, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-18s  %-16s  %7s  %s\n", "Dataset", "Timestamp", "Records", "Parsed")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(w, "%-18s  %-16s  %7d  %s\n", r.Dataset, r.Timestamp, r.ResultsCount, r.ParsedPath)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}
