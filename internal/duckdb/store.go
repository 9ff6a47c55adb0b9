// Package duckdb provides a persistent history of merge runs.
// Each run stores its inputs, orientation result, every merged call and every
// classified disagreement, so earlier reconciliations can be queried later.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for merge run history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS merge_runs (
			run_id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP,
			primary_path VARCHAR,
			primary_format VARCHAR,
			primary_size BIGINT,
			primary_mtime TIMESTAMP,
			secondary_path VARCHAR,
			secondary_format VARCHAR,
			secondary_size BIGINT,
			secondary_mtime TIMESTAMP,
			output_path VARCHAR,
			orientation_issue BOOLEAN,
			pattern VARCHAR,
			pattern_frequency DOUBLE,
			total_markers BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS merged_calls (
			run_id VARCHAR,
			rsid VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			genotype VARCHAR,
			provenance VARCHAR,
			bucket VARCHAR,
			PRIMARY KEY (run_id, rsid)
		)`,
		`CREATE TABLE IF NOT EXISTS classifications (
			run_id VARCHAR,
			bucket VARCHAR,
			rsid VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			primary_genotype VARCHAR,
			secondary_genotype VARCHAR,
			chosen_genotype VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// appendRows bulk-inserts into table using the DuckDB Appender API.
func (s *Store) appendRows(table string, fn func(a *goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}
