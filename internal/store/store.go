// Package store implements the Store (C3): durable, queryable persistence
// for ingested API documents, backed by modernc.org/sqlite (a pure-Go
// driver, avoiding a cgo dependency for the rest of the module's build).
//
// A document's full payload and each of its endpoints/schemas/security
// schemes are stored twice over: once as a JSON blob for O(1)
// reconstruction, once as indexed columns for the lookups the Query
// Processor and Schema Resolver need. Reads use a dedicated read-only
// connection pool so lookups are not blocked behind the single-writer
// ingest transaction (spec §4.3).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/circuitbreaker"
	"openapi-mcp-navigator/internal/logging"
)

// schemaVersion is bumped whenever the on-disk table shape changes. A store
// opened against a database stamped with a newer version refuses to start
// rather than risk misreading it (spec §4.3 "schema version refusal").
const schemaVersion = 1

// Store is the ingest+lookup boundary in front of the sqlite catalog.
type Store struct {
	write   *sql.DB
	read    *sql.DB
	breaker *circuitbreaker.Breaker
	log     logging.Logger
}

// ErrSchemaVersionNewer is returned by Open when the on-disk catalog was
// written by a newer schema version than this binary knows about.
var ErrSchemaVersionNewer = fmt.Errorf("catalog schema version is newer than this build supports")

// Open creates (if absent) and migrates the sqlite catalog under dataDir.
func Open(dataDir string, log logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, apperrors.DatabaseConnection("creating data directory: " + err.Error())
	}
	dsn := filepath.Join(dataDir, "catalog.db")

	write, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	write.SetMaxOpenConns(1) // single writer, per sqlite's own concurrency model

	read, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&mode=ro")
	if err != nil {
		write.Close()
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	read.SetMaxOpenConns(4)

	s := &Store{write: write, read: read, breaker: circuitbreaker.New(circuitbreaker.Default()), log: log}

	if err := s.migrate(context.Background()); err != nil {
		write.Close()
		read.Close()
		return nil, err
	}
	return s, nil
}

// Close releases both connection pools.
func (s *Store) Close() error {
	re := s.read.Close()
	we := s.write.Close()
	if we != nil {
		return we
	}
	return re
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content_hash TEXT UNIQUE NOT NULL,
			source_path TEXT,
			title TEXT,
			version TEXT,
			openapi_version TEXT,
			ingested_at TEXT,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS endpoints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			method TEXT NOT NULL,
			operation_id TEXT,
			payload TEXT NOT NULL,
			UNIQUE(document_id, path, method)
		)`,
		`CREATE TABLE IF NOT EXISTS schemas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			payload TEXT NOT NULL,
			UNIQUE(document_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS security_schemes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			payload TEXT NOT NULL,
			UNIQUE(document_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_endpoints_document ON endpoints(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schemas_document ON schemas(document_id)`,
	}

	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseConnection(err.Error())
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return apperrors.DatabaseConnection("migration: " + err.Error())
		}
	}

	var onDisk string
	err = tx.QueryRowContext(ctx, `SELECT value FROM schema_meta WHERE key = 'schema_version'`).Scan(&onDisk)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_meta(key, value) VALUES ('schema_version', ?)`, fmt.Sprint(schemaVersion)); err != nil {
			return apperrors.DatabaseConnection(err.Error())
		}
	case err != nil:
		return apperrors.DatabaseConnection(err.Error())
	default:
		var diskVersion int
		fmt.Sscanf(onDisk, "%d", &diskVersion)
		if diskVersion > schemaVersion {
			return ErrSchemaVersionNewer
		}
	}

	return tx.Commit()
}
