package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    command TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    duration_us INTEGER NOT NULL,
    success BOOLEAN NOT NULL,
    files INTEGER NOT NULL,
    modules INTEGER NOT NULL,
    enums INTEGER NOT NULL,
    structs INTEGER NOT NULL,
    diagnostics TEXT,
    outputs TEXT,
    error TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
`

const buildColumns = `id, command, started_at, duration_us, success, files, modules, enums, structs, diagnostics, outputs, error`

// SQLiteStore stores builds in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path, creating its
// directory when needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, newStorageError("sqlite", "open", fmt.Errorf("db path cannot be empty"))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStorageError("sqlite", "open", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}
	// A single connection serializes writers within the process.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now')) ON CONFLICT(version) DO NOTHING`, schemaVersion); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(`SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`).Scan(&version); err != nil {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != schemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version))
	}
	return nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Record stores a build.
func (s *SQLiteStore) Record(ctx context.Context, b *Build) error {
	diagnostics, err := json.Marshal(b.Diagnostics)
	if err != nil {
		return newStorageError("sqlite", "record", err)
	}
	outputs, err := json.Marshal(b.Outputs)
	if err != nil {
		return newStorageError("sqlite", "record", err)
	}

	var errVal any
	if b.Error != "" {
		errVal = b.Error
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO builds (`+buildColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Command, b.StartedAt.UnixNano(), b.Duration.Microseconds(), b.Success,
		b.Files, b.Modules, b.Enums, b.Structs,
		string(diagnostics), string(outputs), errVal,
	)
	if err != nil {
		return newStorageError("sqlite", "record", err)
	}
	return nil
}

// List returns the builds matching q, newest first.
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]*Build, error) {
	var where []string
	var args []any
	if !q.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.FailedOnly {
		where = append(where, "success = 0")
	}

	query := "SELECT " + buildColumns + " FROM builds"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	builds := []*Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	return builds, nil
}

func scanBuild(rows *sql.Rows) (*Build, error) {
	var (
		b                    Build
		startedAt, duration  int64
		diagnostics, outputs sql.NullString
		errVal               sql.NullString
	)
	err := rows.Scan(&b.ID, &b.Command, &startedAt, &duration, &b.Success,
		&b.Files, &b.Modules, &b.Enums, &b.Structs,
		&diagnostics, &outputs, &errVal)
	if err != nil {
		return nil, err
	}

	b.StartedAt = time.Unix(0, startedAt)
	b.Duration = time.Duration(duration) * time.Microsecond
	b.Error = errVal.String
	if diagnostics.Valid {
		if err := json.Unmarshal([]byte(diagnostics.String), &b.Diagnostics); err != nil {
			return nil, err
		}
	}
	if outputs.Valid {
		if err := json.Unmarshal([]byte(outputs.String), &b.Outputs); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// Count returns the number of stored builds.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM builds`).Scan(&n); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return n, nil
}

// DeleteBefore removes builds started before t.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM builds WHERE started_at < ?`, t.UnixNano())
	if err != nil {
		return 0, newStorageError("sqlite", "delete_before", err)
	}
	return res.RowsAffected()
}

// DeleteOldest removes the n oldest builds.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM builds WHERE id IN (SELECT id FROM builds ORDER BY started_at ASC LIMIT ?)`, n)
	if err != nil {
		return 0, newStorageError("sqlite", "delete_oldest", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
