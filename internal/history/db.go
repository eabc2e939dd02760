package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at    TEXT NOT NULL,
    operation     TEXT NOT NULL,
    column_name   TEXT NOT NULL DEFAULT '',
    infile        TEXT NOT NULL,
    outfile       TEXT NOT NULL,
    rows          INTEGER NOT NULL DEFAULT 0,
    zeroed        INTEGER NOT NULL DEFAULT 0,
    total_minutes INTEGER NOT NULL DEFAULT 0,
    policy        TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    error         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion is bumped whenever the runs table changes shape.
const schemaVersion = "1"

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("write schema version: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

type Run struct {
	ID           int64
	StartedAt    time.Time
	Operation    string
	Column       string
	InFile       string
	OutFile      string
	Rows         int
	Zeroed       int
	TotalMinutes int
	Policy       string
	Status       string
	Error        string
}

// Record stores r and returns its id.
func (d *DB) Record(r Run) (int64, error) {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	res, err := d.db.Exec(`
		INSERT INTO runs (started_at, operation, column_name, infile, outfile, rows, zeroed, total_minutes, policy, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339), r.Operation, r.Column, r.InFile, r.OutFile,
		r.Rows, r.Zeroed, r.TotalMinutes, r.Policy, r.Status, r.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first. limit <= 0 means all.
func (d *DB) Recent(limit int) ([]Run, error) {
	q := `SELECT id, started_at, operation, column_name, infile, outfile, rows, zeroed, total_minutes, policy, status, error
		FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Operation, &r.Column, &r.InFile, &r.OutFile,
			&r.Rows, &r.Zeroed, &r.TotalMinutes, &r.Policy, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (d *DB) RunCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}
