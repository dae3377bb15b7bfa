// Package store persists parsed programs in a SQLite database keyed by the
// source fingerprint, so unchanged files skip re-parsing across runs.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
)

// The key is (fingerprint, name), not fingerprint alone: a program's name
// derives from its file name, so two byte-identical files are distinct
// programs and must not serve each other's entries.
const schema = `
CREATE TABLE IF NOT EXISTS programs (
	fingerprint TEXT NOT NULL,
	name        TEXT NOT NULL,
	body        BLOB NOT NULL,
	stored_at   INTEGER NOT NULL,
	PRIMARY KEY (fingerprint, name)
);
CREATE INDEX IF NOT EXISTS programs_name ON programs(name);
`

// DriverType returns "purego" or "cgo" depending on the build.
func DriverType() string {
	return driverType
}

// Store is a SQLite-backed program cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errs.Wrapf(err, "open program store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrapf(err, "initialize program store %s", path)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a program by source fingerprint and program name. The second
// return value is false when no such entry is stored.
func (s *Store) Get(ctx context.Context, fingerprint, name string) (*idl.ProgramType, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM programs WHERE fingerprint = ? AND name = ?`, fingerprint, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrapf(err, "load program %s", fingerprint)
	}

	var p idl.ProgramType
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, false, errs.Wrapf(err, "decode stored program %s", fingerprint)
	}
	return &p, true, nil
}

// Put stores a program under the given source fingerprint and its own
// name, replacing any earlier entry for that pair.
func (s *Store) Put(ctx context.Context, fingerprint string, p *idl.ProgramType) error {
	body, err := json.Marshal(p)
	if err != nil {
		return errs.Wrapf(err, "encode program %s", p.Name)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO programs (fingerprint, name, body, stored_at) VALUES (?, ?, ?, ?)`,
		fingerprint, p.Name, body, time.Now().Unix())
	if err != nil {
		return errs.Wrapf(err, "store program %s", p.Name)
	}
	return nil
}

// Delete removes the entry for a fingerprint and program name, if present.
func (s *Store) Delete(ctx context.Context, fingerprint, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM programs WHERE fingerprint = ? AND name = ?`, fingerprint, name)
	if err != nil {
		return errs.Wrapf(err, "delete program %s", fingerprint)
	}
	return nil
}

// Len returns the number of stored programs.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM programs`).Scan(&n); err != nil {
		return 0, errs.Wrap(err, "count stored programs")
	}
	return n, nil
}

// PruneOlderThan deletes entries stored before the cutoff and reports how
// many were removed.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM programs WHERE stored_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, errs.Wrap(err, "prune stored programs")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune stored programs: %w", err)
	}
	return n, nil
}
