// Package sqlite provides the concrete, transactional ResultSink backing
// the CLI: a single embedded database file holding one row per scan, one
// row per duplicate-set member, and one row per unique-size fact.
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/twpayne/find-duplicates/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	path_separator INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS duplicates (
	scan_id TEXT NOT NULL,
	set_id INTEGER NOT NULL,
	size INTEGER NOT NULL,
	path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS unique_sizes (
	scan_id TEXT NOT NULL,
	size INTEGER NOT NULL,
	path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS duplicates_scan_idx ON duplicates(scan_id);
CREATE INDEX IF NOT EXISTS unique_sizes_scan_idx ON unique_sizes(scan_id);
`

// Sink is a core.ResultSink backed by a modernc.org/sqlite database file,
// pure Go and cgo-free like the rest of this module. One Sink is good for
// exactly one scan: Begin opens the database and starts a transaction,
// Commit or Abort closes both. The Processor calls RecordDuplicateSet and
// RecordUniqueSize concurrently from whatever goroutine finishes a head, so
// mu guards nextSetID and serializes the statements run against tx.
type Sink struct {
	path          string
	pathSeparator byte
	startedAt     int64

	db *sql.DB
	tx *sql.Tx

	mu        sync.Mutex
	scanID    string
	nextSetID int64
}

// New returns a Sink that will write to the database file at path when
// Begin is called. startedAt is a Unix timestamp supplied by the caller
// (core.Run never calls time.Now() itself, so neither does this package by
// default — the CLI stamps it once at process start).
func New(path string, pathSeparator byte, startedAt int64) *Sink {
	return &Sink{path: path, pathSeparator: pathSeparator, startedAt: startedAt}
}

var _ core.ResultSink = (*Sink)(nil)

// Begin opens the database file (creating it and its schema if necessary),
// starts the transaction every subsequent call writes into, and inserts
// the scan's own row keyed by a freshly minted random UUID.
func (s *Sink) Begin() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return &core.ConfigError{Reason: fmt.Sprintf("opening result database %q: %v", s.path, err)}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return &core.ConfigError{Reason: fmt.Sprintf("initializing result database schema: %v", err)}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		db.Close()
		return fmt.Errorf("minting scan id: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return fmt.Errorf("starting result transaction: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO scan (id, started_at, path_separator) VALUES (?, ?, ?)`,
		id.String(), s.startedAt, int(s.pathSeparator),
	); err != nil {
		tx.Rollback()
		db.Close()
		return fmt.Errorf("recording scan row: %w", err)
	}

	s.db = db
	s.tx = tx
	s.scanID = id.String()
	return nil
}

// RecordDuplicateSet inserts one row per path in the set, sharing a
// set_id. Paths are sorted first purely so repeated runs over the same
// filesystem produce byte-identical rows for tests; it carries no
// correctness weight per the core's ordering guarantees.
//
// The Processor calls this from whatever goroutine finishes processing a
// head, so set_id allocation and the statements run against the shared tx
// are serialized under mu: database/sql.Tx is not safe for concurrent use,
// and two heads racing on nextSetID would otherwise assign the same set_id
// to two unrelated duplicate classes.
func (s *Sink) RecordDuplicateSet(size int64, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()

	setID := s.nextSetID
	s.nextSetID++

	stmt, err := s.tx.Prepare(`INSERT INTO duplicates (scan_id, set_id, size, path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing duplicate insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range sorted {
		if _, err := stmt.Exec(s.scanID, setID, size, p); err != nil {
			return fmt.Errorf("recording duplicate row: %w", err)
		}
	}
	return nil
}

// RecordUniqueSize inserts a single unique_sizes row. Serialized under mu
// for the same reason as RecordDuplicateSet: tx is shared across the
// Processor's concurrent heads.
func (s *Sink) RecordUniqueSize(size int64, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tx.Exec(
		`INSERT INTO unique_sizes (scan_id, size, path) VALUES (?, ?, ?)`,
		s.scanID, size, path,
	); err != nil {
		return fmt.Errorf("recording unique-size row: %w", err)
	}
	return nil
}

// Commit commits the transaction and closes the database, making the scan's
// results durable and visible to other readers of the same file.
func (s *Sink) Commit() error {
	if err := s.tx.Commit(); err != nil {
		s.db.Close()
		return fmt.Errorf("committing result transaction: %w", err)
	}
	return s.db.Close()
}

// Abort rolls back the transaction, leaving no trace of the scan in the
// database, and closes the connection.
func (s *Sink) Abort() error {
	rollbackErr := s.tx.Rollback()
	closeErr := s.db.Close()
	if rollbackErr != nil {
		return fmt.Errorf("rolling back result transaction: %w", rollbackErr)
	}
	return closeErr
}
