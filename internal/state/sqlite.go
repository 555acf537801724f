package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smileynet/rolodex/internal/book"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contacts (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	birthday TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS phones (
	contact_position INTEGER NOT NULL REFERENCES contacts(position) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	value            TEXT NOT NULL,
	PRIMARY KEY (contact_position, position)
);
`

// SQLiteStore persists the snapshot in a SQLite database. Every Save
// rewrites all rows in one transaction.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates a SQLiteStore backed by the database file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return &SQLiteStore{path: path}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Save replaces the stored snapshot.
func (s *SQLiteStore) Save(snap book.Snapshot) (err error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	db, err := s.open("rwc")
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("state: creating schema in %s: %w", s.path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("state: beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM phones", "DELETE FROM contacts", "DELETE FROM meta"} {
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("state: clearing %s: %w", s.path, err)
		}
	}
	if _, err = tx.Exec(`INSERT INTO meta (key, value) VALUES ('version', ?)`, fmt.Sprint(snap.Version)); err != nil {
		return fmt.Errorf("state: writing version: %w", err)
	}
	for i, rs := range snap.Records {
		if _, err = tx.Exec(`INSERT INTO contacts (position, name, birthday) VALUES (?, ?, ?)`, i, rs.Name, rs.Birthday); err != nil {
			return fmt.Errorf("state: writing contact %q: %w", rs.Name, err)
		}
		for j, phone := range rs.Phones {
			if _, err = tx.Exec(`INSERT INTO phones (contact_position, position, value) VALUES (?, ?, ?)`, i, j, phone); err != nil {
				return fmt.Errorf("state: writing phone for %q: %w", rs.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("state: committing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the stored snapshot. A missing database file means nothing was saved.
func (s *SQLiteStore) Load() (book.Snapshot, bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return book.Snapshot{}, false, nil
		}
		return book.Snapshot{}, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	db, err := s.open("ro")
	if err != nil {
		return book.Snapshot{}, false, err
	}
	defer db.Close()

	var version int
	err = db.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'version'`).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book.Snapshot{}, false, nil
		}
		return book.Snapshot{}, false, fmt.Errorf("state: reading version from %s: %w", s.path, err)
	}

	snap := book.Snapshot{Version: version, Records: []book.RecordSnapshot{}}
	positions := make(map[int]int)

	rows, err := db.Query(`SELECT position, name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: querying contacts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pos int
		rs := book.RecordSnapshot{Phones: []string{}}
		if err := rows.Scan(&pos, &rs.Name, &rs.Birthday); err != nil {
			return book.Snapshot{}, false, fmt.Errorf("state: scanning contact: %w", err)
		}
		positions[pos] = len(snap.Records)
		snap.Records = append(snap.Records, rs)
	}
	if err := rows.Err(); err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: iterating contacts: %w", err)
	}

	phoneRows, err := db.Query(`SELECT contact_position, value FROM phones ORDER BY contact_position, position`)
	if err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: querying phones: %w", err)
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var pos int
		var value string
		if err := phoneRows.Scan(&pos, &value); err != nil {
			return book.Snapshot{}, false, fmt.Errorf("state: scanning phone: %w", err)
		}
		idx, ok := positions[pos]
		if !ok {
			return book.Snapshot{}, false, fmt.Errorf("state: phone %q references missing contact %d", value, pos)
		}
		snap.Records[idx].Phones = append(snap.Records[idx].Phones, value)
	}
	if err := phoneRows.Err(); err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: iterating phones: %w", err)
	}

	return snap, true, nil
}

func (s *SQLiteStore) open(mode string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000&_foreign_keys=on", strings.ReplaceAll(s.path, " ", "%20"), mode)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("state: opening sqlite database failed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: connecting to sqlite database failed: %w", err)
	}
	return db, nil
}
