// Package state persists address book snapshots.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smileynet/rolodex/internal/book"
)

// Store saves and loads whole-book snapshots.
type Store interface {
	Save(snap book.Snapshot) error
	// Load returns (snapshot, true, nil) if state was saved before and
	// (zero, false, nil) if there is nothing to load.
	Load() (book.Snapshot, bool, error)
}

// ErrInvalidPath indicates an empty or directory-only storage path.
var ErrInvalidPath = errors.New("state: invalid storage path")

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// FileStore persists the snapshot as a single encoded file.
type FileStore struct {
	path  string
	codec Codec
}

// NewFileStore creates a FileStore that writes snapshots to path using codec.
func NewFileStore(path string, codec Codec) (*FileStore, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path, codec: codec}, nil
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// Save encodes the snapshot and replaces the file atomically.
func (s *FileStore) Save(snap book.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	data, err := s.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	return nil
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load() (book.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return book.Snapshot{}, false, nil
		}
		return book.Snapshot{}, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	var snap book.Snapshot
	if err := s.codec.Unmarshal(data, &snap); err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}
	return snap, true, nil
}

// Remove deletes the snapshot file. Removing a missing file is not an error.
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("state: removing %s: %w", s.path, err)
	}
	return nil
}

// checkPath rejects paths that cannot name a file.
func checkPath(path string) error {
	base := filepath.Base(path)
	if path == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}
