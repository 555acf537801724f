package book

import (
	"errors"
	"fmt"

	"github.com/smileynet/rolodex/internal/contact"
)

// SnapshotVersion is the snapshot format written by Export.
const SnapshotVersion = 1

// ErrUnsupportedVersion indicates a snapshot written in an unknown format.
var ErrUnsupportedVersion = errors.New("book: unsupported snapshot version")

// Snapshot is the complete state of a Book. Records are listed in
// insertion order.
type Snapshot struct {
	Version int              `json:"version" yaml:"version"`
	Records []RecordSnapshot `json:"records" yaml:"records"`
}

// RecordSnapshot is the exported form of a single record.
type RecordSnapshot struct {
	Name     string   `json:"name" yaml:"name"`
	Phones   []string `json:"phones" yaml:"phones"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// Export returns a snapshot of the whole book.
func (b *Book) Export() Snapshot {
	s := Snapshot{
		Version: SnapshotVersion,
		Records: make([]RecordSnapshot, 0, b.Len()),
	}
	for r := range b.All() {
		rs := RecordSnapshot{Name: r.Name(), Phones: []string{}}
		for _, p := range r.Phones() {
			rs.Phones = append(rs.Phones, p.String())
		}
		if bd, ok := r.Birthday(); ok {
			rs.Birthday = bd.String()
		}
		s.Records = append(s.Records, rs)
	}
	return s
}

// Import replaces the book's contents with the snapshot. Every value is
// validated again; on error the book is left unchanged.
func (b *Book) Import(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	candidate := New()
	for i, rs := range s.Records {
		r, err := restoreRecord(rs)
		if err != nil {
			return fmt.Errorf("book: restoring records[%d] %q: %w", i, rs.Name, err)
		}
		candidate.AddRecord(r)
	}

	b.records = candidate.records
	b.order = candidate.order
	return nil
}

func restoreRecord(rs RecordSnapshot) (*contact.Record, error) {
	opts := []contact.RecordOption{contact.WithPhones(rs.Phones...)}
	if rs.Birthday != "" {
		opts = append(opts, contact.WithBirthday(rs.Birthday))
	}
	return contact.NewRecord(rs.Name, opts...)
}
