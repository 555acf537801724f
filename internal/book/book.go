// Package book implements the address book: a name-keyed index of contact
// records that remembers insertion order for iteration.
package book

import (
	"iter"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/smileynet/rolodex/internal/contact"
)

// Book indexes records by name. At most one record exists per name.
// It is not safe for concurrent use.
type Book struct {
	records map[string]*contact.Record
	order   []string
}

// New creates an empty Book.
func New() *Book {
	return &Book{records: make(map[string]*contact.Record)}
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.order)
}

// AddRecord stores r under its name, replacing any record with that name.
// A replaced record keeps its original position in iteration order.
func (b *Book) AddRecord(r *contact.Record) {
	name := r.Name()
	if _, ok := b.records[name]; !ok {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

// Find returns the record stored under exactly name.
func (b *Book) Find(name string) (*contact.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// FindByTerm returns the records with a phone containing term, followed by
// the records whose name contains term case-insensitively. A record that
// matches both ways appears twice.
func (b *Book) FindByTerm(term string) []*contact.Record {
	var out []*contact.Record
	for r := range b.All() {
		if r.HasPhoneContaining(term) {
			out = append(out, r)
		}
	}
	lower := strings.ToLower(term)
	for r := range b.All() {
		if strings.Contains(strings.ToLower(r.Name()), lower) {
			out = append(out, r)
		}
	}
	return out
}

// Delete removes the record stored under name. Deleting a missing name is a no-op.
func (b *Book) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
}

// Records returns the records in insertion order.
func (b *Book) Records() []*contact.Record {
	out := make([]*contact.Record, len(b.order))
	for i, name := range b.order {
		out[i] = b.records[name]
	}
	return out
}

// All yields every record in insertion order. Each range over the returned
// sequence starts again from the first record.
func (b *Book) All() iter.Seq[*contact.Record] {
	return func(yield func(*contact.Record) bool) {
		for _, name := range b.order {
			if !yield(b.records[name]) {
				return
			}
		}
	}
}

// Chunks yields consecutive groups of size records in insertion order.
// Every chunk has size records except the last, which holds the remainder.
// Each range over the returned sequence starts again from the first record.
// Chunks panics if size is less than 1.
func (b *Book) Chunks(size int) iter.Seq[[]*contact.Record] {
	if size < 1 {
		panic("book: chunk size must be positive")
	}
	return func(yield func([]*contact.Record) bool) {
		for chunk := range slices.Chunk(b.Records(), size) {
			if !yield(chunk) {
				return
			}
		}
	}
}

// Upcoming is a record whose birthday falls within a look-ahead window.
type Upcoming struct {
	Record *contact.Record
	Days   int
}

// UpcomingBirthdays returns records whose next birthday is at most within
// days after today, soonest first and then by name.
func (b *Book) UpcomingBirthdays(today time.Time, within int) []Upcoming {
	var out []Upcoming
	for r := range b.All() {
		days, ok := r.DaysToBirthday(today)
		if !ok || days > within {
			continue
		}
		out = append(out, Upcoming{Record: r, Days: days})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days < out[j].Days
		}
		return out[i].Record.Name() < out[j].Record.Name()
	})
	return out
}
