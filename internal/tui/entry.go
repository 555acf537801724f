// Package tui renders pages of contacts, either as an interactive Bubble Tea
// browser or as plain text.
package tui

import (
	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/contact"
)

// Entry is the display form of a contact record.
type Entry struct {
	Name     string
	Phones   []string
	Birthday string
}

// EntriesFrom converts records to display entries, preserving order.
func EntriesFrom(records []*contact.Record) []Entry {
	out := make([]Entry, len(records))
	for i, r := range records {
		phones := r.Phones()
		e := Entry{Name: r.Name(), Phones: make([]string, len(phones))}
		for j, p := range phones {
			e.Phones[j] = p.String()
		}
		if bd, ok := r.Birthday(); ok {
			e.Birthday = bd.String()
		}
		out[i] = e
	}
	return out
}

// Paginate splits the book into pages of at most size entries.
// An empty book yields no pages. It panics if size < 1.
func Paginate(b *book.Book, size int) [][]Entry {
	var pages [][]Entry
	for chunk := range b.Chunks(size) {
		pages = append(pages, EntriesFrom(chunk))
	}
	return pages
}
