package state

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/contact"
)

// sampleBook returns a book exercising phones, duplicates and birthdays.
func sampleBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New()
	for _, seed := range []struct {
		name string
		opts []contact.RecordOption
	}{
		{"John", []contact.RecordOption{contact.WithPhones("1234567890", "7575757575")}},
		{"Jane", []contact.RecordOption{contact.WithPhones("9876543210"), contact.WithBirthday("1992-02-29")}},
		{"Dup", []contact.RecordOption{contact.WithPhones("1111111111", "1111111111")}},
		{"Nobody", nil},
	} {
		r, err := contact.NewRecord(seed.name, seed.opts...)
		if err != nil {
			t.Fatalf("NewRecord(%q) error = %v", seed.name, err)
		}
		b.AddRecord(r)
	}
	return b
}

// assertSameBook compares two books by order and record contents.
func assertSameBook(t *testing.T, got, want *book.Book) {
	t.Helper()
	var gotLines, wantLines []string
	for r := range got.All() {
		gotLines = append(gotLines, r.String())
	}
	for r := range want.All() {
		wantLines = append(wantLines, r.String())
	}
	if !slices.Equal(gotLines, wantLines) {
		t.Errorf("book = %q, want %q", gotLines, wantLines)
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	codecs := map[string]Codec{"json": JSONCodec{}, "yaml": YAMLCodec{}}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			// Given a book saved to a nested path
			path := filepath.Join(t.TempDir(), "nested", "book."+name)
			store, err := NewFileStore(path, codec)
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			src := sampleBook(t)
			if err := store.Save(src.Export()); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			// When it is loaded and imported
			snap, found, err := store.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !found {
				t.Fatal("Load() found = false, want true")
			}
			dst := book.New()
			if err := dst.Import(snap); err != nil {
				t.Fatalf("Import() error = %v", err)
			}

			// Then the book is reproduced
			assertSameBook(t, dst, src)
		})
	}
}

func TestFileStore_LoadNotFound(t *testing.T) {
	// Given an empty directory
	store, err := NewFileStore(filepath.Join(t.TempDir(), "book.json"), JSONCodec{})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// When Load is called
	_, found, err := store.Load()

	// Then it returns not found
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true, want false")
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	store, err := NewFileStore(path, JSONCodec{})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := store.Save(sampleBook(t).Export()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(book.New().Export()); err != nil {
		t.Fatalf("Save(empty) error = %v", err)
	}

	snap, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Records) != 0 {
		t.Errorf("Records len = %d, want 0", len(snap.Records))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no temp files left)", len(entries))
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		data  string
	}{
		{name: "json garbage", codec: JSONCodec{}, data: "{not json"},
		{name: "json unknown field", codec: JSONCodec{}, data: `{"version":1,"records":[],"extra":true}`},
		{name: "yaml garbage", codec: YAMLCodec{}, data: "{{invalid yaml"},
		{name: "yaml unknown field", codec: YAMLCodec{}, data: "version: 1\nextra: true\n"},
		{name: "yaml empty", codec: YAMLCodec{}, data: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "book")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			store, err := NewFileStore(path, tt.codec)
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}

			_, found, err := store.Load()
			if err == nil {
				t.Fatal("Load() error = nil, want parse error")
			}
			if found {
				t.Error("Load() found = true on error")
			}
			if !strings.Contains(err.Error(), "state: parsing") {
				t.Errorf("error = %q, want parsing context", err)
			}
		})
	}
}

func TestFileStore_Remove(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "book.json"), JSONCodec{})
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save(sampleBook(t).Export()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, _ := store.Load(); found {
		t.Error("Load() found = true after Remove, want false")
	}

	// Removing again is idempotent.
	if err := store.Remove(); err != nil {
		t.Errorf("Remove() second call error = %v", err)
	}
}

func TestNewFileStore_InvalidPath(t *testing.T) {
	for _, path := range []string{"", ".", "..", "/"} {
		_, err := NewFileStore(path, JSONCodec{})
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("NewFileStore(%q) error = %v, want ErrInvalidPath", path, err)
		}
	}
}

func TestJSONCodec_Format(t *testing.T) {
	data, err := JSONCodec{}.Marshal(sampleBook(t).Export())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{`"version": 1`, `"name": "Jane"`, `"birthday": "1992-02-29"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"birthday": ""`) {
		t.Errorf("empty birthday should be omitted:\n%s", out)
	}
}
