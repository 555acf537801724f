package state

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("default backends", func(t *testing.T) {
		got := DefaultRegistry().Backends()
		want := []string{"json", "sqlite", "yaml"}
		if !slices.Equal(got, want) {
			t.Errorf("Backends() = %v, want %v", got, want)
		}
	})

	t.Run("open file backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.yaml")
		s, err := DefaultRegistry().Open("yaml", path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		fs, ok := s.(*FileStore)
		if !ok {
			t.Fatalf("Open() = %T, want *FileStore", s)
		}
		if fs.Path() != path {
			t.Errorf("Path() = %q, want %q", fs.Path(), path)
		}
	})

	t.Run("unknown backend returns UnknownBackendError", func(t *testing.T) {
		_, err := DefaultRegistry().Open("csv", "book.csv")
		var ube *UnknownBackendError
		if !errors.As(err, &ube) {
			t.Fatalf("expected *UnknownBackendError, got %T", err)
		}
		if ube.Name != "csv" {
			t.Errorf("Name = %q, want %q", ube.Name, "csv")
		}
		if !slices.Equal(ube.Available, []string{"json", "sqlite", "yaml"}) {
			t.Errorf("Available = %v", ube.Available)
		}
	})

	t.Run("factory error is wrapped", func(t *testing.T) {
		_, err := DefaultRegistry().Open("json", "")
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Open(empty path) error = %v, want ErrInvalidPath", err)
		}
	})

	t.Run("duplicate registration overwrites", func(t *testing.T) {
		r := NewRegistry()
		sentinel := errors.New("second")
		r.Register("x", func(string) (Store, error) { return nil, errors.New("first") })
		r.Register("x", func(string) (Store, error) { return nil, sentinel })

		if _, err := r.Open("x", "p"); !errors.Is(err, sentinel) {
			t.Errorf("Open() error = %v, want second factory's error", err)
		}
	})

	t.Run("register panics on empty name", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewRegistry().Register("", func(string) (Store, error) { return nil, nil })
	})

	t.Run("register panics on nil factory", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewRegistry().Register("x", nil)
	})
}
