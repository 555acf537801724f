package state

import (
	"fmt"
	"sort"
	"strings"
)

// Factory creates a Store that persists to path.
type Factory func(path string) (Store, error)

// Registry maps backend names to factory functions.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a Registry with the json, yaml and sqlite backends.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("json", func(path string) (Store, error) {
		return NewFileStore(path, JSONCodec{})
	})
	r.Register("yaml", func(path string) (Store, error) {
		return NewFileStore(path, YAMLCodec{})
	})
	r.Register("sqlite", func(path string) (Store, error) {
		return NewSQLiteStore(path)
	})
	return r
}

// Register adds a named backend factory. Overwrites if name already exists.
// Panics if name is empty or f is nil (programmer error).
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("state: Register called with empty name")
	}
	if f == nil {
		panic("state: Register called with nil factory")
	}
	r.factories[name] = f
}

// Open instantiates the named backend for path.
// Returns an error if the name is not registered or the factory fails.
func (r *Registry) Open(name, path string) (Store, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownBackendError{
			Name:      name,
			Available: r.Backends(),
		}
	}
	s, err := f(path)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	return s, nil
}

// Backends returns registered backend names in sorted order.
func (r *Registry) Backends() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError indicates a backend name is not registered.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
