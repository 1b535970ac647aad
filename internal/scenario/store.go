package scenario

import (
	"sync/atomic"
)

// Store holds the active catalog and swaps it atomically on reload.
type Store struct {
	path    string
	current atomic.Pointer[Catalog]
}

// NewStore loads the catalog at path (builtin when empty).
func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path}
	s.current.Store(c)
	return s, nil
}

// NewStaticStore wraps an already-loaded catalog. Reload is a no-op.
func NewStaticStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Catalog returns the active catalog.
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Path returns the file backing the store, empty for builtin or static stores.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the backing file. On error the previous catalog stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}
