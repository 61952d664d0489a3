package engine

import "sync"

// Source is the data-access object for the dataset file. The first Get
// loads and caches the store for the process lifetime; Reload discards
// the cache and loads again. Load errors are not cached.
type Source struct {
	path string

	mu    sync.Mutex
	store *ColumnStore
}

// NewSource creates a Source for the given CSV path. Nothing is read
// until Get is called.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Get returns the cached store, loading it on first use.
func (s *Source) Get() (*ColumnStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	store, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	s.store = store
	return s.store, nil
}

// Reload invalidates the cache and loads the file again. On failure the
// previous store is kept so readers are not left without data.
func (s *Source) Reload() (*ColumnStore, error) {
	store, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	return store, nil
}
