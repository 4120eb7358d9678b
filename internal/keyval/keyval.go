// Package keyval provides a durable file-backed key/value store. Each key is
// stored as its own file under a data folder, so entries survive restarts and
// are scoped to the folder the same way browser storage is scoped to an origin.
package keyval

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Store persists small records under a single data folder.
type Store struct {
	dir  string
	lock sync.Mutex
}

// New creates a Store rooted at dir. The folder is created on first write.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("[keyval.New] dir is required")
	}
	return &Store{dir: dir}, nil
}

// Get returns the raw value for key. The second return value reports whether
// the key exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "[Store.Get] read")
	}
	return data, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, "[Store.Set] mkdir")
	}
	if err := os.WriteFile(s.path(key), value, 0o600); err != nil {
		return errors.Wrap(err, "[Store.Set] write")
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Store.Delete] remove")
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key)
}
