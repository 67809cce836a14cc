package tracking

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// Store reads and writes the registry file.
type Store struct {
	path string
}

// NewStore returns a store rooted at the user's config directory.
func NewStore() *Store {
	return NewStoreAt(paths.TrackingFilePath())
}

// NewStoreAt returns a store backed by an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry. A missing file yields an empty registry.
func (s *Store) Load() (*File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewFile(), nil
		}
		return nil, errors.Wrap(err, "reading tracking file")
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing tracking file %s", s.path)
	}
	if f.Entries == nil {
		f.Entries = make(map[string]*Entry)
	}
	return &f, nil
}

// Save writes the registry atomically, creating parent directories as
// needed.
func (s *Store) Save(f *File) error {
	if err := paths.EnsureDir(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating tracking directory")
	}
	if err := fileutil.AtomicWriteJSON(s.path, f); err != nil {
		return errors.Wrap(err, "writing tracking file")
	}
	return nil
}

// Update loads the registry, applies fn, and saves the result. Callers
// serialize global writes through it so concurrent applies from
// different projects do not clobber each other's entries.
func (s *Store) Update(fn func(*File) error) error {
	f, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.Save(f)
}

// RemoveEntry deletes one entry by key and persists the result.
func (s *Store) RemoveEntry(key string) error {
	return s.Update(func(f *File) error {
		delete(f.Entries, key)
		return nil
	})
}
