package imagestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAlreadyExists is returned by Save when the target filename is taken.
// Existing files are never overwritten.
var ErrAlreadyExists = errors.New("file already exists")

// Store keeps uploaded images in a single flat directory, keyed by their
// original upload filename.
type Store struct {
	dir string
}

// New creates the image directory if absent and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk path for a stored filename. The name is
// reduced to its base so an upload cannot escape the image directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Exists reports whether a file with the given name is already stored.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Save writes data under name and returns the resulting path. Saving to
// a name that already exists fails with ErrAlreadyExists; the exclusive
// create flag makes the check and the write a single operation.
func (s *Store) Save(name string, data []byte) (string, error) {
	path := s.Path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%q: %w", filepath.Base(name), ErrAlreadyExists)
		}
		return "", fmt.Errorf("save image: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("save image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

// Read returns the stored bytes for name.
func (s *Store) Read(name string) ([]byte, error) {
	return os.ReadFile(s.Path(name))
}
