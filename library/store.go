package library

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
)

var (
	// ErrIo marks failures to read or write durable storage.
	ErrIo = errors.New("library storage failure")

	// ErrCorrupt marks a persisted library that cannot be decoded.
	ErrCorrupt = errors.New("library is corrupt")
)

// Store loads and persists a library.
type Store interface {
	Load() (*Library, error)
	Save(l *Library) error
}

// FileStore keeps the library as a JSON document on disk.
type FileStore struct {
	Path string

	// Create makes Load return an empty library when the file does not exist.
	Create bool
}

// Compile time check for protocol compatibility
var _ Store = (*FileStore)(nil)

func (s *FileStore) Load() (*Library, error) {
	l, err := Load(s.Path)
	if err != nil && s.Create && errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}

	return l, err
}

func (s *FileStore) Save(l *Library) error {
	return l.Save(s.Path)
}

// Load reads the library document at path.
func Load(path string) (*Library, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: could not read %v: %w", ErrIo, path, err)
	}

	return Decode(payload)
}

// Decode parses a library document.
func Decode(payload []byte) (*Library, error) {
	l := New()

	if err := json.Unmarshal(payload, l); err != nil {
		return nil, errors.Errorf("%w: %v", ErrCorrupt, err)
	}

	return l, nil
}

// Save writes the library to path. The document is written to a temporary
// file next to path and renamed over it, so a failed save leaves the previous
// contents intact.
func (l *Library) Save(path string) error {
	payload, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Errorf("%w: could not encode library: %v", ErrIo, err)
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Errorf("%w: could not create temporary file in %v: %v", ErrIo, dir, err)
	}

	// Removing after a successful rename fails harmlessly.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return errors.Errorf("%w: could not write %v: %v", ErrIo, tmp.Name(), err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Errorf("%w: could not sync %v: %v", ErrIo, tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return errors.Errorf("%w: could not close %v: %v", ErrIo, tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Errorf("%w: could not replace %v: %v", ErrIo, path, err)
	}

	return nil
}
