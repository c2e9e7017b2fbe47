package marlindb

import (
	"github.com/go-errors/errors"
	"github.com/marlinbox/marlind/library"
)

// Compile time check for protocol compatibility
var _ library.Store = (*DB)(nil)

// Load reads the library document. A database without a library yields an
// empty one.
func (db *DB) Load() (*library.Library, error) {
	l := library.New()

	found, err := db.getJSON(libraryBucket, musicKey, l)
	if err != nil {
		return nil, errors.Errorf("%w: %v", library.ErrCorrupt, err)
	}

	if !found {
		return library.New(), nil
	}

	return l, nil
}

// Save replaces the library document in a single transaction.
func (db *DB) Save(l *library.Library) error {
	if err := db.setJSON(libraryBucket, musicKey, l); err != nil {
		return errors.Errorf("%w: %v", library.ErrIo, err)
	}

	return nil
}

// Import replaces the stored library with the document from a JSON file.
func (db *DB) Import(path string) (*library.Library, error) {
	l, err := library.Load(path)
	if err != nil {
		return nil, err
	}

	if err := db.Save(l); err != nil {
		return nil, err
	}

	return l, nil
}
