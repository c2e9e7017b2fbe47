package marlindb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

const (
	dbName           = "marlin.db"
	dbFilePermission = 0600
)

var (
	settingsBucket = []byte("settings")
	libraryBucket  = []byte("library")

	volumeKey = []byte("volume")
	musicKey  = []byte("music")
)

// DB persistently stores the card library and device settings.
type DB struct {
	*bbolt.DB
}

// Open opens marlin.db inside dataDir, creating the directory and the buckets
// when necessary.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Errorf("could not create data dir %v: %v", dataDir, err)
	}

	path := filepath.Join(dataDir, dbName)

	bdb, err := bbolt.Open(path, dbFilePermission, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Errorf("could not open %v: %v", path, err)
	}

	db := &DB{DB: bdb}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{settingsBucket, libraryBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Errorf("could not create buckets: %v", err)
	}

	return db, nil
}
