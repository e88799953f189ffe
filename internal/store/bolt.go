package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var productBucket = []byte("productdesk")

// BoltKV stores values in a single bbolt bucket
type BoltKV struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(productBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bolt bucket")
	}
	return &BoltKV{db: db}, nil
}

func (b *BoltKV) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(productBucket)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			// bolt values are only valid inside the transaction
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, errors.Wrap(err, "bolt get")
}

func (b *BoltKV) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(productBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
	return errors.Wrap(err, "bolt put")
}

// Backup writes a consistent copy of the database to path
func (b *BoltKV) Backup(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create backup directory")
	}
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(path, 0o600)
	})
	return errors.Wrapf(err, "bolt backup to %s", path)
}

func (b *BoltKV) Close() error {
	return b.db.Close()
}
