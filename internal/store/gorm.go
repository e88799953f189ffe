package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// KvEntry is one row of the sqlite-backed store
type KvEntry struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KvEntry) TableName() string {
	return "kv_entries"
}

// Tables lists the models migrated for the sqlite driver
var Tables = []interface{}{
	&KvEntry{},
}

// GormKV stores values in a kv_entries table through gorm
type GormKV struct {
	db *gorm.DB
}

// OpenSqlite opens (or creates) a sqlite file and migrates the kv table.
func OpenSqlite(path string) (*GormKV, error) {
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create store directory")
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite store %s", path)
	}
	return NewGormKV(db)
}

// NewGormKV wraps an existing gorm handle and migrates the kv table.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.Migrator().AutoMigrate(Tables...); err != nil {
		return nil, errors.Wrap(err, "migrate kv table")
	}
	return &GormKV{db: db}, nil
}

func (g *GormKV) Get(key string) ([]byte, error) {
	var entry KvEntry
	err := g.db.Where(&KvEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "sqlite get")
	}
	return entry.Value, nil
}

func (g *GormKV) Put(key string, value []byte) error {
	entry := KvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return errors.Wrap(g.db.Save(&entry).Error, "sqlite put")
}

// Backup writes a consistent copy of the database to path.
func (g *GormKV) Backup(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create backup directory")
	}
	return errors.Wrapf(g.db.Exec("VACUUM INTO ?", path).Error, "sqlite backup to %s", path)
}

func (g *GormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
