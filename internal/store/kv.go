package store

import (
	"fmt"
	"strings"
	"sync"
)

// KV is the key-value engine underneath the local product store.
// Get returns nil, nil for a missing key.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Backuper is implemented by engines that can snapshot themselves to a file
type Backuper interface {
	Backup(path string) error
}

// Open creates the KV engine selected by driver. path is ignored for the
// memory driver.
func Open(driver, path string) (KV, error) {
	switch strings.ToLower(driver) {
	case "", "bolt":
		return OpenBolt(path)
	case "sqlite":
		return OpenSqlite(path)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
