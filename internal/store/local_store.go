package store

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/talkincode/productdesk/internal/domain"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultQuotaBytes mirrors the usual per-origin browser storage limit
const DefaultQuotaBytes = 5 * 1024 * 1024

// LocalStore persists the locally owned product list under one key.
type LocalStore struct {
	kv    KV
	key   string
	quota int
}

// NewLocalStore creates a store over kv. A non-positive quota disables the size check.
func NewLocalStore(kv KV, key string, quota int) *LocalStore {
	if key == "" {
		key = "products"
	}
	return &LocalStore{kv: kv, key: key, quota: quota}
}

// Load returns the stored local products. A missing entry or a value that
// does not parse as a product list yields an empty list.
func (s *LocalStore) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.kv.Get(s.key)
	if err != nil {
		return nil, domain.NewError(domain.CodeStorage, "Failed to read local products", err)
	}
	if len(raw) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		zap.L().Warn("discarding unreadable local products",
			zap.String("key", s.key),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		return []domain.Product{}, nil
	}
	if products == nil {
		products = []domain.Product{}
	}
	for i := range products {
		products[i].Origin = domain.OriginLocal
	}
	return products, nil
}

// Save replaces the stored list with products.
func (s *LocalStore) Save(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return domain.NewError(domain.CodeStorage, "Failed to encode local products", err)
	}
	if s.quota > 0 && len(raw) > s.quota {
		return domain.NewError(domain.CodeStorageQuota,
			"Local storage is full, the product is kept for this session only",
			fmt.Errorf("payload %d bytes exceeds quota %d", len(raw), s.quota))
	}
	if err := s.kv.Put(s.key, raw); err != nil {
		return domain.NewError(domain.CodeStorage, "Failed to save local products", err)
	}
	return nil
}

// KV exposes the underlying engine, used for backups.
func (s *LocalStore) KV() KV {
	return s.kv
}
