package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/productdesk/internal/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 2, Title: "Lamp", Price: 12.5, Category: "Home", Image: "data:image/jpeg;base64,AA==", Origin: domain.OriginLocal},
		{ID: 1, Title: "Mug", Price: 4, Category: "Kitchen", Image: "data:image/jpeg;base64,AQ==", Origin: domain.OriginLocal},
	}
}

func TestLocalStore_LoadEmpty(t *testing.T) {
	s := NewLocalStore(NewMemoryKV(), "products", 0)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocalStore_RoundTrip(t *testing.T) {
	engines := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"bolt": func(t *testing.T) KV {
			kv, err := OpenBolt(filepath.Join(t.TempDir(), "products.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			return kv
		},
		"sqlite": func(t *testing.T) KV {
			kv, err := OpenSqlite(filepath.Join(t.TempDir(), "products.sqlite"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			return kv
		},
	}

	for name, open := range engines {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewLocalStore(open(t), "products", DefaultQuotaBytes)

			require.NoError(t, s.Save(ctx, sampleProducts()))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleProducts(), got)

			// overwrite with a shorter list
			require.NoError(t, s.Save(ctx, sampleProducts()[1:]))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, int64(1), got[0].ID)
		})
	}
}

func TestLocalStore_ParseFailureIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put("products", []byte(`{"not":"a list"`)))

	s := NewLocalStore(kv, "products", 0)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalStore_ForcesLocalOrigin(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put("products", []byte(`[{"id":7,"title":"Hat","price":3,"category":"Fashion","image":"x"}]`)))

	got, err := NewLocalStore(kv, "products", 0).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.OriginLocal, got[0].Origin)
}

func TestLocalStore_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewLocalStore(kv, "products", 64)

	err := s.Save(ctx, sampleProducts())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeStorageQuota))

	// the previous value is untouched
	raw, err := kv.Get("products")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestBoltKV_Backup(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenBolt(filepath.Join(dir, "products.db"))
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Put("products", []byte("[]")))
	backup := filepath.Join(dir, "backup", "products.db")
	require.NoError(t, kv.Backup(backup))

	copyKV, err := OpenBolt(backup)
	require.NoError(t, err)
	defer copyKV.Close()
	v, err := copyKV.Get("products")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestGormKV_Backup(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenSqlite(filepath.Join(dir, "products.sqlite"))
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Put("products", []byte(`[{"id":1}]`)))
	backup := filepath.Join(dir, "backup", "products.sqlite")
	require.NoError(t, kv.Backup(backup))

	copyKV, err := OpenSqlite(backup)
	require.NoError(t, err)
	defer copyKV.Close()
	v, err := copyKV.Get("products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), v)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("redis", "")
	assert.Error(t, err)
}
