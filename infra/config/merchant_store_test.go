package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MerchantStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "merchants.db")
	store, err := NewMerchantStore(dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testMerchant(id string) Merchant {
	return Merchant{
		ID:          id,
		EptCode:     "0000001",
		CompanyCode: "acme",
		SecurityKey: "12345678901234567890123456789012345678AB",
		TestMode:    true,
	}
}

func TestNewMerchantStore(t *testing.T) {
	store := newTestStore(t)

	assert.NotNil(t, store.db)
	assert.NotEmpty(t, store.path)
}

func TestMerchantStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	merchant := testMerchant("shop-1")
	require.NoError(t, store.SaveMerchant(merchant))

	loaded, err := store.LoadMerchant("shop-1")
	require.NoError(t, err)
	assert.Equal(t, merchant, loaded)
}

func TestMerchantStore_SaveUpdatesExisting(t *testing.T) {
	store := newTestStore(t)

	merchant := testMerchant("shop-1")
	require.NoError(t, store.SaveMerchant(merchant))

	merchant.CompanyCode = "renamed"
	merchant.TestMode = false
	require.NoError(t, store.SaveMerchant(merchant))

	loaded, err := store.LoadMerchant("shop-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.CompanyCode)
	assert.False(t, loaded.TestMode)

	merchants, err := store.LoadAllMerchants()
	require.NoError(t, err)
	assert.Len(t, merchants, 1)
}

func TestMerchantStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadMerchant("nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMerchantNotFound))
}

func TestMerchantStore_LoadAllMerchants(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"beta", "alpha", "gamma"} {
		require.NoError(t, store.SaveMerchant(testMerchant(id)))
	}

	merchants, err := store.LoadAllMerchants()
	require.NoError(t, err)
	require.Len(t, merchants, 3)

	// Ordered by merchant ID
	assert.Equal(t, "alpha", merchants[0].ID)
	assert.Equal(t, "beta", merchants[1].ID)
	assert.Equal(t, "gamma", merchants[2].ID)
}

func TestMerchantStore_DeleteMerchant(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveMerchant(testMerchant("shop-1")))
	require.NoError(t, store.DeleteMerchant("shop-1"))

	_, err := store.LoadMerchant("shop-1")
	assert.True(t, errors.Is(err, ErrMerchantNotFound))
}

func TestMerchantStore_GetStats(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveMerchant(testMerchant("shop-1")))
	require.NoError(t, store.SaveMerchant(testMerchant("shop-2")))

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["total_merchants"])
	assert.Equal(t, store.path, stats["db_path"])
}
