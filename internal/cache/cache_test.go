package cache

import (
	"context"
	"testing"

	"github.com/jon4hz/familytravel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixedCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[string](newMemoryCache[any](), config.CacheTypeMemory, "test-")

	_, err := c.Get(ctx, "France")
	assert.Error(t, err, "missing key should fail")

	require.NoError(t, c.Set(ctx, "France", "FR"))

	code, err := c.Get(ctx, "France")
	require.NoError(t, err)
	assert.Equal(t, "FR", code)

	require.NoError(t, c.Delete(ctx, "France"))
	_, err = c.Get(ctx, "France")
	assert.Error(t, err)
}

func TestPrefixedCache_ClearOnlyOwnPrefix(t *testing.T) {
	ctx := context.Background()
	shared := newMemoryCache[any]()
	codes := NewPrefixedCache[string](shared, config.CacheTypeMemory, "codes-")
	other := NewPrefixedCache[int](shared, config.CacheTypeMemory, "other-")

	require.NoError(t, codes.Set(ctx, "France", "FR"))
	require.NoError(t, other.Set(ctx, "answer", 42))

	require.NoError(t, codes.Clear(ctx))

	_, err := codes.Get(ctx, "France")
	assert.Error(t, err)

	n, err := other.Get(ctx, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestLookupCache(t *testing.T) {
	ctx := context.Background()
	lc := NewLookupCache(&config.CacheConfig{Type: config.CacheTypeMemory})
	assert.Equal(t, config.CacheTypeMemory, lc.CountryCodes.GetType())

	require.NoError(t, lc.CountryCodes.Set(ctx, "Germany", "DE"))
	code, err := lc.CountryCodes.Get(ctx, "Germany")
	require.NoError(t, err)
	assert.Equal(t, "DE", code)

	require.NoError(t, lc.ClearAll(ctx))
	_, err = lc.CountryCodes.Get(ctx, "Germany")
	assert.Error(t, err)
}

func TestNewLookupCache_NilConfig(t *testing.T) {
	lc := NewLookupCache(nil)
	require.NotNil(t, lc.CountryCodes)
	assert.Equal(t, config.CacheTypeMemory, lc.CountryCodes.GetType())
	assert.NotNil(t, lc.CountryCodes.GetStats())
}
