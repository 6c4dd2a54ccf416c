package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, KeyAccounts)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyAccounts, []byte(`[{"number":"1"}]`)))
	got, err := store.Get(ctx, KeyAccounts)
	require.NoError(t, err)
	assert.Equal(t, `[{"number":"1"}]`, string(got))
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "k", []byte("abc")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFile(dir)
	require.NoError(t, err)

	_, err = store.Get(ctx, KeyRates)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyRates, []byte(`{"USD":1}`)))
	got, err := store.Get(ctx, KeyRates)
	require.NoError(t, err)
	assert.Equal(t, `{"USD":1}`, string(got))

	// Overwrite replaces, leaves no temp files behind.
	require.NoError(t, store.Set(ctx, KeyRates, []byte(`{"USD":2}`)))
	got, err = store.Get(ctx, KeyRates)
	require.NoError(t, err)
	assert.Equal(t, `{"USD":2}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyRates+".json", filepath.Base(entries[0].Name()))
}

func TestFileCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFile(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
