package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	require.NoError(t, err, "Failed to create store")
	defer store.Close()

	ctx := context.Background()

	t.Run("Get reports missing key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "@loggedAmount")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("Set then Get round-trips", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "weight", "70"))

		value, ok, err := store.Get(ctx, "weight")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "70", value)
	})

	t.Run("Set overwrites previous value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "@individualNeed", "2.40"))
		require.NoError(t, store.Set(ctx, "@individualNeed", "2.80"))

		value, ok, err := store.Get(ctx, "@individualNeed")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2.80", value)
	})

	t.Run("empty string is a stored value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "height", ""))

		value, ok, err := store.Get(ctx, "height")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("JSON values are stored verbatim", func(t *testing.T) {
		history := `[{"id":"a","loggedAmount":0.25}]`
		require.NoError(t, store.Set(ctx, "@history", history))

		value, _, err := store.Get(ctx, "@history")
		require.NoError(t, err)
		assert.JSONEq(t, history, value)
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "@loggedAmount", "1.25"))
	require.NoError(t, store.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "@loggedAmount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.25", value)
}

func TestSQLiteStore_ClosedStoreFails(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, _, err = store.Get(ctx, "weight")
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, "weight", "70"))
}
