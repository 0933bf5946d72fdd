package fboclient

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()

	_, ok := store.Get(SessionKeyToken)
	assert.False(t, ok)

	require.NoError(t, store.Set(SessionKeyToken, "abc123"))
	value, ok := store.Get(SessionKeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", value)

	require.NoError(t, store.Delete(SessionKeyToken))
	_, ok = store.Get(SessionKeyToken)
	assert.False(t, ok)

	assert.NoError(t, store.Close())
}

func TestFileSessionStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(SessionKeyToken, "abc123"))
	require.NoError(t, store.Set(SessionKeyRefreshToken, "def456"))
	require.NoError(t, store.Close())

	reopened, err := NewFileSessionStore(path)
	require.NoError(t, err)
	value, ok := reopened.Get(SessionKeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", value)

	require.NoError(t, reopened.Delete(SessionKeyToken))
	require.NoError(t, reopened.Close())

	third, err := NewFileSessionStore(path)
	require.NoError(t, err)
	_, ok = third.Get(SessionKeyToken)
	assert.False(t, ok)
	value, ok = third.Get(SessionKeyRefreshToken)
	require.True(t, ok)
	assert.Equal(t, "def456", value)
}

func TestFileSessionStore_MissingFileIsEmpty(t *testing.T) {
	store, err := NewFileSessionStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	_, ok := store.Get(SessionKeyToken)
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	var cache Cache[Receipt]

	_, ok := cache.Get()
	assert.False(t, ok)

	cache.Put(Receipt{TailNumber: "N1"})
	got, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, "N1", got.TailNumber)

	// Speculative update keeps the prior value for rollback.
	cache.Apply(Receipt{TailNumber: "N2"})
	got, _ = cache.Get()
	assert.Equal(t, "N2", got.TailNumber)

	cache.Rollback()
	got, ok = cache.Get()
	require.True(t, ok)
	assert.Equal(t, "N1", got.TailNumber)

	// A rollback with no saved value invalidates the cache.
	cache.Rollback()
	_, ok = cache.Get()
	assert.False(t, ok)

	cache.Put(Receipt{TailNumber: "N3"})
	cache.Invalidate()
	_, ok = cache.Get()
	assert.False(t, ok)
}
