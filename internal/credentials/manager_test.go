package credentials

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetAndReset(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()
	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	assert.False(t, m.IsProvided())

	require.NoError(t, m.SetSiteURL(ctx, "https://board.example.com/"))
	assert.False(t, m.IsProvided(), "token still missing")
	assert.Equal(t, "https://board.example.com", m.SiteURL())

	require.NoError(t, m.SetToken(ctx, "abcdef123456"))
	assert.True(t, m.IsProvided())

	stored, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abcdef123456", stored)

	require.NoError(t, m.Reset(ctx))
	assert.False(t, m.IsProvided())
	assert.Empty(t, m.SiteURL())
	assert.Empty(t, m.Token())
	stored, err = store.Get(ctx, KeySiteURL)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// tokenDeleteFails is a store whose token key cannot be deleted.
type tokenDeleteFails struct {
	*MemoryStore
}

func (s tokenDeleteFails) Delete(ctx context.Context, key string) error {
	if key == KeyToken {
		return stderrors.New("disk full")
	}
	return s.MemoryStore.Delete(ctx, key)
}

func TestManager_ResetPartialFailureMatchesStore(t *testing.T) {
	ctx := t.Context()
	store := tokenDeleteFails{NewMemoryStore()}
	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "https://board.example.com", "tok"))

	require.Error(t, m.Reset(ctx))

	stored, err := store.Get(ctx, KeySiteURL)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, m.SiteURL(), "in-memory site URL follows the store")
	assert.Equal(t, "tok", m.Token())
	assert.False(t, m.IsProvided())
}

func TestManager_SetKeepsMissingValues(t *testing.T) {
	ctx := t.Context()
	m, err := NewManager(ctx, NewMemoryStore())
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "https://a.example.com", "tok1"))
	require.NoError(t, m.Set(ctx, "", "tok2"))
	assert.Equal(t, Credentials{SiteURL: "https://a.example.com", Token: "tok2"}, m.Get())
}

func TestManager_Info(t *testing.T) {
	ctx := t.Context()
	m, err := NewManager(ctx, NewMemoryStore())
	require.NoError(t, err)
	assert.Contains(t, m.Info(), "(not set)")

	require.NoError(t, m.Set(ctx, "https://a.example.com", "secret-token-9876"))
	info := m.Info()
	assert.Contains(t, info, "https://a.example.com")
	assert.Contains(t, info, "9876")
	assert.NotContains(t, info, "secret")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", MaskToken(""))
	assert.Equal(t, "***", MaskToken("abc"))
	assert.Equal(t, "****5678", MaskToken("12345678"))
}

func TestSQLiteStore_Persistence(t *testing.T) {
	ctx := t.Context()
	dir := filepath.Join(t.TempDir(), "state")

	store, err := OpenStateDir(dir)
	require.NoError(t, err)
	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "https://a.example.com", "tok"))
	require.NoError(t, m.SetToken(ctx, "tok2"))
	require.NoError(t, store.Close())

	reopened, err := OpenStateDir(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	m2, err := NewManager(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, Credentials{SiteURL: "https://a.example.com", Token: "tok2"}, m2.Get())

	require.NoError(t, m2.Reset(ctx))
	v, err := reopened.Get(ctx, KeySiteURL)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := t.Context()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	v, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	require.NoError(t, store.Set(ctx, "k", "v2"))
	v, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
}
