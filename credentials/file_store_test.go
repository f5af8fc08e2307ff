package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eventpass/eventpass-go/credentials"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := credentials.NewFileStore(t.TempDir())

	_, ok := store.Get()
	require.False(t, ok)

	store.Set("token-abc")
	token, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "token-abc", token)

	store.Set("token-def")
	token, ok = store.Get()
	require.True(t, ok)
	require.Equal(t, "token-def", token)

	store.Clear()
	_, ok = store.Get()
	require.False(t, ok)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := credentials.NewFileStore(t.TempDir())
	store.Clear()
	store.Clear()
	_, ok := store.Get()
	require.False(t, ok)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	credentials.NewFileStore(dir).Set("persisted")

	token, ok := credentials.NewFileStore(dir).Get()
	require.True(t, ok)
	require.Equal(t, "persisted", token)
}

func TestFileStoreIgnoresBlankFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("  \n"), 0o600))

	_, ok := credentials.NewFileStore(dir).Get()
	require.False(t, ok)
}

func TestFileStoreUnavailableMediumActsEmpty(t *testing.T) {
	// A directory that cannot exist behaves like an empty store.
	store := credentials.NewFileStore(filepath.Join(string(os.PathSeparator), "dev", "null", "nope"))
	store.Set("ignored")
	_, ok := store.Get()
	require.False(t, ok)
	store.Clear()
}
