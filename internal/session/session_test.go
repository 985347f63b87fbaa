package session

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/mockapi"
)

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestLoadFrom_MissingFileIsLoggedOut(t *testing.T) {
	store, err := LoadFrom(statePath(t))
	require.NoError(t, err)
	assert.False(t, store.LoggedIn())
	assert.Empty(t, store.Token())
}

func TestLoadFrom_CorruptFile(t *testing.T) {
	path := statePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestStore_SetTokenPersists(t *testing.T) {
	path := statePath(t)

	store, err := LoadFrom(path)
	require.NoError(t, err)
	require.NoError(t, store.SetToken("tok-abc"))
	assert.True(t, store.LoggedIn())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", reloaded.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_ClearPersists(t *testing.T) {
	path := statePath(t)

	store, err := LoadFrom(path)
	require.NoError(t, err)
	require.NoError(t, store.SetToken("tok-abc"))
	require.NoError(t, store.Clear())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.False(t, reloaded.LoggedIn())
}

func TestStore_SelfInfoRequiresToken(t *testing.T) {
	store, err := LoadFrom(statePath(t))
	require.NoError(t, err)

	_, err = store.SelfInfo(context.Background(), api.NewClient("http://unused", store))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestStore_SelfInfoCachesAndInvalidates(t *testing.T) {
	backend := mockapi.NewStore()
	_, err := backend.SeedUser("Administrator", "admin", "hunter2", true)
	require.NoError(t, err)
	srv := httptest.NewServer(mockapi.NewServer(zerolog.Nop(), backend))
	t.Cleanup(srv.Close)

	store, err := LoadFrom(statePath(t))
	require.NoError(t, err)
	client := api.NewClient(srv.URL+"/api/admin", store)

	token, err := client.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	require.NoError(t, store.SetToken(token))

	self, err := store.SelfInfo(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "admin", self.Username)

	// Cached: a second call returns the same value without a refetch (the
	// server could be gone by now).
	srv.Close()
	again, err := store.SelfInfo(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, self, again)

	// After invalidation the refetch hits the dead server and the session
	// degrades to logged out.
	store.InvalidateSelf()
	_, err = store.SelfInfo(context.Background(), client)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, store.LoggedIn())
}

func TestStore_RejectedTokenClearsSession(t *testing.T) {
	backend := mockapi.NewStore()
	srv := httptest.NewServer(mockapi.NewServer(zerolog.Nop(), backend))
	t.Cleanup(srv.Close)

	store, err := LoadFrom(statePath(t))
	require.NoError(t, err)
	require.NoError(t, store.SetToken("stale-token"))

	client := api.NewClient(srv.URL+"/api/admin", store)
	_, err = store.SelfInfo(context.Background(), client)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, store.LoggedIn(), "a rejected token is cleared, not retried")
}
