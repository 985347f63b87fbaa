package console

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/mockapi"
)

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title+": "+message)
}

func (n *fakeNotifier) Error(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, title+": "+message)
}

func (n *fakeNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

type fakeConfirmer struct {
	answer bool
	calls  int
}

func (c *fakeConfirmer) Confirm(title, message string) bool {
	c.calls++
	return c.answer
}

type fakeSink struct {
	mu      sync.Mutex
	reveals []*SecretReveal
}

func (s *fakeSink) Show(reveal *SecretReveal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveals = append(s.reveals, reveal)
}

type fakeInvalidator struct {
	count int
}

func (i *fakeInvalidator) Invalidate() { i.count++ }

// newTestBackend spins up the in-memory admin API and returns a logged-in
// client against it.
func newTestBackend(t *testing.T) (*api.Client, *mockapi.Store) {
	t.Helper()

	store := mockapi.NewStore()
	_, err := store.SeedUser("Administrator", "admin", "hunter2", true)
	require.NoError(t, err)

	srv := httptest.NewServer(mockapi.NewServer(zerolog.Nop(), store))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL+"/api/admin", api.StaticToken(""))
	token, err := client.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)

	return api.NewClient(srv.URL+"/api/admin", api.StaticToken(token)), store
}
