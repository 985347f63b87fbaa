package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	_, err := store.SeedUser("Administrator", "admin", "hunter2", true)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(zerolog.Nop(), store))
	t.Cleanup(srv.Close)
	return srv, store
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(srv.URL+"/api/admin/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string, body []byte) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Message
}

// ---------- Auth ----------

func TestServer_GuardedRoutesRejectMissingToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/admin/user/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing authorization header", errorMessage(t, resp))
}

func TestServer_GuardedRoutesRejectBogusToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/admin/user/list", "not-a-session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_DeleteUserInvalidatesSessions(t *testing.T) {
	srv, store := newTestServer(t)
	adminToken := login(t, srv, "admin", "hunter2")

	id, err := store.SeedUser("Grace", "grace", "s3cret", false)
	require.NoError(t, err)
	graceToken := login(t, srv, "grace", "s3cret")

	resp := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/admin/user/delete/%d", id), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/admin/user/list", graceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "deleted user's sessions stop working")
}

// ---------- Validation ----------

func TestServer_UserCreateRejectsEmptyCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "hunter2")

	body, _ := json.Marshal(api.UserCreate{Name: "Ghost"})
	resp := doRequest(t, srv, http.MethodPost, "/api/admin/user/create", token, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username and password are required", errorMessage(t, resp))
}

func TestServer_InvalidPageParameter(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "hunter2")

	resp := doRequest(t, srv, http.MethodGet, "/api/admin/site/list?page=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid page parameter", errorMessage(t, resp))
}

func TestServer_InvalidIDParameter(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv, "admin", "hunter2")

	resp := doRequest(t, srv, http.MethodGet, "/api/admin/site/info/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid id", errorMessage(t, resp))
}

// ---------- Operational endpoints ----------

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ---------- Pagination ----------

func TestPaginate(t *testing.T) {
	all := make([]int, 45)
	for i := range all {
		all[i] = i
	}

	page := paginate(all, 1, 20)
	assert.Equal(t, 3, page.PageMax)
	assert.Len(t, page.List, 20)

	page = paginate(all, 3, 20)
	assert.Len(t, page.List, 5)

	page = paginate(all, 9, 20)
	assert.Empty(t, page.List)
	assert.Equal(t, 3, page.PageMax)

	page = paginate(all, 0, 0)
	assert.Equal(t, 1, page.PageMax)
	assert.Len(t, page.List, 45)
	assert.Equal(t, 0, page.Limit)
}

func TestPaginate_Empty(t *testing.T) {
	page := paginate([]int{}, 1, 20)
	assert.Equal(t, 0, page.PageMax)
	assert.Empty(t, page.List)
}

// ---------- Collections ----------

func TestCollection_IDsNeverReused(t *testing.T) {
	c := newCollection[*api.Template]()
	first := c.add(&api.Template{})
	require.True(t, c.remove(first))
	second := c.add(&api.Template{})
	assert.Greater(t, second, first)
	assert.Len(t, c.list(), 1)
}
