package api_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/mockapi"
)

func newBackend(t *testing.T) (string, *mockapi.Store) {
	t.Helper()
	store := mockapi.NewStore()
	_, err := store.SeedUser("Administrator", "admin", "hunter2", true)
	require.NoError(t, err)

	srv := httptest.NewServer(mockapi.NewServer(zerolog.Nop(), store))
	t.Cleanup(srv.Close)
	return srv.URL + "/api/admin", store
}

func newLoggedInClient(t *testing.T) *api.Client {
	t.Helper()
	baseURL, _ := newBackend(t)
	client := api.NewClient(baseURL, api.StaticToken(""))
	token, err := client.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	return api.NewClient(baseURL, api.StaticToken(token))
}

// ---------- Auth ----------

func TestClient_LoginBadCredentials(t *testing.T) {
	baseURL, _ := newBackend(t)
	client := api.NewClient(baseURL, api.StaticToken(""))

	_, err := client.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.EqualError(t, err, "invalid username or password", "backend message is surfaced verbatim")
}

func TestClient_RequestsRequireToken(t *testing.T) {
	baseURL, _ := newBackend(t)
	client := api.NewClient(baseURL, api.StaticToken(""))

	_, err := client.ListUsers(context.Background(), api.ListOptions{})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
}

func TestClient_SelfInfo(t *testing.T) {
	client := newLoggedInClient(t)

	self, err := client.SelfInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", self.Username)
	assert.True(t, self.IsAdmin)
}

// ---------- Errors ----------

func TestClient_NotFound(t *testing.T) {
	client := newLoggedInClient(t)

	_, err := client.GetSite(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.EqualError(t, err, "site not found")
}

func TestClient_APIErrorFields(t *testing.T) {
	client := newLoggedInClient(t)

	_, err := client.GetCert(context.Background(), 999)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "cert not found", apiErr.Message)
}

// ---------- Pagination ----------

func TestClient_ListPagination(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		_, err := client.CreateTemplate(ctx, api.TemplateInput{
			Name:    "tpl",
			Content: "server { }",
		})
		require.NoError(t, err)
	}

	page, err := client.ListTemplates(ctx, api.ListOptions{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 3, page.PageMax)
	assert.Len(t, page.List, 20)

	last, err := client.ListTemplates(ctx, api.ListOptions{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.List, 5)

	past, err := client.ListTemplates(ctx, api.ListOptions{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, past.List, "pages past the end are empty, not errors")
}

func TestClient_ListFetchAll(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		_, err := client.CreateTemplate(ctx, api.TemplateInput{
			Name:    "tpl",
			Content: "server { }",
		})
		require.NoError(t, err)
	}

	all, err := client.ListTemplates(ctx, api.ListOptions{FetchAll: true})
	require.NoError(t, err)
	assert.Len(t, all.List, 45)
	assert.Equal(t, 1, all.PageMax)
}

// ---------- Instances ----------

func TestClient_InstanceTokenIssuedOnce(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	created, err := client.CreateInstance(ctx, api.InstanceInput{Name: "edge-fra-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)

	fetched, err := client.GetInstance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)

	rotated, err := client.RotateInstanceToken(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Token)
	assert.NotEqual(t, created.Token, rotated.Token)
}

// ---------- Users ----------

func TestClient_UserLifecycle(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	user, err := client.CreateUser(ctx, api.UserCreate{Name: "Grace", Username: "grace", Password: "s3cret"})
	require.NoError(t, err)

	renamed, err := client.UpdateUserInfo(ctx, user.ID, api.UserInput{Name: "Grace H."})
	require.NoError(t, err)
	assert.Equal(t, "Grace H.", renamed.Name)

	require.NoError(t, client.UpdateUserPassword(ctx, user.ID, "n3w-pass"))

	promoted, err := client.UpdateUserRole(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	require.NoError(t, client.DeleteUser(ctx, user.ID))
	_, err = client.GetUser(ctx, user.ID)
	assert.True(t, api.IsNotFound(err))
}

// ---------- Additional files ----------

func TestClient_AdditionalFileMultipart(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	input := api.AdditionalFileInput{Content: []byte("robots disallow")}
	input.Name = "robots"
	input.Filename = "robots.txt"

	file, err := client.CreateAdditionalFile(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "robots", file.Name)
	assert.Equal(t, "robots.txt", file.Filename)

	content, filename, err := client.DownloadAdditionalFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("robots disallow"), content)
	assert.Equal(t, "robots.txt", filename)

	_, err = client.ReplaceAdditionalFile(ctx, file.ID, []byte("updated"))
	require.NoError(t, err)

	content, _, err = client.DownloadAdditionalFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), content)
}

func TestClient_DeleteRemoves(t *testing.T) {
	client := newLoggedInClient(t)
	ctx := context.Background()

	tpl, err := client.CreateTemplate(ctx, api.TemplateInput{Name: "tpl", Content: "server { }"})
	require.NoError(t, err)

	require.NoError(t, client.DeleteTemplate(ctx, tpl.ID))
	_, err = client.GetTemplate(ctx, tpl.ID)
	assert.True(t, api.IsNotFound(err))
}
