package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token. This is the only call that
// carries no Authorization header.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.authless().doJSON(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
