package api

import (
	"context"
	"fmt"
	"net/http"
)

// SelfInfo returns the account behind the current token. Callers treat any
// failure here as an authentication failure.
func (c *Client) SelfInfo(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/user/info", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*ListPage[User], error) {
	var page ListPage[User]
	if err := c.get(ctx, "/user/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.get(ctx, fmt.Sprintf("/user/info/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, input UserCreate) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodPost, "/user/create", input, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUserInfo(ctx context.Context, id int64, input UserInput) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/user/info/%d", id), input, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUserUsername(ctx context.Context, id int64, username string) (*User, error) {
	var u User
	body := map[string]string{"username": username}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/user/username/%d", id), body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserPassword resolves with no value; the backend returns an empty body.
func (c *Client) UpdateUserPassword(ctx context.Context, id int64, password string) error {
	body := map[string]string{"password": password}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/user/password/%d", id), body, nil)
}

func (c *Client) UpdateUserRole(ctx context.Context, id int64, isAdmin bool) (*User, error) {
	var u User
	body := map[string]bool{"is_admin": isAdmin}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/user/role/%d", id), body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/user/delete/%d", id))
}
