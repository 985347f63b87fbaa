package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListInstances(ctx context.Context, opts ListOptions) (*ListPage[Instance], error) {
	var page ListPage[Instance]
	if err := c.get(ctx, "/instance/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetInstance(ctx context.Context, id int64) (*Instance, error) {
	var inst Instance
	if err := c.get(ctx, fmt.Sprintf("/instance/info/%d", id), &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// CreateInstance returns the instance together with its freshly issued auth
// token. This response is the only place the token is ever readable; later
// fetches return the instance without it.
func (c *Client) CreateInstance(ctx context.Context, input InstanceInput) (*InstanceWithToken, error) {
	var inst InstanceWithToken
	if err := c.doJSON(ctx, http.MethodPost, "/instance/create", input, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (c *Client) UpdateInstanceInfo(ctx context.Context, id int64, input InstanceInput) (*Instance, error) {
	var inst Instance
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/instance/info/%d", id), input, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// RotateInstanceToken invalidates the instance's current token and returns the
// replacement, readable only in this response.
func (c *Client) RotateInstanceToken(ctx context.Context, id int64) (*InstanceWithToken, error) {
	var inst InstanceWithToken
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/instance/rotate-token/%d", id), nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (c *Client) DeleteInstance(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/instance/delete/%d", id))
}
