package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListTemplates(ctx context.Context, opts ListOptions) (*ListPage[Template], error) {
	var page ListPage[Template]
	if err := c.get(ctx, "/template/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetTemplate(ctx context.Context, id int64) (*Template, error) {
	var tpl Template
	if err := c.get(ctx, fmt.Sprintf("/template/info/%d", id), &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*Template, error) {
	var tpl Template
	if err := c.doJSON(ctx, http.MethodPost, "/template/create", input, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) UpdateTemplateInfo(ctx context.Context, id int64, input TemplateInput) (*Template, error) {
	var tpl Template
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/template/info/%d", id), input, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/template/delete/%d", id))
}
