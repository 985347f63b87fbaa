package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListSites(ctx context.Context, opts ListOptions) (*ListPage[Site], error) {
	var page ListPage[Site]
	if err := c.get(ctx, "/site/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetSite(ctx context.Context, id int64) (*Site, error) {
	var s Site
	if err := c.get(ctx, fmt.Sprintf("/site/info/%d", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateSite(ctx context.Context, input SiteInput) (*Site, error) {
	var s Site
	if err := c.doJSON(ctx, http.MethodPost, "/site/create", input, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSiteInfo(ctx context.Context, id int64, input SiteInput) (*Site, error) {
	var s Site
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/site/info/%d", id), input, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSite(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/site/delete/%d", id))
}
