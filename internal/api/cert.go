package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListCerts(ctx context.Context, opts ListOptions) (*ListPage[Cert], error) {
	var page ListPage[Cert]
	if err := c.get(ctx, "/cert/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetCert(ctx context.Context, id int64) (*Cert, error) {
	var crt Cert
	if err := c.get(ctx, fmt.Sprintf("/cert/info/%d", id), &crt); err != nil {
		return nil, err
	}
	return &crt, nil
}

func (c *Client) CreateCert(ctx context.Context, input CertInput) (*Cert, error) {
	var crt Cert
	if err := c.doJSON(ctx, http.MethodPost, "/cert/create", input, &crt); err != nil {
		return nil, err
	}
	return &crt, nil
}

func (c *Client) UpdateCertInfo(ctx context.Context, id int64, input CertInput) (*Cert, error) {
	var crt Cert
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/cert/info/%d", id), input, &crt); err != nil {
		return nil, err
	}
	return &crt, nil
}

// RenewCert asks the backend to reissue an automatically managed certificate
// and returns it with the new expiry.
func (c *Client) RenewCert(ctx context.Context, id int64) (*Cert, error) {
	var crt Cert
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/cert/renew/%d", id), nil, &crt); err != nil {
		return nil, err
	}
	return &crt, nil
}

func (c *Client) DeleteCert(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/cert/delete/%d", id))
}
