package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListAdditionalFiles(ctx context.Context, opts ListOptions) (*ListPage[AdditionalFile], error) {
	var page ListPage[AdditionalFile]
	if err := c.get(ctx, "/additional-file/list"+opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetAdditionalFile(ctx context.Context, id int64) (*AdditionalFile, error) {
	var f AdditionalFile
	if err := c.get(ctx, fmt.Sprintf("/additional-file/info/%d", id), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateAdditionalFile sends a multipart form. Optional parts (filename,
// content) are appended only when set, never as empty placeholders.
func (c *Client) CreateAdditionalFile(ctx context.Context, input AdditionalFileInput) (*AdditionalFile, error) {
	fields := []multipartField{
		{name: "name", value: []byte(input.Name)},
	}
	if input.Filename != "" {
		fields = append(fields, multipartField{name: "filename", value: []byte(input.Filename)})
	}
	if input.Content != nil {
		filename := input.Filename
		if filename == "" {
			filename = input.Name
		}
		fields = append(fields, multipartField{name: "content", value: input.Content, filename: filename})
	}

	var f AdditionalFile
	if err := c.doMultipart(ctx, http.MethodPost, "/additional-file/create", fields, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateAdditionalFileInfo updates name and filename only. Content is
// replaced through ReplaceAdditionalFile.
func (c *Client) UpdateAdditionalFileInfo(ctx context.Context, id int64, input AdditionalFileInfo) (*AdditionalFile, error) {
	var f AdditionalFile
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/additional-file/info/%d", id), input, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReplaceAdditionalFile swaps the stored content for a new upload.
func (c *Client) ReplaceAdditionalFile(ctx context.Context, id int64, content []byte) (*AdditionalFile, error) {
	var fields []multipartField
	if content != nil {
		fields = append(fields, multipartField{name: "content", value: content, filename: "content"})
	}

	var f AdditionalFile
	if err := c.doMultipart(ctx, http.MethodPost, fmt.Sprintf("/additional-file/replace/%d", id), fields, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DownloadAdditionalFile returns the raw file bytes and the filename the
// backend suggests via Content-Disposition.
func (c *Client) DownloadAdditionalFile(ctx context.Context, id int64) ([]byte, string, error) {
	return c.download(ctx, fmt.Sprintf("/additional-file/download/%d", id))
}

func (c *Client) DeleteAdditionalFile(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/additional-file/delete/%d", id))
}
