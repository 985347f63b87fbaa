package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBasePath is the admin API prefix used when no base URL is configured.
const DefaultBasePath = "/api/admin"

// DefaultLimit is the page size used when a list call passes limit 0 through
// ListOptions rather than the explicit fetch-all sentinel.
const DefaultLimit = 20

// TokenSource supplies the bearer token for authenticated requests.
// The session store implements this; an empty token sends no header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, useful in tests and one-shot tools.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// APIError is a non-2xx response whose body carried the backend's
// {"message": ...} error shape. The message is surfaced to users verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// ListPage is the pagination envelope shared by every list endpoint. Pages are
// 1-based; a response to the fetch-all sentinel echoes limit 0 with page_max 1.
type ListPage[T any] struct {
	Limit   int `json:"limit"`
	PageMax int `json:"page_max"`
	List    []T `json:"list"`
}

// ListOptions selects a window of a collection. The zero value means
// page 1 with the default limit. FetchAll requests the whole collection
// in one page (serialized as page=0&limit=0).
type ListOptions struct {
	Page     int
	Limit    int
	FetchAll bool
}

func (o ListOptions) query() string {
	if o.FetchAll {
		return "?page=0&limit=0"
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return "?" + q.Encode()
}

// Client issues requests against the admin API. It performs no retries:
// every failure propagates immediately to the caller.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// authless returns a copy of the client that sends no Authorization header.
func (c *Client) authless() *Client {
	cc := *c
	cc.tokens = StaticToken("")
	return &cc
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// checkStatus turns a non-2xx response into an *APIError carrying the
// backend's message. A body that is not the JSON error shape is a transport
// error, not an APIError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: status %d: read error body: %w",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, err)
	}
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil {
		return fmt.Errorf("%s %s: status %d: parse error body: %w",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, err)
	}
	return &APIError{Status: resp.StatusCode, Message: errBody.Message}
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// multipartField is one form field of a multipart request. File fields carry a
// filename; optional fields are simply not appended by the caller.
type multipartField struct {
	name     string
	value    []byte
	filename string
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields []multipartField, result any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		var (
			part io.Writer
			err  error
		)
		if f.filename != "" {
			part, err = mw.CreateFormFile(f.name, f.filename)
		} else {
			part, err = mw.CreateFormField(f.name)
		}
		if err != nil {
			return fmt.Errorf("build multipart form: %w", err)
		}
		if _, err := part.Write(f.value); err != nil {
			return fmt.Errorf("build multipart form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API request: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// download fetches a binary body, returning the bytes and the filename from
// the Content-Disposition header when present.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("admin API request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return data, filename, nil
}
