// Package backend is the typed client for the procurement REST API. Every
// screen reads and mutates its data through this package; nothing is cached
// between calls, a screen re-fetches after each mutation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of an error response body is read.
	maxErrorBody = 64 << 10
)

// Client performs authenticated JSON calls against the procurement API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL. A zero timeout falls back to
// the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, token, path string, out any) error {
	return c.do(ctx, http.MethodGet, token, path, nil, out)
}

// Post performs a POST request with in as JSON body.
func (c *Client) Post(ctx context.Context, token, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, token, path, in, out)
}

// Put performs a PUT request with in as JSON body. All assignment endpoints
// use PUT with the complete desired state, the API replaces, never merges.
func (c *Client) Put(ctx context.Context, token, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, token, path, in, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.do(ctx, http.MethodDelete, token, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, token, path string, in, out any) error {
	if c == nil || c.http == nil {
		return ErrClientNotInitialized
	}

	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "procurement api request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body")
	}

	return nil
}

// decodeAPIError maps a non-2xx response to an APIError, keeping the
// server's message when the body carries the error envelope.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error APIError `json:"error"`
	}

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}

// queryEscape is a small helper for building lookup paths.
func queryEscape(v string) string {
	return url.QueryEscape(v)
}
