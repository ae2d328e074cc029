// Package api provides the HTTP client for the admin REST backend. The
// client is constructed once with its base URL and bearer token and is
// passed down explicitly; no request reads ambient state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Pagination is the paging metadata the backend attaches to list
// responses.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
}

// envelope is the backend's uniform response shape. Data stays raw until
// the caller supplies a destination type.
type envelope struct {
	Data       json.RawMessage     `json:"data"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Success    *bool               `json:"success,omitempty"`
	Message    string              `json:"message,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// Error is a failure reported by the backend: a non-2xx status, an
// explicit success=false, or a field validation error set.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// ErrUnauthorized is returned for 401 responses so callers can suggest
// re-login instead of showing a raw failure.
var ErrUnauthorized = errors.New("api: unauthorized")

// Client issues requests against the admin API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// New constructs a Client. timeout bounds each request; a zero timeout
// disables the bound.
func New(baseURL, token string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		timeout: timeout,
		log:     log,
	}
}

// Get issues a GET and decodes the envelope's data into out. The query
// is sent as-is; callers strip sentinel values before encoding.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Pagination, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, "", nil, out)
}

// PostJSON issues a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PutJSON issues a PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, body any, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

// Post issues a POST with a pre-encoded body, used for multipart
// submissions where the form layer owns the encoding.
func (c *Client) Post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL+path, contentType, body, out)
	return err
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+path, "", nil, nil)
	return err
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	_, err = c.do(ctx, method, c.baseURL+path, "application/json", bytes.NewReader(b), out)
	return err
}

func (c *Client) do(ctx context.Context, method, u, contentType string, body io.Reader, out any) (*Pagination, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body is tolerated on error statuses; the status
		// alone decides failure.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if fieldMsg := joinFieldErrors(env.Errors); fieldMsg != "" {
			if msg != "" {
				msg += ": "
			}
			msg += fieldMsg
		}
		c.log.Debug("api request failed", "method", method, "url", u, "status", resp.StatusCode, "message", msg)
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Pagination, nil
}

// joinFieldErrors flattens the server's per-field validation errors into
// a single user-facing message, in stable field order.
func joinFieldErrors(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, msg := range fields[k] {
			parts = append(parts, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	return strings.Join(parts, "; ")
}
