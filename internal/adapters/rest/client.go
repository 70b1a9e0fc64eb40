// Package rest implements the remote todo API over HTTP with JSON bodies.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hylla/sysla/internal/domain"
)

const defaultTimeout = 10 * time.Second

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Options configures the client.
type Options struct {
	// BaseURL is the root of the todo API, without a trailing slash.
	BaseURL string
	// Timeout bounds each request when no custom HTTPClient is given.
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the remote todo service. It satisfies app.API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new value for this package.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("rest: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("rest: parse base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// ListTodos fetches every todo belonging to the given user.
func (c *Client) ListTodos(ctx context.Context, userID int64) ([]domain.Todo, error) {
	path := "/todos?userId=" + strconv.FormatInt(userID, 10)
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo stores a new todo and returns the server copy, which carries
// the assigned id.
func (c *Client) CreateTodo(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	body := map[string]any{
		"userId":    todo.UserID,
		"title":     todo.Title,
		"completed": todo.Completed,
	}
	var created domain.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return domain.Todo{}, err
	}
	return created, nil
}

// UpdateTodo sends a partial update carrying only the patched field and
// returns the updated server copy.
func (c *Client) UpdateTodo(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error) {
	body := map[string]any{}
	if completed, ok := patch.Completed(); ok {
		body["completed"] = completed
	}
	if title, ok := patch.Title(); ok {
		body["title"] = title
	}
	if len(body) == 0 {
		return domain.Todo{}, domain.ErrEmptyPatch
	}
	path := "/todos/" + strconv.FormatInt(id, 10)
	var updated domain.Todo
	if err := c.do(ctx, http.MethodPatch, path, body, &updated); err != nil {
		return domain.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo removes a todo by id.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	path := "/todos/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do runs one round-trip: encode the optional body, tag the request for
// tracing, check the status class, decode the optional response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("rest: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decode %s %s response: %w", method, path, err)
	}
	return nil
}
