// Package client talks to the position log over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 5 * time.Second

const (
	currentPath    = "/api/robotCurrentPosition"
	historicalPath = "/api/robotHistoricalPosition"
)

// Client implements ports.PositionRecorder over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

var _ ports.PositionRecorder = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout, whichever order it is given in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the API rooted at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// payload is a record or an error-shaped body.
type payload struct {
	ID        *int64           `json:"id"`
	X         int              `json:"x"`
	Y         int              `json:"y"`
	Direction domain.Direction `json:"direction"`
	Error     string           `json:"error"`
}

func (p payload) record() domain.Record {
	return domain.Record{ID: *p.ID, X: p.X, Y: p.Y, Direction: p.Direction}
}

// Record posts the position and returns the stored record.
// A 400 answer becomes a *domain.ValidationError.
func (c *Client) Record(ctx context.Context, pos domain.Position) (domain.Record, error) {
	const op = "record position"

	body, err := json.Marshal(pos)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.do(ctx, http.MethodPost, currentPath, bytes.NewReader(body))
	if err != nil {
		return domain.Record{}, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var p payload
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil || p.ID == nil {
			return domain.Record{}, &domain.TransportError{Op: op, Err: fmt.Errorf("malformed response: %v", err)}
		}
		return p.record(), nil
	case http.StatusBadRequest:
		var p payload
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil || p.Error == "" {
			return domain.Record{}, &domain.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
		}
		return domain.Record{}, domain.NewValidationError(p.Error)
	}
	return domain.Record{}, &domain.TransportError{Op: op, Err: unexpectedStatus(resp)}
}

// Latest fetches the current position.
// The API's {"error": "Robot is not placed"} answer becomes domain.ErrNotPlaced.
func (c *Client) Latest(ctx context.Context) (domain.Record, error) {
	const op = "fetch position"

	resp, err := c.do(ctx, http.MethodGet, currentPath, nil)
	if err != nil {
		return domain.Record{}, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Record{}, &domain.TransportError{Op: op, Err: unexpectedStatus(resp)}
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Record{}, &domain.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if p.ID == nil {
		if p.Error != "" {
			return domain.Record{}, domain.ErrNotPlaced
		}
		return domain.Record{}, &domain.TransportError{Op: op, Err: fmt.Errorf("response has no id")}
	}
	return p.record(), nil
}

// History fetches up to 100 recent records, newest first.
func (c *Client) History(ctx context.Context) ([]domain.Record, error) {
	return c.Recent(ctx, 0)
}

// Recent fetches up to limit records; limit <= 0 lets the server use its default.
func (c *Client) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	const op = "fetch history"

	path := historicalPath
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TransportError{Op: op, Err: unexpectedStatus(resp)}
	}

	records := []domain.Record{}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return records, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func unexpectedStatus(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}
