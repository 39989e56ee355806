// Package upstream proxies the RAWG game metadata API.
//
// Every call injects the server-held API key and returns the upstream body
// unchanged. Any failure (transport, non-2xx status, non-JSON body) surfaces as
// errs.ErrUpstream without the upstream detail; the key never leaves this package.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/and161185/gamehub/internal/errs"
)

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 5 * time.Second

// Recorder observes upstream calls, e.g. for metrics.
type Recorder interface {
	ObserveUpstream(op string, ok bool, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstream(string, bool, time.Duration) {}

// Client talks to the upstream API.
type Client struct {
	http *resty.Client
	key  string
	rec  Recorder
}

// New creates a client for baseURL. A non-positive timeout means DefaultTimeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: c, key: apiKey, rec: nopRecorder{}}
}

// WithRecorder attaches an observer for every call.
func (c *Client) WithRecorder(r Recorder) *Client {
	if r != nil {
		c.rec = r
	}
	return c
}

// ListGames forwards the caller's query parameters to /games.
func (c *Client) ListGames(ctx context.Context, q url.Values) (json.RawMessage, error) {
	return c.get(ctx, "games", "/games", nil, q)
}

// GetGame returns the detail payload of one game.
func (c *Client) GetGame(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "game", "/games/{id}", map[string]string{"id": id}, nil)
}

// Screenshots returns the screenshots payload of one game.
func (c *Client) Screenshots(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "screenshots", "/games/{id}/screenshots", map[string]string{"id": id}, nil)
}

// Movies returns the trailers payload of one game.
func (c *Client) Movies(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "movies", "/games/{id}/movies", map[string]string{"id": id}, nil)
}

func (c *Client) get(ctx context.Context, op, path string, pathParams map[string]string, q url.Values) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.do(ctx, op, path, pathParams, q)
	c.rec.ObserveUpstream(op, err == nil, time.Since(start))
	return body, err
}

func (c *Client) do(ctx context.Context, op, path string, pathParams map[string]string, q url.Values) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if len(q) > 0 {
		req.SetQueryParamsFromValues(q)
	}
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	req.SetQueryParam("key", c.key)

	resp, err := req.Get(path)
	if err != nil {
		// resty errors embed the request URL, which carries the key
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", errs.ErrUpstream, op, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: transport error", errs.ErrUpstream, op)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: status %d", errs.ErrUpstream, op, resp.StatusCode())
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s: malformed body", errs.ErrUpstream, op)
	}
	return json.RawMessage(body), nil
}
