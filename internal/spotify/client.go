// Package spotify adapts the Spotify Web API to the normalized tool results.
//
// Every exported operation returns a result.Result and never an error:
// upstream failures are converted to result.Failure values here, so callers
// only ever serialize what they get back.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

// Session supplies the authenticated API client. It is consulted on every
// call, so the first tool invocation is what triggers login.
type Session interface {
	Client(ctx context.Context) (*spotify.Client, error)
}

// Client wraps the Spotify API client with one method per tool.
type Client struct {
	session Session
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each upstream call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a new Spotify client wrapper.
func New(session Session, opts ...Option) *Client {
	c := &Client{session: session}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do runs fn with the session's API client under the configured timeout.
func (c *Client) do(ctx context.Context, fn func(context.Context, *spotify.Client) error) error {
	api, err := c.session.Client(ctx)
	if err != nil {
		return fmt.Errorf("connecting to Spotify: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return fn(ctx, api)
}

// mutate runs fn and reports message on success.
func (c *Client) mutate(ctx context.Context, fn func(context.Context, *spotify.Client) error, format string, args ...any) result.Result {
	if err := c.do(ctx, fn); err != nil {
		return normalizeError(err)
	}
	return result.OK(format, args...)
}
