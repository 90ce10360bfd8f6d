package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/zmb3/spotify/v2"
)

// ErrSessionClosed is returned by Session.Client after Close.
var ErrSessionClosed = errors.New("session closed")

// Connector produces an authenticated Spotify client.
type Connector interface {
	Authenticate(ctx context.Context) (*spotify.Client, error)
}

// tokenSaver is implemented by connectors that can persist a live token.
type tokenSaver interface {
	SaveToken(client *spotify.Client) error
}

// Session hands out one shared Spotify client. The first call to Client
// authenticates; later calls reuse the result. A failed attempt is not
// remembered, so the next call tries again.
type Session struct {
	connector Connector

	mu     sync.Mutex
	client *spotify.Client
	closed bool
}

// NewSession creates a Session that authenticates through c on first use.
func NewSession(c Connector) *Session {
	return &Session{connector: c}
}

// StaticSession wraps an already-authenticated client.
func StaticSession(client *spotify.Client) *Session {
	return &Session{client: client}
}

// Client returns the shared client, authenticating if this is the first use.
func (s *Session) Client(ctx context.Context) (*spotify.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.client != nil {
		return s.client, nil
	}
	if s.connector == nil {
		return nil, errors.New("session has no connector")
	}

	client, err := s.connector.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Close persists the current token, if the connector supports it, and
// rejects further use.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.client == nil {
		return nil
	}
	if saver, ok := s.connector.(tokenSaver); ok {
		return saver.SaveToken(s.client)
	}
	return nil
}
