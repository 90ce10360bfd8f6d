// Package favorites keeps a local list of favorite tracks.
//
// The list is one ordered snapshot keyed by track URI. Every mutation loads
// the snapshot, changes it and saves it whole through a Repository, so
// backends only need to know how to read and replace a list.
package favorites

import (
	"context"
	"errors"
)

// Favorite is one saved track.
type Favorite struct {
	Name    string   `json:"name"`
	URI     string   `json:"uri"`
	Artists []string `json:"artists"`
	Album   string   `json:"album"`
}

// Repository persists the favorites snapshot.
type Repository interface {
	// Load returns the stored favorites in order. An empty store is not an error.
	Load(ctx context.Context) ([]Favorite, error)
	// Save replaces the stored favorites with list.
	Save(ctx context.Context, list []Favorite) error
	Close() error
}

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown favorites backend")
