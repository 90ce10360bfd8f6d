package favorites

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/panuhen/spotify-mcp/internal/result"
)

// List answers list_favorites.
type List struct {
	result.Data
	Favorites []Favorite `json:"favorites"`
	Total     int        `json:"total"`
}

// Pick answers random_favorite.
type Pick struct {
	result.Data
	Track Favorite `json:"track"`
}

// Store applies favorites operations on top of a Repository. Operations are
// serialized so concurrent calls never lose each other's writes.
type Store struct {
	mu   sync.Mutex
	repo Repository
	pick func(n int) int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPicker replaces the random index source used by Random.
func WithPicker(pick func(n int) int) StoreOption {
	return func(s *Store) {
		s.pick = pick
	}
}

// NewStore creates a Store over repo.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{repo: repo, pick: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the repository.
func (s *Store) Close() error {
	return s.repo.Close()
}

// Add appends fav unless its URI is already present.
func (s *Store) Add(ctx context.Context, fav Favorite) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Load(ctx)
	if err != nil {
		return storageFailure("loading", err)
	}

	if slices.ContainsFunc(list, func(f Favorite) bool { return f.URI == fav.URI }) {
		return result.Refused("Track already in favorites")
	}

	if fav.Artists == nil {
		fav.Artists = []string{}
	}
	list = append(list, fav)
	if err := s.repo.Save(ctx, list); err != nil {
		return storageFailure("saving", err)
	}

	return result.OK("Added '%s' to favorites", fav.Name)
}

// Remove deletes the favorite with uri.
func (s *Store) Remove(ctx context.Context, uri string) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Load(ctx)
	if err != nil {
		return storageFailure("loading", err)
	}

	before := len(list)
	kept := slices.DeleteFunc(list, func(f Favorite) bool { return f.URI == uri })
	if len(kept) == before {
		return result.Refused("Track not found in favorites")
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return storageFailure("saving", err)
	}
	return result.OK("Removed from favorites")
}

// List returns every favorite in insertion order.
func (s *Store) List(ctx context.Context) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Load(ctx)
	if err != nil {
		return storageFailure("loading", err)
	}
	if list == nil {
		list = []Favorite{}
	}
	return List{Favorites: list, Total: len(list)}
}

// Random returns one favorite chosen uniformly.
func (s *Store) Random(ctx context.Context) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Load(ctx)
	if err != nil {
		return storageFailure("loading", err)
	}
	if len(list) == 0 {
		return result.Errorf("No favorites saved yet")
	}
	return Pick{Track: list[s.pick(len(list))]}
}

// Clear removes every favorite.
func (s *Store) Clear(ctx context.Context) result.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, []Favorite{}); err != nil {
		return storageFailure("saving", err)
	}
	return result.OK("Cleared all favorites")
}

func storageFailure(action string, err error) result.Failure {
	return result.Errorf("%s favorites: %v", action, err)
}
