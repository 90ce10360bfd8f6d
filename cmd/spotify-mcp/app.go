package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/panuhen/spotify-mcp/internal/auth"
	"github.com/panuhen/spotify-mcp/internal/config"
	"github.com/panuhen/spotify-mcp/internal/favorites"
	"github.com/panuhen/spotify-mcp/internal/spotify"
	"github.com/panuhen/spotify-mcp/internal/tools"
)

// app is the wired object graph behind the server and the one-shot commands.
// Nothing in it talks to Spotify until the first player call.
type app struct {
	session    *auth.Session
	player     *spotify.Client
	store      *favorites.Store
	dispatcher *tools.Dispatcher
}

func newAuthenticator(cfg *config.Config, logger *log.Logger) (*auth.Authenticator, error) {
	return auth.New(auth.Config{
		ClientID:    cfg.Spotify.ClientID,
		RedirectURI: cfg.Spotify.RedirectURI,
		TokenPath:   cfg.Spotify.TokenPath,
		HTTPClient:  spotify.NewHTTPClient(cfg.Upstream.RequestsPerSecond, cfg.Upstream.Timeout),
		OpenBrowser: true,
		Logger:      logger,
	})
}

// catalog returns the advertised tools. It needs no credentials or storage.
func catalog(cfg *config.Config) []tools.Tool {
	list := tools.Catalog()
	if cfg.Favorites.ExposeTools {
		list = append(list, tools.FavoriteTools()...)
	}
	return list
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*favorites.Store, error) {
	repo, err := favorites.Open(ctx, cfg.Favorites, logger)
	if err != nil {
		return nil, fmt.Errorf("opening favorites: %w", err)
	}
	return favorites.NewStore(repo), nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	authenticator, err := newAuthenticator(cfg, logger)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(authenticator)
	player := spotify.New(session, spotify.WithTimeout(cfg.Upstream.Timeout))

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher, err := tools.NewDispatcher(catalog(cfg), tools.Handlers(player, store), logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("building dispatcher: %w", err)
	}

	return &app{
		session:    session,
		player:     player,
		store:      store,
		dispatcher: dispatcher,
	}, nil
}

// Close saves the session token and releases the favorites repository.
func (a *app) Close() error {
	return errors.Join(a.session.Close(), a.store.Close())
}
