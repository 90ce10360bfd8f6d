package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/panuhen/spotify-mcp/internal/auth"
	"github.com/panuhen/spotify-mcp/internal/config"
	"github.com/panuhen/spotify-mcp/internal/display"
	"github.com/panuhen/spotify-mcp/internal/favorites"
	"github.com/panuhen/spotify-mcp/internal/result"
	"github.com/panuhen/spotify-mcp/internal/server"
	"github.com/panuhen/spotify-mcp/internal/spotify"
)

// ErrMissingArgument is returned when a required positional argument is empty.
var ErrMissingArgument = errors.New("missing argument")

// Serve runs the MCP server until the client disconnects or ctx is done.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	transport := r.config.Server.Transport
	if t := cmd.String("transport"); t != "" {
		transport = t
	}
	addr := r.config.Server.Addr
	if a := cmd.String("addr"); a != "" {
		addr = a
	}

	a, err := newApp(ctx, r.config, r.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			r.logger.Warn("closing", "err", err)
		}
	}()

	srv := server.New(a.dispatcher, server.Config{
		Version: version,
		Addr:    addr,
		Logger:  r.logger,
	})

	switch transport {
	case config.TransportStdio:
		return srv.ServeStdio(ctx)
	case config.TransportHTTP:
		return srv.ServeHTTP(ctx)
	default:
		return fmt.Errorf("%w: unknown transport %q", config.ErrInvalidConfig, transport)
	}
}

// Auth runs the login flow now instead of on the first tool call.
func (r *Runner) Auth(ctx context.Context, _ *cli.Command) error {
	authenticator, err := newAuthenticator(r.config, r.logger)
	if err != nil {
		return err
	}

	client, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	if err := authenticator.SaveToken(client); err != nil {
		r.logger.Warn("failed to cache token", "err", err)
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("fetching current user: %w", err)
	}

	return r.writePlain("✓ Authenticated as %s (%s)\nToken cached at %s\n",
		user.DisplayName, user.ID, authenticator.Cache().Path())
}

// Logout deletes the cached token. It needs no client ID.
func (r *Runner) Logout(_ context.Context, _ *cli.Command) error {
	path := r.config.Spotify.TokenPath
	if path == "" {
		var err error
		if path, err = auth.DefaultTokenPath(); err != nil {
			return err
		}
	}

	if err := auth.NewTokenCache(path).Delete(); err != nil {
		return err
	}
	return r.writePlain("✓ Removed cached token %s\n", path)
}

// Tools prints the catalog the server would advertise.
func (r *Runner) Tools(_ context.Context, cmd *cli.Command) error {
	list := catalog(r.config)

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}
		return r.writePlain("%s\n", data)
	}
	return display.Tools(r.output, list)
}

// Call dispatches one tool exactly as an MCP client would.
func (r *Runner) Call(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("tool")
	if name == "" {
		return fmt.Errorf("%w: tool name", ErrMissingArgument)
	}

	a, err := newApp(ctx, r.config, r.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.dispatcher.Call(ctx, name, json.RawMessage(cmd.String("args")))
	return display.Result(r.output, res)
}

func (r *Runner) withStore(ctx context.Context, fn func(*favorites.Store) error) error {
	store, err := openStore(ctx, r.config, r.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func (r *Runner) FavoritesList(ctx context.Context, _ *cli.Command) error {
	return r.withStore(ctx, func(store *favorites.Store) error {
		res := store.List(ctx)
		list, ok := res.(favorites.List)
		if !ok {
			return display.Result(r.output, res)
		}
		return display.Favorites(r.output, list.Favorites)
	})
}

// FavoritesAdd adds the track named by flags, or looks up the current track
// when --uri is omitted.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	fav := favorites.Favorite{
		URI:     cmd.String("uri"),
		Name:    cmd.String("name"),
		Artists: cmd.StringSlice("artist"),
		Album:   cmd.String("album"),
	}

	if fav.URI == "" {
		current, err := r.currentTrack(ctx)
		if err != nil {
			return err
		}
		fav = current
	}
	if fav.Name == "" {
		fav.Name = fav.URI
	}

	return r.withStore(ctx, func(store *favorites.Store) error {
		return display.Result(r.output, store.Add(ctx, fav))
	})
}

func (r *Runner) currentTrack(ctx context.Context) (favorites.Favorite, error) {
	a, err := newApp(ctx, r.config, r.logger)
	if err != nil {
		return favorites.Favorite{}, err
	}
	defer a.Close()

	switch res := a.player.CurrentTrack(ctx).(type) {
	case spotify.NowPlaying:
		if res.Track == nil {
			return favorites.Favorite{}, errors.New("nothing currently playing; pass --uri")
		}
		return favorites.Favorite{
			Name:    res.Track.Name,
			URI:     res.Track.URI,
			Artists: res.Track.Artists,
			Album:   res.Track.Album,
		}, nil
	case result.Failure:
		return favorites.Favorite{}, fmt.Errorf("reading current track: %s", res.Error)
	default:
		return favorites.Favorite{}, fmt.Errorf("unexpected current track result %T", res)
	}
}

func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return fmt.Errorf("%w: track URI", ErrMissingArgument)
	}

	return r.withStore(ctx, func(store *favorites.Store) error {
		return display.Result(r.output, store.Remove(ctx, uri))
	})
}

func (r *Runner) FavoritesRandom(ctx context.Context, _ *cli.Command) error {
	return r.withStore(ctx, func(store *favorites.Store) error {
		res := store.Random(ctx)
		if pick, ok := res.(favorites.Pick); ok {
			return r.writePlain("%s\n", display.Favorite(pick.Track))
		}
		return display.Result(r.output, res)
	})
}

func (r *Runner) FavoritesClear(ctx context.Context, _ *cli.Command) error {
	return r.withStore(ctx, func(store *favorites.Store) error {
		return display.Result(r.output, store.Clear(ctx))
	})
}

// Init writes the example config to the given path or the default path.
func (r *Runner) Init(_ context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if err := config.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %s\n", path)
}
