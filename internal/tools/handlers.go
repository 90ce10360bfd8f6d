package tools

import (
	"context"
	"encoding/json"

	"github.com/panuhen/spotify-mcp/internal/favorites"
	"github.com/panuhen/spotify-mcp/internal/result"
	"github.com/panuhen/spotify-mcp/internal/spotify"
)

// Player is the Spotify surface the tools call; *spotify.Client implements it.
type Player interface {
	Play(ctx context.Context, req spotify.PlayRequest) result.Result
	Pause(ctx context.Context, deviceID string) result.Result
	Next(ctx context.Context, deviceID string) result.Result
	Previous(ctx context.Context, deviceID string) result.Result
	Seek(ctx context.Context, positionMs int, deviceID string) result.Result
	SetVolume(ctx context.Context, volume int, deviceID string) result.Result
	Shuffle(ctx context.Context, state bool, deviceID string) result.Result
	Repeat(ctx context.Context, state, deviceID string) result.Result

	CurrentTrack(ctx context.Context) result.Result
	PlaybackState(ctx context.Context) result.Result
	Queue(ctx context.Context) result.Result
	Devices(ctx context.Context) result.Result

	Search(ctx context.Context, query string, types []string, limit int) result.Result
	AddToQueue(ctx context.Context, uri, deviceID string) result.Result
	Playlists(ctx context.Context, limit int) result.Result
	PlaylistTracks(ctx context.Context, playlist string, limit int) result.Result
	AddToPlaylist(ctx context.Context, playlist string, uris []string) result.Result
	SaveTracks(ctx context.Context, tracks []string) result.Result
	RemoveSavedTracks(ctx context.Context, tracks []string) result.Result
	SavedTracks(ctx context.Context, limit int) result.Result
}

// Favorites is the local favorites surface; *favorites.Store implements it.
type Favorites interface {
	Add(ctx context.Context, fav favorites.Favorite) result.Result
	Remove(ctx context.Context, uri string) result.Result
	List(ctx context.Context) result.Result
	Random(ctx context.Context) result.Result
	Clear(ctx context.Context) result.Result
}

type deviceArgs struct {
	DeviceID string `json:"device_id"`
}

type playArgs struct {
	URI        string `json:"uri"`
	ContextURI string `json:"context_uri"`
	Offset     *int   `json:"offset"`
	PositionMs int    `json:"position_ms"`
	DeviceID   string `json:"device_id"`
}

type seekArgs struct {
	PositionMs int    `json:"position_ms"`
	DeviceID   string `json:"device_id"`
}

type volumeArgs struct {
	Volume   int    `json:"volume"`
	DeviceID string `json:"device_id"`
}

type shuffleArgs struct {
	State    bool   `json:"state"`
	DeviceID string `json:"device_id"`
}

type repeatArgs struct {
	State    string `json:"state"`
	DeviceID string `json:"device_id"`
}

type searchArgs struct {
	Query string   `json:"query"`
	Types []string `json:"types"`
	Limit int      `json:"limit"`
}

type uriArgs struct {
	URI      string `json:"uri"`
	DeviceID string `json:"device_id"`
}

type limitArgs struct {
	Limit int `json:"limit"`
}

type playlistTracksArgs struct {
	PlaylistID string `json:"playlist_id"`
	Limit      int    `json:"limit"`
}

type addToPlaylistArgs struct {
	PlaylistID string   `json:"playlist_id"`
	URIs       []string `json:"uris"`
}

type trackIDsArgs struct {
	TrackIDs []string `json:"track_ids"`
}

// bind adapts a typed tool function to a Handler.
func bind[In any](fn func(context.Context, In) result.Result) Handler {
	return func(ctx context.Context, raw json.RawMessage) (result.Result, error) {
		var in In
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, err
			}
		}
		return fn(ctx, in), nil
	}
}

// noArgs adapts an argument-free tool function to a Handler.
func noArgs(fn func(context.Context) result.Result) Handler {
	return func(ctx context.Context, _ json.RawMessage) (result.Result, error) {
		return fn(ctx), nil
	}
}

// Handlers returns the handler table for every known tool.
func Handlers(p Player, f Favorites) map[string]Handler {
	return map[string]Handler{
		"play": bind(func(ctx context.Context, in playArgs) result.Result {
			return p.Play(ctx, spotify.PlayRequest{
				URI:        in.URI,
				ContextURI: in.ContextURI,
				DeviceID:   in.DeviceID,
				Offset:     in.Offset,
				PositionMs: in.PositionMs,
			})
		}),
		"pause": bind(func(ctx context.Context, in deviceArgs) result.Result {
			return p.Pause(ctx, in.DeviceID)
		}),
		"next": bind(func(ctx context.Context, in deviceArgs) result.Result {
			return p.Next(ctx, in.DeviceID)
		}),
		"previous": bind(func(ctx context.Context, in deviceArgs) result.Result {
			return p.Previous(ctx, in.DeviceID)
		}),
		"seek": bind(func(ctx context.Context, in seekArgs) result.Result {
			return p.Seek(ctx, in.PositionMs, in.DeviceID)
		}),
		"set_volume": bind(func(ctx context.Context, in volumeArgs) result.Result {
			return p.SetVolume(ctx, in.Volume, in.DeviceID)
		}),
		"shuffle": bind(func(ctx context.Context, in shuffleArgs) result.Result {
			return p.Shuffle(ctx, in.State, in.DeviceID)
		}),
		"repeat": bind(func(ctx context.Context, in repeatArgs) result.Result {
			return p.Repeat(ctx, in.State, in.DeviceID)
		}),

		"get_current_track":  noArgs(p.CurrentTrack),
		"get_playback_state": noArgs(p.PlaybackState),
		"get_queue":          noArgs(p.Queue),
		"get_devices":        noArgs(p.Devices),

		"search": bind(func(ctx context.Context, in searchArgs) result.Result {
			return p.Search(ctx, in.Query, in.Types, in.Limit)
		}),
		"add_to_queue": bind(func(ctx context.Context, in uriArgs) result.Result {
			return p.AddToQueue(ctx, in.URI, in.DeviceID)
		}),
		"get_playlists": bind(func(ctx context.Context, in limitArgs) result.Result {
			return p.Playlists(ctx, in.Limit)
		}),
		"get_playlist_tracks": bind(func(ctx context.Context, in playlistTracksArgs) result.Result {
			return p.PlaylistTracks(ctx, in.PlaylistID, in.Limit)
		}),
		"add_to_playlist": bind(func(ctx context.Context, in addToPlaylistArgs) result.Result {
			return p.AddToPlaylist(ctx, in.PlaylistID, in.URIs)
		}),
		"save_tracks": bind(func(ctx context.Context, in trackIDsArgs) result.Result {
			return p.SaveTracks(ctx, in.TrackIDs)
		}),
		"remove_saved_tracks": bind(func(ctx context.Context, in trackIDsArgs) result.Result {
			return p.RemoveSavedTracks(ctx, in.TrackIDs)
		}),
		"get_saved_tracks": bind(func(ctx context.Context, in limitArgs) result.Result {
			return p.SavedTracks(ctx, in.Limit)
		}),

		"add_favorite":    bind(f.Add),
		"remove_favorite": bind(func(ctx context.Context, in uriArgs) result.Result {
			return f.Remove(ctx, in.URI)
		}),
		"list_favorites":  noArgs(f.List),
		"random_favorite": noArgs(f.Random),
		"clear_favorites": noArgs(f.Clear),
	}
}
