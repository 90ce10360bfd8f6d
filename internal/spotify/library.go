package spotify

import (
	"context"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

// SearchTypes are the searchable item kinds.
var SearchTypes = []string{"track", "album", "artist", "playlist"}

const (
	DefaultSearchLimit         = 10
	DefaultPlaylistsLimit      = 50
	DefaultPlaylistTracksLimit = 100
	DefaultSavedTracksLimit    = 20
)

var searchTypeFlags = map[string]spotify.SearchType{
	"track":    spotify.SearchTypeTrack,
	"album":    spotify.SearchTypeAlbum,
	"artist":   spotify.SearchTypeArtist,
	"playlist": spotify.SearchTypePlaylist,
}

// searchType combines the recognized tokens in types. Unknown tokens are
// dropped and an empty result falls back to tracks.
func searchType(types []string) spotify.SearchType {
	var t spotify.SearchType
	for _, name := range types {
		t |= searchTypeFlags[name]
	}
	if t == 0 {
		t = spotify.SearchTypeTrack
	}
	return t
}

// Search looks up items of the requested kinds.
func (c *Client) Search(ctx context.Context, query string, types []string, limit int) result.Result {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	kinds := searchType(types)

	var found *spotify.SearchResult
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		found, err = api.Search(ctx, query, kinds, spotify.Limit(limit))
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	out := SearchResults{}
	if found == nil {
		return out
	}

	if kinds&spotify.SearchTypeTrack != 0 {
		out.Tracks = []Track{}
		if found.Tracks != nil {
			for i := range found.Tracks.Tracks {
				track := convertTrack(&found.Tracks.Tracks[i])
				track.DurationMs = 0
				out.Tracks = append(out.Tracks, track)
			}
		}
	}

	if kinds&spotify.SearchTypeAlbum != 0 {
		out.Albums = []Album{}
		if found.Albums != nil {
			for _, a := range found.Albums.Albums {
				out.Albums = append(out.Albums, Album{
					Name:    a.Name,
					URI:     string(a.URI),
					Artists: artistNames(a.Artists),
				})
			}
		}
	}

	if kinds&spotify.SearchTypeArtist != 0 {
		out.Artists = []Artist{}
		if found.Artists != nil {
			for _, a := range found.Artists.Artists {
				genres := a.Genres
				if genres == nil {
					genres = []string{}
				}
				out.Artists = append(out.Artists, Artist{
					Name:   a.Name,
					URI:    string(a.URI),
					Genres: genres,
				})
			}
		}
	}

	if kinds&spotify.SearchTypePlaylist != 0 {
		out.Playlists = []Playlist{}
		if found.Playlists != nil {
			out.Playlists = convertPlaylists(found.Playlists.Playlists)
		}
	}

	return out
}

// convertPlaylists skips null entries, which decode as empty playlists.
func convertPlaylists(in []spotify.SimplePlaylist) []Playlist {
	out := make([]Playlist, 0, len(in))
	for _, p := range in {
		if p.ID == "" && p.URI == "" {
			continue
		}
		out = append(out, convertPlaylist(p))
	}
	return out
}

// AddToQueue appends a track to the playback queue.
func (c *Client) AddToQueue(ctx context.Context, uri, deviceID string) result.Result {
	id, err := trackID(uri)
	if err != nil {
		return invalidTrack(err)
	}
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.QueueSongOpt(ctx, id, playOptions(deviceID))
	}, "Added to queue")
}

// Playlists lists one page of the current user's playlists.
func (c *Client) Playlists(ctx context.Context, limit int) result.Result {
	if limit <= 0 {
		limit = DefaultPlaylistsLimit
	}

	var page *spotify.SimplePlaylistPage
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		page, err = api.CurrentUsersPlaylists(ctx, spotify.Limit(limit))
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	return Playlists{
		Playlists: convertPlaylists(page.Playlists),
		Total:     int(page.Total),
	}
}

// PlaylistTracks lists one page of a playlist's tracks. Entries that are not
// tracks (episodes, removed items) are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlist string, limit int) result.Result {
	if limit <= 0 {
		limit = DefaultPlaylistTracksLimit
	}
	id := playlistID(playlist)

	var page *spotify.PlaylistItemPage
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		page, err = api.GetPlaylistItems(ctx, id, spotify.Limit(limit))
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.Track == nil {
			continue
		}
		track := convertTrack(item.Track.Track)
		track.DurationMs = 0
		track.AddedAt = item.AddedAt
		tracks = append(tracks, track)
	}

	return TrackPage{Tracks: tracks, Total: int(page.Total)}
}

// AddToPlaylist appends tracks to a playlist in a single request. Upstream
// rejects more than 100 tracks per request; that error is reported as is.
func (c *Client) AddToPlaylist(ctx context.Context, playlist string, uris []string) result.Result {
	id := playlistID(playlist)
	ids, err := trackIDs(uris)
	if err != nil {
		return invalidTrack(err)
	}

	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		_, err := api.AddTracksToPlaylist(ctx, id, ids...)
		return err
	}, "Added %d track(s) to playlist", len(ids))
}

// SaveTracks likes tracks. The reported count is the number submitted.
func (c *Client) SaveTracks(ctx context.Context, tracks []string) result.Result {
	ids, err := trackIDs(tracks)
	if err != nil {
		return invalidTrack(err)
	}
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.AddTracksToLibrary(ctx, ids...)
	}, "Saved %d track(s) to your library", len(ids))
}

// RemoveSavedTracks unlikes tracks. The reported count is the number submitted.
func (c *Client) RemoveSavedTracks(ctx context.Context, tracks []string) result.Result {
	ids, err := trackIDs(tracks)
	if err != nil {
		return invalidTrack(err)
	}
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.RemoveTracksFromLibrary(ctx, ids...)
	}, "Removed %d track(s) from your library", len(ids))
}

// SavedTracks lists one page of the user's liked songs.
func (c *Client) SavedTracks(ctx context.Context, limit int) result.Result {
	if limit <= 0 {
		limit = DefaultSavedTracksLimit
	}

	var page *spotify.SavedTrackPage
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		page, err = api.CurrentUsersTracks(ctx, spotify.Limit(limit))
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	tracks := make([]Track, 0, len(page.Tracks))
	for _, saved := range page.Tracks {
		tracks = append(tracks, convertSavedTrack(saved))
	}

	return TrackPage{Tracks: tracks, Total: int(page.Total)}
}
