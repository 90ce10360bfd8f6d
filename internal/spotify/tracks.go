package spotify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

const (
	trackURIPrefix    = "spotify:track:"
	playlistURIPrefix = "spotify:playlist:"
	playlistURLMarker = "open.spotify.com/playlist/"
)

// convertTrack converts a Spotify FullTrack to a Track.
func convertTrack(t *spotify.FullTrack) Track {
	return Track{
		Name:       t.Name,
		URI:        string(t.URI),
		Artists:    artistNames(t.Artists),
		Album:      t.Album.Name,
		DurationMs: int(t.Duration),
	}
}

// convertSavedTrack converts a library entry, keeping when it was saved.
func convertSavedTrack(saved spotify.SavedTrack) Track {
	track := convertTrack(&saved.FullTrack)
	track.DurationMs = 0
	track.AddedAt = saved.AddedAt
	return track
}

func convertPlaylist(p spotify.SimplePlaylist) Playlist {
	return Playlist{
		ID:         string(p.ID),
		URI:        string(p.URI),
		Name:       p.Name,
		Owner:      p.Owner.DisplayName,
		TrackCount: int(p.Tracks.Total),
	}
}

func convertDevice(d spotify.PlayerDevice) Device {
	return Device{
		ID:       string(d.ID),
		Name:     d.Name,
		Type:     d.Type,
		IsActive: d.Active,
		Volume:   int(d.Volume),
	}
}

func artistNames(artists []spotify.SimpleArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

// ErrNotTrack is returned for URIs naming anything other than a track.
var ErrNotTrack = errors.New("only track URIs or IDs are supported")

// trackID accepts a track URI or a bare ID and returns the bare ID. Other
// URIs (episodes, albums, links) are rejected.
func trackID(s string) (spotify.ID, error) {
	s = strings.TrimSpace(s)
	id := strings.TrimPrefix(s, trackURIPrefix)
	if strings.ContainsAny(id, ":/") {
		return "", fmt.Errorf("%w: %s", ErrNotTrack, s)
	}
	return spotify.ID(id), nil
}

func trackIDs(in []string) ([]spotify.ID, error) {
	ids := make([]spotify.ID, len(in))
	for i, s := range in {
		id, err := trackID(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// invalidTrack reports a rejected track reference without contacting upstream.
func invalidTrack(err error) result.Failure {
	return result.Errorf("Invalid track: %v", err)
}

// playlistID accepts a playlist ID, URI or open.spotify.com link.
func playlistID(s string) spotify.ID {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, playlistURLMarker); i >= 0 {
		s = s[i+len(playlistURLMarker):]
		if j := strings.IndexAny(s, "?/#"); j >= 0 {
			s = s[:j]
		}
		return spotify.ID(s)
	}
	return spotify.ID(strings.TrimPrefix(s, playlistURIPrefix))
}
