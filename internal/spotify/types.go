package spotify

import "github.com/panuhen/spotify-mcp/internal/result"

// Track is the track shape shared by every read.
type Track struct {
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album,omitempty"`
	DurationMs int      `json:"duration_ms,omitempty"`
	ProgressMs *int     `json:"progress_ms,omitempty"`
	AddedAt    string   `json:"added_at,omitempty"`
}

// Device is a playback target.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
	Volume   int    `json:"volume"`
}

// Playlist summarizes a playlist without its items.
type Playlist struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	TrackCount int    `json:"track_count"`
}

type Album struct {
	Name    string   `json:"name"`
	URI     string   `json:"uri"`
	Artists []string `json:"artists"`
}

type Artist struct {
	Name   string   `json:"name"`
	URI    string   `json:"uri"`
	Genres []string `json:"genres"`
}

// NowPlaying answers get_current_track. With nothing loaded it carries only
// Playing=false and a message.
type NowPlaying struct {
	result.Data
	Playing bool   `json:"playing"`
	Message string `json:"message,omitempty"`
	Track   *Track `json:"track,omitempty"`
}

// PlaybackState answers get_playback_state when a device is active.
type PlaybackState struct {
	result.Data
	Active     bool    `json:"active"`
	IsPlaying  bool    `json:"is_playing"`
	Shuffle    bool    `json:"shuffle"`
	Repeat     string  `json:"repeat"`
	ProgressMs int     `json:"progress_ms"`
	Device     *Device `json:"device,omitempty"`
	Track      *Track  `json:"track,omitempty"`
}

// IdlePlayback answers get_playback_state when no device is active.
type IdlePlayback struct {
	result.Data
	Active  bool   `json:"active"`
	Message string `json:"message"`
}

type Queue struct {
	result.Data
	Queue            []Track `json:"queue"`
	CurrentlyPlaying *Track  `json:"currently_playing,omitempty"`
}

type Devices struct {
	result.Data
	Devices []Device `json:"devices"`
}

// SearchResults holds one key per searched type; unsearched types are omitted.
type SearchResults struct {
	result.Data
	Tracks    []Track    `json:"tracks,omitzero"`
	Albums    []Album    `json:"albums,omitzero"`
	Artists   []Artist   `json:"artists,omitzero"`
	Playlists []Playlist `json:"playlists,omitzero"`
}

type Playlists struct {
	result.Data
	Playlists []Playlist `json:"playlists"`
	Total     int        `json:"total"`
}

// TrackPage is one upstream page of tracks. Total is the upstream count and
// may exceed len(Tracks).
type TrackPage struct {
	result.Data
	Tracks []Track `json:"tracks"`
	Total  int     `json:"total"`
}
