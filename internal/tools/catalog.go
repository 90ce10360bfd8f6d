// Package tools defines the MCP tool catalog and dispatches calls to the
// Spotify adapter and the favorites store.
package tools

import (
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/panuhen/spotify-mcp/internal/spotify"
)

// Tool describes one callable tool. The same schema is advertised to
// clients and used to validate their arguments.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	if props == nil {
		props = map[string]*jsonschema.Schema{}
	}
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func str(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func boolean(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: description}
}

func integer(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description}
}

func bounded(description string, lo, hi float64) *jsonschema.Schema {
	s := integer(description)
	s.Minimum = &lo
	s.Maximum = &hi
	return s
}

func enum(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func array(description string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: description, Items: items}
}

func deviceOnly() *jsonschema.Schema {
	return object(nil, map[string]*jsonschema.Schema{"device_id": deviceID()})
}

func deviceID() *jsonschema.Schema {
	return str("Target device ID (optional)")
}

// Catalog returns the Spotify tools in advertised order.
func Catalog() []Tool {
	return []Tool{
		{
			Name: "play",
			Description: "Resume playback or play a specific track/album/playlist. " +
				"Provide a Spotify URI to play specific content, or call without arguments to resume.",
			InputSchema: object(nil, map[string]*jsonschema.Schema{
				"uri":         str("Spotify URI of track to play (e.g., spotify:track:xxx)"),
				"context_uri": str("Spotify URI of album/playlist to play (e.g., spotify:album:xxx)"),
				"offset":      bounded("Zero-based track position inside context_uri to start from", 0, 10000),
				"position_ms": bounded("Position in milliseconds to start from", 0, 86400000),
				"device_id":   deviceID(),
			}),
		},
		{Name: "pause", Description: "Pause Spotify playback.", InputSchema: deviceOnly()},
		{Name: "next", Description: "Skip to the next track.", InputSchema: deviceOnly()},
		{Name: "previous", Description: "Go to the previous track.", InputSchema: deviceOnly()},
		{
			Name:        "seek",
			Description: "Seek to a position in the current track.",
			InputSchema: object([]string{"position_ms"}, map[string]*jsonschema.Schema{
				"position_ms": integer("Position in milliseconds"),
				"device_id":   deviceID(),
			}),
		},
		{
			Name:        "set_volume",
			Description: "Set the playback volume (0-100).",
			InputSchema: object([]string{"volume"}, map[string]*jsonschema.Schema{
				"volume":    bounded("Volume level (0-100)", 0, 100),
				"device_id": deviceID(),
			}),
		},
		{
			Name:        "shuffle",
			Description: "Toggle shuffle mode on or off.",
			InputSchema: object([]string{"state"}, map[string]*jsonschema.Schema{
				"state":     boolean("True to enable shuffle, false to disable"),
				"device_id": deviceID(),
			}),
		},
		{
			Name:        "repeat",
			Description: "Set repeat mode.",
			InputSchema: object([]string{"state"}, map[string]*jsonschema.Schema{
				"state": {
					Type:        "string",
					Enum:        enum(spotify.RepeatStates),
					Description: "Repeat mode: 'off', 'track' (repeat one), or 'context' (repeat all)",
				},
				"device_id": deviceID(),
			}),
		},
		{Name: "get_current_track", Description: "Get information about the currently playing track.", InputSchema: object(nil, nil)},
		{Name: "get_playback_state", Description: "Get the full playback state including device, progress, shuffle, and repeat settings.", InputSchema: object(nil, nil)},
		{Name: "get_queue", Description: "Get the upcoming tracks in the playback queue.", InputSchema: object(nil, nil)},
		{Name: "get_devices", Description: "List available Spotify devices for playback.", InputSchema: object(nil, nil)},
		{
			Name:        "search",
			Description: "Search Spotify for tracks, albums, artists, or playlists.",
			InputSchema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": str("Search query"),
				// Unrecognized types are dropped by the adapter rather than rejected.
				"types": array("Types to search for: "+strings.Join(spotify.SearchTypes, ", ")+" (default: ['track'])",
					&jsonschema.Schema{Type: "string"}),
				"limit": bounded("Max results per type (default: 10)", 1, 50),
			}),
		},
		{
			Name:        "add_to_queue",
			Description: "Add a track to the playback queue.",
			InputSchema: object([]string{"uri"}, map[string]*jsonschema.Schema{
				"uri":       str("Spotify track URI or ID to add (spotify:track:...); other URI types are rejected"),
				"device_id": deviceID(),
			}),
		},
		{
			Name:        "get_playlists",
			Description: "List the user's playlists.",
			InputSchema: object(nil, map[string]*jsonschema.Schema{
				"limit": bounded("Max playlists to return (default: 50)", 1, 50),
			}),
		},
		{
			Name:        "get_playlist_tracks",
			Description: "Get tracks from a specific playlist.",
			InputSchema: object([]string{"playlist_id"}, map[string]*jsonschema.Schema{
				"playlist_id": str("Playlist ID or URI"),
				"limit":       bounded("Max tracks to return (default: 100)", 1, 100),
			}),
		},
		{
			Name:        "add_to_playlist",
			Description: "Add one or more tracks to a playlist in a single request (at most 100).",
			InputSchema: object([]string{"playlist_id", "uris"}, map[string]*jsonschema.Schema{
				"playlist_id": str("Playlist ID or URI"),
				"uris":        array("List of Spotify track URIs or IDs to add; other URI types are rejected", &jsonschema.Schema{Type: "string"}),
			}),
		},
		{
			Name:        "save_tracks",
			Description: "Save tracks to user's library (like/heart). Use this to add tracks to Liked Songs.",
			InputSchema: object([]string{"track_ids"}, map[string]*jsonschema.Schema{
				"track_ids": array("List of Spotify track URIs or IDs to save", &jsonschema.Schema{Type: "string"}),
			}),
		},
		{
			Name:        "remove_saved_tracks",
			Description: "Remove tracks from user's library (unlike/unheart).",
			InputSchema: object([]string{"track_ids"}, map[string]*jsonschema.Schema{
				"track_ids": array("List of Spotify track URIs or IDs to remove", &jsonschema.Schema{Type: "string"}),
			}),
		},
		{
			Name:        "get_saved_tracks",
			Description: "Get user's saved/liked tracks from their library.",
			InputSchema: object(nil, map[string]*jsonschema.Schema{
				"limit": bounded("Max tracks to return (default: 20)", 1, 50),
			}),
		},
	}
}

// FavoriteTools returns the local favorites tools. They are only advertised
// when enabled in the configuration.
func FavoriteTools() []Tool {
	return []Tool{
		{
			Name:        "add_favorite",
			Description: "Add a track to your local favorites list.",
			InputSchema: object([]string{"uri", "name"}, map[string]*jsonschema.Schema{
				"uri":     str("Spotify URI of the track"),
				"name":    str("Track name"),
				"artists": array("Artist names", &jsonschema.Schema{Type: "string"}),
				"album":   str("Album name"),
			}),
		},
		{
			Name:        "remove_favorite",
			Description: "Remove a track from your local favorites list.",
			InputSchema: object([]string{"uri"}, map[string]*jsonschema.Schema{
				"uri": str("Spotify URI of the track to remove"),
			}),
		},
		{Name: "list_favorites", Description: "List all tracks in your local favorites.", InputSchema: object(nil, nil)},
		{Name: "random_favorite", Description: "Pick a random track from your local favorites.", InputSchema: object(nil, nil)},
		{Name: "clear_favorites", Description: "Remove every track from your local favorites.", InputSchema: object(nil, nil)},
	}
}
