package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/panuhen/spotify-mcp/internal/favorites"
	"github.com/panuhen/spotify-mcp/internal/logging"
	"github.com/panuhen/spotify-mcp/internal/result"
	"github.com/panuhen/spotify-mcp/internal/spotify"
)

// fakePlayer records each call as "method(args)" and answers with a Message.
type fakePlayer struct {
	mu    sync.Mutex
	calls []string
	panic bool
}

func (f *fakePlayer) record(format string, args ...any) result.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.panic {
		panic("boom")
	}
	return result.OK("%s", call)
}

func (f *fakePlayer) Play(_ context.Context, r spotify.PlayRequest) result.Result {
	offset := -1
	if r.Offset != nil {
		offset = *r.Offset
	}
	return f.record("Play(%s,%s,%s,%d,%d)", r.URI, r.ContextURI, r.DeviceID, offset, r.PositionMs)
}
func (f *fakePlayer) Pause(_ context.Context, d string) result.Result    { return f.record("Pause(%s)", d) }
func (f *fakePlayer) Next(_ context.Context, d string) result.Result     { return f.record("Next(%s)", d) }
func (f *fakePlayer) Previous(_ context.Context, d string) result.Result { return f.record("Previous(%s)", d) }
func (f *fakePlayer) Seek(_ context.Context, p int, d string) result.Result {
	return f.record("Seek(%d,%s)", p, d)
}
func (f *fakePlayer) SetVolume(_ context.Context, v int, d string) result.Result {
	return f.record("SetVolume(%d,%s)", v, d)
}
func (f *fakePlayer) Shuffle(_ context.Context, s bool, d string) result.Result {
	return f.record("Shuffle(%v,%s)", s, d)
}
func (f *fakePlayer) Repeat(_ context.Context, s, d string) result.Result {
	return f.record("Repeat(%s,%s)", s, d)
}
func (f *fakePlayer) CurrentTrack(context.Context) result.Result  { return f.record("CurrentTrack()") }
func (f *fakePlayer) PlaybackState(context.Context) result.Result { return f.record("PlaybackState()") }
func (f *fakePlayer) Queue(context.Context) result.Result         { return f.record("Queue()") }
func (f *fakePlayer) Devices(context.Context) result.Result       { return f.record("Devices()") }
func (f *fakePlayer) Search(_ context.Context, q string, types []string, limit int) result.Result {
	return f.record("Search(%s,%v,%d)", q, types, limit)
}
func (f *fakePlayer) AddToQueue(_ context.Context, uri, d string) result.Result {
	return f.record("AddToQueue(%s,%s)", uri, d)
}
func (f *fakePlayer) Playlists(_ context.Context, limit int) result.Result {
	return f.record("Playlists(%d)", limit)
}
func (f *fakePlayer) PlaylistTracks(_ context.Context, id string, limit int) result.Result {
	return f.record("PlaylistTracks(%s,%d)", id, limit)
}
func (f *fakePlayer) AddToPlaylist(_ context.Context, id string, uris []string) result.Result {
	return f.record("AddToPlaylist(%s,%v)", id, uris)
}
func (f *fakePlayer) SaveTracks(_ context.Context, ids []string) result.Result {
	return f.record("SaveTracks(%v)", ids)
}
func (f *fakePlayer) RemoveSavedTracks(_ context.Context, ids []string) result.Result {
	return f.record("RemoveSavedTracks(%v)", ids)
}
func (f *fakePlayer) SavedTracks(_ context.Context, limit int) result.Result {
	return f.record("SavedTracks(%d)", limit)
}

type memoryFavorites struct {
	list []favorites.Favorite
}

func (m *memoryFavorites) Load(context.Context) ([]favorites.Favorite, error) {
	return append([]favorites.Favorite{}, m.list...), nil
}

func (m *memoryFavorites) Save(_ context.Context, list []favorites.Favorite) error {
	m.list = append([]favorites.Favorite{}, list...)
	return nil
}

func (m *memoryFavorites) Close() error { return nil }

func newTestDispatcher(t *testing.T, catalog []Tool) (*Dispatcher, *fakePlayer) {
	t.Helper()
	player := &fakePlayer{}
	store := favorites.NewStore(&memoryFavorites{})
	d, err := NewDispatcher(catalog, Handlers(player, store), logging.Discard())
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d, player
}

func (f *fakePlayer) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestCatalog(t *testing.T) {
	want := []string{
		"play", "pause", "next", "previous", "seek", "set_volume", "shuffle", "repeat",
		"get_current_track", "get_playback_state", "get_queue", "get_devices",
		"search", "add_to_queue", "get_playlists", "get_playlist_tracks", "add_to_playlist",
		"save_tracks", "remove_saved_tracks", "get_saved_tracks",
	}

	catalog := Catalog()
	names := make([]string, len(catalog))
	for i, tool := range catalog {
		names[i] = tool.Name
		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
		if tool.InputSchema == nil || tool.InputSchema.Type != "object" {
			t.Errorf("%s input schema is not an object", tool.Name)
		}
		if _, err := tool.InputSchema.Resolve(nil); err != nil {
			t.Errorf("%s schema does not resolve: %v", tool.Name, err)
		}
	}

	if !slices.Equal(names, want) {
		t.Errorf("Catalog() names = %v, want %v", names, want)
	}
}

func TestCatalog_Bounds(t *testing.T) {
	tests := []struct {
		tool, prop string
		lo, hi     float64
	}{
		{"set_volume", "volume", 0, 100},
		{"search", "limit", 1, 50},
		{"get_playlist_tracks", "limit", 1, 100},
		{"get_saved_tracks", "limit", 1, 50},
		{"get_playlists", "limit", 1, 50},
	}

	byName := map[string]Tool{}
	for _, tool := range Catalog() {
		byName[tool.Name] = tool
	}

	for _, tt := range tests {
		prop := byName[tt.tool].InputSchema.Properties[tt.prop]
		if prop == nil || prop.Minimum == nil || prop.Maximum == nil {
			t.Errorf("%s.%s has no bounds", tt.tool, tt.prop)
			continue
		}
		if *prop.Minimum != tt.lo || *prop.Maximum != tt.hi {
			t.Errorf("%s.%s bounds = [%v, %v], want [%v, %v]", tt.tool, tt.prop, *prop.Minimum, *prop.Maximum, tt.lo, tt.hi)
		}
	}
}

func TestHandlers_CoverCatalog(t *testing.T) {
	handlers := Handlers(&fakePlayer{}, favorites.NewStore(&memoryFavorites{}))
	for _, tool := range append(Catalog(), FavoriteTools()...) {
		if handlers[tool.Name] == nil {
			t.Errorf("no handler for %s", tool.Name)
		}
	}
}

func TestNewDispatcher_MissingHandler(t *testing.T) {
	_, err := NewDispatcher(Catalog(), map[string]Handler{}, logging.Discard())
	if err == nil {
		t.Fatal("NewDispatcher() error = nil, want missing handler")
	}
}

func TestCall_UnknownTool(t *testing.T) {
	d, player := newTestDispatcher(t, Catalog())

	got := d.Call(context.Background(), "explode", nil)

	if want := result.Errorf("Unknown tool: explode"); got != want {
		t.Errorf("Call() = %+v, want %+v", got, want)
	}
	if calls := player.all(); len(calls) != 0 {
		t.Errorf("player called %v, want no calls", calls)
	}
}

func TestCall_FavoriteToolsHiddenByDefault(t *testing.T) {
	d, _ := newTestDispatcher(t, Catalog())

	got := d.Call(context.Background(), "list_favorites", nil)

	if want := result.Errorf("Unknown tool: list_favorites"); got != want {
		t.Errorf("Call() = %+v, want %+v", got, want)
	}
}

func TestCall(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     string
		wantCall string
	}{
		{"resume", "play", ``, "Play(,,,-1,0)"},
		{"play context", "play", `{"context_uri":"spotify:album:x","offset":2,"device_id":"d"}`, "Play(,spotify:album:x,d,2,0)"},
		{"pause null args", "pause", `null`, "Pause()"},
		{"volume clamped high", "set_volume", `{"volume":150}`, "SetVolume(100,)"},
		{"volume clamped low", "set_volume", `{"volume":-10}`, "SetVolume(0,)"},
		{"seek", "seek", `{"position_ms":30000}`, "Seek(30000,)"},
		{"shuffle", "shuffle", `{"state":true,"device_id":"abc"}`, "Shuffle(true,abc)"},
		{"repeat", "repeat", `{"state":"context"}`, "Repeat(context,)"},
		{"search defaults", "search", `{"query":"miles"}`, "Search(miles,[],0)"},
		{"search limit clamped", "search", `{"query":"miles","types":["album"],"limit":500}`, "Search(miles,[album],50)"},
		{"search passes unknown types through", "search", `{"query":"test","types":["track","bogus"]}`, "Search(test,[track bogus],0)"},
		{"queue", "get_queue", `{}`, "Queue()"},
		{"playlist tracks", "get_playlist_tracks", `{"playlist_id":"p1","limit":0}`, "PlaylistTracks(p1,1)"},
		{"save", "save_tracks", `{"track_ids":["spotify:track:a","b"]}`, "SaveTracks([spotify:track:a b])"},
		{"add to playlist", "add_to_playlist", `{"playlist_id":"p","uris":["u"]}`, "AddToPlaylist(p,[u])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, player := newTestDispatcher(t, Catalog())

			got := d.Call(context.Background(), tt.tool, json.RawMessage(tt.args))

			if result.IsFailure(got) {
				t.Fatalf("Call() = %+v, want success", got)
			}
			calls := player.all()
			if len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("player calls = %v, want [%s]", calls, tt.wantCall)
			}
		})
	}
}

func TestCall_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
	}{
		{"repeat outside enum", "repeat", `{"state":"loud"}`},
		{"missing required", "seek", `{}`},
		{"wrong type", "set_volume", `{"volume":"loud"}`},
		{"fractional integer", "set_volume", `{"volume":42.5}`},
		{"not an object", "pause", `[1,2]`},
		{"malformed", "pause", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, player := newTestDispatcher(t, Catalog())

			got := d.Call(context.Background(), tt.tool, json.RawMessage(tt.args))

			failure, ok := got.(result.Failure)
			if !ok {
				t.Fatalf("Call() = %+v, want failure", got)
			}
			if prefix := "Invalid arguments for " + tt.tool + ": "; !strings.HasPrefix(failure.Error, prefix) {
				t.Errorf("Error = %q, want prefix %q", failure.Error, prefix)
			}
			if calls := player.all(); len(calls) != 0 {
				t.Errorf("player called %v, want no upstream call", calls)
			}
		})
	}
}

func TestCall_RecoversPanic(t *testing.T) {
	d, player := newTestDispatcher(t, Catalog())
	player.panic = true

	got := d.Call(context.Background(), "pause", nil)

	if want := result.Errorf("boom"); got != want {
		t.Errorf("Call() = %+v, want %+v", got, want)
	}
}

func TestCall_Favorites(t *testing.T) {
	d, _ := newTestDispatcher(t, append(Catalog(), FavoriteTools()...))
	ctx := context.Background()

	add := json.RawMessage(`{"uri":"spotify:track:a","name":"Song A","artists":["X"],"album":"Y"}`)
	if got, want := d.Call(ctx, "add_favorite", add), result.OK("Added 'Song A' to favorites"); got != want {
		t.Errorf("add_favorite = %+v, want %+v", got, want)
	}
	if got, want := d.Call(ctx, "add_favorite", add), result.Refused("Track already in favorites"); got != want {
		t.Errorf("add_favorite duplicate = %+v, want %+v", got, want)
	}

	list, ok := d.Call(ctx, "list_favorites", nil).(favorites.List)
	if !ok || list.Total != 1 {
		t.Errorf("list_favorites = %+v, want one favorite", list)
	}

	if got, want := d.Call(ctx, "remove_favorite", json.RawMessage(`{"uri":"spotify:track:zzz"}`)), result.Refused("Track not found in favorites"); got != want {
		t.Errorf("remove_favorite missing = %+v, want %+v", got, want)
	}
	if got, want := d.Call(ctx, "clear_favorites", nil), result.OK("Cleared all favorites"); got != want {
		t.Errorf("clear_favorites = %+v, want %+v", got, want)
	}
	if got, want := d.Call(ctx, "random_favorite", nil), result.Errorf("No favorites saved yet"); got != want {
		t.Errorf("random_favorite empty = %+v, want %+v", got, want)
	}
}

func TestCallText(t *testing.T) {
	d, _ := newTestDispatcher(t, Catalog())

	text := d.CallText(context.Background(), "nope", nil)

	want := "{\n  \"error\": \"Unknown tool: nope\"\n}"
	if text != want {
		t.Errorf("CallText() = %q, want %q", text, want)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   result.Result
		want string
	}{
		{"message", result.OK("Playback paused"), "{\n  \"success\": true,\n  \"message\": \"Playback paused\"\n}"},
		{"failure with status", result.Failure{Error: "Resource not found.", Status: 404, Details: "Not found."},
			"{\n  \"error\": \"Resource not found.\",\n  \"status\": 404,\n  \"details\": \"Not found.\"\n}"},
		{"empty queue", spotify.Queue{Queue: []spotify.Track{}}, "{\n  \"queue\": []\n}"},
		{"nothing playing", spotify.NowPlaying{Message: "Nothing currently playing"},
			"{\n  \"playing\": false,\n  \"message\": \"Nothing currently playing\"\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
