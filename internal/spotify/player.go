package spotify

import (
	"context"
	"slices"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

// RepeatStates are the accepted repeat modes.
var RepeatStates = []string{"off", "track", "context"}

const (
	minVolume = 0
	maxVolume = 100
)

// PlayRequest selects what play starts. URI wins over ContextURI; with
// neither, playback resumes.
type PlayRequest struct {
	URI        string
	ContextURI string
	DeviceID   string
	// Offset is the zero-based position inside ContextURI.
	Offset     *int
	PositionMs int
}

// setNumber assigns v to a numeric request field of the client library.
func setNumber[T ~int | ~int64 | ~float64](dst *T, v int) {
	*dst = T(v)
}

func setNumberPtr[T ~int | ~int64 | ~float64](dst **T, v int) {
	n := T(v)
	*dst = &n
}

func playOptions(deviceID string) *spotify.PlayOptions {
	opts := &spotify.PlayOptions{}
	if deviceID != "" {
		id := spotify.ID(deviceID)
		opts.DeviceID = &id
	}
	return opts
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context, req PlayRequest) result.Result {
	opts := playOptions(req.DeviceID)
	switch {
	case req.URI != "":
		opts.URIs = []spotify.URI{spotify.URI(req.URI)}
	case req.ContextURI != "":
		uri := spotify.URI(req.ContextURI)
		opts.PlaybackContext = &uri
		if req.Offset != nil {
			offset := &spotify.PlaybackOffset{}
			setNumberPtr(&offset.Position, *req.Offset)
			opts.PlaybackOffset = offset
		}
	}
	if req.PositionMs > 0 {
		setNumber(&opts.PositionMs, req.PositionMs)
	}

	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.PlayOpt(ctx, opts)
	}, "Playback started")
}

func (c *Client) Pause(ctx context.Context, deviceID string) result.Result {
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.PauseOpt(ctx, playOptions(deviceID))
	}, "Playback paused")
}

func (c *Client) Next(ctx context.Context, deviceID string) result.Result {
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.NextOpt(ctx, playOptions(deviceID))
	}, "Skipped to next track")
}

func (c *Client) Previous(ctx context.Context, deviceID string) result.Result {
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.PreviousOpt(ctx, playOptions(deviceID))
	}, "Went to previous track")
}

// Seek moves the playhead of the current track.
func (c *Client) Seek(ctx context.Context, positionMs int, deviceID string) result.Result {
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.SeekOpt(ctx, positionMs, playOptions(deviceID))
	}, "Seeked to %dms", positionMs)
}

// SetVolume clamps volume to 0..100 before sending it.
func (c *Client) SetVolume(ctx context.Context, volume int, deviceID string) result.Result {
	volume = min(max(volume, minVolume), maxVolume)
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.VolumeOpt(ctx, volume, playOptions(deviceID))
	}, "Volume set to %d%%", volume)
}

func (c *Client) Shuffle(ctx context.Context, state bool, deviceID string) result.Result {
	label := "off"
	if state {
		label = "on"
	}
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.ShuffleOpt(ctx, state, playOptions(deviceID))
	}, "Shuffle %s", label)
}

// Repeat sets the repeat mode. Unknown modes are rejected without an
// upstream call.
func (c *Client) Repeat(ctx context.Context, state, deviceID string) result.Result {
	if !slices.Contains(RepeatStates, state) {
		return result.Errorf("State must be 'off', 'track', or 'context'")
	}
	return c.mutate(ctx, func(ctx context.Context, api *spotify.Client) error {
		return api.RepeatOpt(ctx, state, playOptions(deviceID))
	}, "Repeat mode set to %s", state)
}

