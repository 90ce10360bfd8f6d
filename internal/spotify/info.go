package spotify

import (
	"context"

	"github.com/zmb3/spotify/v2"

	"github.com/panuhen/spotify-mcp/internal/result"
)

// maxQueueTracks caps how many upcoming tracks get_queue reports.
const maxQueueTracks = 20

// CurrentTrack reports the track loaded on the active device.
func (c *Client) CurrentTrack(ctx context.Context) result.Result {
	var current *spotify.CurrentlyPlaying
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		current, err = api.PlayerCurrentlyPlaying(ctx)
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	if current == nil || current.Item == nil {
		return NowPlaying{Playing: false, Message: "Nothing currently playing"}
	}

	track := convertTrack(current.Item)
	progress := int(current.Progress)
	track.ProgressMs = &progress

	return NowPlaying{Playing: current.Playing, Track: &track}
}

// PlaybackState reports the full player state. An empty response, or one
// without a device, means no active playback.
func (c *Client) PlaybackState(ctx context.Context) result.Result {
	var state *spotify.PlayerState
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		state, err = api.PlayerState(ctx)
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	if state == nil || (state.Device.ID == "" && state.Item == nil) {
		return IdlePlayback{Active: false, Message: "No active playback"}
	}

	repeat := state.RepeatState
	if repeat == "" {
		repeat = "off"
	}

	out := PlaybackState{
		Active:     true,
		IsPlaying:  state.Playing,
		Shuffle:    state.ShuffleState,
		Repeat:     repeat,
		ProgressMs: int(state.Progress),
	}
	if state.Device.ID != "" || state.Device.Name != "" {
		device := convertDevice(state.Device)
		out.Device = &device
	}
	if state.Item != nil {
		track := convertTrack(state.Item)
		out.Track = &track
	}

	return out
}

// Queue reports the first maxQueueTracks upcoming tracks in upstream order.
func (c *Client) Queue(ctx context.Context) result.Result {
	var queue *spotify.Queue
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		queue, err = api.GetQueue(ctx)
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	out := Queue{Queue: []Track{}}
	if queue == nil {
		return out
	}

	items := queue.Items
	if len(items) > maxQueueTracks {
		items = items[:maxQueueTracks]
	}
	for i := range items {
		out.Queue = append(out.Queue, queueTrack(&items[i]))
	}

	if queue.CurrentlyPlaying.URI != "" {
		current := queueTrack(&queue.CurrentlyPlaying)
		out.CurrentlyPlaying = &current
	}

	return out
}

// queueTrack keeps only the identifying fields of a queue entry.
func queueTrack(t *spotify.FullTrack) Track {
	track := convertTrack(t)
	track.DurationMs = 0
	return track
}

// Devices lists the devices available for playback.
func (c *Client) Devices(ctx context.Context) result.Result {
	var devices []spotify.PlayerDevice
	err := c.do(ctx, func(ctx context.Context, api *spotify.Client) (err error) {
		devices, err = api.PlayerDevices(ctx)
		return err
	})
	if err != nil {
		return normalizeError(err)
	}

	out := Devices{Devices: make([]Device, 0, len(devices))}
	for _, d := range devices {
		out.Devices = append(out.Devices, convertDevice(d))
	}
	return out
}
