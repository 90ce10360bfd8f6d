package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panuhen/spotify-mcp/internal/config"
	"github.com/panuhen/spotify-mcp/internal/logging"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Spotify.ClientID = "test-client"
	cfg.Spotify.TokenPath = filepath.Join(dir, "token.json")
	cfg.Favorites.Path = filepath.Join(dir, "favorites.json")

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config: cfg,
		Logger: logging.Discard(),
		Output: output,
	}), output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return r.Command().Run(context.Background(), append([]string{"spotify-mcp"}, args...))
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil output uses stdout", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		if r.output != os.Stdout {
			t.Error("expected output to default to stdout")
		}
	})

	t.Run("keeps provided config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		r := NewRunner(RunnerOpts{Config: cfg})
		if r.config != cfg {
			t.Error("expected config to be set")
		}
	})
}

func TestRunner_Commands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "tools", args: []string{"tools"}, want: []string{"20 tools", "set_volume"}},
		{name: "tools json", args: []string{"tools", "--json"}, want: []string{`"name": "play"`, `"inputSchema"`}},
		{name: "unknown tool", args: []string{"call", "nope"}, want: []string{"Unknown tool: nope"}},
		{name: "invalid arguments", args: []string{"call", "--args", `"loud"`, "set_volume"}, want: []string{"Invalid arguments for set_volume"}},
		{name: "empty favorites", args: []string{"favorites", "list"}, want: []string{"No favorites saved yet"}},
		{name: "random from empty", args: []string{"favorites", "random"}, want: []string{"No favorites saved yet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, output := newTestRunner(t)
			if err := run(t, r, tt.args...); err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(output.String(), want) {
					t.Errorf("output missing %q:\n%s", want, output.String())
				}
			}
		})
	}
}

func TestRunner_FavoriteToolsExposed(t *testing.T) {
	r, output := newTestRunner(t)
	r.config.Favorites.ExposeTools = true

	if err := run(t, r, "tools"); err != nil {
		t.Fatalf("tools error = %v", err)
	}
	if !strings.Contains(output.String(), "25 tools") || !strings.Contains(output.String(), "add_favorite") {
		t.Errorf("favorite tools not listed:\n%s", output.String())
	}
}

func TestRunner_ToolsNeedsNoCredentials(t *testing.T) {
	r, output := newTestRunner(t)
	r.config.Spotify.ClientID = ""
	r.config.Favorites.Backend = config.BackendPostgres
	r.config.Favorites.DatabaseURL = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	if err := run(t, r, "tools"); err != nil {
		t.Fatalf("tools error = %v, want catalog printed without client ID or database", err)
	}
	if !strings.Contains(output.String(), "20 tools") {
		t.Errorf("output = %q", output.String())
	}
}

func TestRunner_Favorites(t *testing.T) {
	r, output := newTestRunner(t)

	steps := []struct {
		args []string
		want string
	}{
		{args: []string{"favorites", "add", "--uri", "spotify:track:1", "--name", "Hyperballad", "--artist", "Björk", "--album", "Post"}, want: "Added 'Hyperballad' to favorites"},
		{args: []string{"favorites", "add", "--uri", "spotify:track:1", "--name", "Hyperballad"}, want: "Track already in favorites"},
		{args: []string{"favorites", "list"}, want: "by Björk (Post)"},
		{args: []string{"favorites", "random"}, want: "spotify:track:1"},
		{args: []string{"favorites", "remove", "spotify:track:1"}, want: "Removed from favorites"},
		{args: []string{"favorites", "remove", "spotify:track:1"}, want: "Track not found in favorites"},
		{args: []string{"favorites", "add", "--uri", "spotify:track:2"}, want: "Added 'spotify:track:2' to favorites"},
		{args: []string{"favorites", "clear"}, want: "Cleared all favorites"},
	}

	for _, step := range steps {
		output.Reset()
		if err := run(t, r, step.args...); err != nil {
			t.Fatalf("run(%v) error = %v", step.args, err)
		}
		if !strings.Contains(output.String(), step.want) {
			t.Errorf("run(%v) output missing %q:\n%s", step.args, step.want, output.String())
		}
	}

	if _, err := os.Stat(r.config.Favorites.Path); err != nil {
		t.Errorf("favorites file not written: %v", err)
	}
}

func TestRunner_MissingArguments(t *testing.T) {
	tests := [][]string{
		{"call"},
		{"favorites", "remove"},
	}

	for _, args := range tests {
		r, _ := newTestRunner(t)
		if err := run(t, r, args...); !errors.Is(err, ErrMissingArgument) {
			t.Errorf("run(%v) error = %v, want ErrMissingArgument", args, err)
		}
	}
}

func TestRunner_Logout(t *testing.T) {
	r, output := newTestRunner(t)
	if err := os.WriteFile(r.config.Spotify.TokenPath, []byte(`{"access_token":"x"}`), 0600); err != nil {
		t.Fatal(err)
	}

	if err := run(t, r, "logout"); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if _, err := os.Stat(r.config.Spotify.TokenPath); !os.IsNotExist(err) {
		t.Errorf("token file still present: %v", err)
	}
	if !strings.Contains(output.String(), "Removed cached token") {
		t.Errorf("output = %q", output.String())
	}

	// A second logout is a no-op.
	if err := run(t, r, "logout"); err != nil {
		t.Errorf("second logout error = %v", err)
	}
}

func TestRunner_Init(t *testing.T) {
	r, _ := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := run(t, r, "init", path); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if err := run(t, r, "init", path); err == nil {
		t.Error("second init succeeded, want already-exists error")
	}
}

func TestRunner_ServeUnknownTransport(t *testing.T) {
	r, _ := newTestRunner(t)
	err := run(t, r, "serve", "--transport", "carrier-pigeon")
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("serve error = %v, want ErrInvalidConfig", err)
	}
}
