// Package config loads spotify-mcp settings from TOML, .env files and the environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	appDirName     = "spotify-mcp"
	configFileName = "config.toml"
	homeEnvFile    = ".spotify-mcp.env"
)

// Favorites backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Server transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Spotify   SpotifyConfig   `toml:"spotify"`
	Upstream  UpstreamConfig  `toml:"upstream"`
	Favorites FavoritesConfig `toml:"favorites"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// SpotifyConfig contains the OAuth client settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
	TokenPath   string `toml:"token_path"`
}

// UpstreamConfig shapes traffic to the Spotify Web API.
type UpstreamConfig struct {
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Timeout           time.Duration `toml:"timeout"`
}

// FavoritesConfig selects and locates the favorites repository.
type FavoritesConfig struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	DatabaseURL string `toml:"database_url"`
	ExposeTools bool   `toml:"expose_tools"`
}

type ServerConfig struct {
	Transport string `toml:"transport"`
	Addr      string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultPath returns ~/.config/spotify-mcp/config.toml (or the platform
// equivalent of the user config directory).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Load builds the effective configuration: embedded defaults, then the TOML
// file at path, then environment overrides. An empty path means DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	_, err := toml.DecodeFile(path, config)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	config.applyEnv()
	config.expandPaths()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnvFiles loads ./.env and then ~/.spotify-mcp.env. Variables already
// set in the environment win, and missing files are skipped.
func LoadEnvFiles() error {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, homeEnvFile))
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overlays environment variables. The SPOTIPY_ names are accepted
// for compatibility with existing setups.
func (c *Config) applyEnv() {
	if v := firstEnv("SPOTIFY_CLIENT_ID", "SPOTIPY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := firstEnv("SPOTIFY_REDIRECT_URI", "SPOTIPY_REDIRECT_URI"); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_MCP_FAVORITES"); v != "" {
		c.Favorites.Path = v
	}
	if v := os.Getenv("SPOTIFY_MCP_DATABASE_URL"); v != "" {
		c.Favorites.DatabaseURL = v
	}
	if v := os.Getenv("SPOTIFY_MCP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) expandPaths() {
	c.Spotify.TokenPath = ExpandHome(c.Spotify.TokenPath)
	c.Favorites.Path = ExpandHome(c.Favorites.Path)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate checks enumerated settings and backend requirements.
func (c *Config) Validate() error {
	backends := []string{BackendFile, BackendSQLite, BackendPostgres}
	if !slices.Contains(backends, c.Favorites.Backend) {
		return fmt.Errorf("%w: favorites.backend %q must be one of %s", ErrInvalidConfig, c.Favorites.Backend, strings.Join(backends, ", "))
	}
	if c.Favorites.Backend == BackendPostgres && c.Favorites.DatabaseURL == "" {
		return fmt.Errorf("%w: favorites.database_url is required for the postgres backend", ErrInvalidConfig)
	}
	if c.Favorites.Backend != BackendPostgres && c.Favorites.Path == "" {
		return fmt.Errorf("%w: favorites.path is required for the %s backend", ErrInvalidConfig, c.Favorites.Backend)
	}

	transports := []string{TransportStdio, TransportHTTP}
	if !slices.Contains(transports, c.Server.Transport) {
		return fmt.Errorf("%w: server.transport %q must be stdio or http", ErrInvalidConfig, c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required for the http transport", ErrInvalidConfig)
	}

	if c.Upstream.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: upstream.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("%w: upstream.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile writes the embedded example config to path.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
