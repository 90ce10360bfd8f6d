package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	// DefaultRedirectURI uses explicit IPv4 loopback as required by Spotify for local development.
	// See: https://developer.spotify.com/documentation/web-api/concepts/redirect-uri
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
	callbackTimeout    = 2 * time.Minute
)

var (
	// ErrMissingClientID is returned when no Spotify client ID is configured.
	ErrMissingClientID = errors.New("missing Spotify client ID (set SPOTIFY_CLIENT_ID or spotify.client_id)")

	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Scopes covers every tool in the catalog: playback control and state,
// playlist reads and writes, and the saved-tracks library.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopeUserLibraryModify,
}

// Config configures an Authenticator.
type Config struct {
	ClientID    string
	RedirectURI string
	// TokenPath overrides DefaultTokenPath.
	TokenPath string
	// HTTPClient carries API and token-refresh requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// OpenBrowser launches the system browser on the authorization URL.
	OpenBrowser bool
	Logger      *log.Logger
}

// Authenticator handles Spotify OAuth2 authentication using PKCE, so no
// client secret is needed.
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	cache       *TokenCache
	redirect    *url.URL
	httpClient  *http.Client
	openBrowser bool
	logger      *log.Logger
}

// New creates an Authenticator from cfg.
// Returns ErrMissingClientID if no client ID is set.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}

	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URI: %w", err)
	}
	if redirect.Host == "" {
		return nil, fmt.Errorf("redirect URI %q has no host", cfg.RedirectURI)
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath, err = DefaultTokenPath()
		if err != nil {
			return nil, fmt.Errorf("creating token cache: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)

	return &Authenticator{
		auth:        auth,
		cache:       NewTokenCache(tokenPath),
		redirect:    redirect,
		httpClient:  cfg.HTTPClient,
		openBrowser: cfg.OpenBrowser,
		logger:      logger,
	}, nil
}

// Cache returns the token cache backing this Authenticator.
func (a *Authenticator) Cache() *TokenCache {
	return a.cache
}

// Authenticate returns an authenticated Spotify client.
// It first checks for a cached token and uses it if valid/refreshable.
// Otherwise, it runs the full OAuth flow.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		// An unreadable cache is treated like a missing one.
		a.logger.Warn("ignoring unreadable token cache", "path", a.cache.Path(), "err", err)
		token = nil
	}

	if token != nil {
		// oauth2 refreshes the access token transparently when it has expired.
		client := a.newClient(ctx, token)

		_, err := client.CurrentUser(ctx)
		if err == nil {
			a.persist(client, token)
			return client, nil
		}

		a.logger.Warn("cached token rejected, starting new authentication", "err", err)
	}

	return a.runOAuthFlow(ctx)
}

// newClient builds a client whose token source outlives ctx, since refreshes
// happen on later tool calls.
func (a *Authenticator) newClient(ctx context.Context, token *oauth2.Token) *spotify.Client {
	base := context.WithoutCancel(ctx)
	if a.httpClient != nil {
		base = context.WithValue(base, oauth2.HTTPClient, a.httpClient)
	}
	return spotify.New(a.auth.Client(base, token))
}

// persist saves the client's current token when it differs from old.
func (a *Authenticator) persist(client *spotify.Client, old *oauth2.Token) {
	newToken, err := client.Token()
	if err != nil || newToken == nil {
		return
	}
	if old != nil && newToken.AccessToken == old.AccessToken {
		return
	}
	if err := a.cache.Save(newToken); err != nil {
		a.logger.Warn("failed to cache token", "err", err)
	}
}

// runOAuthFlow performs the authorization code flow with a PKCE verifier.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	callbackPath := a.redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	router := chi.NewRouter()
	router.Get(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, verifier, tokenCh, errCh)
	})

	listener, err := net.Listen("tcp", a.redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listening for OAuth callback on %s: %w", a.redirect.Host, err)
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := a.auth.AuthURL(state, oauth2.S256ChallengeOption(verifier))
	a.logger.Info("open this URL to authorize Spotify access", "url", authURL)
	if a.openBrowser {
		if err := OpenBrowser(authURL); err != nil {
			a.logger.Warn("could not open browser", "err", err)
		}
	}

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(callbackTimeout):
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := a.cache.Save(token); err != nil {
		// Auth succeeded; the next start will simply log in again.
		a.logger.Warn("failed to cache token", "err", err)
	}

	return a.newClient(ctx, token), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState, verifier string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		errCh <- ErrStateMismatch
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		errCh <- fmt.Errorf("spotify auth error: %s", errMsg)
		return
	}

	ctx := r.Context()
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	token, err := a.auth.Token(ctx, expectedState, r, oauth2.VerifierOption(verifier))
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		errCh <- fmt.Errorf("exchanging code for token: %w", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful!</h1>
<p>You can close this window and return to your MCP client.</p>
</body>
</html>`)

	tokenCh <- token
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SaveToken writes the client's current token to the cache. Refreshes made
// during the session would otherwise be lost on exit.
func (a *Authenticator) SaveToken(client *spotify.Client) error {
	token, err := client.Token()
	if err != nil {
		return fmt.Errorf("reading client token: %w", err)
	}
	return a.cache.Save(token)
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}
