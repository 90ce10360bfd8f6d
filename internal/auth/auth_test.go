package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenCache_SaveAndLoad(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
	}{
		{
			name: "basic token",
			token: &oauth2.Token{
				AccessToken:  "test-access-token",
				TokenType:    "Bearer",
				RefreshToken: "test-refresh-token",
				Expiry:       time.Now().Add(time.Hour),
			},
		},
		{
			name: "token without refresh",
			token: &oauth2.Token{
				AccessToken: "access-only",
				TokenType:   "Bearer",
				Expiry:      time.Now().Add(30 * time.Minute),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "token.json")
			cache := NewTokenCache(path)

			// Save token
			if err := cache.Save(tt.token); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			// Load token
			loaded, err := cache.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if loaded == nil {
				t.Fatal("Load() returned nil token")
			}

			if loaded.AccessToken != tt.token.AccessToken {
				t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, tt.token.AccessToken)
			}

			if loaded.RefreshToken != tt.token.RefreshToken {
				t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, tt.token.RefreshToken)
			}

			if loaded.TokenType != tt.token.TokenType {
				t.Errorf("TokenType = %q, want %q", loaded.TokenType, tt.token.TokenType)
			}
		})
	}
}

func TestTokenCache_LoadNonExistent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "token.json")
	cache := NewTokenCache(path)

	token, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if token != nil {
		t.Errorf("Load() = %v, want nil for non-existent file", token)
	}
}

func TestTokenCache_SaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeply", "token.json")
	cache := NewTokenCache(path)

	token := &oauth2.Token{
		AccessToken: "test-token",
		TokenType:   "Bearer",
	}

	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Verify directory was created
	parentDir := filepath.Dir(path)
	if _, err := os.Stat(parentDir); os.IsNotExist(err) {
		t.Error("Save() did not create parent directory")
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Save() did not create token file")
	}
}

func TestTokenCache_SaveNilToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	cache := NewTokenCache(path)

	err := cache.Save(nil)
	if err == nil {
		t.Error("Save(nil) should return error")
	}
}

func TestTokenCache_Delete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	cache := NewTokenCache(path)

	// Save a token first
	token := &oauth2.Token{
		AccessToken: "test-token",
		TokenType:   "Bearer",
	}
	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Delete it
	if err := cache.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Verify file is gone
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Delete() did not remove token file")
	}
}

func TestTokenCache_DeleteNonExistent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.json")
	cache := NewTokenCache(path)

	// Should not error when file doesn't exist
	if err := cache.Delete(); err != nil {
		t.Errorf("Delete() error = %v, want nil for non-existent file", err)
	}
}

func TestTokenCache_Path(t *testing.T) {
	path := "/custom/path/token.json"
	cache := NewTokenCache(path)

	if cache.Path() != path {
		t.Errorf("Path() = %q, want %q", cache.Path(), path)
	}
}

func TestTokenCache_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	cache := NewTokenCache(path)

	token := &oauth2.Token{
		AccessToken: "secret-token",
		TokenType:   "Bearer",
	}

	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	// Check file is not world-readable (0600)
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		t.Errorf("File permissions = %o, want 0600 (no group/other access)", mode)
	}
}

func TestTokenCache_SaveReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	cache := NewTokenCache(path)

	for _, access := range []string{"first", "second"} {
		if err := cache.Save(&oauth2.Token{AccessToken: access, TokenType: "Bearer"}); err != nil {
			t.Fatalf("Save(%q) error = %v", access, err)
		}
	}

	loaded, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != "second" {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the token file", len(entries))
	}
}

func TestTokenCache_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenCache(path).Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestNew_MissingClientID(t *testing.T) {
	_, err := New(Config{TokenPath: filepath.Join(t.TempDir(), "token.json")})
	if !errors.Is(err, ErrMissingClientID) {
		t.Errorf("New() error = %v, want ErrMissingClientID", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		redirectURI string
		wantErr     bool
	}{
		{"default redirect", "", false},
		{"custom redirect", "http://127.0.0.1:9999/cb", false},
		{"redirect without host", "/callback", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			a, err := New(Config{
				ClientID:    "test-client-id",
				RedirectURI: tt.redirectURI,
				TokenPath:   path,
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if a.Cache().Path() != path {
				t.Errorf("Cache().Path() = %q, want %q", a.Cache().Path(), path)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	a, err := New(Config{ClientID: "id", TokenPath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Cache().Save(&oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := a.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Logout() did not remove token file")
	}
}

func TestGenerateState(t *testing.T) {
	state1, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error = %v", err)
	}

	if len(state1) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("generateState() length = %d, want 32", len(state1))
	}

	state2, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error = %v", err)
	}

	if state1 == state2 {
		t.Error("generateState() returned same value twice")
	}
}
