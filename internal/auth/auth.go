// Package auth resolves the credentials and client identity sent with every
// backend request.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dshills/cursor-search-mcp/internal/cursordb"
)

// DefaultClientVersion is the editor version reported when none is configured.
const DefaultClientVersion = "2.3.10"

// Environment variables consulted by FromEnv and ClientVersion.
const (
	EnvAccessToken  = "CURSOR_ACCESS_TOKEN"
	EnvRefreshToken = "CURSOR_REFRESH_TOKEN"
	EnvVersion      = "CURSOR_VERSION"
)

var (
	// ErrStateDBNotFound is returned when the editor's state database does not exist.
	ErrStateDBNotFound = errors.New("cursor state database not found; install Cursor and log in at least once")
	// ErrNoAccessToken is returned when the state database holds no access token.
	ErrNoAccessToken = errors.New("access token not found in Cursor database; log in to Cursor")
	// ErrInvalidVersion is returned for a client version that is not semver.
	ErrInvalidVersion = errors.New("invalid client version")
)

// Credentials are the editor's OAuth tokens.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// ItemReader reads keys from the global state database.
type ItemReader interface {
	Item(ctx context.Context, key string) ([]byte, error)
	StateDBPath() string
}

// Load returns credentials from the environment when CURSOR_ACCESS_TOKEN is
// set and from the state database otherwise.
func Load(ctx context.Context, store ItemReader) (Credentials, error) {
	if c, ok := FromEnv(); ok {
		return c, nil
	}
	return FromStore(ctx, store)
}

// FromEnv reads CURSOR_ACCESS_TOKEN and CURSOR_REFRESH_TOKEN.
func FromEnv() (Credentials, bool) {
	token := os.Getenv(EnvAccessToken)
	if token == "" {
		return Credentials{}, false
	}
	return Credentials{AccessToken: token, RefreshToken: os.Getenv(EnvRefreshToken)}, true
}

// FromStore reads the tokens the editor saved after login. A missing refresh
// token is not an error.
func FromStore(ctx context.Context, store ItemReader) (Credentials, error) {
	access, err := store.Item(ctx, cursordb.KeyAccessToken)
	switch {
	case errors.Is(err, cursordb.ErrDatabaseNotFound):
		return Credentials{}, fmt.Errorf("%w (looked in %s)", ErrStateDBNotFound, store.StateDBPath())
	case errors.Is(err, cursordb.ErrNotFound):
		return Credentials{}, ErrNoAccessToken
	case err != nil:
		return Credentials{}, fmt.Errorf("failed to read access token: %w", err)
	}

	token := strings.TrimSpace(string(access))
	if token == "" {
		return Credentials{}, ErrNoAccessToken
	}

	refresh, err := store.Item(ctx, cursordb.KeyRefreshToken)
	if err != nil && !errors.Is(err, cursordb.ErrNotFound) {
		return Credentials{}, fmt.Errorf("failed to read refresh token: %w", err)
	}

	return Credentials{AccessToken: token, RefreshToken: strings.TrimSpace(string(refresh))}, nil
}

// ValidateVersion checks that v is a semantic version such as "2.3.10".
func ValidateVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidVersion, v, err)
	}
	return nil
}

// ClientVersion returns CURSOR_VERSION when it is a valid version and
// DefaultClientVersion otherwise.
func ClientVersion() string {
	if v := os.Getenv(EnvVersion); v != "" && ValidateVersion(v) == nil {
		return v
	}
	return DefaultClientVersion
}

// AuthID returns the subject claim of a JWT access token without verifying
// its signature.
func AuthID(token string) (string, bool) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", false
	}
	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Sub == "" {
		return "", false
	}
	return claims.Sub, true
}

// TokenPreview returns the first 20 characters of token for display.
func TokenPreview(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
