// Package config loads server settings from an optional TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/checksum"
	"github.com/dshills/cursor-search-mcp/internal/cursordb"
	"github.com/dshills/cursor-search-mcp/internal/gitinfo"
	"github.com/dshills/cursor-search-mcp/internal/logging"
)

// Defaults
const (
	DefaultBaseURL   = "https://repo42.cursor.sh"
	DefaultTopK      = 10
	DefaultTimeout   = 60 * time.Second
	DefaultCacheSize = 256
	DefaultCacheTTL  = 2 * time.Minute
)

// Environment variables read by Load, in addition to those owned by the
// auth, cursordb, gitinfo and logging packages.
const (
	EnvConfigFile        = "CURSOR_SEARCH_CONFIG"
	EnvBaseURL           = "CURSOR_API_URL"
	EnvMachineID         = "CURSOR_MACHINE_ID"
	EnvPathEncryptionKey = "CURSOR_PATH_ENCRYPTION_KEY"
	EnvTopK              = "CURSOR_SEARCH_TOP_K"
	EnvRepoLocal         = "CURSOR_REPO_LOCAL"
)

var (
	ErrInvalidBaseURL = errors.New("base URL must be https, or http on a loopback host")
	ErrInvalidTopK    = errors.New("top_k must be between 1 and 100")
	ErrInvalidTimeout = errors.New("timeout must be positive")
	ErrInvalidCache   = errors.New("cache size and ttl must not be negative")
)

// Config is the resolved server configuration.
type Config struct {
	BaseURL       string
	ClientVersion string
	MachineID     string

	// CursorDir overrides the editor's configuration directory.
	CursorDir string
	// PathEncryptionKey overrides the key found in workspace storage.
	PathEncryptionKey string
	Repo              gitinfo.Overrides
	// LocalRepo marks a repository with no hosted remote. No remote URL is
	// sent for it.
	LocalRepo bool

	TopK    int
	Rerank  bool
	Timeout time.Duration

	// CacheSize of zero disables the result cache.
	CacheSize int
	CacheTTL  time.Duration

	LogLevel string
}

type fileConfig struct {
	BaseURL           string `toml:"base_url"`
	ClientVersion     string `toml:"client_version"`
	MachineID         string `toml:"machine_id"`
	CursorDir         string `toml:"cursor_dir"`
	PathEncryptionKey string `toml:"path_encryption_key"`
	TopK              int    `toml:"top_k"`
	Rerank            bool   `toml:"rerank"`
	Timeout           string `toml:"timeout"`
	CacheSize         int    `toml:"cache_size"`
	CacheTTL          string `toml:"cache_ttl"`
	LogLevel          string `toml:"log_level"`

	Repository struct {
		Name          string `toml:"name"`
		Owner         string `toml:"owner"`
		WorkspacePath string `toml:"workspace_path"`
		Local         bool   `toml:"local"`
	} `toml:"repository"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		ClientVersion: auth.DefaultClientVersion,
		MachineID:     checksum.DefaultMachineID,
		TopK:          DefaultTopK,
		Rerank:        true,
		Timeout:       DefaultTimeout,
		CacheSize:     DefaultCacheSize,
		CacheTTL:      DefaultCacheTTL,
		LogLevel:      "info",
	}
}

// Load applies the TOML file at path (or CURSOR_SEARCH_CONFIG when path is
// empty) over the defaults, then environment overrides, then validates.
// No file at all is fine.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	setString := func(v string, dst *string, key ...string) {
		if meta.IsDefined(key...) {
			*dst = strings.TrimSpace(v)
		}
	}
	setString(raw.BaseURL, &c.BaseURL, "base_url")
	setString(raw.ClientVersion, &c.ClientVersion, "client_version")
	setString(raw.MachineID, &c.MachineID, "machine_id")
	setString(raw.CursorDir, &c.CursorDir, "cursor_dir")
	setString(raw.PathEncryptionKey, &c.PathEncryptionKey, "path_encryption_key")
	setString(raw.LogLevel, &c.LogLevel, "log_level")
	setString(raw.Repository.Name, &c.Repo.Name, "repository", "name")
	setString(raw.Repository.Owner, &c.Repo.Owner, "repository", "owner")
	setString(raw.Repository.WorkspacePath, &c.Repo.WorkspacePath, "repository", "workspace_path")

	if meta.IsDefined("top_k") {
		c.TopK = raw.TopK
	}
	if meta.IsDefined("rerank") {
		c.Rerank = raw.Rerank
	}
	if meta.IsDefined("repository", "local") {
		c.LocalRepo = raw.Repository.Local
	}
	if meta.IsDefined("cache_size") {
		c.CacheSize = raw.CacheSize
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		c.Timeout = d
	}
	if meta.IsDefined("cache_ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.CacheTTL))
		if err != nil {
			return fmt.Errorf("parse cache_ttl: %w", err)
		}
		c.CacheTTL = d
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(EnvBaseURL, &c.BaseURL)
	setString(auth.EnvVersion, &c.ClientVersion)
	setString(EnvMachineID, &c.MachineID)
	setString(cursordb.EnvConfigPath, &c.CursorDir)
	setString(EnvPathEncryptionKey, &c.PathEncryptionKey)
	setString(logging.EnvLogLevel, &c.LogLevel)
	setString(gitinfo.EnvRepoName, &c.Repo.Name)
	setString(gitinfo.EnvRepoOwner, &c.Repo.Owner)
	setString(gitinfo.EnvWorkspacePath, &c.Repo.WorkspacePath)

	if v := strings.TrimSpace(os.Getenv(EnvTopK)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTopK, err)
		}
		c.TopK = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvRepoLocal)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRepoLocal, err)
		}
		c.LocalRepo = b
	}
	return nil
}

// Validate checks the configuration for values the client cannot use.
func (c Config) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if err := auth.ValidateVersion(c.ClientVersion); err != nil {
		return err
	}
	if c.TopK < 1 || c.TopK > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidTopK, c.TopK)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CacheSize < 0 || c.CacheTTL < 0 {
		return ErrInvalidCache
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
