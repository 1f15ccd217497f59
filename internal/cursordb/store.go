package cursordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

var (
	// ErrNotFound is returned when a key, workspace or repository is absent.
	ErrNotFound = errors.New("not found")
	// ErrDatabaseNotFound is returned when a state database file does not exist.
	ErrDatabaseNotFound = errors.New("cursor database not found")
	// ErrUnsupportedPlatform is returned by Dir on an OS with no known config location.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Keys read from the global state database.
const (
	KeyAccessToken     = "cursorAuth/accessToken"
	KeyRefreshToken    = "cursorAuth/refreshToken"
	KeyRepositoryPaths = "repositoryTracker.paths"
	KeyRetrievalState  = "anysphere.cursor-retrieval"
)

// EnvConfigPath overrides the editor config directory.
const EnvConfigPath = "CURSOR_CONFIG_PATH"

// containerConfigDir is checked before the per-OS location so a config
// directory mounted into a container is picked up without extra settings.
var containerConfigDir = "/root/.cursor"

// Dir returns the editor's application data directory.
func Dir() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	if _, err := os.Stat(containerConfigDir); err == nil {
		return containerConfigDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cursor"), nil
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Cursor"), nil
	case "linux":
		return filepath.Join(home, ".config", "Cursor"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
}

// Store locates the databases under one config directory.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir, or at Dir() when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{Dir: dir}, nil
}

// StateDBPath returns the path of the global state database.
func (s *Store) StateDBPath() string {
	return filepath.Join(s.Dir, "User", "globalStorage", "state.vscdb")
}

// WorkspaceStorageDir returns the directory holding per-workspace databases.
func (s *Store) WorkspaceStorageDir() string {
	return filepath.Join(s.Dir, "User", "workspaceStorage")
}

// Item reads key from the global state database.
func (s *Store) Item(ctx context.Context, key string) ([]byte, error) {
	return QueryItem(ctx, s.StateDBPath(), key)
}

// QueryItem returns the ItemTable value stored under key in the database at
// dbPath. The database is copied to a temporary file first because the
// editor keeps the original locked while it runs.
func QueryItem(ctx context.Context, dbPath, key string) ([]byte, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		}
		return nil, err
	}

	tmp, cleanup, err := snapshot(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to copy database: %w", err)
	}
	defer cleanup()

	db, err := openDatabase(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var value []byte
	err = db.QueryRowContext(ctx, "SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query item %q: %w", key, err)
	}
	return value, nil
}

// openDatabase opens a SQLite database with the build-selected driver
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// snapshot copies dbPath, and its WAL file when present, into a temporary
// location and returns the copy's path with a function that removes it.
func snapshot(dbPath string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "cursor-state-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, "state.vscdb")
	if err := copyFile(dbPath, dst); err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := os.Stat(dbPath + "-wal"); err == nil {
		if err := copyFile(dbPath+"-wal", dst+"-wal"); err != nil {
			cleanup()
			return "", nil, err
		}
	}
	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
