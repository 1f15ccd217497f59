// Package gitinfo identifies the repository a workspace belongs to from its
// git remote, with environment overrides.
package gitinfo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Environment overrides consulted by Resolve.
const (
	EnvRepoName      = "CURSOR_REPO_NAME"
	EnvRepoOwner     = "CURSOR_REPO_OWNER"
	EnvWorkspacePath = "CURSOR_WORKSPACE_PATH"
)

var (
	// ErrNotRepository is returned when no .git directory is found above the start path.
	ErrNotRepository = errors.New("not in a git repository")
	// ErrNoRemote is returned when the repository has no origin remote.
	ErrNoRemote = errors.New("no 'origin' remote found")
	// ErrUnparsableRemote is returned for remote URLs that are neither ssh nor http(s).
	ErrUnparsableRemote = errors.New("could not parse git remote URL")
	// ErrPartialOverride is returned when only one of the name and owner
	// overrides is set and git detection fails.
	ErrPartialOverride = errors.New("partial configuration: set both CURSOR_REPO_NAME and CURSOR_REPO_OWNER, or run from a git repository")
)

var (
	sshRemote   = regexp.MustCompile(`^git@[\w.-]+:(.+?)/(.+?)(?:\.git)?$`)
	httpsRemote = regexp.MustCompile(`^https?://[\w.-]+/(.+?)/(.+?)(?:\.git)?$`)
)

// RepoInfo identifies a repository checkout.
type RepoInfo struct {
	Name          string
	Owner         string
	WorkspacePath string
	RemoteURL     string
}

// ParseRemoteURL extracts the owner and repository name from an ssh
// (git@host:owner/repo.git) or http(s) (https://host/owner/repo) remote.
func ParseRemoteURL(url string) (owner, name string, err error) {
	for _, re := range []*regexp.Regexp{sshRemote, httpsRemote} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], m[2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnparsableRemote, url)
}

// FindRoot walks up from start to the first directory containing .git.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, start)
		}
		dir = parent
	}
}

// RemoteURL returns the URL of the origin remote of the repository at root.
func RemoteURL(ctx context.Context, root string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", root, "remote", "get-url", "origin").Output()
	if err != nil {
		return "", fmt.Errorf("%w in %s: %v", ErrNoRemote, root, err)
	}
	url := strings.TrimSpace(string(out))
	if url == "" {
		return "", fmt.Errorf("%w in %s", ErrNoRemote, root)
	}
	return url, nil
}

// Detect finds the repository containing start and reads its identity from
// the origin remote. An empty start means the working directory.
func Detect(ctx context.Context, start string) (*RepoInfo, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		start = wd
	}

	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	url, err := RemoteURL(ctx, root)
	if err != nil {
		return nil, err
	}
	owner, name, err := ParseRemoteURL(url)
	if err != nil {
		return nil, err
	}

	return &RepoInfo{Name: name, Owner: owner, WorkspacePath: root, RemoteURL: url}, nil
}

// Overrides are explicitly configured identity values. Empty fields are unset.
type Overrides struct {
	Name          string
	Owner         string
	WorkspacePath string
}

// EnvOverrides reads the overrides from the environment.
func EnvOverrides() Overrides {
	return Overrides{
		Name:          os.Getenv(EnvRepoName),
		Owner:         os.Getenv(EnvRepoOwner),
		WorkspacePath: os.Getenv(EnvWorkspacePath),
	}
}

// Resolve returns the repository identity. When both name and owner are
// overridden git is not consulted. Otherwise detection runs from the
// overridden workspace (or the working directory) and any single override
// replaces the detected value.
func Resolve(ctx context.Context, o Overrides) (*RepoInfo, error) {
	if o.Name != "" && o.Owner != "" {
		ws := o.WorkspacePath
		if ws == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			ws = wd
		}
		return &RepoInfo{Name: o.Name, Owner: o.Owner, WorkspacePath: ws}, nil
	}

	detected, err := Detect(ctx, o.WorkspacePath)
	if err != nil {
		if o.Name != "" || o.Owner != "" {
			return nil, fmt.Errorf("%w: %v", ErrPartialOverride, err)
		}
		return nil, fmt.Errorf("%w; set %s and %s manually", err, EnvRepoName, EnvRepoOwner)
	}

	info := *detected
	if o.Name != "" {
		info.Name = o.Name
	}
	if o.Owner != "" {
		info.Owner = o.Owner
	}
	if o.WorkspacePath != "" {
		info.WorkspacePath = o.WorkspacePath
	}
	return &info, nil
}
