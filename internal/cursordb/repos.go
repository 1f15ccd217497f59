package cursordb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

// IndexedRepo is one entry of the editor's repository tracker.
type IndexedRepo struct {
	Owner        string
	Name         string
	LocalPath    string
	LastAccessed int64
	// FullKey is the tracker key, e.g. "github.com/owner/repo".
	FullKey string
}

// IndexedRepos lists the repositories the editor has tracked, most recently
// accessed first.
func (s *Store) IndexedRepos(ctx context.Context) ([]IndexedRepo, error) {
	raw, err := s.Item(ctx, KeyRepositoryPaths)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var data map[string]struct {
		LocalPath    string  `json:"localPath"`
		LastAccessed float64 `json:"lastAccessed"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode repository tracker: %w", err)
	}

	repos := make([]IndexedRepo, 0, len(data))
	for key, info := range data {
		parts := strings.Split(key, "/")
		if len(parts) < 3 {
			continue
		}
		local := info.LocalPath
		if strings.HasPrefix(local, "file://") {
			if p, err := url.PathUnescape(strings.TrimPrefix(local, "file://")); err == nil {
				local = p
			}
		}
		repos = append(repos, IndexedRepo{
			Owner:        parts[1],
			Name:         parts[2],
			LocalPath:    local,
			LastAccessed: int64(info.LastAccessed),
			FullKey:      key,
		})
	}

	sort.Slice(repos, func(i, j int) bool {
		if repos[i].LastAccessed != repos[j].LastAccessed {
			return repos[i].LastAccessed > repos[j].LastAccessed
		}
		return repos[i].FullKey < repos[j].FullKey
	})
	return repos, nil
}

// FindRepoForWorkspace returns the tracked repository at workspace, else the
// one containing it, else one inside it.
func (s *Store) FindRepoForWorkspace(ctx context.Context, workspace string) (*IndexedRepo, error) {
	workspace, err := absPath(workspace)
	if err != nil {
		return nil, err
	}
	repos, err := s.IndexedRepos(ctx)
	if err != nil {
		return nil, err
	}

	sep := string(filepath.Separator)
	matchers := []func(repoPath string) bool{
		func(p string) bool { return p == workspace },
		func(p string) bool { return strings.HasPrefix(workspace, p+sep) },
		func(p string) bool { return strings.HasPrefix(p, workspace+sep) },
	}
	for _, match := range matchers {
		for i := range repos {
			p, err := filepath.Abs(repos[i].LocalPath)
			if err != nil {
				continue
			}
			if match(p) {
				return &repos[i], nil
			}
		}
	}
	return nil, fmt.Errorf("tracked repository for %s: %w", workspace, ErrNotFound)
}
