package cursordb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// RepoKeys are the per-workspace values the editor registered with the
// backend when it first indexed the workspace.
type RepoKeys struct {
	RepoName          string
	TransformSeed     *float64
	PathEncryptionKey string
	LegacyRepoName    string
}

// FindWorkspaceStorage returns the workspaceStorage entry whose folder best
// matches workspace: an exact match, then the closest ancestor, then the
// closest descendant.
func (s *Store) FindWorkspaceStorage(workspace string) (string, error) {
	workspace, err := absPath(workspace)
	if err != nil {
		return "", err
	}

	base := s.WorkspaceStorageDir()
	entries, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("workspace storage %s: %w", base, ErrNotFound)
		}
		return "", err
	}

	type candidate struct {
		rank, dist int
		dir        string
	}
	var candidates []candidate
	sep := string(filepath.Separator)

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(base, e.Name())
		folder, ok := readWorkspaceFolder(filepath.Join(dir, "workspace.json"))
		if !ok {
			continue
		}

		switch {
		case folder == workspace:
			candidates = append(candidates, candidate{0, 0, dir})
		case strings.HasPrefix(workspace, folder+sep):
			candidates = append(candidates, candidate{1, -len(folder), dir})
		case strings.HasPrefix(folder, workspace+sep):
			candidates = append(candidates, candidate{2, len(folder), dir})
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("workspace storage for %s: %w", workspace, ErrNotFound)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		return candidates[i].dist < candidates[j].dist
	})
	return candidates[0].dir, nil
}

func readWorkspaceFolder(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var ws struct {
		Folder string `json:"folder"`
	}
	if err := json.Unmarshal(data, &ws); err != nil {
		return "", false
	}
	folder, ok := FileURIPath(ws.Folder)
	if !ok {
		return "", false
	}
	folder, err = absPath(folder)
	return folder, err == nil
}

// FileURIPath converts a file:// URI to a local path.
func FileURIPath(uri string) (string, bool) {
	if !strings.HasPrefix(uri, "file://") {
		return "", false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return "", false
	}
	p := u.Path
	// Windows URIs look like /C:/path.
	if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p, true
}

// RepoKeys reads the repository keys the editor stored for workspace.
// It returns ErrNotFound when the workspace was never indexed.
func (s *Store) RepoKeys(ctx context.Context, workspace string) (*RepoKeys, error) {
	dir, err := s.FindWorkspaceStorage(workspace)
	if err != nil {
		return nil, err
	}

	raw, err := QueryItem(ctx, filepath.Join(dir, "state.vscdb"), KeyRetrievalState)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("retrieval state: %w", ErrNotFound)
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode retrieval state: %w", err)
	}

	legacy, err := LegacyRepoName([]string{workspace})
	if err != nil {
		return nil, err
	}
	entry, ok := state["map/"+legacy+"/repoKeys"]
	if !ok || string(entry) == "null" {
		return nil, fmt.Errorf("repo keys for %s: %w", legacy, ErrNotFound)
	}

	var keys struct {
		RepoName          string   `json:"repoName"`
		TransformSeed     *float64 `json:"orthogonalTransformationSeed"`
		PathEncryptionKey string   `json:"pathEncryptionKey"`
	}
	if err := json.Unmarshal(entry, &keys); err != nil {
		return nil, fmt.Errorf("decode repo keys: %w", err)
	}

	return &RepoKeys{
		RepoName:          keys.RepoName,
		TransformSeed:     keys.TransformSeed,
		PathEncryptionKey: keys.PathEncryptionKey,
		LegacyRepoName:    legacy,
	}, nil
}

// LegacyRepoName computes the name the editor files workspace keys under:
// sha256 of the sorted absolute paths joined by "-", then "-" and their
// base names joined by "-".
func LegacyRepoName(paths []string) (string, error) {
	normalized := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := absPath(p)
		if err != nil {
			return "", err
		}
		normalized = append(normalized, strings.TrimRight(abs, string(filepath.Separator)))
	}
	sort.Strings(normalized)

	names := make([]string, len(normalized))
	for i, p := range normalized {
		if p != "" {
			names[i] = filepath.Base(p)
		}
	}

	digest := sha256.Sum256([]byte(strings.Join(normalized, "-")))
	return hex.EncodeToString(digest[:]) + "-" + strings.Join(names, "-"), nil
}

func absPath(p string) (string, error) {
	if p == "" {
		return os.Getwd()
	}
	return filepath.Abs(p)
}
