package gitinfo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		name  string
	}{
		{"git@github.com:acme/widgets.git", "acme", "widgets"},
		{"git@github.com:acme/widgets", "acme", "widgets"},
		{"git@gitlab.example-corp.io:team/svc.api.git", "team", "svc.api"},
		{"https://github.com/acme/widgets.git", "acme", "widgets"},
		{"https://github.com/acme/widgets", "acme", "widgets"},
		{"http://git.local/acme/widgets", "acme", "widgets"},
		{"https://gitlab.com/group/sub/repo.git", "group", "sub/repo"},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			owner, name, err := ParseRemoteURL(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.owner, owner)
			assert.Equal(t, tc.name, name)
		})
	}

	for _, bad := range []string{"", "/local/path/repo", "ssh://git@host/acme/widgets", "https://github.com/widgets"} {
		_, _, err := ParseRemoteURL(bad)
		assert.ErrorIs(t, err, ErrUnparsableRemote, bad)
	}
}

func TestFindRoot(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	got, err := FindRoot(deep)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = FindRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestResolve_FullOverride(t *testing.T) {
	info, err := Resolve(context.Background(), Overrides{Name: "widgets", Owner: "acme", WorkspacePath: "/work/widgets"})
	require.NoError(t, err)
	assert.Equal(t, &RepoInfo{Name: "widgets", Owner: "acme", WorkspacePath: "/work/widgets"}, info)
}

func TestResolve_PartialOverrideWithoutRepo(t *testing.T) {
	outside := t.TempDir()
	if _, err := FindRoot(outside); err == nil {
		t.Skip("temp directory is inside a git checkout")
	}

	_, err := Resolve(context.Background(), Overrides{Name: "widgets", WorkspacePath: outside})
	assert.ErrorIs(t, err, ErrPartialOverride)

	_, err = Resolve(context.Background(), Overrides{WorkspacePath: outside})
	assert.ErrorIs(t, err, ErrNotRepository)
}

func initRepo(t *testing.T, remote string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, args := range [][]string{
		{"init", "-q"},
		{"remote", "add", "origin", remote},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return dir
}

func TestDetect(t *testing.T) {
	dir := initRepo(t, "git@github.com:acme/widgets.git")
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))

	info, err := Detect(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "acme", info.Owner)
	assert.Equal(t, "widgets", info.Name)
	assert.Equal(t, dir, info.WorkspacePath)
	assert.Equal(t, "git@github.com:acme/widgets.git", info.RemoteURL)

	t.Run("partial override replaces detected value", func(t *testing.T) {
		info, err := Resolve(context.Background(), Overrides{Owner: "fork", WorkspacePath: sub})
		require.NoError(t, err)
		assert.Equal(t, "fork", info.Owner)
		assert.Equal(t, "widgets", info.Name)
		assert.Equal(t, sub, info.WorkspacePath)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvRepoName, "n")
	t.Setenv(EnvRepoOwner, "o")
	t.Setenv(EnvWorkspacePath, "/w")
	assert.Equal(t, Overrides{Name: "n", Owner: "o", WorkspacePath: "/w"}, EnvOverrides())
}
