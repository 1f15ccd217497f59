package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cursor-search-mcp/internal/client"
	"github.com/dshills/cursor-search-mcp/pkg/types"
)

type stubSearcher struct {
	result *types.SearchResult
	got    client.Query
}

func (s *stubSearcher) Search(_ context.Context, q client.Query) (*types.SearchResult, error) {
	s.got = q
	return s.result, nil
}

func (s *stubSearcher) EnsureIndexCreated(context.Context) (bool, error) { return true, nil }

func (s *stubSearcher) Close() error { return nil }

func TestRunSearch(t *testing.T) {
	stub := &stubSearcher{result: &types.SearchResult{
		Query: "where is the config loaded",
		Chunks: []types.CodeChunk{
			{FilePath: "internal/config/config.go", Content: "func Load() {}", StartLine: 3, EndLine: 5, Score: 0.9},
		},
	}}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := runSearch(context.Background(), stub, cmd, "where is the config loaded", "internal", 5, true)
	require.NoError(t, err)

	assert.Equal(t, "internal", stub.got.TargetDirectory)
	assert.Equal(t, 5, stub.got.TopK)
	assert.True(t, stub.got.Rerank)
	assert.Contains(t, out.String(), "### Result 1: internal/config/config.go")
	assert.Contains(t, out.String(), "func Load() {}")
}

func TestRunSearchBackendError(t *testing.T) {
	result := &types.SearchResult{Query: "where is the config loaded"}
	result.SetMeta(types.MetaError, "repository not found")
	stub := &stubSearcher{result: result}

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	err := runSearch(context.Background(), stub, cmd, "where is the config loaded", "", 10, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository not found")
}

func TestLastAccessed(t *testing.T) {
	assert.Equal(t, "-", lastAccessed(0))
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, ts.Format(time.RFC3339), lastAccessed(ts.UnixMilli()))
}

func TestVersionShort(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}
