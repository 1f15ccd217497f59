package message

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dshills/cursor-search-mcp/internal/wire"
)

func sampleResult(path string, score float64) CodeResult {
	return CodeResult{
		CodeBlock: CodeBlock{
			Path: path,
			Range: Range{
				Start: Position{Line: 10, Column: 2},
				End:   Position{Line: 24},
			},
			Contents: []byte("func main() {}"),
		},
		Score: score,
	}
}

func TestRoundTrip(t *testing.T) {
	seed := 0.0
	repo := RepositoryInfo{
		RelativeWorkspacePath:   ".",
		RemoteURL:               "https://github.com/acme/widgets",
		RemoteName:              "origin",
		RepoName:                "widgets",
		RepoOwner:               "acme",
		IsTracked:               true,
		IsLocal:                 true,
		NumFiles:                1024,
		TransformSeed:           &seed,
		PreferredEmbeddingModel: 3,
		WorkspaceURI:            "file:///home/dev/widgets",
		PreferredDBProvider:     2,
	}

	t.Run("repository info", func(t *testing.T) {
		var got RepositoryInfo
		require.NoError(t, got.Unmarshal(repo.Marshal()))
		assert.Equal(t, repo, got)
		require.NotNil(t, got.TransformSeed)
		assert.Equal(t, 0.0, *got.TransformSeed)
	})

	t.Run("sem search request", func(t *testing.T) {
		req := SemSearchRequest{Request: SearchRepositoryRequest{
			Query:      "where is the retry loop",
			Repository: repo,
			TopK:       10,
			Rerank:     true,
			GlobFilter: "src/**",
		}}
		var got SemSearchRequest
		require.NoError(t, got.Unmarshal(req.Marshal()))
		assert.Equal(t, req, got)
	})

	t.Run("ensure index request", func(t *testing.T) {
		req := EnsureIndexCreatedRequest{Repository: RepositoryInfo{RepoName: "widgets", RepoOwner: "acme"}}
		var got EnsureIndexCreatedRequest
		require.NoError(t, got.Unmarshal(req.Marshal()))
		assert.Equal(t, req, got)
	})

	t.Run("code block with every content field", func(t *testing.T) {
		b := CodeBlock{
			Path:             "pkg/a.go",
			Range:            Range{End: Position{Line: 3, Column: 1}},
			Contents:         []byte("a"),
			OverrideContents: []byte("b"),
			FileContents:     []byte("c"),
			OriginalContents: []byte("d"),
		}
		var got CodeBlock
		require.NoError(t, got.Unmarshal(b.Marshal()))
		assert.Equal(t, b, got)
	})

	t.Run("sem search response", func(t *testing.T) {
		resp := SemSearchResponse{
			Response: SearchRepositoryResponse{CodeResults: []CodeResult{sampleResult("a/b.go", 0.5)}},
			CodeResults: []ClassifiedResult{
				{Result: sampleResult("c/d.go", 0.25)},
				{Result: sampleResult("e.go", 0.125)},
			},
		}
		var got SemSearchResponse
		require.NoError(t, got.Unmarshal(resp.Marshal()))
		assert.Equal(t, resp, got)

		paths := []string{}
		for _, r := range got.Results() {
			paths = append(paths, r.CodeBlock.Path)
		}
		assert.Equal(t, []string{"a/b.go", "c/d.go", "e.go"}, paths)
	})
}

func TestMarshal_AllDefaultIsEmpty(t *testing.T) {
	assert.Empty(t, Position{}.Marshal())
	assert.Empty(t, Range{}.Marshal())
	assert.Empty(t, CodeBlock{}.Marshal())
	assert.Empty(t, CodeResult{}.Marshal())
	assert.Empty(t, ClassifiedResult{}.Marshal())
	assert.Empty(t, RepositoryInfo{}.Marshal())
	assert.Empty(t, SearchRepositoryRequest{}.Marshal())
	assert.Empty(t, SemSearchRequest{}.Marshal())
	assert.Empty(t, EnsureIndexCreatedRequest{}.Marshal())
	assert.Empty(t, SearchRepositoryResponse{}.Marshal())
	assert.Empty(t, SemSearchResponse{}.Marshal())
}

func TestMarshal_EmptyListEntriesKept(t *testing.T) {
	resp := SearchRepositoryResponse{CodeResults: []CodeResult{{}, sampleResult("x.go", 1)}}
	var got SearchRepositoryResponse
	require.NoError(t, got.Unmarshal(resp.Marshal()))
	assert.Len(t, got.CodeResults, 2)
	assert.Equal(t, "x.go", got.CodeResults[1].CodeBlock.Path)
}

func TestCodeResult_ScoreWidths(t *testing.T) {
	block := CodeBlock{Path: "main.go"}.Marshal()

	t.Run("double", func(t *testing.T) {
		e := wire.NewEncoder()
		e.Message(1, block)
		e.Double(2, 0.875)

		var r CodeResult
		require.NoError(t, r.Unmarshal(e.Bytes()))
		assert.Equal(t, 0.875, r.Score)
	})

	t.Run("float", func(t *testing.T) {
		e := wire.NewEncoder()
		e.Message(1, block)
		e.Float(2, 0.75)

		var r CodeResult
		require.NoError(t, r.Unmarshal(e.Bytes()))
		assert.Equal(t, 0.75, r.Score)
		assert.Equal(t, "main.go", r.CodeBlock.Path)
	})

	t.Run("varint score is ignored", func(t *testing.T) {
		e := wire.NewEncoder()
		e.Message(1, block)
		e.Uint64(2, 7)

		var r CodeResult
		require.NoError(t, r.Unmarshal(e.Bytes()))
		assert.Zero(t, r.Score)
	})
}

func TestCodeResult_EncodesDouble(t *testing.T) {
	buf := CodeResult{Score: math.Pi}.Marshal()
	num, typ, n := protowire.ConsumeTag(buf)
	require.Greater(t, n, 0)
	assert.Equal(t, protowire.Number(2), num)
	assert.Equal(t, protowire.Fixed64Type, typ)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	e := wire.NewEncoder()
	e.Str(1, "lib/util.go")
	e.Uint64(99, 12345)
	e.Double(100, 1.5)
	e.Float(101, 2.5)
	e.Str(102, "future")
	e.Uint64(4, 1) // known field, wrong wire type
	e.Blob(4, []byte("body"))

	var b CodeBlock
	require.NoError(t, b.Unmarshal(e.Bytes()))
	assert.Equal(t, "lib/util.go", b.Path)
	assert.Equal(t, []byte("body"), b.Contents)
}

func TestUnmarshal_TruncatedKeepsPartial(t *testing.T) {
	resp := SearchRepositoryResponse{CodeResults: []CodeResult{
		sampleResult("first.go", 0.5),
		sampleResult("second.go", 0.25),
	}}
	buf := resp.Marshal()

	var got SearchRepositoryResponse
	err := got.Unmarshal(buf[:len(buf)-3])
	require.Error(t, err)
	assert.ErrorIs(t, err, wire.ErrTruncated)
	require.Len(t, got.CodeResults, 1)
	assert.Equal(t, resp.CodeResults[0], got.CodeResults[0])
}

func TestUnmarshal_InvalidUTF8Path(t *testing.T) {
	e := wire.NewEncoder()
	e.Blob(1, []byte{'a', 0xff, '/'})

	var b CodeBlock
	err := b.Unmarshal(e.Bytes())
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestCodeBlock_DisplayText(t *testing.T) {
	tests := []struct {
		name  string
		block CodeBlock
		want  string
	}{
		{"empty", CodeBlock{}, ""},
		{"override only", CodeBlock{OverrideContents: []byte("override")}, "override"},
		{"contents wins", CodeBlock{Contents: []byte("c"), OverrideContents: []byte("o")}, "c"},
		{"file before original", CodeBlock{FileContents: []byte("f"), OriginalContents: []byte("g")}, "f"},
		{"original last", CodeBlock{OriginalContents: []byte("g")}, "g"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.block.DisplayText())
		})
	}
}
