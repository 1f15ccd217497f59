package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeChunk_Validate(t *testing.T) {
	tests := []struct {
		name  string
		chunk CodeChunk
		err   error
	}{
		{"valid", CodeChunk{FilePath: "a.go", StartLine: 1, EndLine: 3}, nil},
		{"no range", CodeChunk{FilePath: "a.go"}, nil},
		{"missing path", CodeChunk{StartLine: 1}, ErrMissingFilePath},
		{"negative", CodeChunk{FilePath: "a.go", StartLine: -1}, ErrNegativeLine},
		{"inverted", CodeChunk{FilePath: "a.go", StartLine: 9, EndLine: 3}, ErrInvalidLineRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chunk.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestSearchResult_Validate(t *testing.T) {
	r := &SearchResult{Query: "q", Chunks: []CodeChunk{{FilePath: "a.go"}, {}}}
	assert.ErrorIs(t, r.Validate(), ErrMissingFilePath)

	r.Chunks = r.Chunks[:1]
	assert.NoError(t, r.Validate())

	assert.ErrorIs(t, (&SearchResult{}).Validate(), ErrEmptyQuery)
}

func TestSearchResult_Errors(t *testing.T) {
	r := &SearchResult{Query: "q"}
	assert.False(t, r.HasError())

	r.SetMeta(MetaParseError, "unrecognised response shape")
	assert.True(t, r.HasError())
	assert.Equal(t, "unrecognised response shape", r.ErrorMessage())

	r.SetMeta(MetaError, "Repository is not indexed")
	assert.Equal(t, "Repository is not indexed", r.ErrorMessage())
}
