package types

import "fmt"

// Metadata keys set by the search client.
const (
	MetaError      = "error"       // backend trailer error text
	MetaParseError = "parse_error" // no response shape matched
	MetaRawLength  = "raw_length"  // payload size when parsing failed
	MetaStrategy   = "strategy"    // response shape that matched
)

// CodeChunk is one region of a file returned by a search
type CodeChunk struct {
	FilePath  string // Relative to the workspace root, decrypted
	Content   string
	StartLine int
	EndLine   int
	Score     float64
}

// Validate checks if the chunk is valid
func (c *CodeChunk) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}

	if c.StartLine < 0 || c.EndLine < 0 {
		return ErrNegativeLine
	}

	if c.EndLine > 0 && c.StartLine > c.EndLine {
		return ErrInvalidLineRange
	}

	return nil
}

// SearchResult is the answer to one semantic search query
type SearchResult struct {
	Query  string
	Chunks []CodeChunk

	// Metadata carries non-fatal conditions, keyed by the Meta* constants.
	Metadata map[string]any
}

// Validate checks the query and every chunk
func (r *SearchResult) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}

	for i := range r.Chunks {
		if err := r.Chunks[i].Validate(); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	return nil
}

// HasError reports whether the backend or the parser flagged a problem.
func (r *SearchResult) HasError() bool {
	return r.ErrorMessage() != ""
}

// ErrorMessage returns the backend error, else the parse error, else "".
func (r *SearchResult) ErrorMessage() string {
	for _, key := range []string{MetaError, MetaParseError} {
		if v, ok := r.Metadata[key]; ok {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// SetMeta records a metadata value, allocating the map on first use.
func (r *SearchResult) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
