// Package types provides shared type definitions for the cursor-search MCP server.
//
// # Search Results
//
// SearchResult groups the CodeChunk values returned for one query:
//
//	result := &types.SearchResult{
//	    Query: "where are retries configured",
//	    Chunks: []types.CodeChunk{{
//	        FilePath:  "internal/client/retry.go",
//	        StartLine: 12,
//	        EndLine:   48,
//	        Score:     0.83,
//	    }},
//	}
//
// Conditions that are not failures, such as a backend trailer error or a
// response no parser strategy recognised, are carried in Metadata:
//
//	if result.HasError() {
//	    fmt.Println(result.ErrorMessage())
//	}
//
// # Validation
//
// Validate checks that every chunk has a path and a sane line range:
//
//	if err := result.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
