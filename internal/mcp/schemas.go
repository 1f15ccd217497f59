package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool and resource names
const (
	ToolCodebaseSearch = "codebase_search"
	ToolEnsureIndexed  = "ensure_codebase_indexed"
	ToolRefreshRepo    = "refresh_repo_info"
	StatusURI          = "cursor://status"
)

// codebaseSearchTool returns the tool definition for codebase_search
func codebaseSearchTool() mcp.Tool {
	return mcp.Tool{
		Name: ToolCodebaseSearch,
		Description: "Semantic search that finds code by meaning, not exact text. " +
			"Use it to explore unfamiliar code and to answer how/where/what questions. " +
			"Do not use it for exact text matches, reading known files, symbol lookups or finding files by name.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type": "string",
					"description": "A complete question about what you want to understand, asked as if talking to a colleague. " +
						"GOOD: 'Where do we encrypt user passwords before saving?' BAD: single words like 'AuthService', or several questions at once.",
				},
				"explanation": map[string]interface{}{
					"type":        "string",
					"description": "One sentence explaining why this tool is being used and how it contributes to the goal",
				},
				"target_directories": map[string]interface{}{
					"type":        "array",
					"description": "At most ONE directory or file path prefix to limit the search, or [] to search the whole repository. Globs and wildcards are not supported.",
					"items": map[string]interface{}{
						"type": "string",
					},
					"default": []string{},
				},
			},
			Required: []string{"query", "explanation"},
		},
	}
}

// ensureIndexedTool returns the tool definition for ensure_codebase_indexed
func ensureIndexedTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolEnsureIndexed,
		Description: "Ensure the current codebase is indexed for semantic search. Usually only needed once per repository.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// refreshRepoTool returns the tool definition for refresh_repo_info
func refreshRepoTool() mcp.Tool {
	return mcp.Tool{
		Name: ToolRefreshRepo,
		Description: "Re-detect the repository from git. Use after switching branches or directories, " +
			"or when the repository info seems stale.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// statusResource returns the resource definition for cursor://status
func statusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Cursor search status",
		mcp.WithResourceDescription("Authentication and repository configuration of the search integration"),
		mcp.WithMIMEType("text/markdown"),
	)
}
