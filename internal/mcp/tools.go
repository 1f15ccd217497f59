package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/client"
	"github.com/dshills/cursor-search-mcp/pkg/types"
)

// ErrorCodeInvalidParams is the JSON-RPC code for malformed tool arguments.
const ErrorCodeInvalidParams = -32602

// minQueryChars is the minimum number of non-space characters in a query.
const minQueryChars = 10

// Validation errors. Their text is shown to the calling agent.
var (
	ErrQueryTooShort = errors.New("query too short. Please provide a complete question like " +
		"'How does X work?' or 'Where is Y handled?'")
	ErrMultipleQuestions = errors.New("query contains multiple questions. Please split into separate " +
		"parallel searches for better results. For example, instead of " +
		"'What is AuthService? How does AuthService work?' use two separate calls")
	ErrMultipleTargets = errors.New("multiple target directories provided. Please provide only ONE " +
		"directory path, or use [] to search everywhere")
	ErrGlobTarget = errors.New("glob patterns are not supported. Please provide a specific " +
		"directory path like 'src/components/' without wildcards")
)

const loginHint = "Please ensure Cursor is installed and you're logged in."

// handleCodebaseSearch handles the codebase_search tool invocation
func (s *Server) handleCodebaseSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := getStringDefault(args, "query", "")
	explanation := getStringDefault(args, "explanation", "")
	targets, err := getStringSlice(args, "target_directories")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid target_directories", map[string]interface{}{
			"param":  "target_directories",
			"reason": err.Error(),
		})
	}

	target, err := ValidateSearchArgs(query, targets)
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}

	c, repo, err := s.searchClient(ctx)
	if err != nil {
		return mcp.NewToolResultError(setupErrorText(err)), nil
	}

	result, err := c.Search(ctx, client.Query{
		Text:            query,
		TargetDirectory: target,
		TopK:            s.cfg.TopK,
		Rerank:          s.cfg.Rerank,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("search failed")
		return mcp.NewToolResultError(fmt.Sprintf("Error performing search: %v", err)), nil
	}

	if msg, ok := result.Metadata[types.MetaError].(string); ok && msg != "" {
		if IsNotIndexed(msg) {
			return mcp.NewToolResultError(NotIndexedHint(repo.Owner, repo.Name)), nil
		}
		return mcp.NewToolResultError("API Error: " + msg), nil
	}

	return mcp.NewToolResultText(FormatResults(result, explanation)), nil
}

// handleEnsureIndexed handles the ensure_codebase_indexed tool invocation
func (s *Server) handleEnsureIndexed(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.indexLock.TryAcquire() {
		return mcp.NewToolResultError("An index request is already in progress. Try again shortly."), nil
	}
	defer s.indexLock.Release()

	c, _, err := s.searchClient(ctx)
	if err != nil {
		return mcp.NewToolResultError(setupErrorText(err)), nil
	}

	ok, err := c.EnsureIndexCreated(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error ensuring index: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText("Failed to ensure index. The repository may not be configured."), nil
	}
	return mcp.NewToolResultText("Codebase index is ready for semantic search."), nil
}

// handleRefreshRepo handles the refresh_repo_info tool invocation
func (s *Server) handleRefreshRepo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := s.repoInfo(ctx, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error refreshing repo info: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`Repository info refreshed successfully!

- Repository: %s/%s
- Workspace: %s
- Remote URL: %s
`, repo.Owner, repo.Name, repo.WorkspacePath, orNA(repo.RemoteURL))), nil
}

// handleStatus serves the cursor://status resource
func (s *Server) handleStatus(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var b strings.Builder
	b.WriteString("Cursor Search MCP Status:\n")

	creds, err := s.deps.LoadCredentials(ctx)
	if err != nil {
		fmt.Fprintf(&b, "- Authentication: Not configured (%v)\n", err)
	} else {
		fmt.Fprintf(&b, "- Authentication: Configured (token: %s)\n", auth.TokenPreview(creds.AccessToken))
		if id, ok := auth.AuthID(creds.AccessToken); ok {
			fmt.Fprintf(&b, "- Account: %s\n", id)
		}
	}

	repo, err := s.repoInfo(ctx, false)
	if err != nil {
		wd, _ := os.Getwd()
		fmt.Fprintf(&b, "- Repository: Error: %v\n- Workspace: %s\n- Remote URL: N/A\n- Config Source: not configured\n", err, wd)
	} else {
		source := "environment variables"
		if repo.RemoteURL != "" {
			source = "auto-detected from git"
		}
		fmt.Fprintf(&b, "- Repository: %s/%s\n- Workspace: %s\n- Remote URL: %s\n- Config Source: %s\n",
			repo.Owner, repo.Name, repo.WorkspacePath, orNA(repo.RemoteURL), source)
	}

	fmt.Fprintf(&b, "- Backend: %s (client version %s)\n", s.cfg.BaseURL, s.cfg.ClientVersion)
	if s.indexLock.Held() {
		b.WriteString("- Index request: in progress\n")
	}
	b.WriteString("\nTip: Use the refresh_repo_info tool to update after switching repos.\n")

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}

// ValidateSearchArgs checks a codebase_search request and returns the single
// target directory, or "" to search everywhere.
func ValidateSearchArgs(query string, targets []string) (string, error) {
	n := 0
	for _, r := range query {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	if n < minQueryChars {
		return "", ErrQueryTooShort
	}
	if strings.Count(query, "?") > 1 {
		return "", ErrMultipleQuestions
	}

	if len(targets) > 1 {
		return "", ErrMultipleTargets
	}
	if len(targets) == 0 || targets[0] == "" {
		return "", nil
	}
	if strings.ContainsAny(targets[0], "*?") {
		return "", ErrGlobTarget
	}
	return targets[0], nil
}

// IsNotIndexed reports whether a backend error means the repository has no index.
func IsNotIndexed(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "not indexed")
}

// NotIndexedHint explains how to get a repository indexed.
func NotIndexedHint(owner, name string) string {
	return fmt.Sprintf(`Error: Codebase not indexed.

The repository **%s/%s** has not been indexed by Cursor yet.

**To fix this:**
1. Open this repository in Cursor IDE
2. Wait for Cursor to index the codebase (check the status bar)
3. Once indexing is complete, try the search again

Alternatively, you can try the `+"`ensure_codebase_indexed`"+` tool to trigger indexing.
`, owner, name)
}

// FormatResults renders a search result as markdown.
func FormatResults(result *types.SearchResult, explanation string) string {
	if len(result.Chunks) == 0 {
		msg := "No results found for query: " + result.Query
		if perr, ok := result.Metadata[types.MetaParseError]; ok {
			msg += fmt.Sprintf("\n\n(The response could not be parsed: %v)", perr)
		}
		return msg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Search Results for: %s\n", result.Query)
	fmt.Fprintf(&b, "**Explanation:** %s\n", explanation)
	fmt.Fprintf(&b, "**Found %d relevant chunks:**\n\n", len(result.Chunks))

	for i, chunk := range result.Chunks {
		fmt.Fprintf(&b, "### Result %d: %s\n", i+1, chunk.FilePath)
		fmt.Fprintf(&b, "**Lines %d-%d** (score: %.3f)\n\n", chunk.StartLine, chunk.EndLine, chunk.Score)
		b.WriteString("```\n")
		b.WriteString(strings.TrimSpace(chunk.Content))
		b.WriteString("\n```\n\n")
	}

	return b.String()
}

// setupErrorText describes a failure to build the search client.
func setupErrorText(err error) string {
	if errors.Is(err, auth.ErrStateDBNotFound) || errors.Is(err, auth.ErrNoAccessToken) {
		return fmt.Sprintf("Error: %v\n\n%s", err, loginHint)
	}
	return fmt.Sprintf("Error: %v", err)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts an optional array of strings
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is not a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array of strings, got %T", raw)
	}
}
