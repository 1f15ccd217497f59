// Package mcp implements the Model Context Protocol (MCP) server for Cursor
// codebase search.
//
// The server exposes three tools and one resource to AI coding assistants:
//   - codebase_search: Semantic search over the current repository's index
//   - ensure_codebase_indexed: Ask the backend to build the index
//   - refresh_repo_info: Re-detect the repository from git
//   - cursor://status: Authentication and repository configuration
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only. Logs go to stderr.
//
// # Tool: codebase_search
//
//	Request:
//	{
//	  "name": "codebase_search",
//	  "arguments": {
//	    "query": "Where do we encrypt user passwords before saving?",
//	    "explanation": "Find the password hashing code",
//	    "target_directories": ["internal/auth/"]
//	  }
//	}
//
// The query must contain at least ten non-space characters and at most one
// question mark. At most one target directory is accepted and it may not
// contain wildcards. Violations come back as tool errors that tell the agent
// how to rephrase.
//
// Results are rendered as markdown, one fenced block per chunk:
//
//	## Search Results for: Where do we encrypt user passwords before saving?
//	**Explanation:** Find the password hashing code
//	**Found 1 relevant chunks:**
//
//	### Result 1: internal/auth/hash.go
//	**Lines 12-40** (score: 0.871)
//
// A backend "not indexed" error is turned into instructions for indexing
// the repository in Cursor.
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "cursor-search": {
//	      "command": "/usr/local/bin/cursor-search",
//	      "args": ["serve"]
//	    }
//	  }
//	}
//
// # Error Handling
//
// Malformed arguments produce an *MCPError with code -32602. Everything else
// (missing login, unknown repository, backend failures) is reported as a tool
// result with IsError set so the agent can read the message.
package mcp
