package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/checksum"
	"github.com/dshills/cursor-search-mcp/internal/cursordb"
	"github.com/dshills/cursor-search-mcp/internal/envelope"
	"github.com/dshills/cursor-search-mcp/internal/gitinfo"
	"github.com/dshills/cursor-search-mcp/internal/message"
	"github.com/dshills/cursor-search-mcp/internal/pathcrypt"
	"github.com/dshills/cursor-search-mcp/internal/response"
	"github.com/dshills/cursor-search-mcp/pkg/types"
)

// RPC paths relative to the base URL.
const (
	MethodSemSearch          = "/aiserver.v1.RepositoryService/SemSearch"
	MethodSearchRepositoryV2 = "/aiserver.v1.RepositoryService/SearchRepositoryV2"
	MethodEnsureIndexCreated = "/aiserver.v1.RepositoryService/EnsureIndexCreated"
)

const (
	contentType   = "application/connect+proto"
	maxReplyBytes = 32 << 20
	errBodyLimit  = 200
)

var (
	ErrNoToken      = errors.New("client: access token is required")
	ErrNoRepository = errors.New("client: repository name and owner are required")
	ErrSearchFailed = errors.New("search failed")
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL       string
	Credentials   auth.Credentials
	ClientVersion string
	MachineID     string

	Repo gitinfo.RepoInfo
	// Keys are the workspace's registered repo keys, nil when unknown.
	Keys *cursordb.RepoKeys
	// PathKey overrides Keys.PathEncryptionKey.
	PathKey string
	// IsLocal marks a repository without a hosted remote.
	IsLocal bool

	Timeout   time.Duration
	Retry     RetryConfig
	CacheSize int
	CacheTTL  time.Duration

	HTTPClient *http.Client
	Logger     zerolog.Logger
	// Now drives the checksum header. Defaults to time.Now.
	Now func() time.Time
}

// Query is one search request.
type Query struct {
	Text string
	// TargetDirectory limits the search to one directory or file.
	TargetDirectory string
	TopK            int
	Rerank          bool
}

// Client talks to the repository search service.
type Client struct {
	baseURL    string
	token      string
	version    string
	checksum   checksum.Generator
	httpClient *http.Client
	retry      RetryConfig
	cache      *resultCache
	parser     *response.Parser
	scheme     pathcrypt.Scheme
	repo       message.RepositoryInfo
	workspace  string
	logger     zerolog.Logger
}

type reply struct {
	status int
	body   []byte
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.Credentials.AccessToken == "" {
		return nil, ErrNoToken
	}
	if opts.Repo.Name == "" || opts.Repo.Owner == "" {
		return nil, ErrNoRepository
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://repo42.cursor.sh"
	}
	version := opts.ClientVersion
	if version == "" {
		version = auth.DefaultClientVersion
	}

	pathKey := opts.PathKey
	if pathKey == "" && opts.Keys != nil {
		pathKey = opts.Keys.PathEncryptionKey
	}
	scheme, err := pathcrypt.New(pathKey)
	if err != nil {
		return nil, fmt.Errorf("path encryption key: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	return &Client{
		baseURL:    baseURL,
		token:      opts.Credentials.AccessToken,
		version:    version,
		checksum:   checksum.Generator{MachineID: opts.MachineID, Now: opts.Now},
		httpClient: httpClient,
		retry:      retry,
		cache:      newResultCache(opts.CacheSize, opts.CacheTTL),
		parser:     response.NewParser(),
		scheme:     scheme,
		repo:       repositoryInfo(opts),
		workspace:  opts.Repo.WorkspacePath,
		logger:     opts.Logger.With().Str("component", "client").Logger(),
	}, nil
}

// repositoryInfo builds the identity sent with every request. Hosted
// repositories without a known remote are assumed to live on GitHub.
func repositoryInfo(opts Options) message.RepositoryInfo {
	info := message.RepositoryInfo{
		RepoName:  opts.Repo.Name,
		RepoOwner: opts.Repo.Owner,
		IsTracked: true,
		IsLocal:   opts.IsLocal,
	}
	if !opts.IsLocal {
		info.RemoteURL = fmt.Sprintf("https://github.com/%s/%s", opts.Repo.Owner, opts.Repo.Name)
	}
	if opts.Keys != nil {
		if opts.Keys.RepoName != "" {
			info.RepoName = opts.Keys.RepoName
		}
		info.TransformSeed = opts.Keys.TransformSeed
	}
	return info
}

// Encrypted reports whether paths are encrypted on the wire.
func (c *Client) Encrypted() bool {
	return c.scheme.Enabled()
}

// Search runs a semantic search. SemSearch is tried first; any non-200
// answer falls back to SearchRepositoryV2. Backend trailer errors and
// unrecognised payloads are reported through the result metadata, not as
// errors.
func (c *Client) Search(ctx context.Context, q Query) (*types.SearchResult, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, types.ErrEmptyQuery
	}
	topK := q.TopK
	if topK <= 0 {
		topK = 10
	}

	req := message.SearchRepositoryRequest{
		Query:      q.Text,
		Repository: c.repo,
		TopK:       uint32(topK),
		Rerank:     q.Rerank,
		GlobFilter: c.globFilter(q.TargetDirectory),
	}
	semPayload := message.SemSearchRequest{Request: req}.Marshal()

	key := cacheKey(MethodSemSearch, semPayload)
	if cached, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("query", q.Text).Msg("search cache hit")
		return cached, nil
	}

	rep, err := c.call(ctx, MethodSemSearch, semPayload)
	if err != nil {
		return nil, err
	}
	if rep.status != http.StatusOK {
		c.logger.Debug().Int("status", rep.status).Msg("SemSearch rejected, falling back to SearchRepositoryV2")
		rep, err = c.call(ctx, MethodSearchRepositoryV2, req.Marshal())
		if err != nil {
			return nil, err
		}
	}
	if rep.status != http.StatusOK {
		return nil, fmt.Errorf("%w with status %d: %s", ErrSearchFailed, rep.status, snippet(rep.body))
	}

	result, err := c.decode(rep.body, q.Text)
	if err != nil {
		return nil, err
	}
	if !result.HasError() {
		c.cache.Add(key, result)
	}
	return result, nil
}

func (c *Client) globFilter(target string) string {
	target = strings.TrimRight(strings.TrimSpace(target), "/")
	if target == "" {
		return ""
	}
	glob := target + "/**"
	if c.scheme.Enabled() {
		glob = pathcrypt.EncryptGlob(c.scheme, glob)
	}
	return glob
}

// decode turns a response body into a SearchResult.
func (c *Client) decode(body []byte, query string) (*types.SearchResult, error) {
	result := &types.SearchResult{Query: query}

	stream := envelope.Unwrap(body)
	if stream.DecompressFailures > 0 {
		c.logger.Warn().Int("frames", stream.DecompressFailures).Msg("compressed frames could not be inflated")
	}
	var terr *envelope.TrailerError
	if errors.As(stream.Err(), &terr) {
		result.SetMeta(types.MetaError, terr.Text())
	}

	parsed := c.parser.ParseAll(stream.Messages)
	if parsed.Strategy != "" {
		result.SetMeta(types.MetaStrategy, parsed.Strategy)
	}
	if parsed.Diagnostics != nil && len(parsed.Results) == 0 {
		result.SetMeta(types.MetaParseError, parsed.Diagnostics.Error)
		result.SetMeta(types.MetaRawLength, len(body))
		c.logger.Warn().
			Int("raw_length", len(body)).
			Strs("attempted", parsed.Diagnostics.Attempted).
			Msg(parsed.Diagnostics.Error)
	}

	for _, r := range parsed.Results {
		block := r.CodeBlock
		if block.Path == "" {
			continue
		}
		path, err := pathcrypt.DecryptPath(c.scheme, block.Path)
		if err != nil {
			return nil, fmt.Errorf("decrypt result path %q: %w", block.Path, err)
		}

		chunk := types.CodeChunk{
			FilePath:  path,
			Content:   block.DisplayText(),
			StartLine: int(block.Range.Start.Line),
			EndLine:   int(block.Range.End.Line),
			Score:     r.Score,
		}
		if chunk.Content == "" {
			chunk.Content = readLines(c.workspace, path, chunk.StartLine, chunk.EndLine)
		}
		result.Chunks = append(result.Chunks, chunk)
	}

	return result, nil
}

// EnsureIndexCreated asks the backend to index the repository. It reports
// whether the backend accepted the request.
func (c *Client) EnsureIndexCreated(ctx context.Context) (bool, error) {
	payload := message.EnsureIndexCreatedRequest{Repository: c.repo}.Marshal()
	rep, err := c.call(ctx, MethodEnsureIndexCreated, payload)
	if err != nil {
		return false, err
	}
	if rep.status != http.StatusOK {
		c.logger.Debug().Int("status", rep.status).Str("body", snippet(rep.body)).Msg("EnsureIndexCreated rejected")
		return false, nil
	}
	return true, nil
}

// Close releases idle connections and drops cached results.
func (c *Client) Close() error {
	c.cache.Purge()
	c.httpClient.CloseIdleConnections()
	return nil
}

// call posts one enveloped message. Transport failures and overload
// statuses (429, 502, 503, 504) are retried; any other HTTP status is
// returned to the caller on the first attempt.
func (c *Client) call(ctx context.Context, method string, payload []byte) (reply, error) {
	body := envelope.Wrap(payload, false)
	url := c.baseURL + method

	rep, err := retryWithBackoff(ctx, c.retry, func() (reply, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return reply{}, permanent(fmt.Errorf("failed to create request: %w", err))
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug().Err(err).Str("method", method).Msg("request failed")
			return reply{}, fmt.Errorf("%s request failed: %w", method, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
		if err != nil {
			return reply{}, fmt.Errorf("failed to read %s response: %w", method, err)
		}

		c.logger.Debug().
			Str("method", method).
			Int("status", resp.StatusCode).
			Int("bytes", len(data)).
			Dur("elapsed", time.Since(start)).
			Msg("rpc complete")
		rep := reply{status: resp.StatusCode, body: data}
		if retryableStatus(rep.status) {
			return reply{}, &statusError{rep: rep}
		}
		return rep, nil
	})

	var unavailable *statusError
	if errors.As(err, &unavailable) {
		return unavailable.rep, nil
	}
	return rep, err
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Cursor-Client-Version", c.version)
	req.Header.Set("X-Cursor-Checksum", c.checksum.Header())
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Connect-Protocol-Version", "1")
	req.Header.Set("Accept", contentType)
}

func snippet(body []byte) string {
	if len(body) > errBodyLimit {
		body = body[:errBodyLimit]
	}
	return strings.ToValidUTF8(string(body), "�")
}
