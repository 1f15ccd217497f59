package client

import (
	"crypto/sha256"
	"maps"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dshills/cursor-search-mcp/pkg/types"
)

// resultCache holds recent search results keyed by method and request bytes.
type resultCache struct {
	lru *expirable.LRU[[32]byte, *types.SearchResult]
}

// newResultCache returns nil when size is not positive.
func newResultCache(size int, ttl time.Duration) *resultCache {
	if size <= 0 {
		return nil
	}
	return &resultCache{lru: expirable.NewLRU[[32]byte, *types.SearchResult](size, nil, ttl)}
}

func cacheKey(method string, request []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write(request)
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Get returns a copy so callers cannot mutate the cached value.
func (c *resultCache) Get(key [32]byte) (*types.SearchResult, bool) {
	if c == nil {
		return nil, false
	}
	r, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneResult(r), true
}

func (c *resultCache) Add(key [32]byte, r *types.SearchResult) {
	if c == nil {
		return
	}
	c.lru.Add(key, cloneResult(r))
}

func (c *resultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *resultCache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}

func cloneResult(r *types.SearchResult) *types.SearchResult {
	out := &types.SearchResult{Query: r.Query}
	if r.Chunks != nil {
		out.Chunks = append([]types.CodeChunk(nil), r.Chunks...)
	}
	if r.Metadata != nil {
		out.Metadata = maps.Clone(r.Metadata)
	}
	return out
}
