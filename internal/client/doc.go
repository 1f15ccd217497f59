// Package client is the HTTP client for the repository search service.
//
// Requests are Connect unary calls: each body is one enveloped protobuf
// message and the answer is a stream of frames that may end in a JSON
// trailer. Search tries SemSearch and falls back to SearchRepositoryV2 when
// the backend rejects it. Response payloads go through the adaptive parser,
// so results survive either backend generation.
//
// When the workspace has a path encryption key, glob filters are encrypted
// before sending and result paths are decrypted on the way back. A path
// that does not decrypt fails the whole search.
//
// Successful results are cached in an expiring LRU keyed by the method and
// the exact request bytes.
package client
