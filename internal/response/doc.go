// Package response turns decoded message payloads into code results when the
// payload's shape is not known in advance.
//
// SemSearch and SearchRepositoryV2 answer with different messages that share
// field 1 as a length-delimited field: a repeated CodeResult in one, a nested
// response in the other. The wire bytes alone do not say which. Parser tries an
// ordered list of Strategy values and accepts the first whose entries all
// decode cleanly with a printable path. The manual fallback additionally uses
// LooksLikePath to tell a result from a nested response.
package response
