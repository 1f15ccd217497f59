package response

import (
	"github.com/dshills/cursor-search-mcp/internal/message"
	"github.com/dshills/cursor-search-mcp/internal/wire"
)

// Strategy interprets a payload as one candidate response shape. It reports
// false when the payload does not fit that shape or yields nothing plausible.
type Strategy interface {
	Name() string
	Parse(payload []byte) ([]message.CodeResult, bool)
}

// DefaultMaxDepth bounds recursion in the manual strategy.
const DefaultMaxDepth = 8

// Wrapped reads a SemSearchResponse: field 1 is a nested response whose list
// holds either classification wrappers or bare results, and field 3 holds
// classification wrappers directly.
type Wrapped struct{}

// Name implements Strategy.
func (Wrapped) Name() string { return "wrapped" }

// Parse implements Strategy.
func (Wrapped) Parse(payload []byte) ([]message.CodeResult, bool) {
	var out []message.CodeResult
	err := eachField(payload, func(f wire.Field) bool {
		if f.Type != wire.BytesType {
			return true
		}
		switch f.Number {
		case message.ResultsField:
			if rs, ok := classifiedList(f.Bytes); ok {
				out = append(out, rs...)
				return true
			}
			if rs, ok := plainList(f.Bytes); ok {
				out = append(out, rs...)
				return true
			}
			return false
		case message.ClassifiedField:
			r, ok := classified(f.Bytes)
			if ok {
				out = append(out, r)
			}
			return ok
		}
		return true
	})
	if err != nil || len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Plain reads a SearchRepositoryResponse: a repeated CodeResult at field 1.
type Plain struct{}

// Name implements Strategy.
func (Plain) Name() string { return "plain" }

// Parse implements Strategy.
func (Plain) Parse(payload []byte) ([]message.CodeResult, bool) {
	out, ok := plainList(payload)
	if !ok || len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Manual walks top-level fields and decides per entry. A field 1 payload that
// does not decode to a result whose path LooksLikePath is treated as a nested
// response and walked again, up to MaxDepth levels. Unlike Wrapped and Plain it keeps
// whatever it can salvage.
type Manual struct {
	MaxDepth int
}

// Name implements Strategy.
func (Manual) Name() string { return "manual" }

// Parse implements Strategy.
func (m Manual) Parse(payload []byte) ([]message.CodeResult, bool) {
	depth := m.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	out := m.walk(payload, depth, nil)
	return out, len(out) > 0
}

func (m Manual) walk(payload []byte, depth int, out []message.CodeResult) []message.CodeResult {
	if depth == 0 {
		return out
	}
	// A read error ends this level; results found before it stay.
	_ = eachField(payload, func(f wire.Field) bool {
		if f.Type != wire.BytesType {
			return true
		}
		switch f.Number {
		case message.ResultsField:
			var r message.CodeResult
			if err := r.Unmarshal(f.Bytes); err == nil && LooksLikePath(r.CodeBlock.Path) {
				out = append(out, r)
			} else {
				out = m.walk(f.Bytes, depth-1, out)
			}
		case message.ClassifiedField:
			if r, ok := classified(f.Bytes); ok {
				out = append(out, r)
			}
		}
		return true
	})
	return out
}

// eachField calls fn for each top-level field until fn returns false. It
// returns errRejected in that case and the reader error if the payload is
// malformed.
func eachField(payload []byte, fn func(wire.Field) bool) error {
	r := wire.NewReader(payload)
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return err
		}
		if !fn(f) {
			return errRejected
		}
	}
	return nil
}

// plainList decodes a repeated CodeResult list. Every entry must decode
// cleanly and carry a printable path.
func plainList(payload []byte) ([]message.CodeResult, bool) {
	var out []message.CodeResult
	err := eachField(payload, func(f wire.Field) bool {
		if f.Number != message.ResultsField || f.Type != wire.BytesType {
			return true
		}
		var r message.CodeResult
		if err := r.Unmarshal(f.Bytes); err != nil || !printablePath(r.CodeBlock.Path) {
			return false
		}
		out = append(out, r)
		return true
	})
	if err != nil || len(out) == 0 {
		return nil, false
	}
	return out, true
}

// classifiedList decodes a repeated classification wrapper list with the same
// all-or-nothing rule as plainList.
func classifiedList(payload []byte) ([]message.CodeResult, bool) {
	var out []message.CodeResult
	err := eachField(payload, func(f wire.Field) bool {
		if f.Number != message.ResultsField || f.Type != wire.BytesType {
			return true
		}
		r, ok := classified(f.Bytes)
		if ok {
			out = append(out, r)
		}
		return ok
	})
	if err != nil || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func classified(payload []byte) (message.CodeResult, bool) {
	var c message.ClassifiedResult
	if err := c.Unmarshal(payload); err != nil || !printablePath(c.Result.CodeBlock.Path) {
		return message.CodeResult{}, false
	}
	return c.Result, true
}
