package response

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/cursor-search-mcp/internal/message"
	"github.com/dshills/cursor-search-mcp/internal/wire"
)

var errRejected = errors.New("response: entry rejected")

// Diagnostics explains why a non-empty payload produced no results.
type Diagnostics struct {
	Error     string
	RawLength int
	Attempted []string
}

// Result is the outcome of parsing one or more response payloads.
type Result struct {
	Results []message.CodeResult
	// Strategy names the strategy that produced Results. Empty when nothing matched.
	Strategy    string
	Diagnostics *Diagnostics
}

// Parser tries its strategies in order and keeps the first that succeeds.
type Parser struct {
	strategies []Strategy
}

// NewParser returns a Parser over the given strategies. With no arguments it
// uses Wrapped, Plain and Manual in that order.
func NewParser(strategies ...Strategy) *Parser {
	if len(strategies) == 0 {
		strategies = []Strategy{Wrapped{}, Plain{}, Manual{MaxDepth: DefaultMaxDepth}}
	}
	return &Parser{strategies: strategies}
}

var defaultParser = NewParser()

// Parse parses payload with the default strategies.
func Parse(payload []byte) Result {
	return defaultParser.Parse(payload)
}

// ParseAll parses messages with the default strategies.
func ParseAll(messages [][]byte) Result {
	return defaultParser.ParseAll(messages)
}

// Parse resolves payload into code results. It never fails: when no strategy
// matches a non-empty payload the result is empty and Diagnostics is set.
func (p *Parser) Parse(payload []byte) Result {
	if len(payload) == 0 {
		return Result{}
	}

	attempted := make([]string, 0, len(p.strategies))
	for _, s := range p.strategies {
		attempted = append(attempted, s.Name())
		if rs, ok := s.Parse(payload); ok && len(rs) > 0 {
			return Result{Results: rs, Strategy: s.Name()}
		}
	}

	return Result{Diagnostics: &Diagnostics{
		Error:     describe(payload),
		RawLength: len(payload),
		Attempted: attempted,
	}}
}

// ParseAll parses each message and concatenates the results in order.
// Diagnostics are reported for the first message that matched nothing.
func (p *Parser) ParseAll(messages [][]byte) Result {
	var out Result
	var used []string
	for _, m := range messages {
		r := p.Parse(m)
		out.Results = append(out.Results, r.Results...)
		if r.Strategy != "" && !slices.Contains(used, r.Strategy) {
			used = append(used, r.Strategy)
		}
		if r.Diagnostics != nil && out.Diagnostics == nil {
			out.Diagnostics = r.Diagnostics
		}
	}
	out.Strategy = strings.Join(used, ",")
	return out
}

func describe(payload []byte) string {
	r := wire.NewReader(payload)
	for !r.Done() {
		if _, err := r.Next(); err != nil {
			return fmt.Sprintf("unrecognised response shape: %v", err)
		}
	}
	return "unrecognised response shape: no entry with a printable path"
}

// LooksLikePath reports whether s is plausibly a file path rather than the
// start of a nested message: a printable path containing at least one of
// '/', '\' or '.'. Manual uses it to choose between keeping a field 1 entry
// and recursing into it. It does not validate paths.
func LooksLikePath(s string) bool {
	return printablePath(s) && strings.ContainsAny(s, `/\.`)
}

// printablePath reports whether s is non-empty valid UTF-8 free of control
// and non-printing characters. Root files such as "Makefile" and encrypted
// single-segment paths pass.
func printablePath(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
