package pathcrypt

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pathSeparators = regexp.MustCompile(`[./\\]`)
	globDelimiters = regexp.MustCompile(`[{}\\/.,]`)
)

// EncryptPath encrypts every name in path and leaves '.', '/' and '\'
// in place, so the token structure of the path stays visible.
func EncryptPath(s Scheme, path string) string {
	if !s.Enabled() {
		return path
	}
	var b strings.Builder
	for _, tok := range splitKeep(pathSeparators, path) {
		if tok.sep {
			b.WriteString(tok.text)
			continue
		}
		b.WriteString(s.Encrypt(tok.text))
	}
	return b.String()
}

// DecryptPath reverses EncryptPath. The first segment that fails to decrypt
// aborts the whole path.
func DecryptPath(s Scheme, path string) (string, error) {
	if !s.Enabled() {
		return path, nil
	}
	var b strings.Builder
	for _, tok := range splitKeep(pathSeparators, path) {
		if tok.sep {
			b.WriteString(tok.text)
			continue
		}
		plain, err := s.Decrypt(tok.text)
		if err != nil {
			return "", fmt.Errorf("decrypt path segment %q: %w", tok.text, err)
		}
		b.WriteString(plain)
	}
	return b.String(), nil
}

// EncryptGlob encrypts the literal names of a glob pattern. Delimiters and
// "**" are kept. Any other name containing '*' becomes a single "*", since a
// partly wildcarded name cannot be matched against encrypted names.
func EncryptGlob(s Scheme, pattern string) string {
	if !s.Enabled() {
		return pattern
	}
	var b strings.Builder
	for _, tok := range splitKeep(globDelimiters, pattern) {
		switch {
		case tok.sep, tok.text == "**":
			b.WriteString(tok.text)
		case strings.Contains(tok.text, "*"):
			b.WriteByte('*')
		default:
			b.WriteString(s.Encrypt(tok.text))
		}
	}
	return b.String()
}

type token struct {
	text string
	sep  bool
}

// splitKeep splits s around re and returns the separators as tokens of their
// own. Empty names between adjacent separators are dropped.
func splitKeep(re *regexp.Regexp, s string) []token {
	var out []token
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			out = append(out, token{text: s[last:loc[0]]})
		}
		out = append(out, token{text: s[loc[0]:loc[1]], sep: true})
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, token{text: s[last:]})
	}
	return out
}
