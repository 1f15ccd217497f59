package pathcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	prefixLen = 6
	blockPad  = 4
)

var (
	// ErrInvalidKey is returned when the master key is not base64url or decodes to nothing.
	ErrInvalidKey = errors.New("pathcrypt: invalid master key")
	// ErrCorruptToken is returned when a token cannot be decrypted back to a path segment.
	ErrCorruptToken = errors.New("pathcrypt: corrupt token")
)

// Scheme encrypts individual path segments.
type Scheme interface {
	Encrypt(segment string) string
	Decrypt(token string) (string, error)
	// Enabled reports whether the scheme changes its input.
	Enabled() bool
}

// New returns NoOp for an empty key and a Keyed scheme otherwise. The key is
// base64url with or without padding.
func New(masterKey string) (Scheme, error) {
	if masterKey == "" {
		return NoOp{}, nil
	}
	raw, err := decodeB64URL(masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no key material", ErrInvalidKey)
	}
	return NewKeyed(raw), nil
}

// NoOp leaves segments unchanged.
type NoOp struct{}

func (NoOp) Encrypt(segment string) string { return segment }

func (NoOp) Decrypt(token string) (string, error) { return token, nil }

func (NoOp) Enabled() bool { return false }

// Keyed is the AES-256-CTR scheme with a truncated HMAC-SHA256 prefix acting as
// both IV and integrity tag. Its keys are fixed at construction and it is safe
// for concurrent use.
type Keyed struct {
	macKey [sha256.Size]byte
	block  cipher.Block
}

// NewKeyed derives the MAC and encryption subkeys from the raw master key.
func NewKeyed(master []byte) *Keyed {
	k := &Keyed{macKey: sha256.Sum256(append(append([]byte{}, master...), 0x00))}
	encKey := sha256.Sum256(append(append([]byte{}, master...), 0x01))
	// A 32 byte key always yields an AES-256 cipher.
	k.block, _ = aes.NewCipher(encKey[:])
	return k
}

// Enabled implements Scheme.
func (k *Keyed) Enabled() bool { return true }

// Encrypt returns base64url(prefix || AES-CTR(segment NUL-padded to 4 bytes))
// without padding, where prefix is the first 6 bytes of HMAC(segment).
func (k *Keyed) Encrypt(segment string) string {
	prefix := k.tag([]byte(segment))

	pad := (blockPad - len(segment)%blockPad) % blockPad
	plain := make([]byte, len(segment)+pad)
	copy(plain, segment)

	out := make([]byte, prefixLen+len(plain))
	copy(out, prefix)
	k.stream(prefix).XORKeyStream(out[prefixLen:], plain)
	return base64.RawURLEncoding.EncodeToString(out)
}

// Decrypt reverses Encrypt. The recovered segment must be valid UTF-8 and
// must reproduce the prefix, otherwise ErrCorruptToken is returned.
func (k *Keyed) Decrypt(token string) (string, error) {
	raw, err := decodeB64URL(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptToken, err)
	}
	if len(raw) < prefixLen {
		return "", fmt.Errorf("%w: %d bytes is shorter than the %d byte prefix", ErrCorruptToken, len(raw), prefixLen)
	}

	prefix := raw[:prefixLen]
	plain := make([]byte, len(raw)-prefixLen)
	k.stream(prefix).XORKeyStream(plain, raw[prefixLen:])
	plain = []byte(strings.TrimRight(string(plain), "\x00"))

	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not UTF-8", ErrCorruptToken)
	}
	if !hmac.Equal(prefix, k.tag(plain)) {
		return "", fmt.Errorf("%w: prefix mismatch", ErrCorruptToken)
	}
	return string(plain), nil
}

func (k *Keyed) tag(segment []byte) []byte {
	mac := hmac.New(sha256.New, k.macKey[:])
	mac.Write(segment)
	return mac.Sum(nil)[:prefixLen]
}

func (k *Keyed) stream(prefix []byte) cipher.Stream {
	iv := make([]byte, aes.BlockSize)
	copy(iv, prefix)
	return cipher.NewCTR(k.block, iv)
}

func decodeB64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
