package wire

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxVarintLen is the maximum number of bytes a 64-bit varint can occupy.
const MaxVarintLen = 10

var (
	// ErrTruncated is returned when the input ends before a value is complete.
	ErrTruncated = errors.New("wire: truncated input")
	// ErrOverflow is returned when a varint runs past MaxVarintLen bytes.
	ErrOverflow = errors.New("wire: varint overflows 64 bits")
	// ErrMalformed is returned for field number 0 and unsupported wire types.
	ErrMalformed = errors.New("wire: malformed field")
)

// AppendVarint appends v as an unsigned LEB128 varint.
// Uses protobuf-style encoding: 7 bits of data per byte, MSB indicates continuation.
func AppendVarint(buf []byte, v uint64) []byte {
	return protowire.AppendVarint(buf, v)
}

// EncodeVarint returns v as a freshly allocated varint.
func EncodeVarint(v uint64) []byte {
	return AppendVarint(make([]byte, 0, SizeVarint(v)), v)
}

// SizeVarint returns the number of bytes needed to encode v.
func SizeVarint(v uint64) int {
	return protowire.SizeVarint(v)
}

// DecodeVarint decodes an unsigned varint from the start of buf.
// Returns the value and the number of bytes consumed. Decoding never reads
// past len(buf) and never more than MaxVarintLen bytes.
func DecodeVarint(buf []byte) (uint64, int, error) {
	var v uint64
	var shift uint

	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, 0, ErrOverflow
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrTruncated
}
