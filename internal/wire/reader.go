package wire

import (
	"fmt"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field is one decoded tag and its value. Only the member matching Type is set.
type Field struct {
	Number  Number
	Type    Type
	Varint  uint64
	Fixed32 uint32
	Fixed64 uint64
	Bytes   []byte // sub-slice of the input for BytesType
}

// Float64 interprets a fixed-width field as a floating point number.
// Fixed64 fields are doubles and Fixed32 fields are floats widened to float64.
func (f Field) Float64() (float64, bool) {
	switch f.Type {
	case Fixed64Type:
		return math.Float64frombits(f.Fixed64), true
	case Fixed32Type:
		return float64(math.Float32frombits(f.Fixed32)), true
	default:
		return 0, false
	}
}

// Text returns a length-delimited payload as a string. The second result is
// false when the field is not length-delimited or not valid UTF-8.
func (f Field) Text() (string, bool) {
	if f.Type != BytesType || !utf8.Valid(f.Bytes) {
		return "", false
	}
	return string(f.Bytes), true
}

// Reader walks the top-level fields of one message.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool {
	return r.pos >= len(r.buf)
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.pos
}

// Next decodes the next field. On error the reader does not advance, so the
// caller keeps everything decoded up to the failing tag.
func (r *Reader) Next() (Field, error) {
	rest := r.buf[r.pos:]
	tag, n, err := DecodeVarint(rest)
	if err != nil {
		return Field{}, fmt.Errorf("tag at offset %d: %w", r.pos, err)
	}
	num, typ := protowire.DecodeTag(tag)
	if num < protowire.MinValidNumber {
		return Field{}, fmt.Errorf("field number %d at offset %d: %w", num, r.pos, ErrMalformed)
	}

	f := Field{Number: num, Type: typ}
	body := rest[n:]
	var m int
	switch typ {
	case VarintType:
		f.Varint, m, err = DecodeVarint(body)
	case Fixed64Type:
		var k int
		f.Fixed64, k = protowire.ConsumeFixed64(body)
		m, err = consumed(k)
	case Fixed32Type:
		var k int
		f.Fixed32, k = protowire.ConsumeFixed32(body)
		m, err = consumed(k)
	case BytesType:
		f.Bytes, m, err = consumeBytes(body)
	default:
		err = ErrMalformed
	}
	if err != nil {
		return Field{}, fmt.Errorf("field %d (wire type %d) at offset %d: %w", num, typ, r.pos, err)
	}

	r.pos += n + m
	return f, nil
}

// Skip returns the size of a field value of the given wire type at the start
// of buf, so unknown fields can be stepped over without interpretation.
func Skip(typ Type, buf []byte) (int, error) {
	switch typ {
	case VarintType:
		_, n, err := DecodeVarint(buf)
		return n, err
	case Fixed64Type:
		if len(buf) < 8 {
			return 0, ErrTruncated
		}
		return 8, nil
	case BytesType:
		_, n, err := consumeBytes(buf)
		return n, err
	case Fixed32Type:
		if len(buf) < 4 {
			return 0, ErrTruncated
		}
		return 4, nil
	default:
		return 0, ErrMalformed
	}
}

func consumeBytes(buf []byte) ([]byte, int, error) {
	length, n, err := DecodeVarint(buf)
	if err != nil {
		return nil, 0, err
	}
	if length > uint64(len(buf)-n) {
		return nil, 0, ErrTruncated
	}
	end := n + int(length)
	return buf[n:end:end], end, nil
}

func consumed(n int) (int, error) {
	if n < 0 {
		return 0, ErrTruncated
	}
	return n, nil
}
