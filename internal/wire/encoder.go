package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Number is a field number.
type Number = protowire.Number

// Type is the 3-bit wire type carried in every tag.
type Type = protowire.Type

// Wire types understood by this codec.
const (
	VarintType  = protowire.VarintType
	Fixed64Type = protowire.Fixed64Type
	BytesType   = protowire.BytesType
	Fixed32Type = protowire.Fixed32Type
)

// Encoder appends tagged fields to a buffer.
//
// Every scalar writer omits the field entirely when the value is the zero
// value for its kind (empty string, empty bytes, 0, false). Absence means
// default on both ends of the wire.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Tag appends varint((num << 3) | typ).
func (e *Encoder) Tag(num Number, typ Type) {
	e.buf = protowire.AppendTag(e.buf, num, typ)
}

// Str writes a length-delimited UTF-8 string.
func (e *Encoder) Str(num Number, s string) {
	if s == "" {
		return
	}
	e.Tag(num, BytesType)
	e.buf = protowire.AppendString(e.buf, s)
}

// Blob writes a length-delimited byte string.
func (e *Encoder) Blob(num Number, b []byte) {
	if len(b) == 0 {
		return
	}
	e.Tag(num, BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

// Uint32 writes an unsigned varint field.
func (e *Encoder) Uint32(num Number, v uint32) {
	e.Uint64(num, uint64(v))
}

// Uint64 writes an unsigned varint field.
func (e *Encoder) Uint64(num Number, v uint64) {
	if v == 0 {
		return
	}
	e.Tag(num, VarintType)
	e.buf = AppendVarint(e.buf, v)
}

// Bool writes a varint field holding 1.
func (e *Encoder) Bool(num Number, v bool) {
	if !v {
		return
	}
	e.Tag(num, VarintType)
	e.buf = append(e.buf, 1)
}

// Double writes a little-endian 64-bit float.
func (e *Encoder) Double(num Number, v float64) {
	if v == 0 {
		return
	}
	e.writeDouble(num, v)
}

// OptionalDouble writes v when it is non-nil, including an explicit zero.
func (e *Encoder) OptionalDouble(num Number, v *float64) {
	if v == nil {
		return
	}
	e.writeDouble(num, *v)
}

func (e *Encoder) writeDouble(num Number, v float64) {
	e.Tag(num, Fixed64Type)
	e.buf = protowire.AppendFixed64(e.buf, math.Float64bits(v))
}

// Float writes a little-endian 32-bit float.
func (e *Encoder) Float(num Number, v float32) {
	if v == 0 {
		return
	}
	e.Tag(num, Fixed32Type)
	e.buf = protowire.AppendFixed32(e.buf, math.Float32bits(v))
}

// Message writes an already encoded nested message. An empty message is
// omitted like any other default value.
func (e *Encoder) Message(num Number, msg []byte) {
	if len(msg) == 0 {
		return
	}
	e.Tag(num, BytesType)
	e.buf = protowire.AppendBytes(e.buf, msg)
}

// Element writes one entry of a repeated message field. Unlike Message, an
// empty entry is still written so the list keeps its length and order.
func (e *Encoder) Element(num Number, msg []byte) {
	e.Tag(num, BytesType)
	e.buf = protowire.AppendBytes(e.buf, msg)
}
