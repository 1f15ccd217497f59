// Package wire implements the subset of the protobuf binary format spoken by
// the repository search backend, without generated code or reflection.
//
// # Varints
//
// Integers are unsigned LEB128: 7 payload bits per byte, MSB set on every byte
// except the last. There is no zig-zag encoding.
//
//	buf := wire.AppendVarint(nil, 300) // 0xAC 0x02
//	v, n, err := wire.DecodeVarint(buf)
//
// DecodeVarint is bounded by the input and by MaxVarintLen; it returns
// ErrTruncated or ErrOverflow instead of reading further.
//
// # Encoding
//
// Encoder writes tag = varint((number << 3) | wire type) followed by the value:
//
//	e := wire.NewEncoder()
//	e.Str(1, "query")
//	e.Uint32(3, 10)
//	e.Bool(5, true)
//	payload := e.Bytes()
//
// Zero values are never written, so an all-default message encodes to zero bytes.
//
// # Decoding
//
// Reader yields one Field per tag. Callers switch on Number and Type and ignore
// anything they do not recognise; Reader has already stepped over its value:
//
//	r := wire.NewReader(payload)
//	for !r.Done() {
//	    f, err := r.Next()
//	    if err != nil {
//	        break // truncated or malformed; keep what was decoded
//	    }
//	    switch f.Number { ... }
//	}
//
// Wire types 0 (varint), 1 (64-bit), 2 (length-delimited) and 5 (32-bit) are
// supported. Groups are rejected as ErrMalformed.
package wire
