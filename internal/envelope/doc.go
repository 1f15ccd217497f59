// Package envelope implements Connect protocol stream framing: a flag byte,
// a 4-byte big-endian length and the payload, repeated until the body ends.
//
// Flag bit 0 marks a gzip compressed payload and bit 1 marks the JSON
// end-of-stream trailer. Unwrap returns ordinary messages and trailers
// separately so a trailer can never be mistaken for a protobuf message.
package envelope
