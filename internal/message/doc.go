// Package message holds the fixed set of messages exchanged with the
// repository search backend and their hand-written wire encodings.
//
// Marshal methods follow proto3 implicit presence: default fields are not
// written and an all-default message encodes to zero bytes. The one exception
// is RepositoryInfo.TransformSeed, which is written whenever it is non-nil.
//
// Every Unmarshal method resets its receiver and applies fields in wire order.
// When decoding stops early the receiver keeps what was decoded before the
// failure and the error wraps wire.ErrTruncated, wire.ErrMalformed or
// ErrInvalidUTF8. Unknown fields, and known fields carrying an unexpected wire
// type, are skipped.
package message
