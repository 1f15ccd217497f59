package envelope

import (
	"encoding/json"
	"fmt"
)

// TrailerError is the error carried by an end-of-stream trailer.
type TrailerError struct {
	Code    string
	Message string
	// Detail is the first debug detail the backend attached, if any. It is
	// usually more specific than Message.
	Detail string
}

// Error implements error.
func (e *TrailerError) Error() string {
	code := e.Code
	if code == "" {
		code = "unknown"
	}
	return fmt.Sprintf("backend error (%s): %s", code, e.Text())
}

// Text returns the most specific human readable message available.
func (e *TrailerError) Text() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	default:
		return "Unknown error"
	}
}

// Trailer is a decoded trailer frame.
type Trailer struct {
	Raw      []byte
	Error    *TrailerError // nil when the trailer reports success
	Metadata map[string][]string
}

// Stream is the result of splitting a response body into frames.
type Stream struct {
	// Messages holds ordinary message payloads in stream order, already
	// decompressed when possible.
	Messages [][]byte
	Trailers []Trailer
	// Remainder is the number of trailing bytes that did not form a whole frame.
	Remainder int
	// DecompressFailures counts compressed frames passed through as raw bytes.
	DecompressFailures int
}

// Err returns the first trailer error in the stream, or nil.
func (s Stream) Err() error {
	for _, t := range s.Trailers {
		if t.Error != nil {
			return t.Error
		}
	}
	return nil
}

// Unwrap splits data into frames. It never fails: an incomplete header or a
// payload shorter than its declared length ends the stream, and the bytes
// left over are reported in Remainder.
func Unwrap(data []byte) Stream {
	var s Stream
	pos := 0
	for len(data)-pos >= HeaderSize {
		f, n, err := DecodeFrame(data[pos:])
		if err != nil {
			break
		}
		pos += n

		payload := f.Payload
		if f.Flags.Has(FlagCompressed) {
			if out, err := Decompress(payload); err == nil {
				payload = out
			} else {
				s.DecompressFailures++
			}
		}

		if f.Flags.Has(FlagTrailer) {
			s.Trailers = append(s.Trailers, parseTrailer(payload))
			continue
		}
		s.Messages = append(s.Messages, payload)
	}
	s.Remainder = len(data) - pos
	return s
}

type trailerJSON struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Debug struct {
				Details struct {
					Detail string `json:"detail"`
				} `json:"details"`
			} `json:"debug"`
		} `json:"details"`
	} `json:"error"`
	Metadata map[string][]string `json:"metadata"`
}

// parseTrailer decodes the Connect end-of-stream JSON. A payload that is not
// valid JSON is kept as Raw with no error attached.
func parseTrailer(payload []byte) Trailer {
	t := Trailer{Raw: payload}

	var body trailerJSON
	if err := json.Unmarshal(payload, &body); err != nil {
		return t
	}
	t.Metadata = body.Metadata
	if body.Error != nil {
		t.Error = &TrailerError{Code: body.Error.Code, Message: body.Error.Message}
		if len(body.Error.Details) > 0 {
			t.Error.Detail = body.Error.Details[0].Debug.Details.Detail
		}
	}
	return t
}
