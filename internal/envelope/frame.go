package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// HeaderSize is the size of the frame header in bytes.
const HeaderSize = 5

// Flags describe how a frame payload is to be interpreted.
type Flags uint8

const (
	FlagCompressed Flags = 0x01 // Payload is gzip compressed
	FlagTrailer    Flags = 0x02 // Payload is a JSON end-of-stream trailer
)

// Has returns true if the flags contain the specified flag.
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Frame errors.
var (
	ErrShortFrame = errors.New("envelope: frame shorter than its declared length")
	ErrDecompress = errors.New("envelope: gzip decompression failed")
)

// Frame is one length-prefixed chunk of a Connect stream.
//
// Wire format (5 bytes header + variable payload):
//
//	┌─────────────┬───────────────────────────────┐
//	│ Flags       │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//	│                                             │
//	│  Payload (variable length)                  │
//	│                                             │
//	└─────────────────────────────────────────────┘
type Frame struct {
	Flags   Flags
	Payload []byte
}

// Encode encodes the frame to bytes including the header.
func (f Frame) Encode() []byte {
	buf := make([]byte, HeaderSize+len(f.Payload))
	buf[0] = byte(f.Flags)
	binary.BigEndian.PutUint32(buf[1:HeaderSize], uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf
}

// Wrap frames payload as a single message. When compressed is true the flag
// byte is 1 and payload must already be gzip data (see Compress).
func Wrap(payload []byte, compressed bool) []byte {
	f := Frame{Payload: payload}
	if compressed {
		f.Flags = FlagCompressed
	}
	return f.Encode()
}

// DecodeFrame decodes the frame at the start of data and returns it with the
// number of bytes it occupied. The payload aliases data.
func DecodeFrame(data []byte) (Frame, int, error) {
	if len(data) < HeaderSize {
		return Frame{}, 0, io.ErrUnexpectedEOF
	}

	flags := Flags(data[0])
	length := uint64(binary.BigEndian.Uint32(data[1:HeaderSize]))
	if length > uint64(len(data)-HeaderSize) {
		return Frame{}, 0, fmt.Errorf("%w: want %d bytes, have %d", ErrShortFrame, length, len(data)-HeaderSize)
	}

	end := HeaderSize + int(length)
	return Frame{Flags: flags, Payload: data[HeaderSize:end:end]}, end, nil
}

// Compress gzips payload for use in a compressed frame.
func Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress gunzips a compressed frame payload.
func Decompress(payload []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	return out, nil
}
