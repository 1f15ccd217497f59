package envelope

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Header(t *testing.T) {
	got := Wrap([]byte("abc"), false)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c'}, got)

	got = Wrap([]byte("abc"), true)
	assert.Equal(t, byte(0x01), got[0])
}

func TestUnwrap_SingleMessage(t *testing.T) {
	payload := []byte{0x0a, 0x03, 'a', '.', 'b'}
	s := Unwrap(Wrap(payload, false))

	require.Len(t, s.Messages, 1)
	assert.Equal(t, payload, s.Messages[0])
	assert.Empty(t, s.Trailers)
	assert.Zero(t, s.Remainder)
	assert.NoError(t, s.Err())
}

func TestUnwrap_Compressed(t *testing.T) {
	payload := []byte("hello hello hello hello")
	gz, err := Compress(payload)
	require.NoError(t, err)

	s := Unwrap(Wrap(gz, true))
	require.Len(t, s.Messages, 1)
	assert.Equal(t, payload, s.Messages[0])
	assert.Zero(t, s.DecompressFailures)
}

func TestUnwrap_BadGzipPassesThrough(t *testing.T) {
	raw := []byte("definitely not gzip")
	s := Unwrap(Wrap(raw, true))

	require.Len(t, s.Messages, 1)
	assert.Equal(t, raw, s.Messages[0])
	assert.Equal(t, 1, s.DecompressFailures)
}

func TestUnwrap_TwoFramesInOrder(t *testing.T) {
	data := append(Wrap([]byte("first"), false), Wrap([]byte("second"), false)...)
	s := Unwrap(data)

	require.Len(t, s.Messages, 2)
	assert.Equal(t, []byte("first"), s.Messages[0])
	assert.Equal(t, []byte("second"), s.Messages[1])
}

func TestUnwrap_TrailerOnly(t *testing.T) {
	trailer := Frame{
		Flags:   FlagTrailer,
		Payload: []byte(`{"error":{"code":"not_found","message":"Repository not found","details":[{"type":"x","debug":{"details":{"detail":"Repository is not indexed"}}}]},"metadata":{"x-trace":["abc"]}}`),
	}
	s := Unwrap(trailer.Encode())

	assert.Empty(t, s.Messages)
	require.Len(t, s.Trailers, 1)
	require.NotNil(t, s.Trailers[0].Error)
	assert.Equal(t, "not_found", s.Trailers[0].Error.Code)
	assert.Equal(t, "Repository not found", s.Trailers[0].Error.Message)
	assert.Equal(t, "Repository is not indexed", s.Trailers[0].Error.Text())
	assert.Equal(t, []string{"abc"}, s.Trailers[0].Metadata["x-trace"])

	var te *TrailerError
	require.True(t, errors.As(s.Err(), &te))
	assert.Contains(t, te.Error(), "not_found")
}

func TestUnwrap_SuccessTrailer(t *testing.T) {
	data := append(Wrap([]byte("msg"), false), Frame{Flags: FlagTrailer, Payload: []byte(`{}`)}.Encode()...)
	s := Unwrap(data)

	require.Len(t, s.Messages, 1)
	require.Len(t, s.Trailers, 1)
	assert.Nil(t, s.Trailers[0].Error)
	assert.NoError(t, s.Err())
}

func TestUnwrap_MalformedTrailerJSON(t *testing.T) {
	s := Unwrap(Frame{Flags: FlagTrailer, Payload: []byte("{oops")}.Encode())

	assert.Empty(t, s.Messages)
	require.Len(t, s.Trailers, 1)
	assert.Equal(t, []byte("{oops"), s.Trailers[0].Raw)
	assert.NoError(t, s.Err())
}

func TestUnwrap_CompressedTrailer(t *testing.T) {
	gz, err := Compress([]byte(`{"error":{"code":"internal","message":"boom"}}`))
	require.NoError(t, err)

	s := Unwrap(Frame{Flags: FlagTrailer | FlagCompressed, Payload: gz}.Encode())
	require.Len(t, s.Trailers, 1)
	require.NotNil(t, s.Trailers[0].Error)
	assert.Equal(t, "boom", s.Trailers[0].Error.Text())
}

func TestUnwrap_PartialStreams(t *testing.T) {
	whole := Wrap([]byte("complete"), false)

	t.Run("short header", func(t *testing.T) {
		s := Unwrap(append(whole, 0x00, 0x00))
		require.Len(t, s.Messages, 1)
		assert.Equal(t, 2, s.Remainder)
	})

	t.Run("declared length beyond data", func(t *testing.T) {
		partial := Wrap([]byte("truncated payload"), false)
		s := Unwrap(append(whole, partial[:10]...))
		require.Len(t, s.Messages, 1)
		assert.Equal(t, 10, s.Remainder)
	})

	t.Run("empty", func(t *testing.T) {
		s := Unwrap(nil)
		assert.Empty(t, s.Messages)
		assert.Zero(t, s.Remainder)
	})
}

func TestDecodeFrame_Errors(t *testing.T) {
	_, _, err := DecodeFrame([]byte{0x00, 0x00})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, _, err = DecodeFrame([]byte{0x00, 0x00, 0x00, 0x00, 0x09, 'x'})
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestFlags_Has(t *testing.T) {
	f := FlagCompressed | FlagTrailer
	assert.True(t, f.Has(FlagCompressed))
	assert.True(t, f.Has(FlagTrailer))
	assert.False(t, Flags(0).Has(FlagTrailer))
}
