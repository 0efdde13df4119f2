package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("hello feed")
	encoded := Encode(7, 3, payload)

	dec := NewDecoder()
	frames, err := dec.Feed(encoded)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	f := frames[0]
	assert.EqualValues(t, 7, f.Channel)
	assert.EqualValues(t, 3, f.Type)
	assert.Equal(t, payload, f.Payload)
}

func TestDecoderAcrossArbitraryChunkBoundaries(t *testing.T) {
	encoded := Encode(0, 9, bytes.Repeat([]byte{0x42}, 300))

	dec := NewDecoder()
	var got []Frame
	for _, cut := range []int{1, 5, 37, 1} {
		if cut > len(encoded) {
			cut = len(encoded)
		}
		frames, err := dec.Feed(encoded[:cut])
		require.NoError(t, err)
		got = append(got, frames...)
		encoded = encoded[cut:]
	}
	frames, err := dec.Feed(encoded)
	require.NoError(t, err)
	got = append(got, frames...)

	require.Len(t, got, 1)
	assert.EqualValues(t, 9, got[0].Type)
	assert.Len(t, got[0].Payload, 300)
}

func TestDecoderMultipleFramesInOneChunk(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Encode(1, 0, []byte("a")))
	buf.Write(Encode(2, 1, []byte("bb")))
	buf.Write(Encode(3, 2, []byte("ccc")))

	dec := NewDecoder()
	frames, err := dec.Feed(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, frames, 3)

	for i, want := range []string{"a", "bb", "ccc"} {
		assert.Equal(t, want, string(frames[i].Payload), "frame %d", i)
	}
}

func TestDecoderOversizeFrameRejected(t *testing.T) {
	oversize := encodeUvarint(MaxFrameSize + 1)

	dec := NewDecoder()
	_, err := dec.Feed(oversize)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestDecoderMalformedVarintRejected(t *testing.T) {
	malformed := bytes.Repeat([]byte{0x80}, 11) // > 10 continuation bytes

	dec := NewDecoder()
	_, err := dec.Feed(malformed)
	assert.ErrorIs(t, err, ErrVarintTooLong)
}

func TestExtensionTypeIsFifteen(t *testing.T) {
	assert.EqualValues(t, 15, ExtensionType)
}
