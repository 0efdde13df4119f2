package wire

import "errors"

// ExtensionType is the reserved type tag for extension frames; their
// payload is a leading varint extension id followed by opaque bytes,
// and they are never a protocol error at this layer regardless of
// whether the application recognizes the id.
const ExtensionType uint8 = 15

// MaxFrameSize bounds the body (header + payload) of a single frame.
// Frames advertising a larger length are rejected before their body is
// even buffered, so a hostile peer cannot force unbounded allocation.
const MaxFrameSize = 8 * 1024 * 1024 // 8 MiB

// ErrFrameTooLarge is returned when a frame's declared length exceeds
// MaxFrameSize.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// ErrUnknownType is returned when a frame's type tag falls in 0..14 but
// the caller has no decoder registered for it. Type 15 (extension) never
// triggers this error.
var ErrUnknownType = errors.New("wire: unknown message type")

// Frame is one decoded wire unit: a channel-multiplexed, typed payload.
type Frame struct {
	Channel uint64
	Type    uint8
	Payload []byte
}

// Encode serializes one frame: varint(length) || varint(header) || payload.
func Encode(channel uint64, typ uint8, payload []byte) []byte {
	header := channel<<4 | uint64(typ&0x0F)
	headerBytes := encodeUvarint(header)

	body := make([]byte, 0, len(headerBytes)+len(payload))
	body = append(body, headerBytes...)
	body = append(body, payload...)

	lenBytes := encodeUvarint(uint64(len(body)))
	out := make([]byte, 0, len(lenBytes)+len(body))
	out = append(out, lenBytes...)
	out = append(out, body...)
	return out
}
