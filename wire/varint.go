package wire

import (
	"encoding/binary"
	"errors"
)

// ErrVarintTooLong is returned when a varint's continuation bit stays
// set for more than the ten bytes needed to encode a full uint64.
var ErrVarintTooLong = errors.New("wire: varint exceeds 10-byte maximum")

// ErrVarintOverflow is returned when a decoded varint exceeds the
// largest integer a peer built on 64-bit floating point can represent
// exactly. The wire format must stay interoperable with such peers, so
// values above this bound are rejected rather than silently truncated.
var ErrVarintOverflow = errors.New("wire: varint overflows 53-bit safe integer range")

// maxSafeUvarint is 2^53 - 1, the largest integer a IEEE-754 double can
// represent without loss.
const maxSafeUvarint = 1<<53 - 1

// encodeUvarint returns the protobuf-compatible base-128 varint encoding
// of x.
func encodeUvarint(x uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, x)
	return buf[:n]
}

// decodeUvarint reads one varint from the front of buf. n is the number
// of bytes consumed; n == 0 with a nil error means buf does not yet
// contain a complete varint, and the caller must supply more bytes.
func decodeUvarint(buf []byte) (value uint64, n int, err error) {
	value, n = binary.Uvarint(buf)
	switch {
	case n > 0 && value > maxSafeUvarint:
		return 0, 0, ErrVarintOverflow
	case n < 0:
		return 0, 0, ErrVarintTooLong
	case n == 0:
		return 0, 0, nil
	}
	return value, n, nil
}
