package crypto

import (
	"golang.org/x/crypto/blake2b"
)

// CapabilityNamespace is the fixed domain-separation prefix mixed into
// every capability hash. Raw bytes, no terminator.
var CapabilityNamespace = []byte("hypercore capability")

// Split is the pair of symmetric key halves a completed handshake
// produces. Tx is used to encrypt this peer's outbound keystream and is
// mixed into the capabilities this peer sends, which are keyed with Rx;
// Rx is used to decrypt inbound bytes and is mixed into the capabilities
// this peer expects from its remote, which are keyed with Tx. The two
// peers' halves are mirrored: the initiator's Tx equals the responder's
// Rx, and vice versa.
type Split struct {
	Tx []byte
	Rx []byte
}

// Capability derives the 32-byte token this peer sends to prove knowledge
// of a feed key, without revealing the key itself:
//
//	capability(key) = BLAKE2b-256(CAP_NS || tx[0:32] || key ; keyed with rx[0:32])
//
// Returns the zero value if split is absent (handshake not complete).
func (s Split) Capability(feedKey [32]byte) ([32]byte, bool) {
	if s.Absent() {
		return [32]byte{}, false
	}
	return deriveCapability(s.Tx, s.Rx, feedKey)
}

// RemoteCapability derives the 32-byte token this peer expects to receive
// from its remote for the same feed key:
//
//	remote_capability(key) = BLAKE2b-256(CAP_NS || rx[0:32] || key ; keyed with tx[0:32])
//
// By construction, this peer's RemoteCapability(k) equals the remote's
// Capability(k), since the two sides' tx/rx halves are mirrored.
func (s Split) RemoteCapability(feedKey [32]byte) ([32]byte, bool) {
	if s.Absent() {
		return [32]byte{}, false
	}
	return deriveCapability(s.Rx, s.Tx, feedKey)
}

// Absent reports whether this split carries no key material, the
// sentinel state a capability derivation must return pre-handshake.
func (s Split) Absent() bool {
	return len(s.Tx) < 32 || len(s.Rx) < 32
}

func deriveCapability(mixHalf, keyHalf []byte, feedKey [32]byte) ([32]byte, bool) {
	var zero [32]byte
	h, err := blake2b.New256(keyHalf[:32])
	if err != nil {
		return zero, false
	}
	h.Write(CapabilityNamespace)
	h.Write(mixHalf[:32])
	h.Write(feedKey[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, true
}
