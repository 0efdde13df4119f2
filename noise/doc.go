// Package noise drives a three-message Noise XX handshake to mutual
// authentication and a derived keystream split, using the formally
// verified flynn/noise library for the Noise state machine.
//
// # Message flow
//
//	Initiator                              Responder
//	─────────                              ─────────
//	-> e
//	                                       <- e, ee, s, es
//	-> s, se
//	[split derived on both sides]
//
// Neither side needs to know the other's static public key in advance;
// XX authenticates both parties by the handshake's end. Each side may
// attach an application payload to its last handshake message. This
// protocol uses that slot to carry the peer's cipher nonce.
//
// # Split derivation
//
// flynn/noise's CipherState intentionally does not expose its raw
// symmetric key (Encrypt/Decrypt/Cipher() is the entire public surface).
// Since this protocol's keystream cipher needs raw key bytes rather than
// an opaque CipherState, Handshake instead derives two independent
// 32-byte halves from the handshake's ChannelBinding() hash via
// HKDF-SHA256, once both peers' final message has been processed. Both
// sides compute the same two halves in mirrored order: the initiator's
// tx equals the responder's rx, and vice versa.
package noise
