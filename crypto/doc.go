// Package crypto implements the cryptographic primitives underlying a
// session: static key pairs (keypair.go), the post-handshake keystream
// cipher (cipher.go), per-feed capability derivation (capability.go), and
// secure memory wiping (secure_memory.go).
//
// Nothing in this package performs a handshake itself; that's the noise
// package's job. This package supplies the primitives the handshake and
// the session orchestrator build on.
package crypto
