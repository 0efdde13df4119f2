package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe erases a byte slice holding key material, such as a
// Cipher's tx/rx keys or a KeyPair's private half. It returns an error
// if data is nil.
//
// subtle.XORBytes performs a constant-time XOR that the compiler
// cannot optimize away; XORing data with itself zeros it while
// resisting that optimization.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	subtle.XORBytes(data, data, data)
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes wipes data, discarding the (only-possible-on-nil) error.
// Cipher.Final uses this on both keystream key halves.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// WipeKeyPair erases a KeyPair's private half. Call it once the pair's
// static key has been handed to a Handshake and is no longer needed in
// the clear.
func WipeKeyPair(kp *KeyPair) error {
	if kp == nil {
		return errors.New("cannot wipe nil KeyPair")
	}
	return SecureWipe(kp.Private[:])
}
