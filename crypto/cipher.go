package crypto

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20"
)

// ErrCipherKeySize is returned when a keystream key is shorter than 32 bytes.
var ErrCipherKeySize = errors.New("crypto: cipher key must be at least 32 bytes")

// ErrCipherNonceSize is returned when a keystream nonce is not exactly 24
// bytes, i.e. not a valid XChaCha20 nonce.
var ErrCipherNonceSize = errors.New("crypto: cipher nonce must be 24 bytes")

// Cipher is the unauthenticated, bidirectional stream cipher that
// obfuscates every byte exchanged after a handshake completes. It is not
// an AEAD: it provides no per-frame integrity of its own. Confidentiality
// against a passive wire observer is all it promises; message-level
// authenticity comes from the handshake's session binding, and any
// malformed plaintext a peer produces after decryption must be treated as
// adversarial by the caller (see the codec and session packages).
//
// Encrypt and Decrypt each wrap an x/crypto/chacha20.Cipher, which is a
// cipher.Stream: calling XORKeyStream repeatedly on arbitrarily sized
// chunks produces byte-identical output to one call over the concatenation
// of those chunks, which is exactly the keystream-continuity guarantee
// this component must provide. The 24-byte nonce selects XChaCha20 rather
// than the narrower 12-byte ChaCha20 variant.
type Cipher struct {
	tx     *chacha20.Cipher
	rx     *chacha20.Cipher
	txKey  [32]byte
	rxKey  [32]byte
	closed bool
}

// NewCipher constructs the post-handshake keystream cipher from a split's
// two halves and the two peers' handshake nonces. txKey/rxKey must be at
// least 32 bytes (only the first 32 are used, per spec); txNonce/rxNonce
// must be exactly 24 bytes.
func NewCipher(txKey, rxKey, txNonce, rxNonce []byte) (*Cipher, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "NewCipher",
		"package":  "crypto",
	})
	if len(txKey) < 32 || len(rxKey) < 32 {
		return nil, ErrCipherKeySize
	}
	if len(txNonce) != 24 || len(rxNonce) != 24 {
		return nil, ErrCipherNonceSize
	}

	c := &Cipher{}
	copy(c.txKey[:], txKey[:32])
	copy(c.rxKey[:], rxKey[:32])

	var err error
	c.tx, err = chacha20.NewUnauthenticatedCipher(c.txKey[:], txNonce)
	if err != nil {
		return nil, fmt.Errorf("crypto: init tx stream: %w", err)
	}
	c.rx, err = chacha20.NewUnauthenticatedCipher(c.rxKey[:], rxNonce)
	if err != nil {
		return nil, fmt.Errorf("crypto: init rx stream: %w", err)
	}

	logger.Debug("post-handshake keystream cipher initialized")
	return c, nil
}

// Encrypt XORs in against the transmit keystream and returns the result.
// The output is always the same length as the input.
func (c *Cipher) Encrypt(in []byte) []byte {
	if c.closed || len(in) == 0 {
		return append([]byte(nil), in...)
	}
	out := make([]byte, len(in))
	c.tx.XORKeyStream(out, in)
	return out
}

// Decrypt XORs in against the receive keystream and returns the result.
func (c *Cipher) Decrypt(in []byte) []byte {
	if c.closed || len(in) == 0 {
		return append([]byte(nil), in...)
	}
	out := make([]byte, len(in))
	c.rx.XORKeyStream(out, in)
	return out
}

// Final zeroes the cipher's key material. The cipher must not be used
// afterward; Encrypt/Decrypt become no-ops (copy-through).
func (c *Cipher) Final() {
	if c.closed {
		return
	}
	c.closed = true
	ZeroBytes(c.txKey[:])
	ZeroBytes(c.rxKey[:])
	c.tx = nil
	c.rx = nil
}
