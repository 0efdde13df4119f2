package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCipherPair(t *testing.T) (*Cipher, *Cipher) {
	t.Helper()
	var txKey, rxKey [32]byte
	var aNonce, bNonce [24]byte
	for _, b := range [][]byte{txKey[:], rxKey[:], aNonce[:], bNonce[:]} {
		if _, err := rand.Read(b); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
	}

	// a's tx == b's rx, and vice versa, mirroring a real split.
	a, err := NewCipher(txKey[:], rxKey[:], aNonce[:], bNonce[:])
	require.NoError(t, err)
	b, err := NewCipher(rxKey[:], txKey[:], bNonce[:], aNonce[:])
	require.NoError(t, err)
	return a, b
}

func TestCipherRoundTrip(t *testing.T) {
	a, b := mustCipherPair(t)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	ciphertext := a.Encrypt(plaintext)
	assert.NotEqual(t, plaintext, ciphertext, "ciphertext must not equal plaintext")

	decrypted := b.Decrypt(ciphertext)
	assert.Equal(t, plaintext, decrypted)
}

func TestCipherKeystreamContinuity(t *testing.T) {
	var key, nonce [32 + 24]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	txKey, rxNonce := key[:32], nonce[:24]

	// Two independently constructed ciphers sharing the same tx key and
	// nonce must produce the same keystream regardless of how the caller
	// chunks the input.
	whole, err := NewCipher(txKey, txKey, rxNonce, rxNonce)
	require.NoError(t, err)
	chunked, err := NewCipher(txKey, txKey, rxNonce, rxNonce)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0xAB}, 250) // spans multiple 64-byte blocks
	wholeCiphertext := whole.Encrypt(plaintext)

	chunks := [][]byte{plaintext[:1], plaintext[1:7], plaintext[7:64], plaintext[64:65], plaintext[65:]}
	var chunkedCiphertext []byte
	for _, c := range chunks {
		chunkedCiphertext = append(chunkedCiphertext, chunked.Encrypt(c)...)
	}

	assert.Equal(t, wholeCiphertext, chunkedCiphertext, "chunked encryption diverged from single-call encryption")
}

func TestCipherFinalZeroesKeys(t *testing.T) {
	a, _ := mustCipherPair(t)
	a.Final()

	assert.Equal(t, [32]byte{}, a.txKey, "txKey not zeroed after Final")
	assert.Equal(t, [32]byte{}, a.rxKey, "rxKey not zeroed after Final")

	// Post-Final, Encrypt/Decrypt must not panic and must not transform input.
	out := a.Encrypt([]byte("anything"))
	assert.Equal(t, []byte("anything"), out, "Encrypt after Final should be a no-op copy-through")
}
