package hypercore

import "fmt"

// noisePayload is the application payload carried on a handshake's
// final message: the sender's cipher nonce. Its encoding is fixed size
// and need not be protobuf-shaped; it is always exactly 24 raw bytes.
type noisePayload struct {
	Nonce [24]byte
}

func (p noisePayload) marshal() []byte {
	return p.Nonce[:]
}

func unmarshalNoisePayload(buf []byte) (noisePayload, error) {
	var p noisePayload
	if len(buf) != 24 {
		return noisePayload{}, fmt.Errorf("hypercore: noise payload must be 24 bytes, got %d", len(buf))
	}
	copy(p.Nonce[:], buf)
	return p, nil
}
