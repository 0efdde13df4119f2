package noise

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/flynn/noise"
	"golang.org/x/crypto/hkdf"

	"github.com/sce9sc/simple-hypercore-protocol/crypto"
)

var (
	// ErrHandshakeComplete is returned by Recv once the handshake has
	// already finished.
	ErrHandshakeComplete = errors.New("noise: handshake already complete")
	// ErrUnexpectedMessage is returned when a message arrives out of
	// sequence for the XX pattern's three-message exchange.
	ErrUnexpectedMessage = errors.New("noise: unexpected message for current handshake step")
)

// Role identifies which side of the XX exchange a Handshake plays.
type Role uint8

const (
	// Initiator sends the first and third handshake messages.
	Initiator Role = iota
	// Responder sends the second handshake message.
	Responder
)

// protocolName is mixed into the Noise prologue so peers running an
// incompatible wire contract fail the handshake instead of silently
// misinterpreting bytes.
const protocolName = "hypercore-protocol/1"

var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// lengthPrefix is the size, in bytes, of the big-endian length header
// placed before every handshake message on the wire. It lets Recv
// distinguish "more handshake bytes needed" from "overflow belonging to
// the first post-handshake frame" within a single chunk.
const lengthPrefix = 2

// Split is re-exported for callers that only import this package.
type Split = crypto.Split

// Result carries everything the session orchestrator needs once the
// handshake completes.
type Result struct {
	RemotePayload   []byte
	Split           Split
	Overflow        []byte
	RemotePublicKey []byte
}

// Handshake drives one XX handshake to completion, message by message.
// It owns no I/O: callers hand it inbound bytes via Recv and forward the
// bytes it returns to their transport.
type Handshake struct {
	role     Role
	state    *noise.HandshakeState
	payload  []byte
	step     int
	complete bool
	recvBuf  []byte
}

// New constructs a Handshake for the given role. payload is this peer's
// local application payload (the encoded NoisePayload carrying its
// cipher nonce); it is attached to this peer's final handshake message.
// If keyPair is nil a fresh static key pair is generated.
func New(role Role, payload []byte, keyPair *crypto.KeyPair) (*Handshake, error) {
	if keyPair == nil {
		var err error
		keyPair, err = crypto.GenerateKeyPair()
		if err != nil {
			return nil, fmt.Errorf("noise: generate static key pair: %w", err)
		}
	}

	staticKey := noise.DHKey{
		Private: append([]byte(nil), keyPair.Private[:]...),
		Public:  append([]byte(nil), keyPair.Public[:]...),
	}

	config := noise.Config{
		CipherSuite:   cipherSuite,
		Random:        rand.Reader,
		Pattern:       noise.HandshakeXX,
		Initiator:     role == Initiator,
		Prologue:      []byte(protocolName),
		StaticKeypair: staticKey,
	}

	state, err := noise.NewHandshakeState(config)
	if err != nil {
		return nil, fmt.Errorf("noise: init handshake state: %w", err)
	}

	return &Handshake{
		role:    role,
		state:   state,
		payload: payload,
	}, nil
}

// Start produces the initiator's first outbound message (-> e). Callers
// on the responder side never call Start; they begin with Recv.
func (h *Handshake) Start() ([]byte, error) {
	if h.role != Initiator {
		return nil, fmt.Errorf("noise: only the initiator calls Start")
	}
	if h.step != 0 {
		return nil, ErrUnexpectedMessage
	}
	msg, _, _, err := h.state.WriteMessage(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("noise: write message 1: %w", err)
	}
	h.step = 1
	return frame(msg), nil
}

// Recv feeds inbound bytes into the handshake. It returns any bytes
// that must be sent in reply (nil if none), and, once the handshake
// reaches its final step, a non-nil Result. Callers must keep feeding
// chunks (and forwarding the returned outbound bytes) until Recv
// returns a non-nil Result or an error.
func (h *Handshake) Recv(chunk []byte) (outbound []byte, result *Result, err error) {
	if h.complete {
		return nil, nil, ErrHandshakeComplete
	}
	h.recvBuf = append(h.recvBuf, chunk...)

	for {
		msg, rest, ok := takeFrame(h.recvBuf)
		if !ok {
			h.recvBuf = rest
			return outbound, nil, nil
		}
		h.recvBuf = rest

		out, res, stepErr := h.step2or3(msg)
		if stepErr != nil {
			return nil, nil, stepErr
		}
		if out != nil {
			outbound = append(outbound, out...)
		}
		if res != nil {
			res.Overflow = append(res.Overflow, h.recvBuf...)
			h.recvBuf = nil
			return outbound, res, nil
		}
	}
}

// step2or3 advances the state machine by exactly one received message,
// per the XX pattern:
//
//	responder step 0: reads -> e,            writes <- e, ee, s, es
//	initiator  step 1: reads <- e, ee, s, es, writes -> s, se   (completes)
//	responder  step 1: reads -> s, se                            (completes)
func (h *Handshake) step2or3(msg []byte) (outbound []byte, result *Result, err error) {
	switch {
	case h.role == Responder && h.step == 0:
		if _, _, _, err := h.state.ReadMessage(nil, msg); err != nil {
			return nil, nil, fmt.Errorf("noise: read message 1: %w", err)
		}
		reply, _, _, err := h.state.WriteMessage(nil, h.payload)
		if err != nil {
			return nil, nil, fmt.Errorf("noise: write message 2: %w", err)
		}
		h.step = 1
		return frame(reply), nil, nil

	case h.role == Initiator && h.step == 1:
		remotePayload, _, _, err := h.state.ReadMessage(nil, msg)
		if err != nil {
			return nil, nil, fmt.Errorf("noise: read message 2: %w", err)
		}
		final, cs1, cs2, err := h.state.WriteMessage(nil, h.payload)
		if err != nil {
			return nil, nil, fmt.Errorf("noise: write message 3: %w", err)
		}
		split, err := deriveSplit(h.state, h.role, cs1, cs2)
		if err != nil {
			return nil, nil, err
		}
		h.complete = true
		crypto.NewLogger("noise", "Recv").Debug("initiator handshake complete")
		return frame(final), &Result{
			RemotePayload:   remotePayload,
			Split:           split,
			RemotePublicKey: append([]byte(nil), h.state.PeerStatic()...),
		}, nil

	case h.role == Responder && h.step == 1:
		remotePayload, cs1, cs2, err := h.state.ReadMessage(nil, msg)
		if err != nil {
			return nil, nil, fmt.Errorf("noise: read message 3: %w", err)
		}
		split, err := deriveSplit(h.state, h.role, cs1, cs2)
		if err != nil {
			return nil, nil, err
		}
		h.complete = true
		crypto.NewLogger("noise", "Recv").Debug("responder handshake complete")
		return nil, &Result{
			RemotePayload:   remotePayload,
			Split:           split,
			RemotePublicKey: append([]byte(nil), h.state.PeerStatic()...),
		}, nil

	default:
		return nil, nil, ErrUnexpectedMessage
	}
}

// deriveSplit produces the raw tx/rx key halves the keystream cipher
// needs: two independent 32-byte keys, mirrored between initiator and
// responder. flynn/noise's CipherState deliberately keeps its
// symmetric key private (Encrypt/Decrypt/Cipher() is the entire public
// surface), so instead of extracting key material from cs1/cs2 directly
// this derives two independent 32-byte halves from the handshake's
// channel-binding hash via HKDF-SHA256, using fixed info labels so both
// peers compute the same tx/rx pair in mirrored order. cs1 and cs2 are
// only consulted to confirm flynn/noise considers the handshake
// finished (both non-nil on the pattern's last message); their cipher
// state itself goes unused.
func deriveSplit(state *noise.HandshakeState, role Role, cs1, cs2 *noise.CipherState) (Split, error) {
	if cs1 == nil || cs2 == nil {
		return Split{}, errors.New("noise: handshake not yet complete")
	}
	binding := state.ChannelBinding()
	if len(binding) == 0 {
		return Split{}, errors.New("noise: empty channel binding")
	}

	initTx, err := hkdfExpand(binding, "hypercore split initiator->responder")
	if err != nil {
		return Split{}, err
	}
	initRx, err := hkdfExpand(binding, "hypercore split responder->initiator")
	if err != nil {
		return Split{}, err
	}

	if role == Initiator {
		return Split{Tx: initTx, Rx: initRx}, nil
	}
	return Split{Tx: initRx, Rx: initTx}, nil
}

func hkdfExpand(binding []byte, label string) ([]byte, error) {
	r := hkdf.New(sha256.New, binding, nil, []byte(label))
	out := make([]byte, 32)
	if _, err := r.Read(out); err != nil {
		return nil, fmt.Errorf("noise: hkdf expand %q: %w", label, err)
	}
	return out, nil
}

// frame prepends a 2-byte big-endian length to a handshake message.
func frame(msg []byte) []byte {
	out := make([]byte, lengthPrefix+len(msg))
	binary.BigEndian.PutUint16(out[:lengthPrefix], uint16(len(msg)))
	copy(out[lengthPrefix:], msg)
	return out
}

// takeFrame extracts one length-prefixed handshake message from buf, if
// a complete one is present, along with the unconsumed remainder.
func takeFrame(buf []byte) (msg, rest []byte, ok bool) {
	if len(buf) < lengthPrefix {
		return nil, buf, false
	}
	n := int(binary.BigEndian.Uint16(buf[:lengthPrefix]))
	if len(buf) < lengthPrefix+n {
		return nil, buf, false
	}
	return buf[lengthPrefix : lengthPrefix+n], buf[lengthPrefix+n:], true
}
