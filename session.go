// Package hypercore implements the core state machine of a peer-to-peer
// replication session: a mutually-authenticated Noise handshake, the
// keystream cipher and framing it unlocks, and the typed send/receive
// surface applications drive it through. It owns no transport. It is
// fed bytes and emits bytes through the Handlers.Send callback.
package hypercore

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"github.com/sce9sc/simple-hypercore-protocol/crypto"
	"github.com/sce9sc/simple-hypercore-protocol/noise"
	"github.com/sce9sc/simple-hypercore-protocol/wire"
	"github.com/sce9sc/simple-hypercore-protocol/wire/message"
)

// maxPendingQueue bounds the pending send queue. The protocol this core
// descends from left it unbounded; this is a deliberate, documented
// divergence (spec's pending-queue Open Question) rather than a silent
// one.
const maxPendingQueue = 1024

// pendingEntry is one queued send, owned by the Session until drained.
// open is set only for TypeOpen entries, whose key-to-capability
// rewrite must happen at actual emission time (once the split exists),
// not at the moment the application called Send; every other type is
// encoded eagerly and carried as payload.
type pendingEntry struct {
	channel uint64
	typ     uint8
	open    *message.Open
	payload []byte
}

// Session is the protocol session: one handshake, one keystream, one
// pending queue, one dispatch table. It assumes exclusive, synchronous,
// single-threaded access: callers never invoke Send/Recv concurrently,
// and a handler must not call back into the same session it was
// invoked from. It must not be copied after first use.
type Session struct {
	id uuid.UUID

	initiator bool
	handlers  Handlers
	logger    *crypto.LoggerHelper

	handshake     *noise.Handshake
	handshakeDone bool
	localNonce    [24]byte

	split  crypto.Split
	cipher *crypto.Cipher

	decoder *wire.Decoder

	remotePublicKey []byte
	remotePayload   []byte

	pending []pendingEntry

	destroyed bool
	active    bool // reentrancy guard, see guardEnter/guardExit
}

// New constructs a Session and, if initiator is true, immediately emits
// the first handshake message via handlers.Send. handlers.Send must be
// non-nil.
func New(initiator bool, handlers Handlers) (*Session, error) {
	return newSession(initiator, handlers, nil, true)
}

// newWithKeyPair is New with an explicit static key pair, used by tests
// that need deterministic identities to assert on remote-key exchange.
func newWithKeyPair(initiator bool, handlers Handlers, keyPair *crypto.KeyPair) (*Session, error) {
	return newSession(initiator, handlers, keyPair, true)
}

// newHandshakeOnly is New without the initiator's automatic first-move
// send, used by tests that need to control exactly when the handshake
// starts (e.g. to observe genuine pre-handshake queuing).
func newHandshakeOnly(initiator bool, handlers Handlers) (*Session, error) {
	return newSession(initiator, handlers, nil, false)
}

func newSession(initiator bool, handlers Handlers, keyPair *crypto.KeyPair, autoStart bool) (*Session, error) {
	if handlers.Send == nil {
		return nil, ErrNoSendHandler
	}

	s := &Session{
		id:        uuid.New(),
		initiator: initiator,
		handlers:  handlers,
		decoder:   wire.NewDecoder(),
	}
	s.logger = crypto.NewLogger("hypercore", "New").WithField("session_id", s.id.String())

	if _, err := rand.Read(s.localNonce[:]); err != nil {
		return nil, fmt.Errorf("hypercore: generate local nonce: %w", err)
	}
	payload := noisePayload{Nonce: s.localNonce}.marshal()

	role := noise.Responder
	if initiator {
		role = noise.Initiator
	}
	hs, err := noise.New(role, payload, keyPair)
	if err != nil {
		return nil, fmt.Errorf("hypercore: init handshake: %w", err)
	}
	s.handshake = hs

	s.logger.Debug("session constructed")

	if initiator && autoStart {
		out, err := hs.Start()
		if err != nil {
			return nil, fmt.Errorf("hypercore: start handshake: %w", err)
		}
		s.handlers.Send(out)
	}

	return s, nil
}

// ID returns the session's correlation id, suitable for tagging log
// lines and metrics across a multi-session process. It has no meaning
// on the wire.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Destroyed reports whether the session has been torn down.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// guardEnter rejects reentrant calls (e.g. a handler calling back into
// Send/Recv while one is already executing) by destroying the session.
// Callers must check the returned bool and return immediately if false.
func (s *Session) guardEnter() bool {
	if s.destroyed {
		return false
	}
	if s.active {
		s.destroy(ErrReentrantCall)
		return false
	}
	s.active = true
	return true
}

func (s *Session) guardExit() {
	s.active = false
}

// destroy is idempotent: the first call finalizes the cipher, marks the
// session dead, and invokes Handlers.Destroy exactly once. Subsequent
// calls are no-ops.
func (s *Session) destroy(err error) {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.cipher != nil {
		s.cipher.Final()
	}
	s.pending = nil

	if err != nil {
		s.logger.WithError(err, "fatal", "destroy").Error("session destroyed")
	} else {
		s.logger.Debug("session destroyed cleanly")
	}

	if s.handlers.Destroy != nil {
		s.handlers.Destroy(err)
	}
}

// Destroy tears the session down for a clean, caller-initiated reason.
// It is safe to call more than once.
func (s *Session) Destroy() {
	s.destroy(nil)
}
