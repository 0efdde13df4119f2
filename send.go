package hypercore

import (
	"github.com/sce9sc/simple-hypercore-protocol/wire"
	"github.com/sce9sc/simple-hypercore-protocol/wire/message"
)

// Open sends an Open message. If m.Key is a 32-byte feed key and
// m.Capability is unset, the key is replaced with a session-bound
// capability before it ever reaches the wire (the Open-key rewrite
// rule); the raw key itself is never transmitted.
// Returns true if the frame was emitted synchronously, false if it was
// queued (handshake incomplete, or a prior send is still draining).
func (s *Session) Open(channel uint64, m message.Open) bool {
	return s.enqueueOrEmit(channel, message.TypeOpen, &m, nil)
}

func (s *Session) Options(channel uint64, m message.Options) bool {
	return s.enqueueOrEmit(channel, message.TypeOptions, nil, m.Marshal())
}

func (s *Session) Status(channel uint64, m message.Status) bool {
	return s.enqueueOrEmit(channel, message.TypeStatus, nil, m.Marshal())
}

func (s *Session) Have(channel uint64, m message.Have) bool {
	return s.enqueueOrEmit(channel, message.TypeHave, nil, m.Marshal())
}

func (s *Session) Unhave(channel uint64, m message.Unhave) bool {
	return s.enqueueOrEmit(channel, message.TypeUnhave, nil, m.Marshal())
}

func (s *Session) Want(channel uint64, m message.Want) bool {
	return s.enqueueOrEmit(channel, message.TypeWant, nil, m.Marshal())
}

func (s *Session) Unwant(channel uint64, m message.Unwant) bool {
	return s.enqueueOrEmit(channel, message.TypeUnwant, nil, m.Marshal())
}

func (s *Session) Request(channel uint64, m message.Request) bool {
	return s.enqueueOrEmit(channel, message.TypeRequest, nil, m.Marshal())
}

func (s *Session) Cancel(channel uint64, m message.Cancel) bool {
	return s.enqueueOrEmit(channel, message.TypeCancel, nil, m.Marshal())
}

func (s *Session) Data(channel uint64, m message.Data) bool {
	return s.enqueueOrEmit(channel, message.TypeData, nil, m.Marshal())
}

// Close always emits a frame, even for a zero-value m: a zero-field
// Close is not special cased away.
func (s *Session) Close(channel uint64, m message.Close) bool {
	return s.enqueueOrEmit(channel, message.TypeClose, nil, m.Marshal())
}

// Extension sends a type-15 frame: a leading varint id followed by
// opaque, application-defined bytes.
func (s *Session) Extension(channel uint64, id uint64, data []byte) bool {
	return s.enqueueOrEmit(channel, message.TypeExtension, nil, message.EncodeExtension(id, data))
}

// Capability derives the 32-byte token this session sends to prove
// knowledge of feedKey, or (zero, false) if the handshake has not yet
// completed.
func (s *Session) Capability(feedKey [32]byte) ([32]byte, bool) {
	return s.split.Capability(feedKey)
}

// RemoteCapability derives the 32-byte token this session expects to
// receive from its peer for feedKey, or (zero, false) pre-handshake.
func (s *Session) RemoteCapability(feedKey [32]byte) ([32]byte, bool) {
	return s.split.RemoteCapability(feedKey)
}

// enqueueOrEmit implements the send path's queuing rule: while the
// handshake is incomplete, or while a previous drain is still in
// progress (pending non-empty), new sends join the queue in issuance
// order instead of going out immediately.
func (s *Session) enqueueOrEmit(channel uint64, typ uint8, open *message.Open, payload []byte) bool {
	if !s.guardEnter() {
		return false
	}
	defer s.guardExit()

	if !s.handshakeDone || len(s.pending) > 0 {
		if len(s.pending) >= maxPendingQueue {
			s.destroy(ErrPendingQueueFull)
			return false
		}
		s.pending = append(s.pending, pendingEntry{channel: channel, typ: typ, open: open, payload: payload})
		return false
	}

	s.emit(channel, typ, s.encodeEntry(pendingEntry{typ: typ, open: open, payload: payload}))
	return true
}

// encodeEntry resolves a pending entry to its final frame payload,
// applying the Open-key rewrite at the moment of encoding so it always
// sees a complete split.
func (s *Session) encodeEntry(e pendingEntry) []byte {
	if e.open != nil {
		return s.rewriteOpen(*e.open).Marshal()
	}
	return e.payload
}

// rewriteOpen implements the Open-key rewrite rule: a key present with
// no capability is replaced by its derived capability, and the key is
// cleared.
func (s *Session) rewriteOpen(m message.Open) message.Open {
	if len(m.Key) != 32 || len(m.Capability) != 0 {
		return m
	}
	var key [32]byte
	copy(key[:], m.Key)
	capability, ok := s.Capability(key)
	if !ok {
		return m
	}
	m.Capability = capability[:]
	m.Key = nil
	return m
}

// emit encodes, encrypts, and hands one frame to Handlers.Send.
func (s *Session) emit(channel uint64, typ uint8, payload []byte) {
	frame := wire.Encode(channel, typ, payload)
	ciphertext := s.cipher.Encrypt(frame)
	s.handlers.Send(ciphertext)
}
