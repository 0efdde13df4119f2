package hypercore

import (
	"github.com/sce9sc/simple-hypercore-protocol/crypto"
	"github.com/sce9sc/simple-hypercore-protocol/noise"
	"github.com/sce9sc/simple-hypercore-protocol/wire"
	"github.com/sce9sc/simple-hypercore-protocol/wire/message"
)

// Recv feeds inbound bytes into the session. Pre-handshake, bytes are
// forwarded to the Noise handshake; post-handshake, they are decrypted
// and framed. It is a no-op once the session is destroyed.
func (s *Session) Recv(chunk []byte) {
	if !s.guardEnter() {
		return
	}
	defer s.guardExit()

	if !s.handshakeDone {
		s.recvHandshake(chunk)
		return
	}
	s.recvFrames(chunk)
}

func (s *Session) recvHandshake(chunk []byte) {
	outbound, result, err := s.handshake.Recv(chunk)
	if outbound != nil {
		s.handlers.Send(outbound)
	}
	if err != nil {
		s.destroy(err)
		return
	}
	if result != nil {
		s.completeHandshake(result)
	}
}

// completeHandshake runs the fixed post-handshake sequence: store remote
// identity and split, instantiate the cipher, fire onhandshake, replay
// any overflow bytes, then drain the pending queue. It stops
// immediately if any step destroys the session.
func (s *Session) completeHandshake(result *noise.Result) {
	if len(result.RemotePayload) == 0 {
		s.destroy(ErrMissingRemotePayload)
		return
	}
	remote, err := unmarshalNoisePayload(result.RemotePayload)
	if err != nil {
		s.destroy(err)
		return
	}

	s.remotePublicKey = result.RemotePublicKey
	s.remotePayload = result.RemotePayload
	s.split = result.Split

	txNonce := s.localNonce
	rxNonce := remote.Nonce
	cipher, err := crypto.NewCipher(s.split.Tx, s.split.Rx, txNonce[:], rxNonce[:])
	if err != nil {
		s.destroy(err)
		return
	}
	s.cipher = cipher
	s.handshakeDone = true
	s.logger.Debug("handshake complete")

	if s.handlers.OnHandshake != nil {
		s.handlers.OnHandshake()
	}

	if len(result.Overflow) > 0 {
		s.recvFrames(result.Overflow)
		if s.destroyed {
			return
		}
	}

	s.drainPending()
}

// drainPending flushes the pending queue in FIFO order, each entry
// emitted exactly as a normal post-handshake send would be.
func (s *Session) drainPending() {
	for len(s.pending) > 0 {
		if s.destroyed {
			return
		}
		e := s.pending[0]
		s.pending = s.pending[1:]
		s.emit(e.channel, e.typ, s.encodeEntry(e))
	}
}

// recvFrames decrypts chunk and feeds the plaintext into the frame
// decoder, dispatching every frame that becomes complete.
func (s *Session) recvFrames(chunk []byte) {
	plaintext := s.cipher.Decrypt(chunk)
	frames, err := s.decoder.Feed(plaintext)
	if err != nil {
		s.destroy(err)
		return
	}
	for _, f := range frames {
		if s.destroyed {
			return
		}
		s.dispatch(f)
	}
}

// dispatch decodes one frame's payload by type and invokes the matching
// handler, if registered. A decode failure or an unknown type in 0..14
// is fatal.
func (s *Session) dispatch(f wire.Frame) {
	switch f.Type {
	case message.TypeOpen:
		m, err := message.UnmarshalOpen(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnOpen != nil {
			s.handlers.OnOpen(f.Channel, m)
		}
	case message.TypeOptions:
		m, err := message.UnmarshalOptions(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnOptions != nil {
			s.handlers.OnOptions(f.Channel, m)
		}
	case message.TypeStatus:
		m, err := message.UnmarshalStatus(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnStatus != nil {
			s.handlers.OnStatus(f.Channel, m)
		}
	case message.TypeHave:
		m, err := message.UnmarshalHave(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnHave != nil {
			s.handlers.OnHave(f.Channel, m)
		}
	case message.TypeUnhave:
		m, err := message.UnmarshalUnhave(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnUnhave != nil {
			s.handlers.OnUnhave(f.Channel, m)
		}
	case message.TypeWant:
		m, err := message.UnmarshalWant(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnWant != nil {
			s.handlers.OnWant(f.Channel, m)
		}
	case message.TypeUnwant:
		m, err := message.UnmarshalUnwant(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnUnwant != nil {
			s.handlers.OnUnwant(f.Channel, m)
		}
	case message.TypeRequest:
		m, err := message.UnmarshalRequest(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnRequest != nil {
			s.handlers.OnRequest(f.Channel, m)
		}
	case message.TypeCancel:
		m, err := message.UnmarshalCancel(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnCancel != nil {
			s.handlers.OnCancel(f.Channel, m)
		}
	case message.TypeData:
		m, err := message.UnmarshalData(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnData != nil {
			s.handlers.OnData(f.Channel, m)
		}
	case message.TypeClose:
		m, err := message.UnmarshalClose(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnClose != nil {
			s.handlers.OnClose(f.Channel, m)
		}
	case message.TypeExtension:
		id, data, err := message.DecodeExtension(f.Payload)
		if err != nil {
			s.destroy(err)
			return
		}
		if s.handlers.OnExtension != nil {
			s.handlers.OnExtension(f.Channel, id, data)
		}
	default:
		s.destroy(wire.ErrUnknownType)
	}
}
