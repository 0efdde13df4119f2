package hypercore

import "github.com/sce9sc/simple-hypercore-protocol/wire/message"

// Handlers is the collaborator contract a Session dispatches into. Send
// is the only required callback; every other field may be left nil, in
// which case the corresponding event is silently dropped.
type Handlers struct {
	// Send is invoked with every outbound byte chunk, handshake bytes
	// and encrypted frames alike, in emission order. Required.
	Send func(chunk []byte)

	// Destroy fires exactly once, on fatal error or explicit Destroy.
	// err is nil for a clean, caller-initiated shutdown.
	Destroy func(err error)

	// OnHandshake fires once, after the Noise handshake completes
	// successfully and before any queued sends are drained.
	OnHandshake func()

	OnOpen    func(channel uint64, m message.Open)
	OnOptions func(channel uint64, m message.Options)
	OnStatus  func(channel uint64, m message.Status)
	OnHave    func(channel uint64, m message.Have)
	OnUnhave  func(channel uint64, m message.Unhave)
	OnWant    func(channel uint64, m message.Want)
	OnUnwant  func(channel uint64, m message.Unwant)
	OnRequest func(channel uint64, m message.Request)
	OnCancel  func(channel uint64, m message.Cancel)
	OnData    func(channel uint64, m message.Data)
	OnClose   func(channel uint64, m message.Close)

	// OnExtension fires for type-15 frames, which are never a protocol
	// error at the codec layer regardless of whether id is recognized.
	OnExtension func(channel uint64, id uint64, data []byte)
}
