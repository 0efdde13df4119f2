package hypercore

import "errors"

// ErrPendingQueueFull is the fatal error a Session destroys itself with
// when a send arrives while the pending queue already holds
// maxPendingQueue entries. The original protocol this core descends
// from let the queue grow without bound; this implementation caps it
// and fails fast instead.
var ErrPendingQueueFull = errors.New("hypercore: pending send queue full")

// ErrReentrantCall is the fatal error a Session destroys itself with if
// a handler calls back into the same session while it is already
// executing a Send/Recv call.
var ErrReentrantCall = errors.New("hypercore: reentrant call into session")

// ErrMissingRemotePayload is fatal: the Noise handshake completed but
// the remote side's application payload was empty.
var ErrMissingRemotePayload = errors.New("hypercore: handshake completed without remote payload")

// ErrNoSendHandler is returned by New when Handlers.Send is nil; it is
// the one handler the session cannot operate without.
var ErrNoSendHandler = errors.New("hypercore: Handlers.Send is required")
