// Package wire frames the encrypted byte stream into channel-tagged,
// typed messages: varint(length) || varint(header) || payload, where
// header == channel<<4 | type. It knows nothing about message field
// content; that's the wire/message package's job. This package only
// cuts the stream into frames; dispatching a frame by its type number
// is left to the caller.
package wire
