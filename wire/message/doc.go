// Package message defines the eleven typed frame payloads (Open,
// Options, Status, Have, Unhave, Want, Unwant, Request, Cancel, Data,
// Close) plus the extension (type 15) convention, and their canonical
// protobuf-compatible encoding. The frame codec in package wire is
// schema-agnostic; this package is where field content lives.
package message
