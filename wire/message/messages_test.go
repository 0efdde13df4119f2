package message

import (
	"bytes"
	"reflect"
	"testing"
)

func TestOpenRoundTrip(t *testing.T) {
	m := Open{DiscoveryKey: []byte("dk"), Capability: []byte("cap32")}
	got, err := UnmarshalOpen(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalOpen: %v", err)
	}
	if !bytes.Equal(got.DiscoveryKey, m.DiscoveryKey) || !bytes.Equal(got.Capability, m.Capability) {
		t.Fatalf("got %+v, want %+v", got, m)
	}
	if got.Key != nil {
		t.Fatalf("Key = %v, want absent", got.Key)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	m := Options{Extensions: []string{"ext-a", "ext-b"}, Ack: true}
	got, err := UnmarshalOptions(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalOptions: %v", err)
	}
	if len(got.Extensions) != 2 || got.Extensions[0] != "ext-a" || got.Extensions[1] != "ext-b" {
		t.Fatalf("Extensions = %v", got.Extensions)
	}
	if !got.Ack {
		t.Fatal("Ack should be true")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	m := Status{Uploading: true, Downloading: false}
	got, err := UnmarshalStatus(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalStatus: %v", err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestHaveRoundTrip(t *testing.T) {
	m := Have{Start: 10, Length: 5, Bitfield: []byte{0xFF, 0x01}}
	got, err := UnmarshalHave(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalHave: %v", err)
	}
	if got.Start != m.Start || got.Length != m.Length || !bytes.Equal(got.Bitfield, m.Bitfield) {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	m := Request{Index: 42, Bytes: 1024, Hash: true, Nodes: 3}
	got, err := UnmarshalRequest(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestCancelRoundTrip(t *testing.T) {
	m := Cancel{Index: 42, Bytes: 1024, Hash: false}
	got, err := UnmarshalCancel(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalCancel: %v", err)
	}
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestDataRoundTripWithNodes(t *testing.T) {
	m := Data{
		Index: 7,
		Value: []byte("block content"),
		Nodes: []Node{
			{Index: 1, Hash: []byte("h1"), Size: 32},
			{Index: 3, Hash: []byte("h3"), Size: 64},
		},
		Signature: []byte("sig"),
	}
	got, err := UnmarshalData(m.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalData: %v", err)
	}
	if got.Index != m.Index || !bytes.Equal(got.Value, m.Value) || !bytes.Equal(got.Signature, m.Signature) {
		t.Fatalf("scalar/bytes mismatch: got %+v", got)
	}
	if len(got.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(got.Nodes))
	}
	for i, n := range got.Nodes {
		if !reflect.DeepEqual(n, m.Nodes[i]) {
			t.Fatalf("node %d = %+v, want %+v", i, n, m.Nodes[i])
		}
	}
}

func TestCloseAlwaysEncodesEvenWhenEmpty(t *testing.T) {
	m := Close{}
	encoded := m.Marshal()
	// An empty Close still produces a valid (possibly zero-length)
	// encoding that decodes back to the zero value, rather than a
	// decode error. Session.Close must still emit a frame for it.
	got, err := UnmarshalClose(encoded)
	if err != nil {
		t.Fatalf("UnmarshalClose: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("got %+v, want zero value", got)
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	payload := EncodeExtension(7, []byte{0xAA, 0xBB})
	id, data, err := DecodeExtension(payload)
	if err != nil {
		t.Fatalf("DecodeExtension: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if !bytes.Equal(data, []byte{0xAA, 0xBB}) {
		t.Fatalf("data = %x, want aabb", data)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	var w writer
	w.bytes(1, []byte("dk"))
	w.varint(99, 12345)         // unknown future field, varint-shaped
	w.bytes(98, []byte("blob")) // unknown future field, bytes-shaped

	got, err := UnmarshalOpen(w.bytesOut())
	if err != nil {
		t.Fatalf("UnmarshalOpen: %v", err)
	}
	if string(got.DiscoveryKey) != "dk" {
		t.Fatalf("DiscoveryKey = %q, want %q", got.DiscoveryKey, "dk")
	}
}
