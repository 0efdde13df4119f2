package message

// Extension frames (wire type 15) are not protobuf-encoded: their
// payload is a leading varint extension id followed by opaque,
// application-defined bytes. EncodeExtension/DecodeExtension implement
// that convention.

// EncodeExtension builds a type-15 frame payload for the given
// extension id and data.
func EncodeExtension(id uint64, data []byte) []byte {
	var w writer
	putUvarint(&w.buf, id)
	w.buf.Write(data)
	return w.bytesOut()
}

// DecodeExtension splits a type-15 frame payload back into its
// extension id and opaque data.
func DecodeExtension(payload []byte) (id uint64, data []byte, err error) {
	id, n, err := getUvarint(payload)
	if err != nil {
		return 0, nil, err
	}
	return id, append([]byte(nil), payload[n:]...), nil
}
