package message

// Type numbers are part of the wire contract and must not change;
// they are what the frame codec in package wire routes on.
const (
	TypeOpen      uint8 = 0
	TypeOptions   uint8 = 1
	TypeStatus    uint8 = 2
	TypeHave      uint8 = 3
	TypeUnhave    uint8 = 4
	TypeWant      uint8 = 5
	TypeUnwant    uint8 = 6
	TypeRequest   uint8 = 7
	TypeCancel    uint8 = 8
	TypeData      uint8 = 9
	TypeClose     uint8 = 10
	TypeExtension uint8 = 15
)

// Open announces intent to replicate a feed. Key is the feed's raw
// long-term public key; a session orchestrator rewrites it to
// Capability before the frame ever reaches the wire (see
// Session.Open), so a decoded Open observed from a remote peer should
// never carry Key set.
type Open struct {
	DiscoveryKey []byte
	Capability   []byte
	Key          []byte
}

func (m Open) Marshal() []byte {
	var w writer
	w.bytes(1, m.DiscoveryKey)
	w.bytes(2, m.Capability)
	w.bytes(3, m.Key)
	return w.bytesOut()
}

func UnmarshalOpen(buf []byte) (Open, error) {
	var m Open
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Open{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.DiscoveryKey, err = r.bytesField(); err != nil {
				return Open{}, err
			}
		case 2:
			if m.Capability, err = r.bytesField(); err != nil {
				return Open{}, err
			}
		case 3:
			if m.Key, err = r.bytesField(); err != nil {
				return Open{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Open{}, err
			}
		}
	}
}

// Options negotiates session-level behavior: which extensions this peer
// supports, and whether it wants explicit acknowledgement of messages.
type Options struct {
	Extensions []string
	Ack        bool
}

func (m Options) Marshal() []byte {
	var w writer
	w.repeatedStr(1, m.Extensions)
	w.boolean(2, m.Ack)
	return w.bytesOut()
}

func UnmarshalOptions(buf []byte) (Options, error) {
	var m Options
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Options{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			s, err := r.bytesField()
			if err != nil {
				return Options{}, err
			}
			m.Extensions = append(m.Extensions, string(s))
		case 2:
			v, err := r.varint()
			if err != nil {
				return Options{}, err
			}
			m.Ack = v != 0
		default:
			if err := r.skip(wt); err != nil {
				return Options{}, err
			}
		}
	}
}

// Status reports this peer's current upload/download intent for a feed.
type Status struct {
	Uploading   bool
	Downloading bool
}

func (m Status) Marshal() []byte {
	var w writer
	w.boolean(1, m.Uploading)
	w.boolean(2, m.Downloading)
	return w.bytesOut()
}

func UnmarshalStatus(buf []byte) (Status, error) {
	var m Status
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Status{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			v, err := r.varint()
			if err != nil {
				return Status{}, err
			}
			m.Uploading = v != 0
		case 2:
			v, err := r.varint()
			if err != nil {
				return Status{}, err
			}
			m.Downloading = v != 0
		default:
			if err := r.skip(wt); err != nil {
				return Status{}, err
			}
		}
	}
}

// Have announces that the sender possesses the block range
// [Start, Start+Length), optionally with a compact proof bitfield.
type Have struct {
	Start    uint64
	Length   uint64
	Bitfield []byte
}

func (m Have) Marshal() []byte {
	var w writer
	w.varint(1, m.Start)
	w.varint(2, m.Length)
	w.bytes(3, m.Bitfield)
	return w.bytesOut()
}

func UnmarshalHave(buf []byte) (Have, error) {
	var m Have
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Have{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Start, err = r.varint(); err != nil {
				return Have{}, err
			}
		case 2:
			if m.Length, err = r.varint(); err != nil {
				return Have{}, err
			}
		case 3:
			if m.Bitfield, err = r.bytesField(); err != nil {
				return Have{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Have{}, err
			}
		}
	}
}

// Unhave retracts a previously announced Have range.
type Unhave struct {
	Start  uint64
	Length uint64
}

func (m Unhave) Marshal() []byte {
	var w writer
	w.varint(1, m.Start)
	w.varint(2, m.Length)
	return w.bytesOut()
}

func UnmarshalUnhave(buf []byte) (Unhave, error) {
	var m Unhave
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Unhave{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Start, err = r.varint(); err != nil {
				return Unhave{}, err
			}
		case 2:
			if m.Length, err = r.varint(); err != nil {
				return Unhave{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Unhave{}, err
			}
		}
	}
}

// Want requests that the remote begin announcing Have ranges it holds
// overlapping [Start, Start+Length).
type Want struct {
	Start  uint64
	Length uint64
}

func (m Want) Marshal() []byte {
	var w writer
	w.varint(1, m.Start)
	w.varint(2, m.Length)
	return w.bytesOut()
}

func UnmarshalWant(buf []byte) (Want, error) {
	var m Want
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Want{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Start, err = r.varint(); err != nil {
				return Want{}, err
			}
		case 2:
			if m.Length, err = r.varint(); err != nil {
				return Want{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Want{}, err
			}
		}
	}
}

// Unwant retracts a previously sent Want range.
type Unwant struct {
	Start  uint64
	Length uint64
}

func (m Unwant) Marshal() []byte {
	var w writer
	w.varint(1, m.Start)
	w.varint(2, m.Length)
	return w.bytesOut()
}

func UnmarshalUnwant(buf []byte) (Unwant, error) {
	var m Unwant
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Unwant{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Start, err = r.varint(); err != nil {
				return Unwant{}, err
			}
		case 2:
			if m.Length, err = r.varint(); err != nil {
				return Unwant{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Unwant{}, err
			}
		}
	}
}

// Request asks the remote for a specific block, optionally accompanied
// by a Merkle proof (Nodes) if Hash is set.
type Request struct {
	Index uint64
	Bytes uint64
	Hash  bool
	Nodes uint64
}

func (m Request) Marshal() []byte {
	var w writer
	w.varint(1, m.Index)
	w.varint(2, m.Bytes)
	w.boolean(3, m.Hash)
	w.varint(4, m.Nodes)
	return w.bytesOut()
}

func UnmarshalRequest(buf []byte) (Request, error) {
	var m Request
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Request{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Index, err = r.varint(); err != nil {
				return Request{}, err
			}
		case 2:
			if m.Bytes, err = r.varint(); err != nil {
				return Request{}, err
			}
		case 3:
			v, err := r.varint()
			if err != nil {
				return Request{}, err
			}
			m.Hash = v != 0
		case 4:
			if m.Nodes, err = r.varint(); err != nil {
				return Request{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Request{}, err
			}
		}
	}
}

// Cancel withdraws a previously sent Request for the same Index.
type Cancel struct {
	Index uint64
	Bytes uint64
	Hash  bool
}

func (m Cancel) Marshal() []byte {
	var w writer
	w.varint(1, m.Index)
	w.varint(2, m.Bytes)
	w.boolean(3, m.Hash)
	return w.bytesOut()
}

func UnmarshalCancel(buf []byte) (Cancel, error) {
	var m Cancel
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Cancel{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Index, err = r.varint(); err != nil {
				return Cancel{}, err
			}
		case 2:
			if m.Bytes, err = r.varint(); err != nil {
				return Cancel{}, err
			}
		case 3:
			v, err := r.varint()
			if err != nil {
				return Cancel{}, err
			}
			m.Hash = v != 0
		default:
			if err := r.skip(wt); err != nil {
				return Cancel{}, err
			}
		}
	}
}

// Node is one hash-tree proof node accompanying a Data message.
type Node struct {
	Index uint64
	Hash  []byte
	Size  uint64
}

// Data carries one block's content, with any Merkle proof nodes needed
// to verify it against the feed's root hash.
type Data struct {
	Index     uint64
	Value     []byte
	Nodes     []Node
	Signature []byte
}

func (m Data) Marshal() []byte {
	var w writer
	w.varint(1, m.Index)
	w.bytes(2, m.Value)
	for _, n := range m.Nodes {
		var nw writer
		nw.varint(1, n.Index)
		nw.bytes(2, n.Hash)
		nw.varint(3, n.Size)
		w.bytes(3, nw.bytesOut())
	}
	w.bytes(4, m.Signature)
	return w.bytesOut()
}

func UnmarshalData(buf []byte) (Data, error) {
	var m Data
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Data{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.Index, err = r.varint(); err != nil {
				return Data{}, err
			}
		case 2:
			if m.Value, err = r.bytesField(); err != nil {
				return Data{}, err
			}
		case 3:
			nb, err := r.bytesField()
			if err != nil {
				return Data{}, err
			}
			n, err := unmarshalNode(nb)
			if err != nil {
				return Data{}, err
			}
			m.Nodes = append(m.Nodes, n)
		case 4:
			if m.Signature, err = r.bytesField(); err != nil {
				return Data{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Data{}, err
			}
		}
	}
}

func unmarshalNode(buf []byte) (Node, error) {
	var n Node
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Node{}, err
		}
		if !ok {
			return n, nil
		}
		switch field {
		case 1:
			if n.Index, err = r.varint(); err != nil {
				return Node{}, err
			}
		case 2:
			if n.Hash, err = r.bytesField(); err != nil {
				return Node{}, err
			}
		case 3:
			if n.Size, err = r.varint(); err != nil {
				return Node{}, err
			}
		default:
			if err := r.skip(wt); err != nil {
				return Node{}, err
			}
		}
	}
}

// Close tears down a channel. A zero-value Close is still meaningful
// and must still produce a frame; callers must not special-case it
// away.
type Close struct {
	DiscoveryKey []byte
	Uncork       bool
}

func (m Close) Marshal() []byte {
	var w writer
	w.bytes(1, m.DiscoveryKey)
	w.boolean(2, m.Uncork)
	return w.bytesOut()
}

func UnmarshalClose(buf []byte) (Close, error) {
	var m Close
	r := newReader(buf)
	for {
		field, wt, ok, err := r.next()
		if err != nil {
			return Close{}, err
		}
		if !ok {
			return m, nil
		}
		switch field {
		case 1:
			if m.DiscoveryKey, err = r.bytesField(); err != nil {
				return Close{}, err
			}
		case 2:
			v, err := r.varint()
			if err != nil {
				return Close{}, err
			}
			m.Uncork = v != 0
		default:
			if err := r.skip(wt); err != nil {
				return Close{}, err
			}
		}
	}
}
