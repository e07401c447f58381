package hpack

import "errors"

// errNeedMore and errNeedMoreString signal that the current field runs
// past the end of the input, inside an integer or inside a string
// payload. On a non-final chunk the decoder buffers the remainder; on
// the final chunk they become ErrMalformedInteger respectively
// ErrTruncatedString.
var (
	errNeedMore       = errors.New("hpack: need more data")
	errNeedMoreString = errors.New("hpack: need more string data")
)

// Decoder is the streaming inverse of Encoder: a single forward pass
// over a header block, dispatching one handler callback per field. It
// owns the decode-side dynamic table and inserts into it exactly when
// an incremental-indexing representation arrives.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	dyn *DynamicTable

	// maxDynamicTableSize caps what a size update instruction may set;
	// anything higher is a protocol violation by the peer.
	maxDynamicTableSize uint32

	// maxHeadersLength bounds the cumulative decoded name+value bytes
	// across one header block.
	maxHeadersLength uint32

	// saved holds the unconsumed tail of a non-final chunk that ended
	// mid-field. consumed tracks the budget already spent on earlier
	// chunks of the same block.
	saved    []byte
	consumed uint32
}

// NewDecoder returns a decoder allowing the peer a dynamic table of at
// most maxDynamicTableSize bytes and rejecting header blocks whose
// decoded size exceeds maxHeadersLength.
func NewDecoder(maxDynamicTableSize, maxHeadersLength uint32) *Decoder {
	return &Decoder{
		dyn:                 NewDynamicTable(maxDynamicTableSize),
		maxDynamicTableSize: maxDynamicTableSize,
		maxHeadersLength:    maxHeadersLength,
	}
}

// DynamicTable exposes the decode-side table, mainly to tests that
// assert both ends stay in lock-step.
func (d *Decoder) DynamicTable() *DynamicTable {
	return d.dyn
}

// Decode parses one chunk of a header block, invoking h once per
// complete field. final marks the last chunk of the block; a field
// truncated before then is buffered and resumed on the next call.
//
// Any error is fatal to the block: remaining input is dropped, but
// table mutations from fields decoded before the failure stay applied,
// so the caller must treat the connection's compression state as
// unusable afterwards.
func (d *Decoder) Decode(data []byte, final bool, h HeaderHandler) error {
	if len(d.saved) > 0 {
		data = append(d.saved, data...)
		d.saved = nil
	}

	pos := 0
	for pos < len(data) {
		next, err := d.decodeField(data, pos, h)
		if err == errNeedMore || err == errNeedMoreString {
			if final {
				d.consumed = 0
				if err == errNeedMoreString {
					return ErrTruncatedString
				}
				return ErrMalformedInteger
			}
			d.saved = append(d.saved, data[pos:]...)
			return nil
		}
		if err != nil {
			d.saved = nil
			d.consumed = 0
			return err
		}
		pos = next
	}
	if final {
		d.consumed = 0
	}
	return nil
}

func (d *Decoder) decodeField(data []byte, pos int, h HeaderHandler) (int, error) {
	b := data[pos]
	switch {
	case b&tagIndexed != 0:
		return d.decodeIndexed(data, pos, h)
	case b&0xc0 == tagIncremental:
		return d.decodeLiteral(data, pos, 6, true, h)
	case b&0xe0 == tagSizeUpdate:
		return d.decodeSizeUpdate(data, pos)
	case b&0xf0 == tagNeverIndexed:
		return d.decodeLiteral(data, pos, 4, false, h)
	default: // 0000xxxx, without indexing
		return d.decodeLiteral(data, pos, 4, false, h)
	}
}

func (d *Decoder) decodeIndexed(data []byte, pos int, h HeaderHandler) (int, error) {
	index, pos, err := readInteger(data, pos, 7)
	if err != nil {
		return 0, err
	}
	if index == 0 {
		return 0, ErrInvalidIndex
	}
	if index <= staticTableSize {
		f := staticTable[index-1]
		if err := d.charge(f); err != nil {
			return 0, err
		}
		h.StaticIndexed(int(index))
		return pos, nil
	}
	f, ok := d.dyn.Get(int(index) - staticTableSize)
	if !ok {
		return 0, ErrInvalidIndex
	}
	if err := d.charge(f); err != nil {
		return 0, err
	}
	h.LiteralHeader([]byte(f.Name), []byte(f.Value), int(index))
	return pos, nil
}

func (d *Decoder) decodeLiteral(data []byte, pos int, prefix uint8, indexing bool, h HeaderHandler) (int, error) {
	nameIndex, pos, err := readInteger(data, pos, prefix)
	if err != nil {
		return 0, err
	}

	var name []byte
	staticName := 0
	dynName := 0
	switch {
	case nameIndex == 0:
		name, pos, err = readStringLiteral(data, pos)
		if err != nil {
			return 0, err
		}
	case nameIndex <= staticTableSize:
		staticName = int(nameIndex)
		name = []byte(staticTable[nameIndex-1].Name)
	default:
		f, ok := d.dyn.Get(int(nameIndex) - staticTableSize)
		if !ok {
			return 0, ErrInvalidIndex
		}
		dynName = int(nameIndex)
		name = []byte(f.Name)
	}

	value, pos, err := readStringLiteral(data, pos)
	if err != nil {
		return 0, err
	}

	f := HeaderField{Name: string(name), Value: string(value)}
	if err := d.charge(f); err != nil {
		return 0, err
	}
	if indexing {
		d.dyn.Add(f)
	}

	if staticName != 0 {
		h.StaticIndexedName(staticName, value)
	} else {
		h.LiteralHeader(name, value, dynName)
	}
	return pos, nil
}

func (d *Decoder) decodeSizeUpdate(data []byte, pos int) (int, error) {
	size, pos, err := readInteger(data, pos, 5)
	if err != nil {
		return 0, err
	}
	if size > d.maxDynamicTableSize {
		return 0, ErrInvalidTableSizeUpdate
	}
	d.dyn.SetMaxSize(size)
	return pos, nil
}

// charge counts a decoded field against the header block budget.
func (d *Decoder) charge(f HeaderField) error {
	d.consumed += uint32(len(f.Name) + len(f.Value))
	if d.consumed > d.maxHeadersLength {
		return ErrHeadersTooLarge
	}
	return nil
}
