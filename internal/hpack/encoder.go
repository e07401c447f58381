package hpack

// Representation type tags from RFC 7541 §6. The tag occupies the bits
// above the integer prefix of the first byte.
const (
	tagIndexed         = 0x80 // 1xxxxxxx, 7-bit index
	tagIncremental     = 0x40 // 01xxxxxx, 6-bit index
	tagSizeUpdate      = 0x20 // 001xxxxx, 5-bit size
	tagNeverIndexed    = 0x10 // 0001xxxx, 4-bit index
	tagWithoutIndexing = 0x00 // 0000xxxx, 4-bit index
)

// Encoder serializes header fields into the RFC 7541 wire form. It
// owns the encode-side dynamic table; when it emits an
// incremental-indexing representation it inserts the field, mirroring
// what the peer's decoder will do, so both index spaces stay aligned.
//
// An Encoder is not safe for concurrent use; callers serialize access
// the same way they serialize the connection it belongs to.
type Encoder struct {
	dyn *DynamicTable

	// tableSizeUpdate is pending when SetMaxDynamicTableSize changed
	// the bound; the instruction is emitted at the start of the next
	// header block.
	tableSizeUpdate bool
	minSize         uint32
}

// NewEncoder returns an encoder whose dynamic table holds at most
// maxDynamicTableSize bytes. Size 0 disables indexing entirely: every
// field goes out as a literal.
func NewEncoder(maxDynamicTableSize uint32) *Encoder {
	return &Encoder{dyn: NewDynamicTable(maxDynamicTableSize)}
}

// DynamicTable exposes the encode-side table, mainly to tests that
// assert both ends stay in lock-step.
func (e *Encoder) DynamicTable() *DynamicTable {
	return e.dyn
}

// SetMaxDynamicTableSize changes the table bound and queues a size
// update instruction for the next header block. When called more than
// once between blocks the smallest intermediate size is also emitted,
// as the peer must observe the minimum to evict correctly.
func (e *Encoder) SetMaxDynamicTableSize(size uint32) {
	if !e.tableSizeUpdate || size < e.minSize {
		e.minSize = size
	}
	e.tableSizeUpdate = true
	e.dyn.SetMaxSize(size)
}

// Encode serializes fields into buf, growing it as needed, and returns
// the number of bytes written by this call.
func (e *Encoder) Encode(buf *Buffer, fields []HeaderField) (int, error) {
	start := buf.Len()
	for _, f := range fields {
		for {
			err := e.EncodeField(buf, f)
			if err == nil {
				break
			}
			if err != ErrInsufficientBufferSpace {
				return buf.Len() - start, err
			}
			buf.Grow(int(f.Size()) * 2)
		}
	}
	return buf.Len() - start, nil
}

// EncodeField serializes a single field into buf's available region.
// The write is all-or-nothing: on ErrInsufficientBufferSpace nothing
// is committed and no table state has changed, so the caller can grow
// the buffer and retry the same field.
func (e *Encoder) EncodeField(buf *Buffer, f HeaderField) error {
	mark := buf.Len()
	if err := e.encodeField(buf, f); err != nil {
		buf.Truncate(mark)
		return err
	}
	e.tableSizeUpdate = false
	return nil
}

func (e *Encoder) encodeField(buf *Buffer, f HeaderField) error {
	if e.tableSizeUpdate {
		if e.minSize < e.dyn.MaxSize() {
			if err := writeInteger(buf, tagSizeUpdate, 5, e.minSize); err != nil {
				return err
			}
		}
		if err := writeInteger(buf, tagSizeUpdate, 5, e.dyn.MaxSize()); err != nil {
			return err
		}
	}

	index, nameOnly := e.lookup(f)
	if index != 0 && !nameOnly && !f.Sensitive {
		return writeInteger(buf, tagIndexed, 7, uint32(index))
	}

	var tag byte
	var prefix uint8
	indexing := false
	switch {
	case f.Sensitive:
		tag, prefix = tagNeverIndexed, 4
	case e.dyn.MaxSize() > 0:
		tag, prefix = tagIncremental, 6
		indexing = true
	default:
		tag, prefix = tagWithoutIndexing, 4
	}

	if err := writeInteger(buf, tag, prefix, uint32(index)); err != nil {
		return err
	}
	if index == 0 {
		if err := writeStringLiteral(buf, f.Name); err != nil {
			return err
		}
	}
	if err := writeStringLiteral(buf, f.Value); err != nil {
		return err
	}

	// Insert only after the whole field is written, so a failed write
	// never desynchronizes the tables.
	if indexing {
		e.dyn.Add(f)
	}
	return nil
}

// lookup searches the static table first, then the dynamic table,
// preferring an exact match from either over a name-only match.
func (e *Encoder) lookup(f HeaderField) (index int, nameOnly bool) {
	si, sNameOnly := lookupStatic(f)
	if si != 0 && !sNameOnly {
		return si, false
	}
	di, dNameOnly := e.dyn.find(f)
	if di != 0 && !dNameOnly {
		return staticTableSize + di, false
	}
	if si != 0 {
		return si, true
	}
	if di != 0 {
		return staticTableSize + di, true
	}
	return 0, false
}
