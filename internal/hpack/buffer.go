package hpack

// Buffer is a growable byte region split into a committed prefix and
// an uncommitted available suffix. The encoder writes into the
// available region without growing it, so a field that does not fit
// fails cleanly and can be retried after Grow. Growth copies only the
// committed prefix; stale bytes in the old suffix never travel.
type Buffer struct {
	data   []byte
	active int
}

// NewBuffer returns a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Len returns the number of committed bytes.
func (b *Buffer) Len() int {
	return b.active
}

// Bytes returns the committed prefix. The slice is valid until the
// next Grow.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.active]
}

// Available returns how many bytes can be written before growing.
func (b *Buffer) Available() int {
	return len(b.data) - b.active
}

// Grow ensures at least min bytes are available, doubling the backing
// store or matching the requirement, whichever is larger.
func (b *Buffer) Grow(min int) {
	if b.Available() >= min {
		return
	}
	size := len(b.data) * 2
	if size < b.active+min {
		size = b.active + min
	}
	if size < 64 {
		size = 64
	}
	grown := make([]byte, size)
	copy(grown, b.data[:b.active])
	b.data = grown
}

// Truncate rolls the committed length back to n. Used to discard a
// partially written field before a retry.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.active {
		panic("hpack: buffer truncate out of range")
	}
	b.active = n
}

// Reset discards all committed bytes, keeping the backing store.
func (b *Buffer) Reset() {
	b.active = 0
}

func (b *Buffer) writeByte(c byte) bool {
	if b.active == len(b.data) {
		return false
	}
	b.data[b.active] = c
	b.active++
	return true
}

func (b *Buffer) write(p []byte) bool {
	if len(p) > b.Available() {
		return false
	}
	copy(b.data[b.active:], p)
	b.active += len(p)
	return true
}

func (b *Buffer) writeString(s string) bool {
	if len(s) > b.Available() {
		return false
	}
	copy(b.data[b.active:], s)
	b.active += len(s)
	return true
}
