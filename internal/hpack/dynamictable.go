package hpack

// DynamicTable is the bounded FIFO of recently transmitted fields
// (RFC 7541 §2.3.2). Both connection ends mutate their copy in
// lock-step as incremental-indexing representations pass between them,
// so later fields can be sent as a bare index.
//
// Entries live in a circular buffer, newest at head. Wire indices for
// the dynamic table start at staticTableSize+1 and count from the
// newest entry.
type DynamicTable struct {
	entries []HeaderField
	head    int
	count   int
	size    uint32
	maxSize uint32
}

// NewDynamicTable returns a table bounded to maxSize bytes. A maxSize
// of 0 disables the table: every Add is a no-op.
func NewDynamicTable(maxSize uint32) *DynamicTable {
	capacity := int(maxSize / 64)
	if capacity < 8 {
		capacity = 8
	}
	return &DynamicTable{
		entries: make([]HeaderField, capacity),
		maxSize: maxSize,
	}
}

// Add inserts f as the newest entry, evicting the oldest entries until
// the size invariant holds. A field larger than maxSize on its own
// empties the table and is not stored; that is not an error.
func (t *DynamicTable) Add(f HeaderField) {
	size := f.Size()
	for t.size+size > t.maxSize && t.count > 0 {
		t.evict()
	}
	if size > t.maxSize {
		return
	}
	if t.count == len(t.entries) {
		t.grow()
	}
	t.head = (t.head - 1 + len(t.entries)) % len(t.entries)
	t.entries[t.head] = f
	t.count++
	t.size += size
}

// Get returns the i-th entry counting from the newest, 1-based. This
// is the wire index minus staticTableSize.
func (t *DynamicTable) Get(i int) (HeaderField, bool) {
	if i < 1 || i > t.count {
		return HeaderField{}, false
	}
	return t.entries[(t.head+i-1)%len(t.entries)], true
}

// find returns the 1-based offset of an exact match, or failing that
// the newest name-only match with nameOnly set. 0 means no match.
func (t *DynamicTable) find(f HeaderField) (offset int, nameOnly bool) {
	nameMatch := 0
	for i := 0; i < t.count; i++ {
		e := t.entries[(t.head+i)%len(t.entries)]
		if e.Name != f.Name {
			continue
		}
		if e.Value == f.Value {
			return i + 1, false
		}
		if nameMatch == 0 {
			nameMatch = i + 1
		}
	}
	return nameMatch, nameMatch != 0
}

// Len returns the number of entries.
func (t *DynamicTable) Len() int {
	return t.count
}

// Size returns the current size in bytes per the §4.1 accounting.
func (t *DynamicTable) Size() uint32 {
	return t.size
}

// MaxSize returns the current size bound.
func (t *DynamicTable) MaxSize() uint32 {
	return t.maxSize
}

// SetMaxSize lowers or raises the size bound, evicting immediately
// when the current contents no longer fit.
func (t *DynamicTable) SetMaxSize(maxSize uint32) {
	t.maxSize = maxSize
	for t.size > t.maxSize && t.count > 0 {
		t.evict()
	}
}

func (t *DynamicTable) evict() {
	tail := (t.head + t.count - 1) % len(t.entries)
	t.size -= t.entries[tail].Size()
	t.entries[tail] = HeaderField{}
	t.count--
}

func (t *DynamicTable) grow() {
	grown := make([]HeaderField, len(t.entries)*2)
	for i := 0; i < t.count; i++ {
		grown[i] = t.entries[(t.head+i)%len(t.entries)]
	}
	t.entries = grown
	t.head = 0
}
