// Package hpack implements the HTTP/2 header compression format
// defined in RFC 7541: the static and dynamic indexing tables, the
// variable-length integer and string literal codecs, Huffman coding,
// and the encoder/decoder over them.
//
// The package works on opaque byte strings. Header name
// canonicalization and multi-value handling live one layer up.
package hpack

import "errors"

const DefaultMaxDynamicTableSize = 4096

// DefaultMaxHeadersLength bounds the cumulative decoded name+value
// bytes of a single header block.
const DefaultMaxHeadersLength = 8192

var (
	// ErrMalformedInteger is returned when an integer's continuation
	// bytes run past the input or past 32 bits.
	ErrMalformedInteger = errors.New("hpack: malformed integer")

	// ErrTruncatedString is returned when a string literal declares
	// more bytes than remain in the input.
	ErrTruncatedString = errors.New("hpack: truncated string literal")

	// ErrInvalidHuffmanCode is returned for a code outside the
	// canonical table, an explicit EOS symbol, or bad padding.
	ErrInvalidHuffmanCode = errors.New("hpack: invalid huffman code")

	// ErrInvalidIndex is returned for index 0 or a reference past the
	// end of the dynamic table.
	ErrInvalidIndex = errors.New("hpack: invalid table index")

	// ErrHeadersTooLarge is returned when a header block's decoded
	// size exceeds the decoder's configured limit.
	ErrHeadersTooLarge = errors.New("hpack: headers exceed maximum length")

	// ErrInvalidTableSizeUpdate is returned when a peer's dynamic
	// table size update exceeds the size this side allows.
	ErrInvalidTableSizeUpdate = errors.New("hpack: invalid dynamic table size update")

	// ErrInsufficientBufferSpace reports that a field does not fit in
	// the destination buffer's available region. It is recoverable:
	// grow the buffer and retry the same field. Nothing is written for
	// a field that fails this way.
	ErrInsufficientBufferSpace = errors.New("hpack: insufficient buffer space")
)

// HeaderField is a single name/value pair. The codec treats both
// members as opaque byte strings.
type HeaderField struct {
	Name  string
	Value string

	// Sensitive marks a field that must never be indexed (RFC 7541
	// §6.2.3), e.g. credentials.
	Sensitive bool
}

// Size returns the field's dynamic table cost per RFC 7541 §4.1.
func (f HeaderField) Size() uint32 {
	return uint32(len(f.Name) + len(f.Value) + 32)
}

// HeaderHandler receives one callback per decoded header field. The
// callback identifies how the field arrived on the wire so callers can
// tell table hits from literals without re-deriving it.
//
// Name and value slices are only valid for the duration of the call.
type HeaderHandler interface {
	// StaticIndexed reports a field fully resolved from static table
	// entry index (1..61).
	StaticIndexed(index int)

	// StaticIndexedName reports a field whose name came from static
	// table entry index and whose value was a literal.
	StaticIndexedName(index int, value []byte)

	// LiteralHeader reports every other field. dynIndex is the
	// absolute table index (>= 62) when the name or the whole field
	// was resolved from the dynamic table, 0 when the name arrived as
	// a literal.
	LiteralHeader(name, value []byte, dynIndex int)
}
