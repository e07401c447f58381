// Package header is the collection layer sitting above the hpack
// codec: it canonicalizes names, joins and splits multi-value headers,
// and transcodes values between text and the opaque byte strings the
// codec moves. HPACK itself has no multi-value representation; the
// join is a policy of this layer, not a wire feature.
package header

import (
	"fmt"
	"strings"

	"hpackcodec/internal/hpack"
)

// DefaultSeparator joins multiple values of one header field.
const DefaultSeparator = ","

// Encoding selects how value text maps to bytes on the wire.
type Encoding int

const (
	// EncodingLatin1 is the default single-byte mapping; codepoints
	// above U+00FF cannot be represented and are an error.
	EncodingLatin1 Encoding = iota

	// EncodingUTF8 passes the value's UTF-8 bytes through unchanged,
	// for values known to carry non-Latin-1 text.
	EncodingUTF8
)

// ParseEncoding maps a configuration string to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "latin1":
		return EncodingLatin1, nil
	case "utf8", "utf-8":
		return EncodingUTF8, nil
	}
	return 0, fmt.Errorf("header: unknown value encoding %q", s)
}

// Field is one header with its values still separate. Separator, when
// empty, defaults to DefaultSeparator at join time.
type Field struct {
	Name      string
	Values    []string
	Separator string
	Sensitive bool
}

// CanonicalName lowercases name and rejects characters outside the
// token set plus the pseudo-header colon prefix.
func CanonicalName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("header: empty name")
	}
	b := []byte(strings.ToLower(name))
	for i, c := range b {
		if c == ':' && i == 0 {
			continue
		}
		if !isTokenByte(c) {
			return "", fmt.Errorf("header: invalid character %q in name %q", c, name)
		}
	}
	return string(b), nil
}

func isTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// JoinValues merges a field's values into the single wire value.
func (f Field) JoinValues() string {
	sep := f.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return strings.Join(f.Values, sep)
}

// SplitValue is the decode-side inverse of JoinValues for fields known
// to be multi-value capable, trimming surrounding spaces the way
// senders commonly pad after the comma.
func SplitValue(value, separator string) []string {
	if separator == "" {
		separator = DefaultSeparator
	}
	parts := strings.Split(value, separator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// encodeValue maps value text to wire bytes under enc.
func encodeValue(value string, enc Encoding) (string, error) {
	if enc == EncodingUTF8 {
		return value, nil
	}
	ascii := true
	for i := 0; i < len(value); i++ {
		if value[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return value, nil
	}
	b := make([]byte, 0, len(value))
	for _, r := range value {
		if r > 0xff {
			return "", fmt.Errorf("header: value %q not representable in latin-1", value)
		}
		b = append(b, byte(r))
	}
	return string(b), nil
}

// decodeValue maps wire bytes back to value text under enc.
func decodeValue(raw []byte, enc Encoding) string {
	if enc == EncodingUTF8 {
		return string(raw)
	}
	ascii := true
	for _, c := range raw {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	rs := make([]rune, len(raw))
	for i, c := range raw {
		rs[i] = rune(c)
	}
	return string(rs)
}

// Collection is an ordered set of fields headed for one header block.
type Collection struct {
	Fields   []Field
	Encoding Encoding
}

// Add appends a field, canonicalizing its name.
func (c *Collection) Add(name string, values ...string) error {
	canonical, err := CanonicalName(name)
	if err != nil {
		return err
	}
	c.Fields = append(c.Fields, Field{Name: canonical, Values: values})
	return nil
}

// EncodeInto joins, transcodes and serializes the collection through
// enc into buf, returning the bytes written.
func (c *Collection) EncodeInto(enc *hpack.Encoder, buf *hpack.Buffer) (int, error) {
	fields := make([]hpack.HeaderField, 0, len(c.Fields))
	for _, f := range c.Fields {
		value, err := encodeValue(f.JoinValues(), c.Encoding)
		if err != nil {
			return 0, err
		}
		fields = append(fields, hpack.HeaderField{
			Name:      f.Name,
			Value:     value,
			Sensitive: f.Sensitive,
		})
	}
	return enc.Encode(buf, fields)
}

// Decoded is one field as rebuilt by a Collector, with how it was
// represented on the wire.
type Decoded struct {
	Name  string `json:"name"`
	Value string `json:"value"`

	// StaticIndex is the static table entry that supplied the name
	// (and the value too, when Complete), 0 for literal names.
	StaticIndex int `json:"static_index,omitempty"`

	// DynamicIndex is the absolute dynamic table index the field or
	// its name resolved through, 0 otherwise.
	DynamicIndex int `json:"dynamic_index,omitempty"`

	// Complete marks a field fully resolved from a static table index.
	Complete bool `json:"complete,omitempty"`
}

// Collector implements hpack.HeaderHandler, rebuilding decoded fields
// in arrival order.
type Collector struct {
	Encoding Encoding
	Headers  []Decoded
}

func (c *Collector) StaticIndexed(index int) {
	f, _ := hpack.StaticEntry(index)
	c.Headers = append(c.Headers, Decoded{
		Name:        f.Name,
		Value:       decodeValue([]byte(f.Value), c.Encoding),
		StaticIndex: index,
		Complete:    true,
	})
}

func (c *Collector) StaticIndexedName(index int, value []byte) {
	f, _ := hpack.StaticEntry(index)
	c.Headers = append(c.Headers, Decoded{
		Name:        f.Name,
		Value:       decodeValue(value, c.Encoding),
		StaticIndex: index,
	})
}

func (c *Collector) LiteralHeader(name, value []byte, dynIndex int) {
	c.Headers = append(c.Headers, Decoded{
		Name:         string(name),
		Value:        decodeValue(value, c.Encoding),
		DynamicIndex: dynIndex,
	})
}
