package hpack

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tested_hpack "github.com/tatsuhiro-t/go-http2-hpack"
	xhpack "golang.org/x/net/http2/hpack"
)

// recordingHandler keeps the raw callbacks so tests can assert which
// representation each field arrived through.
type recordingHandler struct {
	complete []int
	named    []struct {
		index int
		value string
	}
	literal []struct {
		name, value string
		dynIndex    int
	}
}

func (h *recordingHandler) StaticIndexed(index int) {
	h.complete = append(h.complete, index)
}

func (h *recordingHandler) StaticIndexedName(index int, value []byte) {
	h.named = append(h.named, struct {
		index int
		value string
	}{index, string(value)})
}

func (h *recordingHandler) LiteralHeader(name, value []byte, dynIndex int) {
	h.literal = append(h.literal, struct {
		name, value string
		dynIndex    int
	}{string(name), string(value), dynIndex})
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// The decoder side of RFC 7541 C.4: three blocks over one table.
func TestDecoderRFC7541AppendixC4(t *testing.T) {
	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)

	h1 := &recordingHandler{}
	require.NoError(t, dec.Decode(mustHex(t, "828684418cf1e3c2e5f23a6ba0ab90f4ff"), true, h1))
	assert.Equal(t, []int{2, 6, 4}, h1.complete)
	require.Len(t, h1.named, 1)
	assert.Equal(t, 1, h1.named[0].index)
	assert.Equal(t, "www.example.com", h1.named[0].value)
	assert.Equal(t, 1, dec.DynamicTable().Len())

	h2 := &recordingHandler{}
	require.NoError(t, dec.Decode(mustHex(t, "828684be5886a8eb10649cbf"), true, h2))
	assert.Equal(t, []int{2, 6, 4}, h2.complete)
	require.Len(t, h2.literal, 1)
	assert.Equal(t, ":authority", h2.literal[0].name)
	assert.Equal(t, "www.example.com", h2.literal[0].value)
	assert.Equal(t, 62, h2.literal[0].dynIndex)
	require.Len(t, h2.named, 1)
	assert.Equal(t, 24, h2.named[0].index)
	assert.Equal(t, "no-cache", h2.named[0].value)

	h3 := &recordingHandler{}
	require.NoError(t, dec.Decode(mustHex(t, "828785bf408825a849e95ba97d7f8925a849e95bb8e8b4bf"), true, h3))
	require.Len(t, h3.literal, 2)
	assert.Equal(t, 63, h3.literal[0].dynIndex)
	assert.Equal(t, "custom-key", h3.literal[1].name)
	assert.Equal(t, "custom-value", h3.literal[1].value)
	assert.Zero(t, h3.literal[1].dynIndex)

	assert.Equal(t, 3, dec.DynamicTable().Len())
	assert.Equal(t, uint32(164), dec.DynamicTable().Size())
}

func TestDecoderLiteralWithoutIndexing(t *testing.T) {
	// RFC 7541 C.2.2: :path /sample/path as a literal with indexed
	// name, without indexing.
	dec := NewDecoder(0, DefaultMaxHeadersLength)
	h := &recordingHandler{}
	require.NoError(t, dec.Decode(mustHex(t, "040c2f73616d706c652f70617468"), true, h))
	require.Len(t, h.named, 1)
	assert.Equal(t, 4, h.named[0].index)
	assert.Equal(t, "/sample/path", h.named[0].value)
	assert.Zero(t, dec.DynamicTable().Len())
}

func TestDecoderInvalidIndex(t *testing.T) {
	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)

	// Index 0 in an indexed representation.
	err := dec.Decode([]byte{0x80}, true, &recordingHandler{})
	assert.Equal(t, ErrInvalidIndex, err)

	// Reference past the (empty) dynamic table.
	err = dec.Decode([]byte{0xbe}, true, &recordingHandler{})
	assert.Equal(t, ErrInvalidIndex, err)

	// Literal whose name index is out of range.
	err = dec.Decode([]byte{0x7f, 0x10, 0x01, 'x'}, true, &recordingHandler{})
	assert.Equal(t, ErrInvalidIndex, err)
}

func TestDecoderTruncatedString(t *testing.T) {
	enc := NewEncoder(0)
	buf := NewBuffer(64)
	_, err := enc.Encode(buf, []HeaderField{{Name: "x-token", Value: "abcdefghijklmnop"}})
	require.NoError(t, err)

	block := buf.Bytes()
	dec := NewDecoder(0, DefaultMaxHeadersLength)
	err = dec.Decode(block[:len(block)-4], true, &recordingHandler{})
	assert.Equal(t, ErrTruncatedString, err)
}

func TestDecoderMalformedInteger(t *testing.T) {
	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)
	err := dec.Decode([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, true, &recordingHandler{})
	assert.Equal(t, ErrMalformedInteger, err)

	// Block ends inside the index integer.
	err = dec.Decode([]byte{0xff}, true, &recordingHandler{})
	assert.Equal(t, ErrMalformedInteger, err)
}

func TestDecoderHeadersTooLarge(t *testing.T) {
	enc := NewEncoder(0)
	buf := NewBuffer(256)
	fields := []HeaderField{
		{Name: "x-first", Value: "0123456789"},
		{Name: "x-second", Value: "0123456789"},
		{Name: "x-third", Value: "0123456789"},
	}
	_, err := enc.Encode(buf, fields)
	require.NoError(t, err)

	dec := NewDecoder(0, 40)
	h := &recordingHandler{}
	err = dec.Decode(buf.Bytes(), true, h)
	assert.Equal(t, ErrHeadersTooLarge, err)
	assert.Len(t, h.literal, 2, "no callbacks once the budget is blown")
}

func TestDecoderSizeUpdate(t *testing.T) {
	dec := NewDecoder(4096, DefaultMaxHeadersLength)

	// 001xxxxx size update to 100, then an indexed field.
	require.NoError(t, dec.Decode([]byte{0x3f, 0x45, 0x82}, true, &recordingHandler{}))
	assert.Equal(t, uint32(100), dec.DynamicTable().MaxSize())

	// An update above the configured ceiling is a protocol error.
	err := dec.Decode([]byte{0x3f, 0xe2, 0x7f}, true, &recordingHandler{})
	assert.Equal(t, ErrInvalidTableSizeUpdate, err)
}

func TestDecoderChunkedBlock(t *testing.T) {
	enc := NewEncoder(DefaultMaxDynamicTableSize)
	buf := NewBuffer(128)
	fields := []HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "x-span-id", Value: "0123456789abcdef"},
		{Name: "accept", Value: "application/json"},
	}
	_, err := enc.Encode(buf, fields)
	require.NoError(t, err)
	block := buf.Bytes()

	// Feed the block in every possible two-chunk split.
	for cut := 0; cut <= len(block); cut++ {
		dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)
		var got []HeaderField
		collect := collectFunc(func(f HeaderField) { got = append(got, f) })

		require.NoError(t, dec.Decode(block[:cut], false, collect), "cut %d", cut)
		require.NoError(t, dec.Decode(block[cut:], true, collect), "cut %d", cut)
		assert.Equal(t, fields, got, "cut %d", cut)
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	enc := NewEncoder(DefaultMaxDynamicTableSize)
	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)

	fields := []HeaderField{
		{Name: ":method", Value: "POST"},
		{Name: ":path", Value: "/submit?q=1"},
		{Name: "content-type", Value: "application/x-www-form-urlencoded"},
		{Name: "x-empty", Value: ""},
		{Name: "cookie", Value: "session=deadbeef; theme=dark"},
	}

	// Two passes so the second exercises dynamic table hits.
	for pass := 0; pass < 2; pass++ {
		buf := NewBuffer(16)
		_, err := enc.Encode(buf, fields)
		require.NoError(t, err)

		var got []HeaderField
		require.NoError(t, dec.Decode(buf.Bytes(), true, collectFunc(func(f HeaderField) {
			got = append(got, f)
		})))
		assert.Equal(t, fields, got, "pass %d", pass)
	}
}

// Interop: a block produced by the tatsuhiro-t encoder must decode
// here with identical fields.
func TestDecoderInteropTatsuhiro(t *testing.T) {
	headersPre := []*tested_hpack.Header{
		tested_hpack.NewHeader(":method", "GET", false),
		tested_hpack.NewHeader(":scheme", "https", false),
		tested_hpack.NewHeader(":path", "/", false),
	}

	enc := tested_hpack.NewEncoder(0)
	encoded := &bytes.Buffer{}
	enc.Encode(encoded, headersPre)

	t.Logf("encoded headers as hex: 0x%s", hex.EncodeToString(encoded.Bytes()))

	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)
	var got []HeaderField
	require.NoError(t, dec.Decode(encoded.Bytes(), true, collectFunc(func(f HeaderField) {
		got = append(got, f)
	})))

	require.Len(t, got, len(headersPre))
	for i, header := range headersPre {
		assert.Equal(t, header.Name, got[i].Name)
		assert.Equal(t, header.Value, got[i].Value)
	}
}

// Interop: blocks produced here must decode with x/net's hpack, and
// x/net's encoder output must decode here, dynamic table included.
func TestInteropXNetBothDirections(t *testing.T) {
	fields := []HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":authority", Value: "interop.example"},
		{Name: "user-agent", Value: "hpackcodec-test"},
		{Name: "x-request-id", Value: "11e9a1c2"},
	}

	// This encoder -> x/net decoder.
	enc := NewEncoder(DefaultMaxDynamicTableSize)
	buf := NewBuffer(32)
	_, err := enc.Encode(buf, fields)
	require.NoError(t, err)

	var theirs []xhpack.HeaderField
	xdec := xhpack.NewDecoder(DefaultMaxDynamicTableSize, func(f xhpack.HeaderField) {
		theirs = append(theirs, f)
	})
	_, err = xdec.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, xdec.Close())

	require.Len(t, theirs, len(fields))
	for i, f := range fields {
		assert.Equal(t, f.Name, theirs[i].Name)
		assert.Equal(t, f.Value, theirs[i].Value)
	}

	// x/net encoder -> this decoder, twice so the second block leans
	// on x/net's dynamic table inserts.
	var wire bytes.Buffer
	xenc := xhpack.NewEncoder(&wire)
	dec := NewDecoder(DefaultMaxDynamicTableSize, DefaultMaxHeadersLength)

	for pass := 0; pass < 2; pass++ {
		wire.Reset()
		for _, f := range fields {
			require.NoError(t, xenc.WriteField(xhpack.HeaderField{Name: f.Name, Value: f.Value}))
		}

		var got []HeaderField
		require.NoError(t, dec.Decode(wire.Bytes(), true, collectFunc(func(f HeaderField) {
			got = append(got, f)
		})), "pass %d", pass)
		assert.Equal(t, fields, got, "pass %d", pass)
	}
}
