package hpack

// The fixed table from RFC 7541 Appendix A. Wire index i maps to
// staticTable[i-1].
const staticTableSize = 61

var staticTable = [staticTableSize]HeaderField{
	{Name: ":authority", Value: ""},
	{Name: ":method", Value: "GET"},
	{Name: ":method", Value: "POST"},
	{Name: ":path", Value: "/"},
	{Name: ":path", Value: "/index.html"},
	{Name: ":scheme", Value: "http"},
	{Name: ":scheme", Value: "https"},
	{Name: ":status", Value: "200"},
	{Name: ":status", Value: "204"},
	{Name: ":status", Value: "206"},
	{Name: ":status", Value: "304"},
	{Name: ":status", Value: "400"},
	{Name: ":status", Value: "404"},
	{Name: ":status", Value: "500"},
	{Name: "accept-charset", Value: ""},
	{Name: "accept-encoding", Value: "gzip, deflate"},
	{Name: "accept-language", Value: ""},
	{Name: "accept-ranges", Value: ""},
	{Name: "accept", Value: ""},
	{Name: "access-control-allow-origin", Value: ""},
	{Name: "age", Value: ""},
	{Name: "allow", Value: ""},
	{Name: "authorization", Value: ""},
	{Name: "cache-control", Value: ""},
	{Name: "content-disposition", Value: ""},
	{Name: "content-encoding", Value: ""},
	{Name: "content-language", Value: ""},
	{Name: "content-length", Value: ""},
	{Name: "content-location", Value: ""},
	{Name: "content-range", Value: ""},
	{Name: "content-type", Value: ""},
	{Name: "cookie", Value: ""},
	{Name: "date", Value: ""},
	{Name: "etag", Value: ""},
	{Name: "expect", Value: ""},
	{Name: "expires", Value: ""},
	{Name: "from", Value: ""},
	{Name: "host", Value: ""},
	{Name: "if-match", Value: ""},
	{Name: "if-modified-since", Value: ""},
	{Name: "if-none-match", Value: ""},
	{Name: "if-range", Value: ""},
	{Name: "if-unmodified-since", Value: ""},
	{Name: "last-modified", Value: ""},
	{Name: "link", Value: ""},
	{Name: "location", Value: ""},
	{Name: "max-forwards", Value: ""},
	{Name: "proxy-authenticate", Value: ""},
	{Name: "proxy-authorization", Value: ""},
	{Name: "range", Value: ""},
	{Name: "referer", Value: ""},
	{Name: "refresh", Value: ""},
	{Name: "retry-after", Value: ""},
	{Name: "server", Value: ""},
	{Name: "set-cookie", Value: ""},
	{Name: "strict-transport-security", Value: ""},
	{Name: "transfer-encoding", Value: ""},
	{Name: "user-agent", Value: ""},
	{Name: "vary", Value: ""},
	{Name: "via", Value: ""},
	{Name: "www-authenticate", Value: ""},
}

var (
	staticIndex     map[HeaderField]int
	staticNameIndex map[string]int
)

func init() {
	staticIndex = make(map[HeaderField]int, staticTableSize)
	staticNameIndex = make(map[string]int, staticTableSize)
	for i, f := range staticTable {
		if _, ok := staticIndex[f]; !ok {
			staticIndex[f] = i + 1
		}
		if _, ok := staticNameIndex[f.Name]; !ok {
			staticNameIndex[f.Name] = i + 1
		}
	}
}

// lookupStatic returns the index of an exact match, or failing that
// the lowest index whose name matches, with nameOnly set.
func lookupStatic(f HeaderField) (index int, nameOnly bool) {
	if i, ok := staticIndex[HeaderField{Name: f.Name, Value: f.Value}]; ok {
		return i, false
	}
	if i, ok := staticNameIndex[f.Name]; ok {
		return i, true
	}
	return 0, false
}

// StaticEntry returns the static table entry for wire index i (1..61).
func StaticEntry(i int) (HeaderField, bool) {
	if i < 1 || i > staticTableSize {
		return HeaderField{}, false
	}
	return staticTable[i-1], true
}
