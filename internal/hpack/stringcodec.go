package hpack

// String literals per RFC 7541 §5.2: a 7-bit-prefixed length whose top
// bit flags Huffman coding, then the payload. The encoder picks
// Huffman only when it is strictly shorter than the raw bytes.

const huffmanFlag = 0x80

func writeStringLiteral(b *Buffer, s string) error {
	if h := huffmanEncodedLen(s); h < len(s) {
		if err := writeInteger(b, huffmanFlag, 7, uint32(h)); err != nil {
			return err
		}
		return writeHuffman(b, s)
	}
	if err := writeInteger(b, 0, 7, uint32(len(s))); err != nil {
		return err
	}
	if !b.writeString(s) {
		return ErrInsufficientBufferSpace
	}
	return nil
}

// readStringLiteral decodes the literal at data[pos], returning the
// payload bytes and the position after it. Raw payloads alias data;
// Huffman payloads are expanded into a fresh slice.
func readStringLiteral(data []byte, pos int) ([]byte, int, error) {
	if pos >= len(data) {
		return nil, 0, errNeedMore
	}
	huffman := data[pos]&huffmanFlag != 0
	length, pos, err := readInteger(data, pos, 7)
	if err != nil {
		return nil, 0, err
	}
	if uint32(len(data)-pos) < length {
		return nil, 0, errNeedMoreString
	}
	payload := data[pos : pos+int(length)]
	pos += int(length)
	if !huffman {
		return payload, pos, nil
	}
	decoded, err := huffmanDecode(make([]byte, 0, len(payload)*2), payload)
	if err != nil {
		return nil, 0, err
	}
	return decoded, pos, nil
}
