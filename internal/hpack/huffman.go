package hpack

// Huffman coding per RFC 7541 §5.2 and Appendix B. Encoding walks the
// code table directly; decoding walks a binary tree built from the
// table at init.

type huffmanNode struct {
	children [2]*huffmanNode
	sym      int // -1 for internal nodes, 0..256 for leaves
}

var huffmanRoot = buildHuffmanTree()

func buildHuffmanTree() *huffmanNode {
	root := &huffmanNode{sym: -1}
	for sym, hc := range huffmanCodes {
		n := root
		for i := int(hc.bits) - 1; i >= 0; i-- {
			bit := (hc.code >> uint(i)) & 1
			if n.children[bit] == nil {
				n.children[bit] = &huffmanNode{sym: -1}
			}
			n = n.children[bit]
		}
		n.sym = sym
	}
	return root
}

// huffmanEncodedLen returns the byte length of s in Huffman form,
// including padding. The encoder compares it against the raw length to
// pick the shorter string representation.
func huffmanEncodedLen(s string) int {
	bits := 0
	for i := 0; i < len(s); i++ {
		bits += int(huffmanCodes[s[i]].bits)
	}
	return (bits + 7) / 8
}

// writeHuffman appends the Huffman form of s, padding the final byte
// with the high bits of EOS (all ones).
func writeHuffman(b *Buffer, s string) error {
	var acc uint64
	var nbits uint8
	for i := 0; i < len(s); i++ {
		hc := huffmanCodes[s[i]]
		acc = acc<<hc.bits | uint64(hc.code)
		nbits += hc.bits
		for nbits >= 8 {
			nbits -= 8
			if !b.writeByte(byte(acc >> nbits)) {
				return ErrInsufficientBufferSpace
			}
		}
	}
	if nbits > 0 {
		pad := 8 - nbits
		if !b.writeByte(byte(acc<<pad) | (1<<pad - 1)) {
			return ErrInsufficientBufferSpace
		}
	}
	return nil
}

// huffmanDecode expands data into dst and returns the extended slice.
// An unknown code, an explicit EOS symbol, or padding that is not a
// prefix of EOS fails with ErrInvalidHuffmanCode.
func huffmanDecode(dst, data []byte) ([]byte, error) {
	n := huffmanRoot
	// Count the trailing bits that did not complete a symbol so the
	// padding can be checked: it must be under 8 bits, all ones.
	onesRun := 0
	for _, c := range data {
		for i := 7; i >= 0; i-- {
			bit := c >> uint(i) & 1
			next := n.children[bit]
			if next == nil {
				return nil, ErrInvalidHuffmanCode
			}
			if bit == 1 {
				onesRun++
			} else {
				onesRun = 0
			}
			n = next
			if n.sym >= 0 {
				if n.sym == 256 {
					// EOS must never appear in the stream.
					return nil, ErrInvalidHuffmanCode
				}
				dst = append(dst, byte(n.sym))
				n = huffmanRoot
				onesRun = 0
			}
		}
	}
	if n != huffmanRoot {
		// Partial symbol: valid only as up to 7 bits of EOS padding.
		depth := huffmanDepth(n)
		if depth >= 8 || onesRun < depth {
			return nil, ErrInvalidHuffmanCode
		}
	}
	return dst, nil
}

// huffmanDepth walks all-ones edges back toward EOS to measure how
// many bits led to n; since padding follows the EOS prefix, a partial
// symbol reached by fewer consecutive ones than its depth is invalid.
func huffmanDepth(n *huffmanNode) int {
	depth := 0
	c := huffmanRoot
	for c != n {
		if c.children[1] == nil {
			return 8 // not on the EOS path at all
		}
		c = c.children[1]
		depth++
		if depth >= 8 {
			break
		}
	}
	return depth
}
