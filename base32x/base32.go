// Package base32x implements the RFC 4648 base32 codec BBQr's `2` and `Z`
// encodings use, with a decoder lenient enough to accept either padded or
// unpadded, mixed-case, whitespace-peppered input.
package base32x

import "strings"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		decodeTable[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			decodeTable[c+('a'-'A')] = int8(i)
		}
	}
}

// Encode returns the uppercase, '='-padded RFC 4648 base32 encoding of data.
func Encode(data []byte) string {
	var sb strings.Builder
	sb.Grow(((len(data) + 4) / 5) * 8)

	for i := 0; i < len(data); i += 5 {
		chunk := data[i:min(i+5, len(data))]
		var buf [5]byte
		copy(buf[:], chunk)

		out := [8]byte{}
		out[0] = alphabet[buf[0]>>3]
		out[1] = alphabet[(buf[0]<<2|buf[1]>>6)&0x1F]
		out[2] = alphabet[(buf[1]>>1)&0x1F]
		out[3] = alphabet[(buf[1]<<4|buf[2]>>4)&0x1F]
		out[4] = alphabet[(buf[2]<<1|buf[3]>>7)&0x1F]
		out[5] = alphabet[(buf[3]>>2)&0x1F]
		out[6] = alphabet[(buf[3]<<3|buf[4]>>5)&0x1F]
		out[7] = alphabet[buf[4]&0x1F]

		// Number of output characters that carry real data for this chunk.
		nOut := [...]int{0, 2, 4, 5, 7, 8}[len(chunk)]
		for j := 0; j < 8; j++ {
			if j < nOut {
				sb.WriteByte(out[j])
			} else {
				sb.WriteByte('=')
			}
		}
	}
	return sb.String()
}

// Decode decodes a base32 string, tolerating whitespace, either case, and
// either padded or unpadded input. Output length is exactly
// floor(n*5/8) where n is the data-character count after trimming padding.
func Decode(s string) ([]byte, error) {
	chars := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c == '=' {
			continue
		}
		if decodeTable[c] < 0 {
			return nil, errBadByte(c)
		}
		chars = append(chars, c)
	}

	n := len(chars)
	outLen := (n * 5) / 8
	out := make([]byte, outLen)

	var buf uint64
	var bits int
	var outPos int
	for _, c := range chars {
		buf = (buf << 5) | uint64(decodeTable[c])
		bits += 5
		if bits >= 8 {
			bits -= 8
			out[outPos] = byte(buf >> uint(bits))
			outPos++
		}
	}
	return out[:outPos], nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type errBadByte byte

func (e errBadByte) Error() string {
	return "base32x: invalid character in input"
}
