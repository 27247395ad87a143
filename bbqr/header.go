package bbqr

import "strings"

// Encoding is the BBQr payload transfer encoding (the 3rd header byte).
type Encoding byte

const (
	EncodingHex    Encoding = 'H'
	EncodingBase32 Encoding = '2'
	EncodingZlib   Encoding = 'Z'
)

// FileType is the BBQr payload content type (the 4th header byte).
type FileType byte

const (
	FileTypePSBT       FileType = 'P'
	FileTypeTransaction FileType = 'T'
	FileTypeJSON       FileType = 'J'
	FileTypeUnicode    FileType = 'U'
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const maxParts = 1295 // 36^2 - 1

// Part is one decoded BBQr header plus its borrowed payload bytes.
type Part struct {
	Encoding Encoding
	FileType FileType
	Total    int
	Index    int
	Payload  []byte
}

// ParseHeader parses the 8-byte ASCII BBQr header prefix of b and returns a
// Part referencing the remaining bytes as payload (borrowed, not copied).
func ParseHeader(b []byte) (Part, error) {
	if len(b) < 8 {
		return Part{}, newErr("parse_header", BadHeader, "buffer shorter than 8 bytes")
	}
	if b[0] != 'B' || b[1] != '$' {
		return Part{}, newErr("parse_header", BadHeader, "missing B$ prefix")
	}

	enc := Encoding(upperASCII(b[2]))
	switch enc {
	case EncodingHex, EncodingBase32, EncodingZlib:
	default:
		return Part{}, newErr("parse_header", BadEncoding, "unrecognized encoding byte")
	}

	ft := FileType(upperASCII(b[3]))
	switch ft {
	case FileTypePSBT, FileTypeTransaction, FileTypeJSON, FileTypeUnicode:
	default:
		return Part{}, newErr("parse_header", BadFileType, "unrecognized file type byte")
	}

	total, err := decodeBase36Pair(b[4], b[5])
	if err != nil {
		return Part{}, wrapErr("parse_header", BadBase36, "total field", err)
	}
	if total < 1 || total > maxParts {
		return Part{}, newErr("parse_header", BadBase36, "total out of range 1..1295")
	}

	index, err := decodeBase36Pair(b[6], b[7])
	if err != nil {
		return Part{}, wrapErr("parse_header", BadBase36, "index field", err)
	}
	if index < 0 || index >= total {
		return Part{}, newErr("parse_header", BadBase36, "index out of range 0..total-1")
	}

	return Part{
		Encoding: enc,
		FileType: ft,
		Total:    total,
		Index:    index,
		Payload:  b[8:],
	}, nil
}

// encodeHeader renders the 8-byte ASCII header for the given fields.
func encodeHeader(enc Encoding, ft FileType, total, index int) string {
	var sb strings.Builder
	sb.Grow(8)
	sb.WriteByte('B')
	sb.WriteByte('$')
	sb.WriteByte(byte(enc))
	sb.WriteByte(byte(ft))
	sb.WriteString(encodeBase36Pair(total))
	sb.WriteString(encodeBase36Pair(index))
	return sb.String()
}

func encodeBase36Pair(v int) string {
	hi := (v / 36) % 36
	lo := v % 36
	return string([]byte{base36Alphabet[hi], base36Alphabet[lo]})
}

func decodeBase36Pair(hi, lo byte) (int, error) {
	h, err := decodeBase36Digit(hi)
	if err != nil {
		return 0, err
	}
	l, err := decodeBase36Digit(lo)
	if err != nil {
		return 0, err
	}
	return h*36 + l, nil
}

func decodeBase36Digit(c byte) (int, error) {
	c = upperASCII(c)
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), nil
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, nil
	default:
		return 0, errBadDigit(c)
	}
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

type errBadDigit byte

func (e errBadDigit) Error() string {
	return "bbqr: invalid base36 digit"
}
