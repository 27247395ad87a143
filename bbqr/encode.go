package bbqr

import (
	"strings"

	"github.com/joaozinhom/Kern/base32x"
	"github.com/joaozinhom/Kern/deflate"
)

// deflateWbits is the window size BBQr's Z encoding compresses with.
const deflateWbits = 10

// Encode splits data into one or more BBQr part strings, each no longer
// than cap characters (header included). It tries raw DEFLATE first; if
// the compressed form is smaller it ships Z-encoded base32 of the
// compressed bytes, otherwise 2-encoded base32 of the raw input (H is
// decode-only here).
func Encode(data []byte, ft FileType, cap int) ([]string, error) {
	if cap < 16 {
		return nil, newErr("encode", BadHeader, "cap must be at least 16 characters")
	}

	compressed := deflate.Deflate(data, deflateWbits)

	var enc Encoding
	var encoded string
	if len(compressed) < len(data) {
		enc = EncodingZlib
		encoded = base32x.Encode(compressed)
	} else {
		enc = EncodingBase32
		encoded = base32x.Encode(data)
	}

	payloadCap := cap - 8 // header is always 8 characters
	if payloadCap <= 0 {
		return nil, newErr("encode", BadHeader, "cap leaves no room for payload")
	}

	// Two-step formula: estimate the number of
	// parts from the raw cap, then redistribute so payload length is a
	// multiple of 8 (the base32 block size) on every part but the last.
	estimate := (len(encoded) + payloadCap - 1) / payloadCap
	if estimate < 1 {
		estimate = 1
	}
	perPart := (len(encoded) + estimate - 1) / estimate
	perPart = (perPart + 7) / 8 * 8
	if perPart > payloadCap {
		perPart = payloadCap / 8 * 8
	}
	if perPart <= 0 {
		perPart = payloadCap
	}

	total := (len(encoded) + perPart - 1) / perPart
	if total < 1 {
		total = 1
	}
	if total > maxParts {
		return nil, newErr("encode", BadHeader, "input requires more than 1295 parts")
	}

	parts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		start := i * perPart
		end := start + perPart
		if end > len(encoded) {
			end = len(encoded)
		}
		var sb strings.Builder
		sb.WriteString(encodeHeader(enc, ft, total, i))
		sb.WriteString(encoded[start:end])
		parts = append(parts, sb.String())
	}
	return parts, nil
}
