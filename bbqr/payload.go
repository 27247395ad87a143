package bbqr

import (
	"encoding/hex"

	"github.com/joaozinhom/Kern/base32x"
	"github.com/joaozinhom/Kern/deflate"
)

// DecodePayload reverses the encoding named by p.Encoding and returns the
// original bytes. Z-encoded payloads are base32-decoded and inflated; if
// the decoded bytes start with a valid zlib header they are tried as a
// zlib stream first, falling back to raw DEFLATE on failure.
func DecodePayload(p Part) ([]byte, error) {
	switch p.Encoding {
	case EncodingHex:
		out := make([]byte, hex.DecodedLen(len(p.Payload)))
		n, err := hex.Decode(out, p.Payload)
		if err != nil {
			return nil, wrapErr("decode_payload", BadEncoding, "invalid hex payload", err)
		}
		return out[:n], nil

	case EncodingBase32:
		out, err := base32x.Decode(string(p.Payload))
		if err != nil {
			return nil, wrapErr("decode_payload", BadEncoding, "invalid base32 payload", err)
		}
		return out, nil

	case EncodingZlib:
		raw, err := base32x.Decode(string(p.Payload))
		if err != nil {
			return nil, wrapErr("decode_payload", BadEncoding, "invalid base32 payload", err)
		}
		if len(raw) >= 2 && deflate.IsZlibHeader(raw[0], raw[1]) {
			if out, zerr := deflate.ZlibUncompress(raw); zerr == nil {
				return out, nil
			}
		}
		out, err := deflate.Inflate(raw)
		if err != nil {
			return nil, wrapErr("decode_payload", BadEncoding, "inflate failed", err)
		}
		return out, nil

	default:
		return nil, newErr("decode_payload", BadEncoding, "unrecognized encoding")
	}
}
