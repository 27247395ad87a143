package kef

import (
	"bytes"

	"github.com/joaozinhom/Kern/deflate"
	"github.com/joaozinhom/Kern/internal/rng"
)

const minEnvelopeLen = 6

// header is the parsed fixed-position prefix of an envelope: everything up
// to (and including) the IV.
type header struct {
	id              []byte
	version         uint8
	iterations      uint32
	row             VersionRow
	iv              []byte
	ciphertextStart int
}

// ParseHeader validates and decodes an envelope's header, returning the
// envelope ID, version, and effective iteration count.
func ParseHeader(envelope []byte) (id []byte, version uint8, iterations uint32, err error) {
	h, err := parseHeader(envelope)
	if err != nil {
		return nil, 0, 0, err
	}
	return h.id, h.version, h.iterations, nil
}

func parseHeader(envelope []byte) (*header, error) {
	if len(envelope) < minEnvelopeLen {
		return nil, newErr("parse_header", EnvelopeTooShort, "envelope shorter than minimum header")
	}

	lenID := int(envelope[0])
	if lenID < 1 {
		return nil, newErr("parse_header", InvalidArg, "len_id must be at least 1")
	}
	pos := 1
	if pos+lenID > len(envelope) {
		return nil, newErr("parse_header", EnvelopeTooShort, "id does not fit in envelope")
	}
	id := envelope[pos : pos+lenID]
	pos += lenID

	if pos+1+3 > len(envelope) {
		return nil, newErr("parse_header", EnvelopeTooShort, "version/iterations do not fit in envelope")
	}
	version := envelope[pos]
	pos++

	row, ok := lookupVersion(version)
	if !ok {
		return nil, newErr("parse_header", UnsupportedVersion, "unknown KEF version")
	}

	iterS := getUint24(envelope[pos : pos+3])
	pos += 3
	iterations := decodeIterationCount(iterS)

	if pos+row.IVSize > len(envelope) {
		return nil, newErr("parse_header", EnvelopeTooShort, "iv does not fit in envelope")
	}
	iv := envelope[pos : pos+row.IVSize]
	pos += row.IVSize

	return &header{
		id:              id,
		version:         version,
		iterations:      iterations,
		row:             row,
		iv:              iv,
		ciphertextStart: pos,
	}, nil
}

// trailerSize returns the size of the cleartext trailer following the
// ciphertext: the exposed-auth or GCM tag, or 0 for hidden auth (which is
// encrypted inside the ciphertext region itself).
func trailerSize(row VersionRow) int {
	if row.Auth == AuthExposed || row.Auth == AuthGcm {
		return row.AuthSize
	}
	return 0
}

// IsEnvelope reports whether data parses as a structurally valid KEF
// envelope with a known version and enough trailing bytes for its
// ciphertext and trailer.
func IsEnvelope(data []byte) bool {
	h, err := parseHeader(data)
	if err != nil {
		return false
	}
	remaining := len(data) - h.ciphertextStart
	return remaining >= h.row.minCiphertextLen()+trailerSize(h.row)
}

// Encrypt runs the full KEF encryption pipeline: derive the key, pad and
// encrypt the plaintext under the version row's cipher mode, compute the
// authentication trailer, and assemble the envelope bytes.
func Encrypt(id []byte, version uint8, password []byte, iterations int, plaintext []byte) ([]byte, error) {
	if len(id) < 1 || len(id) > 255 {
		return nil, newErr("encrypt", InvalidArg, "id must be 1..255 bytes")
	}
	if len(plaintext) == 0 {
		return nil, newErr("encrypt", InvalidArg, "plaintext must not be empty")
	}
	if iterations <= 0 {
		return nil, newErr("encrypt", InvalidArg, "iterations must be positive")
	}
	row, ok := lookupVersion(version)
	if !ok {
		return nil, newErr("encrypt", UnsupportedVersion, "unknown KEF version")
	}

	// The key is derived from the count the header will decode back to,
	// which for stored values <= 10000 is the value times 10000.
	effective := decodeIterationCount(encodeIterationCount(uint32(iterations)))
	key := deriveKey(password, id, int(effective))
	defer zeroize(key)

	iv := make([]byte, row.IVSize)
	if row.IVSize > 0 {
		if err := rng.System.Fill(iv); err != nil {
			return nil, wrapErr("encrypt", Crypto, "failed to generate IV", err)
		}
	}

	working := append([]byte(nil), plaintext...)
	defer zeroize(working)
	preCompression := working

	if row.Compress {
		compressed := deflate.Deflate(working, 10)
		zeroize(working)
		working = compressed
		defer zeroize(working)
	}

	if row.Auth == AuthHidden {
		tag := hiddenAuthTag(working, row.AuthSize)
		working = append(working, tag...)
		defer zeroizeAll(working, tag)
	}

	padded, err := applyPadding(row.Padding, working)
	if err != nil {
		return nil, err
	}
	defer zeroize(padded)

	if row.Mode == ModeECB {
		if hasDuplicateBlocks(padded) {
			return nil, newErr("encrypt", DuplicateBlocks, "ECB payload has duplicate 16-byte blocks")
		}
	}

	block, err := blockCipher(key)
	if err != nil {
		return nil, err
	}

	var ciphertext, trailer []byte
	switch row.Mode {
	case ModeECB:
		if len(padded)%16 != 0 {
			return nil, newErr("encrypt", Crypto, "ECB plaintext must be a multiple of 16 bytes")
		}
		ciphertext = ecbEncrypt(block, padded)
	case ModeCBC:
		if len(padded)%16 != 0 {
			return nil, newErr("encrypt", Crypto, "CBC plaintext must be a multiple of 16 bytes")
		}
		ciphertext = cbcEncrypt(block, iv, padded)
	case ModeCTR:
		ciphertext = ctrXOR(block, iv, padded)
	case ModeGCM:
		ct, fullTag, gerr := gcmSeal(block, iv, padded)
		if gerr != nil {
			return nil, gerr
		}
		ciphertext = ct
		trailer = append([]byte(nil), fullTag[:row.AuthSize]...)
	}

	if row.Auth == AuthExposed {
		trailer = exposedAuthTag(version, iv, preCompression, key, row.AuthSize)
	}

	envelope := make([]byte, 0, 1+len(id)+1+3+len(iv)+len(ciphertext)+len(trailer))
	envelope = append(envelope, byte(len(id)))
	envelope = append(envelope, id...)
	envelope = append(envelope, version)
	var iterBuf [3]byte
	putUint24(iterBuf[:], encodeIterationCount(uint32(iterations)))
	envelope = append(envelope, iterBuf[:]...)
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)
	envelope = append(envelope, trailer...)

	return envelope, nil
}

// Decrypt runs the full KEF decryption pipeline: parse the header, derive
// the key, decrypt the ciphertext, verify the authentication trailer, and
// strip padding (and decompress, for the compressed version rows).
func Decrypt(envelope []byte, password []byte) ([]byte, error) {
	h, err := parseHeader(envelope)
	if err != nil {
		return nil, err
	}
	row := h.row
	trailerLen := trailerSize(row)

	if len(envelope) < h.ciphertextStart+row.minCiphertextLen()+trailerLen {
		return nil, newErr("decrypt", EnvelopeTooShort, "envelope missing ciphertext or trailer")
	}

	ciphertext := envelope[h.ciphertextStart : len(envelope)-trailerLen]
	trailer := envelope[len(envelope)-trailerLen:]

	key := deriveKey(password, h.id, int(h.iterations))
	defer zeroize(key)

	block, err := blockCipher(key)
	if err != nil {
		return nil, err
	}

	if row.Mode == ModeGCM {
		plaintext, err := gcmOpenTruncated(block, h.iv, ciphertext, trailer, row.AuthSize)
		if err != nil {
			return nil, err
		}
		defer zeroize(plaintext)
		return finishDecompress(row, plaintext)
	}

	if len(ciphertext)%16 != 0 && row.Mode != ModeCTR {
		return nil, newErr("decrypt", Crypto, "ciphertext is not a multiple of the block size")
	}

	var scratch []byte
	switch row.Mode {
	case ModeECB:
		scratch = ecbDecrypt(block, ciphertext)
	case ModeCBC:
		scratch = cbcDecrypt(block, h.iv, ciphertext)
	case ModeCTR:
		scratch = ctrXOR(block, h.iv, ciphertext)
	}
	defer zeroize(scratch)

	plaintext, err := unpadAndVerify(row, h.version, h.iv, scratch, key, trailer)
	if err != nil {
		return nil, err
	}
	defer zeroize(plaintext)

	return finishDecompress(row, plaintext)
}

func finishDecompress(row VersionRow, plaintext []byte) ([]byte, error) {
	if !row.Compress {
		return append([]byte(nil), plaintext...), nil
	}
	out, err := deflate.Inflate(plaintext)
	if err != nil {
		return nil, wrapErr("decrypt", Decompress, "failed to inflate compressed payload", err)
	}
	return out, nil
}

// unpadAndVerify handles the four padding/auth combinations, trying
// successive candidate lengths where the scheme requires it (NulZero
// strips an unknown number of trailing zero bytes).
func unpadAndVerify(row VersionRow, version uint8, iv, scratch, key, trailer []byte) ([]byte, error) {
	switch {
	case row.Padding == PadNulZero && row.Auth == AuthHidden:
		return unpadNulZeroHidden(scratch, row.AuthSize)
	case row.Padding == PadNulZero && row.Auth == AuthExposed:
		return unpadNulZeroExposed(version, iv, scratch, key, trailer, row.AuthSize)
	case row.Padding == PadPkcs7 && row.Auth == AuthHidden:
		return unpadPkcs7Hidden(scratch, row.AuthSize)
	case row.Padding == PadNone && row.Auth == AuthHidden:
		return unpadNoneHidden(scratch, row.AuthSize)
	default:
		return nil, newErr("decrypt", InvalidArg, "unsupported padding/auth combination")
	}
}

func stripTrailingZeros(buf []byte) []byte {
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	return buf[:end]
}

func unpadNulZeroHidden(scratch []byte, authSize int) ([]byte, error) {
	stripped := stripTrailingZeros(scratch)
	for k := 0; k <= authSize && len(stripped)+k <= len(scratch); k++ {
		candidate := scratch[:len(stripped)+k]
		if len(candidate) < authSize {
			continue
		}
		data := candidate[:len(candidate)-authSize]
		tag := candidate[len(candidate)-authSize:]
		if constantTimeEqual(hiddenAuthTag(data, authSize), tag) {
			return append([]byte(nil), data...), nil
		}
	}
	return nil, newErr("decrypt", Auth, "hidden auth mismatch (NulZero padding)")
}

func unpadNulZeroExposed(version uint8, iv, scratch, key, trailer []byte, authSize int) ([]byte, error) {
	stripped := stripTrailingZeros(scratch)
	for k := 0; k <= authSize && len(stripped)+k <= len(scratch); k++ {
		candidate := scratch[:len(stripped)+k]
		if constantTimeEqual(exposedAuthTag(version, iv, candidate, key, authSize), trailer) {
			return append([]byte(nil), candidate...), nil
		}
	}
	return nil, newErr("decrypt", Auth, "exposed auth mismatch (NulZero padding)")
}

func unpadPkcs7Hidden(scratch []byte, authSize int) ([]byte, error) {
	unpadded, err := unpadPkcs7(scratch)
	if err != nil {
		return nil, newErr("decrypt", Auth, "hidden auth mismatch (PKCS7 padding)")
	}
	if len(unpadded) < authSize {
		return nil, newErr("decrypt", Auth, "payload shorter than hidden auth trailer")
	}
	data := unpadded[:len(unpadded)-authSize]
	tag := unpadded[len(unpadded)-authSize:]
	if !constantTimeEqual(hiddenAuthTag(data, authSize), tag) {
		return nil, newErr("decrypt", Auth, "hidden auth mismatch (PKCS7 padding)")
	}
	return append([]byte(nil), data...), nil
}

func unpadNoneHidden(scratch []byte, authSize int) ([]byte, error) {
	if len(scratch) < authSize {
		return nil, newErr("decrypt", Auth, "payload shorter than hidden auth trailer")
	}
	data := scratch[:len(scratch)-authSize]
	tag := scratch[len(scratch)-authSize:]
	if !constantTimeEqual(hiddenAuthTag(data, authSize), tag) {
		return nil, newErr("decrypt", Auth, "hidden auth mismatch")
	}
	return append([]byte(nil), data...), nil
}

// hasDuplicateBlocks reports whether any two 16-byte blocks of buf are
// bytewise identical.
func hasDuplicateBlocks(buf []byte) bool {
	n := len(buf) / 16
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bytes.Equal(buf[i*16:i*16+16], buf[j*16:j*16+16]) {
				return true
			}
		}
	}
	return false
}
