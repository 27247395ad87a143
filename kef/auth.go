package kef

import (
	"crypto/subtle"
)

// hiddenAuthTag computes the truncated SHA-256 of data used as the
// "hidden" auth trailer, appended inside the padded region before
// encryption.
func hiddenAuthTag(data []byte, size int) []byte {
	sum := sha256Sum(data)
	return append([]byte(nil), sum[:size]...)
}

// exposedAuthTag computes the truncated SHA-256 of
// (version ‖ iv ‖ preCompressionData ‖ key), the "exposed" auth trailer
// carried outside the ciphertext in cleartext.
func exposedAuthTag(version uint8, iv, preCompressionData, key []byte, size int) []byte {
	buf := make([]byte, 0, 1+len(iv)+len(preCompressionData)+len(key))
	buf = append(buf, version)
	buf = append(buf, iv...)
	buf = append(buf, preCompressionData...)
	buf = append(buf, key...)
	sum := sha256Sum(buf)
	zeroize(buf)
	return append([]byte(nil), sum[:size]...)
}

// constantTimeEqual reports whether a and b are equal, in constant time
// with respect to their contents. All authentication checks use this.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
