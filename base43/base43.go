// Package base43 implements the Krux-compatible 43-symbol encoding: the
// subset of the QR Alphanumeric character set BBQr's sibling transports use
// for densely-packed QR payloads.
package base43

import (
	"math/big"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ$*+-./:"

var digitOf [256]int8

func init() {
	for i := range digitOf {
		digitOf[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		digitOf[alphabet[i]] = int8(i)
	}
}

// Encode treats data as a big-endian unsigned integer, repeatedly divides
// by 43, and prepends one '0'-symbol per leading 0x00 byte so that leading
// zero bytes survive the round trip.
func Encode(data []byte) string {
	leadingZeros := 0
	for leadingZeros < len(data) && data[leadingZeros] == 0 {
		leadingZeros++
	}

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(43)
	zero := big.NewInt(0)

	var digits []byte
	if n.Cmp(zero) == 0 && leadingZeros == len(data) {
		// Entirely zero input (including empty): nothing beyond the
		// leading-zero prefix below.
	} else {
		rem := new(big.Int)
		for n.Cmp(zero) > 0 {
			n.DivMod(n, base, rem)
			digits = append(digits, alphabet[rem.Int64()])
		}
	}

	var sb strings.Builder
	for i := 0; i < leadingZeros; i++ {
		sb.WriteByte(alphabet[0])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// Decode inverts Encode: for each symbol, multiplies the running integer by
// 43 and adds its digit value; one leading 0x00 byte is produced per
// leading '0'-symbol.
func Decode(s string) ([]byte, error) {
	leadingZeros := 0
	for leadingZeros < len(s) && s[leadingZeros] == alphabet[0] {
		leadingZeros++
	}

	n := new(big.Int)
	base := big.NewInt(43)
	for i := 0; i < len(s); i++ {
		d := digitOf[s[i]]
		if d < 0 {
			return nil, errInvalidSymbol(s[i])
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(d)))
	}

	body := n.Bytes()
	out := make([]byte, leadingZeros+len(body))
	copy(out[leadingZeros:], body)
	return out, nil
}

type errInvalidSymbol byte

func (e errInvalidSymbol) Error() string {
	return "base43: invalid symbol in input"
}
