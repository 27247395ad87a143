// Package qrformat classifies an opaque byte buffer scanned from a QR code
// into one of the mnemonic-carrying transport formats a wallet recognizes.
// It never itself talks to a BIP39 wordlist; classification is purely
// structural and decoding is left to an external collaborator.
package qrformat

// Kind is the closed set of mnemonic QR formats Detect can return.
type Kind uint8

const (
	Unknown Kind = iota
	CompactEntropy
	SeedQR
	PlainMnemonic
)

func (k Kind) String() string {
	switch k {
	case CompactEntropy:
		return "compact_entropy"
	case SeedQR:
		return "seed_qr"
	case PlainMnemonic:
		return "plain_mnemonic"
	default:
		return "unknown"
	}
}

// Detect classifies buf by length and byte content.
func Detect(buf []byte) Kind {
	n := len(buf)
	hasNonPrintable := containsNonPrintable(buf)

	if (n == 16 || n == 32) && hasNonPrintable {
		return CompactEntropy
	}
	if (n == 48 || n == 96) && allASCIIDigits(buf) {
		return SeedQR
	}
	if !hasNonPrintable && containsSpace(buf) && containsLetter(buf) {
		return PlainMnemonic
	}
	if (n == 16 || n == 32) && !hasNonPrintable {
		return CompactEntropy
	}
	return Unknown
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

func containsNonPrintable(buf []byte) bool {
	for _, b := range buf {
		if !isPrintable(b) {
			return true
		}
	}
	return false
}

func allASCIIDigits(buf []byte) bool {
	for _, b := range buf {
		if b < '0' || b > '9' {
			return false
		}
	}
	return len(buf) > 0
}

func containsSpace(buf []byte) bool {
	for _, b := range buf {
		if b == ' ' {
			return true
		}
	}
	return false
}

func containsLetter(buf []byte) bool {
	for _, b := range buf {
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
			return true
		}
	}
	return false
}
