package deflate

// RFC 1951 §3.2.5 length code table: code 257+idx decodes to base length
// lengthBase[idx] plus lengthExtraBits[idx] extra bits read LSB-first.
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// RFC 1951 §3.2.5 distance code table (30 codes).
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
	8193, 12289, 16385, 24577,
}

var distExtraBits = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the fixed permutation RFC 1951 §3.2.7 uses to pack the
// HCLEN code-length-code lengths.
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// fixedLitLenLengths are the RFC 1951 §3.2.6 fixed literal/length code
// lengths: 8 for 0–143, 9 for 144–255, 7 for 256–279, 8 for 280–287.
func fixedLitLenLengths() []int {
	lens := make([]int, 288)
	for i := 0; i <= 143; i++ {
		lens[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lens[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lens[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lens[i] = 8
	}
	return lens
}

// fixedDistLengths are the RFC 1951 fixed distance code lengths: all 30
// codes are 5 bits.
func fixedDistLengths() []int {
	lens := make([]int, 30)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}

// lengthToCode maps a back-reference length (3..258) to its length-code
// symbol (257..285), extra-bit count, and extra-bit value.
func lengthToCode(length int) (code, extraBits, extraVal int) {
	for i := len(lengthBase) - 1; i >= 0; i-- {
		if length >= lengthBase[i] {
			return 257 + i, lengthExtraBits[i], length - lengthBase[i]
		}
	}
	return 257, 0, 0
}

// distanceToCode maps a back-reference distance (1..32768) to its
// distance-code symbol (0..29), extra-bit count, and extra-bit value.
func distanceToCode(dist int) (code, extraBits, extraVal int) {
	for i := len(distBase) - 1; i >= 0; i-- {
		if dist >= distBase[i] {
			return i, distExtraBits[i], dist - distBase[i]
		}
	}
	return 0, 0, 0
}
