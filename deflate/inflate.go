package deflate

const maxExpansion = 16 * 1024 * 1024

// Inflate decompresses a raw RFC 1951 DEFLATE stream (no zlib or gzip
// wrapper). This is the convenience entry point used by kef and bbqr, whose
// payloads are small enough (KEF envelopes, BBQr parts) that the allocator
// growth path in InflateRawAlloc is unnecessary; it enforces the same
// 16 MiB expansion ceiling.
func Inflate(data []byte) ([]byte, error) {
	return inflateCapped(data, maxExpansion)
}

// InflateRawAlloc mirrors the miniz allocator-growth convention: start at
// max(4×input, 1024) bytes, double the output cap on overflow, and give up
// past 16 MiB. Exposed for callers that want that explicit growth behavior
// rather than the unbounded append Inflate uses internally (both enforce
// the same final ceiling).
func InflateRawAlloc(data []byte) ([]byte, error) {
	cap0 := len(data) * 4
	if cap0 < 1024 {
		cap0 = 1024
	}
	for {
		if cap0 > maxExpansion {
			cap0 = maxExpansion
		}
		out, err := inflateCapped(data, cap0)
		if err == nil {
			return out, nil
		}
		if !Is(err, BufError) {
			return nil, err
		}
		if cap0 == maxExpansion {
			break
		}
		cap0 *= 2
	}
	return nil, newErr(MemError, "output exceeds 16 MiB expansion ceiling")
}

// inflateCapped runs the inflate state machine, rejecting output that
// would grow past maxOut with BufError so InflateRawAlloc can retry with a
// larger allowance.
func inflateCapped(data []byte, maxOut int) ([]byte, error) {
	r := newBitReader(data)
	out := make([]byte, 0, min(len(data)*4, maxOut))

	for {
		final, err := r.readBits(1)
		if err != nil {
			return nil, err
		}
		btype, err := r.readBits(2)
		if err != nil {
			return nil, err
		}

		switch btype {
		case 0:
			out, err = inflateStored(r, out, maxOut)
		case 1:
			out, err = inflateHuffmanBlock(r, out, fixedLitLenDecoder, fixedDistDecoder, maxOut)
		case 2:
			var litLen, dist *huffDecoder
			litLen, dist, err = readDynamicTables(r)
			if err == nil {
				out, err = inflateHuffmanBlock(r, out, litLen, dist, maxOut)
			}
		default:
			err = newErr(DataError, "reserved block type 3")
		}
		if err != nil {
			return nil, err
		}
		if final == 1 {
			break
		}
	}
	return out, nil
}

func inflateStored(r *bitReader, out []byte, maxOut int) ([]byte, error) {
	r.alignByte()
	lenBytes, err := r.readRawBytes(2)
	if err != nil {
		return nil, err
	}
	nlenBytes, err := r.readRawBytes(2)
	if err != nil {
		return nil, err
	}
	length := int(lenBytes[0]) | int(lenBytes[1])<<8
	nlen := int(nlenBytes[0]) | int(nlenBytes[1])<<8
	if length^0xFFFF != nlen {
		return nil, newErr(DataError, "stored block LEN/NLEN mismatch")
	}
	if len(out)+length > maxOut {
		return nil, newErr(BufError, "stored block would exceed output cap")
	}
	raw, err := r.readRawBytes(length)
	if err != nil {
		return nil, err
	}
	return append(out, raw...), nil
}

func inflateHuffmanBlock(r *bitReader, out []byte, litLen, dist *huffDecoder, maxOut int) ([]byte, error) {
	for {
		sym, err := litLen.decode(r)
		if err != nil {
			return nil, err
		}
		if sym == 256 {
			return out, nil
		}
		if sym < 256 {
			if len(out)+1 > maxOut {
				return nil, newErr(BufError, "literal would exceed output cap")
			}
			out = append(out, byte(sym))
			continue
		}
		if sym > 285 {
			return nil, newErr(DataError, "reserved length code")
		}
		idx := sym - 257
		extraBits := lengthExtraBits[idx]
		extraVal := 0
		if extraBits > 0 {
			extraVal, err = r.readBits(extraBits)
			if err != nil {
				return nil, err
			}
		}
		length := lengthBase[idx] + extraVal

		distSym, err := dist.decode(r)
		if err != nil {
			return nil, err
		}
		if distSym > 29 {
			return nil, newErr(DataError, "reserved distance code")
		}
		distExtra := distExtraBits[distSym]
		distExtraVal := 0
		if distExtra > 0 {
			distExtraVal, err = r.readBits(distExtra)
			if err != nil {
				return nil, err
			}
		}
		distance := distBase[distSym] + distExtraVal

		if distance > len(out) {
			return nil, newErr(DataError, "back-reference distance exceeds bytes emitted")
		}
		if len(out)+length > maxOut {
			return nil, newErr(BufError, "match would exceed output cap")
		}
		start := len(out) - distance
		for k := 0; k < length; k++ {
			out = append(out, out[start+k])
		}
	}
}

func readDynamicTables(r *bitReader) (litLen, dist *huffDecoder, err error) {
	hlit, err := r.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hlit += 257
	if hlit > 286 {
		return nil, nil, newErr(DataError, "HLIT exceeds 286")
	}
	hdist, err := r.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdist += 1
	if hdist > 30 {
		return nil, nil, newErr(DataError, "HDIST exceeds 30")
	}
	hclen, err := r.readBits(4)
	if err != nil {
		return nil, nil, err
	}
	hclen += 4

	clLengths := make([]int, 19)
	for i := 0; i < hclen; i++ {
		v, err := r.readBits(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[codeLengthOrder[i]] = v
	}
	clDecoder := newHuffDecoder(clLengths)

	allLengths := make([]int, hlit+hdist)
	for i := 0; i < len(allLengths); {
		sym, err := clDecoder.decode(r)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			allLengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, newErr(DataError, "repeat code 16 with no previous length")
			}
			n, err := r.readBits(2)
			if err != nil {
				return nil, nil, err
			}
			n += 3
			prev := allLengths[i-1]
			for j := 0; j < n && i < len(allLengths); j++ {
				allLengths[i] = prev
				i++
			}
		case sym == 17:
			n, err := r.readBits(3)
			if err != nil {
				return nil, nil, err
			}
			n += 3
			for j := 0; j < n && i < len(allLengths); j++ {
				allLengths[i] = 0
				i++
			}
		case sym == 18:
			n, err := r.readBits(7)
			if err != nil {
				return nil, nil, err
			}
			n += 11
			for j := 0; j < n && i < len(allLengths); j++ {
				allLengths[i] = 0
				i++
			}
		default:
			return nil, nil, newErr(DataError, "invalid code-length symbol")
		}
	}

	litLenLengths := allLengths[:hlit]
	distLengths := allLengths[hlit:]
	return newHuffDecoder(litLenLengths), newHuffDecoder(distLengths), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
