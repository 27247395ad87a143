package bbqr

// Assembler collects BBQr parts for a single transfer and reassembles the
// original payload once every index has arrived. Parts may arrive in any
// order; the assembler preserves payload order by index.
type Assembler struct {
	encoding Encoding
	fileType FileType
	total    int
	started  bool

	have    []bool
	payload [][]byte
	seen    int
}

// Add feeds one parsed part into the assembler. It rejects parts whose
// (encoding, file_type, total) disagree with the first part seen, and
// rejects an index already received.
func (a *Assembler) Add(p Part) error {
	if !a.started {
		a.encoding = p.Encoding
		a.fileType = p.FileType
		a.total = p.Total
		a.have = make([]bool, p.Total)
		a.payload = make([][]byte, p.Total)
		a.started = true
	}

	if p.Encoding != a.encoding || p.FileType != a.fileType || p.Total != a.total {
		return newErr("assemble", Inconsistent, "part header disagrees with the first part in this transfer")
	}
	if p.Index < 0 || p.Index >= a.total {
		return newErr("assemble", Inconsistent, "part index out of range for this transfer")
	}
	if a.have[p.Index] {
		return newErr("assemble", DuplicateIndex, "index already received")
	}

	a.have[p.Index] = true
	a.payload[p.Index] = append([]byte(nil), p.Payload...)
	a.seen++
	return nil
}

// Done reports whether every part 0..total-1 has been received.
func (a *Assembler) Done() bool {
	return a.started && a.seen == a.total
}

// Remaining returns how many parts are still outstanding.
func (a *Assembler) Remaining() int {
	if !a.started {
		return 0
	}
	return a.total - a.seen
}

// Finish concatenates the collected payloads in index order and decodes
// the result. It fails if the transfer is incomplete.
func (a *Assembler) Finish() ([]byte, error) {
	if !a.Done() {
		return nil, newErr("assemble", Incomplete, "not all parts received")
	}

	var encodedLen int
	for _, chunk := range a.payload {
		encodedLen += len(chunk)
	}
	encoded := make([]byte, 0, encodedLen)
	for _, chunk := range a.payload {
		encoded = append(encoded, chunk...)
	}

	return DecodePayload(Part{
		Encoding: a.encoding,
		FileType: a.fileType,
		Total:    a.total,
		Index:    0,
		Payload:  encoded,
	})
}
