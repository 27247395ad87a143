package bbqr

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/joaozinhom/Kern/base32x"
)

func assembleAll(t *testing.T, parts []string) []byte {
	t.Helper()
	var a Assembler
	for _, s := range parts {
		p, err := ParseHeader([]byte(s))
		if err != nil {
			t.Fatalf("ParseHeader(%q) failed: %v", s, err)
		}
		if err := a.Add(p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if !a.Done() {
		t.Fatalf("assembler not done after adding all %d parts", len(parts))
	}
	out, err := a.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	return out
}

func TestEncodeParseAssembleRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		cap  int
	}{
		{"short-text", []byte("hello world"), 64},
		{"repeated", bytes.Repeat([]byte("repeat-me-please "), 64), 40},
		{"binary", func() []byte {
			r := rand.New(rand.NewSource(7))
			buf := make([]byte, 2000)
			r.Read(buf)
			return buf
		}(), 80},
		{"single-byte", []byte{0x42}, 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := Encode(tc.data, FileTypePSBT, tc.cap)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			for _, p := range parts {
				if len(p) > tc.cap {
					t.Fatalf("part length %d exceeds cap %d: %q", len(p), tc.cap, p)
				}
			}
			got := assembleAll(t, parts)
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(tc.data))
			}
		})
	}
}

func TestAssemblerAcceptsOutOfOrderParts(t *testing.T) {
	data := bytes.Repeat([]byte("order should not matter "), 30)
	parts, err := Encode(data, FileTypeJSON, 48)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(parts) < 2 {
		t.Fatalf("expected more than one part, got %d", len(parts))
	}

	reversed := make([]string, len(parts))
	for i, p := range parts {
		reversed[len(parts)-1-i] = p
	}
	got := assembleAll(t, reversed)
	if !bytes.Equal(got, data) {
		t.Fatal("out-of-order assembly mismatch")
	}
}

func TestAssemblerRejectsInconsistentHeader(t *testing.T) {
	parts, err := Encode([]byte("some payload bytes"), FileTypePSBT, 32)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var a Assembler
	p0, _ := ParseHeader([]byte(parts[0]))
	if err := a.Add(p0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	bogus := p0
	bogus.FileType = FileTypeJSON
	if err := a.Add(bogus); !Is(err, Inconsistent) {
		t.Fatalf("expected Inconsistent error, got %v", err)
	}
}

func TestAssemblerRejectsDuplicateIndex(t *testing.T) {
	parts, err := Encode(bytes.Repeat([]byte("abcdefgh"), 20), FileTypeTransaction, 24)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	var a Assembler
	p0, _ := ParseHeader([]byte(parts[0]))
	if err := a.Add(p0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := a.Add(p0); !Is(err, DuplicateIndex) {
		t.Fatalf("expected DuplicateIndex error, got %v", err)
	}
}

func TestFinishRejectsIncompleteTransfer(t *testing.T) {
	parts, err := Encode(bytes.Repeat([]byte("abcdefgh"), 20), FileTypeUnicode, 24)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	var a Assembler
	p0, _ := ParseHeader([]byte(parts[0]))
	if err := a.Add(p0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := a.Finish(); !Is(err, Incomplete) {
		t.Fatalf("expected Incomplete error, got %v", err)
	}
}

func TestParseHeaderRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"too-short", "B$H"},
		{"bad-prefix", "X$HP0100"},
		{"bad-encoding", "B$XP0100"},
		{"bad-file-type", "B$HX0100"},
		{"bad-total-digit", "B$HP!!00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseHeader([]byte(tc.in)); err == nil {
				t.Fatalf("expected an error parsing %q", tc.in)
			}
		})
	}
}

func TestDecodePayloadHexAndBase32(t *testing.T) {
	raw := []byte("a short piece of data")

	hexPart := Part{Encoding: EncodingHex, Payload: []byte("612073686f7274207069656365206f6620646174 61")}
	if _, err := DecodePayload(hexPart); err == nil {
		t.Fatal("expected an error decoding a malformed hex payload")
	}

	b32 := Part{Encoding: EncodingBase32, Payload: []byte(base32x.Encode(raw))}
	out, err := DecodePayload(b32)
	if err != nil {
		t.Fatalf("DecodePayload(base32) failed: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("base32 payload mismatch: got %q want %q", out, raw)
	}
}

func TestDecodePayloadRejectsBadEncoding(t *testing.T) {
	p := Part{Encoding: Encoding('Q'), Payload: []byte("anything")}
	if _, err := DecodePayload(p); !Is(err, BadEncoding) {
		t.Fatalf("expected BadEncoding error, got %v", err)
	}
}
