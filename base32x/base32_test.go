package base32x

import (
	"bytes"
	"testing"
)

func TestDecodeKnownVectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JBSWY3DP", "Hello"},
		{"JBSWY3DPEBLW64TMMQ======", "Hello World"},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Fatalf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		[]byte("f"),
		[]byte("fo"),
		[]byte("foo"),
		[]byte("foob"),
		[]byte("fooba"),
		[]byte("foobar"),
		bytes.Repeat([]byte{0xFF, 0x00, 0xAB}, 17),
	}
	for _, in := range inputs {
		enc := Encode(in)
		out, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(Encode(%x)) failed: %v", in, err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip mismatch for %x: got %x via %q", in, out, enc)
		}
	}
}

func TestDecodeTolerance(t *testing.T) {
	upper := "JBSWY3DP"
	lower := "jbswy3dp"
	whitespace := "JBSW Y3DP\n"

	want, err := Decode(upper)
	if err != nil {
		t.Fatalf("Decode(upper) failed: %v", err)
	}
	for _, variant := range []string{lower, whitespace} {
		got, err := Decode(variant)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", variant, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Decode(%q) = %x, want %x", variant, got, want)
		}
	}
}

func TestDecodeRejectsInvalidBytes(t *testing.T) {
	if _, err := Decode("!!!!!!!!"); err == nil {
		t.Fatal("expected an error for non-alphabet input")
	}
}
