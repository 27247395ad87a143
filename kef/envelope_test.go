package kef

import (
	"bytes"
	"fmt"
	"testing"
)

func TestEncryptDecryptRoundTripAllVersions(t *testing.T) {
	plaintext := []byte("hello, this is a secret message used across every KEF version row")
	for ver := range versionTable {
		t.Run(fmt.Sprintf("version-%d", ver), func(t *testing.T) {
			env, err := Encrypt([]byte("device-id-01"), ver, []byte("correct horse battery staple"), 1000, plaintext)
			if err != nil {
				t.Fatalf("Encrypt(version=%d) failed: %v", ver, err)
			}
			out, err := Decrypt(env, []byte("correct horse battery staple"))
			if err != nil {
				t.Fatalf("Decrypt(version=%d) failed: %v", ver, err)
			}
			if !bytes.Equal(out, plaintext) {
				t.Fatalf("version %d round trip mismatch: got %q want %q", ver, out, plaintext)
			}
			if !IsEnvelope(env) {
				t.Fatalf("version %d: IsEnvelope returned false for a freshly encrypted envelope", ver)
			}
		})
	}
}

func TestEncryptVersion0SeedScenario(t *testing.T) {
	env, err := Encrypt([]byte("abc"), 0, []byte("pw"), 1000, []byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if env[0] != 0x03 {
		t.Fatalf("expected first byte (len_id) to be 0x03, got %#x", env[0])
	}
	// version sits immediately after len_id + id, i.e. at offset 1+len(id).
	versionOffset := 1 + int(env[0])
	if env[versionOffset] != 0x00 {
		t.Fatalf("expected version byte at offset %d to be 0x00, got %#x", versionOffset, env[versionOffset])
	}

	out, err := Decrypt(env, []byte("pw"))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("got %q want %q", out, "hello")
	}
}

func TestEncryptVersion20GCMSeedScenario(t *testing.T) {
	plaintext := make([]byte, 64)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}

	env, err := Encrypt([]byte("7F12A3B4"), 20, []byte("correct horse"), 100000, plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	h, err := parseHeader(env)
	if err != nil {
		t.Fatalf("parseHeader failed: %v", err)
	}
	if len(h.iv) != 12 {
		t.Fatalf("expected 12-byte GCM IV, got %d", len(h.iv))
	}
	if trailerSize(h.row) != 4 {
		t.Fatalf("expected 4-byte GCM tag, got %d", trailerSize(h.row))
	}

	out, err := Decrypt(env, []byte("correct horse"))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(out, plaintext) {
		t.Fatal("GCM round trip mismatch")
	}

	tampered := append([]byte(nil), env...)
	tampered[len(tampered)-1] ^= 0xFF
	if _, err := Decrypt(tampered, []byte("correct horse")); !Is(err, Auth) {
		t.Fatalf("expected Auth error after flipping last tag byte, got %v", err)
	}
}

func TestDecryptDetectsTamperingAcrossVersions(t *testing.T) {
	plaintext := []byte("the signature below must not be forgeable")
	for ver := range versionTable {
		env, err := Encrypt([]byte("tamper-id"), ver, []byte("pw"), 500, plaintext)
		if err != nil {
			t.Fatalf("Encrypt(version=%d) failed: %v", ver, err)
		}
		tampered := append([]byte(nil), env...)
		tampered[len(tampered)-1] ^= 0x01
		_, err = Decrypt(tampered, []byte("pw"))
		if err == nil {
			t.Fatalf("version %d: expected tampering to be detected, decryption silently succeeded", ver)
		}
		if !Is(err, Auth) {
			t.Fatalf("version %d: expected Auth error kind, got %v", ver, err)
		}
	}
}

func TestIsEnvelopeRejectsShortBuffers(t *testing.T) {
	for n := 0; n < 6; n++ {
		if IsEnvelope(make([]byte, n)) {
			t.Fatalf("expected IsEnvelope to reject %d random bytes", n)
		}
	}
}

func TestIterationEncodingRoundTrip(t *testing.T) {
	// Counts below 10000 have no compact form: they are stored as-is and,
	// like every stored value <= 10000, read back multiplied by 10000.
	cases := []struct{ e, want uint32 }{
		{1, 10000}, {7, 70000}, {9999, 99990000},
		{10000, 10000}, {20000, 20000}, {100000, 100000}, {99990000, 99990000}, {1<<24 - 1, 1<<24 - 1},
	}
	for _, c := range cases {
		s := encodeIterationCount(c.e)
		if decodeIterationCount(s) != c.want {
			t.Fatalf("encode/decode for E=%d: S=%d, decoded=%d, want %d", c.e, s, decodeIterationCount(s), c.want)
		}
	}
}

func TestIterationEncodingSeedScenario(t *testing.T) {
	if s := encodeIterationCount(100000); s != 10 {
		t.Fatalf("encodeIterationCount(100000) = %d, want 10", s)
	}
	if e := decodeIterationCount(10); e != 100000 {
		t.Fatalf("decodeIterationCount(10) = %d, want 100000", e)
	}
	if s := encodeIterationCount(7); s != 7 {
		t.Fatalf("encodeIterationCount(7) = %d, want 7", s)
	}
	if e := decodeIterationCount(7); e != 70000 {
		t.Fatalf("decodeIterationCount(7) = %d, want 70000", e)
	}
}

func TestECBRejectsDuplicateBlocks(t *testing.T) {
	plaintext := bytes.Repeat([]byte("0123456789ABCDEF"), 4) // four identical 16-byte blocks
	_, err := Encrypt([]byte("id"), 0, []byte("pw"), 100, plaintext)
	if !Is(err, DuplicateBlocks) {
		t.Fatalf("expected DuplicateBlocks error, got %v", err)
	}
}

func TestEncryptRejectsInvalidArgs(t *testing.T) {
	if _, err := Encrypt(nil, 0, []byte("pw"), 100, []byte("x")); !Is(err, InvalidArg) {
		t.Fatalf("expected InvalidArg for empty id, got %v", err)
	}
	if _, err := Encrypt([]byte("id"), 0, []byte("pw"), 100, nil); !Is(err, InvalidArg) {
		t.Fatalf("expected InvalidArg for empty plaintext, got %v", err)
	}
	if _, err := Encrypt([]byte("id"), 0, []byte("pw"), 0, []byte("x")); !Is(err, InvalidArg) {
		t.Fatalf("expected InvalidArg for zero iterations, got %v", err)
	}
	if _, err := Encrypt([]byte("id"), 250, []byte("pw"), 100, []byte("x")); !Is(err, UnsupportedVersion) {
		t.Fatalf("expected UnsupportedVersion for unknown version, got %v", err)
	}
}

func TestCompressedVersionsShrinkRepeatedPlaintext(t *testing.T) {
	plaintext := bytes.Repeat([]byte("repeat-me-please "), 64)
	for _, ver := range []uint8{7, 12, 16, 21} {
		env, err := Encrypt([]byte("id"), ver, []byte("pw"), 100, plaintext)
		if err != nil {
			t.Fatalf("version %d: Encrypt failed: %v", ver, err)
		}
		if len(env) >= len(plaintext) {
			t.Fatalf("version %d: envelope of %d bytes is not smaller than %d-byte plaintext", ver, len(env), len(plaintext))
		}
		out, err := Decrypt(env, []byte("pw"))
		if err != nil {
			t.Fatalf("version %d: Decrypt failed: %v", ver, err)
		}
		if !bytes.Equal(out, plaintext) {
			t.Fatalf("version %d: round trip mismatch", ver)
		}
	}
}
