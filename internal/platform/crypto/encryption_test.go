package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"
)

const hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := New(hexKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	plain := []byte(`[{"id":"EMP-1"}]`)
	sealed, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("EMP-1")) {
		t.Fatal("expected ciphertext to hide plaintext")
	}

	opened, err := svc.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("round trip mismatch: %q", opened)
	}
}

func TestDecryptRejectsTamperedData(t *testing.T) {
	svc, _ := New(hexKey)
	sealed, err := svc.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Decrypt(sealed); err == nil {
		t.Fatal("expected tampered ciphertext to fail")
	}
	if _, err := svc.Decrypt([]byte{1, 2}); err != ErrCiphertextTooShort {
		t.Fatalf("expected short ciphertext error, got %v", err)
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	out, err := svc.Encrypt([]byte("plain"))
	if err != nil || string(out) != "plain" {
		t.Fatalf("expected passthrough, got %q %v", out, err)
	}
}

func TestKeyFormats(t *testing.T) {
	raw := bytes.Repeat([]byte{7}, 32)
	for _, key := range []string{
		hexKey,
		base64.StdEncoding.EncodeToString(raw),
		base64.RawStdEncoding.EncodeToString(raw),
		"0123456789abcdef0123456789abcdef",
	} {
		if _, err := New(key); err != nil {
			t.Fatalf("key %q rejected: %v", key, err)
		}
	}
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}
