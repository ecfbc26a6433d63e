package symcrypt

import (
	"bytes"
	"testing"
)

func TestBlockCipherPaddedRoundTrip(t *testing.T) {
	c, err := NewBlockCipher([]byte("some-key-material"))
	if err != nil {
		t.Fatalf("NewBlockCipher: %v", err)
	}
	msg := []byte("a garbled wire label")

	ct, err := c.Encrypt(msg, true, false)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := c.Decrypt(ct, false, true)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypt(encrypt(m)) = %q, want %q", pt, msg)
	}
}

func TestBlockCipherUnpaddedRoundTrip(t *testing.T) {
	c, err := NewBlockCipher([]byte("another-key"))
	if err != nil {
		t.Fatalf("NewBlockCipher: %v", err)
	}
	msg := make([]byte, blockSize*2)
	copy(msg, "exactly two AES blocks of data!!")

	ct, err := c.Encrypt(msg, false, false)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := c.Decrypt(ct, false, false)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypt(encrypt(m)) = %q, want %q", pt, msg)
	}
}

func TestBlockCipherBase64RoundTrip(t *testing.T) {
	c, err := NewBlockCipher([]byte("b64-key"))
	if err != nil {
		t.Fatalf("NewBlockCipher: %v", err)
	}
	msg := []byte("round trip through base64 too")

	ct, err := c.Encrypt(msg, true, true)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := c.Decrypt(ct, true, true)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypt(encrypt(m)) = %q, want %q", pt, msg)
	}
}

func TestGenerateZeroCiphertextDeterministic(t *testing.T) {
	a, err := GenerateZeroCiphertext([]byte("left-key"), []byte("right-key"), 16)
	if err != nil {
		t.Fatalf("GenerateZeroCiphertext: %v", err)
	}
	b, err := GenerateZeroCiphertext([]byte("left-key"), []byte("right-key"), 16)
	if err != nil {
		t.Fatalf("GenerateZeroCiphertext: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("GenerateZeroCiphertext is not deterministic in its inputs")
	}
}
