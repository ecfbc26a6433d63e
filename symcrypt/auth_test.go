package symcrypt

import (
	"bytes"
	"testing"
)

func TestAuthCipherRoundTrip(t *testing.T) {
	c := NewAuthCipher([]byte("auth-key"))
	msg := []byte("classical garble table entry")

	ct, err := c.Encrypt(msg)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, ok, err := c.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !ok {
		t.Fatal("Decrypt: expected authentication success")
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypt(encrypt(m)) = %q, want %q", pt, msg)
	}
}

func TestAuthCipherRejectsWrongKey(t *testing.T) {
	c1 := NewAuthCipher([]byte("key-one"))
	c2 := NewAuthCipher([]byte("key-two"))

	ct, err := c1.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	_, ok, err := c2.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if ok {
		t.Fatal("Decrypt under the wrong key should not authenticate")
	}
}
