package label

import (
	"encoding/base64"
	"testing"
)

func TestXorSelfInverse(t *testing.T) {
	a, err := NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	b, err := NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	got := Xor(a, Xor(a, b))
	if !got.Equal(b) {
		t.Fatalf("xor(a, xor(a, b)) = %s, want %s", got, b)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	l, err := NewRandom(32)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	raw, err := base64.URLEncoding.DecodeString(l.Base64())
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	decoded := FromBytes(raw)
	if decoded.Base64() != l.Base64() {
		t.Fatalf("base64 mismatch: %s != %s", decoded.Base64(), l.Base64())
	}
}

func TestLastAndSetLastBit(t *testing.T) {
	l, err := NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	l.SetLastBit(true)
	if !l.Last() {
		t.Fatal("Last() false after SetLastBit(true)")
	}
	l.SetLastBit(false)
	if l.Last() {
		t.Fatal("Last() true after SetLastBit(false)")
	}
}

func TestClearRepresents(t *testing.T) {
	l, err := NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	l = l.WithRepresents(true)
	cleared := l.Clear()
	if cleared.Represents != nil {
		t.Fatal("Clear did not clear Represents")
	}
	if !cleared.Equal(l) {
		t.Fatal("Clear changed the label's identity (base64 form)")
	}
}

func TestEqualIgnoresTags(t *testing.T) {
	l, err := NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	tagged := l.WithRepresents(true).WithPPBit(false)
	if !l.Equal(tagged) {
		t.Fatal("Equal should ignore Represents/PPBit tags, comparing only bytes")
	}
}
