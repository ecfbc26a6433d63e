// Package label implements the k-byte wire labels and the wires that
// hold a true/false pair of them (spec.md §3, §4.1).
package label

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Label is a uniformly random k-byte token standing for one truth
// value on one wire, plus the two optional tags spec.md §3 describes:
// Represents (nil once "cleared to unknown") and PPBit.
type Label struct {
	Bytes     []byte
	Represents *bool
	PPBit      *bool
}

// NewRandom creates a fresh uniformly random label of the given byte
// width. Represents and PPBit are left unset; callers fill them in.
func NewRandom(numBytes int) (Label, error) {
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return Label{}, fmt.Errorf("label: %w", err)
	}
	return Label{Bytes: buf}, nil
}

// FromBytes wraps raw bytes (such as config.Config.R) as a Label with
// no Represents/PPBit tag.
func FromBytes(b []byte) Label {
	return Label{Bytes: b}
}

// boolPtr is a small helper so call sites can write boolPtr(true).
func boolPtr(b bool) *bool { return &b }

// WithRepresents returns a copy of l tagged with the given truth value.
func (l Label) WithRepresents(v bool) Label {
	l.Represents = boolPtr(v)
	return l
}

// WithPPBit returns a copy of l tagged with the given point-and-permute bit.
func (l Label) WithPPBit(v bool) Label {
	l.PPBit = boolPtr(v)
	return l
}

// Clear returns a copy of l with Represents cleared to "unknown". Used
// when labels leave the garbler's process (spec.md §3 invariant).
func (l Label) Clear() Label {
	l.Represents = nil
	return l
}

// String renders the label using its canonical base64 form.
func (l Label) String() string {
	return l.Base64()
}

// Base64 is the canonical textual encoding, also used as symmetric
// cipher key material (spec.md §4.1).
func (l Label) Base64() string {
	return base64.URLEncoding.EncodeToString(l.Bytes)
}

// Base32 is an alternate textual encoding.
func (l Label) Base32() string {
	return base32.StdEncoding.EncodeToString(l.Bytes)
}

// Int returns the label interpreted as a big-endian unsigned integer.
func (l Label) Int() *big.Int {
	return new(big.Int).SetBytes(l.Bytes)
}

// Equal compares two labels by their canonical base64 form, per
// spec.md §4.1.
func (l Label) Equal(o Label) bool {
	return l.Base64() == o.Base64()
}

// Last returns the label's last bit (the low-order bit of the final
// byte), used throughout as the point-and-permute/free-XOR tweak bit.
func (l Label) Last() bool {
	if len(l.Bytes) == 0 {
		return false
	}
	return l.Bytes[len(l.Bytes)-1]&1 != 0
}

// SetLastBit forces the label's last bit to the given value, in place.
func (l *Label) SetLastBit(v bool) {
	if len(l.Bytes) == 0 {
		return
	}
	i := len(l.Bytes) - 1
	if v {
		l.Bytes[i] |= 1
	} else {
		l.Bytes[i] &^= 1
	}
}

// Xor returns a new label holding l XOR o. Panics if the two labels
// differ in length, which would indicate a configuration bug.
func Xor(l, o Label) Label {
	if len(l.Bytes) != len(o.Bytes) {
		panic(fmt.Sprintf("label: length mismatch %d != %d",
			len(l.Bytes), len(o.Bytes)))
	}
	out := make([]byte, len(l.Bytes))
	for i := range out {
		out[i] = l.Bytes[i] ^ o.Bytes[i]
	}
	return Label{Bytes: out}
}
