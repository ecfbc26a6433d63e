package symcrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// AuthCipher is the Fernet-like authenticated cipher F_K spec.md §4.2
// requires: unlike BlockCipher, decryption reports whether the
// ciphertext authenticates. It is used only by classical garble/
// ungarble, which tries all four table entries and needs that signal
// to know which one decrypted correctly.
//
// golang.org/x/crypto/nacl/secretbox (already a teacher dependency via
// the golang.org/x/crypto module) provides exactly this shape —
// authenticated, symmetric, fails closed on tampering — without
// reaching for an unpack-able third-party Fernet package.
type AuthCipher struct {
	key [32]byte
}

// NewAuthCipher derives a 32-byte secretbox key via SHA-256(key),
// mirroring BlockCipher's key derivation.
func NewAuthCipher(key []byte) *AuthCipher {
	return &AuthCipher{key: sha256.Sum256(key)}
}

// Encrypt authenticates and encrypts msg, prefixing the ciphertext
// with a fresh random nonce.
func (c *AuthCipher) Encrypt(msg []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("symcrypt: nonce: %w", err)
	}
	out := make([]byte, 0, len(nonce)+len(msg)+secretbox.Overhead)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, msg, &nonce, &c.key), nil
}

// Decrypt authenticates and decrypts msg. ok is false (with a nil
// error) when the ciphertext fails to authenticate — the expected,
// swallowed outcome for 3 of 4 entries in classical ungarble
// (spec.md §7, CryptoFailure). A non-nil error indicates a malformed
// (too-short) ciphertext, a protocol-level problem rather than a
// failed decryption attempt.
func (c *AuthCipher) Decrypt(msg []byte) (plain []byte, ok bool, err error) {
	if len(msg) < 24 {
		return nil, false, fmt.Errorf("symcrypt: ciphertext too short")
	}
	var nonce [24]byte
	copy(nonce[:], msg[:24])
	plain, ok = secretbox.Open(nil, msg[24:], &nonce, &c.key)
	return plain, ok, nil
}
