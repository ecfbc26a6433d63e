package symcrypt

import "fmt"

// GenerateZeroCiphertext returns the label bytes C such that
// decrypting the all-zeros k-byte block under left then right keys
// (nested, unpadded) yields C — equivalently, encrypting C under
// right then left keys (nested, unpadded) recovers the all-zeros
// block. This is the GRR3 trick (spec.md §4.2) that lets one garbled
// table entry be elided: the "zero entry" is never transmitted, it is
// recomputed by the evaluator from the zero block directly.
func GenerateZeroCiphertext(leftKeyMaterial, rightKeyMaterial []byte, numBytes int) ([]byte, error) {
	k1, err := NewBlockCipher(leftKeyMaterial)
	if err != nil {
		return nil, fmt.Errorf("symcrypt: zero ciphertext: %w", err)
	}
	k2, err := NewBlockCipher(rightKeyMaterial)
	if err != nil {
		return nil, fmt.Errorf("symcrypt: zero ciphertext: %w", err)
	}

	zero := make([]byte, numBytes)
	inner, err := k1.Decrypt(zero, false, false)
	if err != nil {
		return nil, fmt.Errorf("symcrypt: zero ciphertext: %w", err)
	}
	outer, err := k2.Decrypt(inner, false, false)
	if err != nil {
		return nil, fmt.Errorf("symcrypt: zero ciphertext: %w", err)
	}
	return outer, nil
}
