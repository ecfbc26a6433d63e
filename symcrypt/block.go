// Package symcrypt implements the two symmetric primitives spec.md
// §4.2 requires: an unauthenticated, SHA-256-keyed block cipher in ECB
// mode with size-prefixed padding (used by every optimization except
// classical), and a Fernet-like authenticated cipher (used only by
// classical garble/ungarble, which needs a decrypt-success signal to
// know which of the four table entries is the real one).
//
// crypto/cipher deliberately ships no ECB mode (ECB leaks plaintext
// structure and the standard library only exposes modes considered
// safe for general use), so the ECB loop here is hand-rolled over
// crypto/aes.NewCipher block-by-block, the same primitive
// circuit/garble.go builds its half-gates hash on top of in the
// teacher.
package symcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const blockSize = aes.BlockSize // 16

// BlockCipher is the unauthenticated ECB cipher E_K, keyed by
// SHA-256(key).
type BlockCipher struct {
	block cipher.Block
}

// NewBlockCipher derives an AES key via SHA-256(key) and constructs
// the ECB cipher.
func NewBlockCipher(key []byte) (*BlockCipher, error) {
	sum := sha256.Sum256(key)
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("symcrypt: %w", err)
	}
	return &BlockCipher{block: block}, nil
}

// Encrypt encrypts msg. When pad is true (the default shape), msg is
// first length-prefixed and zero-padded to a multiple of the AES
// block size; when false, msg must already be a whole number of AES
// blocks (as the all-zeros k-byte block is, for the k values spec.md
// supports) and is encrypted unchanged. When toBase64 is true the
// ciphertext is returned urlsafe-base64 encoded.
func (c *BlockCipher) Encrypt(msg []byte, pad, toBase64 bool) ([]byte, error) {
	var plain []byte
	if pad {
		plain = padMessage(msg)
	} else {
		if len(msg) == 0 || len(msg)%blockSize != 0 {
			return nil, fmt.Errorf(
				"symcrypt: unpadded encrypt requires a multiple of %d bytes, got %d",
				blockSize, len(msg))
		}
		plain = msg
	}

	out := make([]byte, len(plain))
	ecbCrypt(c.block.Encrypt, out, plain)

	if toBase64 {
		enc := make([]byte, base64.URLEncoding.EncodedLen(len(out)))
		base64.URLEncoding.Encode(enc, out)
		return enc, nil
	}
	return out, nil
}

// Decrypt reverses Encrypt. Decryption never fails observably — it
// always returns some byte string (spec.md §4.2); callers must know
// from protocol context whether the result is meaningful. An error is
// returned only when msg is not a ciphertext at all: invalid base64,
// a length that is not a whole number of AES blocks, or (with unpad)
// fewer than four bytes to hold the length prefix.
func (c *BlockCipher) Decrypt(msg []byte, fromBase64, unpad bool) ([]byte, error) {
	cipherText := msg
	if fromBase64 {
		decoded := make([]byte, base64.URLEncoding.DecodedLen(len(msg)))
		n, err := base64.URLEncoding.Decode(decoded, msg)
		if err != nil {
			return nil, fmt.Errorf("symcrypt: base64 decode: %w", err)
		}
		cipherText = decoded[:n]
	}
	if len(cipherText)%blockSize != 0 {
		return nil, fmt.Errorf(
			"symcrypt: ciphertext length %d not a multiple of block size",
			len(cipherText))
	}

	out := make([]byte, len(cipherText))
	ecbCrypt(c.block.Decrypt, out, cipherText)

	if unpad {
		return unpadMessage(out)
	}
	return out, nil
}

// ecbCrypt applies op (Encrypt or Decrypt) to src one block at a
// time, writing into dst. This is the entirety of "ECB mode": no
// chaining between blocks.
func ecbCrypt(op func(dst, src []byte), dst, src []byte) {
	for i := 0; i+blockSize <= len(src); i += blockSize {
		op(dst[i:i+blockSize], src[i:i+blockSize])
	}
}

// padMessage prefixes msg with its 4-byte big-endian length, then
// zero-pads to the next multiple of the AES block size.
func padMessage(msg []byte) []byte {
	withSize := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(withSize, uint32(len(msg)))
	copy(withSize[4:], msg)

	pad := (blockSize - len(withSize)%blockSize) % blockSize
	return append(withSize, make([]byte, pad)...)
}

// unpadMessage reverses padMessage: the first four bytes give the
// original length, and the payload follows. A declared length that
// runs past the end of msg is cut off at the end of msg.
func unpadMessage(msg []byte) ([]byte, error) {
	if len(msg) < 4 {
		return nil, fmt.Errorf("symcrypt: padded message too short")
	}
	end := 4 + int(binary.BigEndian.Uint32(msg[:4]))
	if end > len(msg) {
		end = len(msg)
	}
	return msg[4:end], nil
}
