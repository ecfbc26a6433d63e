// Package ot implements 1-out-of-2 oblivious transfer using an RSA
// trapdoor permutation and additive blinding, per spec.md §4.7: the
// sender commits two messages, the receiver picks one of two blinding
// values (bit-dependent), and the sender's RSA private key lets it
// unblind both candidate keys without ever learning which one the
// receiver actually used.
package ot

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/twopc/gabes/ot/mpint"
	"github.com/twopc/gabes/pkcs1"
)

// MinKeyBits is the smallest RSA modulus size this package will
// generate for a given message size: 8·numBytes·2 bits, so the
// additive masking step (M + k) never wraps the message into
// ambiguity, and never less than 1024 bits, the smallest key
// crypto/rsa.GenerateKey accepts.
func MinKeyBits(numBytes int) int {
	bits := 8 * numBytes * 2
	if bits < 1024 {
		bits = 1024
	}
	return bits
}

// Sender holds the RSA keypair for one oblivious-transfer instance.
// Per spec.md §4.8, a fresh keypair is generated for every OT
// invocation and discarded afterward.
type Sender struct {
	key *rsa.PrivateKey
}

// NewSender generates a fresh RSA keypair of the given bit size.
func NewSender(keyBits int) (*Sender, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("ot: generating sender key: %w", err)
	}
	return &Sender{key: key}, nil
}

// MessageSize is the RSA modulus size in bytes, the largest message
// this sender's transfers can carry.
func (s *Sender) MessageSize() int {
	return s.key.PublicKey.Size()
}

// PublicKey is the public half the receiver needs.
func (s *Sender) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// NewTransfer starts a transfer of the two candidate messages m0, m1.
func (s *Sender) NewTransfer(m0, m1 []byte) (*SenderXfer, error) {
	x0, err := randomBytes(s.MessageSize())
	if err != nil {
		return nil, err
	}
	x1, err := randomBytes(s.MessageSize())
	if err != nil {
		return nil, err
	}
	return &SenderXfer{sender: s, m0: m0, m1: m1, x0: x0, x1: x1}, nil
}

// SenderXfer carries the sender-side state of one OT transfer.
type SenderXfer struct {
	sender *Sender
	m0, m1 []byte
	x0, x1 []byte
	k0, k1 *big.Int
}

// MessageSize is the sender's RSA modulus size in bytes.
func (s *SenderXfer) MessageSize() int {
	return s.sender.MessageSize()
}

// RandomMessages returns the two random blinding values x0, x1 the
// sender sends the receiver before it picks its bit.
func (s *SenderXfer) RandomMessages() ([]byte, []byte) {
	return s.x0, s.x1
}

// ReceiveV consumes the receiver's blinded exponentiation v and
// derives both candidate trapdoor keys k0, k1 — the sender cannot
// tell which of the two the receiver actually computed.
func (s *SenderXfer) ReceiveV(data []byte) {
	v := mpint.FromBytes(data)
	x0 := mpint.FromBytes(s.x0)
	x1 := mpint.FromBytes(s.x1)

	s.k0 = mpint.Exp(mpint.Sub(v, x0), s.sender.key.D, s.sender.key.PublicKey.N)
	s.k1 = mpint.Exp(mpint.Sub(v, x1), s.sender.key.D, s.sender.key.PublicKey.N)
}

// Messages returns the two PKCS#1-padded, key-masked messages the
// sender transmits; the receiver can only remove the mask it actually
// knows k for.
func (s *SenderXfer) Messages() ([]byte, []byte, error) {
	b0, err := pkcs1.NewEncryptionBlock(pkcs1.BT1, s.MessageSize(), s.m0)
	if err != nil {
		return nil, nil, fmt.Errorf("ot: padding m0: %w", err)
	}
	m0p := mpint.Add(mpint.FromBytes(b0), s.k0)

	b1, err := pkcs1.NewEncryptionBlock(pkcs1.BT1, s.MessageSize(), s.m1)
	if err != nil {
		return nil, nil, fmt.Errorf("ot: padding m1: %w", err)
	}
	m1p := mpint.Add(mpint.FromBytes(b1), s.k1)

	return m0p.Bytes(), m1p.Bytes(), nil
}

// Receiver holds the sender's public key for one OT instance.
type Receiver struct {
	pub *rsa.PublicKey
}

// NewReceiver wraps the sender's public key.
func NewReceiver(pub *rsa.PublicKey) *Receiver {
	return &Receiver{pub: pub}
}

// MessageSize is the sender's RSA modulus size in bytes.
func (r *Receiver) MessageSize() int {
	return r.pub.Size()
}

// NewTransfer starts a transfer choosing bit (0 or 1) as the index
// the receiver wants from the sender's pair.
func (r *Receiver) NewTransfer(bit uint) *ReceiverXfer {
	return &ReceiverXfer{receiver: r, bit: bit}
}

// ReceiverXfer carries the receiver-side state of one OT transfer.
type ReceiverXfer struct {
	receiver *Receiver
	bit      uint
	k        *big.Int
	v        *big.Int
	mb       []byte
}

// ReceiveRandomMessages consumes the sender's x0, x1 and computes the
// blinded value v the receiver sends back — built from xb, the one of
// x0/x1 matching the receiver's chosen bit, so the sender can recover
// k0 and k1 without learning which was used.
func (r *ReceiverXfer) ReceiveRandomMessages(x0, x1 []byte) error {
	k, err := rand.Int(rand.Reader, r.receiver.pub.N)
	if err != nil {
		return fmt.Errorf("ot: sampling k: %w", err)
	}
	r.k = k

	var xb *big.Int
	if r.bit == 0 {
		xb = mpint.FromBytes(x0)
	} else {
		xb = mpint.FromBytes(x1)
	}

	e := big.NewInt(int64(r.receiver.pub.E))
	r.v = mpint.Mod(
		mpint.Add(xb, mpint.Exp(r.k, e, r.receiver.pub.N)), r.receiver.pub.N)
	return nil
}

// V is the blinded value to send to the sender.
func (r *ReceiverXfer) V() []byte {
	return r.v.Bytes()
}

// ReceiveMessages consumes the sender's two masked messages and
// unmasks the one matching the receiver's bit (it lacks the k for the
// other, so that one stays unrecoverable).
func (r *ReceiverXfer) ReceiveMessages(m0p, m1p []byte) error {
	var mbp *big.Int
	if r.bit == 0 {
		mbp = mpint.FromBytes(m0p)
	} else {
		mbp = mpint.FromBytes(m1p)
	}
	mbBytes := make([]byte, r.receiver.MessageSize())
	mbIntBytes := mpint.Sub(mbp, r.k).Bytes()
	ofs := len(mbBytes) - len(mbIntBytes)
	copy(mbBytes[ofs:], mbIntBytes)

	mb, err := pkcs1.ParseEncryptionBlock(mbBytes)
	if err != nil {
		return fmt.Errorf("ot: parsing received block: %w", err)
	}
	r.mb = mb
	return nil
}

// Message returns the transferred message and the bit that selected
// it.
func (r *ReceiverXfer) Message() ([]byte, uint) {
	return r.mb, r.bit
}

func randomBytes(size int) ([]byte, error) {
	m := make([]byte, size)
	if _, err := rand.Read(m); err != nil {
		return nil, fmt.Errorf("ot: %w", err)
	}
	return m, nil
}
