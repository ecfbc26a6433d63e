// Package transport implements the length-delimited message framing
// spec.md §6 specifies for the garbler/evaluator wire protocol: every
// message is a 4-byte big-endian length prefix followed by that many
// payload bytes, the same convention the teacher's circuit/protocol.go
// uses for its sendUint32/sendData/receiveUint32/receiveData helpers.
package transport

import (
	"bufio"
	"bytes"
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"net"
	"strings"

	"github.com/twopc/gabes/label"
)

// Conn wraps a network connection with buffered length-delimited
// message framing.
type Conn struct {
	c  net.Conn
	rw *bufio.ReadWriter
}

// New wraps an established connection.
func New(c net.Conn) *Conn {
	return &Conn{
		c:  c,
		rw: bufio.NewReadWriter(bufio.NewReader(c), bufio.NewWriter(c)),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.c.Close()
}

// Send writes one length-prefixed message.
func (c *Conn) Send(payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := c.rw.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("transport: send length: %w", err)
	}
	if _, err := c.rw.Write(payload); err != nil {
		return fmt.Errorf("transport: send payload: %w", err)
	}
	return c.rw.Flush()
}

// Receive reads one length-prefixed message.
func (c *Conn) Receive() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.rw, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("transport: receive length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(c.rw, payload); err != nil {
		return nil, fmt.Errorf("transport: receive payload: %w", err)
	}
	return payload, nil
}

// ack is the fixed payload of the protocol's acknowledgement message
// (spec.md §6's "ACK" entries, e.g. after the identifier list).
var ack = []byte("ACK")

// SendAck sends the protocol's acknowledgement message.
func (c *Conn) SendAck() error {
	return c.Send(ack)
}

// ReceiveAck reads a message and verifies it is the acknowledgement.
func (c *Conn) ReceiveAck() error {
	p, err := c.Receive()
	if err != nil {
		return err
	}
	if !bytes.Equal(p, ack) {
		return fmt.Errorf("transport: expected ACK, got %q", p)
	}
	return nil
}

// SendUint32 sends a 4-byte big-endian integer as its own message.
func (c *Conn) SendUint32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return c.Send(buf[:])
}

// ReceiveUint32 reads a message produced by SendUint32.
func (c *Conn) ReceiveUint32() (uint32, error) {
	p, err := c.Receive()
	if err != nil {
		return 0, err
	}
	if len(p) != 4 {
		return 0, fmt.Errorf("transport: malformed uint32 payload (%d bytes)", len(p))
	}
	return binary.BigEndian.Uint32(p), nil
}

// SendBool sends a single boolean as its own message (the final
// circuit-output bit, spec.md §6's "boolean result").
func (c *Conn) SendBool(b bool) error {
	if b {
		return c.Send([]byte{1})
	}
	return c.Send([]byte{0})
}

// ReceiveBool reads a message produced by SendBool.
func (c *Conn) ReceiveBool() (bool, error) {
	p, err := c.Receive()
	if err != nil {
		return false, err
	}
	if len(p) != 1 {
		return false, fmt.Errorf("transport: malformed bool payload (%d bytes)", len(p))
	}
	return p[0] != 0, nil
}

// SendIdentifiers sends the input-wire identifier list (spec.md §4.8
// step 3). Identifiers may not contain newlines.
func (c *Conn) SendIdentifiers(ids []string) error {
	return c.Send([]byte(strings.Join(ids, "\n")))
}

// ReceiveIdentifiers reads a message produced by SendIdentifiers.
func (c *Conn) ReceiveIdentifiers() ([]string, error) {
	p, err := c.Receive()
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, nil
	}
	return strings.Split(string(p), "\n"), nil
}

// EncodeLabel serializes a label for transport: a flag byte (bit 0 set
// iff PPBit is present, bit 1 holding its value when present) followed
// by the raw label bytes. Represents is never transmitted — labels
// crossing the wire carry no truth-value tag, per spec.md §3.
func EncodeLabel(l label.Label) []byte {
	flag := byte(0)
	if l.PPBit != nil {
		flag |= 1
		if *l.PPBit {
			flag |= 2
		}
	}
	out := make([]byte, 1+len(l.Bytes))
	out[0] = flag
	copy(out[1:], l.Bytes)
	return out
}

// DecodeLabel parses the form EncodeLabel produces.
func DecodeLabel(b []byte) (label.Label, error) {
	if len(b) < 1 {
		return label.Label{}, fmt.Errorf("transport: empty label payload")
	}
	flag := b[0]
	l := label.FromBytes(append([]byte(nil), b[1:]...))
	if flag&1 != 0 {
		v := flag&2 != 0
		l.PPBit = &v
	}
	return l, nil
}

// SendLabel sends a label as its own message.
func (c *Conn) SendLabel(l label.Label) error {
	return c.Send(EncodeLabel(l))
}

// ReceiveLabel reads a message produced by SendLabel.
func (c *Conn) ReceiveLabel() (label.Label, error) {
	p, err := c.Receive()
	if err != nil {
		return label.Label{}, err
	}
	return DecodeLabel(p)
}

// SendPublicKey sends an RSA public key as two messages: modulus bytes
// then the public exponent, the sender's half of the oblivious
// transfer handshake (spec.md §4.7/§4.8).
func (c *Conn) SendPublicKey(pub *rsa.PublicKey) error {
	if err := c.Send(pub.N.Bytes()); err != nil {
		return err
	}
	return c.SendUint32(uint32(pub.E))
}

// ReceivePublicKey reads the messages SendPublicKey produces.
func (c *Conn) ReceivePublicKey() (*rsa.PublicKey, error) {
	nb, err := c.Receive()
	if err != nil {
		return nil, err
	}
	e, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e)}, nil
}
