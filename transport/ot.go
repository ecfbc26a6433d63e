package transport

import (
	"fmt"

	"github.com/twopc/gabes/label"
	"github.com/twopc/gabes/ot"
)

// GarblerOT runs the garbler's side of one input-wire oblivious
// transfer (spec.md §4.7's sender role, driven through the message
// sequence spec.md §4.8 step 4 describes): a fresh RSA keypair is
// generated for this wire alone, and the evaluator ends up with
// exactly one of w's two labels without the garbler learning which.
func (c *Conn) GarblerOT(w *label.Wire) error {
	numBytes := len(w.False.Bytes)
	sender, err := ot.NewSender(ot.MinKeyBits(numBytes))
	if err != nil {
		return fmt.Errorf("transport: ot: %w", err)
	}
	if err := c.SendPublicKey(sender.PublicKey()); err != nil {
		return err
	}

	xfer, err := sender.NewTransfer(EncodeLabel(*w.False), EncodeLabel(*w.True))
	if err != nil {
		return fmt.Errorf("transport: ot: %w", err)
	}
	x0, x1 := xfer.RandomMessages()
	if err := c.Send(x0); err != nil {
		return err
	}
	if err := c.Send(x1); err != nil {
		return err
	}

	v, err := c.Receive()
	if err != nil {
		return err
	}
	xfer.ReceiveV(v)

	m0p, m1p, err := xfer.Messages()
	if err != nil {
		return fmt.Errorf("transport: ot: %w", err)
	}
	if err := c.Send(m0p); err != nil {
		return err
	}
	return c.Send(m1p)
}

// EvaluatorOT runs the evaluator's side of one input-wire oblivious
// transfer, secretly choosing bit and returning the label the garbler
// assigned to that truth value — without revealing bit to the
// garbler, and without learning the other label.
func (c *Conn) EvaluatorOT(bit bool) (label.Label, error) {
	pub, err := c.ReceivePublicKey()
	if err != nil {
		return label.Label{}, err
	}
	receiver := ot.NewReceiver(pub)

	var choice uint
	if bit {
		choice = 1
	}
	rxfer := receiver.NewTransfer(choice)

	x0, err := c.Receive()
	if err != nil {
		return label.Label{}, err
	}
	x1, err := c.Receive()
	if err != nil {
		return label.Label{}, err
	}
	if err := rxfer.ReceiveRandomMessages(x0, x1); err != nil {
		return label.Label{}, fmt.Errorf("transport: ot: %w", err)
	}

	if err := c.Send(rxfer.V()); err != nil {
		return label.Label{}, err
	}

	m0p, err := c.Receive()
	if err != nil {
		return label.Label{}, err
	}
	m1p, err := c.Receive()
	if err != nil {
		return label.Label{}, err
	}
	if err := rxfer.ReceiveMessages(m0p, m1p); err != nil {
		return label.Label{}, fmt.Errorf("transport: ot: %w", err)
	}

	mb, _ := rxfer.Message()
	l, err := DecodeLabel(mb)
	if err != nil {
		return label.Label{}, fmt.Errorf("transport: ot: %w", err)
	}
	return l, nil
}
