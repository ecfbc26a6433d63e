// Package party implements the two roles of the garbled-circuit
// protocol, each driving transport.Conn through the exact message
// sequence spec.md §4.8 specifies.
package party

import (
	"fmt"
	"net"

	"github.com/twopc/gabes/circuit"
	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
	"github.com/twopc/gabes/transport"
)

// Garbler holds the garbler's role state: its garbled circuit and the
// subset of input-wire identifiers whose bits it supplies itself (the
// rest belong to the evaluator and are transferred via OT).
type Garbler struct {
	Address string
	Circuit *circuit.Circuit
	Inputs  map[string]bool
}

// NewGarbler parses and garbles source under cfg, pairing it with the
// garbler's own input bits (spec.md §4.8 step 2/4).
func NewGarbler(address string, cfg config.Config, source string, inputs map[string]bool) (*Garbler, error) {
	c, err := circuit.Parse(cfg, source)
	if err != nil {
		return nil, fmt.Errorf("party: garbler: %w", err)
	}
	return &Garbler{Address: address, Circuit: c, Inputs: inputs}, nil
}

// Run accepts a single connection on Address and drives the full
// garbler protocol, returning the circuit's boolean output.
func (g *Garbler) Run() (bool, error) {
	ln, err := net.Listen("tcp", g.Address)
	if err != nil {
		return false, fmt.Errorf("party: garbler: listen %s: %w", g.Address, err)
	}
	defer ln.Close()

	conn, err := ln.Accept()
	if err != nil {
		return false, fmt.Errorf("party: garbler: accept: %w", err)
	}
	defer conn.Close()

	return g.runSession(transport.New(conn))
}

// runSession is Run's connection-agnostic body, split out for testing
// over an in-memory pipe.
func (g *Garbler) runSession(conn *transport.Conn) (bool, error) {
	if err := conn.SendIdentifiers(g.Circuit.InputIdentifiers()); err != nil {
		return false, fmt.Errorf("party: garbler: sending identifiers: %w", err)
	}
	if err := conn.ReceiveAck(); err != nil {
		return false, fmt.Errorf("party: garbler: awaiting identifier ack: %w", err)
	}

	for _, w := range g.Circuit.InputWires() {
		bit, owned := g.Inputs[w.Identifier]
		if owned {
			if err := sendOwnLabel(conn, w, bit); err != nil {
				return false, fmt.Errorf("party: garbler: wire %q: %w", w.Identifier, err)
			}
			continue
		}
		if err := conn.GarblerOT(w); err != nil {
			return false, fmt.Errorf("party: garbler: OT on wire %q: %w", w.Identifier, err)
		}
	}

	if err := conn.Send(g.Circuit.MarshalSanitized()); err != nil {
		return false, fmt.Errorf("party: garbler: sending sanitized circuit: %w", err)
	}

	finalLabel, err := conn.ReceiveLabel()
	if err != nil {
		return false, fmt.Errorf("party: garbler: receiving final label: %w", err)
	}

	result := finalLabel.Equal(*g.Circuit.Root.Output.True)
	if err := conn.SendBool(result); err != nil {
		return false, fmt.Errorf("party: garbler: sending result: %w", err)
	}
	return result, nil
}

// sendOwnLabel sends the label the garbler's own bit selects for w, a
// deep copy with Represents cleared so the plaintext truth value never
// crosses the wire (spec.md §3's clearing invariant, §4.8 step 5).
func sendOwnLabel(conn *transport.Conn, w *label.Wire, bit bool) error {
	l := *w.Get(bit)
	l = l.Clear()
	if err := conn.SendLabel(l); err != nil {
		return err
	}
	return conn.ReceiveAck()
}
