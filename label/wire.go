package label

import (
	"crypto/rand"
	"fmt"

	"github.com/twopc/gabes/config"
)

// Wire holds the false/true label pair for one boolean logic wire,
// plus an optional identifier (spec.md §3, §4.1). Gates hold pointers
// to a Wire's labels so that a child gate's output wire and a parent
// gate's input wire can be the very same object (spec.md §9, "Cyclic /
// shared subgraph").
type Wire struct {
	False *Label
	True  *Label

	// Identifier names an externally supplied input wire. Empty for
	// internal (non-leaf) wires.
	Identifier string
}

// NewWire creates a fresh wire under the given configuration. In
// classical mode the labels carry no point-and-permute bit. Otherwise
// a random bit b is chosen, False gets b and True gets ¬b, and — when
// the optimization uses free-XOR — True.Bytes is forced to
// False.Bytes XOR R and each label's bit is then taken from its own
// last bit instead.
func NewWire(cfg config.Config, identifier string) (*Wire, error) {
	f, err := NewRandom(cfg.NumBytes)
	if err != nil {
		return nil, err
	}
	t, err := NewRandom(cfg.NumBytes)
	if err != nil {
		return nil, err
	}
	f = f.WithRepresents(false)
	t = t.WithRepresents(true)

	if cfg.Optimization.UsesPointAndPermute() {
		var buf [1]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, fmt.Errorf("label: sampling pp bit: %w", err)
		}
		b := buf[0]&1 != 0
		f = f.WithPPBit(b)
		t = t.WithPPBit(!b)
	}
	if cfg.Optimization.UsesFreeXOR() {
		t.Bytes = Xor(f, FromBytes(cfg.R)).Bytes
		t.Represents = boolPtr(true)
		if cfg.Optimization.UsesPointAndPermute() {
			t = t.WithPPBit(t.Last())
			f = f.WithPPBit(!t.Last())
		}
	}

	return &Wire{False: &f, True: &t, Identifier: identifier}, nil
}

// Labels returns the wire's (false, true) labels in that order, per
// spec.md §4.1.
func (w *Wire) Labels() (false_, true_ *Label) {
	return w.False, w.True
}

// Get returns the True label iff representing, else the False label.
func (w *Wire) Get(representing bool) *Label {
	if representing {
		return w.True
	}
	return w.False
}

// RecomputeFreeXOR re-derives True.Bytes from False.Bytes XOR R and
// refreshes both labels' point-and-permute bits from their last bit.
// Gate garbling uses this after overwriting a wire's False label
// (FreeXOR, half-gates) to restore the free-XOR invariant.
func (w *Wire) RecomputeFreeXOR(cfg config.Config) {
	t := Xor(*w.False, FromBytes(cfg.R))
	t.Represents = w.True.Represents
	w.True = &t
	if cfg.Optimization.UsesPointAndPermute() {
		fb := w.False.Last()
		tb := w.True.Last()
		w.False.PPBit = boolPtr(fb)
		w.True.PPBit = boolPtr(tb)
	}
}

// ZeroPPLabel returns the wire's label whose point-and-permute bit is
// 0 — GRR3's L0/R0 (spec.md §4.5(c)).
func (w *Wire) ZeroPPLabel() *Label {
	if w.False.PPBit != nil && !*w.False.PPBit {
		return w.False
	}
	return w.True
}

// Clear clears Represents to "unknown" on both of the wire's labels,
// in place. Applied when a wire's labels are about to leave the
// garbler's process.
func (w *Wire) Clear() {
	w.False.Represents = nil
	w.True.Represents = nil
}
