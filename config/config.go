// Package config holds the process-wide settings of a garbled-circuit
// run as a single immutable value, threaded from the CLI into the
// circuit builder instead of living as mutable package globals.
package config

import (
	"crypto/rand"
	"fmt"
)

// Optimization selects one of the six garbling strategies. Exactly one
// is active for a given Config.
type Optimization int

// The six garbling optimizations, in increasing order of sophistication.
const (
	Classical Optimization = iota
	PointAndPermute
	GRR3
	FreeXOR
	FleXOR
	HalfGates
)

// String renders the optimization name, e.g. for log lines.
func (o Optimization) String() string {
	switch o {
	case Classical:
		return "classical"
	case PointAndPermute:
		return "point-and-permute"
	case GRR3:
		return "grr3"
	case FreeXOR:
		return "free-xor"
	case FleXOR:
		return "flexor"
	case HalfGates:
		return "half-gates"
	default:
		return fmt.Sprintf("optimization(%d)", int(o))
	}
}

// UsesPointAndPermute reports whether wires under this optimization
// carry point-and-permute bits. Only classical does not.
func (o Optimization) UsesPointAndPermute() bool {
	return o != Classical
}

// UsesFreeXOR reports whether the optimization keeps true_label.bytes
// equal to false_label.bytes XOR R for every wire.
func (o Optimization) UsesFreeXOR() bool {
	return o == FreeXOR || o == HalfGates
}

// Config is the immutable, process-wide configuration for one circuit
// run. It replaces the module-level globals of the reference
// implementations (spec.md Design Notes: "Global state").
type Config struct {
	// NumBytes is k, the label width in bytes.
	NumBytes int

	// Optimization is the single active garbling strategy.
	Optimization Optimization

	// R is the circuit-global free-XOR offset, NumBytes bytes wide with
	// its last bit forced to 1. Only meaningful (and only set) when
	// Optimization.UsesFreeXOR(). Stored as raw bytes rather than a
	// label.Label to avoid a config<->label import cycle; label.Wire
	// wraps it via label.FromBytes when it needs to XOR against R.
	R []byte
}

// DefaultNumBytes is k as specified by spec.md §3.
const DefaultNumBytes = 32

// New validates and returns a Config for the given optimization. R is
// sampled fresh when the optimization needs a free-XOR offset.
func New(opt Optimization, numBytes int) (Config, error) {
	if numBytes <= 0 {
		return Config{}, fmt.Errorf("config: invalid NumBytes %d", numBytes)
	}
	cfg := Config{
		NumBytes:     numBytes,
		Optimization: opt,
	}
	if opt.UsesFreeXOR() {
		r := make([]byte, numBytes)
		if _, err := rand.Read(r); err != nil {
			return Config{}, fmt.Errorf("config: sampling R: %w", err)
		}
		r[len(r)-1] |= 1
		cfg.R = r
	}
	return cfg, nil
}
