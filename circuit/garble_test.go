package circuit

import (
	"testing"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

func newTestGate(t *testing.T, cfg config.Config, op Op) *Gate {
	t.Helper()
	left, err := label.NewWire(cfg, "left")
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	right, err := label.NewWire(cfg, "right")
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	out, err := label.NewWire(cfg, "")
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	return &Gate{Op: op, Left: left, Right: right, Output: out}
}

func TestGarbleUngarbleRoundTrip(t *testing.T) {
	for _, opt := range []config.Optimization{
		config.Classical,
		config.PointAndPermute,
		config.GRR3,
		config.FreeXOR,
		config.FleXOR,
		config.HalfGates,
	} {
		opt := opt
		t.Run(opt.String(), func(t *testing.T) {
			for _, op := range []Op{AND, OR, XOR} {
				op := op
				t.Run(op.String(), func(t *testing.T) {
					cfg, err := config.New(opt, 16)
					if err != nil {
						t.Fatalf("config.New: %v", err)
					}
					g := newTestGate(t, cfg, op)
					if err := g.Garble(cfg); err != nil {
						t.Fatalf("Garble: %v", err)
					}

					for _, bL := range [2]bool{false, true} {
						for _, bR := range [2]bool{false, true} {
							left := *g.Left.Get(bL)
							right := *g.Right.Get(bR)
							got, err := g.Ungarble(cfg, left, right)
							if err != nil {
								t.Fatalf("Ungarble(%v,%v): %v", bL, bR, err)
							}
							want := *g.Output.Get(op.Evaluate(bL, bR))
							if !got.Equal(want) {
								t.Errorf("Ungarble(%v,%v) = %s, want %s", bL, bR, got, want)
							}
						}
					}
				})
			}
		})
	}
}
