package circuit

import (
	"testing"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

// evaluateSimpleTwo computes the plaintext boolean ((A AND B) AND (C XOR D)) AND
// (E XOR F) directly, to check against the garbled/reconstructed result.
func evaluateSimpleTwo(a, b, c, d, e, f bool) bool {
	return (a && b) && (c != d) && (e != f)
}

func TestSanitizeMarshalReconstructRoundTrip(t *testing.T) {
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
			cfg, err := config.New(opt, 16)
			if err != nil {
				t.Fatalf("config.New: %v", err)
			}
			c, err := Parse(cfg, simpleTwoCircuit)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			data := c.MarshalSanitized()
			root, err := UnmarshalSanitizedGate(data)
			if err != nil {
				t.Fatalf("UnmarshalSanitizedGate: %v", err)
			}

			bits := []bool{true, true, true, false, false, true}
			inputLabels := make([]label.Label, len(bits))
			for i, w := range c.InputWires() {
				inputLabels[i] = *w.Get(bits[i])
			}

			got, err := Reconstruct(cfg, root, inputLabels)
			if err != nil {
				t.Fatalf("Reconstruct: %v", err)
			}

			want := evaluateSimpleTwo(bits[0], bits[1], bits[2], bits[3], bits[4], bits[5])
			wantLabel := *c.Root.Output.Get(want)
			if !got.Equal(wantLabel) {
				t.Fatalf("reconstructed label does not match expected output (want bit %v)", want)
			}
		})
	}
}
