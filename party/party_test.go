package party

import (
	"net"
	"testing"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/transport"
)

const simpleTwoCircuit = "((A AND B) AND (C XOR D)) AND (E XOR F)"

var optimizations = []config.Optimization{
	config.Classical,
	config.PointAndPermute,
	config.GRR3,
	config.FreeXOR,
	config.FleXOR,
	config.HalfGates,
}

type scenario struct {
	a, b, c bool // garbler's bits
	d, e, f bool // evaluator's bits
	want    bool
}

var scenarios = []scenario{
	{true, true, true, false, false, false, false},
	{true, true, true, false, false, true, true},
	{false, false, false, false, false, false, false},
	{true, true, true, true, true, true, false},
}

func runParties(t *testing.T, opt config.Optimization, s scenario) (bool, bool) {
	t.Helper()

	cfg, err := config.New(opt, 16)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	garblerInputs := map[string]bool{"A": s.a, "B": s.b, "C": s.c}
	g, err := NewGarbler("", cfg, simpleTwoCircuit, garblerInputs)
	if err != nil {
		t.Fatalf("NewGarbler: %v", err)
	}

	evalInputs := map[string]bool{"D": s.d, "E": s.e, "F": s.f}
	e := NewEvaluator("", cfg, evalInputs)

	a, b := net.Pipe()
	gResult := make(chan bool, 1)
	gErr := make(chan error, 1)
	go func() {
		r, err := g.runSession(transport.New(a))
		gResult <- r
		gErr <- err
	}()

	eResult, err := e.runSession(transport.New(b))
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	if err := <-gErr; err != nil {
		t.Fatalf("garbler: %v", err)
	}
	return <-gResult, eResult
}

func TestSimpleTwoCircuit(t *testing.T) {
	for _, opt := range optimizations {
		opt := opt
		t.Run(opt.String(), func(t *testing.T) {
			for i, s := range scenarios {
				gotG, gotE := runParties(t, opt, s)
				if gotG != s.want || gotE != s.want {
					t.Errorf("scenario %d: garbler=%v evaluator=%v, want %v",
						i+1, gotG, gotE, s.want)
				}
			}
		})
	}
}
