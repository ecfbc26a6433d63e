// Package circuit implements the binary-tree boolean circuit, its
// S-expression-like parser, and the six garbling/ungarbling
// optimizations of spec.md §4.4–§4.6.
package circuit

import (
	"fmt"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

// Op is one of the three boolean gate types the grammar supports.
type Op int

// The three supported boolean operations.
const (
	AND Op = iota
	OR
	XOR
)

// String renders the operation the way circuit files spell it.
func (o Op) String() string {
	switch o {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp maps a circuit-file operator token to an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "XOR":
		return XOR, nil
	default:
		return 0, fmt.Errorf("circuit: unknown operator %q", s)
	}
}

// Evaluate applies the gate's boolean operation to two truth values,
// the plaintext counterpart of garbling (used only by the garbler,
// which knows both inputs' truth values while building the table).
func (o Op) Evaluate(a, b bool) bool {
	switch o {
	case AND:
		return a && b
	case OR:
		return a || b
	case XOR:
		return a != b
	default:
		panic(fmt.Sprintf("circuit: invalid op %v", o))
	}
}

// Gate is one node of the circuit tree: a boolean operation, its
// left/right input wires, its output wire, and the garbled table
// those three optimizations-dependent ciphertexts fill in.
//
// Per spec.md §4.4's grammar, a Gate's two sides are either both leaf
// identifiers (LeftChild == RightChild == nil, and Left/Right are
// freshly created, identifier-tagged wires) or both subtrees
// (LeftChild and RightChild both non-nil, and Left/Right alias the
// respective child's Output wire) — never mixed.
type Gate struct {
	Op     Op
	Left   *label.Wire
	Right  *label.Wire
	Output *label.Wire

	LeftChild  *Gate
	RightChild *Gate

	// Table holds the gate's garbled ciphertexts. Size and indexing
	// depend on the active optimization (spec.md §4.5).
	Table [][]byte
}

// IsLeaf reports whether both of the gate's inputs are externally
// supplied identifiers rather than child gates' outputs.
func (g *Gate) IsLeaf() bool {
	return g.LeftChild == nil && g.RightChild == nil
}

// String renders the gate the way the teacher's Gate.String does:
// inputs, operation, output.
func (g *Gate) String() string {
	return fmt.Sprintf("%s %s %s -> %s", g.Left, g.Op, g.Right, g.Output)
}

// tableSize returns how many ciphertext entries the gate's table
// should hold for the given optimization. Cost and the garble/ungarble
// dispatch do not call it.
func tableSize(opt config.Optimization, op Op) int {
	switch opt {
	case config.Classical, config.PointAndPermute:
		return 4
	case config.GRR3:
		return 3
	case config.FreeXOR:
		if op == XOR {
			return 0
		}
		return 3 // falls through to GRR3 for non-XOR gates
	case config.FleXOR:
		if op == XOR {
			return 2 // upper bound; garbling may emit fewer
		}
		return 3
	case config.HalfGates:
		if op == AND {
			return 2
		}
		return 0 // XOR falls through to free-XOR
	default:
		return 4
	}
}
