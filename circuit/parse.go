package circuit

import (
	"fmt"
	"strings"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

// Parse builds a garbled Circuit from source, the contents of a
// `.circuit` file per the grammar in spec.md §6:
//
//	expr := leaf | '(' expr ')' OP '(' expr ')' | leaf OP leaf
//	leaf := non-whitespace identifier token
//	OP   := 'AND' | 'OR' | 'XOR'
//
// Every gate is garbled as soon as it is built, children before
// parent (spec.md §4.4's "Ordering invariant"), since Parse recurses
// into LEFT and then RIGHT before constructing the current gate.
func Parse(cfg config.Config, source string) (*Circuit, error) {
	expr := strings.TrimSpace(source)
	if expr == "" {
		return nil, fmt.Errorf("circuit: empty circuit source")
	}

	seen := make(map[string]bool)
	root, err := buildGate(cfg, expr, seen)
	if err != nil {
		return nil, err
	}

	c := &Circuit{Root: root, Cfg: cfg}
	c.inputWires = collectInputWires(root)
	return c, nil
}

// buildGate recurses on LEFT then RIGHT (spec.md §4.4 "Build order"),
// so that by the time the current gate's own Garble runs, both
// children are already fully garbled and their output wires carry
// finalized labels.
func buildGate(cfg config.Config, expr string, seen map[string]bool) (*Gate, error) {
	left, opTok, right, err := separate(expr)
	if err != nil {
		return nil, err
	}
	op, err := ParseOp(opTok)
	if err != nil {
		return nil, err
	}

	gate := &Gate{Op: op}

	leftWire, leftChild, err := buildSide(cfg, left, seen)
	if err != nil {
		return nil, err
	}
	gate.Left, gate.LeftChild = leftWire, leftChild

	rightWire, rightChild, err := buildSide(cfg, right, seen)
	if err != nil {
		return nil, err
	}
	gate.Right, gate.RightChild = rightWire, rightChild

	if (leftChild == nil) != (rightChild == nil) {
		return nil, fmt.Errorf(
			"circuit: %q mixes a leaf and a subexpression", expr)
	}

	out, err := label.NewWire(cfg, "")
	if err != nil {
		return nil, fmt.Errorf("circuit: output wire: %w", err)
	}
	gate.Output = out

	if err := gate.Garble(cfg); err != nil {
		return nil, fmt.Errorf("circuit: garbling gate %q: %w", expr, err)
	}
	return gate, nil
}

// buildSide builds one side of a gate: a fresh identifier wire when
// side is a bare leaf token, or a recursively built (and garbled)
// child gate otherwise.
func buildSide(cfg config.Config, side string, seen map[string]bool) (*label.Wire, *Gate, error) {
	if len(strings.Fields(side)) == 1 {
		id := strings.TrimSpace(side)
		if seen[id] {
			return nil, nil, fmt.Errorf("circuit: duplicate input identifier %q", id)
		}
		seen[id] = true
		w, err := label.NewWire(cfg, id)
		if err != nil {
			return nil, nil, fmt.Errorf("circuit: input wire %q: %w", id, err)
		}
		return w, nil, nil
	}
	child, err := buildGate(cfg, side, seen)
	if err != nil {
		return nil, nil, err
	}
	return child.Output, child, nil
}

// separate splits one expr into its LEFT, OP, RIGHT parts per the
// grammar in spec.md §6. When expr contains no '(' it must be exactly
// `leaf OP leaf`. Otherwise it must be `(LEFT) OP (RIGHT)`, located
// by balanced-parenthesis scanning so that LEFT and RIGHT may
// themselves be arbitrarily nested.
func separate(expr string) (left, op, right string, err error) {
	expr = strings.TrimSpace(expr)
	if !strings.Contains(expr, "(") {
		fields := strings.Fields(expr)
		if len(fields) != 3 {
			return "", "", "", fmt.Errorf(
				"circuit: malformed leaf expression %q", expr)
		}
		return fields[0], fields[1], fields[2], nil
	}

	if expr[0] != '(' {
		return "", "", "", fmt.Errorf(
			"circuit: expected '(' at start of %q", expr)
	}
	end, err := matchingParen(expr, 0)
	if err != nil {
		return "", "", "", err
	}
	left = expr[1:end]

	rest := strings.TrimSpace(expr[end+1:])
	sp := strings.IndexAny(rest, " \t")
	if sp < 0 {
		return "", "", "", fmt.Errorf(
			"circuit: missing operator after %q", left)
	}
	op = rest[:sp]
	right = strings.TrimSpace(rest[sp+1:])
	if len(right) >= 2 && right[0] == '(' && right[len(right)-1] == ')' {
		right = right[1 : len(right)-1]
	}
	return left, op, right, nil
}

// matchingParen returns the index, within s, of the ')' that balances
// the '(' at s[start].
func matchingParen(s string, start int) (int, error) {
	balance := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			balance++
		case ')':
			balance--
		}
		if balance == 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("circuit: unbalanced parentheses in %q", s)
}
