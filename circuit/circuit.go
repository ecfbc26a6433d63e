package circuit

import (
	"fmt"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

// Circuit is a binary tree of garbled gates with a single root (the
// output gate) and leaves carrying the externally supplied input
// identifiers (spec.md §3).
type Circuit struct {
	Root *Gate
	Cfg  config.Config

	// inputWires caches the post-order traversal of leaf gates,
	// flattened as [leaf0.Left, leaf0.Right, leaf1.Left, ...], per
	// spec.md §3's "input-wire list is cached once computed".
	inputWires []*label.Wire
}

// InputWires returns the circuit's externally supplied input wires,
// in the fixed order spec.md §4.4 and §4.6 describe: a post-order
// walk of the leaf gates, each contributing its Left wire then its
// Right wire.
func (c *Circuit) InputWires() []*label.Wire {
	return c.inputWires
}

// InputIdentifiers returns the identifier of every input wire, in
// InputWires order — the list the garbler sends first (spec.md §4.8
// step 3).
func (c *Circuit) InputIdentifiers() []string {
	ids := make([]string, len(c.inputWires))
	for i, w := range c.inputWires {
		ids[i] = w.Identifier
	}
	return ids
}

// collectInputWires performs the post-order leaf-gate walk described
// on Circuit.inputWires.
func collectInputWires(g *Gate) []*label.Wire {
	if g.IsLeaf() {
		return []*label.Wire{g.Left, g.Right}
	}
	var out []*label.Wire
	out = append(out, collectInputWires(g.LeftChild)...)
	out = append(out, collectInputWires(g.RightChild)...)
	return out
}

// LevelOrderOps returns the Op of every gate in level order, root
// first — the property spec.md §8's parser scenarios test
// ("simple-2.circuit" yields [AND, AND, XOR, AND, XOR]).
func (c *Circuit) LevelOrderOps() []Op {
	var ops []Op
	queue := []*Gate{c.Root}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		ops = append(ops, g.Op)
		if !g.IsLeaf() {
			queue = append(queue, g.LeftChild, g.RightChild)
		}
	}
	return ops
}

// NumGates returns the total number of gates in the tree.
func (c *Circuit) NumGates() int {
	return countGates(c.Root)
}

func countGates(g *Gate) int {
	if g == nil {
		return 0
	}
	return 1 + countGates(g.LeftChild) + countGates(g.RightChild)
}

// Cost estimates the total number of garbled-table ciphertext entries
// the circuit transmits, generalizing the teacher's Circuit.Cost
// (which weighted a flat Bristol-style gate list by a fixed 4
// entries per AND/OR, 2 per INV) to this tree model's six
// optimization-dependent table shapes: it simply counts each gate's
// non-nil Table entries.
func (c *Circuit) Cost() int {
	return costOf(c.Root)
}

func costOf(g *Gate) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, entry := range g.Table {
		if entry != nil {
			n++
		}
	}
	return n + costOf(g.LeftChild) + costOf(g.RightChild)
}

// String renders a one-line circuit summary, in the teacher's
// Circuit.String idiom.
func (c *Circuit) String() string {
	return fmt.Sprintf("circuit optimization=%s #gates=%d #inputs=%d cost=%d",
		c.Cfg.Optimization, c.NumGates(), len(c.inputWires), c.Cost())
}
