package circuit

import (
	"fmt"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
)

// Reconstruct evaluates a sanitized circuit bottom-up: leaf gates
// consume two labels each from the front of inputLabels (in the same
// left-then-right, leaf-post-order the garbler's Circuit.InputWires
// establishes), internal gates combine their already-reconstructed
// children's chosen labels, and the root's chosen label is the
// circuit's output (spec.md §4.6).
//
// Although spec.md frames the walk as "level order, leaves first",
// that ordering only fixes which gates may be processed before which
// others — a plain post-order recursion (children fully resolved
// before their parent ungarbles) satisfies the same dependency order
// and happens to consume the input queue in exactly InputWires order.
func Reconstruct(cfg config.Config, root *SanitizedGate, inputLabels []label.Label) (label.Label, error) {
	i := 0
	out, err := reconstructGate(cfg, root, inputLabels, &i)
	if err != nil {
		return label.Label{}, err
	}
	if i != len(inputLabels) {
		return label.Label{}, fmt.Errorf(
			"circuit: reconstruct: %d input labels left unconsumed", len(inputLabels)-i)
	}
	return out, nil
}

func reconstructGate(cfg config.Config, g *SanitizedGate, inputLabels []label.Label, i *int) (label.Label, error) {
	if g.IsLeaf() {
		if *i+2 > len(inputLabels) {
			return label.Label{}, fmt.Errorf("circuit: reconstruct: input label queue exhausted")
		}
		left, right := inputLabels[*i], inputLabels[*i+1]
		*i += 2
		return g.Ungarble(cfg, left, right)
	}

	left, err := reconstructGate(cfg, g.Left, inputLabels, i)
	if err != nil {
		return label.Label{}, err
	}
	right, err := reconstructGate(cfg, g.Right, inputLabels, i)
	if err != nil {
		return label.Label{}, err
	}
	return g.Ungarble(cfg, left, right)
}
