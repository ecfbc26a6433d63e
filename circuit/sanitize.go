package circuit

// SanitizedGate is a copy of a Gate with wire references stripped:
// just the operation, the (still-encrypted) table, and the tree
// shape — everything the evaluator needs, and nothing the garbler's
// in-process wire objects would leak (spec.md §4.4's clean()).
type SanitizedGate struct {
	Op    Op
	Left  *SanitizedGate
	Right *SanitizedGate
	Table [][]byte
}

// IsLeaf reports whether this gate's inputs are circuit inputs rather
// than other gates' outputs.
func (s *SanitizedGate) IsLeaf() bool {
	return s.Left == nil && s.Right == nil
}

// Sanitize deep-copies the circuit's gate tree, dropping every wire
// reference. Table entries remain — they are ciphertexts, opaque
// without the corresponding labels — but the Left/Right/Output *Wire
// pointers Gate carries for construction are gone.
func (c *Circuit) Sanitize() *SanitizedGate {
	return sanitizeGate(c.Root)
}

func sanitizeGate(g *Gate) *SanitizedGate {
	if g == nil {
		return nil
	}
	table := make([][]byte, len(g.Table))
	for i, entry := range g.Table {
		if entry != nil {
			table[i] = append([]byte(nil), entry...)
		}
	}
	s := &SanitizedGate{Op: g.Op, Table: table}
	if !g.IsLeaf() {
		s.Left = sanitizeGate(g.LeftChild)
		s.Right = sanitizeGate(g.RightChild)
	}
	return s
}
