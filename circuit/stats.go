package circuit

import (
	"io"
	"strconv"

	"github.com/markkurossi/tabulate"
)

// PrintStats renders a one-row table cost summary: optimization,
// gate count, input count, and garbled-table cost, in the style of
// the teacher's apps/garbled objdump table.
func (c *Circuit) PrintStats(w io.Writer) {
	tab := tabulate.New(tabulate.Github)
	tab.Header("Optimization")
	tab.Header("Gates").SetAlign(tabulate.MR)
	tab.Header("Inputs").SetAlign(tabulate.MR)
	tab.Header("Cost").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column(c.Cfg.Optimization.String())
	row.Column(strconv.Itoa(c.NumGates()))
	row.Column(strconv.Itoa(len(c.inputWires)))
	row.Column(strconv.Itoa(c.Cost()))

	tab.Print(w)
}
