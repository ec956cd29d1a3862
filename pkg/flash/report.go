package flash

import (
	"fmt"
	"io"
)

// ConsoleReporter renders range reports as the classic progress lines,
// one per completed run.
type ConsoleReporter struct {
	W io.Writer
}

// Range implements Reporter.
func (c *ConsoleReporter) Range(r Run) {
	switch r.Kind {
	case RunWritten:
		fmt.Fprintf(c.W, "%04x...%04x: Wrote %d byte\n", r.Start, r.End, r.Count)
	case RunSkipped:
		fmt.Fprintf(c.W, "%04x...%04x: Skipped %d byte (no change)\n", r.Start, r.End, r.Count)
	}
}

// NothingToDo implements Reporter.
func (c *ConsoleReporter) NothingToDo() {
	fmt.Fprintln(c.W, "Nothing to do (no changes)")
}
