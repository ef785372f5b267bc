package display

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// dotsPerRow is the number of progress dots printed before wrapping.
const dotsPerRow = 50

// DotProgress writes one dot per processed file as a liveness indicator,
// wrapping to a new line every 50 dots. The dots carry no semantic meaning.
// A disabled DotProgress discards everything, which is how quiet mode is
// implemented.
type DotProgress struct {
	writer  io.Writer
	col     int
	enabled bool
}

// NewDotProgress creates a progress indicator writing to w.
func NewDotProgress(w io.Writer, enabled bool) *DotProgress {
	return &DotProgress{writer: w, enabled: enabled}
}

// Step prints a single dot, wrapping after a full row.
func (p *DotProgress) Step() {
	if !p.enabled {
		return
	}
	fmt.Fprint(p.writer, ".")
	p.col++
	if p.col >= dotsPerRow {
		fmt.Fprintln(p.writer)
		p.col = 0
	}
}

// Flush terminates a partially filled row with a newline. It is called
// before printing a result block and at the end of a run so results start
// on their own line.
func (p *DotProgress) Flush() {
	if !p.enabled || p.col == 0 {
		return
	}
	fmt.Fprintln(p.writer)
	p.col = 0
}

// IsTerminal reports whether w is a terminal. It is used to decide whether
// interactive confirmation prompts make sense.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
