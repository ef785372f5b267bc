package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message.
type Warning struct {
	Title      string
	Message    string // optional detail line
	Suggestion string // optional action to take
}

// Display writes the warning in yellow with indented detail lines.
func (w Warning) Display(out io.Writer) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(out, "Warning: %s\n", w.Title)
	if w.Message != "" {
		yellow.Fprintf(out, "    %s\n", w.Message)
	}
	if w.Suggestion != "" {
		yellow.Fprintf(out, "    Suggestion: %s\n", w.Suggestion)
	}
}

// Warnf writes a one-line warning in yellow.
func Warnf(out io.Writer, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(out, "Warning: %s\n", fmt.Sprintf(format, args...))
}
