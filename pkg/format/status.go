package format

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Printer writes short status lines for humans. Colors are used only when
// the destination is a terminal and NO_COLOR is unset.
type Printer struct {
	w         io.Writer
	useColors bool
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, useColors: IsTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

// Success prints a check-marked line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", ColorizeIf("✓", Green, p.useColors), msg)
}

// Failure prints a cross-marked line.
func (p *Printer) Failure(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", ColorizeIf("✗", Red, p.useColors), msg)
}

// Field prints a "label: value" line, padding the label to width.
func (p *Printer) Field(label, value string, width int) {
	key := fmt.Sprintf("%-*s", width, label+":")
	fmt.Fprintf(p.w, "%s %s\n", BoldIf(key, p.useColors), value)
}

// Hint prints a dimmed line.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.w, DimIf(msg, p.useColors))
}

// IsTerminal reports whether w is an open terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
