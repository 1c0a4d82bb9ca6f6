// Package console prints the user-facing progress banners of a build run.
//
// Banners go to stdout so they interleave with compiler and program output;
// diagnostics go through slog on stderr. Color is used only on a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// SeparatorWidth is the width of the rule printed before handing off.
const SeparatorWidth = 40

var (
	colStage   = color.Info
	colArrow   = color.HEX("#FFEB3B")
	colSuccess = color.Success
	colFailure = color.Danger
)

// Console writes banners to an output stream.
type Console struct {
	out     io.Writer
	colored bool
}

// New returns a Console writing to w, colored when w is a terminal.
func New(w io.Writer) *Console {
	return &Console{out: w, colored: IsTerminal(w)}
}

// Stdout returns a Console for the process's standard output.
func Stdout() *Console {
	return New(os.Stdout)
}

// Plain returns a Console that never emits color.
func Plain(w io.Writer) *Console {
	return &Console{out: w}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Colored reports whether banners carry color sequences.
func (c *Console) Colored() bool { return c.colored }

// Stage announces the start of a pipeline stage, e.g. "Compiling sources...".
func (c *Console) Stage(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if c.colored {
		c.println(colArrow.Sprint("-> ") + colStage.Sprint(msg))
		return
	}
	c.println(msg)
}

// Success reports a finished run.
func (c *Console) Success(format string, a ...any) {
	c.styled(colSuccess, fmt.Sprintf(format, a...))
}

// Failure reports a failed run.
func (c *Console) Failure(format string, a ...any) {
	c.styled(colFailure, fmt.Sprintf(format, a...))
}

// Separator prints the rule that marks the hand-off to the launched program.
func (c *Console) Separator() {
	c.println(strings.Repeat("-", SeparatorWidth))
}

func (c *Console) styled(t *color.Theme, msg string) {
	if c.colored {
		msg = t.Sprint(msg)
	}
	c.println(msg)
}

func (c *Console) println(s string) {
	if c.out == nil {
		return
	}
	_, _ = fmt.Fprintln(c.out, s)
}
