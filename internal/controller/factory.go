package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// NewUI creates a UI based on whether TTY mode is enabled.
// This is a factory function following the factory pattern.
// When useTTY is true, it returns a TUI (Bubble Tea) that asks interactively.
// When useTTY is false, it returns a SimpleUI (plain text) that takes defaults.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal. Pipes, files and
// character devices such as /dev/null are not.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

// terminalSize returns the size of the terminal behind w, or 80x24 when w is
// not a terminal.
func terminalSize(w io.Writer) (int, int) {
	if file, ok := w.(*os.File); ok {
		if width, height, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width, height
		}
	}

	return defaultWidth, defaultHeight
}
