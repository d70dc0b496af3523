package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY returns true if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether both ends are terminals, so the form prompter
// can take over the screen.
func Interactive(in io.Reader, out io.Writer) bool {
	return IsTTY(in) && IsTTY(out)
}
