package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Terminal provides terminal-aware output utilities for one stream
type Terminal struct {
	IsTerminal bool
	UseColor   bool
	w          io.Writer
}

// NewTerminal creates a Terminal writing to f
func NewTerminal(f *os.File) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "", // Only use color in terminal
		w:          f,
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// Notef prints a one-line status message
func (t *Terminal) Notef(color, format string, args ...interface{}) {
	fmt.Fprintln(t.w, t.Color(color, fmt.Sprintf(format, args...)))
}

// stdinIsTerminal reports whether the survey can prompt interactively
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
