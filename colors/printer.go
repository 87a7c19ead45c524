// Package colors provides ANSI color helpers for terminal output.
package colors

import (
	"fmt"
	"io"
)

// COLOR is an ANSI escape prefix.
type COLOR string

const (
	RESET  COLOR = "\033[0m"
	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	GREY   COLOR = "\033[90m"
	BOLD   COLOR = "\033[1m"
)

// Enabled controls whether escape sequences are emitted. Disable it for
// pipes and --no-color runs.
var Enabled = true

func (c COLOR) wrap(s string) string {
	if !Enabled {
		return s
	}
	return string(c) + s + string(RESET)
}

// Printf writes colored formatted output to stdout.
func (c COLOR) Printf(format string, args ...any) {
	fmt.Print(c.wrap(fmt.Sprintf(format, args...)))
}

// Println writes colored output to stdout with a trailing newline.
func (c COLOR) Println(args ...any) {
	fmt.Print(c.wrap(fmt.Sprintln(args...)))
}

// Fprintf writes colored formatted output to w.
func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, args...)))
}

// Fprintln writes colored output to w with a trailing newline.
func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, c.wrap(fmt.Sprintln(args...)))
}

// Sprintf returns the colored formatted string.
func (c COLOR) Sprintf(format string, args ...any) string {
	return c.wrap(fmt.Sprintf(format, args...))
}
