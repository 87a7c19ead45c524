// Package source carries positions for diagnostics on textual inputs.
package source

import "fmt"

// Position is a specific location in a textual input. Lines and columns
// are 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
