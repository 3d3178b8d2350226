package source

import "fmt"

// Position identifies a location in source text. Line and Column are
// 1-based; Offset is the 0-based byte offset.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// IsValid reports whether the position was populated.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
