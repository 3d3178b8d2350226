package source

import (
	"errors"
	"fmt"
	"strings"
)

// Located is implemented by errors that can point at a source position.
type Located interface {
	error
	Position() Position
	// Label is the upper-case header used in snippets, e.g. "SYNTAX ERROR".
	Label() string
	// Message is the error text without position information.
	Message() string
}

// Snippet renders err as a caret-annotated excerpt of src. Errors that do not
// carry a position are rendered with Error() unchanged.
//
//	SYNTAX ERROR in main.helix at 2:9: expected '}', found EOF
//
//	   1 | fn f() {
//	   2 |   return 1
//	     |         ^
func Snippet(err error, name, src string) string {
	if err == nil {
		return ""
	}
	var loc Located
	if !errors.As(err, &loc) || !loc.Position().IsValid() {
		return err.Error()
	}
	pos := loc.Position()
	return render(src, loc.Label(), name, pos.Line, pos.Column, loc.Message())
}

func render(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
