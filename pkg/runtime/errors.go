package runtime

import (
	"fmt"
	"strings"

	"github.com/arjpeg/helix/pkg/source"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	NameError ErrorKind = iota
	TypeError
	IndexError
	ArithmeticError
	ResourceError
)

func (k ErrorKind) String() string {
	switch k {
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case IndexError:
		return "IndexError"
	case ArithmeticError:
		return "ArithmeticError"
	case ResourceError:
		return "ResourceError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// TraceFrame names one active function call at the time of an error.
type TraceFrame struct {
	Function string
	Pos      source.Position
}

// Error is a fatal evaluation failure. Value capabilities return errors
// without a position; the interpreter fills in Pos and Trace as the error
// leaves the node that caused it.
type Error struct {
	Kind  ErrorKind
	Pos   source.Position
	Msg   string
	Trace []TraceFrame
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, " at %s", e.Pos)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Position() source.Position { return e.Pos }
func (e *Error) Label() string             { return e.Kind.String() }

func (e *Error) Message() string {
	if len(e.Trace) == 0 {
		return e.Msg
	}
	var b strings.Builder
	b.WriteString(e.Msg)
	for i := len(e.Trace) - 1; i >= 0; i-- {
		frame := e.Trace[i]
		fmt.Fprintf(&b, "\n  in %s (called at %s)", frame.Function, frame.Pos)
	}
	return b.String()
}

// Errorf builds an Error of the given kind without position information.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NameErrorf(format string, args ...any) *Error {
	return Errorf(NameError, format, args...)
}

func TypeErrorf(format string, args ...any) *Error {
	return Errorf(TypeError, format, args...)
}

func IndexErrorf(format string, args ...any) *Error {
	return Errorf(IndexError, format, args...)
}

// WrapResource reports err, typically an I/O or context failure, as a
// ResourceError.
func WrapResource(err error, format string, args ...any) *Error {
	e := Errorf(ResourceError, format, args...)
	e.Msg += ": " + err.Error()
	e.Err = err
	return e
}

// Unsupported reports an operator that has no meaning for the operand kinds.
func Unsupported(op string, left, right Value) *Error {
	return TypeErrorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
}
