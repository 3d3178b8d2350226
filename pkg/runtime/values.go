package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/source"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindDict
	KindTuple
	KindFunction
	KindBuiltin
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the single null value.
var Null Value = NullValue{}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

func Bool(b bool) BoolValue { return BoolValue{Val: b} }

// NumberValue holds either an int64 or, when IsFloat is set, a float64.
type NumberValue struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (NumberValue) Kind() Kind { return KindNumber }

func Int(n int64) NumberValue { return NumberValue{Int: n} }

func Float(f float64) NumberValue { return NumberValue{IsFloat: true, Float: f} }

// AsFloat returns the number widened to float64.
func (v NumberValue) AsFloat() float64 {
	if v.IsFloat {
		return v.Float
	}
	return float64(v.Int)
}

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

func String(s string) StringValue { return StringValue{Val: s} }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ListValue is mutable and shared by reference.
type ListValue struct {
	Elements []Value
}

func (*ListValue) Kind() Kind { return KindList }

func NewList(elements ...Value) *ListValue {
	return &ListValue{Elements: elements}
}

// DictValue maps string keys to values and is shared by reference.
type DictValue struct {
	Entries map[string]Value
}

func (*DictValue) Kind() Kind { return KindDict }

func NewDict() *DictValue {
	return &DictValue{Entries: make(map[string]Value)}
}

type TupleValue struct {
	Elements []Value
}

func (TupleValue) Kind() Kind { return KindTuple }

func NewTuple(elements ...Value) TupleValue {
	return TupleValue{Elements: elements}
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function. Anonymous functions have an
// empty Name.
type FunctionValue struct {
	Name   string
	Params []string
	Body   *ast.Block
	Pos    source.Position
}

func (*FunctionValue) Kind() Kind { return KindFunction }

// Variadic marks a builtin without an upper argument bound.
const Variadic = -1

// NativeFunc implements a builtin. The interpreter checks the argument count
// against MinArgs/MaxArgs before calling it.
type NativeFunc func(call *NativeCall, args []Value) (Value, error)

// Host is the part of the interpreter a builtin may reach.
type Host interface {
	Stdout() io.Writer
	ReadLine(prompt string) (string, error)
	Import(ctx context.Context, path string, asValue bool) (Value, error)
}

// NativeCall carries call-site details into a builtin.
type NativeCall struct {
	Ctx  context.Context
	Pos  source.Position
	Host Host
	// Declared is set when the call is the whole right-hand side of a
	// declaration or assignment.
	Declared bool
}

type BuiltinFunctionValue struct {
	Name    string
	MinArgs int
	MaxArgs int
	Impl    NativeFunc
}

func (*BuiltinFunctionValue) Kind() Kind { return KindBuiltin }

// NewBuiltin builds a builtin taking exactly arity arguments.
func NewBuiltin(name string, arity int, impl NativeFunc) *BuiltinFunctionValue {
	return &BuiltinFunctionValue{Name: name, MinArgs: arity, MaxArgs: arity, Impl: impl}
}

// CheckArity validates an argument count against the builtin's bounds.
func (b *BuiltinFunctionValue) CheckArity(got int) error {
	if got >= b.MinArgs && (b.MaxArgs == Variadic || got <= b.MaxArgs) {
		return nil
	}
	switch {
	case b.MinArgs == b.MaxArgs:
		return TypeErrorf("%s() expected %d arguments, got %d", b.Name, b.MinArgs, got)
	case b.MaxArgs == Variadic:
		return TypeErrorf("%s() expected at least %d arguments, got %d", b.Name, b.MinArgs, got)
	default:
		return TypeErrorf("%s() expected %d to %d arguments, got %d", b.Name, b.MinArgs, b.MaxArgs, got)
	}
}

// method builds a zero-argument builtin bound to a receiver.
func method(name string, impl func() (Value, error)) *BuiltinFunctionValue {
	return NewBuiltin(name, 0, func(*NativeCall, []Value) (Value, error) { return impl() })
}
