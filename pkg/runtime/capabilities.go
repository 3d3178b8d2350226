package runtime

import "iter"

// Capabilities are optional interfaces a value implements for the operators
// and statements that apply to it. Operators dispatch on the left operand.

type Adder interface {
	Add(other Value) (Value, error)
}

type Subtractor interface {
	Sub(other Value) (Value, error)
}

type Multiplier interface {
	Mul(other Value) (Value, error)
}

type Divider interface {
	Div(other Value) (Value, error)
}

type Exponentiator interface {
	Pow(other Value) (Value, error)
}

// Ordered values compare against other values; ok is false when the two
// are not comparable.
type Ordered interface {
	Compare(other Value) (cmp int, ok bool)
}

type Container interface {
	Contains(element Value) (bool, error)
}

type Indexer interface {
	Index(index Value) (Value, error)
}

type IndexSetter interface {
	SetIndex(index, value Value) error
}

// Iterable values drive for loops. Each call starts a fresh pass.
type Iterable interface {
	Iterate() iter.Seq[Value]
}

type PropertyGetter interface {
	Property(name string) (Value, error)
}

type PropertySetter interface {
	SetProperty(name string, value Value) error
}

var (
	_ Adder          = NumberValue{}
	_ Exponentiator  = NumberValue{}
	_ Ordered        = StringValue{}
	_ Container      = StringValue{}
	_ Adder          = (*ListValue)(nil)
	_ Iterable       = (*ListValue)(nil)
	_ IndexSetter    = (*ListValue)(nil)
	_ PropertySetter = (*DictValue)(nil)
	_ Indexer        = TupleValue{}
)

// Callable reports whether v can be invoked.
func Callable(v Value) bool {
	switch v.(type) {
	case *FunctionValue, *BuiltinFunctionValue:
		return true
	}
	return false
}
