package runtime

import (
	"strings"

	"github.com/arjpeg/helix/pkg/ast"
)

// Equal is value equality. Values of different kinds are never equal,
// except that ints and floats compare numerically.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		c, ok := av.Compare(b)
		return ok && c == 0
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		return ok && (av == bv || equalSlices(av.Elements, bv.Elements))
	case TupleValue:
		bv, ok := b.(TupleValue)
		return ok && equalSlices(av.Elements, bv.Elements)
	case *DictValue:
		bv, ok := b.(*DictValue)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for k, v := range av.Entries {
			other, found := bv.Entries[k]
			if !found || !Equal(v, other) {
				return false
			}
		}
		return true
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		return ok && av == bv
	case *BuiltinFunctionValue:
		bv, ok := b.(*BuiltinFunctionValue)
		return ok && av == bv
	}
	return false
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Inspect renders the textual form of v, with strings quoted.
func Inspect(v Value) string {
	var b strings.Builder
	inspect(&b, v, true)
	return b.String()
}

// Display renders v the way print shows it: top-level strings unquoted,
// everything else as Inspect.
func Display(v Value) string {
	var b strings.Builder
	inspect(&b, v, false)
	return b.String()
}

func inspect(b *strings.Builder, v Value, quote bool) {
	switch val := v.(type) {
	case nil, NullValue:
		b.WriteString("null")
	case BoolValue:
		if val.Val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case NumberValue:
		b.WriteString(formatNumber(val))
	case StringValue:
		if quote {
			b.WriteString(ast.QuoteString(val.Val))
		} else {
			b.WriteString(val.Val)
		}
	case *ListValue:
		b.WriteByte('[')
		inspectElements(b, val.Elements)
		b.WriteByte(']')
	case TupleValue:
		b.WriteByte('(')
		inspectElements(b, val.Elements)
		if len(val.Elements) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *DictValue:
		b.WriteByte('{')
		for i, key := range val.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ast.QuoteString(key))
			b.WriteString(": ")
			inspect(b, val.Entries[key], true)
		}
		b.WriteByte('}')
	case *FunctionValue:
		name := val.Name
		if name == "" {
			name = "anonymous"
		}
		b.WriteString("<fn " + name + "(" + strings.Join(val.Params, ", ") + ")>")
	case *BuiltinFunctionValue:
		b.WriteString("<builtin " + val.Name + ">")
	default:
		b.WriteString("<" + v.Kind().String() + ">")
	}
}

func inspectElements(b *strings.Builder, elems []Value) {
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		inspect(b, e, true)
	}
}
