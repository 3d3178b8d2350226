package runtime

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

func (v StringValue) Add(other Value) (Value, error) {
	rhs, ok := other.(StringValue)
	if !ok {
		return nil, Unsupported("+", v, other)
	}
	return String(v.Val + rhs.Val), nil
}

func (v StringValue) Mul(other Value) (Value, error) {
	n, err := repeatCount(v, other, len(v.Val))
	if err != nil {
		return nil, err
	}
	return String(strings.Repeat(v.Val, n)), nil
}

// MaxSequenceLength bounds the size of strings and lists built by
// repetition and by range.
const MaxSequenceLength = 1 << 24

// repeatCount validates the right operand of a repetition of a sequence of
// size units. An empty sequence always repeats zero times.
func repeatCount(left, other Value, size int) (int, error) {
	rhs, ok := other.(NumberValue)
	if !ok || rhs.IsFloat {
		return 0, Unsupported("*", left, other)
	}
	if rhs.Int < 0 {
		return 0, TypeErrorf("cannot repeat a %s a negative number of times", left.Kind())
	}
	if size == 0 {
		return 0, nil
	}
	if rhs.Int > int64(MaxSequenceLength/size) {
		return 0, Errorf(ResourceError, "repeating a %s %d times exceeds the limit of %d elements", left.Kind(), rhs.Int, MaxSequenceLength)
	}
	return int(rhs.Int), nil
}

func (v StringValue) Compare(other Value) (int, bool) {
	rhs, ok := other.(StringValue)
	if !ok {
		return 0, false
	}
	return strings.Compare(v.Val, rhs.Val), true
}

func (v StringValue) Contains(element Value) (bool, error) {
	needle, ok := element.(StringValue)
	if !ok {
		return false, TypeErrorf("'in <string>' requires a string on the left, got %s", element.Kind())
	}
	return strings.Contains(v.Val, needle.Val), nil
}

// Index returns the character at a rune offset; negative offsets count from
// the end.
func (v StringValue) Index(index Value) (Value, error) {
	runes := []rune(v.Val)
	i, err := resolveIndex(index, len(runes))
	if err != nil {
		return nil, err
	}
	return String(string(runes[i])), nil
}

func (v StringValue) Iterate() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, r := range v.Val {
			if !yield(String(string(r))) {
				return
			}
		}
	}
}

func (v StringValue) Property(name string) (Value, error) {
	switch name {
	case "length":
		return Int(int64(utf8.RuneCountInString(v.Val))), nil
	case "to_int":
		return method(name, func() (Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(v.Val), 10, 64)
			if err != nil {
				return nil, TypeErrorf("cannot convert %q to an int", v.Val)
			}
			return Int(n), nil
		}), nil
	case "to_float":
		return method(name, func() (Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Val), 64)
			if err != nil {
				return nil, TypeErrorf("cannot convert %q to a float", v.Val)
			}
			return Float(f), nil
		}), nil
	case "to_str":
		return method(name, func() (Value, error) { return v, nil }), nil
	case "upper":
		return method(name, func() (Value, error) { return String(strings.ToUpper(v.Val)), nil }), nil
	case "lower":
		return method(name, func() (Value, error) { return String(strings.ToLower(v.Val)), nil }), nil
	}
	return nil, TypeErrorf("string has no property '%s'", name)
}

// resolveIndex converts an index value into a position within a sequence of
// length n.
func resolveIndex(index Value, n int) (int, error) {
	num, ok := index.(NumberValue)
	if !ok || num.IsFloat {
		return 0, TypeErrorf("index must be an int, got %s", describeKind(index))
	}
	i := num.Int
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, IndexErrorf("index %d out of range for length %d", num.Int, n)
	}
	return int(i), nil
}

func describeKind(v Value) string {
	if num, ok := v.(NumberValue); ok && num.IsFloat {
		return "float"
	}
	return v.Kind().String()
}
