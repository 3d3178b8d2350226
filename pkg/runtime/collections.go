package runtime

import (
	"iter"
	"maps"
	"slices"
)

//-----------------------------------------------------------------------------
// List
//-----------------------------------------------------------------------------

// Add concatenates another list, or appends any other value, returning a
// new list.
func (v *ListValue) Add(other Value) (Value, error) {
	out := slices.Clone(v.Elements)
	if rhs, ok := other.(*ListValue); ok {
		return NewList(append(out, rhs.Elements...)...), nil
	}
	return NewList(append(out, other)...), nil
}

func (v *ListValue) Mul(other Value) (Value, error) {
	n, err := repeatCount(v, other, len(v.Elements))
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(v.Elements)*n)
	for range n {
		out = append(out, v.Elements...)
	}
	return NewList(out...), nil
}

func (v *ListValue) Contains(element Value) (bool, error) {
	return slices.ContainsFunc(v.Elements, func(e Value) bool { return Equal(e, element) }), nil
}

func (v *ListValue) Index(index Value) (Value, error) {
	i, err := resolveIndex(index, len(v.Elements))
	if err != nil {
		return nil, err
	}
	return v.Elements[i], nil
}

func (v *ListValue) SetIndex(index, value Value) error {
	i, err := resolveIndex(index, len(v.Elements))
	if err != nil {
		return err
	}
	v.Elements[i] = value
	return nil
}

func (v *ListValue) Iterate() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		// Index each step so pushes from the body are visited.
		for i := 0; i < len(v.Elements); i++ {
			if !yield(v.Elements[i]) {
				return
			}
		}
	}
}

func (v *ListValue) Property(name string) (Value, error) {
	switch name {
	case "length":
		return method(name, func() (Value, error) { return Int(int64(len(v.Elements))), nil }), nil
	case "push":
		return NewBuiltin(name, 1, func(_ *NativeCall, args []Value) (Value, error) {
			v.Elements = append(v.Elements, args[0])
			return Null, nil
		}), nil
	case "pop":
		return method(name, func() (Value, error) {
			if len(v.Elements) == 0 {
				return nil, IndexErrorf("pop from empty list")
			}
			last := v.Elements[len(v.Elements)-1]
			v.Elements = v.Elements[:len(v.Elements)-1]
			return last, nil
		}), nil
	}
	return nil, TypeErrorf("list has no property '%s'", name)
}

//-----------------------------------------------------------------------------
// Dict
//-----------------------------------------------------------------------------

// Add merges two dicts into a new one; keys from the right win.
func (v *DictValue) Add(other Value) (Value, error) {
	rhs, ok := other.(*DictValue)
	if !ok {
		return nil, Unsupported("+", v, other)
	}
	out := &DictValue{Entries: maps.Clone(v.Entries)}
	if out.Entries == nil {
		out.Entries = make(map[string]Value, len(rhs.Entries))
	}
	maps.Copy(out.Entries, rhs.Entries)
	return out, nil
}

func (v *DictValue) Contains(element Value) (bool, error) {
	key, ok := element.(StringValue)
	if !ok {
		return false, TypeErrorf("dict keys are strings, got %s", element.Kind())
	}
	_, found := v.Entries[key.Val]
	return found, nil
}

func (v *DictValue) Index(index Value) (Value, error) {
	key, ok := index.(StringValue)
	if !ok {
		return nil, TypeErrorf("dict keys are strings, got %s", describeKind(index))
	}
	val, found := v.Entries[key.Val]
	if !found {
		return nil, IndexErrorf("key %q not found", key.Val)
	}
	return val, nil
}

func (v *DictValue) SetIndex(index, value Value) error {
	key, ok := index.(StringValue)
	if !ok {
		return TypeErrorf("dict keys are strings, got %s", describeKind(index))
	}
	v.Set(key.Val, value)
	return nil
}

func (v *DictValue) Property(name string) (Value, error) {
	val, found := v.Entries[name]
	if !found {
		return nil, IndexErrorf("key %q not found", name)
	}
	return val, nil
}

func (v *DictValue) SetProperty(name string, value Value) error {
	v.Set(name, value)
	return nil
}

// Set stores value under key.
func (v *DictValue) Set(key string, value Value) {
	if v.Entries == nil {
		v.Entries = make(map[string]Value)
	}
	v.Entries[key] = value
}

// Keys returns the dict's keys in sorted order.
func (v *DictValue) Keys() []string {
	return slices.Sorted(maps.Keys(v.Entries))
}

//-----------------------------------------------------------------------------
// Tuple
//-----------------------------------------------------------------------------

func (v TupleValue) Add(other Value) (Value, error) {
	rhs, ok := other.(TupleValue)
	if !ok {
		return nil, Unsupported("+", v, other)
	}
	out := slices.Concat(v.Elements, rhs.Elements)
	return NewTuple(out...), nil
}

func (v TupleValue) Contains(element Value) (bool, error) {
	return slices.ContainsFunc(v.Elements, func(e Value) bool { return Equal(e, element) }), nil
}

func (v TupleValue) Index(index Value) (Value, error) {
	i, err := resolveIndex(index, len(v.Elements))
	if err != nil {
		return nil, err
	}
	return v.Elements[i], nil
}

func (v TupleValue) Iterate() iter.Seq[Value] {
	return slices.Values(v.Elements)
}

func (v TupleValue) Property(name string) (Value, error) {
	if name == "length" {
		return method(name, func() (Value, error) { return Int(int64(len(v.Elements))), nil }), nil
	}
	return nil, TypeErrorf("tuple has no property '%s'", name)
}
