package runtime

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// musts returns a helper that fails the test on a non-nil error.
func musts(t *testing.T) func(Value, error) Value {
	return func(v Value, err error) Value {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var rtErr *Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	if rtErr.Kind != kind {
		t.Fatalf("expected %s, got %s (%s)", kind, rtErr.Kind, rtErr.Msg)
	}
}

func TestNumberArithmeticPromotion(t *testing.T) {
	must := musts(t)
	cases := []struct {
		name string
		got  func() (Value, error)
		want string
	}{
		{"int add", func() (Value, error) { return Int(2).Add(Int(3)) }, "5"},
		{"int sub", func() (Value, error) { return Int(2).Sub(Int(3)) }, "-1"},
		{"mixed mul", func() (Value, error) { return Int(2).Mul(Float(1.5)) }, "3.0"},
		{"int div", func() (Value, error) { return Int(6).Div(Int(3)) }, "2.0"},
		{"fraction div", func() (Value, error) { return Int(1).Div(Int(4)) }, "0.25"},
		{"int pow", func() (Value, error) { return Int(2).Pow(Int(10)) }, "1024"},
		{"negative exponent", func() (Value, error) { return Int(2).Pow(Int(-1)) }, "0.5"},
		{"float pow", func() (Value, error) { return Float(4).Pow(Float(0.5)) }, "2.0"},
	}
	for _, tc := range cases {
		v := must(tc.got())
		if got := Inspect(v); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestNumberErrors(t *testing.T) {
	_, err := Int(1).Div(Int(0))
	expectKind(t, err, ArithmeticError)
	_, err = Float(1).Div(Float(0))
	expectKind(t, err, ArithmeticError)
	_, err = Int(1).Add(String("a"))
	expectKind(t, err, TypeError)
	_, err = Int(0).Pow(Int(-2))
	expectKind(t, err, ArithmeticError)
}

func TestIntegerOverflow(t *testing.T) {
	cases := []struct {
		name string
		got  func() (Value, error)
	}{
		{"add", func() (Value, error) { return Int(math.MaxInt64).Add(Int(1)) }},
		{"sub", func() (Value, error) { return Int(math.MinInt64).Sub(Int(1)) }},
		{"mul", func() (Value, error) { return Int(1 << 32).Mul(Int(1 << 32)) }},
		{"mul min by -1", func() (Value, error) { return Int(math.MinInt64).Mul(Int(-1)) }},
		{"pow", func() (Value, error) { return Int(2).Pow(Int(64)) }},
		{"pow huge exponent", func() (Value, error) { return Int(3).Pow(Int(math.MaxInt64)) }},
		{"negate min", func() (Value, error) {
			n, err := Int(math.MinInt64).Negate()
			return n, err
		}},
	}
	for _, tc := range cases {
		_, err := tc.got()
		if err == nil {
			t.Fatalf("%s: expected overflow error", tc.name)
		}
		expectKind(t, err, ArithmeticError)
	}

	must := musts(t)
	fits := []struct {
		name string
		got  func() (Value, error)
		want Value
	}{
		{"add to max", func() (Value, error) { return Int(math.MaxInt64 - 1).Add(Int(1)) }, Int(math.MaxInt64)},
		{"sub to min", func() (Value, error) { return Int(math.MinInt64 + 1).Sub(Int(1)) }, Int(math.MinInt64)},
		{"pow 2^62", func() (Value, error) { return Int(2).Pow(Int(62)) }, Int(1 << 62)},
		{"pow to min", func() (Value, error) { return Int(-2).Pow(Int(63)) }, Int(math.MinInt64)},
		{"pow of one", func() (Value, error) { return Int(1).Pow(Int(math.MaxInt64)) }, Int(1)},
		{"pow of minus one", func() (Value, error) { return Int(-1).Pow(Int(math.MaxInt64)) }, Int(-1)},
		{"float stays float", func() (Value, error) { return Float(2).Pow(Int(64)) }, Float(math.Pow(2, 64))},
	}
	for _, tc := range fits {
		if v := must(tc.got()); !Equal(v, tc.want) {
			t.Fatalf("%s: expected %s, got %s", tc.name, Inspect(tc.want), Inspect(v))
		}
	}
}

func TestNumberProperties(t *testing.T) {
	must := musts(t)
	prop := must(Float(3.75).Property("to_int"))
	fn := prop.(*BuiltinFunctionValue)
	v := must(fn.Impl(&NativeCall{}, nil))
	if !Equal(v, Int(3)) {
		t.Fatalf("expected 3, got %s", Inspect(v))
	}
	prop = must(Int(7).Property("to_str"))
	v = must(prop.(*BuiltinFunctionValue).Impl(&NativeCall{}, nil))
	if !Equal(v, String("7")) {
		t.Fatalf("expected \"7\", got %s", Inspect(v))
	}
	_, err := Int(1).Property("missing")
	expectKind(t, err, TypeError)
}

func TestCompare(t *testing.T) {
	if c, ok := Int(1).Compare(Float(1.5)); !ok || c != -1 {
		t.Fatalf("expected 1 < 1.5, got %d %v", c, ok)
	}
	if _, ok := String("a").Compare(Int(1)); ok {
		t.Fatalf("string and number must not be comparable")
	}
	if c, ok := String("b").Compare(String("a")); !ok || c != 1 {
		t.Fatalf("expected b > a")
	}
}

func TestStringOperations(t *testing.T) {
	must := musts(t)
	v := must(String("ab").Mul(Int(3)))
	if !Equal(v, String("ababab")) {
		t.Fatalf("unexpected repeat %s", Inspect(v))
	}
	_, err := String("ab").Mul(Float(2))
	expectKind(t, err, TypeError)
	_, err = String("ab").Mul(Int(-1))
	expectKind(t, err, TypeError)

	v = must(String("héllo").Index(Int(-4)))
	if !Equal(v, String("é")) {
		t.Fatalf("expected é, got %s", Inspect(v))
	}
	_, err = String("abc").Index(Int(3))
	expectKind(t, err, IndexError)
	_, err = String("abc").Index(Float(1))
	expectKind(t, err, TypeError)

	length := must(String("héllo").Property("length"))
	if !Equal(length, Int(5)) {
		t.Fatalf("expected length 5, got %s", Inspect(length))
	}
	ok, err := String("haystack").Contains(String("st"))
	if err != nil || !ok {
		t.Fatalf("expected substring match")
	}
}

func TestListOperations(t *testing.T) {
	must := musts(t)
	xs := NewList(Int(1), Int(2))
	joined := must(xs.Add(NewList(Int(3))))
	if Inspect(joined) != "[1, 2, 3]" {
		t.Fatalf("unexpected concat %s", Inspect(joined))
	}
	appended := must(xs.Add(String("x")))
	if Inspect(appended) != `[1, 2, "x"]` {
		t.Fatalf("unexpected append %s", Inspect(appended))
	}
	if len(xs.Elements) != 2 {
		t.Fatalf("add must not mutate the receiver")
	}
	repeated := must(xs.Mul(Int(2)))
	if Inspect(repeated) != "[1, 2, 1, 2]" {
		t.Fatalf("unexpected repeat %s", Inspect(repeated))
	}

	if err := xs.SetIndex(Int(-1), Int(9)); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if Inspect(xs) != "[1, 9]" {
		t.Fatalf("unexpected list after SetIndex %s", Inspect(xs))
	}
	expectKind(t, xs.SetIndex(Int(5), Int(0)), IndexError)

	push := must(xs.Property("push")).(*BuiltinFunctionValue)
	must(push.Impl(&NativeCall{}, []Value{Int(4)}))
	pop := must(xs.Property("pop")).(*BuiltinFunctionValue)
	last := must(pop.Impl(&NativeCall{}, nil))
	if !Equal(last, Int(4)) {
		t.Fatalf("expected popped 4, got %s", Inspect(last))
	}

	var seen []Value
	for v := range xs.Iterate() {
		seen = append(seen, v)
	}
	if !slices.EqualFunc(seen, []Value{Int(1), Int(9)}, Equal) {
		t.Fatalf("unexpected iteration %v", seen)
	}

	empty := NewList()
	pop = must(empty.Property("pop")).(*BuiltinFunctionValue)
	_, err := pop.Impl(&NativeCall{}, nil)
	expectKind(t, err, IndexError)
}

func TestRepeatLimit(t *testing.T) {
	cases := []struct {
		name string
		seq  Value
		n    int64
	}{
		{"string max int", String("ab"), math.MaxInt64},
		{"string large", String("ab"), 100_000_000_000},
		{"list wraps product", NewList(Int(1), Int(2)), 1 << 62},
		{"list over limit", NewList(Int(1), Int(2)), MaxSequenceLength},
	}
	for _, tc := range cases {
		var err error
		switch seq := tc.seq.(type) {
		case StringValue:
			_, err = seq.Mul(Int(tc.n))
		case *ListValue:
			_, err = seq.Mul(Int(tc.n))
		}
		if err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		expectKind(t, err, ResourceError)
	}

	must := musts(t)
	if v := must(String("").Mul(Int(math.MaxInt64))); !Equal(v, String("")) {
		t.Fatalf("expected empty string, got %s", Inspect(v))
	}
	if v := must(NewList().Mul(Int(math.MaxInt64))); Inspect(v) != "[]" {
		t.Fatalf("expected empty list, got %s", Inspect(v))
	}
	if v := must(String("a").Mul(Int(MaxSequenceLength))); len(v.(StringValue).Val) != MaxSequenceLength {
		t.Fatalf("expected a string at the limit")
	}
}

func TestDictOperations(t *testing.T) {
	must := musts(t)
	a := NewDict()
	a.Set("x", Int(1))
	a.Set("y", Int(2))
	b := NewDict()
	b.Set("y", Int(3))

	merged := must(a.Add(b))
	if Inspect(merged) != `{"x": 1, "y": 3}` {
		t.Fatalf("unexpected merge %s", Inspect(merged))
	}
	if !Equal(a.Entries["y"], Int(2)) {
		t.Fatalf("merge must not mutate the left operand")
	}

	_, err := a.Index(String("z"))
	expectKind(t, err, IndexError)
	_, err = a.Index(Int(0))
	expectKind(t, err, TypeError)

	if err := a.SetProperty("z", String("new")); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	v := must(a.Property("z"))
	if !Equal(v, String("new")) {
		t.Fatalf("expected new value, got %s", Inspect(v))
	}
	found, err := a.Contains(String("x"))
	if err != nil || !found {
		t.Fatalf("expected key x to be present")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Float(1), true},
		{Int(1), String("1"), false},
		{Null, Null, true},
		{Bool(true), Bool(true), true},
		{NewList(Int(1), String("a")), NewList(Int(1), String("a")), true},
		{NewTuple(Int(1)), NewList(Int(1)), false},
		{NewTuple(), NewTuple(), true},
	}
	for i, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: Equal(%s, %s) = %v", i, Inspect(tc.a), Inspect(tc.b), got)
		}
	}
}

func TestInspectForms(t *testing.T) {
	fn := &FunctionValue{Name: "add", Params: []string{"a", "b"}}
	builtin := NewBuiltin("print", 0, nil)
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{Bool(false), "false"},
		{Int(-3), "-3"},
		{Float(2), "2.0"},
		{String("hi"), `"hi"`},
		{NewTuple(Int(1)), "(1,)"},
		{NewTuple(Int(1), NewList(String("x"))), `(1, ["x"])`},
		{fn, "<fn add(a, b)>"},
		{builtin, "<builtin print>"},
	}
	for _, tc := range cases {
		if got := Inspect(tc.v); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
	if got := Display(String("hi")); got != "hi" {
		t.Fatalf("Display should not quote top-level strings, got %s", got)
	}
	if got := Display(NewList(String("hi"))); got != `["hi"]` {
		t.Fatalf("Display should quote nested strings, got %s", got)
	}
}

func TestBuiltinArity(t *testing.T) {
	exact := NewBuiltin("f", 2, nil)
	expectKind(t, exact.CheckArity(1), TypeError)
	if err := exact.CheckArity(2); err != nil {
		t.Fatalf("unexpected arity error %v", err)
	}
	ranged := &BuiltinFunctionValue{Name: "range", MinArgs: 1, MaxArgs: 2}
	expectKind(t, ranged.CheckArity(3), TypeError)
	variadic := &BuiltinFunctionValue{Name: "print", MaxArgs: Variadic}
	if err := variadic.CheckArity(10); err != nil {
		t.Fatalf("variadic builtin rejected arguments: %v", err)
	}
}
