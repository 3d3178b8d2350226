package runtime

import (
	"cmp"
	"math"
	"strconv"

	"github.com/arjpeg/helix/pkg/ast"
)

// Two ints stay int under + - * and under ^ with a non-negative exponent;
// anything involving a float, and every division, yields a float. Int
// results that do not fit in 64 bits are an ArithmeticError.

func (v NumberValue) arith(op string, other Value, ints func(a, b int64) (int64, bool), floats func(a, b float64) float64) (Value, error) {
	rhs, ok := other.(NumberValue)
	if !ok {
		return nil, Unsupported(op, v, other)
	}
	if !v.IsFloat && !rhs.IsFloat {
		n, ok := ints(v.Int, rhs.Int)
		if !ok {
			return nil, overflow(op, v.Int, rhs.Int)
		}
		return Int(n), nil
	}
	return Float(floats(v.AsFloat(), rhs.AsFloat())), nil
}

func overflow(op string, a, b int64) error {
	return Errorf(ArithmeticError, "integer overflow in %d %s %d", a, op, b)
}

func (v NumberValue) Add(other Value) (Value, error) {
	return v.arith("+", other, addInt,
		func(a, b float64) float64 { return a + b })
}

func (v NumberValue) Sub(other Value) (Value, error) {
	return v.arith("-", other, subInt,
		func(a, b float64) float64 { return a - b })
}

func (v NumberValue) Mul(other Value) (Value, error) {
	return v.arith("*", other, mulInt,
		func(a, b float64) float64 { return a * b })
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return c, false
	}
	return c, true
}

func (v NumberValue) Div(other Value) (Value, error) {
	rhs, ok := other.(NumberValue)
	if !ok {
		return nil, Unsupported("/", v, other)
	}
	if rhs.AsFloat() == 0 {
		return nil, Errorf(ArithmeticError, "division by zero")
	}
	return Float(v.AsFloat() / rhs.AsFloat()), nil
}

func (v NumberValue) Pow(other Value) (Value, error) {
	rhs, ok := other.(NumberValue)
	if !ok {
		return nil, Unsupported("^", v, other)
	}
	if !v.IsFloat && !rhs.IsFloat && rhs.Int >= 0 {
		n, ok := ipow(v.Int, rhs.Int)
		if !ok {
			return nil, overflow("^", v.Int, rhs.Int)
		}
		return Int(n), nil
	}
	if v.AsFloat() == 0 && rhs.AsFloat() < 0 {
		return nil, Errorf(ArithmeticError, "zero raised to a negative power")
	}
	return Float(math.Pow(v.AsFloat(), rhs.AsFloat())), nil
}

// ipow is exponentiation by squaring. The base is only squared while
// further exponent bits remain, so a final square cannot report a false
// overflow.
func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	for {
		if exp&1 == 1 {
			var ok bool
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp == 0 {
			return result, true
		}
		var ok bool
		if base, ok = mulInt(base, base); !ok {
			return 0, false
		}
	}
}

// Negate is unary minus. The most negative int has no positive counterpart.
func (v NumberValue) Negate() (NumberValue, error) {
	if v.IsFloat {
		return Float(-v.Float), nil
	}
	if v.Int == math.MinInt64 {
		return NumberValue{}, Errorf(ArithmeticError, "integer overflow in -(%d)", v.Int)
	}
	return Int(-v.Int), nil
}

func (v NumberValue) Compare(other Value) (int, bool) {
	rhs, ok := other.(NumberValue)
	if !ok {
		return 0, false
	}
	if !v.IsFloat && !rhs.IsFloat {
		return cmp.Compare(v.Int, rhs.Int), true
	}
	a, b := v.AsFloat(), rhs.AsFloat()
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	return cmp.Compare(a, b), true
}

func (v NumberValue) Property(name string) (Value, error) {
	switch name {
	case "to_str":
		return method(name, func() (Value, error) { return String(formatNumber(v)), nil }), nil
	case "to_int":
		return method(name, func() (Value, error) {
			if v.IsFloat {
				return Int(int64(v.Float)), nil
			}
			return v, nil
		}), nil
	case "to_float":
		return method(name, func() (Value, error) { return Float(v.AsFloat()), nil }), nil
	}
	return nil, TypeErrorf("number has no property '%s'", name)
}

func formatNumber(v NumberValue) string {
	if v.IsFloat {
		return ast.FormatFloat(v.Float)
	}
	return strconv.FormatInt(v.Int, 10)
}
