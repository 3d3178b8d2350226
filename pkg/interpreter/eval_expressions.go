package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/runtime"
	"github.com/arjpeg/helix/pkg/source"
)

// located fills in the position of a runtime error that does not have one
// yet. The innermost node with a position wins.
func located(err error, pos source.Position) error {
	var rtErr *runtime.Error
	if pos.IsValid() && errors.As(err, &rtErr) && !rtErr.Pos.IsValid() {
		rtErr.Pos = pos
	}
	return err
}

func (i *Interpreter) evaluateExpression(ctx context.Context, node ast.Expression) (runtime.Value, error) {
	value, err := i.expression(ctx, node)
	if err != nil {
		return nil, located(err, node.Pos())
	}
	return value, nil
}

func (i *Interpreter) expression(ctx context.Context, node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NoOp:
		return runtime.Null, nil
	case *ast.NumberLiteral:
		if n.IsFloat {
			return runtime.Float(n.Float), nil
		}
		return runtime.Int(n.Int), nil
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.ListLiteral:
		elems, err := i.evaluateExpressions(ctx, n.Elements)
		if err != nil {
			return nil, err
		}
		return runtime.NewList(elems...), nil
	case *ast.TupleLiteral:
		elems, err := i.evaluateExpressions(ctx, n.Elements)
		if err != nil {
			return nil, err
		}
		return runtime.NewTuple(elems...), nil
	case *ast.DictLiteral:
		dict := runtime.NewDict()
		for _, entry := range n.Entries {
			value, err := i.evaluateExpression(ctx, entry.Value)
			if err != nil {
				return nil, err
			}
			dict.Set(entry.Key, value)
		}
		return dict, nil
	case *ast.Variable:
		return i.symbols.Get(n.Name)
	case *ast.Indexing:
		return i.evaluateIndexing(ctx, n)
	case *ast.UnaryOp:
		return i.evaluateUnaryOp(ctx, n)
	case *ast.BinOp:
		return i.evaluateBinOp(ctx, n)
	case *ast.Compare:
		return i.evaluateCompare(ctx, n)
	case *ast.In:
		return i.evaluateIn(ctx, n)
	case *ast.And:
		return i.evaluateLogical(ctx, "and", n.Left, n.Right, func(a, b bool) bool { return a && b })
	case *ast.Or:
		return i.evaluateLogical(ctx, "or", n.Left, n.Right, func(a, b bool) bool { return a || b })
	case *ast.FunctionExpr:
		return &runtime.FunctionValue{Params: n.Params, Body: n.Body, Pos: n.Pos()}, nil
	case *ast.FunctionInvocation:
		return i.evaluateInvocation(ctx, n, false)
	case *ast.PropertyAccess:
		return i.evaluatePropertyAccess(ctx, n)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateExpressions(ctx context.Context, exprs []ast.Expression) ([]runtime.Value, error) {
	values := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, err := i.evaluateExpression(ctx, expr)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (i *Interpreter) evaluateIndexing(ctx context.Context, n *ast.Indexing) (runtime.Value, error) {
	target, err := i.evaluateExpression(ctx, n.Target)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(ctx, n.Index)
	if err != nil {
		return nil, err
	}
	indexer, ok := target.(runtime.Indexer)
	if !ok {
		return nil, runtime.TypeErrorf("%s is not indexable", target.Kind())
	}
	return indexer.Index(index)
}

func (i *Interpreter) evaluateUnaryOp(ctx context.Context, n *ast.UnaryOp) (runtime.Value, error) {
	operand, err := i.evaluateExpression(ctx, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.UnaryNegate, ast.UnaryPlus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.TypeErrorf("bad operand type for unary %s: %s", n.Operator, operand.Kind())
		}
		if n.Operator == ast.UnaryNegate {
			neg, err := num.Negate()
			if err != nil {
				return nil, err
			}
			return neg, nil
		}
		return num, nil
	case ast.UnaryNot:
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtime.TypeErrorf("'not' requires a boolean, got %s", operand.Kind())
		}
		return runtime.Bool(!b.Val), nil
	default:
		return nil, fmt.Errorf("unknown unary operator %q", n.Operator)
	}
}

func (i *Interpreter) evaluateBinOp(ctx context.Context, n *ast.BinOp) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.OpAdd:
		if op, ok := left.(runtime.Adder); ok {
			return op.Add(right)
		}
	case ast.OpSub:
		if op, ok := left.(runtime.Subtractor); ok {
			return op.Sub(right)
		}
	case ast.OpMul:
		if op, ok := left.(runtime.Multiplier); ok {
			return op.Mul(right)
		}
	case ast.OpDiv:
		if op, ok := left.(runtime.Divider); ok {
			return op.Div(right)
		}
	case ast.OpPow:
		if op, ok := left.(runtime.Exponentiator); ok {
			return op.Pow(right)
		}
	default:
		return nil, fmt.Errorf("unknown binary operator %q", n.Operator)
	}
	return nil, runtime.Unsupported(string(n.Operator), left, right)
}

func (i *Interpreter) evaluateCompare(ctx context.Context, n *ast.Compare) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.CmpEq:
		return runtime.Bool(runtime.Equal(left, right)), nil
	case ast.CmpNotEq:
		return runtime.Bool(!runtime.Equal(left, right)), nil
	}
	ordered, ok := left.(runtime.Ordered)
	if !ok {
		return runtime.Bool(false), nil
	}
	c, ok := ordered.Compare(right)
	if !ok {
		return runtime.Bool(false), nil
	}
	switch n.Operator {
	case ast.CmpLt:
		return runtime.Bool(c < 0), nil
	case ast.CmpGt:
		return runtime.Bool(c > 0), nil
	case ast.CmpLte:
		return runtime.Bool(c <= 0), nil
	case ast.CmpGte:
		return runtime.Bool(c >= 0), nil
	default:
		return nil, fmt.Errorf("unknown comparison operator %q", n.Operator)
	}
}

func (i *Interpreter) evaluateIn(ctx context.Context, n *ast.In) (runtime.Value, error) {
	element, err := i.evaluateExpression(ctx, n.Element)
	if err != nil {
		return nil, err
	}
	container, err := i.evaluateExpression(ctx, n.Container)
	if err != nil {
		return nil, err
	}
	c, ok := container.(runtime.Container)
	if !ok {
		return nil, runtime.TypeErrorf("'in' requires a container on the right, got %s", container.Kind())
	}
	found, err := c.Contains(element)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(found), nil
}

// evaluateLogical evaluates both operands before combining them; and/or do
// not short-circuit.
func (i *Interpreter) evaluateLogical(ctx context.Context, op string, l, r ast.Expression, combine func(a, b bool) bool) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, l)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(ctx, r)
	if err != nil {
		return nil, err
	}
	lb, lok := left.(runtime.BoolValue)
	rb, rok := right.(runtime.BoolValue)
	if !lok || !rok {
		return nil, runtime.TypeErrorf("'%s' requires booleans, got %s and %s", op, left.Kind(), right.Kind())
	}
	return runtime.Bool(combine(lb.Val, rb.Val)), nil
}
