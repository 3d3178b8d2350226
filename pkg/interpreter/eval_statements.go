package interpreter

import (
	"context"
	"fmt"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/runtime"
)

type signal uint8

const (
	signalNone signal = iota
	signalReturn
	signalBreak
	signalContinue
)

// result is the outcome of one statement: a value plus the control signal
// the enclosing construct has to act on.
type result struct {
	value  runtime.Value
	signal signal
}

var nullResult = result{value: runtime.Null}

func valueResult(v runtime.Value) result {
	return result{value: v}
}

func (i *Interpreter) evaluateStatement(ctx context.Context, node ast.Statement) (result, error) {
	res, err := i.statement(ctx, node)
	if err != nil {
		return result{}, located(err, node.Pos())
	}
	return res, nil
}

func (i *Interpreter) statement(ctx context.Context, node ast.Statement) (result, error) {
	switch n := node.(type) {
	case *ast.NewAssign:
		return i.evaluateDeclaration(ctx, n.Name, n.Value, false)
	case *ast.AssignConstant:
		return i.evaluateDeclaration(ctx, n.Name, n.Value, true)
	case *ast.ReAssign:
		value, err := i.evaluateAssignedValue(ctx, n.Value)
		if err != nil {
			return result{}, err
		}
		return nullResult, i.symbols.Assign(n.Name, value)
	case *ast.AssignIndex:
		return i.evaluateAssignIndex(ctx, n)
	case *ast.AssignProperty:
		return i.evaluateAssignProperty(ctx, n)
	case *ast.ConditionalStatement:
		return i.evaluateConditional(ctx, n)
	case *ast.For:
		return i.evaluateFor(ctx, n)
	case *ast.While:
		return i.evaluateWhile(ctx, n)
	case *ast.Break:
		return result{value: runtime.Null, signal: signalBreak}, nil
	case *ast.Continue:
		return result{value: runtime.Null, signal: signalContinue}, nil
	case *ast.Return:
		value, err := i.evaluateExpression(ctx, n.Value)
		if err != nil {
			return result{}, err
		}
		return result{value: value, signal: signalReturn}, nil
	case *ast.FunctionDef:
		fn := &runtime.FunctionValue{Name: n.Name, Params: n.Params, Body: n.Body, Pos: n.Pos()}
		return nullResult, i.symbols.Declare(n.Name, fn, false)
	case *ast.Block:
		return i.evaluateBlock(ctx, n)
	case ast.Expression:
		value, err := i.evaluateExpression(ctx, n)
		if err != nil {
			return result{}, err
		}
		return valueResult(value), nil
	default:
		return result{}, fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

// evaluateBlock runs statements in order. Any signal stops the block and
// is handed to the caller.
func (i *Interpreter) evaluateBlock(ctx context.Context, block *ast.Block) (result, error) {
	for _, stmt := range block.Statements {
		if err := checkContext(ctx); err != nil {
			return result{}, located(err, stmt.Pos())
		}
		res, err := i.evaluateStatement(ctx, stmt)
		if err != nil {
			return result{}, err
		}
		if res.signal != signalNone {
			return res, nil
		}
	}
	return nullResult, nil
}

func (i *Interpreter) evaluateDeclaration(ctx context.Context, name string, expr ast.Expression, isConst bool) (result, error) {
	value, err := i.evaluateAssignedValue(ctx, expr)
	if err != nil {
		return result{}, err
	}
	return nullResult, i.symbols.Declare(name, value, isConst)
}

// evaluateAssignedValue evaluates the right-hand side of a declaration or
// assignment. A direct call there is flagged so import returns a dict.
func (i *Interpreter) evaluateAssignedValue(ctx context.Context, expr ast.Expression) (runtime.Value, error) {
	if call, ok := expr.(*ast.FunctionInvocation); ok {
		value, err := i.evaluateInvocation(ctx, call, true)
		if err != nil {
			return nil, located(err, call.Pos())
		}
		return value, nil
	}
	return i.evaluateExpression(ctx, expr)
}

func (i *Interpreter) evaluateAssignIndex(ctx context.Context, n *ast.AssignIndex) (result, error) {
	target, err := i.symbols.Get(n.Name)
	if err != nil {
		return result{}, err
	}
	setter, ok := target.(runtime.IndexSetter)
	if !ok {
		return result{}, runtime.TypeErrorf("%s does not support index assignment", target.Kind())
	}
	index, err := i.evaluateExpression(ctx, n.Index)
	if err != nil {
		return result{}, err
	}
	value, err := i.evaluateExpression(ctx, n.Value)
	if err != nil {
		return result{}, err
	}
	return nullResult, setter.SetIndex(index, value)
}

func (i *Interpreter) evaluateAssignProperty(ctx context.Context, n *ast.AssignProperty) (result, error) {
	target, err := i.symbols.Get(n.Name)
	if err != nil {
		return result{}, err
	}
	setter, ok := target.(runtime.PropertySetter)
	if !ok {
		return result{}, runtime.TypeErrorf("cannot set property '%s' on %s", n.Property, target.Kind())
	}
	value, err := i.evaluateExpression(ctx, n.Value)
	if err != nil {
		return result{}, err
	}
	return nullResult, setter.SetProperty(n.Property, value)
}

func (i *Interpreter) evaluateConditional(ctx context.Context, n *ast.ConditionalStatement) (result, error) {
	taken, err := i.condition(ctx, n.If.Condition)
	if err != nil {
		return result{}, err
	}
	if taken {
		return i.branch(ctx, n.If.Body)
	}
	for _, alt := range n.ElseIfs {
		taken, err := i.condition(ctx, alt.Condition)
		if err != nil {
			return result{}, located(err, alt.Pos())
		}
		if taken {
			return i.branch(ctx, alt.Body)
		}
	}
	if n.Else != nil {
		return i.branch(ctx, n.Else.Body)
	}
	return nullResult, nil
}

// branch runs a conditional body. Its signals propagate; its value does not.
func (i *Interpreter) branch(ctx context.Context, body *ast.Block) (result, error) {
	res, err := i.evaluateBlock(ctx, body)
	if err != nil || res.signal != signalNone {
		return res, err
	}
	return nullResult, nil
}

func (i *Interpreter) condition(ctx context.Context, expr ast.Expression) (bool, error) {
	value, err := i.evaluateExpression(ctx, expr)
	if err != nil {
		return false, err
	}
	b, ok := value.(runtime.BoolValue)
	if !ok {
		return false, located(runtime.TypeErrorf("condition must be a boolean, got %s", value.Kind()), expr.Pos())
	}
	return b.Val, nil
}

func (i *Interpreter) evaluateFor(ctx context.Context, n *ast.For) (result, error) {
	value, err := i.evaluateExpression(ctx, n.Iterable)
	if err != nil {
		return result{}, err
	}
	iterable, ok := value.(runtime.Iterable)
	if !ok {
		return result{}, located(runtime.TypeErrorf("%s is not iterable", value.Kind()), n.Iterable.Pos())
	}

	i.symbols.Push()
	defer i.symbols.Pop()
	for element := range iterable.Iterate() {
		if err := checkContext(ctx); err != nil {
			return result{}, err
		}
		if err := i.symbols.Declare(n.Variable, element, false); err != nil {
			return result{}, err
		}
		res, err := i.evaluateBlock(ctx, n.Body)
		if err != nil {
			return result{}, err
		}
		switch res.signal {
		case signalBreak:
			return nullResult, nil
		case signalReturn:
			return res, nil
		}
	}
	return nullResult, nil
}

func (i *Interpreter) evaluateWhile(ctx context.Context, n *ast.While) (result, error) {
	i.symbols.Push()
	defer i.symbols.Pop()
	for {
		if err := checkContext(ctx); err != nil {
			return result{}, err
		}
		ok, err := i.condition(ctx, n.Condition)
		if err != nil {
			return result{}, err
		}
		if !ok {
			return nullResult, nil
		}
		res, err := i.evaluateBlock(ctx, n.Body)
		if err != nil {
			return result{}, err
		}
		switch res.signal {
		case signalBreak:
			return nullResult, nil
		case signalReturn:
			return res, nil
		}
	}
}
