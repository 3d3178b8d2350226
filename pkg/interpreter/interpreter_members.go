package interpreter

import (
	"context"
	"errors"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/runtime"
	"github.com/arjpeg/helix/pkg/source"
)

type callSite struct {
	pos      source.Position
	declared bool
}

func (i *Interpreter) evaluateInvocation(ctx context.Context, n *ast.FunctionInvocation, declared bool) (runtime.Value, error) {
	args, err := i.evaluateExpressions(ctx, n.Arguments)
	if err != nil {
		return nil, err
	}
	callee, err := i.symbols.Get(n.Name)
	if err != nil {
		return nil, err
	}
	if !runtime.Callable(callee) {
		return nil, runtime.TypeErrorf("'%s' is not callable, it is a %s", n.Name, callee.Kind())
	}
	return i.call(ctx, callee, args, callSite{pos: n.Pos(), declared: declared})
}

// evaluatePropertyAccess resolves the base variable and applies each lookup
// left to right.
func (i *Interpreter) evaluatePropertyAccess(ctx context.Context, n *ast.PropertyAccess) (runtime.Value, error) {
	current, err := i.symbols.Get(n.Object)
	if err != nil {
		return nil, err
	}
	for _, lookup := range n.Lookups {
		current, err = i.lookupProperty(ctx, current, lookup)
		if err != nil {
			return nil, located(err, lookup.Pos())
		}
	}
	return current, nil
}

func (i *Interpreter) lookupProperty(ctx context.Context, target runtime.Value, lookup ast.PropertyLookup) (runtime.Value, error) {
	getter, ok := target.(runtime.PropertyGetter)
	if !ok {
		return nil, runtime.TypeErrorf("%s has no property '%s'", target.Kind(), lookup.LookupName())
	}
	member, err := getter.Property(lookup.LookupName())
	if err != nil {
		return nil, err
	}
	call, ok := lookup.(*ast.PropertyCall)
	if !ok {
		return member, nil
	}
	args, err := i.evaluateExpressions(ctx, call.Arguments)
	if err != nil {
		return nil, err
	}
	if !runtime.Callable(member) {
		return nil, runtime.TypeErrorf("property '%s' is not callable, it is a %s", call.Name, member.Kind())
	}
	return i.call(ctx, member, args, callSite{pos: call.Pos()})
}

func (i *Interpreter) call(ctx context.Context, fn runtime.Value, args []runtime.Value, site callSite) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(ctx, f, args, site)
	case *runtime.BuiltinFunctionValue:
		if err := f.CheckArity(len(args)); err != nil {
			return nil, err
		}
		native := &runtime.NativeCall{Ctx: ctx, Pos: site.pos, Host: host{i}, Declared: site.declared}
		return f.Impl(native, args)
	default:
		return nil, runtime.TypeErrorf("%s is not callable", fn.Kind())
	}
}

func functionName(fn *runtime.FunctionValue) string {
	if fn.Name == "" {
		return "anonymous"
	}
	return fn.Name
}

// callFunction binds parameters positionally and runs the body. Calls see
// the caller's frames; two fresh frames are pushed and always popped.
func (i *Interpreter) callFunction(ctx context.Context, fn *runtime.FunctionValue, args []runtime.Value, site callSite) (value runtime.Value, err error) {
	name := functionName(fn)
	if len(args) != len(fn.Params) {
		return nil, runtime.TypeErrorf("%s() expected %d arguments, got %d", name, len(fn.Params), len(args))
	}
	if len(i.calls) >= i.maxCallDepth {
		return nil, runtime.Errorf(runtime.ResourceError, "maximum call depth of %d exceeded", i.maxCallDepth)
	}

	i.calls = append(i.calls, runtime.TraceFrame{Function: name, Pos: site.pos})
	i.symbols.Push()
	i.symbols.Push()
	defer func() {
		i.symbols.Pop()
		i.symbols.Pop()
		i.calls = i.calls[:len(i.calls)-1]
		if err != nil {
			err = traced(err, name, site.pos)
		}
	}()

	for idx, param := range fn.Params {
		if err := i.symbols.Declare(param, args[idx], false); err != nil {
			return nil, err
		}
	}
	if fn.Body == nil {
		return runtime.Null, nil
	}
	if len(fn.Body.Statements) == 1 {
		if ret, ok := fn.Body.Statements[0].(*ast.Return); ok {
			return i.evaluateExpression(ctx, ret.Value)
		}
	}
	res, err := i.evaluateBlock(ctx, fn.Body)
	if err != nil {
		return nil, err
	}
	if res.signal == signalReturn {
		return res.value, nil
	}
	return runtime.Null, nil
}

// maxTraceFrames keeps runaway recursion from producing an enormous trace.
const maxTraceFrames = 20

// traced records the unwinding call on a runtime error.
func traced(err error, name string, pos source.Position) error {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) && len(rtErr.Trace) < maxTraceFrames {
		rtErr.Trace = append(rtErr.Trace, runtime.TraceFrame{Function: name, Pos: pos})
	}
	return err
}
