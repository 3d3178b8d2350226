package interpreter

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/arjpeg/helix/pkg/runtime"
)

// host exposes interpreter services to builtins.
type host struct {
	interp *Interpreter
}

func (h host) Stdout() io.Writer { return h.interp.stdout }

func (h host) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(h.interp.stdout, prompt); err != nil {
			return "", err
		}
	}
	line, err := h.interp.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h host) Import(ctx context.Context, path string, asValue bool) (runtime.Value, error) {
	return h.interp.importUnit(ctx, path, asValue)
}

var (
	builtinPrint = &runtime.BuiltinFunctionValue{
		Name:    "print",
		MaxArgs: runtime.Variadic,
		Impl: func(call *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, arg := range args {
				parts[idx] = runtime.Display(arg)
			}
			if _, err := io.WriteString(call.Host.Stdout(), strings.Join(parts, " ")+"\n"); err != nil {
				return nil, runtime.WrapResource(err, "print failed")
			}
			return runtime.Null, nil
		},
	}

	builtinInput = &runtime.BuiltinFunctionValue{
		Name:    "input",
		MaxArgs: 1,
		Impl: func(call *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			prompt := ""
			if len(args) == 1 {
				prompt = runtime.Display(args[0])
			}
			line, err := call.Host.ReadLine(prompt)
			if err != nil {
				return nil, runtime.WrapResource(err, "input failed")
			}
			return runtime.String(line), nil
		},
	}

	builtinRange = &runtime.BuiltinFunctionValue{
		Name:    "range",
		MinArgs: 1,
		MaxArgs: 2,
		Impl: func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			bounds := make([]int64, len(args))
			for idx, arg := range args {
				n, ok := arg.(runtime.NumberValue)
				if !ok || n.IsFloat {
					return nil, runtime.TypeErrorf("range() arguments must be ints, got %s", kindName(arg))
				}
				bounds[idx] = n.Int
			}
			start, end := int64(0), bounds[0]
			if len(bounds) == 2 {
				start, end = bounds[0], bounds[1]
			}
			// end-start wraps negative when the bounds span more than int64.
			if start < end && (end-start < 0 || end-start > runtime.MaxSequenceLength) {
				return nil, runtime.Errorf(runtime.ResourceError, "range from %d to %d is too large", start, end)
			}
			list := runtime.NewList()
			for n := start; n < end; n++ {
				list.Elements = append(list.Elements, runtime.Int(n))
			}
			return list, nil
		},
	}

	builtinImport = runtime.NewBuiltin("import", 1, func(call *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
		path, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, runtime.TypeErrorf("import() expects a string path, got %s", args[0].Kind())
		}
		return call.Host.Import(call.Ctx, path.Val, call.Declared)
	})

	builtinFile = runtime.NewBuiltin("file", 1, func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
		path, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, runtime.TypeErrorf("file() expects a string path, got %s", args[0].Kind())
		}
		return newFileHandle(path.Val), nil
	})
)

func kindName(v runtime.Value) string {
	if n, ok := v.(runtime.NumberValue); ok && n.IsFloat {
		return "float"
	}
	return v.Kind().String()
}

func mathFunc(name string, fn func(float64) float64) *runtime.BuiltinFunctionValue {
	return runtime.NewBuiltin(name, 1, func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(runtime.NumberValue)
		if !ok {
			return nil, runtime.TypeErrorf("%s() expects a number, got %s", name, args[0].Kind())
		}
		return runtime.Float(fn(n.AsFloat())), nil
	})
}

var mathSqrt = runtime.NewBuiltin("sqrt", 1, func(_ *runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
	n, ok := args[0].(runtime.NumberValue)
	if !ok {
		return nil, runtime.TypeErrorf("sqrt() expects a number, got %s", args[0].Kind())
	}
	if n.AsFloat() < 0 {
		return nil, runtime.Errorf(runtime.ArithmeticError, "square root of a negative number")
	}
	return runtime.Float(math.Sqrt(n.AsFloat())), nil
})

// newStandardFrame builds the outermost frame of a fresh interpreter. The
// builtins are shared; the namespace dicts are per interpreter because
// dicts are mutable.
func newStandardFrame() *runtime.Frame {
	ioNS := runtime.NewDict()
	ioNS.Set("print", builtinPrint)
	ioNS.Set("input", builtinInput)

	mathNS := runtime.NewDict()
	mathNS.Set("pi", runtime.Float(math.Pi))
	mathNS.Set("e", runtime.Float(math.E))
	mathNS.Set("sin", mathFunc("sin", math.Sin))
	mathNS.Set("cos", mathFunc("cos", math.Cos))
	mathNS.Set("tan", mathFunc("tan", math.Tan))
	mathNS.Set("sqrt", mathSqrt)

	frame := runtime.NewFrame()
	for name, value := range map[string]runtime.Value{
		"null":   runtime.Null,
		"true":   runtime.Bool(true),
		"false":  runtime.Bool(false),
		"print":  builtinPrint,
		"input":  builtinInput,
		"range":  builtinRange,
		"import": builtinImport,
		"file":   builtinFile,
		"io":     ioNS,
		"math":   mathNS,
	} {
		// A fresh frame is writable, so Define cannot fail here.
		_ = frame.Define(name, value, true)
	}
	return frame.Freeze()
}
