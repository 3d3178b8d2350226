package interpreter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arjpeg/helix/pkg/runtime"
)

// newTestInterpreter returns an interpreter whose print output is captured.
func newTestInterpreter(opts ...Option) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append([]Option{WithStdout(&out), WithStdin(strings.NewReader(""))}, opts...)
	return New(opts...), &out
}

func evalSource(t *testing.T, interp *Interpreter, src string) runtime.Value {
	t.Helper()
	val, err := interp.EvaluateSource(context.Background(), "", src)
	if err != nil {
		t.Fatalf("evaluation failed: %v\nsource:\n%s", err, src)
	}
	return val
}

func evalError(t *testing.T, interp *Interpreter, src string) *runtime.Error {
	t.Helper()
	_, err := interp.EvaluateSource(context.Background(), "", src)
	if err == nil {
		t.Fatalf("expected evaluation error\nsource:\n%s", src)
	}
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error, got %T: %v", err, err)
	}
	return rtErr
}

func expectInspect(t *testing.T, val runtime.Value, want string) {
	t.Helper()
	if got := runtime.Inspect(val); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func global(t *testing.T, interp *Interpreter, name string) runtime.Value {
	t.Helper()
	b, ok := interp.Globals().Lookup(name)
	if !ok {
		t.Fatalf("global %q not defined", name)
	}
	return b.Value
}
