package interpreter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arjpeg/helix/pkg/runtime"
)

// importUnit evaluates another source unit in a fresh interpreter. With
// asValue set the unit's globals come back as a dict; otherwise they are
// declared in the caller's innermost frame and import yields null.
func (i *Interpreter) importUnit(ctx context.Context, path string, asValue bool) (runtime.Value, error) {
	name, err := i.loader.Resolve(i.sourceName, path)
	if err != nil {
		return nil, runtime.WrapResource(err, "cannot import '%s'", path)
	}
	name = canonicalName(name)
	if slices.Contains(i.imports, name) {
		chain := append(slices.Clone(i.imports), name)
		return nil, runtime.Errorf(runtime.ResourceError, "import cycle: %s", strings.Join(chain, " -> "))
	}
	src, err := i.loader.Load(name)
	if err != nil {
		return nil, runtime.WrapResource(err, "cannot import '%s'", path)
	}

	unit := New(
		WithStdout(i.stdout),
		WithStdin(i.stdin),
		WithLoader(i.loader),
		WithMaxCallDepth(i.maxCallDepth),
	)
	unit.imports = append(slices.Clone(i.imports), name)
	if _, err := unit.EvaluateSource(ctx, name, src); err != nil {
		return nil, importFailure(err, path)
	}

	globals := unit.Globals()
	if asValue {
		dict := runtime.NewDict()
		for _, binding := range globals.Names() {
			b, _ := globals.Lookup(binding)
			dict.Set(binding, b.Value)
		}
		return dict, nil
	}
	for _, binding := range globals.Names() {
		b, _ := globals.Lookup(binding)
		if err := i.symbols.Declare(binding, b.Value, b.Const); err != nil {
			return nil, err
		}
	}
	return runtime.Null, nil
}

// importFailure reports an error raised inside an imported unit. Runtime
// errors keep their kind and trace so callers can still tell an
// ArithmeticError from a missing file; the position is left for the import
// call site.
func importFailure(err error, path string) error {
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		return runtime.WrapResource(err, "import '%s' failed", path)
	}
	return &runtime.Error{
		Kind:  rtErr.Kind,
		Msg:   fmt.Sprintf("in import '%s' at %s: %s", path, rtErr.Pos, rtErr.Msg),
		Trace: rtErr.Trace,
		Err:   err,
	}
}

// canonicalName makes unit names comparable for cycle detection.
func canonicalName(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}
