package interpreter

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/driver"
	"github.com/arjpeg/helix/pkg/parser"
	"github.com/arjpeg/helix/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested user-function calls.
const DefaultMaxCallDepth = 512

// SourceLoader locates and reads the source units named by import.
type SourceLoader interface {
	// Resolve maps an import path, as written in the importing unit
	// named from, to a canonical unit name.
	Resolve(from, path string) (string, error)
	Load(name string) (string, error)
}

// Interpreter drives evaluation of Helix programs. It is not safe for
// concurrent use; run separate interpreters instead.
type Interpreter struct {
	symbols      *runtime.SymbolTable
	calls        []runtime.TraceFrame
	maxCallDepth int

	stdout     io.Writer
	stdin      *bufio.Reader
	loader     SourceLoader
	sourceName string
	imports    []string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout directs print output to w.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithStdin sets the reader used by input.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) {
		if br, ok := r.(*bufio.Reader); ok {
			i.stdin = br
			return
		}
		i.stdin = bufio.NewReader(r)
	}
}

// WithMaxCallDepth caps nested function calls. Non-positive values keep the
// default.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// WithLoader replaces the loader used to resolve imports.
func WithLoader(loader SourceLoader) Option {
	return func(i *Interpreter) {
		if loader != nil {
			i.loader = loader
		}
	}
}

// WithSourceName names the unit being evaluated; imports resolve relative
// to it.
func WithSourceName(name string) Option {
	return func(i *Interpreter) { i.sourceName = name }
}

// New returns an interpreter whose outermost frame holds the standard
// environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		symbols:      runtime.NewSymbolTable(newStandardFrame()),
		maxCallDepth: DefaultMaxCallDepth,
		stdout:       os.Stdout,
		loader:       driver.NewLoader(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.stdin == nil {
		i.stdin = bufio.NewReader(os.Stdin)
	}
	return i
}

// Globals returns the program's global frame.
func (i *Interpreter) Globals() *runtime.Frame {
	return i.symbols.Globals()
}

// Names lists every name visible at the top level.
func (i *Interpreter) Names() []string {
	return i.symbols.Names()
}

// EvaluateProgram runs a parsed program. A program of exactly one
// statement yields that statement's value; longer programs yield null.
func (i *Interpreter) EvaluateProgram(ctx context.Context, program *ast.Block) (runtime.Value, error) {
	if program == nil {
		return runtime.Null, nil
	}
	if len(program.Statements) == 1 {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		res, err := i.evaluateStatement(ctx, program.Statements[0])
		if err != nil {
			return nil, err
		}
		return res.value, nil
	}
	if _, err := i.evaluateBlock(ctx, program); err != nil {
		return nil, err
	}
	return runtime.Null, nil
}

// EvaluateSource parses and runs src. Lexical and syntax errors are
// returned unchanged.
func (i *Interpreter) EvaluateSource(ctx context.Context, name, src string) (runtime.Value, error) {
	if name != "" {
		i.sourceName = name
		if len(i.imports) == 0 {
			i.imports = []string{canonicalName(name)}
		}
	}
	program, err := parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return i.EvaluateProgram(ctx, program)
}

// CallFunction invokes a user function or builtin with already evaluated
// arguments.
func (i *Interpreter) CallFunction(ctx context.Context, fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.call(ctx, fn, args, callSite{})
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return runtime.WrapResource(err, "evaluation interrupted")
	}
	return nil
}
