package interpreter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjpeg/helix/pkg/runtime"
)

func TestPrintJoinsArguments(t *testing.T) {
	interp, out := newTestInterpreter()
	evalSource(t, interp, "print('a', 1, 2.5, [1, 'b'], null)\nprint()\nio.print('via io')")
	want := "a 1 2.5 [1, \"b\"] null\n\nvia io\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q, want %q", out.String(), want)
	}
}

func TestInputReadsLines(t *testing.T) {
	interp, out := newTestInterpreter(WithStdin(strings.NewReader("alice\r\nbob")))
	evalSource(t, interp, "let first = input('name? ')\nlet second = io.input()")
	expectInspect(t, global(t, interp, "first"), `"alice"`)
	expectInspect(t, global(t, interp, "second"), `"bob"`)
	if out.String() != "name? " {
		t.Fatalf("prompt not written, got %q", out.String())
	}

	err := evalError(t, interp, "input()")
	if err.Kind != runtime.ResourceError {
		t.Fatalf("expected ResourceError at end of input, got %s", err.Kind)
	}
}

func TestMathNamespace(t *testing.T) {
	interp, _ := newTestInterpreter()
	expectInspect(t, evalSource(t, interp, "math.sqrt(16)"), "4.0")
	expectInspect(t, evalSource(t, interp, "math.cos(0)"), "1.0")
	expectInspect(t, evalSource(t, interp, "math.pi > 3.14 and math.pi < 3.15"), "true")

	cases := []struct {
		src  string
		kind runtime.ErrorKind
	}{
		{"math.sqrt(-1)", runtime.ArithmeticError},
		{"math.sqrt('x')", runtime.TypeError},
		{"math.sin()", runtime.TypeError},
		{"math.tau", runtime.IndexError},
		{"math = 1", runtime.NameError},
	}
	for _, tc := range cases {
		if err := evalError(t, interp, tc.src); err.Kind != tc.kind {
			t.Fatalf("%s: expected %s, got %s (%s)", tc.src, tc.kind, err.Kind, err.Msg)
		}
	}
}

func TestRange(t *testing.T) {
	interp, _ := newTestInterpreter()
	expectInspect(t, evalSource(t, interp, "range(3)"), "[0, 1, 2]")
	expectInspect(t, evalSource(t, interp, "range(2, 5)"), "[2, 3, 4]")
	expectInspect(t, evalSource(t, interp, "range(5, 2)"), "[]")

	cases := []struct {
		src  string
		kind runtime.ErrorKind
		msg  string
	}{
		{"range(1.5)", runtime.TypeError, "got float"},
		{"range('3')", runtime.TypeError, "got string"},
		{"range()", runtime.TypeError, ""},
		{"range(1, 2, 3)", runtime.TypeError, ""},
		{"range(0, 100000000)", runtime.ResourceError, "too large"},
		{"range(-9223372036854775807, 9223372036854775807)", runtime.ResourceError, "too large"},
	}
	for _, tc := range cases {
		err := evalError(t, interp, tc.src)
		if err.Kind != tc.kind || !strings.Contains(err.Msg, tc.msg) {
			t.Fatalf("%s: expected %s containing %q, got %s: %s", tc.src, tc.kind, tc.msg, err.Kind, err.Msg)
		}
	}
}

func TestFileWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	interp, _ := newTestInterpreter()
	src := `let f = file('` + path + `')
f.open('w')
f.write('one')
f.close()
f.open('a')
f.write(' two')
f.close()
f.open('r')
let text = f.read()
f.close()
f.close()`
	evalSource(t, interp, src)
	expectInspect(t, global(t, interp, "text"), `"one two"`)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "one two" {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	interp, _ := newTestInterpreter()
	evalSource(t, interp, "let f = file('"+existing+"')\nlet g = file('"+filepath.Join(dir, "absent.txt")+"')")

	cases := []struct {
		src  string
		kind runtime.ErrorKind
		msg  string
	}{
		{"f.read()", runtime.ResourceError, "is not open"},
		{"f.write('y')", runtime.ResourceError, "is not open"},
		{"f.open('rw')", runtime.ResourceError, "invalid file mode"},
		{"g.open('r')", runtime.ResourceError, "cannot open"},
		{"f.open(1)", runtime.TypeError, "mode string"},
		{"file(1)", runtime.TypeError, "string path"},
	}
	for _, tc := range cases {
		err := evalError(t, interp, tc.src)
		if err.Kind != tc.kind || !strings.Contains(err.Msg, tc.msg) {
			t.Fatalf("%s: expected %s containing %q, got %s: %s", tc.src, tc.kind, tc.msg, err.Kind, err.Msg)
		}
	}

	evalSource(t, interp, "f.open('r')")
	if err := evalError(t, interp, "f.write('y')"); !strings.Contains(err.Msg, "in read mode") {
		t.Fatalf("expected read mode error, got %s", err.Msg)
	}
	evalSource(t, interp, "f.open('w')")
	if err := evalError(t, interp, "f.read()"); !strings.Contains(err.Msg, "not open for reading") {
		t.Fatalf("expected write mode error, got %s", err.Msg)
	}
	evalSource(t, interp, "f.close()")
}
