package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/lexer"
	"github.com/arjpeg/helix/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	prog, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", src, err)
	}
	return prog
}

func singleExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Statements) != 1 {
		t.Fatalf("%q: expected 1 statement, got %d", src, len(prog.Statements))
	}
	expr, ok := prog.Statements[0].(ast.Expression)
	if !ok {
		t.Fatalf("%q: expected expression statement, got %T", src, prog.Statements[0])
	}
	return expr
}

func TestExpressionPrecedence(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3":            "(1 + (2 * 3))",
		"(1 + 2) * 3":          "((1 + 2) * 3)",
		"2 ^ 3 ^ 2":            "((2 ^ 3) ^ 2)",
		"-2 ^ 2":               "(-(2 ^ 2))",
		"1 - 2 - 3":            "((1 - 2) - 3)",
		"a < b == c":           "((a < b) == c)",
		"not a == b":           "(not (a == b))",
		"x in xs and y":        "((x in xs) and y)",
		"a or b and c":         "((a or b) and c)",
		"1 + 2 > 2 and 3 != 4": "(((1 + 2) > 2) and (3 != 4))",
	}
	for src, want := range cases {
		got := ast.Render(singleExpr(t, src))
		if got != want {
			t.Fatalf("%q: expected %s, got %s", src, want, got)
		}
	}
}

func TestParseRejectsArithmeticSampleWithoutOperand(t *testing.T) {
	// `(+ 1 2)` is a unary plus followed by a stray operand.
	_, err := parser.ParseSource("(+ 1 2) / 3 * 4 - 5^2")
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if synErr.Expected != "')'" || !strings.Contains(synErr.Found, "number 2") {
		t.Fatalf("unexpected error %q", synErr.Error())
	}
}

func TestParseCollections(t *testing.T) {
	cases := map[string]string{
		"()":             "()",
		"(1,)":           "(1,)",
		"(1)":            "1",
		"(1, 2, 3)":      "(1, 2, 3)",
		"[1, 'a', 2.5]":  `[1, "a", 2.5]`,
		"[\n1,\n2,\n]":   "[1, 2]",
		"{a: 1, 'b': 2}": `{"a": 1, "b": 2}`,
		"{}":             "{}",
		"m[0][1]":        "m[0][1]",
		"xs[i + 1]":      "xs[(i + 1)]",
	}
	for src, want := range cases {
		got := ast.Render(singleExpr(t, src))
		if got != want {
			t.Fatalf("%q: expected %s, got %s", src, want, got)
		}
	}
}

func TestParseCallsAndProperties(t *testing.T) {
	expr := singleExpr(t, "xs.push(1).length")
	access, ok := expr.(*ast.PropertyAccess)
	if !ok {
		t.Fatalf("expected PropertyAccess, got %T", expr)
	}
	if access.Object != "xs" || len(access.Lookups) != 2 {
		t.Fatalf("unexpected access %#v", access)
	}
	if call, ok := access.Lookups[0].(*ast.PropertyCall); !ok || call.Name != "push" || len(call.Arguments) != 1 {
		t.Fatalf("expected push(1) call, got %#v", access.Lookups[0])
	}
	if name, ok := access.Lookups[1].(*ast.PropertyName); !ok || name.Name != "length" {
		t.Fatalf("expected length lookup, got %#v", access.Lookups[1])
	}

	call, ok := singleExpr(t, "add(2,\n 3)").(*ast.FunctionInvocation)
	if !ok || call.Name != "add" || len(call.Arguments) != 2 {
		t.Fatalf("expected add(2, 3), got %#v", call)
	}
}

func TestParseFunctionExpressions(t *testing.T) {
	lambda, ok := singleExpr(t, "(a, b) -> a + b").(*ast.FunctionExpr)
	if !ok {
		t.Fatalf("expected FunctionExpr")
	}
	if !lambda.ExprBody || len(lambda.Params) != 2 {
		t.Fatalf("unexpected lambda %#v", lambda)
	}
	if _, ok := lambda.Body.Statements[0].(*ast.Return); !ok {
		t.Fatalf("expected expression body wrapped in return, got %T", lambda.Body.Statements[0])
	}

	block, ok := singleExpr(t, "() -> {\nreturn 1\n}").(*ast.FunctionExpr)
	if !ok || block.ExprBody || len(block.Params) != 0 {
		t.Fatalf("expected block-bodied lambda, got %#v", block)
	}

	// A parenthesized identifier without an arrow is just the identifier.
	if _, ok := singleExpr(t, "(a)").(*ast.Variable); !ok {
		t.Fatalf("expected variable for (a)")
	}
}

func TestParseAssignments(t *testing.T) {
	prog := mustParse(t, "let x = 1\nconst y = 2\nx = 3\nxs[0] = 4\nlet xs[1] = 5\np.name = 'n'\nlet p.age = 6")
	want := []ast.NodeType{
		ast.NodeNewAssign, ast.NodeAssignConstant, ast.NodeReAssign,
		ast.NodeAssignIndex, ast.NodeAssignIndex, ast.NodeAssignProperty, ast.NodeAssignProperty,
	}
	if len(prog.Statements) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(prog.Statements))
	}
	for i, stmt := range prog.Statements {
		if stmt.NodeType() != want[i] {
			t.Fatalf("statement %d: expected %s, got %s", i, want[i], stmt.NodeType())
		}
	}
	idx := prog.Statements[3].(*ast.AssignIndex)
	if idx.Name != "xs" || ast.Render(idx.Index) != "0" || ast.Render(idx.Value) != "4" {
		t.Fatalf("unexpected index assignment %s", ast.Render(idx))
	}
	prop := prog.Statements[5].(*ast.AssignProperty)
	if prop.Name != "p" || prop.Property != "name" {
		t.Fatalf("unexpected property assignment %s", ast.Render(prop))
	}
}

func TestAssignmentTargetRewindsToExpression(t *testing.T) {
	prog := mustParse(t, "xs[0] + 1\ns.length\nxs[1] == 2")
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	wants := []string{"(xs[0] + 1)", "s.length", "(xs[1] == 2)"}
	for i, want := range wants {
		if got := ast.Render(prog.Statements[i]); got != want {
			t.Fatalf("statement %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestParseConditionalChain(t *testing.T) {
	prog := mustParse(t, "if a {\n1\n} else if b {\n2\n}\nelse {\n3\n}")
	cond, ok := prog.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected ConditionalStatement, got %T", prog.Statements[0])
	}
	if len(cond.ElseIfs) != 1 || cond.Else == nil {
		t.Fatalf("expected one else-if and an else, got %#v", cond)
	}
	if ast.Render(cond.ElseIfs[0].Condition) != "b" {
		t.Fatalf("unexpected else-if condition")
	}
}

func TestParseLoopsAndFunctions(t *testing.T) {
	src := `fn outer(n) {
    for let i in range(n) {
        if i == 2 {
            continue
        }
        while true {
            break
        }
    }
    return
}
fn noargs {
    return 1
}`
	prog := mustParse(t, src)
	fn, ok := prog.Statements[0].(*ast.FunctionDef)
	if !ok || fn.Name != "outer" || len(fn.Params) != 1 {
		t.Fatalf("unexpected function %#v", prog.Statements[0])
	}
	loop, ok := fn.Body.Statements[0].(*ast.For)
	if !ok || loop.Variable != "i" {
		t.Fatalf("expected for loop over i, got %#v", fn.Body.Statements[0])
	}
	ret := fn.Body.Statements[1].(*ast.Return)
	if _, ok := ret.Value.(*ast.NoOp); !ok {
		t.Fatalf("bare return should carry NoOp, got %T", ret.Value)
	}
	noargs := prog.Statements[1].(*ast.FunctionDef)
	if noargs.Name != "noargs" || len(noargs.Params) != 0 {
		t.Fatalf("unexpected function %#v", noargs)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"return 1", "'return' outside function"},
		{"break", "'break' outside loop"},
		{"while true {\nfn f() {\ncontinue\n}\n}", "'continue' outside loop"},
		{"}", "unexpected '}'"},
		{"if a {\n} else {\n} else {\n}", "after final 'else'"},
		{"let = 1", "expected identifier"},
		{"if a {\n1", "expected '}'"},
		{"1 2", "expected end of statement"},
		{"let x[0]", "expected '='"},
		{"{a 1}", "expected ':'"},
		{"*", "expected expression"},
	}
	for _, tc := range cases {
		_, err := parser.ParseSource(tc.src)
		var synErr *parser.SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("%q: expected SyntaxError, got %v", tc.src, err)
		}
		if !strings.Contains(synErr.Error(), tc.want) {
			t.Fatalf("%q: expected error containing %q, got %q", tc.src, tc.want, synErr.Error())
		}
	}
}

func TestParseRejectsExcessiveNesting(t *testing.T) {
	deep := []string{
		strings.Repeat("[", 300000) + strings.Repeat("]", 300000),
		strings.Repeat("(", 300000) + "1" + strings.Repeat(")", 300000),
		strings.Repeat("-", 300000) + "1",
		strings.Repeat("not ", 300000) + "true",
		strings.Repeat("if a {\n", 5000) + strings.Repeat("}\n", 5000),
	}
	for _, src := range deep {
		_, err := parser.ParseSource(src)
		var synErr *parser.SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("expected SyntaxError for %.20q..., got %v", src, err)
		}
		if !strings.Contains(synErr.Error(), "nesting exceeds") {
			t.Fatalf("unexpected error %q", synErr.Error())
		}
	}

	mustParse(t, strings.Repeat("[", 100)+strings.Repeat("]", 100))
	mustParse(t, strings.Repeat("-", 100)+"1")
}

func TestParseReportsLexicalErrors(t *testing.T) {
	_, err := parser.ParseSource("let x = 1.2.3")
	var lexErr *lexer.LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexicalError, got %v", err)
	}
}

func TestParseAcceptsTokensWithoutEOF(t *testing.T) {
	prog, err := parser.Parse([]lexer.Token{{Kind: lexer.INT, Int: 7}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ast.Render(prog); got != "7" {
		t.Fatalf("expected 7, got %q", got)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	exprs := []ast.Expression{
		ast.Bin(ast.OpSub, ast.Bin(ast.OpAdd, ast.Int(1), ast.Flt(2.5)), ast.Un(ast.UnaryNegate, ast.Var("x"))),
		ast.Bin(ast.OpPow, ast.Int(2), ast.Bin(ast.OpPow, ast.Int(3), ast.Int(2))),
		ast.Cmp(ast.CmpGte, ast.Call("len", ast.Var("xs")), ast.Int(0)),
		ast.NewAnd(ast.Un(ast.UnaryNot, ast.Var("a")), ast.NewOr(ast.Var("b"), ast.NewIn(ast.Str("k"), ast.Var("d")))),
		ast.List(ast.Tuple(), ast.Tuple(ast.Int(1)), ast.Dict(ast.Entry("key", ast.Str(`"quoted"`)))),
		ast.Index(ast.Index(ast.Var("grid"), ast.Int(1)), ast.Bin(ast.OpMul, ast.Var("i"), ast.Int(2))),
		ast.Prop("s", ast.Method("upper"), ast.Field("length")),
		ast.Lambda([]string{"a", "b"}, ast.Bin(ast.OpDiv, ast.Var("a"), ast.Var("b"))),
		ast.Bin(ast.OpAdd, ast.Lambda(nil, ast.Int(1)), ast.Int(2)),
		ast.Un(ast.UnaryPlus, ast.Un(ast.UnaryNegate, ast.Flt(0.25))),
	}
	for _, e := range exprs {
		text := ast.Render(e)
		reparsed := singleExpr(t, text)
		if again := ast.Render(reparsed); again != text {
			t.Fatalf("round trip mismatch:\n  first:  %s\n  second: %s", text, again)
		}
		if reparsed.NodeType() != e.NodeType() {
			t.Fatalf("%s: expected %s, got %s", text, e.NodeType(), reparsed.NodeType())
		}
	}
}

func TestPositionsAreRecorded(t *testing.T) {
	prog := mustParse(t, "let a = 1\n  b = a + 2")
	re := prog.Statements[1].(*ast.ReAssign)
	if re.Pos().Line != 2 || re.Pos().Column != 3 {
		t.Fatalf("expected reassign at 2:3, got %s", re.Pos())
	}
	sum := re.Value.(*ast.BinOp)
	if sum.Pos().Column != 9 {
		t.Fatalf("expected + at column 9, got %s", sum.Pos())
	}
}
