package lexer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/arjpeg/helix/pkg/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func mustScan(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	return toks
}

func TestScanArithmeticSample(t *testing.T) {
	toks := mustScan(t, "(+ 1 2) / 3 * 4 - 5^2")
	want := []lexer.Kind{
		lexer.LPAREN, lexer.PLUS, lexer.INT, lexer.INT, lexer.RPAREN,
		lexer.DIV, lexer.INT, lexer.MUL, lexer.INT, lexer.MINUS,
		lexer.INT, lexer.POW, lexer.INT, lexer.EOF,
	}
	if len(toks) != 14 {
		t.Fatalf("expected 14 tokens, got %d: %v", len(toks), toks)
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if toks[10].Int != 5 || toks[12].Int != 2 {
		t.Fatalf("unexpected int payloads: %v %v", toks[10], toks[12])
	}
}

func TestScanConditionalSample(t *testing.T) {
	toks := mustScan(t, "if 1 == 2 {\nlet x = 3\n}")
	want := []lexer.Kind{
		lexer.KEYWORD, lexer.INT, lexer.EQ, lexer.INT, lexer.LBRACE, lexer.NEWLINE,
		lexer.KEYWORD, lexer.IDENTIFIER, lexer.ASSIGN, lexer.INT, lexer.NEWLINE,
		lexer.RBRACE, lexer.EOF,
	}
	if len(toks) != 13 {
		t.Fatalf("expected 13 tokens, got %d: %v", len(toks), toks)
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if !toks[0].Is(lexer.IF) || !toks[6].Is(lexer.LET) {
		t.Fatalf("expected if/let keywords, got %v and %v", toks[0], toks[6])
	}
	if toks[7].Text != "x" {
		t.Fatalf("expected identifier x, got %q", toks[7].Text)
	}
	if toks[7].Pos.Line != 2 || toks[7].Pos.Column != 5 {
		t.Fatalf("expected x at 2:5, got %s", toks[7].Pos)
	}
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src   string
		kind  lexer.Kind
		int   int64
		float float64
	}{
		{src: "42", kind: lexer.INT, int: 42},
		{src: "3.25", kind: lexer.FLOAT, float: 3.25},
		{src: ".5", kind: lexer.FLOAT, float: 0.5},
		{src: "007", kind: lexer.INT, int: 7},
	}
	for _, tc := range cases {
		toks := mustScan(t, tc.src)
		if len(toks) != 2 {
			t.Fatalf("%q: expected number + EOF, got %v", tc.src, toks)
		}
		tok := toks[0]
		if tok.Kind != tc.kind {
			t.Fatalf("%q: expected %s, got %s", tc.src, tc.kind, tok.Kind)
		}
		if tok.Kind == lexer.INT && tok.Int != tc.int {
			t.Fatalf("%q: expected %d, got %d", tc.src, tc.int, tok.Int)
		}
		if tok.Kind == lexer.FLOAT && tok.Float != tc.float {
			t.Fatalf("%q: expected %v, got %v", tc.src, tc.float, tok.Float)
		}
	}
}

func TestScanIntFollowedByDot(t *testing.T) {
	toks := mustScan(t, "1.x")
	got := kinds(toks)
	want := []lexer.Kind{lexer.INT, lexer.DOT, lexer.IDENTIFIER, lexer.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScanRejectsSecondDecimalPoint(t *testing.T) {
	for _, src := range []string{"1.2.3", ".5.1"} {
		_, err := lexer.Scan(src)
		var lexErr *lexer.LexicalError
		if !errors.As(err, &lexErr) {
			t.Fatalf("%q: expected LexicalError, got %v", src, err)
		}
		if !strings.Contains(lexErr.Msg, "decimal point") {
			t.Fatalf("%q: unexpected message %q", src, lexErr.Msg)
		}
	}
}

func TestScanOperators(t *testing.T) {
	toks := mustScan(t, "-> - == = != <= < >= > , . : [ ] { }")
	want := []lexer.Kind{
		lexer.ARROW, lexer.MINUS, lexer.EQ, lexer.ASSIGN, lexer.NOT_EQ,
		lexer.LTE, lexer.LT, lexer.GTE, lexer.GT, lexer.COMMA, lexer.DOT,
		lexer.COLON, lexer.LBRACKET, lexer.RBRACKET, lexer.LBRACE, lexer.RBRACE,
		lexer.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), toks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScanStrings(t *testing.T) {
	toks := mustScan(t, `"it's" 'say "hi"' "a\nb"`)
	want := []string{"it's", `say "hi"`, `a\nb`}
	for i, text := range want {
		if toks[i].Kind != lexer.STRING || toks[i].Text != text {
			t.Fatalf("token %d: expected STRING(%q), got %v", i, text, toks[i])
		}
	}

	multi := mustScan(t, "'one\ntwo' x")
	if multi[0].Text != "one\ntwo" {
		t.Fatalf("expected newline inside string, got %q", multi[0].Text)
	}
	if multi[1].Pos.Line != 2 {
		t.Fatalf("expected identifier on line 2, got %s", multi[1].Pos)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := mustScan(t, "let const fn return break continue and or not in for while else my_var x2")
	for i := 0; i < 13; i++ {
		if toks[i].Kind != lexer.KEYWORD {
			t.Fatalf("token %d: expected keyword, got %v", i, toks[i])
		}
	}
	if toks[13].Kind != lexer.IDENTIFIER || toks[13].Text != "my_var" {
		t.Fatalf("expected identifier my_var, got %v", toks[13])
	}
	if toks[14].Kind != lexer.IDENTIFIER || toks[14].Text != "x2" {
		t.Fatalf("expected identifier x2, got %v", toks[14])
	}
}

func TestScanCommentsKeepNewline(t *testing.T) {
	toks := mustScan(t, "x # trailing comment\ny")
	got := kinds(toks)
	want := []lexer.Kind{lexer.IDENTIFIER, lexer.NEWLINE, lexer.IDENTIFIER, lexer.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		src  string
		line int
		col  int
		msg  string
	}{
		{src: "'abc", line: 1, col: 1, msg: "unterminated string"},
		{src: "x ! y", line: 1, col: 3, msg: "expected '='"},
		{src: "let a = 1\nlet b = @", line: 2, col: 9, msg: "unexpected character"},
	}
	for _, tc := range cases {
		_, err := lexer.Scan(tc.src)
		var lexErr *lexer.LexicalError
		if !errors.As(err, &lexErr) {
			t.Fatalf("%q: expected LexicalError, got %v", tc.src, err)
		}
		if lexErr.Pos.Line != tc.line || lexErr.Pos.Column != tc.col {
			t.Fatalf("%q: expected error at %d:%d, got %s", tc.src, tc.line, tc.col, lexErr.Pos)
		}
		if !strings.Contains(lexErr.Msg, tc.msg) {
			t.Fatalf("%q: expected message containing %q, got %q", tc.src, tc.msg, lexErr.Msg)
		}
	}
}

func TestNextRepeatsEOF(t *testing.T) {
	lx := lexer.New("a")
	for i := 0; i < 3; i++ {
		if _, err := lx.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	tok, err := lx.Next()
	if err != nil || tok.Kind != lexer.EOF {
		t.Fatalf("expected EOF, got %v (%v)", tok, err)
	}
}
