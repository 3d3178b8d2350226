package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/arjpeg/helix/pkg/source"
)

// LexicalError reports a character sequence that does not form a token.
type LexicalError struct {
	Pos source.Position
	Msg string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Msg)
}

func (e *LexicalError) Position() source.Position { return e.Pos }
func (e *LexicalError) Label() string             { return "LEXICAL ERROR" }
func (e *LexicalError) Message() string           { return e.Msg }

// Lexer scans Helix source one token at a time.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

// New creates a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole of src. The returned slice always ends with a
// single EOF token.
func Scan(src string) ([]Token, error) {
	lx := New(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. Once EOF has been produced every further call
// returns EOF again.
func (l *Lexer) Next() (Token, error) {
	l.skipBlanks()
	start := l.pos()
	if l.off >= len(l.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	ch, _ := l.peek(0)
	switch {
	case ch == '\n':
		l.advance()
		return Token{Kind: NEWLINE, Pos: start}, nil
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '.' && isDigit(l.peekRune(1)):
		return l.scanNumber(start)
	case ch == '_' || unicode.IsLetter(ch):
		return l.scanIdentifier(start), nil
	case ch == '"' || ch == '\'':
		return l.scanString(start)
	}

	l.advance()
	switch ch {
	case '+':
		return l.tok(PLUS, start), nil
	case '*':
		return l.tok(MUL, start), nil
	case '/':
		return l.tok(DIV, start), nil
	case '^':
		return l.tok(POW, start), nil
	case '(':
		return l.tok(LPAREN, start), nil
	case ')':
		return l.tok(RPAREN, start), nil
	case '{':
		return l.tok(LBRACE, start), nil
	case '}':
		return l.tok(RBRACE, start), nil
	case '[':
		return l.tok(LBRACKET, start), nil
	case ']':
		return l.tok(RBRACKET, start), nil
	case ',':
		return l.tok(COMMA, start), nil
	case '.':
		return l.tok(DOT, start), nil
	case ':':
		return l.tok(COLON, start), nil
	case '-':
		return l.either('>', ARROW, MINUS, start), nil
	case '=':
		return l.either('=', EQ, ASSIGN, start), nil
	case '<':
		return l.either('=', LTE, LT, start), nil
	case '>':
		return l.either('=', GTE, GT, start), nil
	case '!':
		if l.peekRune(0) == '=' {
			l.advance()
			return l.tok(NOT_EQ, start), nil
		}
		return Token{}, &LexicalError{Pos: start, Msg: "expected '=' after '!'"}
	}
	return Token{}, &LexicalError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", ch)}
}

func (l *Lexer) tok(kind Kind, pos source.Position) Token {
	return Token{Kind: kind, Pos: pos}
}

// either consumes next when it follows and yields two, otherwise one.
func (l *Lexer) either(next rune, two, one Kind, pos source.Position) Token {
	if l.peekRune(0) == next {
		l.advance()
		return l.tok(two, pos)
	}
	return l.tok(one, pos)
}

// skipBlanks drops spaces, tabs, carriage returns and comments. Newlines are
// significant and are left for Next.
func (l *Lexer) skipBlanks() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanNumber(start source.Position) (Token, error) {
	begin := l.off
	dots := 0
	for l.off < len(l.src) {
		ch := l.peekRune(0)
		if isDigit(ch) {
			l.advance()
			continue
		}
		if ch != '.' {
			break
		}
		if dots == 0 {
			// An integer followed by a dot that does not start a fraction
			// leaves the dot for the next token.
			if !isDigit(l.peekRune(1)) {
				break
			}
			dots++
			l.advance()
			continue
		}
		return Token{}, &LexicalError{Pos: l.pos(), Msg: "unexpected second decimal point in number"}
	}

	text := l.src[begin:l.off]
	if dots == 0 {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, &LexicalError{Pos: start, Msg: fmt.Sprintf("integer literal %s out of range", text)}
		}
		return Token{Kind: INT, Int: n, Pos: start}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, &LexicalError{Pos: start, Msg: fmt.Sprintf("invalid float literal %s", text)}
	}
	return Token{Kind: FLOAT, Float: f, Pos: start}, nil
}

func (l *Lexer) scanIdentifier(start source.Position) Token {
	begin := l.off
	for l.off < len(l.src) {
		ch := l.peekRune(0)
		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}
		l.advance()
	}
	text := l.src[begin:l.off]
	if kw, ok := LookupKeyword(text); ok {
		return Token{Kind: KEYWORD, Keyword: kw, Pos: start}
	}
	return Token{Kind: IDENTIFIER, Text: text, Pos: start}
}

func (l *Lexer) scanString(start source.Position) (Token, error) {
	quote := l.advance()
	begin := l.off
	for l.off < len(l.src) {
		if l.peekRune(0) == quote {
			text := l.src[begin:l.off]
			l.advance()
			return Token{Kind: STRING, Text: text, Pos: start}, nil
		}
		l.advance()
	}
	return Token{}, &LexicalError{Pos: start, Msg: "unterminated string"}
}

func (l *Lexer) pos() source.Position {
	return source.Position{Line: l.line, Column: l.col, Offset: l.off}
}

func (l *Lexer) peek(n int) (rune, int) {
	off := l.off
	for ; n > 0 && off < len(l.src); n-- {
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[off:])
}

func (l *Lexer) peekRune(n int) rune {
	r, _ := l.peek(n)
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
