package lexer

import (
	"fmt"
	"strconv"

	"github.com/arjpeg/helix/pkg/source"
)

// Kind identifies the lexical category of a token.
type Kind uint8

const (
	EOF Kind = iota
	NEWLINE
	INT
	FLOAT
	STRING
	IDENTIFIER
	KEYWORD

	PLUS     // +
	MINUS    // -
	MUL      // *
	DIV      // /
	POW      // ^
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	DOT      // .
	COLON    // :
	ASSIGN   // =
	ARROW    // ->
	EQ       // ==
	NOT_EQ   // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
)

var kindNames = [...]string{
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	INT:        "INT",
	FLOAT:      "FLOAT",
	STRING:     "STRING",
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MUL:        "MUL",
	DIV:        "DIV",
	POW:        "POW",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	DOT:        "DOT",
	COLON:      "COLON",
	ASSIGN:     "ASSIGN",
	ARROW:      "ARROW",
	EQ:         "EQ",
	NOT_EQ:     "NOT_EQ",
	LT:         "LT",
	GT:         "GT",
	LTE:        "LTE",
	GTE:        "GTE",
}

var kindSymbols = map[Kind]string{
	PLUS:     "+",
	MINUS:    "-",
	MUL:      "*",
	DIV:      "/",
	POW:      "^",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	DOT:      ".",
	COLON:    ":",
	ASSIGN:   "=",
	ARROW:    "->",
	EQ:       "==",
	NOT_EQ:   "!=",
	LT:       "<",
	GT:       ">",
	LTE:      "<=",
	GTE:      ">=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol returns the source spelling of an operator or punctuation kind, or
// the empty string for kinds that carry a payload.
func (k Kind) Symbol() string {
	return kindSymbols[k]
}

// Describe renders a kind the way parse errors quote it: operators by their
// spelling, everything else by name.
func (k Kind) Describe() string {
	if sym := k.Symbol(); sym != "" {
		return "'" + sym + "'"
	}
	return k.String()
}

// Keyword enumerates reserved words.
type Keyword uint8

const (
	NoKeyword Keyword = iota
	LET
	CONST
	IF
	ELSE
	FOR
	WHILE
	IN
	FN
	RETURN
	BREAK
	CONTINUE
	AND
	OR
	NOT
)

var keywordSpellings = [...]string{
	LET:      "let",
	CONST:    "const",
	IF:       "if",
	ELSE:     "else",
	FOR:      "for",
	WHILE:    "while",
	IN:       "in",
	FN:       "fn",
	RETURN:   "return",
	BREAK:    "break",
	CONTINUE: "continue",
	AND:      "and",
	OR:       "or",
	NOT:      "not",
}

var keywords = func() map[string]Keyword {
	out := make(map[string]Keyword, len(keywordSpellings))
	for kw, spelling := range keywordSpellings {
		if spelling != "" {
			out[spelling] = Keyword(kw)
		}
	}
	return out
}()

// LookupKeyword reports the keyword spelled by ident, if any.
func LookupKeyword(ident string) (Keyword, bool) {
	kw, ok := keywords[ident]
	return kw, ok
}

func (k Keyword) String() string {
	if int(k) < len(keywordSpellings) && keywordSpellings[k] != "" {
		return keywordSpellings[k]
	}
	return fmt.Sprintf("Keyword(%d)", int(k))
}

// Token is a single lexical unit. Only the payload field matching Kind is
// meaningful: Int for INT, Float for FLOAT, Text for STRING and IDENTIFIER,
// Keyword for KEYWORD.
type Token struct {
	Kind    Kind
	Keyword Keyword
	Int     int64
	Float   float64
	Text    string
	Pos     source.Position
}

// Is reports whether the token is the given keyword.
func (t Token) Is(kw Keyword) bool {
	return t.Kind == KEYWORD && t.Keyword == kw
}

func (t Token) String() string {
	switch t.Kind {
	case INT:
		return "INT(" + strconv.FormatInt(t.Int, 10) + ")"
	case FLOAT:
		return "FLOAT(" + strconv.FormatFloat(t.Float, 'f', -1, 64) + ")"
	case STRING:
		return "STRING(" + strconv.Quote(t.Text) + ")"
	case IDENTIFIER:
		return "IDENTIFIER(" + t.Text + ")"
	case KEYWORD:
		return "KEYWORD(" + t.Keyword.String() + ")"
	default:
		return t.Kind.String()
	}
}
