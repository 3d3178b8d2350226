package parser

import (
	"fmt"

	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/lexer"
	"github.com/arjpeg/helix/pkg/source"
)

// SyntaxError reports the first token the grammar could not accept.
type SyntaxError struct {
	Pos      source.Position
	Expected string
	Found    string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message())
}

func (e *SyntaxError) Position() source.Position { return e.Pos }
func (e *SyntaxError) Label() string             { return "SYNTAX ERROR" }

func (e *SyntaxError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// Parse builds the program block for a token stream produced by lexer.Scan.
func Parse(tokens []lexer.Token) (*ast.Block, error) {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != lexer.EOF {
		var pos source.Position
		if n > 0 {
			pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], lexer.Token{Kind: lexer.EOF, Pos: pos})
	}
	p := &Parser{toks: tokens}
	return p.program()
}

// ParseSource scans and parses src.
func ParseSource(src string) (*ast.Block, error) {
	tokens, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parser is a recursive-descent parser over a materialized token slice.
type Parser struct {
	toks []lexer.Token
	pos  int

	// Nesting counters for the return/break/continue placement checks.
	fnDepth   int
	loopDepth int

	// nesting counts active recursive productions; see nest.
	nesting int
}

// maxNesting bounds how deeply statements and expressions may nest, so
// hostile input fails with a SyntaxError instead of exhausting the stack.
const maxNesting = 1000

func (p *Parser) nest() error {
	p.nesting++
	if p.nesting > maxNesting {
		return p.errorf(p.peek(), "nesting exceeds %d levels", maxNesting)
	}
	return nil
}

func (p *Parser) unnest() { p.nesting-- }

func (p *Parser) program() (*ast.Block, error) {
	start := p.peek().Pos
	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.EOF) {
		return nil, p.errorf(p.peek(), "unexpected %s", describe(p.peek()))
	}
	return ast.At(ast.NewBlock(stmts), start), nil
}

// statements parses statements until EOF or a closing brace, leaving that
// token unconsumed.
func (p *Parser) statements() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		p.skipNewlines()
		if p.check(lexer.EOF) || p.check(lexer.RBRACE) {
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.check(lexer.NEWLINE) && !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
			return nil, p.expected("end of statement", p.peek())
		}
	}
}

func (p *Parser) block() (*ast.Block, error) {
	open, err := p.need(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.At(ast.NewBlock(stmts), open.Pos), nil
}

// functionBody parses a block in which return is legal and loop control
// from an enclosing loop is not.
func (p *Parser) functionBody() (*ast.Block, error) {
	savedLoop := p.loopDepth
	p.fnDepth++
	p.loopDepth = 0
	defer func() {
		p.fnDepth--
		p.loopDepth = savedLoop
	}()
	return p.block()
}

func (p *Parser) loopBody() (*ast.Block, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.block()
}

// ----- cursor -----

func (p *Parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(mark int) { p.pos = mark }

func (p *Parser) check(kind lexer.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkKeyword(kw lexer.Keyword) bool {
	return p.peek().Is(kw)
}

func (p *Parser) match(kind lexer.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(kw lexer.Keyword) bool {
	if p.checkKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) need(kind lexer.Kind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.expected(kind.Describe(), p.peek())
}

func (p *Parser) needKeyword(kw lexer.Keyword) (lexer.Token, error) {
	if p.checkKeyword(kw) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.expected("'"+kw.String()+"'", p.peek())
}

func (p *Parser) needIdent() (lexer.Token, error) {
	if p.check(lexer.IDENTIFIER) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.expected("identifier", p.peek())
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// ----- errors -----

func (p *Parser) expected(what string, found lexer.Token) error {
	return &SyntaxError{Pos: found.Pos, Expected: what, Found: describe(found)}
}

func (p *Parser) errorf(at lexer.Token, format string, args ...any) error {
	return &SyntaxError{Pos: at.Pos, Found: describe(at), Msg: fmt.Sprintf(format, args...)}
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		return "newline"
	case lexer.INT:
		return fmt.Sprintf("number %d", tok.Int)
	case lexer.FLOAT:
		return "number " + ast.FormatFloat(tok.Float)
	case lexer.STRING:
		return "string " + ast.QuoteString(tok.Text)
	case lexer.IDENTIFIER:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	case lexer.KEYWORD:
		return fmt.Sprintf("keyword '%s'", tok.Keyword)
	default:
		return tok.Kind.Describe()
	}
}
