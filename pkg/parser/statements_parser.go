package parser

import (
	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/lexer"
)

func (p *Parser) statement() (ast.Statement, error) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()
	tok := p.peek()
	if tok.Kind == lexer.KEYWORD {
		switch tok.Keyword {
		case lexer.LET:
			return p.letStatement()
		case lexer.CONST:
			return p.constStatement()
		case lexer.IF:
			return p.ifStatement()
		case lexer.WHILE:
			return p.whileStatement()
		case lexer.FOR:
			return p.forStatement()
		case lexer.FN:
			return p.functionDefinition()
		case lexer.RETURN:
			return p.returnStatement()
		case lexer.BREAK:
			if p.loopDepth == 0 {
				return nil, p.errorf(tok, "'break' outside loop")
			}
			p.advance()
			return ast.At(ast.NewBreak(), tok.Pos), nil
		case lexer.CONTINUE:
			if p.loopDepth == 0 {
				return nil, p.errorf(tok, "'continue' outside loop")
			}
			p.advance()
			return ast.At(ast.NewContinue(), tok.Pos), nil
		}
	}

	if tok.Kind == lexer.IDENTIFIER {
		switch p.peekAt(1).Kind {
		case lexer.ASSIGN:
			p.advance()
			p.advance()
			value, err := p.expr()
			if err != nil {
				return nil, err
			}
			return ast.At(ast.NewReAssign(tok.Text, value), tok.Pos), nil
		case lexer.LBRACKET, lexer.DOT:
			stmt, ok, err := p.targetAssignment()
			if err != nil || ok {
				return stmt, err
			}
		}
	}

	return p.expr()
}

// letStatement parses `let name = expr` and the indexed / property forms
// `let name[i] = expr`, `let name.prop = expr`.
func (p *Parser) letStatement() (ast.Statement, error) {
	let := p.advance()
	name, err := p.needIdent()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.LBRACKET) || p.check(lexer.DOT) {
		p.reset(p.mark() - 1)
		stmt, ok, err := p.targetAssignment()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, p.expected("'='", p.peek())
		}
		return ast.At(stmt, let.Pos), nil
	}
	if _, err := p.need(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewNewAssign(name.Text, value), let.Pos), nil
}

func (p *Parser) constStatement() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.needIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewAssignConstant(name.Text, value), kw.Pos), nil
}

// targetAssignment tries `name[index] = value` or `name.prop = value` at the
// cursor. When no '=' follows the target, the cursor is restored and ok is
// false so the caller can parse an expression instead.
func (p *Parser) targetAssignment() (stmt ast.Statement, ok bool, err error) {
	start := p.mark()
	name := p.advance()

	switch {
	case p.match(lexer.LBRACKET):
		p.skipNewlines()
		index, err := p.expr()
		if err != nil {
			p.reset(start)
			return nil, false, nil
		}
		p.skipNewlines()
		if !p.match(lexer.RBRACKET) || !p.match(lexer.ASSIGN) {
			p.reset(start)
			return nil, false, nil
		}
		value, err := p.expr()
		if err != nil {
			return nil, false, err
		}
		return ast.At(ast.NewAssignIndex(name.Text, index, value), name.Pos), true, nil

	case p.match(lexer.DOT):
		prop := p.peek()
		if prop.Kind != lexer.IDENTIFIER || p.peekAt(1).Kind != lexer.ASSIGN {
			p.reset(start)
			return nil, false, nil
		}
		p.advance()
		p.advance()
		value, err := p.expr()
		if err != nil {
			return nil, false, err
		}
		return ast.At(ast.NewAssignProperty(name.Text, prop.Text, value), name.Pos), true, nil
	}

	p.reset(start)
	return nil, false, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	kw := p.advance()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	ifNode := ast.At(ast.NewIf(cond, body), kw.Pos)

	var elseIfs []*ast.ElseIf
	var elseNode *ast.Else
	for p.elseFollows() {
		elseTok := p.advance()
		if elseNode != nil {
			return nil, p.errorf(elseTok, "'else' after final 'else' branch")
		}
		if p.matchKeyword(lexer.IF) {
			cond, err := p.expr()
			if err != nil {
				return nil, err
			}
			body, err := p.block()
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, ast.At(ast.NewElseIf(cond, body), elseTok.Pos))
			continue
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		elseNode = ast.At(ast.NewElse(body), elseTok.Pos)
	}
	return ast.At(ast.NewConditionalStatement(ifNode, elseIfs, elseNode), kw.Pos), nil
}

// elseFollows reports whether the next non-newline token is `else`, and if
// so moves the cursor onto it.
func (p *Parser) elseFollows() bool {
	m := p.mark()
	p.skipNewlines()
	if p.checkKeyword(lexer.ELSE) {
		return true
	}
	p.reset(m)
	return false
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	kw := p.advance()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewWhile(cond, body), kw.Pos), nil
}

func (p *Parser) forStatement() (ast.Statement, error) {
	kw := p.advance()
	p.matchKeyword(lexer.LET)
	name, err := p.needIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.needKeyword(lexer.IN); err != nil {
		return nil, err
	}
	iterable, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewFor(name.Text, iterable, body), kw.Pos), nil
}

func (p *Parser) functionDefinition() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.needIdent()
	if err != nil {
		return nil, err
	}
	var params []string
	if p.check(lexer.LPAREN) {
		if params, err = p.parameters(); err != nil {
			return nil, err
		}
	}
	body, err := p.functionBody()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewFunctionDef(name.Text, params, body), kw.Pos), nil
}

// parameters parses `(a, b, c)`.
func (p *Parser) parameters() ([]string, error) {
	if _, err := p.need(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	p.skipNewlines()
	if p.match(lexer.RPAREN) {
		return params, nil
	}
	for {
		p.skipNewlines()
		name, err := p.needIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, name.Text)
		p.skipNewlines()
		if p.match(lexer.COMMA) {
			continue
		}
		if _, err := p.need(lexer.RPAREN); err != nil {
			return nil, err
		}
		return params, nil
	}
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	kw := p.advance()
	if p.fnDepth == 0 {
		return nil, p.errorf(kw, "'return' outside function")
	}
	if p.check(lexer.NEWLINE) || p.check(lexer.RBRACE) || p.check(lexer.EOF) {
		return ast.At(ast.NewReturn(ast.At(ast.NewNoOp(), kw.Pos)), kw.Pos), nil
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewReturn(value), kw.Pos), nil
}
