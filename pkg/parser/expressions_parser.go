package parser

import (
	"github.com/arjpeg/helix/pkg/ast"
	"github.com/arjpeg/helix/pkg/lexer"
)

var compareOperators = map[lexer.Kind]ast.CompareOperator{
	lexer.EQ:     ast.CmpEq,
	lexer.NOT_EQ: ast.CmpNotEq,
	lexer.LT:     ast.CmpLt,
	lexer.GT:     ast.CmpGt,
	lexer.LTE:    ast.CmpLte,
	lexer.GTE:    ast.CmpGte,
}

var (
	additiveOperators       = map[lexer.Kind]ast.BinaryOperator{lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub}
	multiplicativeOperators = map[lexer.Kind]ast.BinaryOperator{lexer.MUL: ast.OpMul, lexer.DIV: ast.OpDiv}
	powerOperators          = map[lexer.Kind]ast.BinaryOperator{lexer.POW: ast.OpPow}
)

// expr := func-expr | compare ((AND|OR) compare)*
func (p *Parser) expr() (ast.Expression, error) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()
	if p.functionExprAhead() {
		return p.functionExpr()
	}
	left, err := p.compare()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.Is(lexer.AND):
			p.advance()
			right, err := p.compare()
			if err != nil {
				return nil, err
			}
			left = ast.At(ast.NewAnd(left, right), tok.Pos)
		case tok.Is(lexer.OR):
			p.advance()
			right, err := p.compare()
			if err != nil {
				return nil, err
			}
			left = ast.At(ast.NewOr(left, right), tok.Pos)
		default:
			return left, nil
		}
	}
}

// functionExprAhead looks for `( [ident {, ident}] ) ->` without moving the
// cursor.
func (p *Parser) functionExprAhead() bool {
	if !p.check(lexer.LPAREN) {
		return false
	}
	i := 1
	if p.peekAt(i).Kind != lexer.RPAREN {
		for {
			if p.peekAt(i).Kind != lexer.IDENTIFIER {
				return false
			}
			i++
			if p.peekAt(i).Kind != lexer.COMMA {
				break
			}
			i++
		}
		if p.peekAt(i).Kind != lexer.RPAREN {
			return false
		}
	}
	return p.peekAt(i+1).Kind == lexer.ARROW
}

func (p *Parser) functionExpr() (ast.Expression, error) {
	start := p.peek()
	params, err := p.parameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(lexer.ARROW); err != nil {
		return nil, err
	}
	if p.check(lexer.LBRACE) {
		body, err := p.functionBody()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewFunctionExpr(params, body, false), start.Pos), nil
	}

	p.fnDepth++
	savedLoop := p.loopDepth
	p.loopDepth = 0
	value, err := p.expr()
	p.fnDepth--
	p.loopDepth = savedLoop
	if err != nil {
		return nil, err
	}
	ret := ast.At(ast.NewReturn(value), value.Pos())
	body := ast.At(ast.NewBlock([]ast.Statement{ret}), value.Pos())
	return ast.At(ast.NewFunctionExpr(params, body, true), start.Pos), nil
}

// compare := NOT compare | arith (IN arith)? | arith (cmp-op arith)*
func (p *Parser) compare() (ast.Expression, error) {
	if tok := p.peek(); tok.Is(lexer.NOT) {
		if err := p.nest(); err != nil {
			return nil, err
		}
		defer p.unnest()
		p.advance()
		operand, err := p.compare()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewUnaryOp(ast.UnaryNot, operand), tok.Pos), nil
	}

	left, err := p.arith()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Is(lexer.IN) {
		p.advance()
		right, err := p.arith()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewIn(left, right), tok.Pos), nil
	}
	for {
		tok := p.peek()
		op, ok := compareOperators[tok.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.arith()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewCompare(op, left, right), tok.Pos)
	}
}

// arith := term ((PLUS|MINUS) term)*
func (p *Parser) arith() (ast.Expression, error) {
	return p.binary(p.term, additiveOperators)
}

// term := factor ((MUL|DIV) factor)*
func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, multiplicativeOperators)
}

// factor := (PLUS|MINUS) factor | power
func (p *Parser) factor() (ast.Expression, error) {
	tok := p.peek()
	var op ast.UnaryOperator
	switch tok.Kind {
	case lexer.PLUS:
		op = ast.UnaryPlus
	case lexer.MINUS:
		op = ast.UnaryNegate
	default:
		return p.power()
	}
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()
	p.advance()
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewUnaryOp(op, operand), tok.Pos), nil
}

// power := atom (POW atom)*, folded left.
func (p *Parser) power() (ast.Expression, error) {
	return p.binary(p.atom, powerOperators)
}

func (p *Parser) binary(next func() (ast.Expression, error), ops map[lexer.Kind]ast.BinaryOperator) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		op, ok := ops[tok.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinOp(op, left, right), tok.Pos)
	}
}

func (p *Parser) atom() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.INT:
		p.advance()
		return ast.At(ast.NewIntLiteral(tok.Int), tok.Pos), nil
	case lexer.FLOAT:
		p.advance()
		return ast.At(ast.NewFloatLiteral(tok.Float), tok.Pos), nil
	case lexer.STRING:
		p.advance()
		return ast.At(ast.NewStringLiteral(tok.Text), tok.Pos), nil
	case lexer.LBRACKET:
		return p.listLiteral()
	case lexer.LBRACE:
		return p.dictLiteral()
	case lexer.LPAREN:
		return p.parenthesized()
	case lexer.IDENTIFIER:
		return p.identifierExpr()
	}
	return nil, p.expected("expression", tok)
}

func (p *Parser) listLiteral() (ast.Expression, error) {
	open := p.advance()
	elems, err := p.expressionList(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewListLiteral(elems), open.Pos), nil
}

// dictLiteral parses `{key: value, ...}` where each key is an identifier or
// a string.
func (p *Parser) dictLiteral() (ast.Expression, error) {
	open := p.advance()
	var entries []ast.DictEntry
	for {
		p.skipNewlines()
		if p.match(lexer.RBRACE) {
			break
		}
		key := p.peek()
		if key.Kind != lexer.IDENTIFIER && key.Kind != lexer.STRING {
			return nil, p.expected("dict key", key)
		}
		p.advance()
		if _, err := p.need(lexer.COLON); err != nil {
			return nil, err
		}
		p.skipNewlines()
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: key.Text, Value: value})
		p.skipNewlines()
		if p.match(lexer.COMMA) {
			continue
		}
		if _, err := p.need(lexer.RBRACE); err != nil {
			return nil, err
		}
		break
	}
	return ast.At(ast.NewDictLiteral(entries), open.Pos), nil
}

// parenthesized parses `()`, `(e)`, `(e,)` and `(a, b, ...)`.
func (p *Parser) parenthesized() (ast.Expression, error) {
	open := p.advance()
	p.skipNewlines()
	if p.match(lexer.RPAREN) {
		return ast.At(ast.NewTupleLiteral(nil), open.Pos), nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.match(lexer.COMMA) {
		if _, err := p.need(lexer.RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	}
	rest, err := p.expressionList(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	elems := append([]ast.Expression{first}, rest...)
	return ast.At(ast.NewTupleLiteral(elems), open.Pos), nil
}

// expressionList parses comma-separated expressions up to and including
// the closing token. A trailing comma is allowed.
func (p *Parser) expressionList(closing lexer.Kind) ([]ast.Expression, error) {
	var items []ast.Expression
	for {
		p.skipNewlines()
		if p.match(closing) {
			return items, nil
		}
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipNewlines()
		if p.match(lexer.COMMA) {
			continue
		}
		if _, err := p.need(closing); err != nil {
			return nil, err
		}
		return items, nil
	}
}

func (p *Parser) arguments() ([]ast.Expression, error) {
	if _, err := p.need(lexer.LPAREN); err != nil {
		return nil, err
	}
	return p.expressionList(lexer.RPAREN)
}

// identifierExpr parses a variable, call, index chain or property chain.
func (p *Parser) identifierExpr() (ast.Expression, error) {
	name := p.advance()
	switch p.peek().Kind {
	case lexer.LPAREN:
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewFunctionInvocation(name.Text, args), name.Pos), nil

	case lexer.LBRACKET:
		var target ast.Expression = ast.At(ast.NewVariable(name.Text), name.Pos)
		for p.check(lexer.LBRACKET) {
			open := p.advance()
			p.skipNewlines()
			index, err := p.expr()
			if err != nil {
				return nil, err
			}
			p.skipNewlines()
			if _, err := p.need(lexer.RBRACKET); err != nil {
				return nil, err
			}
			target = ast.At(ast.NewIndexing(target, index), open.Pos)
		}
		return target, nil

	case lexer.DOT:
		var lookups []ast.PropertyLookup
		for p.match(lexer.DOT) {
			prop, err := p.needIdent()
			if err != nil {
				return nil, err
			}
			if p.check(lexer.LPAREN) {
				args, err := p.arguments()
				if err != nil {
					return nil, err
				}
				lookups = append(lookups, ast.At(ast.NewPropertyCall(prop.Text, args), prop.Pos))
				continue
			}
			lookups = append(lookups, ast.At(ast.NewPropertyName(prop.Text), prop.Pos))
		}
		return ast.At(ast.NewPropertyAccess(name.Text, lookups), name.Pos), nil
	}
	return ast.At(ast.NewVariable(name.Text), name.Pos), nil
}
