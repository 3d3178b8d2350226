package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Render prints node as Helix source. Compound expressions are fully
// parenthesized so that parsing the output yields an equivalent tree.
func Render(node Node) string {
	p := &printer{}
	switch n := node.(type) {
	case *Block:
		p.block(n)
		return strings.TrimSuffix(p.b.String(), "\n")
	case Expression:
		return expr(n)
	case Statement:
		p.statement(n)
		return strings.TrimSuffix(p.b.String(), "\n")
	case *If:
		return "if " + expr(n.Condition) + " " + renderBody(n.Body, 0)
	case *ElseIf:
		return "else if " + expr(n.Condition) + " " + renderBody(n.Body, 0)
	case *Else:
		return "else " + renderBody(n.Body, 0)
	case PropertyLookup:
		return lookup(n)
	case nil:
		return ""
	default:
		return fmt.Sprintf("<%s>", node.NodeType())
	}
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(text string) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	p.b.WriteString(text)
	p.b.WriteByte('\n')
}

func (p *printer) block(b *Block) {
	for _, stmt := range b.Statements {
		p.statement(stmt)
	}
}

func renderBody(b *Block, indent int) string {
	if b == nil || len(b.Statements) == 0 {
		return "{\n" + strings.Repeat("    ", indent) + "}"
	}
	inner := &printer{indent: indent + 1}
	inner.block(b)
	return "{\n" + inner.b.String() + strings.Repeat("    ", indent) + "}"
}

func (p *printer) statement(stmt Statement) {
	switch s := stmt.(type) {
	case *NewAssign:
		p.line("let " + s.Name + " = " + expr(s.Value))
	case *AssignConstant:
		p.line("const " + s.Name + " = " + expr(s.Value))
	case *ReAssign:
		p.line(s.Name + " = " + expr(s.Value))
	case *AssignIndex:
		p.line(s.Name + "[" + expr(s.Index) + "] = " + expr(s.Value))
	case *AssignProperty:
		p.line(s.Name + "." + s.Property + " = " + expr(s.Value))
	case *ConditionalStatement:
		text := "if " + expr(s.If.Condition) + " " + renderBody(s.If.Body, p.indent)
		for _, elif := range s.ElseIfs {
			text += " else if " + expr(elif.Condition) + " " + renderBody(elif.Body, p.indent)
		}
		if s.Else != nil {
			text += " else " + renderBody(s.Else.Body, p.indent)
		}
		p.line(text)
	case *For:
		p.line("for " + s.Variable + " in " + expr(s.Iterable) + " " + renderBody(s.Body, p.indent))
	case *While:
		p.line("while " + expr(s.Condition) + " " + renderBody(s.Body, p.indent))
	case *Continue:
		p.line("continue")
	case *Break:
		p.line("break")
	case *FunctionDef:
		p.line("fn " + s.Name + "(" + strings.Join(s.Params, ", ") + ") " + renderBody(s.Body, p.indent))
	case *Return:
		if _, ok := s.Value.(*NoOp); ok || s.Value == nil {
			p.line("return")
			return
		}
		p.line("return " + expr(s.Value))
	case *Block:
		p.line(renderBody(s, p.indent))
	case Expression:
		p.line(exprAt(s, p.indent))
	}
}

func expr(e Expression) string {
	return exprAt(e, 0)
}

func exprAt(e Expression, indent int) string {
	switch n := e.(type) {
	case nil, *NoOp:
		return ""
	case *NumberLiteral:
		if n.IsFloat {
			return FormatFloat(n.Float)
		}
		return strconv.FormatInt(n.Int, 10)
	case *StringLiteral:
		return QuoteString(n.Value)
	case *ListLiteral:
		return "[" + exprList(n.Elements) + "]"
	case *TupleLiteral:
		if len(n.Elements) == 1 {
			return "(" + expr(n.Elements[0]) + ",)"
		}
		return "(" + exprList(n.Elements) + ")"
	case *DictLiteral:
		parts := make([]string, len(n.Entries))
		for i, entry := range n.Entries {
			parts[i] = QuoteString(entry.Key) + ": " + expr(entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Variable:
		return n.Name
	case *Indexing:
		return expr(n.Target) + "[" + expr(n.Index) + "]"
	case *UnaryOp:
		if n.Operator == UnaryNot {
			return "(not " + operand(n.Operand) + ")"
		}
		return "(" + string(n.Operator) + operand(n.Operand) + ")"
	case *BinOp:
		return "(" + operand(n.Left) + " " + string(n.Operator) + " " + operand(n.Right) + ")"
	case *Compare:
		return "(" + operand(n.Left) + " " + string(n.Operator) + " " + operand(n.Right) + ")"
	case *In:
		return "(" + operand(n.Element) + " in " + operand(n.Container) + ")"
	case *And:
		return "(" + operand(n.Left) + " and " + operand(n.Right) + ")"
	case *Or:
		return "(" + operand(n.Left) + " or " + operand(n.Right) + ")"
	case *FunctionInvocation:
		return n.Name + "(" + exprList(n.Arguments) + ")"
	case *PropertyAccess:
		var b strings.Builder
		b.WriteString(n.Object)
		for _, l := range n.Lookups {
			b.WriteByte('.')
			b.WriteString(lookup(l))
		}
		return b.String()
	case *FunctionExpr:
		head := "(" + strings.Join(n.Params, ", ") + ") -> "
		if n.ExprBody && n.Body != nil && len(n.Body.Statements) == 1 {
			if ret, ok := n.Body.Statements[0].(*Return); ok {
				return head + expr(ret.Value)
			}
		}
		return head + renderBody(n.Body, indent)
	default:
		return fmt.Sprintf("<%s>", e.NodeType())
	}
}

// operand renders e for use inside a larger expression. Function
// expressions extend as far right as possible, so they are wrapped.
func operand(e Expression) string {
	if _, ok := e.(*FunctionExpr); ok {
		return "(" + expr(e) + ")"
	}
	return expr(e)
}

func exprList(items []Expression) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = expr(item)
	}
	return strings.Join(parts, ", ")
}

func lookup(l PropertyLookup) string {
	switch n := l.(type) {
	case *PropertyCall:
		return n.Name + "(" + exprList(n.Arguments) + ")"
	default:
		return l.LookupName()
	}
}

// FormatFloat prints f with at least one fractional digit.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// QuoteString wraps s in double quotes, or single quotes when s contains a
// double quote. Helix strings have no escapes.
func QuoteString(s string) string {
	if strings.Contains(s, `"`) && !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
