package ast

import "github.com/arjpeg/helix/pkg/source"

type NodeType string

const (
	NodeNoOp                 NodeType = "NoOp"
	NodeNumberLiteral        NodeType = "NumberLiteral"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeListLiteral          NodeType = "ListLiteral"
	NodeDictLiteral          NodeType = "DictLiteral"
	NodeTupleLiteral         NodeType = "TupleLiteral"
	NodeIndexing             NodeType = "Indexing"
	NodeVariable             NodeType = "Variable"
	NodeUnaryOp              NodeType = "UnaryOp"
	NodeBinOp                NodeType = "BinOp"
	NodeCompare              NodeType = "Compare"
	NodeIn                   NodeType = "In"
	NodeAnd                  NodeType = "And"
	NodeOr                   NodeType = "Or"
	NodeNewAssign            NodeType = "NewAssign"
	NodeReAssign             NodeType = "ReAssign"
	NodeAssignConstant       NodeType = "AssignConstant"
	NodeAssignIndex          NodeType = "AssignIndex"
	NodeAssignProperty       NodeType = "AssignProperty"
	NodeIf                   NodeType = "If"
	NodeElseIf               NodeType = "ElseIf"
	NodeElse                 NodeType = "Else"
	NodeConditionalStatement NodeType = "ConditionalStatement"
	NodeFor                  NodeType = "For"
	NodeWhile                NodeType = "While"
	NodeContinue             NodeType = "Continue"
	NodeBreak                NodeType = "Break"
	NodeFunctionDef          NodeType = "FunctionDef"
	NodeFunctionExpr         NodeType = "FunctionExpr"
	NodeFunctionInvocation   NodeType = "FunctionInvocation"
	NodePropertyAccess       NodeType = "PropertyAccess"
	NodePropertyName         NodeType = "PropertyName"
	NodePropertyCall         NodeType = "PropertyCall"
	NodeReturn               NodeType = "Return"
	NodeBlock                NodeType = "Block"
)

type Node interface {
	NodeType() NodeType
	Pos() source.Position
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	pos  source.Position
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType          { return n.Type }
func (n nodeImpl) Pos() source.Position        { return n.pos }
func (nodeImpl) isNode()                       {}
func (n *nodeImpl) setPos(pos source.Position) { n.pos = pos }

type positioned interface {
	setPos(source.Position)
}

// At records pos as the source position of node and returns node.
func At[T Node](node T, pos source.Position) T {
	if p, ok := any(node).(positioned); ok {
		p.setPos(pos)
	}
	return node
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// PropertyLookup is one step of a PropertyAccess chain.
type PropertyLookup interface {
	Node
	propertyLookupNode()
	LookupName() string
}

type propertyLookupMarker struct{}

func (propertyLookupMarker) propertyLookupNode() {}

// NoOp stands for an absent value, e.g. the argument of a bare return.

type NoOp struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNoOp() *NoOp {
	return &NoOp{nodeImpl: newNodeImpl(NodeNoOp)}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	IsFloat bool    `json:"isFloat,omitempty"`
	Int     int64   `json:"int,omitempty"`
	Float   float64 `json:"float,omitempty"`
}

func NewIntLiteral(value int64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Int: value}
}

func NewFloatLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), IsFloat: true, Float: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type DictEntry struct {
	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

type DictLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Entries []DictEntry `json:"entries"`
}

func NewDictLiteral(entries []DictEntry) *DictLiteral {
	return &DictLiteral{nodeImpl: newNodeImpl(NodeDictLiteral), Entries: entries}
}

type TupleLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewTupleLiteral(elements []Expression) *TupleLiteral {
	return &TupleLiteral{nodeImpl: newNodeImpl(NodeTupleLiteral), Elements: elements}
}

// Expressions

type Variable struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

// Indexing is Target[Index]; Target is a Variable or another Indexing.
type Indexing struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target Expression `json:"target"`
	Index  Expression `json:"index"`
}

func NewIndexing(target, index Expression) *Indexing {
	return &Indexing{nodeImpl: newNodeImpl(NodeIndexing), Target: target, Index: index}
}

type UnaryOperator string

const (
	UnaryNegate UnaryOperator = "-"
	UnaryPlus   UnaryOperator = "+"
	UnaryNot    UnaryOperator = "not"
)

type UnaryOp struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryOp(operator UnaryOperator, operand Expression) *UnaryOp {
	return &UnaryOp{nodeImpl: newNodeImpl(NodeUnaryOp), Operator: operator, Operand: operand}
}

type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpPow BinaryOperator = "^"
)

type BinOp struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinOp(operator BinaryOperator, left, right Expression) *BinOp {
	return &BinOp{nodeImpl: newNodeImpl(NodeBinOp), Operator: operator, Left: left, Right: right}
}

type CompareOperator string

const (
	CmpEq    CompareOperator = "=="
	CmpNotEq CompareOperator = "!="
	CmpLt    CompareOperator = "<"
	CmpGt    CompareOperator = ">"
	CmpLte   CompareOperator = "<="
	CmpGte   CompareOperator = ">="
)

type Compare struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator CompareOperator `json:"operator"`
	Left     Expression      `json:"left"`
	Right    Expression      `json:"right"`
}

func NewCompare(operator CompareOperator, left, right Expression) *Compare {
	return &Compare{nodeImpl: newNodeImpl(NodeCompare), Operator: operator, Left: left, Right: right}
}

// In tests whether Element is contained in Container.
type In struct {
	nodeImpl
	expressionMarker
	statementMarker

	Element   Expression `json:"element"`
	Container Expression `json:"container"`
}

func NewIn(element, container Expression) *In {
	return &In{nodeImpl: newNodeImpl(NodeIn), Element: element, Container: container}
}

type And struct {
	nodeImpl
	expressionMarker
	statementMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewAnd(left, right Expression) *And {
	return &And{nodeImpl: newNodeImpl(NodeAnd), Left: left, Right: right}
}

type Or struct {
	nodeImpl
	expressionMarker
	statementMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewOr(left, right Expression) *Or {
	return &Or{nodeImpl: newNodeImpl(NodeOr), Left: left, Right: right}
}

// Assignment family

type NewAssign struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewNewAssign(name string, value Expression) *NewAssign {
	return &NewAssign{nodeImpl: newNodeImpl(NodeNewAssign), Name: name, Value: value}
}

type ReAssign struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewReAssign(name string, value Expression) *ReAssign {
	return &ReAssign{nodeImpl: newNodeImpl(NodeReAssign), Name: name, Value: value}
}

type AssignConstant struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignConstant(name string, value Expression) *AssignConstant {
	return &AssignConstant{nodeImpl: newNodeImpl(NodeAssignConstant), Name: name, Value: value}
}

type AssignIndex struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Index Expression `json:"index"`
	Value Expression `json:"value"`
}

func NewAssignIndex(name string, index, value Expression) *AssignIndex {
	return &AssignIndex{nodeImpl: newNodeImpl(NodeAssignIndex), Name: name, Index: index, Value: value}
}

type AssignProperty struct {
	nodeImpl
	statementMarker

	Name     string     `json:"name"`
	Property string     `json:"property"`
	Value    Expression `json:"value"`
}

func NewAssignProperty(name, property string, value Expression) *AssignProperty {
	return &AssignProperty{nodeImpl: newNodeImpl(NodeAssignProperty), Name: name, Property: property, Value: value}
}

// Conditionals

type If struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewIf(condition Expression, body *Block) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Body: body}
}

type ElseIf struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewElseIf(condition Expression, body *Block) *ElseIf {
	return &ElseIf{nodeImpl: newNodeImpl(NodeElseIf), Condition: condition, Body: body}
}

type Else struct {
	nodeImpl

	Body *Block `json:"body"`
}

func NewElse(body *Block) *Else {
	return &Else{nodeImpl: newNodeImpl(NodeElse), Body: body}
}

type ConditionalStatement struct {
	nodeImpl
	statementMarker

	If      *If       `json:"if"`
	ElseIfs []*ElseIf `json:"elseIfs,omitempty"`
	Else    *Else     `json:"else,omitempty"`
}

func NewConditionalStatement(ifNode *If, elseIfs []*ElseIf, elseNode *Else) *ConditionalStatement {
	return &ConditionalStatement{nodeImpl: newNodeImpl(NodeConditionalStatement), If: ifNode, ElseIfs: elseIfs, Else: elseNode}
}

// Loops

type For struct {
	nodeImpl
	statementMarker

	Variable string     `json:"variable"`
	Iterable Expression `json:"iterable"`
	Body     *Block     `json:"body"`
}

func NewFor(variable string, iterable Expression, body *Block) *For {
	return &For{nodeImpl: newNodeImpl(NodeFor), Variable: variable, Iterable: iterable, Body: body}
}

type While struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhile(condition Expression, body *Block) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

type Continue struct {
	nodeImpl
	statementMarker
}

func NewContinue() *Continue {
	return &Continue{nodeImpl: newNodeImpl(NodeContinue)}
}

type Break struct {
	nodeImpl
	statementMarker
}

func NewBreak() *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak)}
}

// Functions

type FunctionDef struct {
	nodeImpl
	statementMarker

	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   *Block   `json:"body"`
}

func NewFunctionDef(name string, params []string, body *Block) *FunctionDef {
	return &FunctionDef{nodeImpl: newNodeImpl(NodeFunctionDef), Name: name, Params: params, Body: body}
}

// FunctionExpr is an anonymous function. An expression body `(x) -> x + 1`
// is stored as a block holding a single Return with ExprBody set.
type FunctionExpr struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params   []string `json:"params"`
	Body     *Block   `json:"body"`
	ExprBody bool     `json:"exprBody,omitempty"`
}

func NewFunctionExpr(params []string, body *Block, exprBody bool) *FunctionExpr {
	return &FunctionExpr{nodeImpl: newNodeImpl(NodeFunctionExpr), Params: params, Body: body, ExprBody: exprBody}
}

type FunctionInvocation struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionInvocation(name string, args []Expression) *FunctionInvocation {
	return &FunctionInvocation{nodeImpl: newNodeImpl(NodeFunctionInvocation), Name: name, Arguments: args}
}

// PropertyAccess is `object.a.b(...)`: the named base value followed by an
// ordered chain of lookups.
type PropertyAccess struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object  string           `json:"object"`
	Lookups []PropertyLookup `json:"lookups"`
}

func NewPropertyAccess(object string, lookups []PropertyLookup) *PropertyAccess {
	return &PropertyAccess{nodeImpl: newNodeImpl(NodePropertyAccess), Object: object, Lookups: lookups}
}

type PropertyName struct {
	nodeImpl
	propertyLookupMarker

	Name string `json:"name"`
}

func NewPropertyName(name string) *PropertyName {
	return &PropertyName{nodeImpl: newNodeImpl(NodePropertyName), Name: name}
}

func (p *PropertyName) LookupName() string { return p.Name }

type PropertyCall struct {
	nodeImpl
	propertyLookupMarker

	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewPropertyCall(name string, args []Expression) *PropertyCall {
	return &PropertyCall{nodeImpl: newNodeImpl(NodePropertyCall), Name: name, Arguments: args}
}

func (p *PropertyCall) LookupName() string { return p.Name }

type Return struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewReturn(value Expression) *Return {
	if value == nil {
		value = NewNoOp()
	}
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

type Block struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlock(statements []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Statements: statements}
}
