package ast

// Literal helpers.

func Int(value int64) *NumberLiteral {
	return NewIntLiteral(value)
}

func Flt(value float64) *NumberLiteral {
	return NewFloatLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Tuple(elements ...Expression) *TupleLiteral {
	return NewTupleLiteral(elements)
}

func Dict(entries ...DictEntry) *DictLiteral {
	return NewDictLiteral(entries)
}

func Entry(key string, value Expression) DictEntry {
	return DictEntry{Key: key, Value: value}
}

// Expression helpers.

func Var(name string) *Variable {
	return NewVariable(name)
}

func Index(target, index Expression) *Indexing {
	return NewIndexing(target, index)
}

func Un(operator UnaryOperator, operand Expression) *UnaryOp {
	return NewUnaryOp(operator, operand)
}

func Bin(operator BinaryOperator, left, right Expression) *BinOp {
	return NewBinOp(operator, left, right)
}

func Cmp(operator CompareOperator, left, right Expression) *Compare {
	return NewCompare(operator, left, right)
}

func Call(name string, args ...Expression) *FunctionInvocation {
	return NewFunctionInvocation(name, args)
}

func Prop(object string, lookups ...PropertyLookup) *PropertyAccess {
	return NewPropertyAccess(object, lookups)
}

func Field(name string) *PropertyName {
	return NewPropertyName(name)
}

func Method(name string, args ...Expression) *PropertyCall {
	return NewPropertyCall(name, args)
}

func Lambda(params []string, body Expression) *FunctionExpr {
	return NewFunctionExpr(params, Body(Ret(body)), true)
}

// Statement helpers.

func Body(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Let(name string, value Expression) *NewAssign {
	return NewNewAssign(name, value)
}

func Const(name string, value Expression) *AssignConstant {
	return NewAssignConstant(name, value)
}

func Set(name string, value Expression) *ReAssign {
	return NewReAssign(name, value)
}

func Ret(value Expression) *Return {
	return NewReturn(value)
}

func Fn(name string, params []string, body ...Statement) *FunctionDef {
	return NewFunctionDef(name, params, Body(body...))
}

func ForIn(variable string, iterable Expression, body ...Statement) *For {
	return NewFor(variable, iterable, Body(body...))
}

func Loop(condition Expression, body ...Statement) *While {
	return NewWhile(condition, Body(body...))
}
