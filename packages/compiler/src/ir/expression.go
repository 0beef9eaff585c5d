// Package ir defines the structured instruction tree produced by control-flow
// reconstruction: expressions, instructions and units.
package ir

import (
	"sb3c-go/packages/compiler/src/graph"
)

// Expression is a closed set of value-producing nodes. Expressions are
// immutable once built.
type Expression interface {
	// Kind names the variant.
	Kind() string
	isExpression()
}

// LiteralKind is the runtime kind of a literal value.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
)

// String returns the name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// Literal is an inline value. Value holds a string, float64 or bool matching
// Kind.
type Literal struct {
	Value interface{}
	Type  LiteralKind
}

// NewStringLiteral creates a string literal.
func NewStringLiteral(s string) *Literal {
	return &Literal{Value: s, Type: LiteralString}
}

// NewNumberLiteral creates a number literal.
func NewNumberLiteral(f float64) *Literal {
	return &Literal{Value: f, Type: LiteralNumber}
}

// NewBooleanLiteral creates a boolean literal.
func NewBooleanLiteral(b bool) *Literal {
	return &Literal{Value: b, Type: LiteralBoolean}
}

func (*Literal) Kind() string  { return "literal" }
func (*Literal) isExpression() {}

// VariableRef reads a variable. Name is the display name when the reference
// site knows it, and is used as the naming hint.
type VariableRef struct {
	ID   string
	Name string
}

func (*VariableRef) Kind() string  { return "variable" }
func (*VariableRef) isExpression() {}

// BinaryOperator is an arithmetic or string operator.
type BinaryOperator int

const (
	BinaryOperatorAdd BinaryOperator = iota
	BinaryOperatorSubtract
	BinaryOperatorMultiply
	BinaryOperatorDivide
	BinaryOperatorMod
	BinaryOperatorJoin
)

var binaryOperatorNames = map[BinaryOperator]string{
	BinaryOperatorAdd:      "add",
	BinaryOperatorSubtract: "subtract",
	BinaryOperatorMultiply: "multiply",
	BinaryOperatorDivide:   "divide",
	BinaryOperatorMod:      "mod",
	BinaryOperatorJoin:     "join",
}

func (op BinaryOperator) String() string {
	if name, ok := binaryOperatorNames[op]; ok {
		return name
	}
	return "unknown"
}

// BinaryOp applies an arithmetic or join operator.
type BinaryOp struct {
	Operator    BinaryOperator
	Left, Right Expression
}

func (*BinaryOp) Kind() string  { return "binary" }
func (*BinaryOp) isExpression() {}

// ComparisonOperator compares two values.
type ComparisonOperator int

const (
	ComparisonEquals ComparisonOperator = iota
	ComparisonGreater
	ComparisonLess
)

func (op ComparisonOperator) String() string {
	switch op {
	case ComparisonEquals:
		return "equals"
	case ComparisonGreater:
		return "gt"
	case ComparisonLess:
		return "lt"
	default:
		return "unknown"
	}
}

// Comparison compares two operands.
type Comparison struct {
	Operator    ComparisonOperator
	Left, Right Expression
}

func (*Comparison) Kind() string  { return "comparison" }
func (*Comparison) isExpression() {}

// LogicalOperator combines two booleans.
type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

func (op LogicalOperator) String() string {
	switch op {
	case LogicalAnd:
		return "and"
	case LogicalOr:
		return "or"
	default:
		return "unknown"
	}
}

// LogicalOp combines two boolean operands.
type LogicalOp struct {
	Operator    LogicalOperator
	Left, Right Expression
}

func (*LogicalOp) Kind() string  { return "logical" }
func (*LogicalOp) isExpression() {}

// Not negates its operand.
type Not struct {
	Operand Expression
}

func (*Not) Kind() string  { return "not" }
func (*Not) isExpression() {}

// ListItem reads the item at a 1-based index of a list.
type ListItem struct {
	ListID   string
	ListName string
	Index    Expression
}

func (*ListItem) Kind() string  { return "list_item" }
func (*ListItem) isExpression() {}

// ListLength reads the length of a list.
type ListLength struct {
	ListID   string
	ListName string
}

func (*ListLength) Kind() string  { return "list_length" }
func (*ListLength) isExpression() {}

// OperationExpr is a reporter with no dedicated variant. Its inputs are
// resolved so the tree is complete; rendering rejects it.
type OperationExpr struct {
	Opcode string
	Inputs map[string]Expression
	Fields map[string]graph.Field
}

func (*OperationExpr) Kind() string  { return "operation" }
func (*OperationExpr) isExpression() {}
