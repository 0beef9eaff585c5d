package unravel

import (
	"fmt"
	"sort"

	"sb3c-go/packages/compiler/src/graph"
	"sb3c-go/packages/compiler/src/ir"
)

// Typed literal codes that name an entity instead of carrying a value.
const (
	primitiveVariable = 12
	primitiveList     = 13
)

type reporterKind int

const (
	reporterBinary reporterKind = iota
	reporterComparison
	reporterLogical
	reporterNot
	reporterVariable
	reporterListItem
	reporterListLength
)

// reporterSpec describes how one reporter opcode maps onto an expression
// variant and which inputs carry its operands.
type reporterSpec struct {
	kind        reporterKind
	binary      ir.BinaryOperator
	comparison  ir.ComparisonOperator
	logical     ir.LogicalOperator
	left, right string
}

var reporters = map[string]reporterSpec{
	"operator_add":      {kind: reporterBinary, binary: ir.BinaryOperatorAdd, left: "NUM1", right: "NUM2"},
	"operator_subtract": {kind: reporterBinary, binary: ir.BinaryOperatorSubtract, left: "NUM1", right: "NUM2"},
	"operator_multiply": {kind: reporterBinary, binary: ir.BinaryOperatorMultiply, left: "NUM1", right: "NUM2"},
	"operator_divide":   {kind: reporterBinary, binary: ir.BinaryOperatorDivide, left: "NUM1", right: "NUM2"},
	"operator_mod":      {kind: reporterBinary, binary: ir.BinaryOperatorMod, left: "NUM1", right: "NUM2"},
	"operator_join":     {kind: reporterBinary, binary: ir.BinaryOperatorJoin, left: "STRING1", right: "STRING2"},
	"operator_equals":   {kind: reporterComparison, comparison: ir.ComparisonEquals, left: "OPERAND1", right: "OPERAND2"},
	"operator_gt":       {kind: reporterComparison, comparison: ir.ComparisonGreater, left: "OPERAND1", right: "OPERAND2"},
	"operator_lt":       {kind: reporterComparison, comparison: ir.ComparisonLess, left: "OPERAND1", right: "OPERAND2"},
	"operator_and":      {kind: reporterLogical, logical: ir.LogicalAnd, left: "OPERAND1", right: "OPERAND2"},
	"operator_or":       {kind: reporterLogical, logical: ir.LogicalOr, left: "OPERAND1", right: "OPERAND2"},
	"operator_not":      {kind: reporterNot, left: "OPERAND"},
	"data_variable":     {kind: reporterVariable},
	"data_itemoflist":   {kind: reporterListItem, left: "INDEX"},
	"data_lengthoflist": {kind: reporterListLength},
}

// ReporterOpcodes returns every reporter opcode with a dedicated expression
// variant, sorted.
func ReporterOpcodes() []string {
	out := make([]string, 0, len(reporters))
	for opcode := range reporters {
		out = append(out, opcode)
	}
	sort.Strings(out)
	return out
}

// ExpressionBuilder turns input tuples into expression trees, evaluating
// referenced reporter nodes recursively. It never fails: unrecognised shapes
// become literals and unrecognised reporters become ir.OperationExpr.
type ExpressionBuilder struct {
	graph *graph.Graph
	// active holds the reporters currently being evaluated, so a reporter that
	// reaches itself through its inputs stops there.
	active map[string]bool
}

// NewExpressionBuilder creates a builder resolving node references against g.
func NewExpressionBuilder(g *graph.Graph) *ExpressionBuilder {
	return &ExpressionBuilder{graph: g, active: make(map[string]bool)}
}

// BuildInput builds the named input of node. An absent input is the empty
// string.
func (b *ExpressionBuilder) BuildInput(node *graph.Node, name string) ir.Expression {
	in, ok := node.Input(name)
	if !ok {
		return ir.NewStringLiteral("")
	}
	return b.Build(in)
}

// Build converts one input tuple.
func (b *ExpressionBuilder) Build(in graph.Input) ir.Expression {
	switch in.Kind {
	case graph.InputLiteral:
		return literalFromPayload(in.Payload)
	case graph.InputReference:
		if id, ok := in.RefID(); ok {
			return &ir.VariableRef{ID: id}
		}
		return literalFromValue(in.Raw)
	case graph.InputNode:
		if id, ok := in.RefID(); ok {
			if node, exists := b.graph.Get(id); exists {
				return b.evaluate(id, node)
			}
		}
		return literalFromPayload(in.Payload)
	default:
		return literalFromValue(in.Raw)
	}
}

// BuildInputs resolves every input of node except those named in skip.
func (b *ExpressionBuilder) BuildInputs(node *graph.Node, skip map[string]bool) map[string]ir.Expression {
	out := make(map[string]ir.Expression, len(node.Inputs))
	for name, in := range node.Inputs {
		if skip[name] {
			continue
		}
		out[name] = b.Build(in)
	}
	return out
}

// evaluate resolves a reporter node into an expression.
func (b *ExpressionBuilder) evaluate(id string, node *graph.Node) ir.Expression {
	if b.active[id] {
		return ir.NewStringLiteral(id)
	}
	b.active[id] = true
	defer delete(b.active, id)

	spec, ok := reporters[node.Opcode]
	if !ok {
		return b.operation(node)
	}

	switch spec.kind {
	case reporterBinary:
		return &ir.BinaryOp{
			Operator: spec.binary,
			Left:     b.BuildInput(node, spec.left),
			Right:    b.BuildInput(node, spec.right),
		}
	case reporterComparison:
		return &ir.Comparison{
			Operator: spec.comparison,
			Left:     b.BuildInput(node, spec.left),
			Right:    b.BuildInput(node, spec.right),
		}
	case reporterLogical:
		return &ir.LogicalOp{
			Operator: spec.logical,
			Left:     b.BuildInput(node, spec.left),
			Right:    b.BuildInput(node, spec.right),
		}
	case reporterNot:
		return &ir.Not{Operand: b.BuildInput(node, spec.left)}
	case reporterVariable:
		field, ok := entityField(node, "VARIABLE")
		if !ok {
			return b.operation(node)
		}
		return &ir.VariableRef{ID: field.ID, Name: field.Value}
	case reporterListItem:
		field, ok := entityField(node, "LIST")
		if !ok {
			return b.operation(node)
		}
		return &ir.ListItem{ListID: field.ID, ListName: field.Value, Index: b.BuildInput(node, spec.left)}
	case reporterListLength:
		field, ok := entityField(node, "LIST")
		if !ok {
			return b.operation(node)
		}
		return &ir.ListLength{ListID: field.ID, ListName: field.Value}
	}
	return b.operation(node)
}

func (b *ExpressionBuilder) operation(node *graph.Node) ir.Expression {
	return &ir.OperationExpr{
		Opcode: node.Opcode,
		Inputs: b.BuildInputs(node, nil),
		Fields: node.Fields,
	}
}

// entityField returns a `[name, id]` field.
func entityField(node *graph.Node, name string) (graph.Field, bool) {
	field, ok := node.Field(name)
	if !ok || field.Malformed || !field.HasID {
		return graph.Field{}, false
	}
	return field, true
}

// literalFromPayload unwraps one level of typed literal array, `[code, value]`,
// before classifying. Variable and list primitives, `[12|13, name, id]`, are
// references rather than values.
func literalFromPayload(payload interface{}) ir.Expression {
	arr, ok := payload.([]interface{})
	if !ok {
		return literalFromValue(payload)
	}
	if len(arr) >= 3 {
		if code, ok := arr[0].(float64); ok && (code == primitiveVariable || code == primitiveList) {
			if id, ok := arr[2].(string); ok {
				return &ir.VariableRef{ID: id, Name: fmt.Sprint(arr[1])}
			}
		}
	}
	switch len(arr) {
	case 0:
		return ir.NewStringLiteral("")
	case 1:
		return literalFromValue(arr[0])
	default:
		return literalFromValue(arr[1])
	}
}

// literalFromValue classifies a decoded JSON value by its runtime kind.
func literalFromValue(v interface{}) ir.Expression {
	switch val := v.(type) {
	case float64:
		return ir.NewNumberLiteral(val)
	case int:
		return ir.NewNumberLiteral(float64(val))
	case bool:
		return ir.NewBooleanLiteral(val)
	case string:
		return ir.NewStringLiteral(val)
	case nil:
		return ir.NewStringLiteral("")
	default:
		return ir.NewStringLiteral(fmt.Sprint(val))
	}
}
