package output

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"sb3c-go/packages/compiler/src/ir"
	"sb3c-go/packages/compiler/src/naming"
	"sb3c-go/packages/compiler/src/util"
)

// Opcodes of plain instructions the emitter knows how to render.
const (
	OpcodeSetVariable    = "data_setvariableto"
	OpcodeChangeVariable = "data_changevariableby"
	OpcodeAddToList      = "data_addtolist"
	OpcodeDeleteAllList  = "data_deletealloflist"
	OpcodeWhenFlag       = "event_whenflagclicked"
)

var singleQuoteEscapeStringRe = regexp.MustCompile(`'|\\|\n|\r|\x{2028}|\x{2029}`)

var binaryOperators = map[ir.BinaryOperator]string{
	ir.BinaryOperatorAdd:      "+",
	ir.BinaryOperatorSubtract: "-",
	ir.BinaryOperatorMultiply: "*",
	ir.BinaryOperatorDivide:   "/",
	ir.BinaryOperatorMod:      "%",
}

var comparisonOperators = map[ir.ComparisonOperator]string{
	ir.ComparisonEquals:  "==",
	ir.ComparisonGreater: ">",
	ir.ComparisonLess:    "<",
}

var logicalOperators = map[ir.LogicalOperator]string{
	ir.LogicalAnd: "&&",
	ir.LogicalOr:  "||",
}

// JsEmitter renders expressions and instructions as JavaScript. Expression
// rendering is pure; instruction rendering writes to an Emitter.
type JsEmitter struct {
	names *naming.Registry
	// bareCondition is rendered without its outer parentheses.
	bareCondition ir.Expression
	// loopDepth numbers the counters of nested counted loops.
	loopDepth int
}

// NewJsEmitter creates a renderer resolving names through names.
func NewJsEmitter(names *naming.Registry) *JsEmitter {
	return &JsEmitter{names: names}
}

// VisitExpression renders an expression as an inline fragment. Compound
// fragments are parenthesised so they can be embedded anywhere.
func (v *JsEmitter) VisitExpression(expr ir.Expression) (string, error) {
	parens := expr != v.bareCondition
	v.bareCondition = nil

	switch e := expr.(type) {
	case nil:
		return "", util.NewMissingRequiredValue("expression", "operand")
	case *ir.Literal:
		return EscapeLiteral(e.Value), nil
	case *ir.VariableRef:
		return v.names.Resolve(e.ID, e.Name), nil
	case *ir.ListLength:
		return v.names.Resolve(e.ListID, e.ListName) + ".length", nil
	case *ir.ListItem:
		index, err := v.VisitExpression(e.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s - 1]", v.names.Resolve(e.ListID, e.ListName), index), nil
	case *ir.BinaryOp:
		if e.Operator == ir.BinaryOperatorJoin {
			return v.join(e.Left, e.Right, parens)
		}
		op, ok := binaryOperators[e.Operator]
		if !ok {
			return "", util.NewUnsupportedOperation("operator", e.Operator.String())
		}
		return v.infix(op, e.Left, e.Right, parens)
	case *ir.Comparison:
		op, ok := comparisonOperators[e.Operator]
		if !ok {
			return "", util.NewUnsupportedOperation("operator", e.Operator.String())
		}
		return v.infix(op, e.Left, e.Right, parens)
	case *ir.LogicalOp:
		op, ok := logicalOperators[e.Operator]
		if !ok {
			return "", util.NewUnsupportedOperation("operator", e.Operator.String())
		}
		return v.infix(op, e.Left, e.Right, parens)
	case *ir.Not:
		operand, err := v.VisitExpression(e.Operand)
		if err != nil {
			return "", err
		}
		return "!" + operand, nil
	case *ir.OperationExpr:
		return "", util.NewUnsupportedOperation("expression", e.Opcode)
	default:
		return "", util.NewUnsupportedOperation("expression", expr.Kind())
	}
}

// infix renders `left op right`.
func (v *JsEmitter) infix(op string, left, right ir.Expression, parens bool) (string, error) {
	l, r, err := v.operands(left, right)
	if err != nil {
		return "", err
	}
	return wrap(l+" "+op+" "+r, parens), nil
}

// join renders string concatenation with both operands coerced to text.
func (v *JsEmitter) join(left, right ir.Expression, parens bool) (string, error) {
	l, r, err := v.operands(left, right)
	if err != nil {
		return "", err
	}
	return wrap("String("+l+") + String("+r+")", parens), nil
}

func (v *JsEmitter) operands(left, right ir.Expression) (string, string, error) {
	l, err := v.VisitExpression(left)
	if err != nil {
		return "", "", err
	}
	r, err := v.VisitExpression(right)
	if err != nil {
		return "", "", err
	}
	return l, r, nil
}

func wrap(fragment string, parens bool) string {
	if parens {
		return "(" + fragment + ")"
	}
	return fragment
}

// visitCondition renders a condition that already sits inside statement
// parentheses.
func (v *JsEmitter) visitCondition(expr ir.Expression) (string, error) {
	v.bareCondition = expr
	return v.VisitExpression(expr)
}

// VisitAllInstructions renders a sequence of instructions in order.
func (v *JsEmitter) VisitAllInstructions(instructions []ir.Instruction, ctx *Emitter) error {
	for _, instr := range instructions {
		if err := v.VisitInstruction(instr, ctx); err != nil {
			return err
		}
	}
	return nil
}

// VisitInstruction renders one instruction and its bodies. A stop of other
// scripts in the sprite or stage has no counterpart in the generated code and
// renders as a comment line.
func (v *JsEmitter) VisitInstruction(instr ir.Instruction, ctx *Emitter) error {
	switch n := instr.(type) {
	case *ir.Plain:
		return v.visitPlain(n, ctx)
	case *ir.Repeat:
		return v.visitRepeat(n, ctx)
	case *ir.RepeatUntil:
		cond, err := v.VisitExpression(n.Condition)
		if err != nil {
			return err
		}
		return v.visitBlock(fmt.Sprintf("while (!%s) {", cond), n.Body, ctx)
	case *ir.If:
		return v.visitIf(n, ctx)
	case *ir.Forever:
		return v.visitBlock("while (true) {", n.Body, ctx)
	case *ir.WaitUntil:
		cond, err := v.VisitExpression(n.Condition)
		if err != nil {
			return err
		}
		ctx.Printf("while (!%s) {}", cond)
		return nil
	case *ir.Stop:
		switch n.Option {
		case "other scripts in sprite", "other scripts in stage":
			ctx.Printf("// stop %s", n.Option)
		default:
			ctx.Println("return;")
		}
		return nil
	default:
		return util.NewUnsupportedOperation("instruction", instr.GetOrigin().Opcode)
	}
}

func (v *JsEmitter) visitBlock(header string, body []ir.Instruction, ctx *Emitter) error {
	ctx.Println(header)
	ctx.IncIndent()
	if err := v.VisitAllInstructions(body, ctx); err != nil {
		return err
	}
	ctx.DecIndent()
	ctx.Println("}")
	return nil
}

func (v *JsEmitter) visitRepeat(n *ir.Repeat, ctx *Emitter) error {
	times, err := v.VisitExpression(n.Times)
	if err != nil {
		return err
	}
	counter := fmt.Sprintf("i%d", v.loopDepth)
	v.loopDepth++
	defer func() { v.loopDepth-- }()
	return v.visitBlock(fmt.Sprintf("for (let %s = 0; %s < %s; %s++) {", counter, counter, times, counter), n.Body, ctx)
}

func (v *JsEmitter) visitIf(n *ir.If, ctx *Emitter) error {
	cond, err := v.visitCondition(n.Condition)
	if err != nil {
		return err
	}
	ctx.Printf("if (%s) {", cond)
	ctx.IncIndent()
	if err := v.VisitAllInstructions(n.Then, ctx); err != nil {
		return err
	}
	ctx.DecIndent()
	if n.HasElse {
		ctx.Println("} else {")
		ctx.IncIndent()
		if err := v.VisitAllInstructions(n.Else, ctx); err != nil {
			return err
		}
		ctx.DecIndent()
	}
	ctx.Println("}")
	return nil
}

func (v *JsEmitter) visitPlain(n *ir.Plain, ctx *Emitter) error {
	switch n.Opcode {
	case OpcodeWhenFlag:
		return nil
	case OpcodeSetVariable:
		name, err := v.entityName(n, "VARIABLE")
		if err != nil {
			return err
		}
		value, err := v.VisitExpression(inputOf(n, "VALUE", "VARIABLE"))
		if err != nil {
			return err
		}
		ctx.Printf("%s = %s;", name, value)
		return nil
	case OpcodeChangeVariable:
		name, err := v.entityName(n, "VARIABLE")
		if err != nil {
			return err
		}
		value, err := v.VisitExpression(inputOf(n, "VALUE"))
		if err != nil {
			return err
		}
		ctx.Printf("%s = Number(%s) + Number(%s);", name, name, value)
		return nil
	case OpcodeAddToList:
		name, err := v.entityName(n, "LIST")
		if err != nil {
			return err
		}
		item, err := v.VisitExpression(inputOf(n, "ITEM"))
		if err != nil {
			return err
		}
		ctx.Printf("%s.push(%s);", name, item)
		return nil
	case OpcodeDeleteAllList:
		name, err := v.entityName(n, "LIST")
		if err != nil {
			return err
		}
		ctx.Printf("%s.length = 0;", name)
		return nil
	default:
		return util.NewUnsupportedOperation("instruction", n.Opcode)
	}
}

// entityName resolves the `[name, id]` field of a plain instruction.
func (v *JsEmitter) entityName(n *ir.Plain, field string) (string, error) {
	f, ok := n.Fields[field]
	if !ok || f.Malformed || !f.HasID {
		return "", util.NewMissingRequiredValue(n.Opcode, "field "+field)
	}
	return v.names.Resolve(f.ID, f.Value), nil
}

// inputOf returns the first resolved input present among names, or the empty
// string literal.
func inputOf(n *ir.Plain, names ...string) ir.Expression {
	for _, name := range names {
		if e, ok := n.Inputs[name]; ok {
			return e
		}
	}
	return ir.NewStringLiteral("")
}

// EscapeLiteral renders a string, float64, bool or list value as a JavaScript
// literal.
func EscapeLiteral(value interface{}) string {
	switch val := value.(type) {
	case string:
		return EscapeString(val)
	case float64:
		return formatNumber(val)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "''"
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, EscapeLiteral(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return EscapeString(fmt.Sprint(val))
	}
}

// EscapeString quotes s with single quotes.
func EscapeString(s string) string {
	body := singleQuoteEscapeStringRe.ReplaceAllStringFunc(s, func(match string) string {
		switch match {
		case "\n":
			return "\\n"
		case "\r":
			return "\\r"
		case "\u2028":
			return `\u2028`
		case "\u2029":
			return `\u2029`
		default:
			return "\\" + match
		}
	})
	return "'" + body + "'"
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
