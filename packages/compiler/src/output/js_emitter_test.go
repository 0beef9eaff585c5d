package output

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sb3c-go/packages/compiler/src/graph"
	"sb3c-go/packages/compiler/src/ir"
	"sb3c-go/packages/compiler/src/naming"
	"sb3c-go/packages/compiler/src/util"
)

func newTestEmitter() *JsEmitter {
	return NewJsEmitter(naming.NewRegistry(""))
}

func render(t *testing.T, v *JsEmitter, instructions ...ir.Instruction) string {
	t.Helper()
	ctx := NewEmitter()
	if err := v.VisitAllInstructions(instructions, ctx); err != nil {
		t.Fatalf("VisitAllInstructions failed: %v", err)
	}
	return ctx.ToSource()
}

func origin(id, opcode string, inputs map[string]ir.Expression) ir.Origin {
	return ir.Origin{ID: id, Opcode: opcode, Inputs: inputs}
}

func addToList(id, item string) *ir.Plain {
	return &ir.Plain{
		Origin: origin(id, OpcodeAddToList, map[string]ir.Expression{"ITEM": ir.NewStringLiteral(item)}),
		Fields: map[string]graph.Field{"LIST": graph.NewField("myList", "list1")},
	}
}

func TestJsEmitter_VisitExpression(t *testing.T) {
	score := &ir.VariableRef{ID: "v1", Name: "score"}
	tests := []struct {
		name string
		expr ir.Expression
		want string
	}{
		{"string literal", ir.NewStringLiteral("it's"), `'it\'s'`},
		{"number literal", ir.NewNumberLiteral(2.5), "2.5"},
		{"boolean literal", ir.NewBooleanLiteral(false), "false"},
		{"variable", score, "b_0_score"},
		{"addition", &ir.BinaryOp{Operator: ir.BinaryOperatorAdd, Left: score, Right: ir.NewNumberLiteral(1)}, "(b_0_score + 1)"},
		{"modulo", &ir.BinaryOp{Operator: ir.BinaryOperatorMod, Left: ir.NewNumberLiteral(7), Right: ir.NewNumberLiteral(3)}, "(7 % 3)"},
		{"join", &ir.BinaryOp{Operator: ir.BinaryOperatorJoin, Left: ir.NewStringLiteral("a"), Right: ir.NewNumberLiteral(1)}, "(String('a') + String(1))"},
		{"modulo of text holding verbs", &ir.BinaryOp{Operator: ir.BinaryOperatorMod, Left: ir.NewStringLiteral("%s"), Right: ir.NewStringLiteral("%d")}, "('%s' % '%d')"},
		{"join of percent signs", &ir.BinaryOp{Operator: ir.BinaryOperatorJoin, Left: ir.NewStringLiteral("100%"), Right: ir.NewStringLiteral("%v")}, "(String('100%') + String('%v'))"},
		{"division", &ir.BinaryOp{Operator: ir.BinaryOperatorDivide, Left: ir.NewNumberLiteral(1), Right: ir.NewNumberLiteral(4)}, "(1 / 4)"},
		{"or of comparisons", &ir.LogicalOp{
			Operator: ir.LogicalOr,
			Left:     &ir.Comparison{Operator: ir.ComparisonGreater, Left: ir.NewNumberLiteral(2), Right: ir.NewNumberLiteral(1)},
			Right:    &ir.Comparison{Operator: ir.ComparisonEquals, Left: ir.NewStringLiteral("%"), Right: ir.NewStringLiteral("%")},
		}, "((2 > 1) || ('%' == '%'))"},
		{
			"nested arithmetic",
			&ir.BinaryOp{
				Operator: ir.BinaryOperatorMultiply,
				Left:     &ir.BinaryOp{Operator: ir.BinaryOperatorSubtract, Left: ir.NewNumberLiteral(4), Right: ir.NewNumberLiteral(1)},
				Right:    ir.NewNumberLiteral(2),
			},
			"((4 - 1) * 2)",
		},
		{"comparison", &ir.Comparison{Operator: ir.ComparisonLess, Left: score, Right: ir.NewNumberLiteral(3)}, "(b_0_score < 3)"},
		{
			"logical with not",
			&ir.LogicalOp{
				Operator: ir.LogicalAnd,
				Left:     &ir.Not{Operand: ir.NewBooleanLiteral(true)},
				Right:    &ir.Comparison{Operator: ir.ComparisonEquals, Left: ir.NewNumberLiteral(1), Right: ir.NewNumberLiteral(1)},
			},
			"(!true && (1 == 1))",
		},
		{"list length", &ir.ListLength{ListID: "l1", ListName: "things"}, "b_0_things.length"},
		{"list item", &ir.ListItem{ListID: "l1", ListName: "things", Index: ir.NewNumberLiteral(2)}, "b_0_things[2 - 1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestEmitter().VisitExpression(tt.expr)
			if err != nil {
				t.Fatalf("VisitExpression failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("VisitExpression() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("should reject nil operands", func(t *testing.T) {
		_, err := newTestEmitter().VisitExpression(&ir.Not{})
		if !errors.Is(err, util.ErrMissingRequiredValue) {
			t.Errorf("Expected missing value error, got %v", err)
		}
	})

	t.Run("should reject unknown reporters", func(t *testing.T) {
		_, err := newTestEmitter().VisitExpression(&ir.OperationExpr{Opcode: "sensing_answer"})
		if !errors.Is(err, util.ErrUnsupportedOperation) {
			t.Fatalf("Expected unsupported operation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "sensing_answer") {
			t.Errorf("Expected opcode in %q", err.Error())
		}
	})
}

func TestJsEmitter_SetVariable(t *testing.T) {
	instr := &ir.Plain{
		Origin: origin("s", OpcodeSetVariable, map[string]ir.Expression{"VARIABLE": ir.NewNumberLiteral(5)}),
		Fields: map[string]graph.Field{"VARIABLE": graph.NewField("score", "v1")},
	}
	if got := render(t, newTestEmitter(), instr); got != "b_0_score = 5;" {
		t.Errorf("got %q", got)
	}

	t.Run("should prefer the VALUE input", func(t *testing.T) {
		instr := &ir.Plain{
			Origin: origin("s", OpcodeSetVariable, map[string]ir.Expression{
				"VALUE":    ir.NewStringLiteral("x"),
				"VARIABLE": ir.NewNumberLiteral(5),
			}),
			Fields: map[string]graph.Field{"VARIABLE": graph.NewField("score", "v1")},
		}
		if got := render(t, newTestEmitter(), instr); got != "b_0_score = 'x';" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("should default a missing value to the empty string", func(t *testing.T) {
		instr := &ir.Plain{
			Origin: origin("s", OpcodeSetVariable, nil),
			Fields: map[string]graph.Field{"VARIABLE": graph.NewField("score", "v1")},
		}
		if got := render(t, newTestEmitter(), instr); got != "b_0_score = '';" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("should fail without a variable field", func(t *testing.T) {
		instr := &ir.Plain{Origin: origin("s", OpcodeSetVariable, nil)}
		err := newTestEmitter().VisitInstruction(instr, NewEmitter())
		if !errors.Is(err, util.ErrMissingRequiredValue) {
			t.Fatalf("Expected missing value error, got %v", err)
		}
		if !strings.Contains(err.Error(), "field VARIABLE") {
			t.Errorf("Expected field name in %q", err.Error())
		}
	})
}

func TestJsEmitter_PlainInstructions(t *testing.T) {
	change := &ir.Plain{
		Origin: origin("c", OpcodeChangeVariable, map[string]ir.Expression{"VALUE": ir.NewNumberLiteral(1)}),
		Fields: map[string]graph.Field{"VARIABLE": graph.NewField("score", "v1")},
	}
	deleteAll := &ir.Plain{
		Origin: origin("d", OpcodeDeleteAllList, nil),
		Fields: map[string]graph.Field{"LIST": graph.NewField("myList", "list1")},
	}
	flag := &ir.Plain{Origin: origin("f", OpcodeWhenFlag, nil)}

	want := strings.Join([]string{
		"b_0_score = Number(b_0_score) + Number(1);",
		"b_1_myList.push('hi');",
		"b_1_myList.length = 0;",
	}, "\n")
	if got := render(t, newTestEmitter(), flag, change, addToList("a", "hi"), deleteAll); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}

	t.Run("should reject unsupported opcodes", func(t *testing.T) {
		ctx := NewEmitter()
		instr := &ir.Plain{Origin: origin("p", "sound_play", nil)}
		err := newTestEmitter().VisitInstruction(instr, ctx)
		if !errors.Is(err, util.ErrUnsupportedOperation) {
			t.Fatalf("Expected unsupported operation error, got %v", err)
		}
		if !strings.Contains(err.Error(), `"sound_play"`) {
			t.Errorf("Expected opcode in %q", err.Error())
		}
		if ctx.Lines() != 0 {
			t.Errorf("Expected no output, got %q", ctx.ToSource())
		}
	})
}

func TestJsEmitter_ControlFlow(t *testing.T) {
	cond := &ir.Comparison{Operator: ir.ComparisonGreater, Left: &ir.VariableRef{ID: "v1", Name: "score"}, Right: ir.NewNumberLiteral(3)}

	t.Run("should number nested loop counters by depth", func(t *testing.T) {
		inner := &ir.Repeat{Origin: origin("r2", "control_repeat", nil), Times: ir.NewNumberLiteral(2), Body: []ir.Instruction{addToList("a", "x")}}
		outer := &ir.Repeat{Origin: origin("r1", "control_repeat", nil), Times: ir.NewNumberLiteral(10), Body: []ir.Instruction{inner}}
		sibling := &ir.Repeat{Origin: origin("r3", "control_repeat", nil), Times: ir.NewNumberLiteral(1)}

		want := strings.Join([]string{
			"for (let i0 = 0; i0 < 10; i0++) {",
			"    for (let i1 = 0; i1 < 2; i1++) {",
			"        b_0_myList.push('x');",
			"    }",
			"}",
			"for (let i0 = 0; i0 < 1; i0++) {",
			"}",
		}, "\n")
		if diff := cmp.Diff(want, render(t, newTestEmitter(), outer, sibling)); diff != "" {
			t.Errorf("render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should drop the outer parentheses of an if condition", func(t *testing.T) {
		instr := &ir.If{
			Origin:    origin("i", "control_if_else", nil),
			Condition: cond,
			Then:      []ir.Instruction{addToList("a", "yes")},
			Else:      []ir.Instruction{addToList("b", "no")},
			HasElse:   true,
		}
		want := strings.Join([]string{
			"if (b_0_score > 3) {",
			"    b_1_myList.push('yes');",
			"} else {",
			"    b_1_myList.push('no');",
			"}",
		}, "\n")
		if diff := cmp.Diff(want, render(t, newTestEmitter(), instr)); diff != "" {
			t.Errorf("render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should render an empty single branch", func(t *testing.T) {
		instr := &ir.If{Origin: origin("i", "control_if", nil), Condition: ir.NewBooleanLiteral(true)}
		if diff := cmp.Diff("if (true) {\n}", render(t, newTestEmitter(), instr)); diff != "" {
			t.Errorf("render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should render loops and waits", func(t *testing.T) {
		until := &ir.RepeatUntil{Origin: origin("u", "control_repeat_until", nil), Condition: cond}
		forever := &ir.Forever{Origin: origin("f", "control_forever", nil), Body: []ir.Instruction{
			&ir.WaitUntil{Origin: origin("w", "control_wait_until", nil), Condition: cond},
		}}
		want := strings.Join([]string{
			"while (!(b_0_score > 3)) {",
			"}",
			"while (true) {",
			"    while (!(b_0_score > 3)) {}",
			"}",
		}, "\n")
		if diff := cmp.Diff(want, render(t, newTestEmitter(), until, forever)); diff != "" {
			t.Errorf("render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should render stop options", func(t *testing.T) {
		want := "return;\nreturn;\n// stop other scripts in sprite"
		got := render(t, newTestEmitter(),
			&ir.Stop{Origin: origin("s1", "control_stop", nil), Option: "all"},
			&ir.Stop{Origin: origin("s2", "control_stop", nil), Option: "this script"},
			&ir.Stop{Origin: origin("s3", "control_stop", nil), Option: "other scripts in sprite"},
		)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should stop at the first unsupported body instruction", func(t *testing.T) {
		instr := &ir.Forever{Origin: origin("f", "control_forever", nil), Body: []ir.Instruction{
			&ir.Plain{Origin: origin("p", "looks_say", nil)},
		}}
		err := newTestEmitter().VisitInstruction(instr, NewEmitter())
		if !errors.Is(err, util.ErrUnsupportedOperation) {
			t.Errorf("Expected unsupported operation error, got %v", err)
		}
	})
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"plain string", "hello", "'hello'"},
		{"quote and backslash", `a'b\c`, `'a\'b\\c'`},
		{"newlines", "a\nb\rc", `'a\nb\rc'`},
		{"line separators", "a\u2028b\u2029", `'a\u2028b\u2029'`},
		{"integer float", float64(10), "10"},
		{"fraction", 0.1, "0.1"},
		{"negative", float64(-3), "-3"},
		{"nan", math.NaN(), "NaN"},
		{"infinity", math.Inf(-1), "-Infinity"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"nil", nil, "''"},
		{"list", []interface{}{"a", float64(2)}, "['a', 2]"},
		{"empty list", []interface{}{}, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeLiteral(tt.value); got != tt.want {
				t.Errorf("EscapeLiteral(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}
