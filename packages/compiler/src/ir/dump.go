package ir

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DumpYAML renders units as a YAML document for inspection.
func DumpYAML(units []*Unit) ([]byte, error) {
	doc := make([]map[string]interface{}, 0, len(units))
	for _, u := range units {
		entry := map[string]interface{}{
			"id":           u.ID,
			"top_level":    u.TopLevel,
			"instructions": describeInstructions(u.Instructions),
		}
		if u.X != nil && u.Y != nil {
			entry["position"] = []float64{*u.X, *u.Y}
		}
		doc = append(doc, entry)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal units: %w", err)
	}
	return out, nil
}

func describeInstructions(instructions []Instruction) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(instructions))
	for _, instr := range instructions {
		out = append(out, describeInstruction(instr))
	}
	return out
}

func describeInstruction(instr Instruction) map[string]interface{} {
	origin := instr.GetOrigin()
	m := map[string]interface{}{
		"kind":   instr.Kind(),
		"id":     origin.ID,
		"opcode": origin.Opcode,
	}
	switch n := instr.(type) {
	case *Plain:
		if len(n.Inputs) > 0 {
			m["inputs"] = describeInputs(n.Inputs)
		}
		if len(n.Fields) > 0 {
			fields := map[string]string{}
			for name, f := range n.Fields {
				fields[name] = f.Value
			}
			m["fields"] = fields
		}
	case *Repeat:
		m["times"] = DescribeExpression(n.Times)
		m["body"] = describeInstructions(n.Body)
	case *RepeatUntil:
		m["condition"] = DescribeExpression(n.Condition)
		m["body"] = describeInstructions(n.Body)
	case *If:
		m["condition"] = DescribeExpression(n.Condition)
		m["then"] = describeInstructions(n.Then)
		if n.HasElse {
			m["else"] = describeInstructions(n.Else)
		}
	case *Forever:
		m["body"] = describeInstructions(n.Body)
	case *WaitUntil:
		m["condition"] = DescribeExpression(n.Condition)
	case *Stop:
		m["option"] = n.Option
	}
	return m
}

func describeInputs(inputs map[string]Expression) map[string]interface{} {
	out := make(map[string]interface{}, len(inputs))
	for name, e := range inputs {
		out[name] = DescribeExpression(e)
	}
	return out
}

// DescribeExpression converts an expression into plain maps and scalars.
func DescribeExpression(e Expression) interface{} {
	switch n := e.(type) {
	case nil:
		return nil
	case *Literal:
		return n.Value
	case *VariableRef:
		return map[string]interface{}{"variable": n.ID, "name": n.Name}
	case *BinaryOp:
		return map[string]interface{}{n.Operator.String(): []interface{}{DescribeExpression(n.Left), DescribeExpression(n.Right)}}
	case *Comparison:
		return map[string]interface{}{n.Operator.String(): []interface{}{DescribeExpression(n.Left), DescribeExpression(n.Right)}}
	case *LogicalOp:
		return map[string]interface{}{n.Operator.String(): []interface{}{DescribeExpression(n.Left), DescribeExpression(n.Right)}}
	case *Not:
		return map[string]interface{}{"not": DescribeExpression(n.Operand)}
	case *ListItem:
		return map[string]interface{}{"item_of": n.ListID, "index": DescribeExpression(n.Index)}
	case *ListLength:
		return map[string]interface{}{"length_of": n.ListID}
	case *OperationExpr:
		return map[string]interface{}{"operation": n.Opcode, "inputs": describeInputs(n.Inputs)}
	default:
		return fmt.Sprintf("<%s>", e.Kind())
	}
}
