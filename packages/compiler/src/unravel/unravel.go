// Package unravel reconstructs nested instruction trees from a flat block
// graph by walking next-pointer chains and substack references.
package unravel

import (
	"sb3c-go/packages/compiler/src/graph"
	"sb3c-go/packages/compiler/src/ir"
)

// Structural opcodes.
const (
	OpcodeRepeat      = "control_repeat"
	OpcodeRepeatUntil = "control_repeat_until"
	OpcodeIf          = "control_if"
	OpcodeIfElse      = "control_if_else"
	OpcodeForever     = "control_forever"
	OpcodeWaitUntil   = "control_wait_until"
	OpcodeStop        = "control_stop"
)

// Input and field names read by structural opcodes.
const (
	inputTimes     = "TIMES"
	inputCondition = "CONDITION"
	inputSubstack  = "SUBSTACK"
	inputSubstack2 = "SUBSTACK2"
	fieldStop      = "STOP_OPTION"
)

// DefaultStopOption is used when a stop node carries no usable option.
const DefaultStopOption = "all"

// bodyInputs are the input names holding body references rather than values.
var bodyInputs = map[string]bool{
	inputSubstack:  true,
	inputSubstack2: true,
}

// IsBodyInput reports whether an input name denotes a nested chain.
func IsBodyInput(name string) bool {
	return bodyInputs[name]
}

// traversal is the state of one reconstruction pass over one graph. The
// visited set is shared by every chain walk and body walk of the pass.
type traversal struct {
	graph   *graph.Graph
	exprs   *ExpressionBuilder
	visited map[string]bool
	// members collects the ids consumed by the unit being built.
	members []string
}

// Unravel reconstructs every unit of g. Units follow the enumeration order of
// their top-level entry nodes. Entries already consumed by an earlier chain
// produce no unit, and units with no instructions are dropped.
func Unravel(g *graph.Graph) []*ir.Unit {
	t := &traversal{
		graph:   g,
		exprs:   NewExpressionBuilder(g),
		visited: make(map[string]bool),
	}

	var units []*ir.Unit
	for _, id := range g.IDs() {
		node, _ := g.Get(id)
		if !node.TopLevel || t.visited[id] {
			continue
		}
		t.members = nil
		instructions := t.walkChain(id)
		if len(instructions) == 0 {
			continue
		}
		units = append(units, &ir.Unit{
			ID:           id,
			TopLevel:     true,
			X:            node.X,
			Y:            node.Y,
			Instructions: instructions,
			Nodes:        t.members,
		})
	}
	return units
}

// walkChain converts the chain starting at id. It stops at a missing next
// pointer, a next id absent from the graph, or an already visited node.
func (t *traversal) walkChain(id string) []ir.Instruction {
	var out []ir.Instruction
	for id != "" {
		if t.visited[id] {
			break
		}
		node, ok := t.graph.Get(id)
		if !ok {
			break
		}
		t.visited[id] = true
		t.members = append(t.members, id)
		out = append(out, t.convert(id, node))
		id = node.NextID()
	}
	return out
}

// body walks the chain named by a body input. Absent or malformed references
// give an empty body.
func (t *traversal) body(node *graph.Node, name string) []ir.Instruction {
	in, ok := node.Input(name)
	if !ok {
		return nil
	}
	start, ok := bodyStart(in)
	if !ok {
		return nil
	}
	return t.walkChain(start)
}

// bodyStart extracts the first node id of a body reference, `[2, id]` or
// `[3, id, ...]`.
func bodyStart(in graph.Input) (string, bool) {
	switch in.Kind {
	case graph.InputReference:
		if in.Arity != 2 {
			return "", false
		}
	case graph.InputNode:
	default:
		return "", false
	}
	id, ok := in.RefID()
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (t *traversal) convert(id string, node *graph.Node) ir.Instruction {
	origin := ir.Origin{
		ID:     id,
		Opcode: node.Opcode,
		Inputs: t.exprs.BuildInputs(node, bodyInputs),
	}

	switch node.Opcode {
	case OpcodeRepeat:
		return &ir.Repeat{
			Origin: origin,
			Times:  t.exprs.BuildInput(node, inputTimes),
			Body:   t.body(node, inputSubstack),
		}
	case OpcodeRepeatUntil:
		return &ir.RepeatUntil{
			Origin:    origin,
			Condition: t.exprs.BuildInput(node, inputCondition),
			Body:      t.body(node, inputSubstack),
		}
	case OpcodeIf:
		return &ir.If{
			Origin:    origin,
			Condition: t.exprs.BuildInput(node, inputCondition),
			Then:      t.body(node, inputSubstack),
		}
	case OpcodeIfElse:
		return &ir.If{
			Origin:    origin,
			Condition: t.exprs.BuildInput(node, inputCondition),
			Then:      t.body(node, inputSubstack),
			Else:      t.body(node, inputSubstack2),
			HasElse:   true,
		}
	case OpcodeForever:
		return &ir.Forever{
			Origin: origin,
			Body:   t.body(node, inputSubstack),
		}
	case OpcodeWaitUntil:
		return &ir.WaitUntil{
			Origin:    origin,
			Condition: t.exprs.BuildInput(node, inputCondition),
		}
	case OpcodeStop:
		return &ir.Stop{
			Origin: origin,
			Option: stopOption(node),
		}
	default:
		return &ir.Plain{
			Origin: origin,
			Fields: node.Fields,
		}
	}
}

func stopOption(node *graph.Node) string {
	field, ok := node.Field(fieldStop)
	if !ok || field.Malformed || field.Value == "" {
		return DefaultStopOption
	}
	return field.Value
}
