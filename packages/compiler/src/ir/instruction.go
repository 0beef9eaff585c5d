package ir

import (
	"sb3c-go/packages/compiler/src/graph"
)

// Instruction is a closed set of statement nodes.
type Instruction interface {
	// GetOrigin returns the node the instruction was built from.
	GetOrigin() *Origin
	// Kind names the variant.
	Kind() string
	isInstruction()
}

// Origin is the originating node id and opcode with every input resolved
// through the expression builder. All variants carry it.
type Origin struct {
	ID     string
	Opcode string
	Inputs map[string]Expression
}

// GetOrigin implements Instruction.
func (o *Origin) GetOrigin() *Origin {
	return o
}

// Plain is a statement without control flow of its own.
type Plain struct {
	Origin
	Fields map[string]graph.Field
}

func (*Plain) Kind() string   { return "plain" }
func (*Plain) isInstruction() {}

// Repeat runs Body a fixed number of times.
type Repeat struct {
	Origin
	Times Expression
	Body  []Instruction
}

func (*Repeat) Kind() string   { return "repeat" }
func (*Repeat) isInstruction() {}

// RepeatUntil runs Body while Condition is false.
type RepeatUntil struct {
	Origin
	Condition Expression
	Body      []Instruction
}

func (*RepeatUntil) Kind() string   { return "repeat_until" }
func (*RepeatUntil) isInstruction() {}

// If runs Then when Condition holds, otherwise Else. HasElse is set for the
// two-branch form even when Else is empty.
type If struct {
	Origin
	Condition Expression
	Then      []Instruction
	Else      []Instruction
	HasElse   bool
}

func (*If) Kind() string   { return "if" }
func (*If) isInstruction() {}

// Forever runs Body unconditionally.
type Forever struct {
	Origin
	Body []Instruction
}

func (*Forever) Kind() string   { return "forever" }
func (*Forever) isInstruction() {}

// WaitUntil blocks until Condition holds.
type WaitUntil struct {
	Origin
	Condition Expression
}

func (*WaitUntil) Kind() string   { return "wait_until" }
func (*WaitUntil) isInstruction() {}

// Stop exits early. Option is the stop target, e.g. "all" or "this script".
type Stop struct {
	Origin
	Option string
}

func (*Stop) Kind() string   { return "stop" }
func (*Stop) isInstruction() {}

// Bodies returns the nested instruction sequences of instr, if any.
func Bodies(instr Instruction) [][]Instruction {
	switch n := instr.(type) {
	case *Repeat:
		return [][]Instruction{n.Body}
	case *RepeatUntil:
		return [][]Instruction{n.Body}
	case *If:
		if n.HasElse {
			return [][]Instruction{n.Then, n.Else}
		}
		return [][]Instruction{n.Then}
	case *Forever:
		return [][]Instruction{n.Body}
	default:
		return nil
	}
}

// Walk calls fn for every instruction in pre-order, descending into bodies.
func Walk(instructions []Instruction, fn func(Instruction)) {
	for _, instr := range instructions {
		fn(instr)
		for _, body := range Bodies(instr) {
			Walk(body, fn)
		}
	}
}

// Unit is one reconstructed script rooted at its entry node.
type Unit struct {
	ID           string
	TopLevel     bool
	X, Y         *float64
	Instructions []Instruction
	// Nodes lists every node id consumed by the unit, in visit order.
	Nodes []string
}

// Contains reports whether the unit consumed the node with the given id.
func (u *Unit) Contains(id string) bool {
	for _, n := range u.Nodes {
		if n == id {
			return true
		}
	}
	return false
}
