package graph

import (
	"encoding/json"
	"fmt"
)

// InputKind is the numeric discriminant that leads every input tuple.
type InputKind int

const (
	// InputMalformed marks a tuple whose shape is not recognised. The decoded
	// value is kept in Input.Raw.
	InputMalformed InputKind = iota
	// InputLiteral is `[1, literal]`, where literal may itself be a typed
	// literal array such as `[4, "10"]`.
	InputLiteral
	// InputReference is `[2, id]`: an entity (variable/list) reference, or a
	// body reference when it appears under a body input name.
	InputReference
	// InputNode is `[3, id, fallback?]`: a reporter node whose evaluation
	// yields the value.
	InputNode
)

// String returns the name of the kind.
func (k InputKind) String() string {
	switch k {
	case InputLiteral:
		return "literal"
	case InputReference:
		return "reference"
	case InputNode:
		return "node"
	default:
		return "malformed"
	}
}

// Input is one decoded input tuple.
type Input struct {
	Kind     InputKind
	Payload  interface{}
	Fallback interface{}
	// Arity is the number of elements of the original tuple.
	Arity int
	Raw   interface{}
}

// LiteralInput creates a kind 1 input.
func LiteralInput(value interface{}) Input {
	return Input{Kind: InputLiteral, Payload: value, Arity: 2, Raw: []interface{}{float64(1), value}}
}

// ReferenceInput creates a kind 2 input.
func ReferenceInput(id string) Input {
	return Input{Kind: InputReference, Payload: id, Arity: 2, Raw: []interface{}{float64(2), id}}
}

// NodeInput creates a kind 3 input with an optional fallback.
func NodeInput(id string, fallback interface{}) Input {
	raw := []interface{}{float64(3), id}
	arity := 2
	if fallback != nil {
		raw = append(raw, fallback)
		arity = 3
	}
	return Input{Kind: InputNode, Payload: id, Fallback: fallback, Arity: arity, Raw: raw}
}

// MalformedInput wraps a value that is not a recognised tuple.
func MalformedInput(raw interface{}) Input {
	return Input{Kind: InputMalformed, Raw: raw}
}

// RefID returns the payload as an id when it is a string.
func (in Input) RefID() (string, bool) {
	id, ok := in.Payload.(string)
	return id, ok
}

// UnmarshalJSON decodes a tuple. It never fails on a well-formed JSON value;
// unknown shapes become InputMalformed.
func (in *Input) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = decodeInput(raw)
	return nil
}

func decodeInput(raw interface{}) Input {
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) < 2 {
		return MalformedInput(raw)
	}
	code, ok := tuple[0].(float64)
	if !ok {
		return MalformedInput(raw)
	}

	in := Input{Payload: tuple[1], Arity: len(tuple), Raw: raw}
	switch code {
	case 1:
		in.Kind = InputLiteral
	case 2:
		in.Kind = InputReference
	case 3:
		in.Kind = InputNode
		if len(tuple) >= 3 {
			in.Fallback = tuple[2]
		}
	default:
		return MalformedInput(raw)
	}
	return in
}

// Field is one decoded field tuple, `[value, id?]`.
type Field struct {
	Value     string
	ID        string
	HasID     bool
	Malformed bool
}

// NewField creates a field carrying a value and an id, e.g. `["score", "v1"]`.
func NewField(value, id string) Field {
	return Field{Value: value, ID: id, HasID: true}
}

// UnmarshalJSON decodes a field tuple. Anything that is not a non-empty array
// decodes to a malformed field instead of an error.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) == 0 || tuple[0] == nil {
		*f = Field{Malformed: true}
		return nil
	}

	field := Field{}
	switch v := tuple[0].(type) {
	case string:
		field.Value = v
	default:
		field.Value = fmt.Sprint(v)
	}
	if len(tuple) > 1 {
		if id, ok := tuple[1].(string); ok {
			field.ID = id
			field.HasID = true
		}
	}
	*f = field
	return nil
}
