package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Program is a whole project: one target per program unit, in document order.
type Program struct {
	Targets []*Target `json:"targets"`
}

// Target is one program unit (the stage or a sprite) with its declared
// variables, lists and blocks.
type Target struct {
	Name      string
	IsStage   bool
	Variables []*Variable
	Lists     []*List
	Blocks    *Graph
}

// Variable is a declared variable: `id: [name, value]`.
type Variable struct {
	ID    string
	Name  string
	Value interface{}
}

// List is a declared list: `id: [name, [items...]]`.
type List struct {
	ID    string
	Name  string
	Items []interface{}
}

type rawTarget struct {
	Name      string          `json:"name"`
	IsStage   bool            `json:"isStage"`
	Variables json.RawMessage `json:"variables"`
	Lists     json.RawMessage `json:"lists"`
	Blocks    *Graph          `json:"blocks"`
}

// UnmarshalJSON decodes a target, keeping declaration order of variables and
// lists.
func (t *Target) UnmarshalJSON(data []byte) error {
	var raw rawTarget
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	target := Target{Name: raw.Name, IsStage: raw.IsStage, Blocks: raw.Blocks}
	if target.Blocks == nil {
		target.Blocks = NewGraph()
	}

	vars, err := decodeOrderedObject(raw.Variables)
	if err != nil && len(raw.Variables) > 0 {
		return fmt.Errorf("failed to decode variables of %q: %w", raw.Name, err)
	}
	for _, entry := range vars {
		var tuple []interface{}
		if err := json.Unmarshal(entry.Value, &tuple); err != nil {
			return fmt.Errorf("failed to decode variable %q: %w", entry.Key, err)
		}
		v := &Variable{ID: entry.Key, Name: entry.Key, Value: ""}
		if len(tuple) > 0 {
			v.Name = declaredName(tuple[0], entry.Key)
		}
		if len(tuple) > 1 && tuple[1] != nil {
			v.Value = tuple[1]
		}
		target.Variables = append(target.Variables, v)
	}

	lists, err := decodeOrderedObject(raw.Lists)
	if err != nil && len(raw.Lists) > 0 {
		return fmt.Errorf("failed to decode lists of %q: %w", raw.Name, err)
	}
	for _, entry := range lists {
		var tuple []interface{}
		if err := json.Unmarshal(entry.Value, &tuple); err != nil {
			return fmt.Errorf("failed to decode list %q: %w", entry.Key, err)
		}
		l := &List{ID: entry.Key, Name: entry.Key, Items: []interface{}{}}
		if len(tuple) > 0 {
			l.Name = declaredName(tuple[0], entry.Key)
		}
		if len(tuple) > 1 {
			if items, ok := tuple[1].([]interface{}); ok {
				l.Items = items
			}
		}
		target.Lists = append(target.Lists, l)
	}

	*t = target
	return nil
}

func declaredName(v interface{}, fallback string) string {
	switch name := v.(type) {
	case string:
		return name
	case nil:
		return fallback
	default:
		return fmt.Sprint(name)
	}
}

// Parse decodes a project document.
func Parse(data []byte) (*Program, error) {
	var program Program
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	return &program, nil
}

// Load reads and decodes a project document from disk.
func Load(path string) (*Program, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	return Parse(data)
}
