// Package graph holds the block-graph program model: nodes keyed by id, linked
// by next/parent pointers, with input and field tuples.
package graph

import (
	"encoding/json"
	"fmt"
)

// Node is one block of the graph.
type Node struct {
	Opcode   string           `json:"opcode"`
	Next     *string          `json:"next"`
	Parent   *string          `json:"parent"`
	Inputs   map[string]Input `json:"inputs"`
	Fields   map[string]Field `json:"fields"`
	Shadow   bool             `json:"shadow"`
	TopLevel bool             `json:"topLevel"`
	X        *float64         `json:"x,omitempty"`
	Y        *float64         `json:"y,omitempty"`
}

// NextID returns the next pointer, or "" when the node ends its chain.
func (n *Node) NextID() string {
	if n.Next == nil {
		return ""
	}
	return *n.Next
}

// Input returns the named input.
func (n *Node) Input(name string) (Input, bool) {
	in, ok := n.Inputs[name]
	return in, ok
}

// Field returns the named field.
func (n *Node) Field(name string) (Field, bool) {
	f, ok := n.Fields[name]
	return f, ok
}

// Graph maps node ids to nodes. Iteration follows insertion order, which for a
// decoded graph is the key order of the source JSON object.
type Graph struct {
	ids   []string
	nodes map[string]*Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Add inserts or replaces a node. Replacing keeps the original position.
func (g *Graph) Add(id string, node *Node) {
	if _, exists := g.nodes[id]; !exists {
		g.ids = append(g.ids, id)
	}
	g.nodes[id] = node
}

// Get returns the node with the given id.
func (g *Graph) Get(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	node, ok := g.nodes[id]
	return node, ok
}

// IDs returns all node ids in enumeration order.
func (g *Graph) IDs() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.ids)
}

// UnmarshalJSON decodes a blocks object, preserving key order. Entries that are
// not JSON objects (top-level primitive reporters stored as arrays) are
// skipped.
func (g *Graph) UnmarshalJSON(data []byte) error {
	entries, err := decodeOrderedObject(data)
	if err != nil {
		return fmt.Errorf("failed to decode blocks: %w", err)
	}
	decoded := NewGraph()
	for _, entry := range entries {
		if !isJSONObject(entry.Value) {
			continue
		}
		var node Node
		if err := json.Unmarshal(entry.Value, &node); err != nil {
			return fmt.Errorf("failed to decode block %q: %w", entry.Key, err)
		}
		decoded.Add(entry.Key, &node)
	}
	*g = *decoded
	return nil
}
