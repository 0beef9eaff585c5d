package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"sb3c-go/packages/compiler/src/graph"
)

func TestDumpYAML(t *testing.T) {
	x, y := 5.0, -2.0
	units := []*Unit{{
		ID:       "a",
		TopLevel: true,
		X:        &x,
		Y:        &y,
		Instructions: []Instruction{
			&Repeat{
				Origin: Origin{ID: "a", Opcode: "control_repeat"},
				Times:  NewNumberLiteral(3),
				Body: []Instruction{
					&Plain{
						Origin: Origin{ID: "b", Opcode: "data_addtolist", Inputs: map[string]Expression{"ITEM": NewStringLiteral("hi")}},
						Fields: map[string]graph.Field{"LIST": graph.NewField("myList", "list1")},
					},
				},
			},
			&Stop{Origin: Origin{ID: "c", Opcode: "control_stop"}, Option: "all"},
		},
	}}

	data, err := DumpYAML(units)
	if err != nil {
		t.Fatalf("DumpYAML failed: %v", err)
	}

	var got []map[string]interface{}
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, data)
	}
	want := []map[string]interface{}{{
		"id":        "a",
		"top_level": true,
		"position":  []interface{}{5, -2},
		"instructions": []interface{}{
			map[string]interface{}{
				"kind":   "repeat",
				"id":     "a",
				"opcode": "control_repeat",
				"times":  3,
				"body": []interface{}{
					map[string]interface{}{
						"kind":   "plain",
						"id":     "b",
						"opcode": "data_addtolist",
						"inputs": map[string]interface{}{"ITEM": "hi"},
						"fields": map[string]interface{}{"LIST": "myList"},
					},
				},
			},
			map[string]interface{}{
				"kind":   "stop",
				"id":     "c",
				"opcode": "control_stop",
				"option": "all",
			},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DumpYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk(t *testing.T) {
	tree := []Instruction{
		&If{
			Origin:  Origin{ID: "if"},
			Then:    []Instruction{&Plain{Origin: Origin{ID: "then"}}},
			Else:    []Instruction{&Forever{Origin: Origin{ID: "loop"}, Body: []Instruction{&Plain{Origin: Origin{ID: "inner"}}}}},
			HasElse: true,
		},
		&WaitUntil{Origin: Origin{ID: "wait"}},
	}

	var got []string
	Walk(tree, func(instr Instruction) {
		got = append(got, instr.GetOrigin().ID)
	})
	if diff := cmp.Diff([]string{"if", "then", "loop", "inner", "wait"}, got); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}

	unit := &Unit{Nodes: got}
	if !unit.Contains("inner") || unit.Contains("missing") {
		t.Error("Contains() returned wrong result")
	}
}
