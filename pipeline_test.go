package pipemagic

import (
	"encoding/json"
	"testing"
)

func TestPipelineDefinitionUnmarshalIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"nodes": [
			{"id": "in", "type": "input", "position": {"x": 0, "y": 0}, "futureField": 42}
		],
		"edges": []
	}`
	var def PipelineDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Nodes) != 1 || def.Nodes[0].ID != "in" {
		t.Fatalf("unexpected nodes: %+v", def.Nodes)
	}
}

func TestPipelineDefinitionRoundTrip(t *testing.T) {
	def := PipelineDefinition{
		Version: 1,
		Nodes: []NodeDef{
			{ID: "in", Type: NodeKindInput, Params: map[string]any{"foo": "bar"}},
		},
		Edges: []EdgeDef{},
	}
	raw, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got PipelineDefinition
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Nodes[0].Params["foo"] != "bar" {
		t.Fatalf("unexpected round-tripped params: %+v", got.Nodes[0].Params)
	}
}
