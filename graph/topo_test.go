package graph

import (
	"reflect"
	"testing"
)

func TestTopoSortOrdering(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	edges := []Edge{{Source: "a", Target: "c"}, {Source: "b", Target: "c"}, {Source: "c", Target: "d"}}

	order, err := TopoSort(nodes, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != len(nodes) {
		t.Fatalf("expected permutation of all nodes, got %v", order)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range edges {
		if pos[e.Target] < pos[e.Source] {
			t.Fatalf("edge %s->%s violated in order %v", e.Source, e.Target, order)
		}
	}
}

func TestTopoSortInsertionOrderTieBreak(t *testing.T) {
	nodes := []string{"z", "y", "x"} // no edges: all zero in-degree
	order, err := TopoSort(nodes, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"z", "y", "x"}) {
		t.Fatalf("expected insertion order, got %v", order)
	}
}

func TestTopoSortCycle(t *testing.T) {
	nodes := []string{"a", "b"}
	edges := []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}}

	_, err := TopoSort(nodes, edges)
	if err == nil {
		t.Fatal("expected CycleError")
	}
	var cycleErr *CycleError
	if ce, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	} else {
		cycleErr = ce
	}
	if len(cycleErr.Remaining) != 2 {
		t.Fatalf("expected both nodes remaining, got %v", cycleErr.Remaining)
	}
}

func TestValidatePipelineCycle(t *testing.T) {
	nodes := []NodeInfo{{ID: "a", IsInput: true}, {ID: "b", IsOutput: true}}
	edges := []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}}

	issues := ValidatePipeline(nodes, edges)
	found := false
	for _, iss := range issues {
		if iss.Message == "pipeline contains a cycle" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cycle issue, got %v", issues)
	}
}

func TestValidatePipelineDanglingEdge(t *testing.T) {
	nodes := []NodeInfo{{ID: "a", IsInput: true}, {ID: "b", IsOutput: true}}
	edges := []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "ghost"}}

	issues := ValidatePipeline(nodes, edges)
	found := false
	for _, iss := range issues {
		if iss.NodeID == "ghost" && iss.Message == "edge references unknown target node" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown-target-node issue for %q, got %v", "ghost", issues)
	}
}

func TestDownstreamNodesBFS(t *testing.T) {
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "a", Target: "d"},
	}
	down := DownstreamNodes("a", edges)
	want := map[string]bool{"b": true, "c": true, "d": true}
	if len(down) != len(want) {
		t.Fatalf("expected 3 downstream nodes, got %v", down)
	}
	for _, id := range down {
		if !want[id] {
			t.Fatalf("unexpected downstream node %s", id)
		}
	}
}

func TestUpstreamNodesInsertionOrder(t *testing.T) {
	edges := []Edge{
		{Source: "x", Target: "z"},
		{Source: "y", Target: "z"},
	}
	up := UpstreamNodes("z", edges)
	if !reflect.DeepEqual(up, []string{"x", "y"}) {
		t.Fatalf("expected [x y], got %v", up)
	}
}
