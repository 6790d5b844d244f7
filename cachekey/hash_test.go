package cachekey

import "testing"

func TestComputeDeterministic(t *testing.T) {
	params := map[string]any{"thickness": 4.0, "color": "#ff0000"}
	a := Compute("outline-1", params, []uint64{1, 2})
	b := Compute("outline-1", params, []uint64{1, 2})
	if a != b {
		t.Fatalf("expected deterministic output, got %s vs %s", a, b)
	}
}

func TestComputeOrderIndependentAcrossParamKeys(t *testing.T) {
	p1 := map[string]any{"a": 1.0, "b": 2.0}
	p2 := map[string]any{"b": 2.0, "a": 1.0}
	if Compute("n", p1, nil) != Compute("n", p2, nil) {
		t.Fatal("expected param key order to not affect cache key")
	}
}

func TestComputeOrderDependentAcrossRevisions(t *testing.T) {
	params := map[string]any{}
	a := Compute("n", params, []uint64{1, 2})
	b := Compute("n", params, []uint64{2, 1})
	if a == b {
		t.Fatal("expected swapped upstream revisions to change the cache key")
	}
}

func TestComputeDiffersOnParamChange(t *testing.T) {
	a := Compute("n", map[string]any{"x": 1.0}, nil)
	b := Compute("n", map[string]any{"x": 2.0}, nil)
	if a == b {
		t.Fatal("expected different params to produce different keys")
	}
}
