// Package graph implements the structural DAG utilities the scheduler relies
// on: topological sort, validation, and upstream/downstream traversal. It
// operates on the bare (nodeID, edge) shape rather than on pipemagic's
// richer node/edge types, so it has no dependency on the root package.
package graph

import "sort"

// Edge is the minimal edge shape graph operates on.
type Edge struct {
	Source string
	Target string
}

// CycleError reports that one or more node ids could not be placed in
// topological order because they (transitively) depend on themselves.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return "pipeline contains a cycle"
}

// TopoSort orders nodeIDs using Kahn's algorithm. Ties among nodes with
// zero remaining in-degree are broken by their position in nodeIDs
// (insertion order), so the result is deterministic for a given
// PipelineDefinition regardless of edge order.
func TopoSort(nodeIDs []string, edges []Edge) ([]string, error) {
	indegree := make(map[string]int, len(nodeIDs))
	adj := make(map[string][]string, len(nodeIDs))
	index := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		indegree[id] = 0
		index[id] = i
	}
	for _, e := range edges {
		if _, ok := index[e.Source]; !ok {
			continue
		}
		if _, ok := index[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		indegree[e.Target]++
	}

	// Ready set, always kept sorted by original insertion index so the
	// lowest-index zero-indegree node is picked next.
	var ready []string
	for _, id := range nodeIDs {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool { return index[ready[i]] < index[ready[j]] })

	order := make([]string, 0, len(nodeIDs))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var newlyReady []string
		for _, next := range adj[id] {
			indegree[next]--
			if indegree[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		if len(newlyReady) > 0 {
			sort.SliceStable(newlyReady, func(i, j int) bool { return index[newlyReady[i]] < index[newlyReady[j]] })
			ready = mergeByIndex(ready, newlyReady, index)
		}
	}

	if len(order) != len(nodeIDs) {
		seen := make(map[string]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		var remaining []string
		for _, id := range nodeIDs {
			if !seen[id] {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}

// mergeByIndex merges two slices already sorted by index, preserving that
// order in the result (a simple stable merge since both inputs are small).
func mergeByIndex(a, b []string, index map[string]int) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if index[a[i]] <= index[b[j]] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
