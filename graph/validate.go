package graph

// NodeInfo is the minimal node shape ValidatePipeline needs: an id and
// whether it is an input/output/processing node.
type NodeInfo struct {
	ID       string
	IsInput  bool
	IsOutput bool
}

// Issue is a single structural problem, optionally attributed to a node.
type Issue struct {
	NodeID  string
	Message string
}

// ValidatePipeline reports every structural problem it can find; it never
// fails fast. Per SPEC_FULL.md §4.1 it checks:
//
//   - missing input / output node
//   - an edge referencing a node id that does not exist
//   - a cycle
//   - any input node with no outgoing edge
//   - any output node with no incoming edge
//   - any processing node missing an incoming or outgoing edge
func ValidatePipeline(nodes []NodeInfo, edges []Edge) []Issue {
	var issues []Issue

	ids := make([]string, len(nodes))
	byID := make(map[string]NodeInfo, len(nodes))
	hasInput, hasOutput := false, false
	for i, n := range nodes {
		ids[i] = n.ID
		byID[n.ID] = n
		if n.IsInput {
			hasInput = true
		}
		if n.IsOutput {
			hasOutput = true
		}
	}

	if !hasInput {
		issues = append(issues, Issue{Message: "pipeline has no input node"})
	}
	if !hasOutput {
		issues = append(issues, Issue{Message: "pipeline has no output node"})
	}

	// Edges must reference existing node ids (SPEC_FULL.md §3 invariant).
	// A dangling edge is reported but does not suppress the incoming/
	// outgoing checks below, which only trust edges between known ids.
	hasOutgoing := make(map[string]bool, len(nodes))
	hasIncoming := make(map[string]bool, len(nodes))
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			issues = append(issues, Issue{NodeID: e.Source, Message: "edge references unknown source node"})
		}
		if _, ok := byID[e.Target]; !ok {
			issues = append(issues, Issue{NodeID: e.Target, Message: "edge references unknown target node"})
		}
		hasOutgoing[e.Source] = true
		hasIncoming[e.Target] = true
	}

	if _, err := TopoSort(ids, edges); err != nil {
		issues = append(issues, Issue{Message: "pipeline contains a cycle"})
	}

	for _, n := range nodes {
		switch {
		case n.IsInput:
			if !hasOutgoing[n.ID] {
				issues = append(issues, Issue{NodeID: n.ID, Message: "input node has no outgoing edge"})
			}
		case n.IsOutput:
			if !hasIncoming[n.ID] {
				issues = append(issues, Issue{NodeID: n.ID, Message: "output node has no incoming edge"})
			}
		default:
			if !hasIncoming[n.ID] {
				issues = append(issues, Issue{NodeID: n.ID, Message: "node has no incoming edge"})
			}
			if !hasOutgoing[n.ID] {
				issues = append(issues, Issue{NodeID: n.ID, Message: "node has no outgoing edge"})
			}
		}
	}

	return issues
}
