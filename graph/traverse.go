package graph

// UpstreamNodes returns the source node ids of every edge targeting nodeID,
// in edge insertion order (not deduplicated beyond natural edge order,
// matching the spec's "in edge insertion order" wording).
func UpstreamNodes(nodeID string, edges []Edge) []string {
	var out []string
	for _, e := range edges {
		if e.Target == nodeID {
			out = append(out, e.Source)
		}
	}
	return out
}

// DownstreamNodes returns every node reachable from nodeID by following
// edges forward, visited breadth-first, excluding nodeID itself. Used by
// editors to implement cache invalidation cascades after a param edit.
func DownstreamNodes(nodeID string, edges []Edge) []string {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	visited := map[string]bool{nodeID: true}
	queue := []string{nodeID}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}
