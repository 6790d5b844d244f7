package pipemagic

// NodeKind is the closed set of node types the scheduler understands.
// Extension kinds (depth, face-parse, ...) are additional string values
// honoring the same executor contract; the executor registry, not this
// type, is what's closed or open.
type NodeKind string

const (
	NodeKindInput     NodeKind = "input"
	NodeKindOutput    NodeKind = "output"
	NodeKindRemoveBg  NodeKind = "remove-bg"
	NodeKindNormalize NodeKind = "normalize"
	NodeKindOutline   NodeKind = "outline"
	NodeKindUpscale   NodeKind = "upscale"
)

// NodeStatus is the lifecycle state of a node within a single run.
type NodeStatus string

const (
	StatusIdle    NodeStatus = "idle"
	StatusPending NodeStatus = "pending"
	StatusRunning NodeStatus = "running"
	StatusDone    NodeStatus = "done"
	StatusError   NodeStatus = "error"
	StatusCached  NodeStatus = "cached"
)

// Position is opaque editor layout metadata the core never interprets.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeDef is the serialized definition of one DAG node.
type NodeDef struct {
	ID       string         `json:"id"`
	Type     NodeKind       `json:"type"`
	Position Position       `json:"position"`
	Params   map[string]any `json:"params"`
	Label    string         `json:"label,omitempty"`
}

// EdgeDef is a serialized DAG edge. Handles are debug labels only; routing
// is by the (Source, Target) node-id pair.
type EdgeDef struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// PipelineDefinition is the full serialized pipeline. Unknown top-level
// fields on nodes/edges are ignored by json.Unmarshal against this struct's
// named fields, matching the spec's forward-compatibility requirement.
type PipelineDefinition struct {
	Version int       `json:"version"`
	Nodes   []NodeDef `json:"nodes"`
	Edges   []EdgeDef `json:"edges"`
}

// NodeState is the scheduler-owned, per-run state of one node. It is
// observed by callback handlers but mutated only by the scheduler.
type NodeState struct {
	Status           NodeStatus
	Progress         float64
	StatusMessage    *string
	DownloadProgress *float64 // nil when no download phase is active
	Err              error
	Output           *ImageFrame
	CacheKey         *string
	DeviceUsed       string // "gpu", "cpu", "webgpu", "wasm", or "" if n/a
}

// newIdleState returns the NodeState every node starts a run in.
func newIdleState() *NodeState {
	return &NodeState{Status: StatusIdle}
}
