package pipemagic

import "fmt"

// ValidationIssue is a single structural problem found by ValidatePipeline.
// NodeID is empty for pipeline-wide issues (e.g. "missing output node").
type ValidationIssue struct {
	NodeID  string
	Message string
}

// ValidationError carries every structural problem ValidatePipeline found.
// It aborts the entire run (SPEC_FULL.md §7).
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "pipeline validation failed: " + e.Issues[0].Message
	}
	return fmt.Sprintf("pipeline validation failed: %d issues", len(e.Issues))
}

// CycleError is returned by topoSort when the pipeline contains a cycle.
// ValidatePipeline additionally surfaces the same condition as a
// ValidationIssue with the message "pipeline contains a cycle".
type CycleError struct {
	Remaining []string // node ids that could not be ordered
}

func (e *CycleError) Error() string {
	return "pipeline contains a cycle"
}

// AbortError signals cooperative cancellation. It is always propagated to
// the caller unchanged, never captured into a NodeState.
type AbortError struct {
	Cause error
}

func (e *AbortError) Error() string {
	if e.Cause != nil {
		return "run aborted: " + e.Cause.Error()
	}
	return "run aborted"
}

func (e *AbortError) Unwrap() error { return e.Cause }

// ExecutorError is any failure inside a node executor: missing input, an
// unrecoverable GPU failure, or an external capability failure. It is
// captured into the offending node's NodeState and does not abort the run.
type ExecutorError struct {
	NodeID  string
	Message string
	Cause   error
}

func (e *ExecutorError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("node %s: %s", e.NodeID, e.Message)
	}
	return e.Message
}

func (e *ExecutorError) Unwrap() error { return e.Cause }

// PipelineEmptyError means the output node never produced a frame — either
// it failed, or it was never reached because it had no input.
type PipelineEmptyError struct{}

func (e *PipelineEmptyError) Error() string {
	return "pipeline produced no output"
}

// errNoInputImage is recorded (not returned as a Go error) into a node's
// NodeState when an upstream producer failed or was skipped, per the
// decision recorded in SPEC_FULL.md §9 ("Open questions").
const errNoInputImage = "no input image"
