package executor

import "github.com/superhooman/pipemagic"

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindInput, InputExecutor{})
}

// InputExecutor passes the run's source frame through unchanged. The
// scheduler already substitutes the wrapped source ImageFrame as this
// node's sole input (SPEC_FULL.md §4.4 step 4), so Run is a pure
// pass-through with no suspension points and nothing to release.
type InputExecutor struct{}

func (InputExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	ec.Progress(1)
	return requireInput(ec)
}
