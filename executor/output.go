package executor

import "github.com/superhooman/pipemagic"

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutput, OutputExecutor{})
}

// OutputExecutor passes its single input through unchanged. The
// scheduler's encode step (SPEC_FULL.md §4.4 step 6) reads this node's
// declared format/quality params directly off the NodeDef, so the
// executor itself does no encoding work.
type OutputExecutor struct{}

func (OutputExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	frame, err := requireInput(ec)
	if err != nil {
		return pipemagic.ImageFrame{}, err
	}
	ec.Progress(1)
	return frame, nil
}
