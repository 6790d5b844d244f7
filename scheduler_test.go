package pipemagic_test

import (
	"context"
	"testing"

	"github.com/superhooman/pipemagic"
)

// recordingExecutor tints every output pixel's red channel by delta and
// records how many times it was invoked, so tests can assert cache hits
// (Run not called again) vs misses (Run called again).
type recordingExecutor struct {
	calls int
	delta uint8
}

func (r *recordingExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	r.calls++
	if len(ec.Inputs) == 0 {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: "no input image"}
	}
	src := ec.Inputs[0].Bitmap
	out := pipemagic.NewBitmap(src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			rr, g, b, a := src.GetRGBA(x, y)
			out.SetRGBA(x, y, rr+r.delta, g, b, a)
		}
	}
	ec.Progress(1)
	return pipemagic.NewFrame(out), nil
}

type passthroughExecutor struct{ calls int }

func (p *passthroughExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	p.calls++
	if len(ec.Inputs) == 0 {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: "no input image"}
	}
	ec.Progress(1)
	return ec.Inputs[0], nil
}

func simplePipeline() pipemagic.PipelineDefinition {
	return pipemagic.PipelineDefinition{
		Version: 1,
		Nodes: []pipemagic.NodeDef{
			{ID: "in", Type: pipemagic.NodeKindInput},
			{ID: "mid", Type: pipemagic.NodeKindOutline, Params: map[string]any{"thickness": 4.0}},
			{ID: "out", Type: pipemagic.NodeKindOutput},
		},
		Edges: []pipemagic.EdgeDef{
			{ID: "e1", Source: "in", Target: "mid"},
			{ID: "e2", Source: "mid", Target: "out"},
		},
	}
}

func TestSchedulerRunSingleNodePipeline(t *testing.T) {
	mid := &recordingExecutor{delta: 10}
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutline, mid)
	pipemagic.RegisterExecutor(pipemagic.NodeKindInput, &passthroughExecutor{})
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutput, &passthroughExecutor{})

	bm := pipemagic.NewBitmap(4, 4)
	sched := pipemagic.NewScheduler()
	result, err := sched.Run(simplePipeline(), bm, nil, pipemagic.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Width != 4 || result.Height != 4 {
		t.Fatalf("unexpected dimensions %dx%d", result.Width, result.Height)
	}
	if len(result.Blob) == 0 {
		t.Fatal("expected non-empty encoded blob")
	}
	if mid.calls != 1 {
		t.Fatalf("expected 1 call on cold run, got %d", mid.calls)
	}
}

func TestSchedulerCacheHitOnUnchangedRerun(t *testing.T) {
	mid := &recordingExecutor{delta: 10}
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutline, mid)
	pipemagic.RegisterExecutor(pipemagic.NodeKindInput, &passthroughExecutor{})
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutput, &passthroughExecutor{})

	bm := pipemagic.NewBitmap(4, 4)
	sched := pipemagic.NewScheduler()
	pipeline := simplePipeline()

	first, err := sched.Run(pipeline, bm, nil, pipemagic.Options{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	var statuses []pipemagic.NodeStatus
	second, err := sched.Run(pipeline, bm, nil, pipemagic.Options{
		OnNodeStatus: func(id string, status pipemagic.NodeStatus, _ error) {
			if id == "mid" {
				statuses = append(statuses, status)
			}
		},
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if mid.calls != 1 {
		t.Fatalf("expected executor not re-invoked on warm cache, got %d calls", mid.calls)
	}
	if string(first.Blob) != string(second.Blob) {
		t.Fatal("expected bit-identical output blob on warm cache re-run")
	}
	foundCached := false
	for _, s := range statuses {
		if s == pipemagic.StatusCached {
			foundCached = true
		}
	}
	if !foundCached {
		t.Fatalf("expected a cached status transition, got %v", statuses)
	}
}

func TestSchedulerParamEditInvalidatesCache(t *testing.T) {
	mid := &recordingExecutor{delta: 10}
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutline, mid)
	pipemagic.RegisterExecutor(pipemagic.NodeKindInput, &passthroughExecutor{})
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutput, &passthroughExecutor{})

	bm := pipemagic.NewBitmap(4, 4)
	sched := pipemagic.NewScheduler()
	pipeline := simplePipeline()

	if _, err := sched.Run(pipeline, bm, nil, pipemagic.Options{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	pipeline.Nodes[1].Params = map[string]any{"thickness": 8.0}
	if _, err := sched.Run(pipeline, bm, nil, pipemagic.Options{}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if mid.calls != 2 {
		t.Fatalf("expected re-execution after param edit, got %d calls", mid.calls)
	}
}

func TestSchedulerAbortBeforeFirstNode(t *testing.T) {
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutline, &recordingExecutor{})
	pipemagic.RegisterExecutor(pipemagic.NodeKindInput, &passthroughExecutor{})
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutput, &passthroughExecutor{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bm := pipemagic.NewBitmap(2, 2)
	sched := pipemagic.NewScheduler()
	_, err := sched.Run(simplePipeline(), bm, nil, pipemagic.Options{Signal: ctx})
	var abortErr *pipemagic.AbortError
	if _, ok := err.(*pipemagic.AbortError); !ok {
		t.Fatalf("expected *AbortError, got %T (%v)", err, err)
	}
	_ = abortErr
}

func TestSchedulerValidationErrorOnMissingOutput(t *testing.T) {
	pipeline := pipemagic.PipelineDefinition{
		Version: 1,
		Nodes:   []pipemagic.NodeDef{{ID: "in", Type: pipemagic.NodeKindInput}},
	}
	sched := pipemagic.NewScheduler()
	_, err := sched.Run(pipeline, pipemagic.NewBitmap(1, 1), nil, pipemagic.Options{})
	if _, ok := err.(*pipemagic.ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestSchedulerCycleRejected(t *testing.T) {
	pipeline := pipemagic.PipelineDefinition{
		Version: 1,
		Nodes: []pipemagic.NodeDef{
			{ID: "in", Type: pipemagic.NodeKindInput},
			{ID: "a", Type: pipemagic.NodeKindOutline},
			{ID: "b", Type: pipemagic.NodeKindNormalize},
			{ID: "out", Type: pipemagic.NodeKindOutput},
		},
		Edges: []pipemagic.EdgeDef{
			{ID: "e1", Source: "in", Target: "a"},
			{ID: "e2", Source: "a", Target: "b"},
			{ID: "e3", Source: "b", Target: "a"},
			{ID: "e4", Source: "b", Target: "out"},
		},
	}
	sched := pipemagic.NewScheduler()
	_, err := sched.Run(pipeline, pipemagic.NewBitmap(1, 1), nil, pipemagic.Options{})
	verr, ok := err.(*pipemagic.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	found := false
	for _, iss := range verr.Issues {
		if iss.Message == "pipeline contains a cycle" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cycle issue among %v", verr.Issues)
	}
}
