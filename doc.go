// Package pipemagic implements PipeMagic's core: a client-side image
// processing pipeline engine built around a directed acyclic graph of
// typed nodes whose outputs are immutable image frames.
//
// # Overview
//
// A PipelineDefinition describes a DAG of NodeDef/EdgeDef values. Scheduler
// validates it, topologically orders the nodes, gathers each node's
// upstream frames, consults a content-addressed cache keyed by
// (nodeId, params, upstream revisions), and dispatches the registered
// Executor for each node kind under a per-node ExecutionContext. Progress,
// status, and download events stream out through Options' callbacks, and a
// context.Context carries cooperative cancellation.
//
// # Quick Start
//
//	import (
//		"github.com/superhooman/pipemagic"
//		_ "github.com/superhooman/pipemagic/executor" // registers node kinds
//	)
//
//	sched := pipemagic.NewScheduler()
//	result, err := sched.Run(pipeline, inputBitmap, gpuDevice, pipemagic.Options{
//		OnNodeStatus: func(id string, status pipemagic.NodeStatus, err error) {
//			log.Printf("%s: %s", id, status)
//		},
//	})
//
// # Architecture
//
// The engine is organized into:
//   - Root package: data model (ImageFrame, NodeDef/EdgeDef/PipelineDefinition),
//     the Scheduler, and the error taxonomy.
//   - graph: cycle detection, Kahn topological sort, upstream/downstream traversal.
//   - cachekey: deterministic (nodeId, params, revisions) fingerprinting.
//   - gpu: process-wide GPU device acquisition and bitmap<->texture transfer.
//   - executor: one Executor per NodeKind (input, output, remove-bg,
//     normalize, outline, upscale), registered by side-effecting imports.
//   - internal/jfa, internal/superres, internal/segmentation: the
//     algorithmic cores the outline, upscale, and remove-bg executors
//     delegate to.
//   - encode: PNG/JPEG/WebP output blob encoding.
//
// # Non-goals
//
// Multi-image batching per run, distributed execution, automatic
// differentiation, server-side scheduling, and bit-exact equality between
// the GPU and CPU outline paths (they are perceptually equivalent, not
// identical).
package pipemagic
