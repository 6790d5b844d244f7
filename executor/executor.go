// Package executor implements the per-NodeKind Executor registered against
// the root pipemagic package's scheduler (SPEC_FULL.md §4.4-§4.8). Each
// file here implements exactly one node kind and registers itself via
// pipemagic.RegisterExecutor from an init function, so importing this
// package for its side effects (blank import in cmd/pipemagic) is enough
// to make every node kind runnable.
package executor

import "github.com/superhooman/pipemagic"

// paramString reads a string param, falling back to def when absent or of
// the wrong type — params arrive as map[string]any decoded from JSON, so a
// permissive reader (matching color.go's Hex parser's "malformed input
// degrades gracefully" style) is friendlier than a hard failure for
// optional knobs.
func paramString(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// paramFloat reads a numeric param (JSON numbers decode to float64).
func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return def
}

// paramInt reads an integer-valued numeric param.
func paramInt(params map[string]any, key string, def int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return def
}

// requireInput returns the first upstream frame, or an ExecutorError with
// the spec's canonical "no input image" message.
func requireInput(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	if len(ec.Inputs) == 0 {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: "no input image"}
	}
	return ec.Inputs[0], nil
}
