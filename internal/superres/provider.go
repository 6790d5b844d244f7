// Package superres manages the single external super-resolution capability
// an Upscale node delegates RGB rendering to. Unlike the cache package's
// ShardedCache (16-way, keyed by arbitrary comparable key), this package
// needs exactly one reconfigurable slot: SPEC_FULL.md §4.6 calls for a
// process-wide singleton keyed by (model, contentType), reconfigured in
// place whenever the key changes rather than evicted and rebuilt, since a
// model swap is expensive and every node in a pipeline run shares one.
package superres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Key identifies one super-resolution configuration.
type Key struct {
	Model       string
	ContentType string
}

// Renderer is the external 2x RGB super-resolution capability. Callers
// register exactly one Renderer via SetRenderer; Upscale nodes never call
// an SR backend directly, only through Provider.Render.
type Renderer func(ctx context.Context, key Key, rgb []byte, w, h int) (out []byte, outW, outH int, err error)

// Provider owns the process-wide super-resolution slot: the active Key,
// the registered Renderer, and usage statistics. Reconfiguration (a Render
// call with a different Key than the currently active one) is recorded but
// otherwise transparent — the Renderer itself is responsible for any
// underlying model reload.
type Provider struct {
	mu       sync.Mutex
	key      Key
	hasKey   bool
	renderer Renderer

	renders        atomic.Uint64
	reconfigs      atomic.Uint64
	renderFailures atomic.Uint64
}

var (
	defaultMu sync.Mutex
	defaultP  = &Provider{}
)

// Default returns the process-wide Provider singleton.
func Default() *Provider {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultP
}

// SetRenderer installs the external super-resolution capability. Passing
// nil disables super-resolution; Render then always returns an error,
// which the Upscale executor reports as an ExecutorError.
func (p *Provider) SetRenderer(r Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderer = r
}

// Render upscales an RGB buffer 2x via the registered Renderer, reconfiguring
// the active Key in place when it differs from the last call.
func (p *Provider) Render(ctx context.Context, key Key, rgb []byte, w, h int) (out []byte, outW, outH int, err error) {
	p.mu.Lock()
	renderer := p.renderer
	if !p.hasKey || p.key != key {
		p.key = key
		p.hasKey = true
		p.reconfigs.Add(1)
	}
	p.mu.Unlock()

	if renderer == nil {
		p.renderFailures.Add(1)
		return nil, 0, 0, fmt.Errorf("superres: no renderer registered for model %q content-type %q", key.Model, key.ContentType)
	}

	out, outW, outH, err = renderer(ctx, key, rgb, w, h)
	if err != nil {
		p.renderFailures.Add(1)
		return nil, 0, 0, fmt.Errorf("superres: render failed: %w", err)
	}
	p.renders.Add(1)
	return out, outW, outH, nil
}

// Stats reports cumulative usage counters for diagnostics.
type Stats struct {
	Renders        uint64
	Reconfigs      uint64
	RenderFailures uint64
}

// Stats returns a snapshot of the provider's usage counters.
func (p *Provider) Stats() Stats {
	return Stats{
		Renders:        p.renders.Load(),
		Reconfigs:      p.reconfigs.Load(),
		RenderFailures: p.renderFailures.Load(),
	}
}
