// Package segmentation manages the external background-removal capability
// a RemoveBg node delegates to: segment(image, threshold) -> mask. Grounded
// on gogpu-gg/accelerator.go's GPU-then-CPU fallback contract (the
// ErrFallbackToCPU sentinel pattern), here specialized to the spec's
// webgpu-then-wasm retry-once rule (SPEC_FULL.md §4.8) instead of a
// capability-bitmask check.
package segmentation

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Device selects (or auto-resolves) which backend the segmentation model
// runs on.
type Device string

const (
	DeviceAuto   Device = "auto"
	DeviceWebGPU Device = "webgpu"
	DeviceWasm   Device = "wasm"
)

// DType is the numeric precision of the segmentation model's weights.
type DType string

const (
	DTypeFP32 DType = "fp32"
	DTypeFP16 DType = "fp16"
	DTypeQ8   DType = "q8"
)

// Key identifies one segmentation model configuration.
type Key struct {
	Device Device
	DType  DType
}

// Mask is the segmentation result: either 1-channel (alpha only) or
// 4-channel (RGBA, alpha used) grayscale coverage at the source image's
// resolution.
type Mask struct {
	Pix      []byte
	Channels int // 1 or 4
	Width    int
	Height   int
}

// Segmenter is the external ML capability. Provider resolves DeviceAuto
// (through the probe installed by SetGPUProbe) before calling it.
type Segmenter func(ctx context.Context, dev Device, dtype DType, rgba []byte, w, h int, threshold float64) (Mask, error)

// ErrNoGPU reports that no GPU device is available. Provider.Segment does
// not return it: DeviceAuto resolves to DeviceWasm when the GPU probe
// reports no device.
var ErrNoGPU = errors.New("segmentation: no gpu device available")

// Provider owns the process-wide segmentation slot, with auto-resolution
// and a single webgpu->wasm retry on failure. The (device, dtype) pair is
// passed to the Segmenter on every call; Provider keeps no per-key state
// and does not track which configuration is currently loaded.
type Provider struct {
	mu        sync.Mutex
	seg       Segmenter
	gpuProbe  func() bool
	loadBytes struct {
		loaded, total int64
	}
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

// SetSegmenter installs the external segmentation capability.
func (p *Provider) SetSegmenter(s Segmenter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seg = s
}

// SetGPUProbe installs the function Provider uses to resolve DeviceAuto:
// true means a GPU device is available and "webgpu" should be tried first.
func (p *Provider) SetGPUProbe(probe func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gpuProbe = probe
}

// ReportDownload records progress for the single largest file observed
// during a model load, so DownloadProgress (ratio loaded/total) can be
// derived per SPEC_FULL.md §4.8.
func (p *Provider) ReportDownload(loaded, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total > p.loadBytes.total {
		p.loadBytes.total = total
		p.loadBytes.loaded = loaded
	} else if total == p.loadBytes.total && loaded > p.loadBytes.loaded {
		p.loadBytes.loaded = loaded
	}
}

// DownloadRatio returns loaded/total for the largest file observed this
// session, or (0, false) if no download has been reported.
func (p *Provider) DownloadRatio() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadBytes.total <= 0 {
		return 0, false
	}
	return float64(p.loadBytes.loaded) / float64(p.loadBytes.total), true
}

// Segment resolves DeviceAuto (webgpu if a GPU device is available, else
// wasm), invokes the registered Segmenter, and — only when the resolved
// device was webgpu and it failed — retries once under wasm. A wasm
// failure (first-choice or retry) is returned to the caller, wrapped with
// the device that failed.
func (p *Provider) Segment(ctx context.Context, dev Device, dtype DType, rgba []byte, w, h int, threshold float64) (Mask, error) {
	p.mu.Lock()
	seg := p.seg
	probe := p.gpuProbe
	p.mu.Unlock()

	if seg == nil {
		return Mask{}, fmt.Errorf("segmentation: no segmenter registered")
	}

	resolved := dev
	if resolved == DeviceAuto {
		if probe != nil && probe() {
			resolved = DeviceWebGPU
		} else {
			resolved = DeviceWasm
		}
	}

	mask, err := seg(ctx, resolved, dtype, rgba, w, h, threshold)
	if err == nil {
		return mask, nil
	}
	if resolved != DeviceWebGPU {
		return Mask{}, fmt.Errorf("segmentation: %s failed: %w", resolved, err)
	}

	mask, retryErr := seg(ctx, DeviceWasm, dtype, rgba, w, h, threshold)
	if retryErr != nil {
		return Mask{}, fmt.Errorf("segmentation: webgpu failed (%v), wasm retry failed: %w", err, retryErr)
	}
	return mask, nil
}
