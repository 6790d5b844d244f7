//go:build nogpu

package gpu

import (
	"errors"

	"github.com/superhooman/pipemagic"
)

// Device is the no-GPU build's stand-in; it carries no live handles.
type Device struct{}

func (d *Device) HalDevice() any { return nil }
func (d *Device) HalQueue() any  { return nil }
func (d *Device) Name() string   { return "" }
func (d *Device) MarkLost()      {}

// InitGPU always fails in a nogpu build, mirroring the teacher's
// //go:build !nogpu tag convention for optional GPU compilation
// (gogpu-gg/gpu/gpu.go).
func InitGPU() (*Device, error) {
	pipemagic.Logger().Warn("built with nogpu tag: GPU paths unavailable")
	return nil, errors.New("gpu support not compiled in (nogpu build)")
}

// Current always returns nil in a nogpu build.
func Current() *Device { return nil }

// Reset is a no-op in a nogpu build.
func Reset() {}

// Close is a no-op in a nogpu build.
func Close() {}
