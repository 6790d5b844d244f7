//go:build nogpu

package jfa

import (
	"fmt"

	pmgpu "github.com/superhooman/pipemagic/gpu"
)

// ComposeGPU always fails in a nogpu build: there is no compute pipeline to
// dispatch, so the outline executor's GPU branch falls back to ComposeCPU
// unconditionally, mirroring the gpu package's own //go:build nogpu stub.
func ComposeGPU(dev *pmgpu.Device, pix []uint8, w, h int, steps int, p Params, progress func(float64)) ([]uint8, error) {
	return nil, fmt.Errorf("jfa: gpu support not compiled in (nogpu build)")
}
