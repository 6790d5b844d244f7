//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import the Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/superhooman/pipemagic"
)

// Device wraps the process-wide GPU handle. It is never constructed by
// callers directly — obtain it via InitGPU/Current.
type Device struct {
	instance hal.Instance
	hdev     hal.Device
	queue    hal.Queue
	name     string

	lost atomic.Bool
}

// HalDevice returns the underlying hal.Device for internal/jfa's compute
// dispatch. Returns nil if the device has been invalidated.
func (d *Device) HalDevice() hal.Device {
	if d == nil || d.lost.Load() {
		return nil
	}
	return d.hdev
}

// HalQueue returns the underlying hal.Queue.
func (d *Device) HalQueue() hal.Queue {
	if d == nil || d.lost.Load() {
		return nil
	}
	return d.queue
}

// Name returns the selected adapter's display name.
func (d *Device) Name() string { return d.name }

// MarkLost invalidates this device; subsequent Current() calls return nil
// until InitGPU is called again. Corresponds to the spec's device `lost`
// event (SPEC_FULL.md §4.3).
func (d *Device) MarkLost() {
	d.lost.Store(true)
	pipemagic.Logger().Warn("gpu device lost, falling back to CPU paths")
}

var (
	mu      sync.Mutex
	current *Device
	initErr error
	inited  bool
)

// InitGPU attempts to acquire a GPU device, caching the result as
// process-wide state with a single initialization guard, matching
// SPEC_FULL.md §4.3. Safe to call repeatedly: once a device has been
// acquired, later calls return it until it is marked lost or Reset is
// called. A failed acquisition is not cached; the next call tries again.
func InitGPU() (*Device, error) {
	mu.Lock()
	defer mu.Unlock()

	if inited && current != nil && !current.lost.Load() {
		return current, nil
	}

	dev, err := openDevice()
	inited = true
	initErr = err
	current = dev
	if err != nil {
		pipemagic.Logger().Warn("gpu init failed, falling back to CPU paths", "error", err)
		return nil, err
	}
	pipemagic.Logger().Info("gpu device acquired", "adapter", dev.name)
	return dev, nil
}

// Current returns the cached device, or nil if none was acquired or it has
// since been marked lost. It never attempts acquisition itself.
func Current() *Device {
	mu.Lock()
	defer mu.Unlock()
	if current != nil && current.lost.Load() {
		return nil
	}
	return current
}

// Reset forces the next InitGPU call to re-acquire the device, used after a
// lost-device notification from the host environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		current.MarkLost()
	}
	inited = false
	current = nil
	initErr = nil
}

// Close releases the device's GPU resources.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		if current.hdev != nil {
			current.hdev.Destroy()
		}
		if current.instance != nil {
			current.instance.Destroy()
		}
	}
	current = nil
	inited = false
}

func openDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	opened, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	return &Device{
		instance: instance,
		hdev:     opened.Device,
		queue:    opened.Queue,
		name:     selected.Info.Name,
	}, nil
}
