// Package gpu owns PipeMagic's process-wide GPU device: acquisition via
// wgpu/hal, lost-event invalidation, bitmap<->texture transfer, and the
// seed-texel packing the outline executor's JFA compute pipeline uses.
//
// Operation requires a runtime offering GPU compute with storage textures.
// There is no on-screen surface here — PipeMagic renders offscreen only —
// so, unlike the teacher library this package is adapted from, there is no
// windowing integration and no pluggable accelerator registry: there is
// exactly one GPU backend (Vulkan via wgpu/hal), used or not used.
//
// Callers MUST tolerate Current() returning nil: every executor that can use
// the GPU has a CPU fallback, and initialization failure (no adapter, no
// Vulkan backend, device lost) is not itself an error condition, only a
// capability the caller no longer has.
package gpu
