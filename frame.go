package pipemagic

import "sync/atomic"

// revisionClock is a process-wide monotonic counter. Every frame-producing
// operation stamps the frame it returns with the next value, so two frames
// can never share a revision within a process lifetime — the cheap
// invalidation signal the cache-key hasher relies on (SPEC_FULL.md §4.3).
var revisionClock atomic.Uint64

// nextRevision returns a fresh, process-unique revision number.
func nextRevision() uint64 {
	return revisionClock.Add(1)
}

// ImageFrame is an immutable image value: a bitmap plus the dimensions and
// revision that accompanied its creation. Executors construct a new
// ImageFrame for every output rather than mutating one in place, so the
// revision always faithfully represents "these pixels changed".
type ImageFrame struct {
	Bitmap   *Bitmap
	Width    int
	Height   int
	Revision uint64
}

// NewFrame wraps a bitmap into an ImageFrame, stamping a fresh revision.
func NewFrame(bm *Bitmap) ImageFrame {
	return ImageFrame{
		Bitmap:   bm,
		Width:    bm.Width(),
		Height:   bm.Height(),
		Revision: nextRevision(),
	}
}

// IsZero reports whether f is the zero ImageFrame (no producer has run yet).
func (f ImageFrame) IsZero() bool {
	return f.Bitmap == nil
}
