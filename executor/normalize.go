package executor

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/superhooman/pipemagic"
)

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindNormalize, NormalizeExecutor{})
}

// NormalizeExecutor crops the input to its alpha-channel bounding box and
// fits it, centered, into a size x size canvas (SPEC_FULL.md §4.7).
type NormalizeExecutor struct{}

// alphaBBox returns the tightest bounding box of pixels with alpha > 10/255
// (the spec's threshold), and false if no such pixel exists.
func alphaBBox(bm *pipemagic.Bitmap) (minX, minY, maxX, maxY int, ok bool) {
	w, h := bm.Width(), bm.Height()
	minX, minY = w, h
	maxX, maxY = -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := bm.GetRGBA(x, y)
			if a > 10 {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
				ok = true
			}
		}
	}
	return minX, minY, maxX, maxY, ok
}

func (NormalizeExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	in, err := requireInput(ec)
	if err != nil {
		return pipemagic.ImageFrame{}, err
	}
	ec.Progress(0.1)

	size := paramInt(ec.Params, "size", 512)
	padding := paramInt(ec.Params, "padding", 0)
	if size < 1 {
		size = 1
	}

	minX, minY, maxX, maxY, ok := alphaBBox(in.Bitmap)
	if !ok {
		// No opaque-enough pixel exists: emit a fully transparent
		// size x size frame (SPEC_FULL.md §4.7 step 2).
		out := pipemagic.NewBitmap(size, size)
		ec.Progress(1)
		return pipemagic.NewFrame(out), nil
	}
	ec.Progress(0.3)

	bboxW, bboxH := maxX-minX+1, maxY-minY+1
	avail := float64(size - 2*padding)
	if avail < 1 {
		avail = 1
	}
	scale := avail / float64(bboxW)
	if s2 := avail / float64(bboxH); s2 < scale {
		scale = s2
	}

	destW := int(float64(bboxW)*scale + 0.5)
	destH := int(float64(bboxH)*scale + 0.5)
	if destW < 1 {
		destW = 1
	}
	if destH < 1 {
		destH = 1
	}
	// Center offsets rounded to the nearest integer (halves round up).
	offX := (size - destW + 1) / 2
	offY := (size - destH + 1) / 2

	out := pipemagic.NewBitmap(size, size)
	srcRect := image.Rect(minX, minY, minX+bboxW, minY+bboxH)
	dstRect := image.Rect(offX, offY, offX+destW, offY+destH)
	draw.CatmullRom.Scale(out, dstRect, in.Bitmap, srcRect, draw.Over, nil)
	ec.Progress(1)

	return pipemagic.NewFrame(out), nil
}
