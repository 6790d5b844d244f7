package jfa

import "math"

// chamferDiag and chamferOrtho are the fixed neighbor weights for two-pass
// chamfer distance (SPEC_FULL.md §4.5: "diagonal weight 1.414, orthogonal
// 1.0"), the authoritative oracle the GPU JFA path approximates.
const (
	chamferDiag  = 1.41421356237
	chamferOrtho = 1.0
)

const alphaPredicateThreshold = 0.1 * 255 // alpha > 0.1 in byte terms

// chamferDistance computes an approximate Euclidean distance field from a
// boolean seed mask using the classic two-pass (forward then backward)
// chamfer sweep. Pixels seeded true start at distance 0; all others start
// at +Inf and are relaxed by their already-visited neighbors.
//
// Border pixels (first/last row and column) are left at whatever value the
// sweep naturally assigns them — per SPEC_FULL.md §4.5 they are not treated
// specially, since the two-pass sweep already reaches them from the
// interior on one of the two passes.
func chamferDistance(seed []bool, w, h int) []float64 {
	dist := make([]float64, w*h)
	for i, s := range seed {
		if s {
			dist[i] = 0
		} else {
			dist[i] = math.Inf(1)
		}
	}

	at := func(x, y int) int { return y*w + x }
	relax := func(x, y, nx, ny int, weight float64) {
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return
		}
		cand := dist[at(nx, ny)] + weight
		if cand < dist[at(x, y)] {
			dist[at(x, y)] = cand
		}
	}

	// Forward pass: top-left to bottom-right, neighbors already visited
	// this pass are up/left/diagonals behind the raster-scan cursor.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			relax(x, y, x-1, y, chamferOrtho)
			relax(x, y, x, y-1, chamferOrtho)
			relax(x, y, x-1, y-1, chamferDiag)
			relax(x, y, x+1, y-1, chamferDiag)
		}
	}
	// Backward pass: bottom-right to top-left.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			relax(x, y, x+1, y, chamferOrtho)
			relax(x, y, x, y+1, chamferOrtho)
			relax(x, y, x+1, y+1, chamferDiag)
			relax(x, y, x-1, y+1, chamferDiag)
		}
	}

	return dist
}

// alphaSeedMasks builds the outer (foreground, alpha>threshold) and inner
// (background, alpha<=threshold) seed masks from an RGBA8 buffer, matching
// the GPU path's seed-pass predicate exactly (SPEC_FULL.md §4.5 step 2).
func alphaSeedMasks(pix []uint8, w, h int) (outer, inner []bool) {
	outer = make([]bool, w*h)
	inner = make([]bool, w*h)
	for i := 0; i < w*h; i++ {
		a := pix[i*4+3]
		fg := float64(a) > alphaPredicateThreshold
		outer[i] = fg
		inner[i] = !fg
	}
	return outer, inner
}

// ComposeCPU runs the full CPU chamfer fallback pipeline: seed masks,
// two-pass distance on both directions, then the shared composite pass.
// It is the authoritative oracle the GPU path is checked against
// (SPEC_FULL.md §9, "GPU + CPU parity").
func ComposeCPU(pix []uint8, w, h int, p Params) []uint8 {
	outerSeed, innerSeed := alphaSeedMasks(pix, w, h)
	outerDist := chamferDistance(outerSeed, w, h)
	innerDist := chamferDistance(innerSeed, w, h)

	out := make([]uint8, len(pix))
	for i := 0; i < w*h; i++ {
		r, g, b, a := pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3]
		// A pixel is "inside" the silhouette when it satisfies the outer
		// (foreground) seed predicate itself — the SDF sign flips there.
		inside := outerSeed[i]
		or, og, ob, oa := Composite(r, g, b, a, outerDist[i], innerDist[i], inside, p)
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = or, og, ob, oa
	}
	return out
}
