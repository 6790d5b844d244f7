// Package jfa implements the outline executor's numeric core: a GPU Jump
// Flooding Algorithm signed-distance-field pipeline (jfa.go) and its exact
// CPU chamfer-distance fallback (chamfer.go). Both share the composite math
// in this file, so the two paths agree pixel-for-pixel on identical inputs
// up to the perceptual tolerance SPEC_FULL.md §8 allows.
package jfa

import "math"

// Params configures one outline composite, mapped directly from the
// outline executor's node parameters.
type Params struct {
	ThicknessPx   float64
	PositionValue float64 // 1.0 outside, 0.5 center, 0.0 inside
	ThresholdPx   float64
	Color         [4]float64 // premultiplied-free RGBA in [0,1]
	Opacity       float64
}

// smoothstep is the GLSL/WGSL smoothstep used identically by both the GPU
// shader and the CPU fallback's composite pass.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// OutlineAlpha computes the outline band's coverage at a signed distance
// from the silhouette, per SPEC_FULL.md §4.5 step 5.
func OutlineAlpha(signedDist float64, p Params) float64 {
	innerEdge := p.ThicknessPx * p.PositionValue
	outerEdge := p.ThicknessPx * (1 - p.PositionValue)
	outer := smoothstep(-outerEdge-0.5, -outerEdge+0.5, signedDist)
	inner := 1 - smoothstep(innerEdge-0.5, innerEdge+0.5, signedDist)
	return outer * inner
}

// Composite blends the outline color over the original pixel at a given
// signed distance, returning premultiplied-free RGBA bytes in [0,255].
func Composite(origR, origG, origB, origA uint8, outerDist, innerDist float64, inside bool, p Params) (r, g, b, a uint8) {
	signed := outerDist + p.ThresholdPx
	if inside {
		signed = -innerDist + p.ThresholdPx
	}
	alpha := OutlineAlpha(signed, p)
	mixT := alpha * p.Opacity

	origRf, origGf, origBf, origAf := float64(origR)/255, float64(origG)/255, float64(origB)/255, float64(origA)/255
	outR := origRf + (p.Color[0]-origRf)*mixT
	outG := origGf + (p.Color[1]-origGf)*mixT
	outB := origBf + (p.Color[2]-origBf)*mixT
	outA := math.Max(origAf, mixT*p.Color[3])

	return toByte(outR), toByte(outG), toByte(outB), toByte(outA)
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// StepCount returns N, the number of jump-flood iterations for a W×H
// texture: ceil(log2(max(W,H))). quality thins the schedule per the
// decision recorded in SPEC_FULL.md §9 ("Open questions"): medium loses one
// step, low loses two, both floored at 1; high is the mandatory schedule.
func StepCount(w, h int, quality string) int {
	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	if maxDim < 1 {
		maxDim = 1
	}
	n := int(math.Ceil(math.Log2(float64(maxDim))))
	if n < 1 {
		n = 1
	}
	switch quality {
	case "medium":
		n--
	case "low":
		n -= 2
	}
	if n < 1 {
		n = 1
	}
	return n
}
