package superres

import "math"

// BilinearUpscale2x upscales a single-channel buffer (the alpha channel)
// by exactly 2x using bilinear sampling, rehomed from the teacher's
// internal/image/interp.go SampleBilinear/lerp2D onto a single-channel
// buffer instead of RGBA (SPEC_FULL.md §4.6 step 2: alpha is upscaled
// independently of the SR RGB pass).
func BilinearUpscale2x(alpha []byte, w, h int) (out []byte, outW, outH int) {
	outW, outH = w*2, h*2
	out = make([]byte, outW*outH)

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return float64(alpha[y*w+x])
	}

	for oy := 0; oy < outH; oy++ {
		// Map output pixel center back to source space, consistent with
		// the teacher's SampleBilinear's u*w-0.5 half-texel convention.
		fy := (float64(oy)+0.5)/2 - 0.5
		y0 := int(math.Floor(fy))
		ty := fy - float64(y0)

		for ox := 0; ox < outW; ox++ {
			fx := (float64(ox)+0.5)/2 - 0.5
			x0 := int(math.Floor(fx))
			tx := fx - float64(x0)

			v00 := at(x0, y0)
			v10 := at(x0+1, y0)
			v01 := at(x0, y0+1)
			v11 := at(x0+1, y0+1)

			top := v00 + (v10-v00)*tx
			bot := v01 + (v11-v01)*tx
			v := top + (bot-top)*ty

			out[oy*outW+ox] = clampByte(v + 0.5)
		}
	}
	return out, outW, outH
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
