package executor

import (
	"github.com/superhooman/pipemagic"
	"github.com/superhooman/pipemagic/gpu"
	"github.com/superhooman/pipemagic/internal/jfa"
)

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindOutline, OutlineExecutor{})
}

// positionValue maps the outline position param to the spec's fixed
// fraction (SPEC_FULL.md §4.5: outside=1.0, center=0.5, inside=0.0).
func positionValue(pos string) float64 {
	switch pos {
	case "inside":
		return 0.0
	case "center":
		return 0.5
	default:
		return 1.0
	}
}

// OutlineExecutor composes an outline band around the input's alpha
// silhouette using a GPU JFA signed-distance-field pipeline when a device
// is available, falling back to the CPU chamfer path on any GPU failure
// (SPEC_FULL.md §4.5, §7 "GPU resilience").
type OutlineExecutor struct{}

func (OutlineExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	in, err := requireInput(ec)
	if err != nil {
		return pipemagic.ImageFrame{}, err
	}

	thickness := paramFloat(ec.Params, "thickness", 4)
	color := pipemagic.Hex(paramString(ec.Params, "color", "#ff0000"))
	opacity := paramFloat(ec.Params, "opacity", 1)
	position := paramString(ec.Params, "position", "outside")
	threshold := paramFloat(ec.Params, "threshold", 0)
	quality := paramString(ec.Params, "quality", "high")

	params := jfa.Params{
		ThicknessPx:   thickness,
		PositionValue: positionValue(position),
		ThresholdPx:   threshold,
		Color:         [4]float64{color.R, color.G, color.B, color.A},
		Opacity:       opacity,
	}

	w, h := in.Bitmap.Width(), in.Bitmap.Height()
	pix := in.Bitmap.Pix()

	if thickness == 0 {
		// No-op per SPEC_FULL.md §8: output equals input pixelwise.
		ec.Progress(1)
		out := pipemagic.NewBitmap(w, h)
		copy(out.Pix(), pix)
		return pipemagic.NewFrame(out), nil
	}

	var outPix []byte
	if dev, ok := ec.GPUDevice.(*gpu.Device); ok && dev != nil {
		steps := jfa.StepCount(w, h, quality)
		gpuOut, gpuErr := jfa.ComposeGPU(dev, pix, w, h, steps, params, ec.Progress)
		if gpuErr == nil {
			outPix = gpuOut
			out := pipemagic.NewBitmap(w, h)
			copy(out.Pix(), outPix)
			return pipemagic.NewFrame(out), nil
		}
		pipemagic.Logger().Warn("outline: gpu jfa failed, falling back to cpu chamfer", "error", gpuErr)
	}

	ec.Progress(0.1)
	outPix = jfa.ComposeCPU(pix, w, h, params)
	ec.Progress(1)

	out := pipemagic.NewBitmap(w, h)
	copy(out.Pix(), outPix)
	return pipemagic.NewFrame(out), nil
}
