package executor

import (
	"fmt"

	"github.com/superhooman/pipemagic"
	"github.com/superhooman/pipemagic/internal/segmentation"
)

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindRemoveBg, RemoveBgExecutor{})
}

// RemoveBgExecutor delegates to the external segmentation capability and
// replaces the input's alpha channel with the returned mask, preserving
// RGB (SPEC_FULL.md §4.8).
type RemoveBgExecutor struct{}

func (RemoveBgExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	in, err := requireInput(ec)
	if err != nil {
		return pipemagic.ImageFrame{}, err
	}

	device := segmentation.Device(paramString(ec.Params, "device", string(segmentation.DeviceAuto)))
	dtype := segmentation.DType(paramString(ec.Params, "dtype", string(segmentation.DTypeFP32)))
	threshold := paramFloat(ec.Params, "threshold", 0.5)

	w, h := in.Bitmap.Width(), in.Bitmap.Height()
	ec.Progress(0.1)

	ratio := func() {
		if r, ok := segmentation.Default().DownloadRatio(); ok {
			ec.DownloadProgress(&r)
		}
	}
	ratio()

	if ec.Aborted() {
		return pipemagic.ImageFrame{}, &pipemagic.AbortError{Cause: ec.Context().Err()}
	}

	mask, err := segmentation.Default().Segment(ec.Context(), device, dtype, in.Bitmap.Pix(), w, h, threshold)
	if err != nil {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: fmt.Sprintf("remove-bg: %v", err), Cause: err}
	}
	if ec.Aborted() {
		return pipemagic.ImageFrame{}, &pipemagic.AbortError{Cause: ec.Context().Err()}
	}
	ec.DownloadProgress(nil)
	ec.Progress(0.8)

	if mask.Width != w || mask.Height != h {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: fmt.Sprintf("remove-bg: mask size %dx%d does not match input %dx%d", mask.Width, mask.Height, w, h)}
	}

	out := in.Bitmap.Clone()
	outPix := out.Pix()
	for i := 0; i < w*h; i++ {
		var a byte
		if mask.Channels == 1 {
			a = mask.Pix[i]
		} else {
			a = mask.Pix[i*4+3]
		}
		outPix[i*4+3] = a
	}
	ec.Progress(1)

	return pipemagic.NewFrame(out), nil
}
