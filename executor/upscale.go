package executor

import (
	"fmt"

	"github.com/superhooman/pipemagic"
	"github.com/superhooman/pipemagic/internal/superres"
)

func init() {
	pipemagic.RegisterExecutor(pipemagic.NodeKindUpscale, UpscaleExecutor{})
}

// UpscaleExecutor delegates 2x RGB super-resolution to the external
// superres capability and independently bilinearly upscales the alpha
// channel, merging the two (SPEC_FULL.md §4.6). A GPU device is required;
// absence is a fail-fast ExecutorError, not a CPU fallback — the SR
// capability itself is GPU-backed and has no CPU path.
type UpscaleExecutor struct{}

func (UpscaleExecutor) Run(ec *pipemagic.ExecutionContext) (pipemagic.ImageFrame, error) {
	in, err := requireInput(ec)
	if err != nil {
		return pipemagic.ImageFrame{}, err
	}

	if ec.GPUDevice == nil {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: "upscale requires a gpu device"}
	}

	model := paramString(ec.Params, "model", "cnn-2x-m")
	contentType := paramString(ec.Params, "contentType", "rl")

	w, h := in.Bitmap.Width(), in.Bitmap.Height()
	pix := in.Bitmap.Pix()

	rgb := make([]byte, w*h*3)
	alpha := make([]byte, w*h)
	for i := 0; i < w*h; i++ {
		rgb[i*3], rgb[i*3+1], rgb[i*3+2] = pix[i*4], pix[i*4+1], pix[i*4+2]
		alpha[i] = pix[i*4+3]
	}
	ec.Progress(0.1)

	if ec.Aborted() {
		return pipemagic.ImageFrame{}, &pipemagic.AbortError{Cause: ec.Context().Err()}
	}

	key := superres.Key{Model: model, ContentType: contentType}
	srRGB, srW, srH, err := superres.Default().Render(ec.Context(), key, rgb, w, h)
	if err != nil {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: fmt.Sprintf("upscale: %v", err), Cause: err}
	}
	if ec.Aborted() {
		return pipemagic.ImageFrame{}, &pipemagic.AbortError{Cause: ec.Context().Err()}
	}
	if srW != w*2 || srH != h*2 {
		return pipemagic.ImageFrame{}, &pipemagic.ExecutorError{Message: fmt.Sprintf("upscale: sr returned %dx%d, expected %dx%d", srW, srH, w*2, h*2)}
	}
	ec.Progress(0.7)

	upAlpha, upW, upH := superres.BilinearUpscale2x(alpha, w, h)
	ec.Progress(0.9)

	out := pipemagic.NewBitmap(upW, upH)
	outPix := out.Pix()
	for i := 0; i < upW*upH; i++ {
		outPix[i*4], outPix[i*4+1], outPix[i*4+2] = srRGB[i*3], srRGB[i*3+1], srRGB[i*3+2]
		outPix[i*4+3] = upAlpha[i]
	}
	ec.Progress(1)

	return pipemagic.NewFrame(out), nil
}
