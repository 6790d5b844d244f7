package executor

import (
	"testing"

	"github.com/superhooman/pipemagic"
)

func TestNormalizeFullyTransparentYieldsTransparentCanvas(t *testing.T) {
	in := pipemagic.NewBitmap(32, 32)
	ec := pipemagic.NewExecutionContext(nil, "normalize-1", []pipemagic.ImageFrame{pipemagic.NewFrame(in)},
		map[string]any{"size": 64.0, "padding": 4.0}, nil)

	out, err := NormalizeExecutor{}.Run(ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Width != 64 || out.Height != 64 {
		t.Fatalf("expected 64x64 canvas, got %dx%d", out.Width, out.Height)
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			_, _, _, a := out.Bitmap.GetRGBA(x, y)
			if a != 0 {
				t.Fatalf("expected fully transparent output at (%d,%d), got alpha %d", x, y, a)
			}
		}
	}
}

func TestNormalizeCropsAndCentersContent(t *testing.T) {
	in := pipemagic.NewBitmap(32, 32)
	// A small opaque block touching no border, off-center, so the bbox
	// crop + centered fit is observable.
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			in.SetRGBA(x, y, 200, 100, 50, 255)
		}
	}
	ec := pipemagic.NewExecutionContext(nil, "normalize-1", []pipemagic.ImageFrame{pipemagic.NewFrame(in)},
		map[string]any{"size": 64.0, "padding": 0.0}, nil)

	out, err := NormalizeExecutor{}.Run(ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The bbox (10x10) scaled to fill 64x64 should leave the center opaque.
	_, _, _, a := out.Bitmap.GetRGBA(32, 32)
	if a == 0 {
		t.Fatal("expected centered content to cover the canvas center")
	}
	// Corners are not checked here: an aspect-preserving fit of a square
	// bbox into a square canvas with zero padding fills it entirely.
}

func TestNormalizeBorderTouchingContentGetsPaddingMargin(t *testing.T) {
	in := pipemagic.NewBitmap(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			in.SetRGBA(x, y, 1, 2, 3, 255)
		}
	}
	ec := pipemagic.NewExecutionContext(nil, "normalize-1", []pipemagic.ImageFrame{pipemagic.NewFrame(in)},
		map[string]any{"size": 100.0, "padding": 10.0}, nil)

	out, err := NormalizeExecutor{}.Run(ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Within the padding margin, pixels must stay transparent.
	_, _, _, a := out.Bitmap.GetRGBA(2, 2)
	if a != 0 {
		t.Fatalf("expected padding margin transparent, got alpha %d", a)
	}
}
