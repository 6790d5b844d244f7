package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodePNGIsLosslessDecodable(t *testing.T) {
	img := testImage()
	blob, err := Encode(img, FormatPNG, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, a := decoded.At(2, 1).RGBA()
	wantR, wantG, wantB, wantA := img.At(2, 1).RGBA()
	if r != wantR || g != wantG || b != wantB || a != wantA {
		t.Fatalf("png round trip mismatch: got (%d,%d,%d,%d) want (%d,%d,%d,%d)", r, g, b, a, wantR, wantG, wantB, wantA)
	}
}

func TestEncodeJPEGProducesNonEmptyBlob(t *testing.T) {
	blob, err := Encode(testImage(), FormatJPEG, 0.8)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(blob) == 0 {
		t.Fatal("expected non-empty jpeg blob")
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	if _, err := Encode(testImage(), Format("bmp"), 0.5); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestQualityToPercentClamps(t *testing.T) {
	if got := qualityToPercent(-1); got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
	if got := qualityToPercent(2); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
}
