package pipemagic

import "testing"

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func TestHexSixDigit(t *testing.T) {
	c := Hex("#ff0000")
	if !almostEqual(c.R, 1) || !almostEqual(c.G, 0) || !almostEqual(c.B, 0) || !almostEqual(c.A, 1) {
		t.Fatalf("unexpected color %+v", c)
	}
}

func TestHexEightDigitWithAlpha(t *testing.T) {
	c := Hex("#00ff0080")
	if !almostEqual(c.G, 1) {
		t.Fatalf("expected green channel 1, got %+v", c)
	}
	if c.A < 0.49 || c.A > 0.51 {
		t.Fatalf("expected alpha ~0.5, got %f", c.A)
	}
}

func TestHexShortForm(t *testing.T) {
	c := Hex("#0f0")
	if !almostEqual(c.G, 1) || !almostEqual(c.R, 0) {
		t.Fatalf("unexpected color %+v", c)
	}
}

func TestHexMalformedDegradesToOpaqueBlack(t *testing.T) {
	c := Hex("#zzz-not-a-color")
	if !almostEqual(c.A, 1) {
		t.Fatalf("expected opaque fallback, got %+v", c)
	}
}

func TestLerp(t *testing.T) {
	a := RGBA{R: 0, G: 0, B: 0, A: 1}
	b := RGBA{R: 1, G: 1, B: 1, A: 1}
	mid := a.Lerp(b, 0.5)
	if !almostEqual(mid.R, 0.5) {
		t.Fatalf("expected midpoint 0.5, got %f", mid.R)
	}
}
