package jfa

import "testing"

func TestStepCountHighMatchesCeilLog2(t *testing.T) {
	// 64 -> log2(64) = 6
	if n := StepCount(64, 64, "high"); n != 6 {
		t.Fatalf("expected 6 steps for 64x64 high quality, got %d", n)
	}
	// 65 -> ceil(log2(65)) = 7
	if n := StepCount(65, 10, "high"); n != 7 {
		t.Fatalf("expected 7 steps for max-dim 65, got %d", n)
	}
}

func TestStepCountQualityThinsSchedule(t *testing.T) {
	high := StepCount(256, 256, "high")
	medium := StepCount(256, 256, "medium")
	low := StepCount(256, 256, "low")
	if medium != high-1 {
		t.Fatalf("expected medium to drop one step, got high=%d medium=%d", high, medium)
	}
	if low != high-2 {
		t.Fatalf("expected low to drop two steps, got high=%d low=%d", high, low)
	}
}

func TestStepCountNeverBelowOne(t *testing.T) {
	if n := StepCount(2, 2, "low"); n < 1 {
		t.Fatalf("expected step count floored at 1, got %d", n)
	}
}

func TestOutlineAlphaZeroAtLargeDistance(t *testing.T) {
	p := Params{ThicknessPx: 2, PositionValue: 1.0}
	if a := OutlineAlpha(1000, p); a != 0 {
		t.Fatalf("expected zero coverage far outside the band, got %f", a)
	}
	if a := OutlineAlpha(-1000, p); a != 0 {
		t.Fatalf("expected zero coverage far inside the silhouette, got %f", a)
	}
}

func TestCompositeNoOpWhenOutsideBand(t *testing.T) {
	p := Params{ThicknessPx: 2, PositionValue: 1.0, Color: [4]float64{1, 0, 0, 1}, Opacity: 1}
	r, g, b, a := Composite(10, 20, 30, 255, 1e6, 1e6, false, p)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Fatalf("expected pixel unchanged far from the band, got (%d,%d,%d,%d)", r, g, b, a)
	}
}
