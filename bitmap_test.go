package pipemagic

import "testing"

func TestBitmapSetGetRGBA(t *testing.T) {
	bm := NewBitmap(4, 4)
	bm.SetRGBA(1, 2, 10, 20, 30, 40)
	r, g, b, a := bm.GetRGBA(1, 2)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Fatalf("got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestBitmapOutOfBoundsIsNoOp(t *testing.T) {
	bm := NewBitmap(2, 2)
	bm.SetRGBA(5, 5, 1, 2, 3, 4)
	r, g, b, a := bm.GetRGBA(5, 5)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Fatalf("expected zero value for out-of-bounds read, got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestBitmapCloneIsIndependent(t *testing.T) {
	bm := NewBitmap(2, 2)
	bm.SetRGBA(0, 0, 1, 1, 1, 1)
	clone := bm.Clone()
	clone.SetRGBA(0, 0, 9, 9, 9, 9)

	r, _, _, _ := bm.GetRGBA(0, 0)
	if r != 1 {
		t.Fatalf("expected original bitmap unaffected by clone mutation, got r=%d", r)
	}
}

func TestFromImageToImageRoundTrip(t *testing.T) {
	bm := NewBitmap(3, 2)
	bm.SetRGBA(2, 1, 5, 6, 7, 8)

	img := bm.ToImage()
	bm2 := FromImage(img)

	r, g, b, a := bm2.GetRGBA(2, 1)
	if r != 5 || g != 6 || b != 7 || a != 8 {
		t.Fatalf("round-trip mismatch: got (%d,%d,%d,%d)", r, g, b, a)
	}
}
