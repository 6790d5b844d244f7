package pipemagic

import "testing"

func TestNewFrameStampsUniqueRevisions(t *testing.T) {
	f1 := NewFrame(NewBitmap(1, 1))
	f2 := NewFrame(NewBitmap(1, 1))
	if f1.Revision == f2.Revision {
		t.Fatalf("expected distinct revisions, got %d twice", f1.Revision)
	}
	if f2.Revision <= f1.Revision {
		t.Fatalf("expected monotonically increasing revisions, got %d then %d", f1.Revision, f2.Revision)
	}
}

func TestZeroFrameIsZero(t *testing.T) {
	var f ImageFrame
	if !f.IsZero() {
		t.Fatal("expected zero-value ImageFrame to report IsZero")
	}
	f2 := NewFrame(NewBitmap(1, 1))
	if f2.IsZero() {
		t.Fatal("expected constructed frame to not report IsZero")
	}
}
