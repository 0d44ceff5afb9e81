package dispersion

import (
	"image"
	"image/color"
	"testing"
)

func TestNewSnapshot_Scaled(t *testing.T) {
	view := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for i := range view.Pix {
		view.Pix[i] = 0xFF
	}
	s := NewSnapshot(view, 0.5)
	if s.Width != 10 || s.Height != 5 || s.Scale != 0.5 {
		t.Fatalf("snapshot = %dx%d @%v, want 10x5 @0.5", s.Width, s.Height, s.Scale)
	}
	if r, g, b, a := s.at(4, 2); r != 0xFF || g != 0xFF || b != 0xFF || a != 0xFF {
		t.Errorf("at(4,2) = %d %d %d %d, want opaque white", r, g, b, a)
	}
	if got := s.viewExtent(); got != image.Rect(0, 0, 20, 10) {
		t.Errorf("viewExtent = %v, want (0,0)-(20,10)", got)
	}
}

func TestNewSnapshot_Unscaled(t *testing.T) {
	view := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	view.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	s := NewSnapshot(view, 1)
	if s.Width != 4 || s.Height != 2 {
		t.Fatalf("snapshot = %dx%d, want 4x2", s.Width, s.Height)
	}
	if r, g, b, a := s.at(0, 0); r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("at(0,0) = %d %d %d %d, want straight alpha copy", r, g, b, a)
	}
}

func TestNewSnapshot_Empty(t *testing.T) {
	s := NewSnapshot(image.NewNRGBA(image.Rect(0, 0, 1, 1)), 0.1)
	if !s.Empty() {
		t.Errorf("snapshot %dx%d, want empty", s.Width, s.Height)
	}
	if !(Snapshot{}).Empty() {
		t.Error("zero Snapshot should be empty")
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{
		128, 64, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	unpremultiply(pix)
	want := []byte{
		255, 127, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	for i := range want {
		if pix[i] != want[i] {
			t.Fatalf("pix = %v, want %v", pix, want)
		}
	}
}

func TestCaptureScale(t *testing.T) {
	tests := []struct {
		name          string
		view, display int
		want          float64
	}{
		{"small view", 100, 1000, 0.5},
		{"at threshold", 150, 1000, 0.5},
		{"full display", 1000, 1000, 0.5 / 3},
		{"halfway", 575, 1000, 0.25},
		{"taller than display", 4000, 1000, 0.5 / 3},
		{"unknown display", 500, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNear(t, "CaptureScale", CaptureScale(tt.view, tt.display), tt.want)
		})
	}
}
