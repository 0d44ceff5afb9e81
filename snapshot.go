package dispersion

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// defaultCaptureScale is the capture scale for views that are small relative
// to the display.
const defaultCaptureScale = 0.5

// Snapshot is an immutable straight-alpha RGBA pixel buffer captured from a
// view. Scale is the number of buffer pixels per view unit.
type Snapshot struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Scale  float64
}

// SnapshotFromPixels wraps a straight-alpha RGBA buffer of w*h pixels. The
// buffer is not copied; the caller hands over ownership.
func SnapshotFromPixels(pix []byte, w, h int, scale float64) Snapshot {
	return Snapshot{Pix: pix, Width: w, Height: h, Stride: w * 4, Scale: scale}
}

// NewSnapshot renders view into a new buffer of round(w*scale) by
// round(h*scale) pixels, resampling with bilinear interpolation.
func NewSnapshot(view image.Image, scale float64) Snapshot {
	if scale <= 0 {
		scale = 1
	}
	vb := view.Bounds()
	w := int(math.Round(float64(vb.Dx()) * scale))
	h := int(math.Round(float64(vb.Dy()) * scale))
	if w <= 0 || h <= 0 {
		return Snapshot{Scale: scale}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == vb.Dx() && h == vb.Dy() {
		draw.Draw(dst, dst.Bounds(), view, vb.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), view, vb, draw.Src, nil)
	}
	return Snapshot{Pix: dst.Pix, Width: w, Height: h, Stride: dst.Stride, Scale: scale}
}

// Empty reports whether the snapshot has no pixels.
func (s Snapshot) Empty() bool {
	return s.Width <= 0 || s.Height <= 0 || len(s.Pix) == 0
}

// at returns the straight-alpha channels of pixel (x, y).
func (s Snapshot) at(x, y int) (r, g, b, a uint8) {
	stride := s.Stride
	if stride == 0 {
		stride = s.Width * 4
	}
	i := y*stride + x*4
	p := s.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// viewExtent returns the snapshot size in view units.
func (s Snapshot) viewExtent() image.Rectangle {
	return image.Rect(0, 0,
		int(math.Round(float64(s.Width)/s.Scale)),
		int(math.Round(float64(s.Height)/s.Scale)),
	)
}

// CaptureScale picks a capture scale for a view of the given height. Views
// up to 15% of the display height are captured at half resolution; taller
// views scale down further, to a sixth at full display height.
func CaptureScale(viewHeight, displayHeight int) float64 {
	if displayHeight <= 0 {
		return defaultCaptureScale
	}
	dh := float64(displayHeight)
	f := clamp01((float64(viewHeight) - dh*0.15) / (dh * 0.85))
	return defaultCaptureScale / lerp(1, 3, f)
}

// unpremultiply converts premultiplied RGBA bytes to straight alpha in place.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 || a == 255 {
			continue
		}
		pix[i] = uint8(min(int(pix[i])*255/int(a), 255))
		pix[i+1] = uint8(min(int(pix[i+1])*255/int(a), 255))
		pix[i+2] = uint8(min(int(pix[i+2])*255/int(a), 255))
	}
}
