package dispersion

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Surface receives point sprites. Implementations draw each point as a
// square of side size centered on (x, y), composited source-over.
type Surface interface {
	// DrawPoints draws len(points)/2 points. points holds interleaved x, y
	// centers and is only valid for the duration of the call.
	DrawPoints(points []float32, size float32, c color.NRGBA)
}

// translated offsets every point before forwarding to the wrapped surface.
type translated struct {
	dst    Surface
	dx, dy float32
	buf    []float32
}

// Translate returns a Surface that shifts points by (dx, dy) before drawing
// them to s. Use it to place an effect built in view-local coordinates onto
// a parent surface.
func Translate(s Surface, dx, dy float32) Surface {
	if dx == 0 && dy == 0 {
		return s
	}
	return &translated{dst: s, dx: dx, dy: dy}
}

func (t *translated) DrawPoints(points []float32, size float32, c color.NRGBA) {
	if cap(t.buf) < len(points) {
		t.buf = make([]float32, len(points))
	}
	t.buf = t.buf[:len(points)]
	for i := 0; i+1 < len(points); i += 2 {
		t.buf[i] = points[i] + t.dx
		t.buf[i+1] = points[i+1] + t.dy
	}
	t.dst.DrawPoints(t.buf, size, c)
}

// ImageSurface draws points into an in-memory image. It is the CPU
// counterpart of EbitenSurface and is what the command-line renderer uses.
type ImageSurface struct {
	img draw.Image
}

// NewImageSurface creates a transparent NRGBA surface of the given size.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// WrapImage returns a surface drawing into img.
func WrapImage(img draw.Image) *ImageSurface {
	return &ImageSurface{img: img}
}

// Image returns the underlying image.
func (s *ImageSurface) Image() draw.Image {
	return s.img
}

// Clear fills the surface with transparent black.
func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill fills the entire surface with c.
func (s *ImageSurface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawPoints implements Surface.
func (s *ImageSurface) DrawPoints(points []float32, size float32, c color.NRGBA) {
	if c.A == 0 || size <= 0 {
		return
	}
	src := image.NewUniform(c)
	bounds := s.img.Bounds()
	half := float64(size) / 2
	for i := 0; i+1 < len(points); i += 2 {
		r := pointRect(float64(points[i]), float64(points[i+1]), half).Intersect(bounds)
		if r.Empty() {
			continue
		}
		draw.Draw(s.img, r, src, image.Point{}, draw.Over)
	}
}

// pointRect returns the pixel rectangle covered by a square of half-side
// half centered on (x, y). Every point covers at least one pixel.
func pointRect(x, y, half float64) image.Rectangle {
	x0 := int(math.Round(x - half))
	y0 := int(math.Round(y - half))
	x1 := int(math.Round(x + half))
	y1 := int(math.Round(y + half))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}

// multiplyAlpha scales the alpha channel of a quantized ARGB color by f.
func multiplyAlpha(argb uint32, f float64) color.NRGBA {
	c := argbToNRGBA(argb)
	c.A = uint8(float64(c.A) * f)
	return c
}

// argbToNRGBA unpacks 0xAARRGGBB.
func argbToNRGBA(argb uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
}

// packARGB packs channels into 0xAARRGGBB.
func packARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
