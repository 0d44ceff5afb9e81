package dispersion

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// whitePixel is the 1x1 source image every point quad samples from.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// EbitenSurface draws points onto an *ebiten.Image. Each DrawPoints call is
// submitted as a single DrawTriangles32 call.
type EbitenSurface struct {
	target *ebiten.Image
	blend  ebiten.Blend
	verts  []ebiten.Vertex
	inds   []uint32
}

// NewEbitenSurface creates a surface drawing onto target with source-over
// blending.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{target: target, blend: ebiten.BlendSourceOver}
}

// SetTarget switches the destination image, typically the screen passed to
// each Draw call.
func (s *EbitenSurface) SetTarget(target *ebiten.Image) {
	s.target = target
}

// SetBlend sets the blend used for subsequent points.
func (s *EbitenSurface) SetBlend(b ebiten.Blend) {
	s.blend = b
}

// DrawPoints implements Surface.
func (s *EbitenSurface) DrawPoints(points []float32, size float32, c color.NRGBA) {
	if s.target == nil || c.A == 0 || len(points) < 2 {
		return
	}
	s.verts, s.inds = appendPointQuads(s.verts[:0], s.inds[:0], points, size, c)
	if len(s.verts) == 0 {
		return
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = s.blend
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha

	s.target.DrawTriangles32(s.verts, s.inds, ensureWhitePixel(), &triOp)
}

// appendPointQuads appends one quad (4 vertices, 6 indices) per point. Vertex
// colors are premultiplied and every vertex samples the center of a 1x1
// source.
func appendPointQuads(verts []ebiten.Vertex, inds []uint32, points []float32, size float32, c color.NRGBA) ([]ebiten.Vertex, []uint32) {
	half := size / 2
	ca := float32(c.A) / 0xFF
	cr := float32(c.R) / 0xFF * ca
	cg := float32(c.G) / 0xFF * ca
	cb := float32(c.B) / 0xFF * ca

	for i := 0; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		// TL, TR, BL, BR
		qx := [4]float32{x - half, x + half, x - half, x + half}
		qy := [4]float32{y - half, y - half, y + half, y + half}

		base := uint32(len(verts))
		for j := 0; j < 4; j++ {
			verts = append(verts, ebiten.Vertex{
				DstX:   qx[j],
				DstY:   qy[j],
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		// Two triangles: TL-TR-BL, TR-BR-BL
		inds = append(inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	return verts, inds
}

// SnapshotFromEbiten captures img at the given scale. Ebiten images hold
// premultiplied pixels, so they are converted to straight alpha first. It
// must be called while the game loop is running.
func SnapshotFromEbiten(img *ebiten.Image, scale float64) Snapshot {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return Snapshot{Scale: scale}
	}
	view := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.ReadPixels(view.Pix)
	unpremultiply(view.Pix)
	if scale == 1 {
		return Snapshot{Pix: view.Pix, Width: w, Height: h, Stride: view.Stride, Scale: 1}
	}
	return NewSnapshot(view, scale)
}
