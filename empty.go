package dispersion

import "image"

// EmptyEffect occupies a region that sampled no particles. It draws nothing
// but still contributes its bounds to a composite and accepts progress, so
// composites never need to special-case missing children.
type EmptyEffect struct {
	bounds   image.Rectangle
	progress float64
}

// NewEmptyEffect creates an EmptyEffect covering bounds.
func NewEmptyEffect(bounds image.Rectangle) *EmptyEffect {
	return &EmptyEffect{bounds: bounds}
}

func (e *EmptyEffect) effect() {}

// Progress implements Effect.
func (e *EmptyEffect) Progress() float64 { return e.progress }

// SetProgress implements Effect.
func (e *EmptyEffect) SetProgress(p float64) { e.progress = clamp01(p) }

// Draw implements Effect. It is a no-op.
func (e *EmptyEffect) Draw(Surface) {}

// Bounds implements Effect.
func (e *EmptyEffect) Bounds() image.Rectangle { return e.bounds }

// Clear implements Effect.
func (e *EmptyEffect) Clear() {
	e.progress = 0
	e.bounds = image.Rectangle{}
}
