package dispersion

import "image"

// CompositeEffect groups the effects of several regions and staggers their
// progress horizontally: a sweep line crosses the union of all child bounds
// during the first half of progress, and each child ramps from 0 to 0.5 as
// the line crosses its own bounds. In the second half every child receives
// the same progress and they fade out together.
type CompositeEffect struct {
	children []Effect
	bounds   *image.Rectangle // nil until computed
	progress float64
}

// NewCompositeEffect creates a composite over children. Draw order follows
// the slice order.
func NewCompositeEffect(children []Effect) *CompositeEffect {
	return &CompositeEffect{children: children}
}

func (e *CompositeEffect) effect() {}

// Progress implements Effect.
func (e *CompositeEffect) Progress() float64 {
	return e.progress
}

// SetProgress implements Effect. Setting the current value again does not
// touch the children.
func (e *CompositeEffect) SetProgress(p float64) {
	p = clamp01(p)
	if p == e.progress {
		return
	}
	e.progress = p
	e.dispatch(p)
}

func (e *CompositeEffect) dispatch(p float64) {
	b := e.Bounds()
	x := lerp(float64(b.Min.X), float64(b.Max.X), sweepFactor(p))
	for _, child := range e.children {
		if p > 0.5 {
			child.SetProgress(p)
			continue
		}
		child.SetProgress(childProgress(x, child.Bounds()))
	}
}

// childProgress maps the composite sweep position x to the progress of a
// child covering cb, within [0, 0.5].
func childProgress(x float64, cb image.Rectangle) float64 {
	left := float64(cb.Min.X)
	w := float64(cb.Dx())
	if w <= 0 {
		if x >= left {
			return 0.5
		}
		return 0
	}
	return clamp((x-left)/w*0.5, 0, 0.5)
}

// Draw implements Effect.
func (e *CompositeEffect) Draw(s Surface) {
	for _, child := range e.children {
		child.Draw(s)
	}
}

// Bounds implements Effect. The union of the children's bounds is computed
// on first use and cached until Clear.
func (e *CompositeEffect) Bounds() image.Rectangle {
	if e.bounds == nil {
		b := unionBounds(e.children)
		e.bounds = &b
	}
	return *e.bounds
}

// unionBounds returns the smallest rectangle containing every non-empty
// child's bounds.
func unionBounds(children []Effect) image.Rectangle {
	var b image.Rectangle
	for _, child := range children {
		b = b.Union(child.Bounds())
	}
	return b
}

// Clear implements Effect.
func (e *CompositeEffect) Clear() {
	e.bounds = nil
	e.progress = 0
	for _, child := range e.children {
		child.Clear()
	}
	e.children = nil
}

// Children returns the child effects in draw order. The returned slice MUST
// NOT be mutated.
func (e *CompositeEffect) Children() []Effect {
	return e.children
}
