package dispersion

import "image"

// clipOffset is the margin, in density-independent units, by which the clip
// rectangle's left edge starts ahead of the region.
const clipOffset = 6.0

// Effect is a dispersion effect driven by a progress value in [0, 1].
//
// The set of implementations is closed: RegionEffect, EmptyEffect and
// CompositeEffect. An Effect is owned by a single goroutine (the host's
// render loop); none of its methods are safe for concurrent use.
type Effect interface {
	// Progress returns the stored progress, always within [0, 1].
	Progress() float64
	// SetProgress clamps p to [0, 1] and moves the effect to that state.
	SetProgress(p float64)
	// Draw renders the current state to s and steps the simulation by one
	// frame.
	Draw(s Surface)
	// Bounds returns the area the effect covers in view coordinates. It is
	// empty once the effect has been cleared.
	Bounds() image.Rectangle
	// Clear releases all particle storage and resets progress to 0. The
	// effect must not be reused for drawing afterwards, but every method
	// remains safe to call.
	Clear()

	effect()
}

// ClipRect returns the part of e's bounds the host has to repaint. The left
// edge starts slightly ahead of the bounds and reaches the right edge when
// progress hits 0.5. density scales that margin; zero means 1.
func ClipRect(e Effect, density float64) Rect {
	b := e.Bounds()
	if b.Empty() {
		return Rect{}
	}
	if density <= 0 {
		density = 1
	}
	r := rectFrom(b)
	left := float64(b.Min.X)
	right := float64(b.Max.X)
	x := clamp(lerp(left-clipOffset*density, right, sweepFactor(e.Progress())), left, right)
	r.X = x
	r.Width = right - x
	return r
}
