package dispersion

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with fractional edges. The coordinate
// system has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Bounds returns the smallest integer rectangle containing r.
func (r Rect) Bounds() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// rectFrom converts an integer rectangle to a Rect.
func rectFrom(b image.Rectangle) Rect {
	return Rect{
		X:      float64(b.Min.X),
		Y:      float64(b.Min.Y),
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
	}
}

// Tier is a device performance class. It selects how many bits each color
// channel keeps during sampling.
type Tier uint8

const (
	TierLow     Tier = iota // coarsest quantization, green keeps the most bits
	TierAverage             // same presets as TierHigh
	TierHigh                // red and green keep 3 bits, blue keeps 2
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierAverage:
		return "average"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier maps "low", "average" or "high" to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "average":
		return TierAverage, nil
	case "high":
		return TierHigh, nil
	}
	return TierLow, fmt.Errorf("unknown tier %q", s)
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// sweepFactor maps progress to the fraction of the left-to-right sweep that
// has been covered. The sweep completes over the first half of progress.
func sweepFactor(progress float64) float64 {
	return clamp01(progress * 2)
}
