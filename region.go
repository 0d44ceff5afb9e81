package dispersion

import (
	"image"
	"sort"
)

const (
	baseStrokeWidth = 1.5  // point size at full opacity, per density unit
	baseSpeed       = 0.2  // minimum particle speed per frame, per density unit
	driftStrength   = 0.12 // upward pull per frame at progress 1, per density unit
)

// RegionEffect disperses the particles sampled from one rectangular region.
//
// Each color keeps a reveal count: the number of leading points that the
// left-to-right sweep line has passed. Only revealed points are drawn and
// simulated; the rest stay where sampling put them.
type RegionEffect struct {
	bounds      image.Rectangle
	colors      []uint32 // ascending
	groups      []*ParticleGroup
	revealed    []int
	progress    float64
	strokeWidth float32
	density     float32
	cleared     bool
}

// NewRegionEffect creates an effect over bounds from particles grouped by
// quantized ARGB color. scale is the capture scale the particles were
// sampled at and density the display density (zero means 1).
func NewRegionEffect(bounds image.Rectangle, groups map[uint32]*ParticleGroup, scale, density float64) *RegionEffect {
	if density <= 0 {
		density = 1
	}
	if scale <= 0 {
		scale = 1
	}
	e := &RegionEffect{
		bounds:      bounds,
		colors:      make([]uint32, 0, len(groups)),
		strokeWidth: float32(density * baseStrokeWidth * clamp(0.5/scale, 1, 1.15)),
		density:     float32(density),
	}
	for c := range groups {
		e.colors = append(e.colors, c)
	}
	sort.Slice(e.colors, func(i, j int) bool { return e.colors[i] < e.colors[j] })
	e.groups = make([]*ParticleGroup, len(e.colors))
	for i, c := range e.colors {
		e.groups[i] = groups[c]
	}
	e.revealed = make([]int, len(e.colors))
	return e
}

func (e *RegionEffect) effect() {}

// Progress implements Effect.
func (e *RegionEffect) Progress() float64 {
	return e.progress
}

// SetProgress implements Effect. Progress 0 hides every particle again;
// any other value advances the sweep line and reveals the points it passed.
func (e *RegionEffect) SetProgress(p float64) {
	if e.cleared {
		debugWarnCleared("SetProgress", e.bounds)
	}
	p = clamp01(p)
	e.progress = p
	if p <= 0 {
		for i := range e.revealed {
			e.revealed[i] = 0
		}
		return
	}
	sweep := sweepFactor(p)
	maxX := float32(lerp(float64(e.bounds.Min.X), float64(e.bounds.Max.X), sweep))
	for i, g := range e.groups {
		// Once the line has crossed the region everything is revealed, even
		// points the first velocity step pushed past the right edge.
		if sweep >= 1 {
			e.revealed[i] = g.count
			continue
		}
		// The sweep only moves right while progress rises, so points behind
		// the previous count are never rechecked.
		n := e.revealed[i]
		for ; n < g.count; n++ {
			if g.points[n*2] > maxX {
				break
			}
		}
		e.revealed[i] = n
	}
}

// Draw implements Effect. Particles keep full opacity during the sweep and
// fade out over the second half of progress while shrinking to half size.
// Each call also advances the simulation by one frame.
func (e *RegionEffect) Draw(s Surface) {
	if e.cleared {
		debugWarnCleared("Draw", e.bounds)
	}
	if len(e.groups) == 0 || e.bounds.Empty() {
		return
	}
	alpha := e.Alpha()
	size := e.PointSize()
	for i, g := range e.groups {
		n := e.revealed[i]
		if n == 0 {
			continue
		}
		c := argbToNRGBA(e.colors[i])
		if alpha < 1 {
			c = multiplyAlpha(e.colors[i], alpha)
		}
		s.DrawPoints(g.Points(n), size, c)
	}
	e.nextFrame()
}

// Alpha returns the opacity multiplier for the current progress.
func (e *RegionEffect) Alpha() float64 {
	if e.progress <= 0.5 {
		return 1
	}
	return (1 - e.progress) * 2
}

// PointSize returns the side of each point sprite for the current progress.
func (e *RegionEffect) PointSize() float32 {
	alpha := e.Alpha()
	if alpha >= 1 {
		return e.strokeWidth
	}
	return lerp32(e.strokeWidth*0.5, e.strokeWidth, float32(alpha))
}

// nextFrame moves every revealed point by its velocity. Past the midpoint a
// growing upward pull is added to the velocities.
func (e *RegionEffect) nextFrame() {
	var dy float32
	if e.progress > 0.5 {
		dy = -float32((e.progress-0.5)/0.5) * e.density * driftStrength
	}
	for i, g := range e.groups {
		g.EnsureVelocities(e.density * baseSpeed)
		g.Advance(e.revealed[i], dy)
	}
}

// prepare assigns velocities to every group ahead of the first frame.
func (e *RegionEffect) prepare() {
	for _, g := range e.groups {
		g.EnsureVelocities(e.density * baseSpeed)
	}
}

// Bounds implements Effect.
func (e *RegionEffect) Bounds() image.Rectangle {
	return e.bounds
}

// Clear implements Effect.
func (e *RegionEffect) Clear() {
	for _, g := range e.groups {
		g.release()
	}
	e.groups = nil
	e.colors = nil
	e.revealed = nil
	e.progress = 0
	e.bounds = image.Rectangle{}
	e.cleared = true
}

// StrokeWidth returns the point size at full opacity.
func (e *RegionEffect) StrokeWidth() float32 {
	return e.strokeWidth
}

// ColorCount returns the number of quantized colors.
func (e *RegionEffect) ColorCount() int {
	return len(e.colors)
}

// Colors returns the quantized ARGB colors in draw order. The returned slice
// MUST NOT be mutated.
func (e *RegionEffect) Colors() []uint32 {
	return e.colors
}

// Group returns the particles for a color, or nil.
func (e *RegionEffect) Group(argb uint32) *ParticleGroup {
	if i, ok := e.indexOf(argb); ok {
		return e.groups[i]
	}
	return nil
}

// Revealed returns the reveal count for a color.
func (e *RegionEffect) Revealed(argb uint32) int {
	if i, ok := e.indexOf(argb); ok {
		return e.revealed[i]
	}
	return 0
}

// PointCount returns the total number of particles across all colors.
func (e *RegionEffect) PointCount() int {
	n := 0
	for _, g := range e.groups {
		n += g.count
	}
	return n
}

func (e *RegionEffect) indexOf(argb uint32) (int, bool) {
	i := sort.Search(len(e.colors), func(i int) bool { return e.colors[i] >= argb })
	return i, i < len(e.colors) && e.colors[i] == argb
}
