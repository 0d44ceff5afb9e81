package dispersion

import (
	"math"
	"math/rand/v2"
)

// initialPointCapacity is the number of floats (x,y pairs) allocated on the
// first Append.
const initialPointCapacity = 10

// ParticleGroup holds the sampled points of one quantized color and their
// velocities. Points are kept in sampling order and never reordered.
type ParticleGroup struct {
	points []float32 // interleaved x, y
	count  int
	delta  []float32 // interleaved dx, dy; nil until EnsureVelocities
}

// Append adds a point. Storage doubles when full.
func (g *ParticleGroup) Append(x, y float32) {
	if g.count*2 == len(g.points) {
		if len(g.points) == 0 {
			g.points = make([]float32, initialPointCapacity)
		} else {
			grown := make([]float32, len(g.points)*2)
			copy(grown, g.points)
			g.points = grown
		}
	}
	g.points[g.count*2] = x
	g.points[g.count*2+1] = y
	g.count++
}

// Len returns the number of points.
func (g *ParticleGroup) Len() int {
	return g.count
}

// Cap returns the number of points the group can hold before growing.
func (g *ParticleGroup) Cap() int {
	return len(g.points) / 2
}

// Point returns the current position of point i.
func (g *ParticleGroup) Point(i int) (x, y float32) {
	return g.points[i*2], g.points[i*2+1]
}

// Velocity returns the velocity of point i, or zero before EnsureVelocities.
func (g *ParticleGroup) Velocity(i int) (dx, dy float32) {
	if g.delta == nil {
		return 0, 0
	}
	return g.delta[i*2], g.delta[i*2+1]
}

// Points returns the first n points as interleaved x, y pairs. The slice
// aliases the group's storage and MUST NOT be retained or mutated.
func (g *ParticleGroup) Points(n int) []float32 {
	n = min(max(n, 0), g.count)
	return g.points[:n*2]
}

// HasVelocities reports whether EnsureVelocities has run.
func (g *ParticleGroup) HasVelocities() bool {
	return g.delta != nil
}

// EnsureVelocities assigns every point a random direction and a magnitude in
// [speed, 2*speed), then moves each point by one step so motion is visible
// on the first frame. Only the first call has any effect.
func (g *ParticleGroup) EnsureVelocities(speed float32) {
	if g.delta != nil {
		return
	}
	delta := make([]float32, g.count*2)
	for i := 0; i < g.count; i++ {
		direction := rand.Float64() * math.Pi * 2
		velocity := float64(speed) * (1 + rand.Float64())
		x := i * 2
		y := x + 1
		delta[x] = float32(math.Cos(direction) * velocity)
		delta[y] = float32(math.Sin(direction) * velocity)
		g.points[x] += delta[x]
		g.points[y] += delta[y]
	}
	g.delta = delta
}

// Advance integrates the first n points by one step. dy is added to each
// point's vertical velocity first and stays there, so a repeated bias
// compounds across frames.
func (g *ParticleGroup) Advance(n int, dy float32) {
	if g.delta == nil {
		return
	}
	// Points appended after velocities were assigned stay frozen.
	n = min(n, g.count, len(g.delta)/2)
	for i := 0; i < n; i++ {
		x := i * 2
		y := x + 1
		if dy != 0 {
			g.delta[y] += dy
		}
		g.points[x] += g.delta[x]
		g.points[y] += g.delta[y]
	}
}

// release drops the group's storage.
func (g *ParticleGroup) release() {
	g.points = nil
	g.delta = nil
	g.count = 0
}
