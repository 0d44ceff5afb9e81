package dispersion

import (
	"image"
	"image/color"
	"math"
	"time"
)

// defaultAlphaThreshold is the quantized alpha below which a pixel is
// treated as background.
const defaultAlphaThreshold = 0x0F

// FactoryConfig controls sampling. Zero values select defaults.
type FactoryConfig struct {
	// Tier selects the color quantization preset.
	Tier Tier
	// Density is the display density. It scales particle speed, drift and
	// point size. Zero means 1.
	Density float64
	// AlphaThreshold rejects pixels whose quantized alpha is below it.
	// Zero means 0x0F.
	AlphaThreshold uint8
	// PrepareVelocities, when true, assigns particle velocities during Build
	// so the first rendered frame does no allocation. Otherwise they are
	// assigned on first draw.
	PrepareVelocities bool
}

// Input is everything Build needs. Regions and Override are in view units;
// the snapshot's Scale converts them to buffer pixels.
type Input struct {
	Snapshot Snapshot
	Regions  []image.Rectangle
	// Override, when set, reserves an extra EmptyEffect slot that takes part
	// in bounds and progress but has no particles.
	Override *image.Rectangle
}

// Factory samples snapshots into effect trees. It keeps no state between
// calls, so one Factory may be shared by concurrent builders.
type Factory struct {
	cfg FactoryConfig
}

// NewFactory creates a Factory with the given configuration.
func NewFactory(cfg FactoryConfig) *Factory {
	if cfg.Density <= 0 {
		cfg.Density = 1
	}
	if cfg.AlphaThreshold == 0 {
		cfg.AlphaThreshold = defaultAlphaThreshold
	}
	return &Factory{cfg: cfg}
}

// Config returns the factory's effective configuration.
func (f *Factory) Config() FactoryConfig {
	return f.cfg
}

// Build samples every region of in and returns the resulting effect, or nil
// when no region intersects the snapshot. A region that intersects but
// yields no particles becomes an EmptyEffect. The returned tree does not
// reference in.Snapshot.Pix.
func (f *Factory) Build(in Input) Effect {
	var stats sampleStats
	var t0 time.Time
	if debugEnabled() {
		t0 = time.Now()
	}

	snap := in.Snapshot
	if snap.Scale <= 0 {
		snap.Scale = 1
	}
	if snap.Empty() {
		return nil
	}
	extent := snap.viewExtent()

	capacity := len(in.Regions)
	if in.Override != nil {
		capacity++
	}
	effects := make([]Effect, 0, capacity)
	for _, region := range in.Regions {
		stats.regions++
		bounds := region.Intersect(extent)
		if bounds.Empty() {
			stats.skipped++
			continue
		}
		e := f.sample(snap, bounds, &stats)
		effects = append(effects, e)
	}

	if debugEnabled() {
		stats.elapsed = time.Since(t0)
		logSampleStats(stats)
	}

	if len(effects) == 0 {
		return nil
	}
	if in.Override != nil {
		effects = append(effects, NewEmptyEffect(*in.Override))
	}
	if len(effects) == 1 {
		return effects[0]
	}
	return NewCompositeEffect(effects)
}

// sample builds the effect for one region already clipped to the view.
func (f *Factory) sample(snap Snapshot, bounds image.Rectangle, stats *sampleStats) Effect {
	scale := snap.Scale
	left := max(int(math.Round(float64(bounds.Min.X)*scale)), 0)
	top := max(int(math.Round(float64(bounds.Min.Y)*scale)), 0)
	right := min(int(math.Round(float64(bounds.Max.X)*scale)), snap.Width)
	bottom := min(int(math.Round(float64(bounds.Max.Y)*scale)), snap.Height)

	q := quantizerFor(f.cfg.Tier)
	groups := make(map[uint32]*ParticleGroup)

	// Every other pixel in both directions. The parity of one axis shifts the
	// other by a pixel so neighbouring rows and columns interleave.
	for x := left; x < right-1; x += 2 {
		for y := top; y < bottom-1; y += 2 {
			x1, y1 := x, y
			if y%2 != 0 {
				x1 = x + 1
			}
			if x%2 != 0 {
				y1 = y + 1
			}
			argb, ok := q.quantize(snap.at(x1, y1))
			if !ok || uint8(argb>>24) < f.cfg.AlphaThreshold {
				continue
			}
			g := groups[argb]
			if g == nil {
				g = &ParticleGroup{}
				groups[argb] = g
			}
			g.Append(float32(float64(x1)/scale), float32(float64(y1)/scale))
			stats.points++
		}
	}

	if len(groups) == 0 {
		stats.empty++
		return NewEmptyEffect(bounds)
	}
	stats.colors += len(groups)
	e := NewRegionEffect(bounds, groups, scale, f.cfg.Density)
	if f.cfg.PrepareVelocities {
		e.prepare()
	}
	return e
}

// quantizer holds the number of levels each channel keeps.
type quantizer struct {
	r, g, b, a int
}

func quantizerFor(t Tier) quantizer {
	switch t {
	case TierHigh, TierAverage:
		return quantizer{r: 0b111, g: 0b111, b: 0b11, a: 0b11}
	default:
		return quantizer{r: 0b11, g: 0b111, b: 0b11, a: 0b11}
	}
}

// quantize reduces each channel to its level count and expands it back to
// 8 bits. ok is false when the alpha rounds down to zero.
func (q quantizer) quantize(r, g, b, a uint8) (argb uint32, ok bool) {
	qa := quantizeChannel(a, q.a)
	if qa == 0 {
		return 0, false
	}
	return packARGB(qa, quantizeChannel(r, q.r), quantizeChannel(g, q.g), quantizeChannel(b, q.b)), true
}

func quantizeChannel(v uint8, levels int) uint8 {
	return uint8(int(v) * levels / 0xFF * 0xFF / levels)
}

// Quantize returns the particle color a pixel of color c would be grouped
// under at tier t, as 0xAARRGGBB. ok is false when the pixel would be
// rejected as background under the default alpha threshold.
func Quantize(c color.NRGBA, t Tier) (argb uint32, ok bool) {
	argb, ok = quantizerFor(t).quantize(c.R, c.G, c.B, c.A)
	if !ok || uint8(argb>>24) < defaultAlphaThreshold {
		return 0, false
	}
	return argb, true
}
