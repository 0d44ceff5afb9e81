package dispersion

import (
	"image"
	"image/color"
	"testing"
)

func TestFactory_Defaults(t *testing.T) {
	cfg := NewFactory(FactoryConfig{}).Config()
	if cfg.Density != 1 || cfg.AlphaThreshold != 0x0F || cfg.Tier != TierLow {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestFactory_SolidRegion(t *testing.T) {
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(20, 20, 200, 100, 50, 255), 20, 20, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 20, 20)},
	})
	re, ok := e.(*RegionEffect)
	if !ok {
		t.Fatalf("Build returned %T, want *RegionEffect", e)
	}
	if re.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Errorf("Bounds = %v", re.Bounds())
	}
	if re.ColorCount() != 1 || re.Colors()[0] != 0xFFB64800 {
		t.Fatalf("Colors = %x, want [ffb64800]", re.Colors())
	}
	if re.PointCount() != 100 {
		t.Errorf("PointCount = %d, want 100", re.PointCount())
	}
	if re.Group(0xFFB64800).HasVelocities() {
		t.Error("velocities assigned at build time without PrepareVelocities")
	}
}

func TestFactory_SolidRegionFadesOut(t *testing.T) {
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(20, 20, 200, 100, 50, 255), 20, 20, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 20, 20)},
	})
	re := e.(*RegionEffect)

	e.SetProgress(1)
	var rec recordSurface
	e.Draw(&rec)
	if rec.pointCount() != 100 {
		t.Fatalf("points drawn = %d, want 100", rec.pointCount())
	}
	for _, call := range rec.calls {
		if call.color.A != 0 {
			t.Errorf("alpha = %d, want 0", call.color.A)
		}
		assertNear(t, "size", float64(call.size), float64(re.StrokeWidth())/2)
	}
}

func TestFactory_PrepareVelocities(t *testing.T) {
	f := NewFactory(FactoryConfig{PrepareVelocities: true})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(4, 4, 255, 255, 255, 255), 4, 4, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 4, 4)},
	})
	if !e.(*RegionEffect).Group(0xFFFFFFFF).HasVelocities() {
		t.Error("PrepareVelocities did not assign velocities")
	}
}

func TestFactory_SamplingParity(t *testing.T) {
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(8, 4, 0, 0, 0, 255), 8, 4, 1),
		Regions:  []image.Rectangle{image.Rect(1, 0, 7, 4)},
	}).(*RegionEffect)

	g := e.Group(0xFF000000)
	want := [][2]float32{{1, 1}, {1, 3}, {3, 1}, {3, 3}, {5, 1}, {5, 3}}
	if g.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", g.Len(), len(want))
	}
	for i, w := range want {
		if x, y := g.Point(i); x != w[0] || y != w[1] {
			t.Errorf("Point(%d) = (%v, %v), want %v", i, x, y, w)
		}
	}
}

func TestFactory_ScaledSnapshot(t *testing.T) {
	// A 10x10 buffer captured at half scale covers a 20x20 view.
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(10, 10, 0, 0, 0, 255), 10, 10, 0.5),
		Regions:  []image.Rectangle{image.Rect(0, 0, 20, 20)},
	}).(*RegionEffect)

	g := e.Group(0xFF000000)
	if g.Len() != 25 {
		t.Fatalf("Len = %d, want 25", g.Len())
	}
	if x, y := g.Point(g.Len() - 1); x != 16 || y != 16 {
		t.Errorf("last point = (%v, %v), want view coordinates (16, 16)", x, y)
	}
}

func TestFactory_TransparentRegionIsEmpty(t *testing.T) {
	f := NewFactory(FactoryConfig{})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(10, 10, 255, 0, 0, 0), 10, 10, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 10, 10)},
	})
	ee, ok := e.(*EmptyEffect)
	if !ok {
		t.Fatalf("Build returned %T, want *EmptyEffect", e)
	}
	if ee.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("Bounds = %v", ee.Bounds())
	}
}

func TestFactory_RegionOutsideSnapshot(t *testing.T) {
	f := NewFactory(FactoryConfig{})
	snap := SnapshotFromPixels(solidPixels(10, 10, 255, 0, 0, 255), 10, 10, 1)
	ov := image.Rect(0, 0, 50, 50)

	if e := f.Build(Input{Snapshot: snap, Regions: []image.Rectangle{image.Rect(20, 20, 30, 30)}}); e != nil {
		t.Errorf("disjoint region: got %T, want nil", e)
	}
	if e := f.Build(Input{Snapshot: snap, Override: &ov}); e != nil {
		t.Errorf("override alone: got %T, want nil", e)
	}
	if e := f.Build(Input{Regions: []image.Rectangle{image.Rect(0, 0, 10, 10)}}); e != nil {
		t.Errorf("empty snapshot: got %T, want nil", e)
	}
}

func TestFactory_ClipsRegionToSnapshot(t *testing.T) {
	f := NewFactory(FactoryConfig{})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(10, 10, 255, 0, 0, 255), 10, 10, 1),
		Regions:  []image.Rectangle{image.Rect(-5, 4, 30, 30)},
	})
	if e.Bounds() != image.Rect(0, 4, 10, 10) {
		t.Errorf("Bounds = %v, want (0,4)-(10,10)", e.Bounds())
	}
}

func TestFactory_CompositeWithOverride(t *testing.T) {
	f := NewFactory(FactoryConfig{})
	ov := image.Rect(0, 0, 40, 10)
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(20, 10, 255, 0, 0, 255), 20, 10, 1),
		Regions: []image.Rectangle{
			image.Rect(0, 0, 8, 10),
			image.Rect(10, 0, 20, 10),
			image.Rect(100, 0, 120, 10), // skipped
		},
		Override: &ov,
	})
	c, ok := e.(*CompositeEffect)
	if !ok {
		t.Fatalf("Build returned %T, want *CompositeEffect", e)
	}
	children := c.Children()
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3", len(children))
	}
	if _, ok := children[2].(*EmptyEffect); !ok || children[2].Bounds() != ov {
		t.Errorf("last child = %T %v, want override EmptyEffect", children[2], children[2].Bounds())
	}
	if c.Bounds() != image.Rect(0, 0, 40, 10) {
		t.Errorf("Bounds = %v, want union with override", c.Bounds())
	}
}

func TestFactory_Deterministic(t *testing.T) {
	pix := make([]byte, 16*16*4)
	for i := range pix {
		pix[i] = byte(i * 37)
	}
	in := Input{
		Snapshot: SnapshotFromPixels(pix, 16, 16, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 16, 16)},
	}
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	a, ok1 := f.Build(in).(*RegionEffect)
	b, ok2 := f.Build(in).(*RegionEffect)
	if !ok1 || !ok2 {
		t.Fatal("expected region effects")
	}
	if a.ColorCount() != b.ColorCount() || a.PointCount() != b.PointCount() {
		t.Fatalf("builds differ: %d/%d colors, %d/%d points", a.ColorCount(), b.ColorCount(), a.PointCount(), b.PointCount())
	}
	for _, c := range a.Colors() {
		ga, gb := a.Group(c), b.Group(c)
		for i := 0; i < ga.Len(); i++ {
			xa, ya := ga.Point(i)
			xb, yb := gb.Point(i)
			if xa != xb || ya != yb {
				t.Fatalf("color %x point %d differs", c, i)
			}
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		tier Tier
		want uint32
		ok   bool
	}{
		{"high", color.NRGBA{200, 100, 50, 255}, TierHigh, 0xFFB64800, true},
		{"average matches high", color.NRGBA{200, 100, 50, 255}, TierAverage, 0xFFB64800, true},
		{"low", color.NRGBA{200, 100, 50, 255}, TierLow, 0xFFAA4800, true},
		{"white", color.NRGBA{255, 255, 255, 255}, TierHigh, 0xFFFFFFFF, true},
		{"faint alpha rejected", color.NRGBA{255, 255, 255, 60}, TierHigh, 0, false},
		{"low alpha kept", color.NRGBA{0, 0, 0, 100}, TierHigh, 0x55000000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Quantize(tt.c, tt.tier)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Quantize(%v, %v) = %08x, %v; want %08x, %v", tt.c, tt.tier, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFactory_AlphaThreshold(t *testing.T) {
	f := NewFactory(FactoryConfig{AlphaThreshold: 0x60})
	e := f.Build(Input{
		Snapshot: SnapshotFromPixels(solidPixels(4, 4, 0, 0, 0, 100), 4, 4, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 4, 4)},
	})
	if _, ok := e.(*EmptyEffect); !ok {
		t.Errorf("Build returned %T, want *EmptyEffect below threshold", e)
	}
}

func BenchmarkFactory_Build(b *testing.B) {
	pix := make([]byte, 256*256*4)
	for i := range pix {
		pix[i] = byte(i * 13)
	}
	in := Input{
		Snapshot: SnapshotFromPixels(pix, 256, 256, 1),
		Regions:  []image.Rectangle{image.Rect(0, 0, 256, 256)},
	}
	f := NewFactory(FactoryConfig{Tier: TierHigh})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Build(in).Clear()
	}
}
