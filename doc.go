// Package dispersion turns a snapshot of a view into a cloud of colored
// particles and animates it dissolving away, a "thanos snap" transition for
// [Ebitengine] games and offline renderers.
//
// An effect is built once from a [Snapshot] by a [Factory], then driven by a
// single progress value in [0, 1]. As progress rises a vertical sweep line
// moves left to right across the effect's bounds. Every particle behind the
// line is revealed and starts drifting, while the whole cloud fades out and
// its points shrink.
//
// # Quick start
//
//	snap := dispersion.NewSnapshot(cardImage, 0.5)
//	f := dispersion.NewFactory(dispersion.FactoryConfig{Tier: dispersion.TierHigh})
//	e := f.Build(dispersion.Input{
//		Snapshot: snap,
//		Regions:  []image.Rectangle{image.Rect(0, 0, 320, 200)},
//	})
//	anim := dispersion.Animate(e, 2, nil)
//
//	// each frame
//	anim.Update(1.0 / 60)
//	e.Draw(dispersion.NewEbitenSurface(screen))
//
// # Effects
//
// [Factory.Build] returns one of three [Effect] implementations:
//
//   - [RegionEffect] holds one [ParticleGroup] per quantized color sampled
//     from a single rectangle of the snapshot.
//   - [EmptyEffect] occupies bounds but draws nothing. It stands in for
//     regions with no visible pixels so the sweep timing still accounts
//     for them.
//   - [CompositeEffect] staggers several children so the sweep travels
//     across their union as one line.
//
// [ClipRect] returns the area an effect may paint into, padded for drift.
//
// # Surfaces
//
// Effects draw through the [Surface] interface. [EbitenSurface] batches
// every color into one DrawTriangles32 call. [ImageSurface] rasterizes on
// the CPU and backs the dispersion command and [ScriptRunner].
//
// # Controller
//
// [Controller] keeps keyed effects alive across frames. Snapshots can be
// sampled on a worker pool with [Controller.PrepareAsync]. Results are
// applied in [Controller.Update] on the game goroutine and stale results
// are discarded by generation. Lifecycle events go to an [EventSink]; the
// dispersion/ecs module forwards them to a [Donburi] world.
//
// Logging goes through a [zap] logger set with [SetLogger]. It is silent
// by default.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
// [zap]: https://pkg.go.dev/go.uber.org/zap
package dispersion
