// Package ecs bridges dispersion controller events into a [Donburi] world.
//
// [NewDonburiSink] returns a [dispersion.EventSink] that publishes every
// [dispersion.EffectEvent] to [EffectEventType]. Subscribe to it in your ECS
// systems to react when an effect is prepared, starts, finishes or is
// cleared.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	ctrl := dispersion.NewController[donburi.Entity](ctx, dispersion.ControllerConfig{
//		Events: sink,
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
