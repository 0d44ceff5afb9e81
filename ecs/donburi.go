package ecs

import (
	"github.com/phanxgames/dispersion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EffectEventType is the Donburi event type for dispersion lifecycle events.
var EffectEventType = events.NewEventType[dispersion.EffectEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on EffectEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) dispersion.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event dispersion.EffectEvent) {
	EffectEventType.Publish(s.world, event)
}
