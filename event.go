package dispersion

import (
	"fmt"
	"image"
)

// EventType identifies a controller lifecycle event.
type EventType uint8

const (
	EventPrepared  EventType = iota // a preparation finished and its effect was installed
	EventDiscarded                  // a preparation finished after being superseded or cleared
	EventStarted                    // an animation started for an installed effect
	EventFinished                   // an animation reached progress 1
	EventCleared                    // an effect was removed and cleared
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPrepared:
		return "prepared"
	case EventDiscarded:
		return "discarded"
	case EventStarted:
		return "started"
	case EventFinished:
		return "finished"
	case EventCleared:
		return "cleared"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// EffectEvent describes a lifecycle change of the effect for Key.
type EffectEvent struct {
	Type       EventType
	Key        any
	Generation uint64
	Bounds     image.Rectangle
}

// EventSink receives controller lifecycle events on the render goroutine.
// The ecs submodule provides a Donburi-backed implementation.
type EventSink interface {
	EmitEvent(event EffectEvent)
}
