package dispersion

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// defaultDuration is the length of an animated dispersion in seconds.
const defaultDuration = 2.0

// Animation drives an effect's progress from 0 to 1 over a fixed duration.
// Call Update(dt) once per frame. The effect itself imposes no timing; this
// is just a convenient clock for hosts that do not have their own.
//
// There is no global animation manager. Callers (or a Controller) call
// Update themselves.
type Animation struct {
	tween  *gween.Tween
	target Effect
	Done   bool
}

// Animate creates an Animation over duration seconds using the easing
// function. A nil fn means ease.InOutSine (slow start, slow finish).
func Animate(e Effect, duration float32, fn ease.TweenFunc) *Animation {
	if duration <= 0 {
		duration = defaultDuration
	}
	if fn == nil {
		fn = ease.InOutSine
	}
	return &Animation{
		tween:  gween.New(0, 1, duration, fn),
		target: e,
	}
}

// Update advances the animation by dt seconds and writes the eased value to
// the effect's progress. Done is set once the end is reached.
func (a *Animation) Update(dt float32) {
	if a.Done {
		return
	}
	val, finished := a.tween.Update(dt)
	a.target.SetProgress(float64(val))
	if finished {
		a.target.SetProgress(1)
		a.Done = true
	}
}

// Reset rewinds the animation and the effect to progress 0.
func (a *Animation) Reset() {
	a.tween.Reset()
	a.target.SetProgress(0)
	a.Done = false
}

// Target returns the animated effect.
func (a *Animation) Target() Effect {
	return a.target
}
