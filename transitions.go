package treemovie

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween plumbing for staged transitions. A fieldTween group drives any number
// of float64 fields through gween tweens; a TransitionSlot holds the group
// currently animating one renderer stage, by name, so a superseding
// transition (or a scrub) can cancel it explicitly.

// fieldTween animates float64 fields in lockstep. Callers create one with
// newFieldTween, add fields, and call Update(dt) each tick until it reports
// done.
type fieldTween struct {
	tweens []*gween.Tween
	fields []*float64
	done   bool

	// onComplete fires once, after the final Update writes the end values.
	onComplete func()
}

func newFieldTween() *fieldTween {
	return &fieldTween{}
}

// add registers a field to animate from its current value to the target.
func (g *fieldTween) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens = append(g.tweens, gween.New(float32(*field), float32(to), duration, fn))
	g.fields = append(g.fields, field)
}

// Update advances all tweens by dt seconds and writes the values through.
// Returns true when every tween has finished.
func (g *fieldTween) Update(dt float32) bool {
	if g.done {
		return true
	}
	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		g.done = true
		if g.onComplete != nil {
			g.onComplete()
			g.onComplete = nil
		}
	}
	return g.done
}

// TransitionSlot is a named holder for the tween group animating one
// renderer stage. Starting a new group supersedes the old one without
// running its completion hook; Cancel drops the group outright.
type TransitionSlot struct {
	Name   string
	active *fieldTween
}

// Start replaces the slot's active group.
func (s *TransitionSlot) Start(g *fieldTween) {
	if s.active != nil && !s.active.done {
		// Superseded: the old group's completion hook must not fire.
		s.active.onComplete = nil
	}
	s.active = g
}

// Cancel drops any in-flight group. The fields keep their current values.
func (s *TransitionSlot) Cancel() {
	if s.active != nil {
		s.active.onComplete = nil
		s.active = nil
	}
}

// Update advances the active group. Returns true when the slot is idle.
func (s *TransitionSlot) Update(dt float32) bool {
	if s.active == nil {
		return true
	}
	if s.active.Update(dt) {
		s.active = nil
		return true
	}
	return false
}

// Idle reports whether no group is animating.
func (s *TransitionSlot) Idle() bool {
	return s.active == nil
}
