package treemovie

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// linkElement is the retained state of one rendered branch. Angles are kept
// un-normalized while a tween is in flight.
type linkElement struct {
	key string

	srcAngle, srcRadius float64
	tgtAngle, tgtRadius float64
	opacity             float64

	// target is the branch's target node in the most recent layout, used for
	// styling. Exiting elements keep their last target.
	target  *TreeNode
	exiting bool
}

// LinkRenderer renders branches as arc-then-line paths.
type LinkRenderer struct {
	elements   map[string]*linkElement
	updateSlot TransitionSlot
	exitSlot   TransitionSlot
}

// NewLinkRenderer creates an empty link renderer.
func NewLinkRenderer() *LinkRenderer {
	return &LinkRenderer{
		elements:   make(map[string]*linkElement),
		updateSlot: TransitionSlot{Name: "links-update"},
		exitSlot:   TransitionSlot{Name: "links-exit"},
	}
}

// Name implements Renderer.
func (r *LinkRenderer) Name() string { return "links" }

func linkElementAt(key string, l Link) *linkElement {
	return &linkElement{
		key:      key,
		srcAngle: l.Source.Angle, srcRadius: l.Source.Radius,
		tgtAngle: l.Target.Angle, tgtRadius: l.Target.Radius,
		opacity: 1,
		target:  l.Target,
	}
}

// Animate implements the three-stage transition for branches.
func (r *LinkRenderer) Animate(from, to *Layout, prev *FramePositions, timing TransitionTiming) {
	d := DiffKeys(from.LinkKeys(), to.LinkKeys())

	// Stage 1: exit. Fade out, then drop, so exiting branches can never be
	// rematched by the next join.
	exitTween := newFieldTween()
	var exiting []string
	for _, key := range d.Exit {
		el := r.elements[key]
		if el == nil {
			continue
		}
		el.exiting = true
		if timing.ExitDuration <= 0 {
			delete(r.elements, key)
			continue
		}
		exitTween.add(&el.opacity, 0, float32(timing.ExitDuration), ease.InSine)
		exiting = append(exiting, key)
	}
	if len(exiting) > 0 {
		exitTween.onComplete = func() {
			for _, key := range exiting {
				delete(r.elements, key)
			}
		}
		r.exitSlot.Start(exitTween)
	}

	// Stage 2: enter. New branches appear at their final position at full
	// opacity.
	for _, key := range d.Enter {
		if l, ok := to.LinkByKey(key); ok {
			r.elements[key] = linkElementAt(key, l)
		}
	}

	// Stage 3: update. Seed from the previous frame's cached positions and
	// tween to the new layout; a cache miss renders the element as an enter.
	update := newFieldTween()
	dur := float32(timing.Duration)
	for _, key := range d.Update {
		l, ok := to.LinkByKey(key)
		if !ok {
			continue
		}
		el := r.elements[key]
		if el == nil || el.exiting {
			r.elements[key] = linkElementAt(key, l)
			continue
		}
		el.target = l.Target
		el.opacity = 1
		p, ok := prevLink(prev, key)
		if !ok {
			el.srcAngle, el.srcRadius = l.Source.Angle, l.Source.Radius
			el.tgtAngle, el.tgtRadius = l.Target.Angle, l.Target.Radius
			continue
		}
		el.srcAngle, el.srcRadius = p.SourceAngle, p.SourceRadius
		el.tgtAngle, el.tgtRadius = p.TargetAngle, p.TargetRadius
		update.add(&el.srcAngle, el.srcAngle+ShortestAngle(el.srcAngle, l.Source.Angle), dur, ease.InOutSine)
		update.add(&el.srcRadius, l.Source.Radius, dur, ease.InOutSine)
		update.add(&el.tgtAngle, el.tgtAngle+ShortestAngle(el.tgtAngle, l.Target.Angle), dur, ease.InOutSine)
		update.add(&el.tgtRadius, l.Target.Radius, dur, ease.InOutSine)
	}
	if len(update.tweens) > 0 {
		r.updateSlot.Start(update)
	}
}

func prevLink(prev *FramePositions, key string) (LinkPosition, bool) {
	if prev == nil {
		return LinkPosition{}, false
	}
	p, ok := prev.Links[key]
	return p, ok
}

// RenderInterpolated implements the scrub path: the union of both frames'
// branches rendered synchronously at parameter t.
func (r *LinkRenderer) RenderInterpolated(from, to *Layout, t float64) {
	r.Cancel()
	next := make(map[string]*linkElement, len(to.Links))
	for _, key := range UnionKeys(from.LinkKeys(), to.LinkKeys()) {
		lf, inFrom := from.LinkByKey(key)
		lt, inTo := to.LinkByKey(key)
		switch {
		case inFrom && inTo:
			el := &linkElement{
				key:       key,
				srcAngle:  LerpAngle(lf.Source.Angle, lt.Source.Angle, t),
				srcRadius: lf.Source.Radius + (lt.Source.Radius-lf.Source.Radius)*t,
				tgtAngle:  LerpAngle(lf.Target.Angle, lt.Target.Angle, t),
				tgtRadius: lf.Target.Radius + (lt.Target.Radius-lf.Target.Radius)*t,
				opacity:   1,
				target:    lt.Target,
			}
			next[key] = el
		case inFrom:
			el := linkElementAt(key, lf)
			el.opacity = 1 - t
			next[key] = el
		default:
			next[key] = linkElementAt(key, lt)
		}
	}
	r.elements = next
}

// RenderInstant snaps every branch to the target layout.
func (r *LinkRenderer) RenderInstant(layout *Layout) {
	r.Cancel()
	next := make(map[string]*linkElement, len(layout.Links))
	for _, l := range layout.Links {
		key := LinkKey(l)
		next[key] = linkElementAt(key, l)
	}
	r.elements = next
}

// Update implements Renderer.
func (r *LinkRenderer) Update(dt float64) bool {
	u := r.updateSlot.Update(float32(dt))
	e := r.exitSlot.Update(float32(dt))
	return u && e
}

// Draw implements Renderer. Elements are drawn in key order so output is
// deterministic.
func (r *LinkRenderer) Draw(ctx *RenderContext) {
	keys := make([]string, 0, len(r.elements))
	for key := range r.elements {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		el := r.elements[key]
		if el.opacity <= 0 {
			continue
		}
		style := ctx.Colors.StyleFor(el.target)
		ctx.Canvas.DrawBranch(
			ctx.safe(key, "srcAngle", el.srcAngle), ctx.safe(key, "srcRadius", el.srcRadius),
			ctx.safe(key, "tgtAngle", el.tgtAngle), ctx.safe(key, "tgtRadius", el.tgtRadius),
			Stroke{
				Color:   style.Color,
				Width:   ctx.StrokeWidth * style.StrokeMultiplier,
				Opacity: clamp(el.opacity, 0, 1),
			})
	}
}

// Cancel implements Renderer.
func (r *LinkRenderer) Cancel() {
	r.updateSlot.Cancel()
	r.exitSlot.Cancel()
	for key, el := range r.elements {
		if el.exiting {
			delete(r.elements, key)
		}
	}
}

// ElementCount implements Renderer.
func (r *LinkRenderer) ElementCount() int {
	n := 0
	for _, el := range r.elements {
		if !el.exiting {
			n++
		}
	}
	return n
}

// Clear implements Renderer.
func (r *LinkRenderer) Clear() {
	r.Cancel()
	r.elements = make(map[string]*linkElement)
}
