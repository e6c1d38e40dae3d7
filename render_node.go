package treemovie

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// nodeElement is the retained state of one rendered node marker.
type nodeElement struct {
	key string

	angle, radius float64
	opacity       float64

	node    *TreeNode
	exiting bool
}

// NodeRenderer renders node markers at each tree node's polar position.
type NodeRenderer struct {
	elements   map[string]*nodeElement
	updateSlot TransitionSlot
	exitSlot   TransitionSlot
}

// NewNodeRenderer creates an empty node renderer.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{
		elements:   make(map[string]*nodeElement),
		updateSlot: TransitionSlot{Name: "nodes-update"},
		exitSlot:   TransitionSlot{Name: "nodes-exit"},
	}
}

// Name implements Renderer.
func (r *NodeRenderer) Name() string { return "nodes" }

func nodeElementAt(key string, n *TreeNode) *nodeElement {
	return &nodeElement{key: key, angle: n.Angle, radius: n.Radius, opacity: 1, node: n}
}

// Animate implements the three-stage transition for node markers.
func (r *NodeRenderer) Animate(from, to *Layout, prev *FramePositions, timing TransitionTiming) {
	d := DiffKeys(from.NodeKeys(), to.NodeKeys())

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

	for _, key := range d.Enter {
		if n, ok := to.NodeByKey(key); ok {
			r.elements[key] = nodeElementAt(key, n)
		}
	}

	update := newFieldTween()
	dur := float32(timing.Duration)
	for _, key := range d.Update {
		n, ok := to.NodeByKey(key)
		if !ok {
			continue
		}
		el := r.elements[key]
		if el == nil || el.exiting {
			r.elements[key] = nodeElementAt(key, n)
			continue
		}
		el.node = n
		el.opacity = 1
		if prev == nil {
			el.angle, el.radius = n.Angle, n.Radius
			continue
		}
		p, ok := prev.Nodes[key]
		if !ok {
			el.angle, el.radius = n.Angle, n.Radius
			continue
		}
		el.angle, el.radius = p.Angle, p.Radius
		update.add(&el.angle, el.angle+ShortestAngle(el.angle, n.Angle), dur, ease.InOutSine)
		update.add(&el.radius, n.Radius, dur, ease.InOutSine)
	}
	if len(update.tweens) > 0 {
		r.updateSlot.Start(update)
	}
}

// RenderInterpolated implements the scrub path for node markers.
func (r *NodeRenderer) RenderInterpolated(from, to *Layout, t float64) {
	r.Cancel()
	next := make(map[string]*nodeElement)
	for _, key := range UnionKeys(from.NodeKeys(), to.NodeKeys()) {
		nf, inFrom := from.NodeByKey(key)
		nt, inTo := to.NodeByKey(key)
		switch {
		case inFrom && inTo:
			next[key] = &nodeElement{
				key:     key,
				angle:   LerpAngle(nf.Angle, nt.Angle, t),
				radius:  nf.Radius + (nt.Radius-nf.Radius)*t,
				opacity: 1,
				node:    nt,
			}
		case inFrom:
			el := nodeElementAt(key, nf)
			el.opacity = 1 - t
			next[key] = el
		default:
			next[key] = nodeElementAt(key, nt)
		}
	}
	r.elements = next
}

// RenderInstant snaps every node marker to the target layout.
func (r *NodeRenderer) RenderInstant(layout *Layout) {
	r.Cancel()
	next := make(map[string]*nodeElement, layout.nodeCount)
	layout.Root.Walk(func(n *TreeNode) {
		key := NodeKey(n)
		next[key] = nodeElementAt(key, n)
	})
	r.elements = next
}

// Update implements Renderer.
func (r *NodeRenderer) Update(dt float64) bool {
	u := r.updateSlot.Update(float32(dt))
	e := r.exitSlot.Update(float32(dt))
	return u && e
}

// Draw implements Renderer.
func (r *NodeRenderer) Draw(ctx *RenderContext) {
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
		style := ctx.Colors.StyleFor(el.node)
		ctx.Canvas.DrawNodeDot(ctx.safe(key, "angle", el.angle), ctx.safe(key, "radius", el.radius), ctx.NodeDotRadius, Stroke{
			Color:   style.Color,
			Width:   ctx.StrokeWidth * style.StrokeMultiplier,
			Opacity: clamp(el.opacity, 0, 1),
		})
	}
}

// Cancel implements Renderer.
func (r *NodeRenderer) Cancel() {
	r.updateSlot.Cancel()
	r.exitSlot.Cancel()
	for key, el := range r.elements {
		if el.exiting {
			delete(r.elements, key)
		}
	}
}

// ElementCount implements Renderer.
func (r *NodeRenderer) ElementCount() int {
	n := 0
	for _, el := range r.elements {
		if !el.exiting {
			n++
		}
	}
	return n
}

// Clear implements Renderer.
func (r *NodeRenderer) Clear() {
	r.Cancel()
	r.elements = make(map[string]*nodeElement)
}
