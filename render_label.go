package treemovie

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// labelElement is the retained state of one leaf label on the label circle.
type labelElement struct {
	key string

	angle, radius float64
	opacity       float64

	leaf    *TreeNode
	exiting bool
}

// LabelRenderer renders leaf names on the label circle, rotated to read
// outward.
type LabelRenderer struct {
	elements   map[string]*labelElement
	updateSlot TransitionSlot
	exitSlot   TransitionSlot
}

// NewLabelRenderer creates an empty label renderer.
func NewLabelRenderer() *LabelRenderer {
	return &LabelRenderer{
		elements:   make(map[string]*labelElement),
		updateSlot: TransitionSlot{Name: "labels-update"},
		exitSlot:   TransitionSlot{Name: "labels-exit"},
	}
}

// Name implements Renderer.
func (r *LabelRenderer) Name() string { return "labels" }

func labelElementAt(leaf *TreeNode, labelRadius float64) *labelElement {
	return &labelElement{
		key:     LabelKey(leaf),
		angle:   leaf.Angle,
		radius:  labelRadius,
		opacity: 1,
		leaf:    leaf,
	}
}

// Animate implements the three-stage transition for labels. Only the angle
// animates; labels always sit on the label circle.
func (r *LabelRenderer) Animate(from, to *Layout, prev *FramePositions, timing TransitionTiming) {
	d := DiffKeys(from.LeafSplitKeys(), to.LeafSplitKeys())

	exitTween := newFieldTween()
	var exiting []string
	for _, split := range d.Exit {
		key := "label-" + split
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

	for _, split := range d.Enter {
		if leaf, ok := to.leafByKey(split); ok {
			r.elements["label-"+split] = labelElementAt(leaf, to.LabelRadius)
		}
	}

	update := newFieldTween()
	dur := float32(timing.Duration)
	for _, split := range d.Update {
		leaf, ok := to.leafByKey(split)
		if !ok {
			continue
		}
		key := "label-" + split
		el := r.elements[key]
		if el == nil || el.exiting {
			r.elements[key] = labelElementAt(leaf, to.LabelRadius)
			continue
		}
		el.leaf = leaf
		el.opacity = 1
		var p NodePosition
		seeded := false
		if prev != nil {
			p, seeded = prev.Nodes[NodeKey(leaf)]
		}
		if !seeded {
			el.angle, el.radius = leaf.Angle, to.LabelRadius
			continue
		}
		el.angle = p.Angle
		update.add(&el.angle, el.angle+ShortestAngle(el.angle, leaf.Angle), dur, ease.InOutSine)
		update.add(&el.radius, to.LabelRadius, dur, ease.InOutSine)
	}
	if len(update.tweens) > 0 {
		r.updateSlot.Start(update)
	}
}

// RenderInterpolated implements the scrub path for labels.
func (r *LabelRenderer) RenderInterpolated(from, to *Layout, t float64) {
	r.Cancel()
	next := make(map[string]*labelElement)
	for _, split := range UnionKeys(from.LeafSplitKeys(), to.LeafSplitKeys()) {
		lf, inFrom := from.leafByKey(split)
		lt, inTo := to.leafByKey(split)
		key := "label-" + split
		switch {
		case inFrom && inTo:
			next[key] = &labelElement{
				key:     key,
				angle:   LerpAngle(lf.Angle, lt.Angle, t),
				radius:  from.LabelRadius + (to.LabelRadius-from.LabelRadius)*t,
				opacity: 1,
				leaf:    lt,
			}
		case inFrom:
			el := labelElementAt(lf, from.LabelRadius)
			el.opacity = 1 - t
			next[key] = el
		default:
			next[key] = labelElementAt(lt, to.LabelRadius)
		}
	}
	r.elements = next
}

// RenderInstant snaps every label to the target layout.
func (r *LabelRenderer) RenderInstant(layout *Layout) {
	r.Cancel()
	next := make(map[string]*labelElement, len(layout.Leaves))
	for _, leaf := range layout.Leaves {
		el := labelElementAt(leaf, layout.LabelRadius)
		next[el.key] = el
	}
	r.elements = next
}

// Update implements Renderer.
func (r *LabelRenderer) Update(dt float64) bool {
	u := r.updateSlot.Update(float32(dt))
	e := r.exitSlot.Update(float32(dt))
	return u && e
}

// Draw implements Renderer.
func (r *LabelRenderer) Draw(ctx *RenderContext) {
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
		style := ctx.Colors.StyleFor(el.leaf)
		o := LabelOrientationAt(ctx.safe(key, "angle", el.angle), ctx.safe(key, "radius", el.radius))
		ctx.Canvas.DrawLabel(el.leaf.Name, o, ctx.FontSize, Stroke{
			Color:   style.Color,
			Width:   1,
			Opacity: clamp(el.opacity, 0, 1),
		})
	}
}

// Cancel implements Renderer.
func (r *LabelRenderer) Cancel() {
	r.updateSlot.Cancel()
	r.exitSlot.Cancel()
	for key, el := range r.elements {
		if el.exiting {
			delete(r.elements, key)
		}
	}
}

// ElementCount implements Renderer.
func (r *LabelRenderer) ElementCount() int {
	n := 0
	for _, el := range r.elements {
		if !el.exiting {
			n++
		}
	}
	return n
}

// Clear implements Renderer.
func (r *LabelRenderer) Clear() {
	r.Cancel()
	r.elements = make(map[string]*labelElement)
}
