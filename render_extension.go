package treemovie

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// extensionElement is the retained state of one leaf extension: the dashed
// radial segment that carries a leaf out to the shared label circle.
type extensionElement struct {
	key string

	angle, innerRadius float64
	outerRadius        float64
	opacity            float64

	leaf    *TreeNode
	exiting bool
}

// ExtensionRenderer renders leaf extension lines.
type ExtensionRenderer struct {
	elements   map[string]*extensionElement
	updateSlot TransitionSlot
	exitSlot   TransitionSlot
}

// NewExtensionRenderer creates an empty extension renderer.
func NewExtensionRenderer() *ExtensionRenderer {
	return &ExtensionRenderer{
		elements:   make(map[string]*extensionElement),
		updateSlot: TransitionSlot{Name: "extensions-update"},
		exitSlot:   TransitionSlot{Name: "extensions-exit"},
	}
}

// Name implements Renderer.
func (r *ExtensionRenderer) Name() string { return "extensions" }

func extensionElementAt(leaf *TreeNode, outerRadius float64) *extensionElement {
	return &extensionElement{
		key:         ExtensionKey(leaf),
		angle:       leaf.Angle,
		innerRadius: leaf.Radius,
		outerRadius: outerRadius,
		opacity:     1,
		leaf:        leaf,
	}
}

// Animate implements the three-stage transition for extensions. Join keys are
// leaf split keys; previous positions come from the leaf's cached node entry.
func (r *ExtensionRenderer) Animate(from, to *Layout, prev *FramePositions, timing TransitionTiming) {
	d := DiffKeys(from.LeafSplitKeys(), to.LeafSplitKeys())

	exitTween := newFieldTween()
	var exiting []string
	for _, split := range d.Exit {
		key := "ext-" + split
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
			r.elements["ext-"+split] = extensionElementAt(leaf, to.ExtensionRadius)
		}
	}

	update := newFieldTween()
	dur := float32(timing.Duration)
	for _, split := range d.Update {
		leaf, ok := to.leafByKey(split)
		if !ok {
			continue
		}
		key := "ext-" + split
		el := r.elements[key]
		if el == nil || el.exiting {
			r.elements[key] = extensionElementAt(leaf, to.ExtensionRadius)
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
			el.angle, el.innerRadius = leaf.Angle, leaf.Radius
			el.outerRadius = to.ExtensionRadius
			continue
		}
		el.angle, el.innerRadius = p.Angle, p.Radius
		update.add(&el.angle, el.angle+ShortestAngle(el.angle, leaf.Angle), dur, ease.InOutSine)
		update.add(&el.innerRadius, leaf.Radius, dur, ease.InOutSine)
		update.add(&el.outerRadius, to.ExtensionRadius, dur, ease.InOutSine)
	}
	if len(update.tweens) > 0 {
		r.updateSlot.Start(update)
	}
}

// RenderInterpolated implements the scrub path for extensions.
func (r *ExtensionRenderer) RenderInterpolated(from, to *Layout, t float64) {
	r.Cancel()
	next := make(map[string]*extensionElement)
	for _, split := range UnionKeys(from.LeafSplitKeys(), to.LeafSplitKeys()) {
		lf, inFrom := from.leafByKey(split)
		lt, inTo := to.leafByKey(split)
		key := "ext-" + split
		switch {
		case inFrom && inTo:
			next[key] = &extensionElement{
				key:         key,
				angle:       LerpAngle(lf.Angle, lt.Angle, t),
				innerRadius: lf.Radius + (lt.Radius-lf.Radius)*t,
				outerRadius: from.ExtensionRadius + (to.ExtensionRadius-from.ExtensionRadius)*t,
				opacity:     1,
				leaf:        lt,
			}
		case inFrom:
			el := extensionElementAt(lf, from.ExtensionRadius)
			el.opacity = 1 - t
			next[key] = el
		default:
			next[key] = extensionElementAt(lt, to.ExtensionRadius)
		}
	}
	r.elements = next
}

// RenderInstant snaps every extension to the target layout.
func (r *ExtensionRenderer) RenderInstant(layout *Layout) {
	r.Cancel()
	next := make(map[string]*extensionElement, len(layout.Leaves))
	for _, leaf := range layout.Leaves {
		el := extensionElementAt(leaf, layout.ExtensionRadius)
		next[el.key] = el
	}
	r.elements = next
}

// Update implements Renderer.
func (r *ExtensionRenderer) Update(dt float64) bool {
	u := r.updateSlot.Update(float32(dt))
	e := r.exitSlot.Update(float32(dt))
	return u && e
}

// Draw implements Renderer. Extensions use a thinner, dimmer stroke than
// branches.
func (r *ExtensionRenderer) Draw(ctx *RenderContext) {
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
		ctx.Canvas.DrawRadialLine(ctx.safe(key, "angle", el.angle), ctx.safe(key, "innerRadius", el.innerRadius), ctx.safe(key, "outerRadius", el.outerRadius), Stroke{
			Color:   style.Color,
			Width:   ctx.StrokeWidth * 0.5,
			Opacity: clamp(el.opacity, 0, 1) * 0.6,
		})
	}
}

// Cancel implements Renderer.
func (r *ExtensionRenderer) Cancel() {
	r.updateSlot.Cancel()
	r.exitSlot.Cancel()
	for key, el := range r.elements {
		if el.exiting {
			delete(r.elements, key)
		}
	}
}

// ElementCount implements Renderer.
func (r *ExtensionRenderer) ElementCount() int {
	n := 0
	for _, el := range r.elements {
		if !el.exiting {
			n++
		}
	}
	return n
}

// Clear implements Renderer.
func (r *ExtensionRenderer) Clear() {
	r.Cancel()
	r.elements = make(map[string]*extensionElement)
}
