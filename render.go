package treemovie

import "math"

// Renderer contract. Each element kind (link, node, extension, label)
// implements the same three rendering modes over its own retained element
// store:
//
//   - Animate: three-stage transition. Exiting elements fade out, entering
//     elements appear at their final position at full opacity, updating
//     elements tween from their previous positions.
//   - RenderInterpolated: synchronous scrub rendering over the union of both
//     frames' keys. No tweens; any in-flight transition is cancelled first.
//   - RenderInstant: everything snapped to the target layout. Used for the
//     initial frame, snap-to-anchor, and consistency recovery.
//
// Renderers never read positions back from a canvas; previous positions are
// seeded from the position cache by the controller, and entering elements
// default to their final position.

// TransitionTiming carries the per-stage durations of one animated segment,
// in seconds. ExitDuration is typically 0 during scrub-adjacent playback so
// exits never lag the join.
type TransitionTiming struct {
	Duration     float64
	ExitDuration float64
}

// RenderContext bundles what renderers need at draw time. The controller
// owns it; renderers hold no styling state of their own.
type RenderContext struct {
	Canvas Canvas
	Colors *ColorManager

	// StrokeWidth is the base branch stroke width; highlight multipliers
	// scale it per element.
	StrokeWidth float64
	// NodeDotRadius is the marker radius for internal nodes and leaves.
	NodeDotRadius float64
	// FontSize is the label text size.
	FontSize float64

	// Diagnose, when set, receives a NumericError for every NaN or infinite
	// coordinate repaired during drawing. May be nil.
	Diagnose func(error)
}

// safe sanitizes one coordinate of the element identified by key, reporting
// the repair through Diagnose.
func (ctx *RenderContext) safe(key, field string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if ctx.Diagnose != nil {
			ctx.Diagnose(&NumericError{Key: key, Field: field})
		}
		return 0
	}
	return v
}

// Renderer is the common surface of the four element renderers.
type Renderer interface {
	// Name identifies the renderer's transition slots ("links", "nodes",
	// "extensions", "labels").
	Name() string

	Animate(from, to *Layout, prev *FramePositions, timing TransitionTiming)
	RenderInterpolated(from, to *Layout, t float64)
	RenderInstant(layout *Layout)

	// Update advances in-flight tweens by dt seconds. Returns true when the
	// renderer is idle.
	Update(dt float64) bool
	// Draw emits every live element to the context's canvas.
	Draw(ctx *RenderContext)
	// Cancel drops in-flight transitions, leaving elements where they are.
	Cancel()
	// ElementCount returns the number of live (non-exiting) elements.
	ElementCount() int
	// Clear drops every element. Used on dataset reload.
	Clear()
}

// NewRenderers returns the standard renderer set in draw order: links below
// extensions, extensions below nodes, nodes below labels.
func NewRenderers() []Renderer {
	return []Renderer{
		NewLinkRenderer(),
		NewExtensionRenderer(),
		NewNodeRenderer(),
		NewLabelRenderer(),
	}
}
