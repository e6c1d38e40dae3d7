package treemovie

import (
	"errors"
	"math"
	"testing"
)

// countingCanvas records draw calls so renderer tests can assert what reached
// the surface without a real backend.
type countingCanvas struct {
	branches   int
	lines      int
	dots       int
	labels     int
	labelTexts []string
	opacities  []float64
}

func (c *countingCanvas) DrawBranch(srcAngle, srcRadius, tgtAngle, tgtRadius float64, style Stroke) {
	c.branches++
	c.opacities = append(c.opacities, style.Opacity)
}

func (c *countingCanvas) DrawRadialLine(angle, innerRadius, outerRadius float64, style Stroke) {
	c.lines++
}

func (c *countingCanvas) DrawNodeDot(angle, radius, dotRadius float64, style Stroke) {
	c.dots++
}

func (c *countingCanvas) DrawLabel(text string, o LabelOrientation, fontSize float64, style Stroke) {
	c.labels++
	c.labelTexts = append(c.labelTexts, text)
}

func testRenderContext(canvas Canvas) *RenderContext {
	return &RenderContext{
		Canvas:        canvas,
		Colors:        NewColorManager([]string{"A", "B", "C", "D", "E"}),
		StrokeWidth:   2,
		NodeDotRadius: 2.5,
		FontSize:      11,
	}
}

func assertNearTol(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g", name, got, want)
	}
}

func TestRenderInstantDrawCounts(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	l, _ := e.LayoutFrame(0)

	canvas := &countingCanvas{}
	ctx := testRenderContext(canvas)
	total := 0
	for _, r := range NewRenderers() {
		r.RenderInstant(l)
		r.Draw(ctx)
		total += r.ElementCount()
	}

	if canvas.branches != 8 || canvas.lines != 5 || canvas.dots != 9 || canvas.labels != 5 {
		t.Errorf("drew %d branches %d lines %d dots %d labels, want 8/5/9/5",
			canvas.branches, canvas.lines, canvas.dots, canvas.labels)
	}
	if total != l.ElementCount() {
		t.Errorf("live elements = %d, want %d", total, l.ElementCount())
	}
	if len(canvas.labelTexts) != 5 || canvas.labelTexts[0] == "" {
		t.Errorf("label texts = %v", canvas.labelTexts)
	}
}

func TestLinkAnimateThreeStages(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	from, _ := e.LayoutFrame(0)
	to, _ := e.LayoutFrame(3)

	cache := NewPositionCache()
	cache.Record(from)
	prev, _ := cache.Lookup(0)

	r := NewLinkRenderer()
	r.RenderInstant(from)
	r.Animate(from, to, prev, TransitionTiming{Duration: 1, ExitDuration: 0.25})

	// Live elements are the target's 8 links; 3 exiting fade alongside.
	if got := r.ElementCount(); got != 8 {
		t.Errorf("live elements = %d, want 8", got)
	}
	if got := len(r.elements); got != 11 {
		t.Errorf("retained elements = %d, want 11 including exits", got)
	}

	if r.Update(0.25) {
		t.Fatal("idle while update tween still running")
	}
	if got := len(r.elements); got != 8 {
		t.Errorf("elements after exit completes = %d, want 8", got)
	}

	if !r.Update(0.75) {
		t.Fatal("not idle after full duration")
	}

	// Updating branches land exactly on the target layout.
	key := "link-to-1"
	lt, ok := to.LinkByKey(key)
	if !ok {
		t.Fatalf("target layout missing %s", key)
	}
	el := r.elements[key]
	if el == nil {
		t.Fatalf("element %s missing after transition", key)
	}
	assertNearTol(t, "src radius", el.srcRadius, lt.Source.Radius, 1e-3)
	assertNearTol(t, "tgt radius", el.tgtRadius, lt.Target.Radius, 1e-3)
	// Angles may hold extra turns mid-flight but end congruent to the target.
	assertNearTol(t, "tgt angle", NormalizeAngle(el.tgtAngle), NormalizeAngle(lt.Target.Angle), 1e-3)
}

func TestLinkAnimateImmediateExit(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	from, _ := e.LayoutFrame(0)
	to, _ := e.LayoutFrame(3)

	r := NewLinkRenderer()
	r.RenderInstant(from)
	r.Animate(from, to, nil, TransitionTiming{Duration: 1, ExitDuration: 0})

	if got := len(r.elements); got != 8 {
		t.Errorf("elements = %d, want exits dropped immediately", got)
	}

	canvas := &countingCanvas{}
	r.Draw(testRenderContext(canvas))
	if canvas.branches != 8 {
		t.Errorf("drew %d branches, want 8", canvas.branches)
	}
}

func TestLinkRenderInterpolated(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	from, _ := e.LayoutFrame(0)
	to, _ := e.LayoutFrame(3)

	r := NewLinkRenderer()
	r.RenderInterpolated(from, to, 0.25)

	if got := len(r.elements); got != 11 {
		t.Fatalf("union elements = %d, want 11", got)
	}

	// Present in both frames: fully opaque, positions lerped.
	shared := r.elements["link-to-1"]
	lf, _ := from.LinkByKey("link-to-1")
	lt, _ := to.LinkByKey("link-to-1")
	assertNear(t, "shared opacity", shared.opacity, 1)
	assertNear(t, "lerped src radius", shared.srcRadius,
		lf.Source.Radius+(lt.Source.Radius-lf.Source.Radius)*0.25)

	// Source-only branches fade with t; target-only branches are opaque.
	if got := r.elements["link-root-0-1"].opacity; got != 0.75 {
		t.Errorf("source-only opacity = %g, want 0.75", got)
	}
	if got := r.elements["link-root-0-2"].opacity; got != 1 {
		t.Errorf("target-only opacity = %g, want 1", got)
	}
}

func TestLinkRenderInterpolatedCancelsTransition(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	from, _ := e.LayoutFrame(0)
	to, _ := e.LayoutFrame(3)

	cache := NewPositionCache()
	cache.Record(from)
	prev, _ := cache.Lookup(0)

	r := NewLinkRenderer()
	r.RenderInstant(from)
	r.Animate(from, to, prev, TransitionTiming{Duration: 1, ExitDuration: 0.5})
	r.RenderInterpolated(from, to, 0.5)

	if !r.Update(0.01) {
		t.Error("transition survived a scrub")
	}
}

func TestDrawSkipsInvisibleElements(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	l, _ := e.LayoutFrame(0)

	r := NewLinkRenderer()
	r.RenderInstant(l)
	r.elements["link-to-0"].opacity = 0

	canvas := &countingCanvas{}
	r.Draw(testRenderContext(canvas))
	if canvas.branches != 7 {
		t.Errorf("drew %d branches, want 7 with one invisible", canvas.branches)
	}
	for _, op := range canvas.opacities {
		if op <= 0 || op > 1 {
			t.Errorf("drawn opacity %g outside (0, 1]", op)
		}
	}
}

func TestRendererClear(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	l, _ := e.LayoutFrame(0)

	for _, r := range NewRenderers() {
		r.RenderInstant(l)
		r.Clear()
		if got := r.ElementCount(); got != 0 {
			t.Errorf("%s: elements after Clear = %d", r.Name(), got)
		}
	}
}

func TestNodeAndLeafRenderersAnimate(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	from, _ := e.LayoutFrame(0)
	to, _ := e.LayoutFrame(3)

	cache := NewPositionCache()
	cache.Record(from)
	prev, _ := cache.Lookup(0)

	for _, r := range NewRenderers() {
		r.RenderInstant(from)
		r.Animate(from, to, prev, TransitionTiming{Duration: 0.5, ExitDuration: 0.1})
		var want int
		switch r.Name() {
		case "links":
			want = len(to.LinkKeys())
		case "nodes":
			want = len(to.NodeKeys())
		default:
			want = len(to.Leaves)
		}
		if got := r.ElementCount(); got != want {
			t.Errorf("%s: live elements = %d, want %d", r.Name(), got, want)
		}
		for i := 0; i < 20 && !r.Update(0.1); i++ {
		}
		if !r.Update(0.1) {
			t.Errorf("%s: still animating well past duration", r.Name())
		}
	}
}

func TestDrawRepairsNaNCoordinates(t *testing.T) {
	m := testMovie(t)
	e := NewLayoutEngine(m, DefaultLayoutOptions())
	l, _ := e.LayoutFrame(0)

	r := NewLinkRenderer()
	r.RenderInstant(l)
	key := "link-to-1"
	r.elements[key].srcRadius = math.NaN()

	canvas := &countingCanvas{}
	ctx := testRenderContext(canvas)
	var reported []error
	ctx.Diagnose = func(err error) { reported = append(reported, err) }
	r.Draw(ctx)

	if canvas.branches != len(l.LinkKeys()) {
		t.Errorf("branches drawn = %d, want %d", canvas.branches, len(l.LinkKeys()))
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	var numErr *NumericError
	if !errors.As(reported[0], &numErr) {
		t.Fatalf("reported %T, want *NumericError", reported[0])
	}
	if numErr.Key != key || numErr.Field != "srcRadius" {
		t.Errorf("NumericError = %q/%q, want %q/%q", numErr.Key, numErr.Field, key, "srcRadius")
	}
}
