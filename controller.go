package treemovie

import "fmt"

// Controller coordinates resolution, layout, diffing, and rendering for both
// clock-driven playback and user scrubbing. It owns every piece of mutable
// animation state: the position cache, the color manager, the renderer set,
// and the playback clock. Nothing here is safe for concurrent use; the host
// drives it from a single update loop.

// ControllerMode is the segment state machine.
type ControllerMode uint8

const (
	ModeIdle      ControllerMode = iota // nothing in flight
	ModeAnimating                       // a three-stage transition is running
	ModeScrub                           // user-driven synchronous rendering
)

// RenderStyle is the visual configuration applied at draw time.
type RenderStyle struct {
	StrokeWidth   float64
	NodeDotRadius float64
	FontSize      float64
}

// DefaultRenderStyle returns the style used when none is set.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{StrokeWidth: 2, NodeDotRadius: 2.5, FontSize: 11}
}

// exitFraction is the share of a segment's duration spent fading exits.
const exitFraction = 0.25

// Controller is the animation core's public facade.
type Controller struct {
	movie     *Movie
	layouts   *LayoutEngine
	positions *PositionCache
	colors    *ColorManager
	renderers []Renderer
	timeline  *TimelineManager

	layoutOptions LayoutOptions
	style         RenderStyle

	mode    ControllerMode
	playing bool
	closed  bool

	clock         PlaybackClock
	lastTimestamp float64
	wasPlaying    bool // playback state to restore when a scrub ends

	segFrom, segTo int
	segActive      bool

	// CurrentFrame is the frame index the display currently shows.
	CurrentFrame Observable[int]
	// Playing reports whether clock-driven playback is running.
	Playing Observable[bool]
	// Progress is overall playback progress in [0, 1].
	Progress Observable[float64]

	diagnostics func(error)
}

// NewController creates a controller with default options. Load a dataset
// before driving it.
func NewController() *Controller {
	return &Controller{
		positions:     NewPositionCache(),
		renderers:     NewRenderers(),
		layoutOptions: DefaultLayoutOptions(),
		style:         DefaultRenderStyle(),
		clock: PlaybackClock{
			Speed:              1,
			TransitionDuration: 1,
			PauseDuration:      0.5,
		},
	}
}

// SetLayoutOptions replaces the layout options. Takes effect on the next
// dataset load.
func (c *Controller) SetLayoutOptions(o LayoutOptions) {
	c.layoutOptions = o
}

// SetStyle replaces the render style.
func (c *Controller) SetStyle(s RenderStyle) {
	c.style = s
}

// SetDiagnostics installs the sink for non-fatal errors (layout anomalies,
// consistency recoveries, numeric repairs).
func (c *Controller) SetDiagnostics(fn func(error)) {
	c.diagnostics = fn
}

func (c *Controller) diagnose(err error) {
	if err != nil && c.diagnostics != nil {
		c.diagnostics(err)
	}
}

// Load decodes, validates, and installs a dataset payload, then renders the
// first frame.
func (c *Controller) Load(payload []byte) error {
	m, err := LoadDataset(payload)
	if err != nil {
		return err
	}
	return c.LoadMovie(m)
}

// LoadMovie installs an already-validated movie, resetting all caches and
// rendered state.
func (c *Controller) LoadMovie(m *Movie) error {
	if m == nil || len(m.Frames) == 0 {
		return &ValidationError{Field: "movie", Reason: "empty"}
	}
	c.movie = m
	c.layouts = NewLayoutEngine(m, c.layoutOptions)
	c.positions.Clear()
	c.colors = NewColorManager(m.SortedLeaves)
	c.timeline = NewTimelineManager(m)
	for _, r := range c.renderers {
		r.Clear()
	}
	c.playing = false
	c.segActive = false
	c.mode = ModeIdle
	c.clock.TotalItems = m.NumFrames()
	c.Playing.set(false)
	c.Progress.set(0)
	c.renderInstantAt(0)
	return nil
}

// Movie returns the loaded dataset, or nil.
func (c *Controller) Movie() *Movie {
	return c.movie
}

// Colors returns the color manager for the loaded dataset.
func (c *Controller) Colors() *ColorManager {
	return c.colors
}

// Timeline returns the timeline manager for the loaded dataset.
func (c *Controller) Timeline() *TimelineManager {
	return c.timeline
}

// Mode returns the current segment state.
func (c *Controller) Mode() ControllerMode {
	return c.mode
}

// Close discards the controller; later ticks are ignored.
func (c *Controller) Close() {
	c.closed = true
	for _, r := range c.renderers {
		r.Cancel()
	}
}

// --- Playback control ---

// StartPlayback begins (or resumes) clock-driven playback at the given
// monotonic timestamp in milliseconds. Playback resumes from the currently
// shown frame; a finished movie restarts from the beginning.
func (c *Controller) StartPlayback(timestamp float64) {
	if c.closed || c.movie == nil || c.movie.NumFrames() <= 1 {
		return
	}
	cur := c.CurrentFrame.Get()
	if cur >= c.movie.NumFrames()-1 {
		cur = 0
		c.renderInstantAt(0)
	}
	c.clock.StartTime = timestamp - c.frameStartOffset(cur)/speedOf(c.clock)*1000
	c.playing = true
	c.wasPlaying = false
	c.mode = ModeIdle
	c.segActive = false
	c.Playing.set(true)
}

// StopPlayback halts the clock. The in-flight segment renders to completion.
func (c *Controller) StopPlayback() {
	c.playing = false
	c.wasPlaying = false
	c.Playing.set(false)
}

func speedOf(clock PlaybackClock) float64 {
	if clock.Speed <= 0 {
		return 1
	}
	return clock.Speed
}

// frameStartOffset returns the effective seconds at which the segment
// starting at the given frame begins.
func (c *Controller) frameStartOffset(frame int) float64 {
	frame = c.movie.clampFrame(frame)
	return float64(frame) * (c.clock.TransitionDuration + c.clock.PauseDuration)
}

// rebase adjusts the clock's start time so the given effective position is
// preserved under the current settings.
func (c *Controller) rebase(effective float64) {
	c.clock.StartTime = c.lastTimestamp - effective/speedOf(c.clock)*1000
}

// effectiveNow returns the current effective playback seconds.
func (c *Controller) effectiveNow() float64 {
	return (c.lastTimestamp - c.clock.StartTime) / 1000 * speedOf(c.clock)
}

// SetSpeed changes playback speed. Takes effect on the next tick; the
// current playback position is preserved.
func (c *Controller) SetSpeed(x float64) {
	if x <= 0 {
		return
	}
	e := c.effectiveNow()
	c.clock.Speed = x
	if c.playing {
		c.rebase(e)
	}
}

// Speed returns the current playback speed.
func (c *Controller) Speed() float64 {
	return speedOf(c.clock)
}

// SetTransitionDuration changes seconds per segment. During playback the
// current segment position is preserved.
func (c *Controller) SetTransitionDuration(sec float64) {
	c.retime(func() { c.clock.TransitionDuration = sec })
}

// SetPauseDuration changes the hold seconds per anchor.
func (c *Controller) SetPauseDuration(sec float64) {
	c.retime(func() { c.clock.PauseDuration = sec })
}

// retime applies a duration mutation, preserving the current segment index
// and its in-segment fraction when playing.
func (c *Controller) retime(mutate func()) {
	if !c.playing || c.movie == nil {
		mutate()
		return
	}
	st := c.clock.Tick(c.lastTimestamp)
	oldSeg := c.clock.TransitionDuration + c.clock.PauseDuration
	inSeg := c.effectiveNow() - float64(st.FromIndex)*oldSeg
	frac := 0.0
	if oldSeg > 0 {
		frac = clamp(inSeg/oldSeg, 0, 1)
	}
	mutate()
	newSeg := c.clock.TransitionDuration + c.clock.PauseDuration
	c.rebase(float64(st.FromIndex)*newSeg + frac*newSeg)
}

// TransitionDuration returns seconds per segment.
func (c *Controller) TransitionDuration() float64 {
	return c.clock.TransitionDuration
}

// PauseDuration returns the hold seconds per anchor.
func (c *Controller) PauseDuration() float64 {
	return c.clock.PauseDuration
}

// --- Style control (delegated to the color manager) ---

// SetMarkedComponents replaces the marked leaf-name components.
func (c *Controller) SetMarkedComponents(components [][]string) {
	if c.colors != nil {
		c.colors.SetMarkedComponents(components)
	}
}

// SetColorMap replaces the taxa color map.
func (c *Controller) SetColorMap(m ColorMap) {
	if c.colors != nil {
		c.colors.SetColorMap(m)
	}
}

// SetHighlightEdges replaces the active change-edge key set.
func (c *Controller) SetHighlightEdges(keys []string) {
	if c.colors != nil {
		c.colors.SetHighlightEdges(keys)
	}
}

// --- Tick and draw ---

// Update advances the controller by one tick. timestamp is monotonic
// milliseconds; dt is the seconds since the previous tick. Ticks after Close
// are discarded.
func (c *Controller) Update(timestamp, dt float64) {
	if c.closed || c.movie == nil {
		return
	}
	c.lastTimestamp = timestamp

	if c.playing {
		st := c.clock.Tick(timestamp)
		c.Progress.set(st.Progress)
		switch {
		case st.Finished:
			c.playing = false
			c.Playing.set(false)
			c.renderInstantAt(c.movie.NumFrames() - 1)
		case !c.segActive || st.FromIndex != c.segFrom:
			c.beginSegment(st.FromIndex, st.ToIndex)
		}
	}

	idle := true
	for _, r := range c.renderers {
		if !r.Update(dt) {
			idle = false
		}
	}
	if c.segActive && idle {
		c.completeSegment()
	}
}

// Draw renders every element onto the canvas in stacking order.
func (c *Controller) Draw(canvas Canvas) {
	if c.movie == nil {
		return
	}
	ctx := &RenderContext{
		Canvas:        canvas,
		Colors:        c.colors,
		StrokeWidth:   c.style.StrokeWidth,
		NodeDotRadius: c.style.NodeDotRadius,
		FontSize:      c.style.FontSize,
		Diagnose:      c.diagnose,
	}
	for _, r := range c.renderers {
		r.Draw(ctx)
	}
}

// RenderSVG renders the sequence position (in frame units, fractional for
// mid-transition states) as a standalone SVG document. Interrupts any running
// transition, like a scrub would.
func (c *Controller) RenderSVG(pos float64, width, height float64) string {
	canvas := NewSVGCanvas(width, height)
	c.ScrubTo(pos)
	c.Draw(canvas)
	return canvas.Document()
}

// beginSegment starts the three-stage transition from one frame to the next.
func (c *Controller) beginSegment(from, to int) {
	fromLayout, toLayout, ok := c.segmentLayouts(from, to)
	if !ok {
		return
	}

	prev, ok := c.positions.Lookup(from)
	if !ok {
		// First visit: the from-frame's own layout is the previous state.
		c.positions.Record(fromLayout)
		prev, _ = c.positions.Lookup(from)
	}

	duration := c.clock.TransitionDuration / speedOf(c.clock)
	timing := TransitionTiming{
		Duration:     duration,
		ExitDuration: duration * exitFraction,
	}
	for _, r := range c.renderers {
		r.Animate(fromLayout, toLayout, prev, timing)
	}
	c.segFrom, c.segTo = from, to
	c.segActive = true
	c.mode = ModeAnimating
	c.CurrentFrame.set(from)
}

// segmentLayouts fetches both layouts, reporting anomalies through
// diagnostics.
func (c *Controller) segmentLayouts(from, to int) (fromLayout, toLayout *Layout, ok bool) {
	fromLayout, err := c.layouts.LayoutFrame(from)
	c.diagnose(err)
	toLayout, err = c.layouts.LayoutFrame(to)
	c.diagnose(err)
	if fromLayout == nil || toLayout == nil {
		c.diagnose(fmt.Errorf("segment %d->%d: unrenderable layout", from, to))
		return nil, nil, false
	}
	return fromLayout, toLayout, true
}

// completeSegment validates element counts against the target layout, writes
// the completed positions to the cache, and returns to idle. A count
// mismatch triggers full recovery.
func (c *Controller) completeSegment() {
	c.segActive = false
	c.mode = ModeIdle

	toLayout, err := c.layouts.LayoutFrame(c.segTo)
	c.diagnose(err)
	if toLayout == nil {
		return
	}

	rendered := 0
	for _, r := range c.renderers {
		rendered += r.ElementCount()
	}
	if expected := toLayout.ElementCount(); rendered != expected {
		c.diagnose(&CacheConsistencyError{Frame: c.segTo, Rendered: rendered, Expected: expected})
		c.recover(c.segTo)
		return
	}

	c.positions.Record(toLayout)
	c.CurrentFrame.set(c.segTo)
}

// recover clears every cache and snaps to the target frame.
func (c *Controller) recover(frame int) {
	c.positions.Clear()
	c.layouts.ClearCache()
	c.renderInstantAt(frame)
}

// renderInstantAt snaps all renderers to a frame with no animation.
func (c *Controller) renderInstantAt(frame int) {
	frame = c.movie.clampFrame(frame)
	layout, err := c.layouts.LayoutFrame(frame)
	c.diagnose(err)
	if layout == nil {
		return
	}
	for _, r := range c.renderers {
		r.RenderInstant(layout)
	}
	c.positions.Record(layout)
	c.segActive = false
	c.mode = ModeIdle
	c.CurrentFrame.set(frame)
}

// --- Scrub and navigation ---

// GoToPosition snap-scrubs to a frame: anchors and interpolated frames alike
// render instantly at their own layout.
func (c *Controller) GoToPosition(frame int) {
	if c.closed || c.movie == nil {
		return
	}
	c.interruptForScrub()
	c.wasPlaying = false
	c.renderInstantAt(frame)
	c.updateScrubProgress(float64(c.movie.clampFrame(frame)))
}

// ScrubTo renders the continuous sequence position pos (in frame units,
// fractional) synchronously. Playback pauses for the duration of the scrub;
// EndScrub resumes it.
func (c *Controller) ScrubTo(pos float64) {
	if c.closed || c.movie == nil {
		return
	}
	c.interruptForScrub()
	c.mode = ModeScrub

	n := c.movie.NumFrames()
	pos = clamp(pos, 0, float64(n-1))
	from := int(pos)
	t := pos - float64(from)
	to := from + 1
	if to > n-1 {
		to = n - 1
	}
	if from == to || t == 0 {
		c.renderInstantAt(from)
		c.mode = ModeScrub
	} else {
		fromLayout, toLayout, ok := c.segmentLayouts(from, to)
		if !ok {
			return
		}
		for _, r := range c.renderers {
			r.RenderInterpolated(fromLayout, toLayout, t)
		}
		c.CurrentFrame.set(int(pos + 0.5))
	}
	c.updateScrubProgress(pos)
}

// EndScrub leaves scrub mode, resuming playback when it was running before
// the scrub started.
func (c *Controller) EndScrub() {
	if c.mode != ModeScrub {
		return
	}
	c.mode = ModeIdle
	if c.wasPlaying {
		c.StartPlayback(c.lastTimestamp)
	}
}

// interruptForScrub cancels whatever is in flight and remembers whether
// playback should resume afterwards.
func (c *Controller) interruptForScrub() {
	if c.playing {
		c.wasPlaying = true
		c.playing = false
		c.Playing.set(false)
	}
	if c.segActive {
		c.diagnose(&InterruptError{Slot: "segment"})
		c.segActive = false
	}
	for _, r := range c.renderers {
		r.Cancel()
	}
}

func (c *Controller) updateScrubProgress(pos float64) {
	if n := c.movie.NumFrames(); n > 1 {
		c.Progress.set(pos / float64(n-1))
	}
}

// StepForward animates from the current frame to the next anchor.
func (c *Controller) StepForward() {
	c.stepToAnchor(true)
}

// StepBackward animates from the current frame to the previous anchor. The
// diff swaps naturally: what entered going forward exits going back.
func (c *Controller) StepBackward() {
	c.stepToAnchor(false)
}

func (c *Controller) stepToAnchor(forward bool) {
	if c.closed || c.movie == nil {
		return
	}
	c.StopPlayback()
	cur := c.CurrentFrame.Get()
	var target int
	if forward {
		target = c.movie.NextAnchorFrame(cur)
	} else {
		target = c.movie.PreviousAnchorFrame(cur)
	}
	if target == cur {
		return
	}
	c.beginSegment(cur, target)
	c.updateScrubProgress(float64(target))
}
