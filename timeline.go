package treemovie

// Timeline segment model. The timeline bar alternates anchor segments (one
// per original tree, fixed width, not scrubbable) with transition segments
// (one per pair, width proportional to the pair's interpolated frame count).
// Cumulative weights convert between pixels and sequence positions for
// click-to-seek, drag-to-scrub, and hover tooltips.

// SegmentKind distinguishes timeline segment types.
type SegmentKind uint8

const (
	SegmentAnchor     SegmentKind = iota // one original tree; click snaps, no scrub
	SegmentTransition                    // one pair's interpolation; scrubbable
)

// anchorWeight is the relative width of an anchor segment. Transition
// segments weigh their interpolated frame count.
const anchorWeight = 1.0

// TimelineSegment is one bar segment.
type TimelineSegment struct {
	Kind SegmentKind
	// StartFrame and EndFrame delimit the covered frames. Anchor segments
	// have StartFrame == EndFrame.
	StartFrame, EndFrame int
	// Pair is the pair-range index for transitions, -1 for anchors.
	Pair int
	// PairKey mirrors the metadata's pair key for transitions.
	PairKey string
	// Weight is the segment's relative width.
	Weight float64
}

// SegmentInfo is what a hover exposes to the tooltip renderer.
type SegmentInfo struct {
	// IsFullTree is true over anchor segments.
	IsFullTree bool
	PairKey    string
	StartFrame int
	EndFrame   int
	// InterpolatedSteps is the number of interpolated frames inside a
	// transition segment.
	InterpolatedSteps int
}

// TimelineManager owns the segment model and its hit-testing geometry.
type TimelineManager struct {
	movie    *Movie
	segments []TimelineSegment
	// cum[i] is the summed weight before segment i; cum[len] is the total.
	cum   []float64
	total float64

	// HoveredSegment is the segment index under the pointer, or -1.
	HoveredSegment Observable[int]
}

// NewTimelineManager builds the segment model for a movie.
func NewTimelineManager(m *Movie) *TimelineManager {
	t := &TimelineManager{movie: m}
	t.HoveredSegment.value = -1

	if len(m.Ranges) == 0 {
		for _, frame := range m.AnchorFrames {
			t.push(TimelineSegment{Kind: SegmentAnchor, StartFrame: frame, EndFrame: frame, Pair: -1, Weight: anchorWeight})
		}
		if len(t.segments) == 0 && m.NumFrames() > 0 {
			t.push(TimelineSegment{Kind: SegmentAnchor, Pair: -1, Weight: anchorWeight})
		}
		return t
	}

	for p, r := range m.Ranges {
		if p == 0 {
			t.push(TimelineSegment{Kind: SegmentAnchor, StartFrame: r[0], EndFrame: r[0], Pair: -1, Weight: anchorWeight})
		}
		steps := r[1] - r[0] - 1
		weight := float64(steps)
		if weight < 1 {
			weight = 1
		}
		t.push(TimelineSegment{
			Kind:       SegmentTransition,
			StartFrame: r[0],
			EndFrame:   r[1],
			Pair:       p,
			PairKey:    t.pairKey(r),
			Weight:     weight,
		})
		t.push(TimelineSegment{Kind: SegmentAnchor, StartFrame: r[1], EndFrame: r[1], Pair: -1, Weight: anchorWeight})
	}
	return t
}

func (t *TimelineManager) push(s TimelineSegment) {
	if len(t.cum) == 0 {
		t.cum = append(t.cum, 0)
	}
	t.segments = append(t.segments, s)
	t.total += s.Weight
	t.cum = append(t.cum, t.total)
}

// pairKey extracts the pair key from any interpolated frame inside a range.
func (t *TimelineManager) pairKey(r [2]int) string {
	for i := r[0] + 1; i < r[1]; i++ {
		if k := t.movie.Metadata[i].PairKey; k != nil {
			return *k
		}
	}
	return ""
}

// Segments returns the ordered segment list.
func (t *TimelineManager) Segments() []TimelineSegment {
	return t.segments
}

// SegmentRect returns segment i's horizontal extent when the bar spans
// [0, width) pixels.
func (t *TimelineManager) SegmentRect(i int, width float64) (x, w float64) {
	if t.total == 0 || i < 0 || i >= len(t.segments) {
		return 0, 0
	}
	scale := width / t.total
	return t.cum[i] * scale, t.segments[i].Weight * scale
}

// segmentAt returns the raw segment index at pixel x, with no retargeting.
func (t *TimelineManager) segmentAt(x, width float64) int {
	if t.total == 0 || width <= 0 || len(t.segments) == 0 {
		return -1
	}
	if x < 0 || x > width {
		return -1
	}
	pos := x / width * t.total
	for i := range t.segments {
		if pos < t.cum[i+1] || i == len(t.segments)-1 {
			return i
		}
	}
	return -1
}

// SegmentAt returns the segment index targeted by a click at pixel x. A
// click on an anchor whose x sits closer to an adjacent transition's center
// retargets to that transition; short anchors otherwise soak up clicks meant
// for their neighbors.
func (t *TimelineManager) SegmentAt(x, width float64) int {
	i := t.segmentAt(x, width)
	if i < 0 || t.segments[i].Kind != SegmentAnchor {
		return i
	}
	ax, aw := t.SegmentRect(i, width)
	anchorCenter := ax + aw/2
	best, bestDist := i, absF(x-anchorCenter)
	for _, j := range []int{i - 1, i + 1} {
		if j < 0 || j >= len(t.segments) || t.segments[j].Kind != SegmentTransition {
			continue
		}
		tx, tw := t.SegmentRect(j, width)
		if d := absF(x - (tx + tw/2)); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PositionForX converts pixel x into a continuous sequence position in frame
// units, for scrubbing. Anchor segments pin to their frame.
func (t *TimelineManager) PositionForX(x, width float64) float64 {
	i := t.segmentAt(x, width)
	if i < 0 {
		if x >= width && len(t.segments) > 0 {
			return float64(t.segments[len(t.segments)-1].EndFrame)
		}
		return 0
	}
	seg := t.segments[i]
	if seg.Kind == SegmentAnchor {
		return float64(seg.StartFrame)
	}
	sx, sw := t.SegmentRect(i, width)
	frac := 0.0
	if sw > 0 {
		frac = clamp((x-sx)/sw, 0, 1)
	}
	return float64(seg.StartFrame) + frac*float64(seg.EndFrame-seg.StartFrame)
}

// XForPosition converts a continuous sequence position to its pixel x.
func (t *TimelineManager) XForPosition(pos float64, width float64) float64 {
	if t.total == 0 || len(t.segments) == 0 {
		return 0
	}
	pos = clamp(pos, 0, float64(t.movie.NumFrames()-1))
	for i, seg := range t.segments {
		sx, sw := t.SegmentRect(i, width)
		switch seg.Kind {
		case SegmentAnchor:
			if pos <= float64(seg.StartFrame) {
				return sx + sw/2
			}
		case SegmentTransition:
			if pos <= float64(seg.EndFrame) {
				span := float64(seg.EndFrame - seg.StartFrame)
				frac := 0.0
				if span > 0 {
					frac = (pos - float64(seg.StartFrame)) / span
				}
				return sx + frac*sw
			}
		}
	}
	return width
}

// ClickFrame resolves a click at pixel x to the frame the display should
// jump to: the anchor itself, or the nearest frame inside the retargeted
// transition.
func (t *TimelineManager) ClickFrame(x, width float64) int {
	i := t.SegmentAt(x, width)
	if i < 0 {
		return 0
	}
	seg := t.segments[i]
	if seg.Kind == SegmentAnchor {
		return seg.StartFrame
	}
	sx, sw := t.SegmentRect(i, width)
	frac := 0.0
	if sw > 0 {
		frac = clamp((x-sx)/sw, 0, 1)
	}
	return seg.StartFrame + int(frac*float64(seg.EndFrame-seg.StartFrame)+0.5)
}

// HoverAt updates the hovered segment from pixel x and returns its info.
// x outside the bar clears the hover.
func (t *TimelineManager) HoverAt(x, width float64) (SegmentInfo, bool) {
	i := t.segmentAt(x, width)
	t.HoveredSegment.set(i)
	if i < 0 {
		return SegmentInfo{}, false
	}
	return t.Info(i), true
}

// ClearHover resets the hovered segment.
func (t *TimelineManager) ClearHover() {
	t.HoveredSegment.set(-1)
}

// Info describes segment i for tooltips.
func (t *TimelineManager) Info(i int) SegmentInfo {
	if i < 0 || i >= len(t.segments) {
		return SegmentInfo{}
	}
	seg := t.segments[i]
	info := SegmentInfo{
		IsFullTree: seg.Kind == SegmentAnchor,
		PairKey:    seg.PairKey,
		StartFrame: seg.StartFrame,
		EndFrame:   seg.EndFrame,
	}
	if seg.Kind == SegmentTransition {
		info.InterpolatedSteps = seg.EndFrame - seg.StartFrame - 1
	}
	return info
}
