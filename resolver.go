package treemovie

import "sort"

// Segment resolution: mapping an arbitrary frame index onto its surrounding
// anchors and a local interpolation parameter.

// Segment identifies the source and target anchor frames bracketing a
// position, and the local parameter T in [0, 1]. Anchors resolve to
// themselves with T = 0.
type Segment struct {
	SourceFrame int
	TargetFrame int
	T           float64
}

// clampFrame clamps an index into the valid frame range.
func (m *Movie) clampFrame(i int) int {
	return clampInt(i, 0, len(m.Frames)-1)
}

// IsAnchorFrame reports whether frame i is an original tree.
func (m *Movie) IsAnchorFrame(i int) bool {
	return m.Metadata[m.clampFrame(i)].IsAnchor()
}

// SourceTreeIndex returns the position in the anchor array of the most
// recent anchor at or before frame i.
func (m *Movie) SourceTreeIndex(i int) int {
	i = m.clampFrame(i)
	// First anchor frame strictly after i, minus one.
	pos := sort.SearchInts(m.AnchorFrames, i+1) - 1
	if pos < 0 {
		pos = 0
	}
	return pos
}

// FullTreeIndex returns frame i's position in the anchor array, or -1 when
// the frame is interpolated.
func (m *Movie) FullTreeIndex(i int) int {
	i = m.clampFrame(i)
	pos := sort.SearchInts(m.AnchorFrames, i)
	if pos < len(m.AnchorFrames) && m.AnchorFrames[pos] == i {
		return pos
	}
	return -1
}

// ResolveSegment maps a frame index to its bracketing anchors and local t.
// Out-of-range indices clamp to the sequence bounds.
func (m *Movie) ResolveSegment(i int) Segment {
	i = m.clampFrame(i)
	if m.Metadata[i].IsAnchor() {
		return Segment{SourceFrame: i, TargetFrame: i, T: 0}
	}
	start, end := m.rangeContaining(i)
	return Segment{
		SourceFrame: start,
		TargetFrame: end,
		T:           float64(i-start) / float64(end-start),
	}
}

// rangeContaining returns the pair range holding interpolated frame i. The
// metadata's own endpoints are authoritative when ranges are absent.
func (m *Movie) rangeContaining(i int) (start, end int) {
	for _, r := range m.Ranges {
		if r[0] < i && i < r[1] {
			return r[0], r[1]
		}
	}
	meta := m.Metadata[i]
	return meta.SourceGlobalIndex, *meta.TargetGlobalIndex
}

// PreviousAnchorFrame returns the frame index of the nearest anchor strictly
// before i, or the first anchor when none precedes it.
func (m *Movie) PreviousAnchorFrame(i int) int {
	i = m.clampFrame(i)
	pos := sort.SearchInts(m.AnchorFrames, i) - 1
	if pos < 0 {
		pos = 0
	}
	return m.AnchorFrames[pos]
}

// NextAnchorFrame returns the frame index of the nearest anchor strictly
// after i, or the last anchor when none follows.
func (m *Movie) NextAnchorFrame(i int) int {
	i = m.clampFrame(i)
	pos := sort.SearchInts(m.AnchorFrames, i+1)
	if pos >= len(m.AnchorFrames) {
		pos = len(m.AnchorFrames) - 1
	}
	return m.AnchorFrames[pos]
}
