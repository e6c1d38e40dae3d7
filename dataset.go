package treemovie

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FrameMeta describes one entry of the frame sequence. Anchors are trees
// present in the input; interpolated frames sit strictly between two anchors.
type FrameMeta struct {
	// PairKey is nil for anchors, "pair_X_Y" for interpolated frames.
	PairKey     *string `json:"pair_key"`
	GlobalIndex int     `json:"global_index"`
	// SourceGlobalIndex is the frame itself for anchors, the source anchor
	// for interpolated frames.
	SourceGlobalIndex int  `json:"source_global_index"`
	TargetGlobalIndex *int `json:"target_global_index"`
	StepInPair        *int `json:"step_in_pair"`
}

// IsAnchor reports whether the frame is an original input tree rather than an
// interpolation product.
func (m FrameMeta) IsAnchor() bool {
	return m.PairKey == nil
}

// MSAParams are the alignment-window settings read from the payload.
type MSAParams struct {
	AlignmentLength int `json:"alignment_length"`
	WindowSize      int `json:"window_size"`
	WindowStepSize  int `json:"window_step_size"`
}

// Distances carries the per-anchor-pair tree distances. They are consumed by
// the chart collaborator, not by the animation core itself, but ride along
// with the dataset.
type Distances struct {
	RobinsonFoulds         []float64 `json:"robinson_foulds"`
	WeightedRobinsonFoulds []float64 `json:"weighted_robinson_foulds"`
}

// payload is the wire shape of a dataset load. Unknown fields are ignored.
type payload struct {
	InterpolatedTrees       []*TreeNode `json:"interpolated_trees"`
	TreeMetadata            []FrameMeta `json:"tree_metadata"`
	PairInterpolationRanges [][2]int    `json:"pair_interpolation_ranges"`
	SortedLeaves            []string    `json:"sorted_leaves"`
	MSA                     *MSAParams  `json:"msa"`
	Distances               *Distances  `json:"distances"`
}

// Movie is a loaded, validated dataset: the full frame sequence with its
// metadata, pair ranges, canonical leaf order, and alignment parameters.
// A Movie is immutable after load; layout state lives elsewhere.
type Movie struct {
	Frames       []*TreeNode
	Metadata     []FrameMeta
	Ranges       [][2]int
	SortedLeaves []string
	MSA          MSAParams
	Distances    Distances

	// AnchorFrames lists the frame indices of every anchor, ascending.
	AnchorFrames []int

	leafIndex map[string]int
}

// NumFrames returns the total frame count, anchors and interpolated alike.
func (m *Movie) NumFrames() int {
	return len(m.Frames)
}

// NumAnchors returns the number of original trees.
func (m *Movie) NumAnchors() int {
	return len(m.AnchorFrames)
}

// LeafIndex returns the canonical index of a leaf name, or -1 when the name
// is not part of the dataset.
func (m *Movie) LeafIndex(name string) int {
	if i, ok := m.leafIndex[name]; ok {
		return i
	}
	return -1
}

// WindowAt returns the alignment window for a frame using the dataset's MSA
// parameters.
func (m *Movie) WindowAt(frameIndex int) MSAWindow {
	return MSAWindowAt(frameIndex, m.MSA.WindowStepSize, m.MSA.WindowSize, m.MSA.AlignmentLength)
}

// LoadDataset decodes and validates a dataset payload. Any violated contract
// yields a ValidationError and no Movie.
func LoadDataset(data []byte) (*Movie, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	return NewMovie(p.InterpolatedTrees, p.TreeMetadata, p.PairInterpolationRanges, p.SortedLeaves, p.MSA, p.Distances)
}

// NewMovie validates an already-decoded dataset and assembles the Movie.
func NewMovie(frames []*TreeNode, metadata []FrameMeta, ranges [][2]int, sortedLeaves []string, msa *MSAParams, distances *Distances) (*Movie, error) {
	if len(frames) == 0 {
		return nil, &ValidationError{Field: "interpolated_trees", Reason: "empty"}
	}
	if len(metadata) != len(frames) {
		return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("length %d, want %d", len(metadata), len(frames))}
	}
	if len(sortedLeaves) == 0 {
		return nil, &ValidationError{Field: "sorted_leaves", Reason: "empty"}
	}

	m := &Movie{
		Frames:       frames,
		Metadata:     metadata,
		Ranges:       ranges,
		SortedLeaves: sortedLeaves,
		leafIndex:    make(map[string]int, len(sortedLeaves)),
	}
	for i, name := range sortedLeaves {
		m.leafIndex[name] = i
	}

	if msa != nil {
		m.MSA = *msa
	}
	if m.MSA.WindowSize <= 0 || m.MSA.WindowStepSize <= 0 {
		inferred := InferWindowParameters(countAnchors(metadata), m.MSA.AlignmentLength)
		if m.MSA.WindowSize <= 0 {
			m.MSA.WindowSize = inferred.WindowSize
		}
		if m.MSA.WindowStepSize <= 0 {
			m.MSA.WindowStepSize = inferred.StepSize
		}
	}
	if distances != nil {
		m.Distances = *distances
	}

	for i, meta := range metadata {
		if meta.GlobalIndex != i {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("entry %d has global_index %d", i, meta.GlobalIndex)}
		}
		if meta.IsAnchor() {
			if meta.SourceGlobalIndex != i {
				return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("anchor %d has source_global_index %d", i, meta.SourceGlobalIndex)}
			}
			m.AnchorFrames = append(m.AnchorFrames, i)
			continue
		}
		if meta.TargetGlobalIndex == nil || meta.StepInPair == nil {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("interpolated frame %d missing target or step", i)}
		}
		src, tgt := meta.SourceGlobalIndex, *meta.TargetGlobalIndex
		if src < 0 || tgt >= len(metadata) {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("frame %d pair endpoints [%d, %d] out of range", i, src, tgt)}
		}
		if !(src < i && i < tgt) {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("frame %d not strictly inside pair [%d, %d]", i, src, tgt)}
		}
	}
	for _, i := range []int{0, len(frames) - 1} {
		if !metadata[i].IsAnchor() {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("frame %d must be an anchor", i)}
		}
	}
	// Interpolated frames must point at real anchors.
	for i, meta := range metadata {
		if meta.IsAnchor() {
			continue
		}
		if !metadata[meta.SourceGlobalIndex].IsAnchor() || !metadata[*meta.TargetGlobalIndex].IsAnchor() {
			return nil, &ValidationError{Field: "tree_metadata", Reason: fmt.Sprintf("frame %d references non-anchor endpoints", i)}
		}
	}

	if err := validateRanges(ranges, len(frames), metadata); err != nil {
		return nil, err
	}

	canonical := append([]string(nil), sortedLeaves...)
	sort.Strings(canonical)
	for i, root := range frames {
		wireParents(root)
		if err := validateTree(root, i); err != nil {
			return nil, err
		}
		if err := checkLeafSet(root, canonical, i); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func countAnchors(metadata []FrameMeta) int {
	n := 0
	for _, meta := range metadata {
		if meta.IsAnchor() {
			n++
		}
	}
	return n
}

// validateRanges checks that pair ranges are sequential, anchored at both
// ends, and cover the whole frame sequence. Adjacent ranges may share a
// boundary anchor.
func validateRanges(ranges [][2]int, numFrames int, metadata []FrameMeta) error {
	if len(ranges) == 0 {
		if numFrames > 1 {
			return &ValidationError{Field: "pair_interpolation_ranges", Reason: "empty with multiple frames"}
		}
		return nil
	}
	prevEnd := -1
	for p, r := range ranges {
		start, end := r[0], r[1]
		if start < 0 || end >= numFrames || start >= end {
			return &ValidationError{Field: "pair_interpolation_ranges", Reason: fmt.Sprintf("range %d [%d, %d] out of bounds", p, start, end)}
		}
		if !metadata[start].IsAnchor() || !metadata[end].IsAnchor() {
			return &ValidationError{Field: "pair_interpolation_ranges", Reason: fmt.Sprintf("range %d endpoints must be anchors", p)}
		}
		if p == 0 {
			if start != 0 {
				return &ValidationError{Field: "pair_interpolation_ranges", Reason: "first range must start at frame 0"}
			}
		} else if start != prevEnd {
			return &ValidationError{Field: "pair_interpolation_ranges", Reason: fmt.Sprintf("range %d starts at %d, want %d", p, start, prevEnd)}
		}
		prevEnd = end
	}
	if prevEnd != numFrames-1 {
		return &ValidationError{Field: "pair_interpolation_ranges", Reason: fmt.Sprintf("ranges end at %d, want %d", prevEnd, numFrames-1)}
	}
	return nil
}

// checkLeafSet verifies that a frame's leaves are exactly the canonical taxa.
func checkLeafSet(root *TreeNode, canonicalSorted []string, frame int) error {
	leaves := root.Leaves()
	if len(leaves) != len(canonicalSorted) {
		return &ValidationError{Field: "interpolated_trees", Reason: fmt.Sprintf("frame %d has %d leaves, want %d", frame, len(leaves), len(canonicalSorted))}
	}
	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = l.Name
	}
	sort.Strings(names)
	for i, name := range names {
		if name != canonicalSorted[i] {
			return &ValidationError{Field: "interpolated_trees", Reason: fmt.Sprintf("frame %d leaf set differs from sorted_leaves (%q vs %q)", frame, name, canonicalSorted[i])}
		}
	}
	return nil
}
