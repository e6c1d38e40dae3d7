package treemovie

import (
	"fmt"
	"math"
)

// Radial layout. Leaves are placed on evenly spaced angles in the canonical
// leaf order; internal nodes take the mean of their children's angles and a
// radius proportional to the cumulative branch length from the root (or hop
// depth when UseDepth is set). The whole tree is scaled so the deepest leaf
// lands on Options.Radius.

// LayoutOptions configure the radial layout.
type LayoutOptions struct {
	// Radius is the target outer radius of the deepest leaf, in canvas units.
	Radius float64
	// ExtensionPadding separates the leaf circle from the label circle.
	ExtensionPadding float64
	// LabelPadding is added beyond the extension radius for label placement.
	LabelPadding float64
	// UseDepth switches radial distance from cumulative branch length to hop
	// depth.
	UseDepth bool
}

// DefaultLayoutOptions returns the options used when none are supplied.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Radius: 240, ExtensionPadding: 12, LabelPadding: 18}
}

// Layout is the enriched result for one frame: the tree with polar and
// Cartesian coordinates written to every node, plus derived collections the
// renderers consume each tick.
type Layout struct {
	Frame int
	Root  *TreeNode

	Links  []Link
	Leaves []*TreeNode

	// ExtensionRadius is the shared circle leaf extensions reach out to.
	ExtensionRadius float64
	// LabelRadius is the circle labels sit on.
	LabelRadius float64

	// nodeCount is the total node count, used for consistency checks.
	nodeCount int

	// Lazy key indexes for renderer joins.
	linkIndex map[string]Link
	nodeIndex map[string]*TreeNode
	leafIndex map[string]*TreeNode
}

// LinkByKey returns the link with the given identity key, if present.
func (l *Layout) LinkByKey(key string) (Link, bool) {
	if l.linkIndex == nil {
		l.linkIndex = make(map[string]Link, len(l.Links))
		for _, lk := range l.Links {
			l.linkIndex[LinkKey(lk)] = lk
		}
	}
	lk, ok := l.linkIndex[key]
	return lk, ok
}

// NodeByKey returns the node with the given identity key, if present.
func (l *Layout) NodeByKey(key string) (*TreeNode, bool) {
	if l.nodeIndex == nil {
		l.nodeIndex = make(map[string]*TreeNode, l.nodeCount)
		l.Root.Walk(func(n *TreeNode) {
			l.nodeIndex[NodeKey(n)] = n
		})
	}
	n, ok := l.nodeIndex[key]
	return n, ok
}

// leafByKey resolves a leaf element key (label or extension suffix shared
// with the leaf's split key) to the leaf node.
func (l *Layout) leafByKey(key string) (*TreeNode, bool) {
	if l.leafIndex == nil {
		l.leafIndex = make(map[string]*TreeNode, len(l.Leaves))
		for _, leaf := range l.Leaves {
			l.leafIndex[splitKey(leaf)] = leaf
		}
	}
	n, ok := l.leafIndex[key]
	return n, ok
}

// LinkKeys returns the identity keys of every branch.
func (l *Layout) LinkKeys() []string {
	keys := make([]string, len(l.Links))
	for i, lk := range l.Links {
		keys[i] = LinkKey(lk)
	}
	return keys
}

// NodeKeys returns the identity keys of every node.
func (l *Layout) NodeKeys() []string {
	keys := make([]string, 0, l.nodeCount)
	l.Root.Walk(func(n *TreeNode) {
		keys = append(keys, NodeKey(n))
	})
	return keys
}

// LeafSplitKeys returns the split keys of every leaf, shared by label and
// extension elements.
func (l *Layout) LeafSplitKeys() []string {
	keys := make([]string, len(l.Leaves))
	for i, leaf := range l.Leaves {
		keys[i] = splitKey(leaf)
	}
	return keys
}

// ElementCount returns how many renderable elements the frame carries:
// every link plus every node plus one extension and one label per leaf.
func (l *Layout) ElementCount() int {
	return len(l.Links) + l.nodeCount + 2*len(l.Leaves)
}

// LayoutEngine computes and caches per-frame radial layouts. Layouts are
// reference-immutable once computed; ClearCache drops them all on dataset
// reload or consistency recovery.
type LayoutEngine struct {
	movie   *Movie
	options LayoutOptions
	cache   map[int]*Layout
}

// NewLayoutEngine creates an engine for the given movie.
func NewLayoutEngine(movie *Movie, options LayoutOptions) *LayoutEngine {
	if options.Radius <= 0 {
		options = DefaultLayoutOptions()
	}
	return &LayoutEngine{
		movie:   movie,
		options: options,
		cache:   make(map[int]*Layout),
	}
}

// Options returns the engine's layout options.
func (e *LayoutEngine) Options() LayoutOptions {
	return e.options
}

// ClearCache evicts every cached layout.
func (e *LayoutEngine) ClearCache() {
	e.cache = make(map[int]*Layout)
}

// LayoutFrame returns the layout for a frame, computing and caching it on
// first use. A degenerate tree yields a LayoutError alongside the best-effort
// layout; only nil layouts are unrenderable.
func (e *LayoutEngine) LayoutFrame(frame int) (*Layout, error) {
	frame = e.movie.clampFrame(frame)
	if l, ok := e.cache[frame]; ok {
		return l, nil
	}
	l, err := e.compute(frame)
	if l != nil {
		e.cache[frame] = l
	}
	return l, err
}

func (e *LayoutEngine) compute(frame int) (*Layout, error) {
	root := e.movie.Frames[frame]
	numLeaves := len(e.movie.SortedLeaves)
	if numLeaves == 0 {
		return nil, &LayoutError{Frame: frame, Reason: "no leaves"}
	}
	angleStep := 2 * math.Pi / float64(numLeaves)

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	// Pass 1: radial distance from the root.
	var maxDist float64
	var assignDist func(n *TreeNode, acc float64)
	assignDist = func(n *TreeNode, acc float64) {
		step := n.Length
		if e.options.UseDepth {
			step = 1
		}
		if n.Parent == nil {
			step = 0
		}
		if math.IsNaN(step) || step < 0 {
			keep(&LayoutError{Frame: frame, Reason: fmt.Sprintf("bad branch length on %q", n.Name)})
			step = 0
		}
		d := acc + step
		n.Radius = d
		if n.IsLeaf() && d > maxDist {
			maxDist = d
		}
		for _, c := range n.Children {
			assignDist(c, d)
		}
	}
	assignDist(root, 0)

	scale := 1.0
	if maxDist > 0 {
		scale = e.options.Radius / maxDist
	}

	// Pass 2: angles bottom-up, then scaled Cartesian positions.
	var assignAngle func(n *TreeNode) float64
	assignAngle = func(n *TreeNode) float64 {
		if n.IsLeaf() {
			idx := e.movie.LeafIndex(n.Name)
			if idx < 0 {
				keep(&LayoutError{Frame: frame, Reason: fmt.Sprintf("leaf %q not in sorted_leaves", n.Name)})
				idx = 0
			}
			n.Angle = float64(idx) * angleStep
			return n.Angle
		}
		sum := 0.0
		for _, c := range n.Children {
			sum += assignAngle(c)
		}
		n.Angle = sum / float64(len(n.Children))
		return n.Angle
	}
	assignAngle(root)

	layout := &Layout{
		Frame:           frame,
		Root:            root,
		ExtensionRadius: e.options.Radius + e.options.ExtensionPadding,
	}
	layout.LabelRadius = layout.ExtensionRadius + e.options.LabelPadding

	root.Walk(func(n *TreeNode) {
		n.Radius *= scale
		if math.IsNaN(n.Angle) {
			keep(&LayoutError{Frame: frame, Reason: fmt.Sprintf("NaN angle on %q", n.Name)})
			n.Angle = 0
		}
		pos := PolarToCart(n.Radius, n.Angle)
		n.X, n.Y = pos.X, pos.Y
		layout.nodeCount++
		if n.IsLeaf() {
			layout.Leaves = append(layout.Leaves, n)
		}
	})
	layout.Links = root.Links()

	debugCheckTreeDepth(root)
	debugCheckLeafCount(frame, len(layout.Leaves))

	return layout, firstErr
}
