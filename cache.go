package treemovie

// Position cache. When a new transition starts, every updating element must
// animate from where the previous frame left it. The cache stores those
// positions keyed by frame index and element key, so the renderers never have
// to read them back out of whatever surface they drew to.

// NodePosition is a cached polar position for a node, leaf extension, or
// label anchor.
type NodePosition struct {
	Angle, Radius float64
}

// LinkPosition is a cached pair of polar endpoints for a branch.
type LinkPosition struct {
	SourceAngle, SourceRadius float64
	TargetAngle, TargetRadius float64
}

// FramePositions holds every keyed position recorded for one frame.
type FramePositions struct {
	Nodes map[string]NodePosition
	Links map[string]LinkPosition
}

// PositionCache maps frame indices to their recorded element positions.
// It is read and written by the controller only.
type PositionCache struct {
	frames map[int]*FramePositions
}

// NewPositionCache creates an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{frames: make(map[int]*FramePositions)}
}

// Clear drops every recorded frame. Called on dataset reload and on
// consistency recovery.
func (c *PositionCache) Clear() {
	c.frames = make(map[int]*FramePositions)
}

// Lookup returns the recorded positions for a frame.
func (c *PositionCache) Lookup(frame int) (*FramePositions, bool) {
	p, ok := c.frames[frame]
	return p, ok
}

// Record snapshots a layout's positions under its frame index. Angles are
// normalized on the way in: the cache is only ever read at transition
// boundaries, where identity comparisons need canonical values.
func (c *PositionCache) Record(layout *Layout) {
	p := &FramePositions{
		Nodes: make(map[string]NodePosition, layout.nodeCount),
		Links: make(map[string]LinkPosition, len(layout.Links)),
	}
	layout.Root.Walk(func(n *TreeNode) {
		p.Nodes[NodeKey(n)] = NodePosition{Angle: NormalizeAngle(n.Angle), Radius: n.Radius}
	})
	for _, l := range layout.Links {
		p.Links[LinkKey(l)] = LinkPosition{
			SourceAngle:  NormalizeAngle(l.Source.Angle),
			SourceRadius: l.Source.Radius,
			TargetAngle:  NormalizeAngle(l.Target.Angle),
			TargetRadius: l.Target.Radius,
		}
	}
	c.frames[layout.Frame] = p
}

// NodeAt returns the cached position for a node key in a frame.
func (c *PositionCache) NodeAt(frame int, key string) (NodePosition, bool) {
	p, ok := c.frames[frame]
	if !ok {
		return NodePosition{}, false
	}
	pos, ok := p.Nodes[key]
	return pos, ok
}

// LinkAt returns the cached endpoints for a link key in a frame.
func (c *PositionCache) LinkAt(frame int, key string) (LinkPosition, bool) {
	p, ok := c.frames[frame]
	if !ok {
		return LinkPosition{}, false
	}
	pos, ok := p.Links[key]
	return pos, ok
}
