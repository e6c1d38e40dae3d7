package treemovie

// Branch and node coloring. Styles resolve in priority order: combined
// highlight (marked + active change edge), active change edge, marked
// component, monophyletic taxa color, default. Highlight colors blend into
// the base color with a configurable intensity.

// HighlightEffect identifies which highlight rule fired for an element.
type HighlightEffect uint8

const (
	HighlightNone     HighlightEffect = iota // no highlight
	HighlightMarked                          // inside a marked component
	HighlightActive                          // on an active change edge
	HighlightCombined                        // both marked and active
)

// Stroke multipliers per highlight effect.
const (
	strokeCombined = 2.0
	strokeActive   = 1.7
	strokeMarked   = 1.5
)

// ElementStyle is the resolved visual style for one element.
type ElementStyle struct {
	Color            Color
	StrokeMultiplier float64
	Highlight        HighlightEffect
}

// ColorMap assigns colors to taxa (or group keys) plus the distinguished
// colors every dataset carries.
type ColorMap struct {
	Taxa map[string]Color

	DefaultColor          Color
	MarkedColor           Color
	DimmedColor           Color
	ActiveChangeEdgeColor Color
}

// DefaultColorMap returns a neutral scheme used before the host supplies one.
func DefaultColorMap() ColorMap {
	return ColorMap{
		Taxa:                  map[string]Color{},
		DefaultColor:          Color{R: 0.22, G: 0.25, B: 0.32, A: 1},
		MarkedColor:           Color{R: 0.95, G: 0.61, B: 0.07, A: 1},
		DimmedColor:           Color{R: 0.72, G: 0.74, B: 0.78, A: 1},
		ActiveChangeEdgeColor: Color{R: 0.86, G: 0.21, B: 0.27, A: 1},
	}
}

// ColorManager resolves element styles from the taxa color map, the marked
// components, and the active change-edge set. It is owned by the controller;
// setters take effect on the next render and never touch topology.
type ColorManager struct {
	colorMap ColorMap
	leaves   []string

	// marked components: each a set of leaf names. A branch is marked when
	// its subtree's leaf set is a proper subset of some component.
	marked []map[string]bool

	// activeEdges holds split keys of edges flagged by the current
	// interpolation step.
	activeEdges map[string]bool

	monophyly bool
	intensity float64
}

// NewColorManager creates a manager over the movie's canonical leaf order.
func NewColorManager(sortedLeaves []string) *ColorManager {
	return &ColorManager{
		colorMap:  DefaultColorMap(),
		leaves:    sortedLeaves,
		monophyly: true,
		intensity: 0.85,
	}
}

// SetColorMap replaces the taxa color map.
func (cm *ColorManager) SetColorMap(m ColorMap) {
	if m.Taxa == nil {
		m.Taxa = map[string]Color{}
	}
	cm.colorMap = m
}

// ColorMap returns the current color map.
func (cm *ColorManager) ColorMap() ColorMap {
	return cm.colorMap
}

// SetMarkedComponents replaces the marked components. Each component is a
// set of leaf names.
func (cm *ColorManager) SetMarkedComponents(components [][]string) {
	cm.marked = cm.marked[:0]
	for _, comp := range components {
		set := make(map[string]bool, len(comp))
		for _, name := range comp {
			set[name] = true
		}
		cm.marked = append(cm.marked, set)
	}
}

// SetHighlightEdges replaces the active change-edge set with the given
// element split keys.
func (cm *ColorManager) SetHighlightEdges(keys []string) {
	cm.activeEdges = make(map[string]bool, len(keys))
	for _, k := range keys {
		cm.activeEdges[k] = true
	}
}

// SetMonophylyEnabled toggles monophyletic subtree coloring.
func (cm *ColorManager) SetMonophylyEnabled(on bool) {
	cm.monophyly = on
}

// SetIntensity sets the highlight blend intensity in [0, 1].
func (cm *ColorManager) SetIntensity(v float64) {
	cm.intensity = clamp(v, 0, 1)
}

// leafNames resolves a node's split indices to leaf names.
func (cm *ColorManager) leafNames(n *TreeNode) []string {
	names := make([]string, 0, len(n.SplitIndices))
	for _, idx := range n.SplitIndices {
		if idx >= 0 && idx < len(cm.leaves) {
			names = append(names, cm.leaves[idx])
		}
	}
	return names
}

// isMarked reports whether the subtree's leaf set is a proper subset of any
// marked component.
func (cm *ColorManager) isMarked(names []string) bool {
	for _, comp := range cm.marked {
		if len(names) >= len(comp) {
			continue
		}
		all := true
		for _, name := range names {
			if !comp[name] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// monophylyColor returns the shared taxa color of the subtree's leaves, if
// all leaves carry the same non-default color.
func (cm *ColorManager) monophylyColor(names []string) (Color, bool) {
	if len(names) == 0 {
		return Color{}, false
	}
	first, ok := cm.colorMap.Taxa[names[0]]
	if !ok || first == cm.colorMap.DefaultColor {
		return Color{}, false
	}
	for _, name := range names[1:] {
		c, ok := cm.colorMap.Taxa[name]
		if !ok || c != first {
			return Color{}, false
		}
	}
	return first, true
}

// hasHighlights reports whether any marking or active edges are in effect.
func (cm *ColorManager) hasHighlights() bool {
	return len(cm.marked) > 0 || len(cm.activeEdges) > 0
}

// StyleFor resolves the style of the element identified by node n.
func (cm *ColorManager) StyleFor(n *TreeNode) ElementStyle {
	names := cm.leafNames(n)
	marked := cm.isMarked(names)
	active := cm.activeEdges[splitKey(n)]

	base := cm.colorMap.DefaultColor
	if cm.monophyly {
		if c, ok := cm.monophylyColor(names); ok {
			base = c
		}
	}

	switch {
	case marked && active:
		blend := cm.colorMap.MarkedColor.Lerp(cm.colorMap.ActiveChangeEdgeColor, 0.5)
		return ElementStyle{
			Color:            base.Lerp(blend, cm.intensity),
			StrokeMultiplier: strokeCombined,
			Highlight:        HighlightCombined,
		}
	case active:
		return ElementStyle{
			Color:            base.Lerp(cm.colorMap.ActiveChangeEdgeColor, cm.intensity),
			StrokeMultiplier: strokeActive,
			Highlight:        HighlightActive,
		}
	case marked:
		return ElementStyle{
			Color:            base.Lerp(cm.colorMap.MarkedColor, cm.intensity),
			StrokeMultiplier: strokeMarked,
			Highlight:        HighlightMarked,
		}
	}

	// Unhighlighted elements recede while anything else is highlighted.
	if cm.hasHighlights() {
		base = base.Lerp(cm.colorMap.DimmedColor, cm.intensity*0.5)
	}
	return ElementStyle{Color: base, StrokeMultiplier: 1, Highlight: HighlightNone}
}
