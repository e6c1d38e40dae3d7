package treemovie

// Canvas is the drawing surface renderers emit to. Geometry arrives in polar
// form so each backend can build the arc-then-line branch shape natively:
// the SVG canvas formats path strings, the vector canvas appends to an
// ebiten vector path.
type Canvas interface {
	// DrawBranch draws a branch: an arc at srcRadius from srcAngle to
	// tgtAngle, then a radial line out to tgtRadius.
	DrawBranch(srcAngle, srcRadius, tgtAngle, tgtRadius float64, style Stroke)
	// DrawRadialLine draws a straight segment along the given angle between
	// two radii. Used for leaf extensions.
	DrawRadialLine(angle, innerRadius, outerRadius float64, style Stroke)
	// DrawNodeDot draws a node marker at a polar position.
	DrawNodeDot(angle, radius, dotRadius float64, style Stroke)
	// DrawLabel draws leaf text oriented to read outward.
	DrawLabel(text string, o LabelOrientation, fontSize float64, style Stroke)
}

// Stroke is the resolved visual style of one drawn element.
type Stroke struct {
	Color   Color
	Width   float64
	Opacity float64
}
