package treemovie

import (
	"fmt"
	"math"
	"strings"
)

// Radial geometry. Every node lives on a polar plane: an angle in radians and
// a radius from the tree's root. Branches render as an arc at the source's
// radius followed by a radial line out to the target.

// PolarToCart converts polar coordinates to Cartesian.
func PolarToCart(radius, angle float64) Vec2 {
	return Vec2{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

// CartToPolar converts Cartesian coordinates to (radius, angle). The angle
// is normalized to [0, 2π).
func CartToPolar(x, y float64) (radius, angle float64) {
	radius = math.Hypot(x, y)
	angle = NormalizeAngle(math.Atan2(y, x))
	return radius, angle
}

// NormalizeAngle maps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ShortestAngle returns the signed minimal rotation taking angle a to angle
// b. The result lies in (-π, π]: rotating a by it reaches b modulo 2π,
// always through the short side.
func ShortestAngle(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// LerpAngle interpolates from a toward b at t along the shortest rotation.
// The result is intentionally not normalized; callers normalize only after a
// completed transition.
func LerpAngle(a, b, t float64) float64 {
	return a + ShortestAngle(a, b)*t
}

func fmtCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.4f", v)
}

// branchPathPolar builds the SVG path for a branch whose source sits at
// (srcRadius, srcAngle) and target at (tgtRadius, tgtAngle): an arc along the
// source radius from the source to the target's angle, then a radial line to
// the target. Degenerate radii or angle deltas collapse to plain lines.
func branchPathPolar(srcAngle, srcRadius, tgtAngle, tgtRadius float64) string {
	src := PolarToCart(srcRadius, srcAngle)
	corner := PolarToCart(srcRadius, tgtAngle)
	tgt := PolarToCart(tgtRadius, tgtAngle)

	delta := ShortestAngle(srcAngle, tgtAngle)

	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(fmtCoord(src.X))
	b.WriteByte(' ')
	b.WriteString(fmtCoord(src.Y))

	if nearZero(srcRadius) || nearZero(delta) {
		// Root-level or angle-aligned branch: the arc degenerates to nothing,
		// leaving a straight radial line.
		b.WriteString(" L ")
	} else {
		largeArc := 0
		if math.Abs(delta) > math.Pi {
			largeArc = 1
		}
		sweep := 0
		if delta > 0 {
			sweep = 1
		}
		b.WriteString(" A ")
		b.WriteString(fmtCoord(srcRadius))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(srcRadius))
		b.WriteString(fmt.Sprintf(" 0 %d %d ", largeArc, sweep))
		b.WriteString(fmtCoord(corner.X))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(corner.Y))
		b.WriteString(" L ")
	}
	b.WriteString(fmtCoord(tgt.X))
	b.WriteByte(' ')
	b.WriteString(fmtCoord(tgt.Y))
	return b.String()
}

// BranchPath returns the SVG path for a branch at its final layout position.
func BranchPath(l Link) string {
	return branchPathPolar(l.Source.Angle, l.Source.Radius, l.Target.Angle, l.Target.Radius)
}

// BranchPathAt returns the branch path interpolated at t between the given
// previous polar coordinates and the link's current layout. Angles travel the
// shortest rotation; radii interpolate linearly. At t=0 the path equals the
// previous-position path, at t=1 it equals BranchPath(l).
func BranchPathAt(l Link, t, prevSrcAngle, prevSrcRadius, prevTgtAngle, prevTgtRadius float64) string {
	return branchPathPolar(
		LerpAngle(prevSrcAngle, l.Source.Angle, t),
		prevSrcRadius+(l.Source.Radius-prevSrcRadius)*t,
		LerpAngle(prevTgtAngle, l.Target.Angle, t),
		prevTgtRadius+(l.Target.Radius-prevTgtRadius)*t,
	)
}

// ExtensionPath returns the SVG path of the radial segment from a leaf out to
// the shared outer radius. Extensions keep leaf labels on a common circle no
// matter how deep each leaf sits.
func ExtensionPath(leaf *TreeNode, outerRadius float64) string {
	outer := PolarToCart(outerRadius, leaf.Angle)
	return "M " + fmtCoord(leaf.X) + " " + fmtCoord(leaf.Y) +
		" L " + fmtCoord(outer.X) + " " + fmtCoord(outer.Y)
}

// extensionPathPolar is ExtensionPath for arbitrary polar values, used while
// interpolating.
func extensionPathPolar(angle, radius, outerRadius float64) string {
	inner := PolarToCart(radius, angle)
	outer := PolarToCart(outerRadius, angle)
	return "M " + fmtCoord(inner.X) + " " + fmtCoord(inner.Y) +
		" L " + fmtCoord(outer.X) + " " + fmtCoord(outer.Y)
}

// LabelOrientation describes where a leaf label sits and how its text is
// rotated so it always reads outward.
type LabelOrientation struct {
	X, Y float64
	// RotationDeg is the text rotation in degrees.
	RotationDeg float64
	// Flipped is true when the label sits in the left half-plane and the
	// text was rotated an extra 180° to stay upright.
	Flipped bool
}

// LabelOrientationAt computes the orientation for a label at the given polar
// position.
func LabelOrientationAt(angle, radius float64) LabelOrientation {
	pos := PolarToCart(radius, angle)
	deg := NormalizeAngle(angle) * 180 / math.Pi
	o := LabelOrientation{X: pos.X, Y: pos.Y, RotationDeg: deg}
	if deg > 90 && deg < 270 {
		o.RotationDeg = deg + 180
		o.Flipped = true
	}
	return o
}

// LabelOrient computes the orientation for a leaf's label at labelRadius.
func LabelOrient(leaf *TreeNode, labelRadius float64) LabelOrientation {
	return LabelOrientationAt(leaf.Angle, labelRadius)
}

// SVGTransform renders the orientation as an SVG transform attribute value.
func (o LabelOrientation) SVGTransform() string {
	return "translate(" + fmtCoord(o.X) + "," + fmtCoord(o.Y) + ") rotate(" + fmtCoord(o.RotationDeg) + ")"
}

// TextAnchor returns the SVG text-anchor for the label: "end" when flipped so
// the text still hangs off the outside of the circle.
func (o LabelOrientation) TextAnchor() string {
	if o.Flipped {
		return "end"
	}
	return "start"
}
