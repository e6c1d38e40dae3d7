package treemovie

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// arcSegmentStep is the angular resolution used to flatten branch arcs into
// line segments for rasterization.
const arcSegmentStep = math.Pi / 48

// VectorCanvas rasterizes elements onto an ebiten image through a camera's
// view transform. Arcs are flattened into short line segments; labels render
// through text/v2.
type VectorCanvas struct {
	dst  *ebiten.Image
	view [6]float64

	// Face is the label font. Defaults to a basic bitmap face.
	Face text.Face
}

// NewVectorCanvas creates a canvas with the default label face.
func NewVectorCanvas() *VectorCanvas {
	return &VectorCanvas{
		view: identityTransform,
		Face: text.NewGoXFace(basicfont.Face7x13),
	}
}

// Begin points the canvas at a destination image and camera for this frame.
// A nil camera draws with the identity view.
func (c *VectorCanvas) Begin(dst *ebiten.Image, cam *Camera) {
	c.dst = dst
	if cam != nil {
		c.view = cam.computeViewMatrix()
	} else {
		c.view = identityTransform
	}
}

func (c *VectorCanvas) strokeWorldLine(x0, y0, x1, y1 float64, style Stroke) {
	sx0, sy0 := transformPoint(c.view, x0, y0)
	sx1, sy1 := transformPoint(c.view, x1, y1)
	col := style.Color.WithAlpha(style.Color.A * style.Opacity).RGBA()
	vector.StrokeLine(c.dst, float32(sx0), float32(sy0), float32(sx1), float32(sy1),
		float32(style.Width*c.view[0]), col, true)
}

// DrawBranch implements Canvas: the arc is flattened to segments along the
// shortest rotation, followed by the radial line.
func (c *VectorCanvas) DrawBranch(srcAngle, srcRadius, tgtAngle, tgtRadius float64, style Stroke) {
	if c.dst == nil {
		return
	}
	delta := ShortestAngle(srcAngle, tgtAngle)
	if !nearZero(srcRadius) && !nearZero(delta) {
		steps := int(math.Ceil(math.Abs(delta) / arcSegmentStep))
		prev := PolarToCart(srcRadius, srcAngle)
		for i := 1; i <= steps; i++ {
			a := srcAngle + delta*float64(i)/float64(steps)
			next := PolarToCart(srcRadius, a)
			c.strokeWorldLine(prev.X, prev.Y, next.X, next.Y, style)
			prev = next
		}
	}
	corner := PolarToCart(srcRadius, tgtAngle)
	tgt := PolarToCart(tgtRadius, tgtAngle)
	c.strokeWorldLine(corner.X, corner.Y, tgt.X, tgt.Y, style)
}

// DrawRadialLine implements Canvas.
func (c *VectorCanvas) DrawRadialLine(angle, innerRadius, outerRadius float64, style Stroke) {
	if c.dst == nil {
		return
	}
	inner := PolarToCart(innerRadius, angle)
	outer := PolarToCart(outerRadius, angle)
	c.strokeWorldLine(inner.X, inner.Y, outer.X, outer.Y, style)
}

// DrawNodeDot implements Canvas.
func (c *VectorCanvas) DrawNodeDot(angle, radius, dotRadius float64, style Stroke) {
	if c.dst == nil {
		return
	}
	pos := PolarToCart(radius, angle)
	sx, sy := transformPoint(c.view, pos.X, pos.Y)
	col := style.Color.WithAlpha(style.Color.A * style.Opacity).RGBA()
	vector.DrawFilledCircle(c.dst, float32(sx), float32(sy), float32(dotRadius*c.view[0]), col, true)
}

// DrawLabel implements Canvas.
func (c *VectorCanvas) DrawLabel(label string, o LabelOrientation, fontSize float64, style Stroke) {
	if c.dst == nil || c.Face == nil {
		return
	}
	sx, sy := transformPoint(c.view, o.X, o.Y)

	op := &text.DrawOptions{}
	rot := o.RotationDeg * math.Pi / 180
	ascent := c.Face.Metrics().HAscent
	if o.Flipped {
		// Flipped labels anchor at their far end so text hangs outward.
		w, _ := text.Measure(label, c.Face, 0)
		op.GeoM.Translate(-w, -ascent/2)
	} else {
		op.GeoM.Translate(0, -ascent/2)
	}
	op.GeoM.Rotate(rot)
	op.GeoM.Translate(sx, sy)
	op.ColorScale.Scale(
		float32(style.Color.R), float32(style.Color.G), float32(style.Color.B),
		float32(style.Color.A*style.Opacity))
	text.Draw(c.dst, label, c.Face, op)
}
