package treemovie

import (
	"fmt"
	"strings"
)

// SVGCanvas collects drawn elements into a standalone SVG document. The tree
// world plane (origin at the root) is centered in the document.
type SVGCanvas struct {
	Width, Height float64
	Background    string

	body strings.Builder
}

// NewSVGCanvas creates a canvas for a document of the given pixel size.
func NewSVGCanvas(width, height float64) *SVGCanvas {
	return &SVGCanvas{Width: width, Height: height}
}

// Reset clears the collected elements so the canvas can render another
// frame.
func (c *SVGCanvas) Reset() {
	c.body.Reset()
}

var svgTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func (c *SVGCanvas) writeStroke(style Stroke) {
	fmt.Fprintf(&c.body, ` stroke=%q stroke-width="%s" fill="none"`, style.Color.Hex(), fmtCoord(style.Width))
	if style.Opacity < 1 {
		fmt.Fprintf(&c.body, ` stroke-opacity="%s"`, fmtCoord(style.Opacity))
	}
}

// DrawBranch implements Canvas using the arc-then-line branch path.
func (c *SVGCanvas) DrawBranch(srcAngle, srcRadius, tgtAngle, tgtRadius float64, style Stroke) {
	c.body.WriteString(`  <path d="`)
	c.body.WriteString(branchPathPolar(srcAngle, srcRadius, tgtAngle, tgtRadius))
	c.body.WriteString(`"`)
	c.writeStroke(style)
	c.body.WriteString(" />\n")
}

// DrawRadialLine implements Canvas.
func (c *SVGCanvas) DrawRadialLine(angle, innerRadius, outerRadius float64, style Stroke) {
	inner := PolarToCart(innerRadius, angle)
	outer := PolarToCart(outerRadius, angle)
	fmt.Fprintf(&c.body, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke-dasharray="3 3"`,
		fmtCoord(inner.X), fmtCoord(inner.Y), fmtCoord(outer.X), fmtCoord(outer.Y))
	c.writeStroke(style)
	c.body.WriteString(" />\n")
}

// DrawNodeDot implements Canvas.
func (c *SVGCanvas) DrawNodeDot(angle, radius, dotRadius float64, style Stroke) {
	pos := PolarToCart(radius, angle)
	fmt.Fprintf(&c.body, `  <circle cx="%s" cy="%s" r="%s" fill=%q`,
		fmtCoord(pos.X), fmtCoord(pos.Y), fmtCoord(dotRadius), style.Color.Hex())
	if style.Opacity < 1 {
		fmt.Fprintf(&c.body, ` fill-opacity="%s"`, fmtCoord(style.Opacity))
	}
	c.body.WriteString(" />\n")
}

// DrawLabel implements Canvas.
func (c *SVGCanvas) DrawLabel(text string, o LabelOrientation, fontSize float64, style Stroke) {
	fmt.Fprintf(&c.body, `  <text transform=%q text-anchor=%q font-size="%s" fill=%q`,
		o.SVGTransform(), o.TextAnchor(), fmtCoord(fontSize), style.Color.Hex())
	if style.Opacity < 1 {
		fmt.Fprintf(&c.body, ` fill-opacity="%s"`, fmtCoord(style.Opacity))
	}
	c.body.WriteString(">")
	c.body.WriteString(svgTextEscaper.Replace(text))
	c.body.WriteString("</text>\n")
}

// Document returns the complete SVG with everything drawn so far.
func (c *SVGCanvas) Document() string {
	var doc strings.Builder
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		fmtCoord(c.Width), fmtCoord(c.Height), fmtCoord(c.Width), fmtCoord(c.Height))
	doc.WriteString("\n")
	if c.Background != "" {
		fmt.Fprintf(&doc, `<rect width="100%%" height="100%%" fill=%q />`, c.Background)
		doc.WriteString("\n")
	}
	fmt.Fprintf(&doc, `<g transform="translate(%s,%s)">`, fmtCoord(c.Width/2), fmtCoord(c.Height/2))
	doc.WriteString("\n")
	doc.WriteString(c.body.String())
	doc.WriteString("</g>\n</svg>\n")
	return doc.String()
}
