package treemovie

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Lerp returns the component-wise linear interpolation between c and other
// at t. t is clamped to [0, 1].
func (c Color) Lerp(other Color, t float64) Color {
	t = clamp(t, 0, 1)
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// WithAlpha returns the color with its alpha replaced by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGBA converts to a standard 8-bit color. Components are clamped.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1) * 255),
		G: uint8(clamp(c.G, 0, 1) * 255),
		B: uint8(clamp(c.B, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}

// Hex renders the color as "#rrggbb" for SVG attributes. Alpha is carried
// separately as an opacity attribute.
func (c Color) Hex() string {
	const digits = "0123456789abcdef"
	buf := [7]byte{'#'}
	for i, v := range [3]float64{c.R, c.G, c.B} {
		b := uint8(clamp(v, 0, 1) * 255)
		buf[1+i*2] = digits[b>>4]
		buf[2+i*2] = digits[b&0xf]
	}
	return string(buf[:])
}

// Vec2 is a 2D vector used for positions and offsets throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// CenterX returns the x-coordinate of the rectangle's center.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nearZero reports whether v is within epsilon of zero. Used when radii or
// angle deltas degenerate.
func nearZero(v float64) bool {
	return math.Abs(v) < 1e-12
}
