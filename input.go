package treemovie

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerEvent carries the screen position of a click or press.
type PointerEvent struct {
	X, Y float64
}

// DragEvent carries the current and starting screen positions of a drag,
// plus the delta since the previous event.
type DragEvent struct {
	X, Y           float64
	StartX, StartY float64
	DX, DY         float64
}

// PointerInput polls mouse state each tick and turns it into click and drag
// events. A press that moves less than the dead zone before release is a
// click; crossing the dead zone starts a drag, which then suppresses the
// click on release.
type PointerInput struct {
	deadZone float64

	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64

	onClick     func(PointerEvent)
	onDragStart func(DragEvent)
	onDrag      func(DragEvent)
	onDragEnd   func(DragEvent)
	onWheel     func(x, y float64, dy float64)
	onMove      func(PointerEvent)
}

// NewPointerInput returns a PointerInput with the default drag dead zone.
func NewPointerInput() *PointerInput {
	return &PointerInput{deadZone: defaultDragDeadZone}
}

// SetDragDeadZone sets the pixel distance a pressed pointer must travel
// before a drag starts instead of a click.
func (p *PointerInput) SetDragDeadZone(pixels float64) {
	p.deadZone = pixels
}

// OnClick sets the handler fired on release when no drag happened.
func (p *PointerInput) OnClick(fn func(PointerEvent)) { p.onClick = fn }

// OnDragStart sets the handler fired when a press crosses the dead zone.
func (p *PointerInput) OnDragStart(fn func(DragEvent)) { p.onDragStart = fn }

// OnDrag sets the handler fired on every movement of an active drag.
func (p *PointerInput) OnDrag(fn func(DragEvent)) { p.onDrag = fn }

// OnDragEnd sets the handler fired when an active drag is released.
func (p *PointerInput) OnDragEnd(fn func(DragEvent)) { p.onDragEnd = fn }

// OnWheel sets the handler fired on scroll, with the cursor position and
// vertical wheel delta.
func (p *PointerInput) OnWheel(fn func(x, y float64, dy float64)) { p.onWheel = fn }

// OnMove sets the handler fired on cursor movement while no button is down.
func (p *PointerInput) OnMove(fn func(PointerEvent)) { p.onMove = fn }

// Dragging reports whether a drag is in progress.
func (p *PointerInput) Dragging() bool {
	return p.dragging
}

// Update polls the mouse and dispatches events. Call once per tick.
func (p *PointerInput) Update() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	if _, wy := ebiten.Wheel(); wy != 0 && p.onWheel != nil {
		p.onWheel(x, y, wy)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.down = true
		p.dragging = false
		p.startX, p.startY = x, y
		p.lastX, p.lastY = x, y

	case p.down && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		dx, dy := x-p.lastX, y-p.lastY
		if !p.dragging {
			tx, ty := x-p.startX, y-p.startY
			if math.Sqrt(tx*tx+ty*ty) > p.deadZone {
				p.dragging = true
				if p.onDragStart != nil {
					p.onDragStart(p.dragEvent(x, y, dx, dy))
				}
			}
		} else if (dx != 0 || dy != 0) && p.onDrag != nil {
			p.onDrag(p.dragEvent(x, y, dx, dy))
		}
		p.lastX, p.lastY = x, y

	case p.down:
		// Released this tick.
		p.down = false
		if p.dragging {
			p.dragging = false
			if p.onDragEnd != nil {
				p.onDragEnd(p.dragEvent(x, y, x-p.lastX, y-p.lastY))
			}
		} else if p.onClick != nil {
			p.onClick(PointerEvent{X: x, Y: y})
		}

	default:
		if (x != p.lastX || y != p.lastY) && p.onMove != nil {
			p.onMove(PointerEvent{X: x, Y: y})
		}
		p.lastX, p.lastY = x, y
	}
}

func (p *PointerInput) dragEvent(x, y, dx, dy float64) DragEvent {
	return DragEvent{X: x, Y: y, StartX: p.startX, StartY: p.startY, DX: dx, DY: dy}
}
