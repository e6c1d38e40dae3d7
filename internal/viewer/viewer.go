// Package viewer is the interactive Ebitengine front end: playback controls,
// timeline scrubbing, camera pan/zoom, and screenshots.
package viewer

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phylomovies/treemovie"
)

const (
	timelineHeight = 48.0
	timelineMargin = 8.0
)

// Options configures the viewer window.
type Options struct {
	Width         int
	Height        int
	Title         string
	ScreenshotDir string
}

// Viewer implements ebiten.Game around a loaded controller.
type Viewer struct {
	opts    Options
	log     *slog.Logger
	ctrl    *treemovie.Controller
	cam     *treemovie.Camera
	canvas  *treemovie.VectorCanvas
	pointer *treemovie.PointerInput
	fps     treemovie.FPSOverlay

	start          time.Time
	last           float64
	width, height  int
	scrubbing      bool
	showFPS        bool
	screenshotWant bool
	hoverText      string
}

// New builds a viewer for an already-loaded controller.
func New(opts Options, ctrl *treemovie.Controller, log *slog.Logger) *Viewer {
	v := &Viewer{
		opts:    opts,
		log:     log,
		ctrl:    ctrl,
		canvas:  treemovie.NewVectorCanvas(),
		pointer: treemovie.NewPointerInput(),
		start:   time.Now(),
		width:   opts.Width,
		height:  opts.Height,
	}
	v.cam = treemovie.NewCamera(v.stageRect())
	v.wirePointer()
	return v
}

// Run opens the window and blocks until it closes.
func (v *Viewer) Run() error {
	ebiten.SetWindowSize(v.opts.Width, v.opts.Height)
	ebiten.SetWindowTitle(v.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

// stageRect is the screen area above the timeline bar.
func (v *Viewer) stageRect() treemovie.Rect {
	return treemovie.Rect{X: 0, Y: 0, Width: float64(v.width), Height: float64(v.height) - timelineHeight}
}

func (v *Viewer) timelineBarY() float64 {
	return float64(v.height) - timelineHeight
}

func (v *Viewer) inTimeline(y float64) bool {
	return y >= v.timelineBarY()
}

func (v *Viewer) timelineWidth() float64 {
	return float64(v.width) - 2*timelineMargin
}

func (v *Viewer) wirePointer() {
	tl := func() *treemovie.TimelineManager { return v.ctrl.Timeline() }

	v.pointer.OnClick(func(e treemovie.PointerEvent) {
		if v.inTimeline(e.Y) {
			v.ctrl.GoToPosition(tl().ClickFrame(e.X-timelineMargin, v.timelineWidth()))
		}
	})
	v.pointer.OnDragStart(func(e treemovie.DragEvent) {
		if v.inTimeline(e.StartY) {
			v.scrubbing = true
			v.ctrl.ScrubTo(tl().PositionForX(e.X-timelineMargin, v.timelineWidth()))
		}
	})
	v.pointer.OnDrag(func(e treemovie.DragEvent) {
		if v.scrubbing {
			v.ctrl.ScrubTo(tl().PositionForX(e.X-timelineMargin, v.timelineWidth()))
		} else {
			v.cam.Pan(-e.DX, -e.DY)
		}
	})
	v.pointer.OnDragEnd(func(_ treemovie.DragEvent) {
		if v.scrubbing {
			v.scrubbing = false
			v.ctrl.EndScrub()
		}
	})
	v.pointer.OnWheel(func(_, y, dy float64) {
		if !v.inTimeline(y) {
			v.cam.ZoomBy(1 + 0.1*dy)
		}
	})
	v.pointer.OnMove(func(e treemovie.PointerEvent) {
		if v.inTimeline(e.Y) {
			if info, ok := tl().HoverAt(e.X-timelineMargin, v.timelineWidth()); ok {
				v.hoverText = hoverLabel(info)
				return
			}
		}
		tl().ClearHover()
		v.hoverText = ""
	})
}

func hoverLabel(info treemovie.SegmentInfo) string {
	if info.IsFullTree {
		return fmt.Sprintf("tree %d", info.StartFrame)
	}
	return fmt.Sprintf("transition %s (%d steps)", info.PairKey, info.InterpolatedSteps)
}

// Update advances playback one tick. The controller clock runs on
// millisecond timestamps; dt stays in seconds.
func (v *Viewer) Update() error {
	t := time.Since(v.start).Seconds()
	dt := t - v.last
	v.last = t
	ms := t * 1000

	v.handleKeys(ms)
	v.pointer.Update()
	v.cam.Update(float32(dt))
	v.ctrl.Update(ms, dt)
	v.fps.Update(dt)
	return nil
}

func (v *Viewer) handleKeys(timestamp float64) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if v.ctrl.Playing.Get() {
			v.ctrl.StopPlayback()
		} else {
			v.ctrl.StartPlayback(timestamp)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		v.ctrl.StepForward()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		v.ctrl.StepBackward()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		v.ctrl.SetSpeed(v.ctrl.Speed() * 1.25)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		v.ctrl.SetSpeed(v.ctrl.Speed() / 1.25)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.showFPS = !v.showFPS
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.screenshotWant = true
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		v.cam.ScrollTo(0, 0, 0.4, nil)
	}
}

// Draw renders the tree, the timeline bar, and the overlays.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{18, 20, 26, 255})

	v.canvas.Begin(screen, v.cam)
	v.ctrl.Draw(v.canvas)

	v.drawTimeline(screen)

	if v.hoverText != "" {
		ebitenutil.DebugPrintAt(screen, v.hoverText, int(timelineMargin), int(v.timelineBarY())-16)
	}
	if v.showFPS {
		v.fps.Draw(screen)
	}

	if v.screenshotWant {
		v.screenshotWant = false
		label := fmt.Sprintf("frame%d", v.ctrl.CurrentFrame.Get())
		if err := treemovie.SaveScreenshot(screen, v.opts.ScreenshotDir, label); err != nil {
			v.log.Error("screenshot", "err", err)
		}
	}
}

var (
	anchorFill     = color.RGBA{90, 130, 200, 255}
	transitionFill = color.RGBA{55, 60, 72, 255}
	hoverFill      = color.RGBA{120, 160, 230, 255}
	playheadFill   = color.RGBA{235, 235, 235, 255}
)

func (v *Viewer) drawTimeline(screen *ebiten.Image) {
	barY := float32(v.timelineBarY())
	vector.DrawFilledRect(screen, 0, barY, float32(v.width), float32(timelineHeight), color.RGBA{28, 30, 38, 255}, false)

	tl := v.ctrl.Timeline()
	width := v.timelineWidth()
	hovered := tl.HoveredSegment.Get()

	segY := barY + 12
	segH := float32(timelineHeight) - 24
	for i, seg := range tl.Segments() {
		x, w := tl.SegmentRect(i, width)
		fill := transitionFill
		if seg.Kind == treemovie.SegmentAnchor {
			fill = anchorFill
		}
		if i == hovered {
			fill = hoverFill
		}
		vector.DrawFilledRect(screen, float32(timelineMargin+x)+1, segY, float32(w)-2, segH, fill, false)
	}

	px := tl.XForPosition(float64(v.ctrl.CurrentFrame.Get()), width)
	vector.DrawFilledRect(screen, float32(timelineMargin+px)-1, barY+6, 2, float32(timelineHeight)-12, playheadFill, false)
}

// Layout resizes the stage with the window.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.cam.SetViewport(v.stageRect())
	}
	return outsideWidth, outsideHeight
}
