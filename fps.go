package treemovie

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSOverlay draws the current FPS and TPS in the top-left corner of the
// screen. The text refreshes every ~0.5 seconds so it stays readable.
type FPSOverlay struct {
	elapsed float64
	text    string
}

// Update advances the refresh timer. Call once per tick.
func (o *FPSOverlay) Update(dt float64) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// Draw renders the overlay. Call at the end of the frame's Draw so the text
// sits above everything else.
func (o *FPSOverlay) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, o.text)
}
