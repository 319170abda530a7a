package ebitenui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in seconds, the overlay text is redrawn.
const fpsRefresh = 0.5

// fpsOverlay shows the current FPS and TPS in the top-right corner. Its
// image is only redrawn every fpsRefresh seconds so the numbers stay
// readable.
type fpsOverlay struct {
	img   *ebiten.Image
	since float64
	drawn bool
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32)}
}

// update advances the refresh timer by dt seconds.
func (o *fpsOverlay) update(dt float64) {
	o.since += dt
	if o.drawn && o.since < fpsRefresh {
		return
	}
	o.since = 0
	o.drawn = true

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	x := screen.Bounds().Dx() - o.img.Bounds().Dx()
	op.GeoM.Translate(float64(max(x, 0)), 0)
	screen.DrawImage(o.img, &op)
}
