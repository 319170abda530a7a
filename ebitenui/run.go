package ebitenui

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// RunConfig configures the window and loop created by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background arbor.Color
	ShowFPS    bool
	Debug      bool

	// ConfigPath, when set, names a YAML config that is applied to every
	// built tree and reloaded whenever the file changes.
	ConfigPath string

	// Runner, when set, drives the tree from a test script instead of the
	// real mouse and keyboard. Screenshots are written to ScreenshotDir and
	// the loop exits once the script is done.
	Runner        *arbor.TestRunner
	ScreenshotDir string
}

// Run opens a window and runs the tree until the window is closed. build is
// called once per tick to declare the tree; st carries the widget state
// across those rebuilds. Run blocks.
func Run[ID comparable](build func() *arbor.Tree[ID], st *arbor.State, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Background == (arbor.Color{}) {
		cfg.Background = arbor.Color{R: 1, G: 1, B: 1, A: 1}
	}
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	st.SetDebugMode(cfg.Debug)

	var watch *arbor.ConfigWatcher
	if cfg.ConfigPath != "" {
		watch, err = arbor.WatchConfig(cfg.ConfigPath)
		if err != nil {
			return err
		}
		defer watch.Close()
	}

	bounds := arbor.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	g := &game[ID]{
		build:  build,
		st:     st,
		cfg:    cfg,
		r:      r,
		input:  NewInputPoller(bounds),
		watch:  watch,
		bounds: bounds,
	}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// game adapts a tree to ebiten.Game.
type game[ID comparable] struct {
	build  func() *arbor.Tree[ID]
	st     *arbor.State
	cfg    RunConfig
	r      *Renderer
	input  *InputPoller
	watch  *arbor.ConfigWatcher
	queue  arbor.EventQueue
	tree   *arbor.Tree[ID]
	bounds arbor.Rect
	fps    *fpsOverlay
	shots  []string
	cursor arbor.CursorShape
	done   bool
}

func (g *game[ID]) Update() error {
	if g.done {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())
	g.st.Tick(float32(dt))
	if g.fps != nil {
		g.fps.update(dt)
	}

	if g.cfg.Runner != nil {
		g.cfg.Runner.Step(&g.queue, func(label string) {
			g.shots = append(g.shots, label)
		})
	} else {
		g.input.Poll(&g.queue)
	}

	g.tree = g.build()
	if g.watch != nil {
		g.tree.WithConfig(g.watch.Config())
	}
	g.tree.Frame(g.st, g.bounds, &g.queue, nil)

	mx, my := ebiten.CursorPosition()
	if shape := g.tree.Cursor(g.st, arbor.Vec2{X: float64(mx), Y: float64(my)}); shape != g.cursor {
		g.cursor = shape
		ApplyCursor(shape)
	}
	return nil
}

func (g *game[ID]) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background.NRGBA())
	if g.tree != nil {
		g.r.SetTarget(screen)
		g.tree.Draw(g.st, g.r)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.flushScreenshots(screen)
	if g.cfg.Runner != nil && g.cfg.Runner.Done() && len(g.shots) == 0 {
		g.done = true
	}
}

func (g *game[ID]) Layout(outsideWidth, outsideHeight int) (int, int) {
	bounds := arbor.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if bounds != g.bounds {
		g.bounds = bounds
		g.input.SetViewport(bounds)
	}
	return outsideWidth, outsideHeight
}

// flushScreenshots captures the rendered frame for every queued label.
func (g *game[ID]) flushScreenshots(screen *ebiten.Image) {
	if len(g.shots) == 0 {
		return
	}
	img := capture(screen)
	for _, label := range g.shots {
		path, err := arbor.SaveScreenshot(g.cfg.ScreenshotDir, label, img)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[arbor] %v\n", err)
			continue
		}
		if g.cfg.Debug {
			_, _ = fmt.Fprintf(os.Stderr, "[arbor] screenshot: %s\n", path)
		}
	}
	g.shots = g.shots[:0]
}

// capture reads screen back into a straight-alpha image.
func capture(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		px := unpremultiply(pixels[i], pixels[i+1], pixels[i+2], pixels[i+3])
		img.Pix[i] = px.R
		img.Pix[i+1] = px.G
		img.Pix[i+2] = px.B
		img.Pix[i+3] = px.A
	}
	return img
}

func unpremultiply(r, g, b, a uint8) color.NRGBA {
	if a > 0 && a < 255 {
		r = uint8(min(int(r)*255/int(a), 255))
		g = uint8(min(int(g)*255/int(a), 255))
		b = uint8(min(int(b)*255/int(a), 255))
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
