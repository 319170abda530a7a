package ebitenui

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/phanxgames/arbor"
)

// Renderer implements arbor.Renderer on top of an *ebiten.Image. Text is set
// in Go Mono, the same face the headless arbor.ImageRenderer uses, so
// screenshots from both backends line up.
type Renderer struct {
	dst    *ebiten.Image
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

// NewRenderer creates a renderer. Call SetTarget before drawing.
func NewRenderer() (*Renderer, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenui: parse font: %w", err)
	}
	return &Renderer{
		source: source,
		faces:  make(map[float64]*text.GoTextFace),
	}, nil
}

// SetTarget sets the image subsequent draw calls paint onto.
func (r *Renderer) SetTarget(dst *ebiten.Image) {
	r.dst = dst
}

// FillRect implements arbor.Renderer.
func (r *Renderer) FillRect(rect arbor.Rect, c arbor.Color) {
	if r.dst == nil || c.A <= 0 || rect.Empty() {
		return
	}
	vector.FillRect(r.dst,
		float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height),
		c.NRGBA(), false)
}

// StrokeRect implements arbor.Renderer. The stroke is drawn inside rect.
func (r *Renderer) StrokeRect(rect arbor.Rect, c arbor.Color, width float64) {
	if r.dst == nil || c.A <= 0 || width <= 0 || rect.Empty() {
		return
	}
	half := width / 2
	vector.StrokeRect(r.dst,
		float32(rect.X+half), float32(rect.Y+half),
		float32(max(rect.Width-width, 0)), float32(max(rect.Height-width, 0)),
		float32(width), c.NRGBA(), false)
}

// Text implements arbor.Renderer.
func (r *Renderer) Text(s string, bounds arbor.Rect, size float64, c arbor.Color) {
	if r.dst == nil || s == "" || c.A <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(bounds.X, bounds.Y+bounds.Height/2)
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.Scale(
		float32(c.R*c.A),
		float32(c.G*c.A),
		float32(c.B*c.A),
		float32(c.A),
	)
	text.Draw(r.dst, s, r.face(size), op)
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: r.source, Size: size}
	r.faces[size] = f
	return f
}
