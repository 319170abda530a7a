package arbor

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// ImageRenderer is a headless Renderer that paints into an RGBA image. It
// backs screenshots and scripted test runs where no GPU is available.
type ImageRenderer struct {
	dc    *gg.Context
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewImageRenderer creates a w x h renderer cleared to white.
func NewImageRenderer(w, h int) (*ImageRenderer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	r := &ImageRenderer{
		dc:    gg.NewContext(w, h),
		font:  f,
		faces: make(map[float64]font.Face),
	}
	r.Clear(Color{1, 1, 1, 1})
	return r, nil
}

// Clear fills the whole image with c.
func (r *ImageRenderer) Clear(c Color) {
	r.dc.SetColor(c.NRGBA())
	r.dc.Clear()
}

// FillRect implements Renderer.
func (r *ImageRenderer) FillRect(rect Rect, c Color) {
	if c.A <= 0 || rect.Empty() {
		return
	}
	r.dc.SetColor(c.NRGBA())
	r.dc.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
	r.dc.Fill()
}

// StrokeRect implements Renderer. The stroke is drawn inside rect.
func (r *ImageRenderer) StrokeRect(rect Rect, c Color, width float64) {
	if c.A <= 0 || width <= 0 || rect.Empty() {
		return
	}
	half := width / 2
	r.dc.SetColor(c.NRGBA())
	r.dc.SetLineWidth(width)
	r.dc.DrawRectangle(rect.X+half, rect.Y+half, max(rect.Width-width, 0), max(rect.Height-width, 0))
	r.dc.Stroke()
}

// Text implements Renderer.
func (r *ImageRenderer) Text(s string, bounds Rect, size float64, c Color) {
	if s == "" || c.A <= 0 {
		return
	}
	r.dc.SetFontFace(r.face(size))
	r.dc.SetColor(c.NRGBA())
	r.dc.DrawStringAnchored(s, bounds.X, bounds.Y+bounds.Height/2, 0, 0.5)
}

func (r *ImageRenderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// Image returns the rendered image.
func (r *ImageRenderer) Image() image.Image {
	return r.dc.Image()
}

// SavePNG writes the rendered image to path.
func (r *ImageRenderer) SavePNG(path string) error {
	if err := r.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
