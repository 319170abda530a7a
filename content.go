package arbor

import "unicode/utf8"

// LengthKind distinguishes how a Length resolves against available space.
type LengthKind uint8

const (
	LengthShrink LengthKind = iota // natural size of the content
	LengthFixed                    // exact pixel size
	LengthFill                     // share of the remaining space, weighted by Portion
)

// Length is a sizing rule for one axis.
type Length struct {
	Kind    LengthKind
	Value   float64 // pixels, for LengthFixed
	Portion uint16  // weight, for LengthFill (0 is treated as 1)
}

// Shrink sizes to the content's natural size.
func Shrink() Length { return Length{Kind: LengthShrink} }

// Fixed sizes to exactly px pixels.
func Fixed(px float64) Length { return Length{Kind: LengthFixed, Value: px} }

// Fill takes all remaining space.
func Fill() Length { return Length{Kind: LengthFill, Portion: 1} }

// FillPortion takes a weighted share of the remaining space.
func FillPortion(n uint16) Length { return Length{Kind: LengthFill, Portion: n} }

// FillFactor returns the fill weight, or 0 for non-fluid lengths.
func (l Length) FillFactor() uint16 {
	if l.Kind != LengthFill {
		return 0
	}
	if l.Portion == 0 {
		return 1
	}
	return l.Portion
}

// IsFill reports whether the length is fluid.
func (l Length) IsFill() bool { return l.Kind == LengthFill }

// enclose returns the length that can fit both l and other: a shrinking
// container grows to fill when any child fills.
func (l Length) enclose(other Length) Length {
	if l.Kind == LengthShrink && other.Kind == LengthFill {
		return other
	}
	return l
}

// resolve picks a concrete size for l given the maximum available and the
// intrinsic size of the content.
func (l Length) resolve(avail, intrinsic float64) float64 {
	switch l.Kind {
	case LengthFixed:
		return min(l.Value, avail)
	case LengthFill:
		return avail
	default:
		return min(intrinsic, avail)
	}
}

// SizeHint is the sizing rule of a piece of content on both axes.
type SizeHint struct {
	Width, Height Length
}

// Content is the opaque renderable unit shown in a branch row. The tree
// never looks inside content: it asks for a size hint, lays it out against
// a maximum size, and draws it inside the bounds it was assigned.
type Content interface {
	SizeHint() SizeHint
	// Layout returns the content's size given the maximum space available.
	Layout(limit Size) Size
	Draw(r Renderer, bounds Rect)
}

// Updater is implemented by content that reacts to input. The tree forwards
// every event to the content of visible, non-dragged branches.
type Updater interface {
	Update(ev Event, bounds Rect)
}

// HitTester is implemented by content with its own interactive regions. The
// tree uses it to report a pointer cursor over such regions.
type HitTester interface {
	HitTest(bounds Rect, p Vec2) bool
}

// Renderer is the drawing backend the tree paints through.
type Renderer interface {
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color, width float64)
	// Text draws s left-aligned at bounds.X and vertically centered in bounds.
	Text(s string, bounds Rect, size float64, c Color)
}

// --- Built-in content ---

// Label is single-line text content measured with a fixed advance per rune.
type Label struct {
	Text  string
	Size  float64 // font size in pixels; 0 means 14
	Color Color
}

// NewLabel creates a label with the default size and an opaque black color.
func NewLabel(text string) *Label {
	return &Label{Text: text, Color: Color{0, 0, 0, 1}}
}

func (l *Label) fontSize() float64 {
	if l.Size <= 0 {
		return 14
	}
	return l.Size
}

// SizeHint reports shrink on both axes.
func (l *Label) SizeHint() SizeHint { return SizeHint{Width: Shrink(), Height: Shrink()} }

// Layout measures the label: 0.6em per rune wide, 1.3em tall.
func (l *Label) Layout(limit Size) Size {
	fs := l.fontSize()
	w := float64(utf8.RuneCountInString(l.Text)) * fs * 0.6
	return Size{Width: min(w, limit.Width), Height: min(fs*1.3, limit.Height)}
}

// Draw renders the label text.
func (l *Label) Draw(r Renderer, bounds Rect) {
	r.Text(l.Text, bounds, l.fontSize(), l.Color)
}

// Box is a solid rectangle with configurable sizing, useful for swatches and
// for fluid rows.
type Box struct {
	Width, Height Length
	Color         Color
}

// SizeHint reports the box's lengths.
func (b *Box) SizeHint() SizeHint { return SizeHint{Width: b.Width, Height: b.Height} }

// Layout resolves the box lengths against max. Shrinking axes collapse to 0.
func (b *Box) Layout(limit Size) Size {
	return Size{
		Width:  b.Width.resolve(limit.Width, 0),
		Height: b.Height.resolve(limit.Height, 0),
	}
}

// Draw fills the box.
func (b *Box) Draw(r Renderer, bounds Rect) {
	r.FillRect(bounds, b.Color)
}
