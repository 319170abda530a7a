package arbor

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorTransparent draws nothing.
var ColorTransparent = Color{}

// WithAlpha returns c with its alpha component replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA converts the color to 8-bit straight alpha for image backends.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Grow returns r expanded by dx on the left and right and dy on the top and
// bottom.
func (r Rect) Grow(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Alignment positions content inside a larger box along one axis.
type Alignment uint8

const (
	AlignStart  Alignment = iota // left / top
	AlignCenter                  // centered
	AlignEnd                     // right / bottom
)

// offset returns how far content of length size is shifted inside space.
func (a Alignment) offset(space, size float64) float64 {
	free := space - size
	if free <= 0 {
		return 0
	}
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	default:
		return 0
	}
}

// DropPosition says where a dragged set lands relative to the drop target.
type DropPosition uint8

const (
	DropBefore DropPosition = iota // same parent, placed above the target
	DropAfter                      // same parent, placed below the target and its children
	DropInto                       // becomes the target's first child
)

// String returns the lower-case name of the position.
func (p DropPosition) String() string {
	switch p {
	case DropBefore:
		return "before"
	case DropAfter:
		return "after"
	case DropInto:
		return "into"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of held keyboard modifiers.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// toggles reports whether a click with these modifiers toggles selection
// membership instead of replacing the selection.
func (m KeyModifiers) toggles() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// Key identifies the keys the tree reacts to.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeySpace
)

// CursorShape is the pointer shape the host should display.
type CursorShape uint8

const (
	CursorDefault  CursorShape = iota // no opinion
	CursorPointer                     // over interactive content
	CursorGrabbing                    // while a drag is active
)
