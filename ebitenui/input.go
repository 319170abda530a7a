package ebitenui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/arbor"
)

// InputPoller reads Ebitengine's mouse and keyboard state once per tick and
// queues the changes as arbor events. Only the left button drives the tree;
// other buttons are ignored.
type InputPoller struct {
	viewport arbor.Rect
	inside   bool
	lastX    int
	lastY    int
	mods     arbor.KeyModifiers
	keys     []ebiten.Key
}

// NewInputPoller creates a poller that treats the cursor as inside the tree
// while it lies within viewport.
func NewInputPoller(viewport arbor.Rect) *InputPoller {
	return &InputPoller{viewport: viewport, lastX: -1, lastY: -1}
}

// SetViewport changes the area the cursor must be in to count as inside.
func (p *InputPoller) SetViewport(viewport arbor.Rect) {
	p.viewport = viewport
}

// Poll queues this tick's input on q.
func (p *InputPoller) Poll(q *arbor.EventQueue) {
	mods := readModifiers()
	if mods != p.mods {
		p.mods = mods
		q.Push(arbor.Event{Kind: arbor.EventModifiers, Modifiers: mods})
	}

	mx, my := ebiten.CursorPosition()
	p.pointer(q, pointerSample{
		x:        mx,
		y:        my,
		focused:  ebiten.IsFocused(),
		pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}, mods)

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		if key := treeKey(k); key != arbor.KeyUnknown {
			q.Push(arbor.KeyDown(key, mods))
		}
	}
}

// pointerSample is the left-button pointer state read in one tick.
type pointerSample struct {
	x, y     int
	focused  bool
	pressed  bool
	released bool
}

// pointer queues the pointer events for one sample. Leaving the viewport
// always sends PointerLeave, even with the button held, so an active drag
// is abandoned rather than dropped at its last target. A release that
// follows outside the viewport is not forwarded.
func (p *InputPoller) pointer(q *arbor.EventQueue, s pointerSample, mods arbor.KeyModifiers) {
	x, y := float64(s.x), float64(s.y)
	inside := s.focused && p.viewport.Contains(arbor.Vec2{X: x, Y: y})

	switch {
	case !inside && p.inside:
		q.Push(arbor.PointerLeave())
	case inside && (s.x != p.lastX || s.y != p.lastY):
		q.Push(arbor.PointerMove(x, y))
	}
	p.inside = inside
	p.lastX, p.lastY = s.x, s.y

	if s.pressed && inside {
		q.Push(arbor.PointerDown(x, y, mods))
	}
	if s.released && inside {
		q.Push(arbor.PointerUp(x, y))
	}
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= arbor.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= arbor.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= arbor.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= arbor.ModMeta
	}
	return mods
}

func treeKey(k ebiten.Key) arbor.Key {
	switch k {
	case ebiten.KeyArrowUp:
		return arbor.KeyArrowUp
	case ebiten.KeyArrowDown:
		return arbor.KeyArrowDown
	case ebiten.KeyArrowLeft:
		return arbor.KeyArrowLeft
	case ebiten.KeyArrowRight:
		return arbor.KeyArrowRight
	case ebiten.KeySpace:
		return arbor.KeySpace
	}
	return arbor.KeyUnknown
}

// ApplyCursor sets the system cursor to the shape the tree reports.
func ApplyCursor(shape arbor.CursorShape) {
	ebiten.SetCursorShape(cursorShape(shape))
}

func cursorShape(shape arbor.CursorShape) ebiten.CursorShapeType {
	switch shape {
	case arbor.CursorPointer:
		return ebiten.CursorShapePointer
	case arbor.CursorGrabbing:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}
