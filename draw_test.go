package arbor

import "testing"

type drawCall struct {
	op    string
	rect  Rect
	color Color
	text  string
}

// recordingRenderer records every drawing call.
type recordingRenderer struct {
	calls []drawCall
}

func (r *recordingRenderer) FillRect(rect Rect, c Color) {
	r.calls = append(r.calls, drawCall{op: "fill", rect: rect, color: c})
}

func (r *recordingRenderer) StrokeRect(rect Rect, c Color, width float64) {
	r.calls = append(r.calls, drawCall{op: "stroke", rect: rect, color: c})
}

func (r *recordingRenderer) Text(s string, bounds Rect, size float64, c Color) {
	r.calls = append(r.calls, drawCall{op: "text", rect: bounds, color: c, text: s})
}

func (r *recordingRenderer) find(match func(drawCall) bool) (drawCall, bool) {
	for _, c := range r.calls {
		if match(c) {
			return c, true
		}
	}
	return drawCall{}, false
}

func (r *recordingRenderer) texts() []string {
	var out []string
	for _, c := range r.calls {
		if c.op == "text" {
			out = append(out, c.text)
		}
	}
	return out
}

func TestDrawLabelsAndArrows(t *testing.T) {
	tree := sampleTree()
	st := NewState()
	var r recordingRenderer
	tree.Frame(st, testBounds, nil, &r)

	want := []string{arrowExpanded, "A", arrowExpanded, "B", "C", "D", "E"}
	got := r.texts()
	if len(got) != len(want) {
		t.Fatalf("texts = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("text %d = %q, want %q", i, got[i], want[i])
		}
	}
	if c, ok := r.find(func(c drawCall) bool { return c.text == "B" }); !ok || c.rect.X != 10+20+16+14 {
		t.Errorf("B drawn at X = %v, want 60", c.rect.X)
	}
}

func TestDrawCollapsedArrow(t *testing.T) {
	tree := sampleTree()
	st := NewState()
	var q EventQueue
	q.InjectClick(35, rowY(1))
	tree.Frame(st, testBounds, &q, nil)

	var r recordingRenderer
	tree.Draw(st, &r)
	c, ok := r.find(func(c drawCall) bool { return c.text == arrowCollapsed })
	if !ok {
		t.Fatalf("no collapsed arrow in %q", r.texts())
	}
	if c.rect.X != 10+20+4 {
		t.Errorf("arrow X = %v, want 34", c.rect.X)
	}
	if _, ok := r.find(func(c drawCall) bool { return c.text == "C" }); ok {
		t.Error("collapsed children should not be drawn")
	}
}

func TestDrawSelection(t *testing.T) {
	tree := sampleTree()
	st := NewState()
	var q EventQueue
	q.InjectClick(150, rowY(1))
	var r recordingRenderer
	tree.Frame(st, testBounds, &q, &r)

	style := tree.Config().Style
	row := Rect{Y: 41, Width: 300, Height: 32}
	if _, ok := r.find(func(c drawCall) bool {
		return c.op == "fill" && c.rect == row && c.color == style.SelectionBackground
	}); !ok {
		t.Error("selected row B was not filled")
	}
	if _, ok := r.find(func(c drawCall) bool {
		return c.op == "stroke" && c.rect == row && c.color == style.FocusBorder
	}); !ok {
		t.Error("focused row B has no border")
	}
}

func TestDrawDragOverlay(t *testing.T) {
	tree := sampleTree()
	st := NewState()
	tree.Layout(st, testBounds)
	tree.Update(st, PointerDown(150, rowY(4), 0))
	tree.Update(st, PointerMove(200, 100))

	var r recordingRenderer
	tree.Draw(st, &r)

	// Grabbed 16px into the row at x 150.
	box := Rect{X: 50, Y: 84, Width: 300, Height: 32}
	if _, ok := r.find(func(c drawCall) bool {
		return c.op == "fill" && c.rect == box
	}); !ok {
		t.Errorf("overlay box %v not drawn", box)
	}
	c, ok := r.find(func(c drawCall) bool { return c.text == "E" })
	if !ok {
		t.Fatal("dragged label not drawn")
	}
	if c.rect.X != 50+40 {
		t.Errorf("overlay label X = %v, want 90", c.rect.X)
	}
}

func TestDrawDropPreviewAfter(t *testing.T) {
	tree := New(lbl("A"), lbl("B"), lbl("C"))
	st := NewState()
	tree.Layout(st, testBounds)
	tree.Update(st, PointerDown(150, rowY(2), 0))
	tree.Update(st, PointerMove(150, 70))
	if id, pos, ok := st.DropTarget(); !ok || id != 1 || pos != DropAfter {
		t.Fatalf("target %d %s %v, want 1 after", id, pos, ok)
	}

	var r recordingRenderer
	tree.Draw(st, &r)
	slot := Rect{X: 10, Y: 77, Width: 290, Height: 32}
	accept := tree.Config().Style.AcceptDrop
	if _, ok := r.find(func(c drawCall) bool {
		return c.op == "stroke" && c.rect == slot && c.color == accept
	}); !ok {
		t.Errorf("preview slot %v not drawn", slot)
	}
}

func TestDrawDropIntoIndicator(t *testing.T) {
	tree := New(lbl("A"), lbl("B").AcceptsDrops())
	st := NewState()
	tree.Layout(st, testBounds)
	tree.Update(st, PointerDown(150, rowY(0), 0))
	tree.Update(st, PointerMove(150, 30))
	tree.Update(st, PointerMove(150, 21))
	if _, pos, ok := st.DropTarget(); !ok || pos != DropInto {
		t.Fatalf("position %s %v, want into", pos, ok)
	}

	var r recordingRenderer
	tree.Draw(st, &r)
	row := Rect{Y: 5, Width: 300, Height: 32}
	accept := tree.Config().Style.AcceptDrop
	if _, ok := r.find(func(c drawCall) bool {
		return c.op == "stroke" && c.rect == row && c.color == accept
	}); !ok {
		t.Error("target row not highlighted")
	}
	if _, ok := r.find(func(c drawCall) bool { return c.text == arrowInto }); !ok {
		t.Error("collapsed target should show the into arrow")
	}
}
