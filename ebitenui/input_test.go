package ebitenui

import (
	"slices"
	"testing"

	"github.com/phanxgames/arbor"
)

func kinds(q *arbor.EventQueue) []arbor.EventKind {
	var out []arbor.EventKind
	for _, ev := range q.Drain() {
		out = append(out, ev.Kind)
	}
	return out
}

func TestPointerLeaveWhileHeld(t *testing.T) {
	p := NewInputPoller(arbor.Rect{Width: 300, Height: 600})
	var q arbor.EventQueue
	p.pointer(&q, pointerSample{x: 150, y: 21, focused: true, pressed: true}, 0)
	p.pointer(&q, pointerSample{x: 150, y: 60, focused: true}, 0)
	p.pointer(&q, pointerSample{x: 400, y: 60, focused: true}, 0)
	p.pointer(&q, pointerSample{x: 410, y: 60, focused: true}, 0)
	p.pointer(&q, pointerSample{x: 410, y: 60, focused: true, released: true}, 0)

	want := []arbor.EventKind{
		arbor.EventPointerMove,
		arbor.EventPointerDown,
		arbor.EventPointerMove,
		arbor.EventPointerLeave,
	}
	if got := kinds(&q); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPointerLeaveOnFocusLoss(t *testing.T) {
	p := NewInputPoller(arbor.Rect{Width: 300, Height: 600})
	var q arbor.EventQueue
	p.pointer(&q, pointerSample{x: 10, y: 10, focused: true}, 0)
	p.pointer(&q, pointerSample{x: 10, y: 10}, 0)

	want := []arbor.EventKind{arbor.EventPointerMove, arbor.EventPointerLeave}
	if got := kinds(&q); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestDragOutsideViewport(t *testing.T) {
	tests := []struct {
		name     string
		releaseX int
		drops    int
	}{
		{"release inside commits", 150, 1},
		{"release outside aborts", 400, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drops := 0
			tree := arbor.New(
				arbor.NewBranch[string](arbor.NewLabel("A")).WithID("a"),
				arbor.NewBranch[string](arbor.NewLabel("B")).WithID("b"),
				arbor.NewBranch[string](arbor.NewLabel("C")).WithID("c"),
			).OnDrop(func(arbor.DropInfo[string]) { drops++ })
			bounds := arbor.Rect{Width: 300, Height: 600}
			st := arbor.NewState()
			p := NewInputPoller(bounds)

			samples := []pointerSample{
				{x: 150, y: 21, focused: true, pressed: true},
				{x: 150, y: 60, focused: true},
				{x: 150, y: 95, focused: true},
				{x: tt.releaseX, y: 95, focused: true},
				{x: tt.releaseX, y: 95, focused: true, released: true},
			}
			for _, s := range samples {
				var q arbor.EventQueue
				p.pointer(&q, s, 0)
				tree.Frame(st, bounds, &q, nil)
			}

			if drops != tt.drops {
				t.Errorf("drops = %d, want %d", drops, tt.drops)
			}
			if tt.drops == 0 {
				var got []int
				for _, e := range st.Order().Entries() {
					got = append(got, e.ID)
				}
				if !slices.Equal(got, []int{0, 1, 2}) {
					t.Errorf("order = %v, want unchanged [0 1 2]", got)
				}
			}
		})
	}
}
