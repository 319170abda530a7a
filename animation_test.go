package arbor

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestGapOpensInstantly(t *testing.T) {
	var g gapAnimator
	if !g.retarget(2, DropBefore, 36, 0) {
		t.Fatal("retarget to a new slot should report a change")
	}
	if g.height() != 36 {
		t.Errorf("height = %v, want 36", g.height())
	}
	if g.animating() {
		t.Error("zero duration should not animate")
	}
	if g.retarget(2, DropBefore, 36, 0) {
		t.Error("same slot should not report a change")
	}
	if !g.retarget(2, DropAfter, 36, 0) {
		t.Error("new position should report a change")
	}
}

func TestGapClosesWithoutTarget(t *testing.T) {
	var g gapAnimator
	g.retarget(1, DropInto, 36, 0)
	g.retarget(noBranch, DropBefore, 0, 0)
	if g.height() != 0 {
		t.Errorf("height = %v, want 0", g.height())
	}
}

func TestGapAnimates(t *testing.T) {
	var g gapAnimator
	g.retarget(0, DropBefore, 36, 0.2)
	if g.height() != 0 {
		t.Errorf("height before update = %v, want 0", g.height())
	}
	if !g.update(0.1) {
		t.Error("update mid-tween should report a change")
	}
	if h := g.height(); h <= 0 || h >= 36 {
		t.Errorf("height mid-tween = %v, want between 0 and 36", h)
	}
	g.update(0.2)
	if g.height() != 36 {
		t.Errorf("height after tween = %v, want 36", g.height())
	}
	if g.animating() {
		t.Error("finished tween should stop animating")
	}
	if g.update(0.1) {
		t.Error("update without a tween should report no change")
	}
}

func TestGapReset(t *testing.T) {
	var g gapAnimator
	g.retarget(0, DropBefore, 36, 0.2)
	g.reset()
	if g.height() != 0 || g.animating() {
		t.Errorf("after reset: height %v animating %v", g.height(), g.animating())
	}
}

func TestSetGapEasing(t *testing.T) {
	st := NewState()
	st.SetGapEasing(ease.Linear)
	st.gap.retarget(0, DropBefore, 36, 1)
	st.dirty = false

	st.Tick(0.5)
	if math.Abs(st.gap.height()-18) > 0.01 {
		t.Errorf("linear height at half time = %v, want 18", st.gap.height())
	}
	if !st.dirty {
		t.Error("Tick should invalidate the layout while the gap moves")
	}

	st.Tick(1)
	st.dirty = false
	st.Tick(1)
	if st.dirty {
		t.Error("Tick without a running tween should not invalidate")
	}
}

func TestGapAnimationShiftsRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GapAnimation = 0.2
	tree := New(lbl("A"), lbl("B"), lbl("C")).WithConfig(cfg)
	st := NewState()
	tree.Layout(st, testBounds)

	tree.Update(st, PointerDown(150, rowY(2), 0))
	tree.Update(st, PointerMove(150, 8))
	tree.Layout(st, testBounds)
	if r, _ := st.RowBounds(0); r.Y != 5 {
		t.Errorf("A.Y at gap start = %v, want 5", r.Y)
	}

	st.Tick(1)
	tree.Layout(st, testBounds)
	if r, _ := st.RowBounds(0); r.Y != 5+36 {
		t.Errorf("A.Y with gap open = %v, want 41", r.Y)
	}
}
