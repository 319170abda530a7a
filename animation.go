package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// gapKey identifies the drop preview a gap belongs to. A new key restarts
// the opening animation.
type gapKey struct {
	target   int
	position DropPosition
	valid    bool
}

// gapAnimator tweens the height of the drop preview gap that opens in the
// row list while a drag hovers a target. It is advanced by State.Tick; a
// zero duration opens the gap instantly.
type gapAnimator struct {
	tween  *gween.Tween
	key    gapKey
	value  float64
	full   float64
	easing ease.TweenFunc
}

// retarget points the gap at a new preview slot. Returns true when the key
// changed.
func (g *gapAnimator) retarget(target int, pos DropPosition, full, duration float64) bool {
	k := gapKey{target: target, position: pos, valid: target != noBranch}
	if k == g.key && full == g.full {
		return false
	}
	g.key = k
	g.full = full
	if !k.valid {
		g.tween = nil
		g.value = 0
		return true
	}
	if duration <= 0 {
		g.tween = nil
		g.value = full
		return true
	}
	fn := g.easing
	if fn == nil {
		fn = ease.OutQuad
	}
	g.tween = gween.New(0, float32(full), float32(duration), fn)
	g.value = 0
	return true
}

// update advances the tween by dt seconds and reports whether the gap
// height changed.
func (g *gapAnimator) update(dt float32) bool {
	if g.tween == nil {
		return false
	}
	val, finished := g.tween.Update(dt)
	prev := g.value
	g.value = float64(val)
	if finished {
		g.value = g.full
		g.tween = nil
	}
	return g.value != prev
}

// height returns the current gap height.
func (g *gapAnimator) height() float64 {
	if !g.key.valid {
		return 0
	}
	return g.value
}

// animating reports whether the gap is still opening.
func (g *gapAnimator) animating() bool {
	return g.tween != nil
}

func (g *gapAnimator) reset() {
	g.tween = nil
	g.key = gapKey{}
	g.value = 0
	g.full = 0
}

// Tick advances time-based state by dt seconds. Hosts call it once per
// frame; the drop preview gap animation is the only consumer.
func (st *State) Tick(dt float32) {
	if st.gap.update(dt) {
		st.invalidate()
	}
}

// SetGapEasing replaces the easing function of the drop preview gap.
// nil restores the default ease.OutQuad.
func (st *State) SetGapEasing(fn ease.TweenFunc) {
	st.gap.easing = fn
}
