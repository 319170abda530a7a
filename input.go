package arbor

import (
	"fmt"
	"math"
)

// Update feeds one input event to the tree. Geometry is recomputed first if
// anything invalidated it, so hit-testing always sees the current frame.
func (t *Tree[ID]) Update(st *State, ev Event) {
	t.ensureLayout(st)
	t.forward(st, ev)

	switch ev.Kind {
	case EventModifiers:
		st.modifiers = ev.Modifiers
	case EventPointerDown:
		if ev.Button == MouseButtonLeft {
			t.pointerDown(st, ev.Position, ev.Modifiers|st.modifiers)
		}
	case EventPointerMove:
		t.pointerMove(st, ev.Position)
	case EventPointerUp:
		if ev.Button == MouseButtonLeft {
			t.pointerUp(st)
		}
	case EventPointerLeave:
		t.pointerLeave(st)
	case EventKeyDown:
		t.keyDown(st, ev.Key, ev.Modifiers|st.modifiers)
	}
}

// forward hands the event to content that handles input. Hidden and
// dragged branches are skipped.
func (t *Tree[ID]) forward(st *State, ev Event) {
	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		if u, ok := t.reg.contents[i].(Updater); ok {
			u.Update(ev, st.cells[i])
		}
	}
}

// arrowBounds returns the expand/collapse hit region of a visible row.
func (t *Tree[ID]) arrowBounds(st *State, i int) Rect {
	row := st.rows[i]
	return Rect{
		X:      st.bounds.X + t.indentX(st.res[i].depth),
		Y:      row.Y,
		Width:  t.cfg.ArrowWidth,
		Height: row.Height,
	}
}

// handleBounds returns the drag handle hover zone of a visible row.
func (t *Tree[ID]) handleBounds(st *State, i int) Rect {
	row := st.rows[i]
	return Rect{
		X:      st.bounds.X + t.indentX(st.res[i].depth) + t.cfg.ArrowWidth,
		Y:      row.Y,
		Width:  t.cfg.HandleWidth,
		Height: row.Height,
	}
}

func (t *Tree[ID]) pointerDown(st *State, p Vec2, mods KeyModifiers) {
	if st.active != nil {
		return
	}
	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		if t.reg.branches[i].hasChildren && t.arrowBounds(st, i).Contains(p) {
			t.setExpanded(st, i, !st.expanded[i])
			return
		}
		if st.rows[i].Contains(p) {
			t.press(st, i, p, mods)
			return
		}
	}
}

// press selects branch i and, when it is draggable, arms a drag. The
// candidate set is computed from the selection before it changes.
func (t *Tree[ID]) press(st *State, i int, p Vec2, mods KeyModifiers) {
	if t.reg.branches[i].draggable {
		candidates := []int{i}
		if st.selected[i] {
			candidates = t.dragCandidates(st)
		}
		row, cell := st.rows[i], st.cells[i]
		st.pending = &dragPending{
			start:       p,
			candidates:  candidates,
			primary:     i,
			origin:      row,
			content:     Rect{X: cell.X - row.X, Y: cell.Y - row.Y, Width: cell.Width, Height: cell.Height},
			clickOffset: p.Sub(Vec2{row.X, row.Y}),
		}
	}

	if mods.toggles() {
		if st.selected[i] {
			delete(st.selected, i)
		} else {
			st.selected[i] = true
		}
	} else {
		clear(st.selected)
		st.selected[i] = true
	}
	st.focused = i
	st.invalidate()
	t.emitSelect(st)
}

// dragCandidates returns the draggable selected branches in display order,
// minus any whose ancestor is also a candidate. The ancestor carries its
// descendants along.
func (t *Tree[ID]) dragCandidates(st *State) []int {
	draggable := make(map[int]bool, len(st.selected))
	for id := range st.selected {
		if t.reg.valid(id) && t.reg.branches[id].draggable {
			draggable[id] = true
		}
	}
	out := make([]int, 0, len(draggable))
	for _, id := range st.ordered {
		if !draggable[id] {
			continue
		}
		redundant := false
		for other := range draggable {
			if other != id && st.order.isDescendant(id, other) {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, id)
		}
	}
	return out
}

func (t *Tree[ID]) pointerMove(st *State, p Vec2) {
	switch {
	case st.active != nil:
		t.dragMove(st, p)
	case st.pending != nil:
		pd := st.pending
		if math.Hypot(p.X-pd.start.X, p.Y-pd.start.Y) < t.cfg.DragThreshold {
			return
		}
		set := make(map[int]bool, len(pd.candidates))
		for _, id := range pd.candidates {
			set[id] = true
		}
		st.active = &dragActive{
			dragged:     append([]int(nil), pd.candidates...),
			draggedSet:  set,
			primary:     pd.primary,
			origin:      pd.origin,
			content:     pd.content,
			clickOffset: pd.clickOffset,
			pointer:     p,
			target:      noBranch,
			position:    DropBefore,
		}
		st.pending = nil
		st.hovered, st.handle = noBranch, noBranch
		st.invalidate()
		t.emitDragStart(st.active.dragged)
		t.ensureLayout(st)
		t.dragMove(st, p)
	default:
		t.hover(st, p)
	}
}

// dragMove resolves the drop target under p. Rows are stacked without the
// preview gap so the target does not shift as the gap opens and closes.
func (t *Tree[ID]) dragMove(st *State, p Vec2) {
	a := st.active
	a.pointer = p
	cfg := &t.cfg
	b := st.bounds

	target, pos := a.target, a.position
	found := false
	last, lastBottom := noBranch, 0.0
	y := b.Y + cfg.PaddingY
	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		row := Rect{X: b.X, Y: y, Width: b.Width, Height: st.heights[i]}
		y += row.Height + cfg.Spacing
		last, lastBottom = i, row.Bottom()
		if found || !row.Grow(0, cfg.HitTolerance).Contains(p) {
			continue
		}
		d := &t.reg.branches[i]
		target = i
		pos = dropPosition(p.Y, row, d.hasChildren, st.expanded[i], d.acceptsDrops)
		found = true
	}
	if !found && last != noBranch && p.Y > b.Y && p.Y > lastBottom {
		target, pos = last, DropAfter
	}

	a.target, a.position = target, pos
	// The overlay follows the pointer every move.
	st.invalidate()
}

// dropPosition splits a row into thirds. The middle third drops into the
// row only when it shows children or accepts drops; otherwise the nearer
// half decides.
func dropPosition(y float64, row Rect, hasChildren, expanded, acceptsDrops bool) DropPosition {
	rel := y - row.Y
	third := row.Height / 3
	switch {
	case rel < third:
		return DropBefore
	case rel > row.Height-third:
		return DropAfter
	case (hasChildren && expanded) || acceptsDrops:
		return DropInto
	case rel < row.Height/2:
		return DropBefore
	default:
		return DropAfter
	}
}

func (t *Tree[ID]) hover(st *State, p Vec2) {
	hovered, handle := noBranch, noBranch
	for _, i := range st.ordered {
		if !st.visible[i] || !st.rows[i].Contains(p) {
			continue
		}
		hovered = i
		if t.handleBounds(st, i).Contains(p) {
			handle = i
		}
		break
	}
	st.hovered, st.handle = hovered, handle
}

// pointerUp commits an active drag or disarms a pending one.
func (t *Tree[ID]) pointerUp(st *State) {
	a := st.active
	if a == nil {
		st.pending = nil
		return
	}
	st.clearDrag()
	if a.target == noBranch {
		return
	}

	next, ok := Reorder(st.order, a.dragged, a.target, a.position)
	if !ok {
		st.warn(Warning{
			Kind:    WarnReorderNoop,
			Message: fmt.Sprintf("drop of %v %s %d not applied", a.dragged, a.position, a.target),
		})
		return
	}
	st.order = next
	for _, id := range t.updateHasChildren(st) {
		st.expanded[id] = true
		t.emitExpand(id, true)
	}

	info := DropInfo[ID]{
		Dragged:         t.externalIDs(a.dragged),
		Position:        a.position,
		DraggedInternal: append([]int(nil), a.dragged...),
		TargetInternal:  a.target,
	}
	info.Target, info.HasTarget = t.reg.externalID(a.target)
	t.emitDrop(info)
}

func (t *Tree[ID]) pointerLeave(st *State) {
	st.clearDrag()
	st.hovered, st.handle = noBranch, noBranch
}

// keyDown handles keyboard navigation relative to the focused branch.
func (t *Tree[ID]) keyDown(st *State, key Key, mods KeyModifiers) {
	f := st.focused
	if !t.reg.valid(f) {
		return
	}
	switch key {
	case KeyArrowUp, KeyArrowDown:
		rows := make([]int, 0, len(st.ordered))
		at := -1
		for _, i := range st.ordered {
			if st.visible[i] {
				if i == f {
					at = len(rows)
				}
				rows = append(rows, i)
			}
		}
		if at < 0 {
			return
		}
		if key == KeyArrowUp && at > 0 {
			st.focused = rows[at-1]
			st.invalidate()
		}
		if key == KeyArrowDown && at < len(rows)-1 {
			st.focused = rows[at+1]
			st.invalidate()
		}
	case KeyArrowLeft:
		if t.reg.branches[f].hasChildren && st.expanded[f] {
			t.setExpanded(st, f, false)
		}
	case KeyArrowRight:
		if t.reg.branches[f].hasChildren && !st.expanded[f] {
			t.setExpanded(st, f, true)
		}
	case KeySpace:
		if mods.toggles() {
			if st.selected[f] {
				delete(st.selected, f)
			} else {
				st.selected[f] = true
			}
		} else {
			clear(st.selected)
			st.selected[f] = true
		}
		st.invalidate()
		t.emitSelect(st)
	}
}

func (t *Tree[ID]) setExpanded(st *State, id int, expanded bool) {
	if expanded {
		st.expanded[id] = true
	} else {
		delete(st.expanded, id)
	}
	st.invalidate()
	t.emitExpand(id, expanded)
}

// Cursor returns the pointer shape for position p: grabbing while a drag is
// active, pointer over expand arrows and interactive content.
func (t *Tree[ID]) Cursor(st *State, p Vec2) CursorShape {
	t.ensureLayout(st)
	if st.active != nil {
		return CursorGrabbing
	}
	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		if h, ok := t.reg.contents[i].(HitTester); ok && h.HitTest(st.cells[i], p) {
			return CursorPointer
		}
		if t.reg.branches[i].hasChildren && t.arrowBounds(st, i).Contains(p) {
			return CursorPointer
		}
	}
	return CursorDefault
}
