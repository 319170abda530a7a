package arbor

import (
	"fmt"
	"time"
)

// Layout computes the geometry of every branch inside bounds and stores it
// on st for the Update and Draw calls of the same frame. It returns the size
// the tree occupies.
func (t *Tree[ID]) Layout(st *State, bounds Rect) Size {
	var start time.Time
	if st.debug {
		start = time.Now()
	}

	fresh := st.owner != any(t)
	st.owner = t
	st.bounds = bounds
	st.dirty = false
	if fresh {
		st.recordDeclared(t.reg.warnings)
	}

	t.syncState(st, fresh)

	n := t.reg.len()
	st.ordered = st.order.orderedIndices(n)
	st.res = resolve(st.order, t.reg.branches)
	var dragged map[int]bool
	if st.active != nil {
		dragged = st.active.draggedSet
	}
	st.visible = visibility(st.res, st.expanded, dragged)
	if st.debug {
		st.debugCheckTreeDepth(st.res)
	}

	t.measure(st, bounds)
	visible := t.place(st, bounds)

	if st.debug {
		st.debugLog(layoutStats{
			layoutTime: time.Since(start),
			branches:   n,
			visible:    visible,
		})
	}
	return st.size
}

// syncState reconciles the persisted state with the freshly declared
// branches: order initialization or reset, has-children flags, expansion,
// and abandoning drags that reference branches which no longer exist.
func (t *Tree[ID]) syncState(st *State, fresh bool) {
	reg := t.reg
	n := reg.len()

	switch {
	case !st.initialized:
		st.order = reg.declaredOrder()
		for i, d := range reg.branches {
			if d.hasChildren && (d.expanded == nil || *d.expanded) {
				st.expanded[i] = true
			}
		}
		st.hadChildren = st.order.parentSet()
		st.initialized = true
	case st.resetOrder || t.resetOrder:
		st.order = reg.declaredOrder()
		st.resetOrder = false
		t.resetOrder = false
	default:
		st.order = synced(st.order, reg.branches)
	}

	// Declared expansion wins on every rebuild.
	if fresh {
		for i, d := range reg.branches {
			if d.expanded == nil {
				continue
			}
			if *d.expanded {
				st.expanded[i] = true
			} else {
				delete(st.expanded, i)
			}
		}
	}

	for _, id := range t.updateHasChildren(st) {
		st.expanded[id] = true
		t.emitExpand(id, true)
	}

	pruneIDs(st.expanded, n)
	pruneIDs(st.selected, n)
	if !reg.valid(st.focused) {
		st.focused = noBranch
	}
	if !reg.valid(st.hovered) {
		st.hovered = noBranch
		st.handle = noBranch
	}
	t.checkDrag(st)
}

// updateHasChildren recomputes every descriptor's has-children flag from
// the resolved order and returns the branches that gained their first
// child since the last call.
func (t *Tree[ID]) updateHasChildren(st *State) []int {
	parents := st.order.parentSet()
	var gained []int
	for i := range t.reg.branches {
		d := &t.reg.branches[i]
		d.hasChildren = parents[i]
		if d.hasChildren && !st.hadChildren[i] {
			gained = append(gained, i)
		}
	}
	st.hadChildren = parents
	return gained
}

// checkDrag abandons an armed or active drag whose branches no longer exist
// or can no longer be dragged. No order mutation happens on this path.
func (t *Tree[ID]) checkDrag(st *State) {
	var ids []int
	switch {
	case st.active != nil:
		ids = append(append(ids, st.active.dragged...), st.active.primary)
		if st.active.target != noBranch {
			ids = append(ids, st.active.target)
		}
	case st.pending != nil:
		ids = append(append(ids, st.pending.candidates...), st.pending.primary)
	default:
		return
	}
	for _, id := range ids {
		if !t.reg.valid(id) {
			st.clearDrag()
			st.warn(Warning{
				Kind:    WarnDragDesync,
				Message: fmt.Sprintf("branch %d no longer exists; drag abandoned", id),
			})
			return
		}
	}
}

func pruneIDs(set map[int]bool, n int) {
	for id := range set {
		if id < 0 || id >= n {
			delete(set, id)
		}
	}
}

// contentX returns the x offset of a row's content relative to the tree's
// left edge.
func (t *Tree[ID]) contentX(depth uint16) float64 {
	return t.indentX(depth) + t.cfg.ArrowWidth + t.cfg.ContentGap
}

// indentX returns the x offset of a row's arrow column.
func (t *Tree[ID]) indentX(depth uint16) float64 {
	return t.cfg.PaddingX + float64(depth)*t.cfg.Indent
}

// available returns the space the tree may use inside bounds.
func (t *Tree[ID]) available(bounds Rect) Size {
	limit := func(l Length, v float64) float64 {
		if l.Kind == LengthFixed {
			return min(l.Value, v)
		}
		return v
	}
	return Size{
		Width:  max(0, limit(t.width, bounds.Width)),
		Height: max(0, limit(t.height, bounds.Height)),
	}
}

// measure runs the two sizing passes. Non-fluid content is measured first
// against the full row width; content that fills on either axis is deferred
// until the remaining height is known and then measured against its share.
func (t *Tree[ID]) measure(st *State, bounds Rect) {
	cfg := &t.cfg
	n := t.reg.len()
	avail := t.available(bounds)

	st.heights = resizeFloats(st.heights, n)
	st.widths = resizeFloats(st.widths, n)
	sizes := make([]Size, n)
	heightFill := make([]uint16, n)
	widthFill := make([]uint16, n)
	deferred := make([]bool, n)

	for _, i := range st.ordered {
		if !st.visible[i] {
			st.heights[i] = cfg.LineHeight
			st.widths[i] = 0
			continue
		}
		content := t.reg.contents[i]
		hint := content.SizeHint()
		hf, wf := hint.Height.FillFactor(), hint.Width.FillFactor()
		if hf != 0 || wf != 0 {
			heightFill[i], widthFill[i] = hf, wf
			deferred[i] = true
			st.heights[i] = 0
			if hf == 0 {
				st.heights[i] = cfg.LineHeight
			}
			st.widths[i] = 0
			continue
		}

		availW := max(0, avail.Width-t.contentX(st.res[i].depth)-cfg.PaddingX)
		limit := Size{Width: availW, Height: max(0, avail.Height-cfg.PaddingY)}
		sz := content.Layout(limit)
		sz = Size{Width: min(sz.Width, limit.Width), Height: min(sz.Height, limit.Height)}
		sizes[i] = sz
		st.heights[i] = max(sz.Height, cfg.LineHeight)
		st.widths[i] = sz.Width
	}

	var nonFluid float64
	var totalHF, totalWF, visible int
	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		visible++
		if heightFill[i] == 0 {
			nonFluid += st.heights[i]
		}
		totalHF += int(heightFill[i])
		totalWF += int(widthFill[i])
	}

	if totalHF > 0 || totalWF > 0 {
		fluid := avail.Height - nonFluid - 2*cfg.PaddingY - cfg.Spacing*float64(max(visible-1, 0))
		fluid = max(fluid, 0)
		var unit float64
		if totalHF > 0 {
			unit = fluid / float64(totalHF)
		}
		for _, i := range st.ordered {
			if !st.visible[i] || !deferred[i] {
				continue
			}
			content := t.reg.contents[i]
			availW := max(0, avail.Width-t.contentX(st.res[i].depth)-cfg.PaddingX)
			maxH := max(0, avail.Height-cfg.PaddingY)
			if heightFill[i] != 0 {
				maxH = unit * float64(heightFill[i])
			}
			sz := content.Layout(Size{Width: availW, Height: maxH})
			w := min(sz.Width, availW)
			if widthFill[i] != 0 && t.width.IsFill() {
				w = availW
			}
			h := min(sz.Height, maxH)
			sizes[i] = Size{Width: w, Height: h}
			st.heights[i] = max(st.heights[i], h)
			st.widths[i] = max(st.widths[i], w)
		}
	}

	st.cells = resizeRects(st.cells, n)
	for i := range st.cells {
		st.cells[i] = Rect{Width: sizes[i].Width, Height: sizes[i].Height}
	}
}

// place runs the position pass, reserving the drop preview gap around the
// current drop target, and resolves the tree's size. It returns the number
// of visible rows.
func (t *Tree[ID]) place(st *State, bounds Rect) int {
	cfg := &t.cfg
	n := t.reg.len()
	avail := t.available(bounds)
	st.rows = resizeRects(st.rows, n)
	for i := range st.rows {
		st.rows[i] = Rect{}
	}

	target, pos := noBranch, DropBefore
	if st.active != nil && st.active.target != noBranch {
		target, pos = st.active.target, st.active.position
		st.gap.retarget(target, pos, cfg.LineHeight+cfg.Spacing, cfg.GapAnimation)
	} else {
		st.gap.retarget(noBranch, DropBefore, 0, 0)
	}
	gap := st.gap.height()

	y := cfg.PaddingY
	var maxW float64
	visible := 0
	for _, i := range st.ordered {
		if !st.visible[i] {
			st.cells[i] = Rect{}
			continue
		}
		visible++
		if i == target && pos == DropBefore {
			y += gap
		}

		depth := st.res[i].depth
		cx := t.contentX(depth)
		availW := max(0, avail.Width-cx-cfg.PaddingX)
		h := st.heights[i]
		d := &t.reg.branches[i]
		c := st.cells[i]
		st.cells[i] = Rect{
			X:      bounds.X + cx + d.alignX.offset(availW, c.Width),
			Y:      bounds.Y + y + d.alignY.offset(h, c.Height),
			Width:  c.Width,
			Height: c.Height,
		}
		st.rows[i] = Rect{X: bounds.X, Y: bounds.Y + y, Width: bounds.Width, Height: h}
		maxW = max(maxW, cx+st.widths[i])

		y += h + cfg.Spacing
		if i == target {
			if pos == DropAfter || (pos == DropInto && st.expanded[i]) {
				y += gap
			}
		}
	}

	var contentH float64
	if visible > 0 {
		contentH = y - cfg.Spacing + cfg.PaddingY
	} else {
		contentH = 2 * cfg.PaddingY
	}
	st.size = Size{
		Width:  t.width.resolve(avail.Width, maxW+cfg.PaddingX),
		Height: t.height.resolve(avail.Height, contentH),
	}
	return visible
}

func resizeFloats(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	clear(s)
	return s
}

func resizeRects(s []Rect, n int) []Rect {
	if cap(s) < n {
		return make([]Rect, n)
	}
	s = s[:n]
	clear(s)
	return s
}
