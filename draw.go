package arbor

// Arrow glyphs for expanded and collapsed branches.
const (
	arrowExpanded  = "▼"
	arrowCollapsed = "►"
	arrowInto      = "→"
)

// Draw paints the tree through r using the geometry of the current frame.
func (t *Tree[ID]) Draw(st *State, r Renderer) {
	t.ensureLayout(st)
	style := &t.cfg.Style
	b := st.bounds

	target, pos := noBranch, DropBefore
	if st.active != nil {
		target, pos = st.active.target, st.active.position
	}
	gap := st.gap.height()

	lastVisible := noBranch
	for _, i := range st.ordered {
		if st.visible[i] {
			lastVisible = i
		}
	}

	for _, i := range st.ordered {
		if !st.visible[i] {
			continue
		}
		row := st.rows[i]
		depth := st.res[i].depth
		d := &t.reg.branches[i]

		if i == target && pos == DropBefore {
			t.drawPreview(r, b, row.Y-gap, depth, gap)
		}

		if st.selected[i] {
			r.FillRect(row, style.SelectionBackground)
		}
		if i == target && pos == DropInto {
			r.FillRect(row, style.AcceptDrop.WithAlpha(0.1))
			r.StrokeRect(row, style.AcceptDrop, 2)
			if !st.expanded[i] {
				ind := Rect{X: b.X + b.Width - 40, Y: row.Y + row.Height/2 - 1.5, Width: 30, Height: 3}
				r.FillRect(ind, style.AcceptDrop)
				r.Text(arrowInto, Rect{X: ind.X - 20, Y: row.Y, Width: 20, Height: row.Height}, 16, style.AcceptDrop)
			}
		}
		if st.focused == i || st.hovered == i {
			r.StrokeRect(row, style.FocusBorder, 1)
		}

		ix := b.X + t.indentX(depth)
		if d.hasChildren {
			glyph := arrowCollapsed
			if st.expanded[i] {
				glyph = arrowExpanded
			}
			r.Text(glyph, Rect{X: ix + t.cfg.ArrowPad, Y: row.Y, Width: t.cfg.ArrowWidth, Height: row.Height}, 16, style.Arrow)
		}

		handle := style.Line
		if st.handle == i {
			handle = handle.WithAlpha(0.3)
		}
		r.FillRect(t.stripe(ix, row.Y, row.Height), handle)

		t.reg.contents[i].Draw(r, st.cells[i])

		if i != target {
			continue
		}
		below := row.Bottom() + t.cfg.Spacing
		switch {
		case pos == DropInto && st.expanded[i]:
			t.drawPreview(r, b, below, depth+1, gap)
		case pos == DropAfter:
			pd := depth
			if st.res[i].parent != noParent && i == lastVisible {
				pd = 0
			}
			t.drawPreview(r, b, below, pd, gap)
		}
	}

	t.drawOverlay(st, r)
}

// stripe returns the drag handle stripe of a row whose arrow column starts
// at ix.
func (t *Tree[ID]) stripe(ix, y, h float64) Rect {
	return Rect{X: ix + t.cfg.ArrowWidth, Y: y + 2, Width: t.cfg.HandleStripe, Height: max(h-4, 0)}
}

// drawPreview paints the drop preview slot at y for a branch at depth. gap
// is the reserved height including spacing; nothing is drawn while the gap
// is still narrower than the spacing.
func (t *Tree[ID]) drawPreview(r Renderer, b Rect, y float64, depth uint16, gap float64) {
	h := min(gap-t.cfg.Spacing, t.cfg.LineHeight)
	if h <= 0 {
		return
	}
	style := &t.cfg.Style
	ix := b.X + t.indentX(depth)
	slot := Rect{X: ix, Y: y, Width: b.X + b.Width - ix, Height: h}
	r.FillRect(slot, style.AcceptDrop.WithAlpha(0.1))
	r.StrokeRect(slot, style.AcceptDrop, 2)
	r.FillRect(t.stripe(ix, y, h), style.Line.WithAlpha(0.3))
}

// drawOverlay paints the primary dragged branch under the pointer, offset
// by where the row was grabbed.
func (t *Tree[ID]) drawOverlay(st *State, r Renderer) {
	a := st.active
	if a == nil || !t.reg.valid(a.primary) {
		return
	}
	style := &t.cfg.Style
	at := a.pointer.Sub(a.clickOffset)
	h := max(st.heights[a.primary], t.cfg.LineHeight)
	box := Rect{X: at.X, Y: at.Y, Width: a.origin.Width, Height: h}

	r.FillRect(box, style.SelectionBackground.WithAlpha(0.9))
	r.StrokeRect(box, style.SelectionBorder.WithAlpha(0.9), 2)
	ix := at.X + t.indentX(st.res[a.primary].depth)
	r.FillRect(t.stripe(ix, at.Y, h), style.Line.WithAlpha(0.7))

	c := a.content
	t.reg.contents[a.primary].Draw(r, Rect{X: at.X + c.X, Y: at.Y + c.Y, Width: c.Width, Height: c.Height})
}
