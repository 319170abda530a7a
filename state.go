package arbor

import "sort"

// noBranch marks an unset branch reference (focus, hover, drop target).
const noBranch = -1

// dragPending is armed on pointer-down and promoted once the pointer travels
// past the drag threshold.
type dragPending struct {
	start       Vec2
	candidates  []int
	primary     int
	origin      Rect
	content     Rect // content cell relative to the origin row
	clickOffset Vec2
}

// dragActive is an in-flight drag. The dragged set is a copy taken at arming
// time; selection changes during the drag do not affect it.
type dragActive struct {
	dragged     []int
	draggedSet  map[int]bool
	primary     int
	origin      Rect
	content     Rect
	clickOffset Vec2
	pointer     Vec2
	target      int
	position    DropPosition
}

// State is the interaction and layout state of one tree widget. It is owned
// by the host for the widget's lifetime, survives rebuilds of the declared
// tree, and is handed to the tree by exclusive reference every frame.
type State struct {
	initialized bool
	resetOrder  bool
	order       OrderState
	hadChildren map[int]bool

	expanded map[int]bool
	selected map[int]bool
	focused  int
	hovered  int
	handle   int // row whose drag handle is hovered

	modifiers KeyModifiers

	pending *dragPending
	active  *dragActive
	gap     gapAnimator

	// Geometry of the last layout. Recomputed whenever the owner or the
	// interaction state changes so hit-testing never reads a stale frame.
	owner   any
	dirty   bool
	bounds  Rect
	size    Size
	ordered []int
	res     []resolved
	visible []bool
	heights []float64
	widths  []float64
	rows    []Rect
	cells   []Rect

	warnings []Warning
	declared []Warning // flatten warnings of the last tree laid out
	debug    bool
}

// NewState creates an empty widget state. The order and expansion are
// initialized from the declared tree on the first layout.
func NewState() *State {
	return &State{
		hadChildren: make(map[int]bool),
		expanded:    make(map[int]bool),
		selected:    make(map[int]bool),
		focused:     noBranch,
		hovered:     noBranch,
		handle:      noBranch,
		dirty:       true,
	}
}

// SetDebugMode enables or disables debug mode. When enabled, warnings and
// per-frame layout timing are printed to stderr.
func (st *State) SetDebugMode(enabled bool) {
	st.debug = enabled
}

// ResetOrder discards the persisted order so the next layout rebuilds it from
// the declared topology.
func (st *State) ResetOrder() {
	st.resetOrder = true
	st.invalidate()
}

// invalidate forces the next Update or Draw to lay out again.
func (st *State) invalidate() {
	st.dirty = true
}

// Order returns the persisted order.
func (st *State) Order() OrderState {
	return st.order
}

// IsExpanded reports whether branch id shows its children.
func (st *State) IsExpanded(id int) bool {
	return st.expanded[id]
}

// IsSelected reports whether branch id is selected.
func (st *State) IsSelected(id int) bool {
	return st.selected[id]
}

// Selected returns the selected internal ids in ascending order.
func (st *State) Selected() []int {
	return sortedKeys(st.selected)
}

// Expanded returns the expanded internal ids in ascending order.
func (st *State) Expanded() []int {
	return sortedKeys(st.expanded)
}

// Focused returns the keyboard-focused branch.
func (st *State) Focused() (int, bool) {
	return st.focused, st.focused != noBranch
}

// Hovered returns the branch under the pointer.
func (st *State) Hovered() (int, bool) {
	return st.hovered, st.hovered != noBranch
}

// DragArmed reports whether a press is waiting to cross the drag threshold.
func (st *State) DragArmed() bool {
	return st.pending != nil
}

// DragCandidates returns the ids an armed press would drag.
func (st *State) DragCandidates() []int {
	if st.pending == nil {
		return nil
	}
	return append([]int(nil), st.pending.candidates...)
}

// Dragging reports whether a drag is in flight.
func (st *State) Dragging() bool {
	return st.active != nil
}

// DraggedIDs returns the ids being dragged.
func (st *State) DraggedIDs() []int {
	if st.active == nil {
		return nil
	}
	return append([]int(nil), st.active.dragged...)
}

// DropTarget returns the current drop target of an active drag.
func (st *State) DropTarget() (id int, pos DropPosition, ok bool) {
	if st.active == nil || st.active.target == noBranch {
		return noBranch, DropBefore, false
	}
	return st.active.target, st.active.position, true
}

// IsVisible reports whether branch id was rendered by the last layout.
func (st *State) IsVisible(id int) bool {
	return id >= 0 && id < len(st.visible) && st.visible[id]
}

// RowBounds returns the full-width row rectangle of a visible branch.
func (st *State) RowBounds(id int) (Rect, bool) {
	if !st.IsVisible(id) || id >= len(st.rows) {
		return Rect{}, false
	}
	return st.rows[id], true
}

// ContentBounds returns where the content of branch id was placed. Hidden
// branches report a zero rectangle.
func (st *State) ContentBounds(id int) Rect {
	if id < 0 || id >= len(st.cells) {
		return Rect{}
	}
	return st.cells[id]
}

// Size returns the size resolved by the last layout.
func (st *State) Size() Size {
	return st.size
}

// Warnings returns the anomalies recorded so far, oldest first.
func (st *State) Warnings() []Warning {
	return append([]Warning(nil), st.warnings...)
}

// clearDrag drops both drag phases.
func (st *State) clearDrag() {
	if st.pending != nil || st.active != nil {
		st.invalidate()
	}
	st.pending = nil
	st.active = nil
	st.gap.reset()
}

// isDragged reports whether id is part of the active drag.
func (st *State) isDragged(id int) bool {
	return st.active != nil && st.active.draggedSet[id]
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}
