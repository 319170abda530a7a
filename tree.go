package arbor

// DropInfo describes a completed drop. External ids are reported only for
// branches that declared one; the internal ids are always present.
type DropInfo[ID comparable] struct {
	Dragged   []ID
	Target    ID
	HasTarget bool // false when the target branch has no external id
	Position  DropPosition

	DraggedInternal []int
	TargetInternal  int
}

// EventSink receives tree events in addition to the per-tree callbacks.
// The ecs subpackage provides a sink that publishes into a donburi world.
type EventSink[ID comparable] interface {
	Selected(ids []ID)
	Expanded(id ID, expanded bool)
	DragStarted(ids []ID)
	Dropped(info DropInfo[ID])
}

// Tree is a drag-and-drop tree view over caller-declared branches. A Tree
// is cheap and is meant to be rebuilt from the application's data every
// frame; everything that must survive a rebuild lives in the State passed
// to Layout, Update, and Draw.
type Tree[ID comparable] struct {
	reg *registry[ID]
	cfg Config

	width, height Length
	resetOrder    bool

	onDrop   func(DropInfo[ID])
	onSelect func([]ID)
	onExpand func(ID, bool)
	sink     EventSink[ID]
}

// New flattens roots into a tree with the default configuration.
func New[ID comparable](roots ...*Branch[ID]) *Tree[ID] {
	reg := flatten(roots)
	return &Tree[ID]{
		reg:    reg,
		cfg:    DefaultConfig(),
		width:  reg.width,
		height: reg.height,
	}
}

// Len returns the number of flattened branches.
func (t *Tree[ID]) Len() int { return t.reg.len() }

// Config returns the tree's configuration.
func (t *Tree[ID]) Config() Config { return t.cfg }

// WithConfig replaces the metrics and style.
func (t *Tree[ID]) WithConfig(cfg Config) *Tree[ID] {
	t.cfg = cfg
	return t
}

// Spacing sets the vertical gap between rows.
func (t *Tree[ID]) Spacing(px float64) *Tree[ID] {
	t.cfg.Spacing = px
	return t
}

// Indent sets the horizontal offset per depth level.
func (t *Tree[ID]) Indent(px float64) *Tree[ID] {
	t.cfg.Indent = px
	return t
}

// Padding sets both horizontal and vertical padding.
func (t *Tree[ID]) Padding(px float64) *Tree[ID] {
	t.cfg.PaddingX = px
	t.cfg.PaddingY = px
	return t
}

// PaddingX sets the left and right padding.
func (t *Tree[ID]) PaddingX(px float64) *Tree[ID] {
	t.cfg.PaddingX = px
	return t
}

// PaddingY sets the top and bottom padding.
func (t *Tree[ID]) PaddingY(px float64) *Tree[ID] {
	t.cfg.PaddingY = px
	return t
}

// Width sets the sizing rule of the tree's width. The default fills when
// any branch content fills, and shrinks otherwise.
func (t *Tree[ID]) Width(l Length) *Tree[ID] {
	t.width = l
	return t
}

// Height sets the sizing rule of the tree's height.
func (t *Tree[ID]) Height(l Length) *Tree[ID] {
	t.height = l
	return t
}

// ResetOrder discards the persisted order on the next layout and rebuilds
// it from the declared branches. Use it after changing the tree's shape
// out of band.
func (t *Tree[ID]) ResetOrder() *Tree[ID] {
	t.resetOrder = true
	return t
}

// OnDrop registers the callback fired after a drop has been applied.
func (t *Tree[ID]) OnDrop(fn func(DropInfo[ID])) *Tree[ID] {
	t.onDrop = fn
	return t
}

// OnSelect registers the callback fired whenever the selection changes.
// It receives the external ids of the selected branches in display order.
func (t *Tree[ID]) OnSelect(fn func([]ID)) *Tree[ID] {
	t.onSelect = fn
	return t
}

// OnExpand registers the callback fired when a branch is expanded or
// collapsed, by the user or automatically after gaining children.
func (t *Tree[ID]) OnExpand(fn func(ID, bool)) *Tree[ID] {
	t.onExpand = fn
	return t
}

// SetEventSink routes tree events to sink as well as to the callbacks.
func (t *Tree[ID]) SetEventSink(sink EventSink[ID]) *Tree[ID] {
	t.sink = sink
	return t
}

// Warnings returns the anomalies found while flattening the branches.
func (t *Tree[ID]) Warnings() []Warning {
	return append([]Warning(nil), t.reg.warnings...)
}

// InternalID returns the internal id of the branch declaring ext.
func (t *Tree[ID]) InternalID(ext ID) (int, bool) {
	return t.reg.internalID(ext)
}

// ExternalID returns the external id of internal branch id.
func (t *Tree[ID]) ExternalID(id int) (ID, bool) {
	return t.reg.externalID(id)
}

// Frame runs one full frame: layout against bounds, every queued event,
// then drawing. r may be nil to skip drawing.
func (t *Tree[ID]) Frame(st *State, bounds Rect, q *EventQueue, r Renderer) Size {
	t.Layout(st, bounds)
	if q != nil {
		for _, ev := range q.Drain() {
			t.Update(st, ev)
		}
	}
	if r != nil {
		t.Draw(st, r)
	}
	t.ensureLayout(st)
	return st.size
}

// ensureLayout lays the tree out again when the state was last laid out by
// another Tree value or when interaction invalidated the geometry.
func (t *Tree[ID]) ensureLayout(st *State) {
	if st.dirty || st.owner != any(t) {
		t.Layout(st, st.bounds)
	}
}

// selectedExternal translates the selection for reporting, in display order.
func (t *Tree[ID]) selectedExternal(st *State) []ID {
	out := make([]ID, 0, len(st.selected))
	for _, id := range st.order.orderedIndices(t.reg.len()) {
		if !st.selected[id] {
			continue
		}
		if ext, ok := t.reg.externalID(id); ok {
			out = append(out, ext)
		}
	}
	return out
}

func (t *Tree[ID]) externalIDs(ids []int) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if ext, ok := t.reg.externalID(id); ok {
			out = append(out, ext)
		}
	}
	return out
}

func (t *Tree[ID]) emitSelect(st *State) {
	if t.onSelect == nil && t.sink == nil {
		return
	}
	ids := t.selectedExternal(st)
	if t.onSelect != nil {
		t.onSelect(ids)
	}
	if t.sink != nil {
		t.sink.Selected(ids)
	}
}

func (t *Tree[ID]) emitExpand(id int, expanded bool) {
	ext, ok := t.reg.externalID(id)
	if !ok {
		return
	}
	if t.onExpand != nil {
		t.onExpand(ext, expanded)
	}
	if t.sink != nil {
		t.sink.Expanded(ext, expanded)
	}
}

func (t *Tree[ID]) emitDragStart(dragged []int) {
	if t.sink != nil {
		t.sink.DragStarted(t.externalIDs(dragged))
	}
}

func (t *Tree[ID]) emitDrop(info DropInfo[ID]) {
	if t.onDrop != nil {
		t.onDrop(info)
	}
	if t.sink != nil {
		t.sink.Dropped(info)
	}
}
