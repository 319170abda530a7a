package arbor

import "fmt"

// noParent marks a root-level branch in parent fields.
const noParent = -1

// descriptor is the flattened form of one Branch. Its id equals its index in
// the registry's arrays.
type descriptor[ID comparable] struct {
	id          int
	externalID  ID
	hasExternal bool
	parent      int
	depth       uint16
	hasChildren bool // recomputed each layout from the resolved order

	acceptsDrops bool
	draggable    bool
	alignX       Alignment
	alignY       Alignment
	expanded     *bool
}

// registry holds the caller's tree flattened into parallel arrays: the
// descriptor and the content of a branch share an index.
type registry[ID comparable] struct {
	branches []descriptor[ID]
	contents []Content

	extToInt map[ID]int
	warnings []Warning

	// width and height enclose the size hints of every branch's content.
	width, height Length
}

// flatten walks roots depth-first in pre-order and assigns internal ids
// 0..N-1 in visitation order.
func flatten[ID comparable](roots []*Branch[ID]) *registry[ID] {
	reg := &registry[ID]{
		extToInt: make(map[ID]int),
		width:    Fill(),
		height:   Shrink(),
	}
	for _, root := range roots {
		reg.visit(root, noParent, 0)
	}

	var zero ID
	for i := range reg.branches {
		d := &reg.branches[i]
		if d.externalID == zero {
			continue
		}
		d.hasExternal = true
		if prev, dup := reg.extToInt[d.externalID]; dup {
			reg.warnings = append(reg.warnings, Warning{
				Kind:    WarnDuplicateID,
				Message: fmt.Sprintf("duplicate external id %v on branches %d and %d", d.externalID, prev, d.id),
			})
		}
		reg.extToInt[d.externalID] = d.id
	}
	return reg
}

func (reg *registry[ID]) visit(b *Branch[ID], parent int, depth uint16) {
	if b == nil {
		return
	}
	id := len(reg.branches)
	reg.branches = append(reg.branches, descriptor[ID]{
		id:           id,
		externalID:   b.ExternalID,
		parent:       parent,
		depth:        depth,
		hasChildren:  len(b.Children) > 0,
		acceptsDrops: b.AcceptsDrop,
		draggable:    b.Draggable,
		alignX:       b.AlignX,
		alignY:       b.AlignY,
		expanded:     b.expanded,
	})

	content := b.Content
	if content == nil {
		content = &Label{}
	}
	hint := content.SizeHint()
	reg.width = reg.width.enclose(hint.Width)
	reg.height = reg.height.enclose(hint.Height)
	reg.contents = append(reg.contents, content)

	for _, child := range b.Children {
		reg.visit(child, id, depth+1)
	}
}

// len returns the number of flattened branches.
func (reg *registry[ID]) len() int {
	return len(reg.branches)
}

// valid reports whether id names a branch of this registry.
func (reg *registry[ID]) valid(id int) bool {
	return id >= 0 && id < len(reg.branches)
}

// externalID translates an internal id for reporting. ok is false when the
// branch carries no external id.
func (reg *registry[ID]) externalID(id int) (ext ID, ok bool) {
	if !reg.valid(id) {
		return ext, false
	}
	d := &reg.branches[id]
	return d.externalID, d.hasExternal
}

// internalID looks up the branch carrying an external id.
func (reg *registry[ID]) internalID(ext ID) (int, bool) {
	id, ok := reg.extToInt[ext]
	return id, ok
}

// declaredOrder mirrors the declared topology as an order state.
func (reg *registry[ID]) declaredOrder() OrderState {
	entries := make([]OrderEntry, len(reg.branches))
	for i, d := range reg.branches {
		entries[i] = OrderEntry{ID: d.id, Parent: d.parent, Depth: d.depth}
	}
	return NewOrderState(entries)
}
