package arbor

// Branch is one node of the caller's declarative tree: a piece of content,
// its children, and the capability flags that govern drag and drop.
// Branches are cheap to build and are expected to be rebuilt every frame.
type Branch[ID comparable] struct {
	Content  Content
	Children []*Branch[ID]

	// ExternalID is the caller's stable identity for this branch. The zero
	// value means "no external id".
	ExternalID ID

	AlignX, AlignY Alignment
	AcceptsDrop    bool
	Draggable      bool

	// expanded is nil unless the caller declared the expansion state.
	expanded *bool
}

// NewBranch creates a draggable branch around content, aligned to the start
// horizontally and centered vertically.
func NewBranch[ID comparable](content Content) *Branch[ID] {
	return &Branch[ID]{
		Content:   content,
		AlignX:    AlignStart,
		AlignY:    AlignCenter,
		Draggable: true,
	}
}

// WithChildren replaces the branch's children.
func (b *Branch[ID]) WithChildren(children ...*Branch[ID]) *Branch[ID] {
	b.Children = children
	return b
}

// WithID sets the external id reported in callbacks.
func (b *Branch[ID]) WithID(id ID) *Branch[ID] {
	b.ExternalID = id
	return b
}

// AcceptsDrops lets the middle third of this branch's row accept drops
// "into" it even when it has no expanded children.
func (b *Branch[ID]) AcceptsDrops() *Branch[ID] {
	b.AcceptsDrop = true
	return b
}

// BlockDragging makes the branch selectable but never draggable.
func (b *Branch[ID]) BlockDragging() *Branch[ID] {
	b.Draggable = false
	return b
}

// WithAlignX sets the horizontal alignment of the content inside its row.
func (b *Branch[ID]) WithAlignX(a Alignment) *Branch[ID] {
	b.AlignX = a
	return b
}

// WithAlignY sets the vertical alignment of the content inside its row.
func (b *Branch[ID]) WithAlignY(a Alignment) *Branch[ID] {
	b.AlignY = a
	return b
}

// Expanded declares the branch's expansion state. Declared states are
// re-applied on every rebuild, which lets an application that owns its tree
// (see TreeNode) stay the source of truth for expansion.
func (b *Branch[ID]) Expanded(expanded bool) *Branch[ID] {
	b.expanded = &expanded
	return b
}
