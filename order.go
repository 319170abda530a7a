package arbor

// OrderEntry is the persisted parent/depth override of one branch.
type OrderEntry struct {
	ID     int    `json:"id"`
	Parent int    `json:"parent"` // -1 for root-level branches
	Depth  uint16 `json:"depth"`
}

// OrderState is the display order and topology the tree actually renders.
// It starts as a mirror of the declared tree and is replaced wholesale by
// Reorder after each drop, so the caller's declaration is never mutated.
// The zero value is an empty order.
type OrderState struct {
	entries []OrderEntry
	pos     map[int]int // id -> index in entries
}

// NewOrderState builds an order from entries in display order. When an id
// appears more than once the first occurrence wins.
func NewOrderState(entries []OrderEntry) OrderState {
	o := OrderState{
		entries: make([]OrderEntry, 0, len(entries)),
		pos:     make(map[int]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := o.pos[e.ID]; dup {
			continue
		}
		o.pos[e.ID] = len(o.entries)
		o.entries = append(o.entries, e)
	}
	return o
}

// Len returns the number of entries.
func (o OrderState) Len() int { return len(o.entries) }

// Entries returns a copy of the entries in display order.
func (o OrderState) Entries() []OrderEntry {
	out := make([]OrderEntry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Lookup returns the entry for id.
func (o OrderState) Lookup(id int) (OrderEntry, bool) {
	i, ok := o.pos[id]
	if !ok {
		return OrderEntry{}, false
	}
	return o.entries[i], true
}

// Parent returns id's parent, or -1 when id is root-level or unknown.
func (o OrderState) Parent(id int) int {
	if e, ok := o.Lookup(id); ok {
		return e.Parent
	}
	return noParent
}

// indexOf returns the position of id in display order, or -1.
func (o OrderState) indexOf(id int) int {
	if i, ok := o.pos[id]; ok {
		return i
	}
	return -1
}

// resolved is the effective topology of one branch.
type resolved struct {
	parent int
	depth  uint16
}

// resolve returns the effective parent and depth of every descriptor,
// falling back to the declared topology for ids without an entry.
func resolve[ID comparable](o OrderState, branches []descriptor[ID]) []resolved {
	out := make([]resolved, len(branches))
	for i, d := range branches {
		if e, ok := o.Lookup(d.id); ok {
			out[i] = resolved{parent: e.Parent, depth: e.Depth}
		} else {
			out[i] = resolved{parent: d.parent, depth: d.depth}
		}
	}
	return out
}

// orderedIndices returns array indices in display order: persisted entries
// first, then any of the n indices the order does not know about.
func (o OrderState) orderedIndices(n int) []int {
	out := make([]int, 0, n)
	seen := make([]bool, n)
	for _, e := range o.entries {
		if e.ID >= 0 && e.ID < n && !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e.ID)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}

// synced returns the order restricted to the current descriptors, with
// descriptors missing from the order appended using their declared
// topology. Entries whose parent no longer exists become root-level.
func synced[ID comparable](o OrderState, branches []descriptor[ID]) OrderState {
	n := len(branches)
	entries := make([]OrderEntry, 0, n)
	for _, idx := range o.orderedIndices(n) {
		e, ok := o.Lookup(idx)
		if !ok {
			d := branches[idx]
			e = OrderEntry{ID: d.id, Parent: d.parent, Depth: d.depth}
		}
		if e.Parent >= n || e.Parent == e.ID {
			e.Parent = noParent
			e.Depth = 0
		}
		entries = append(entries, e)
	}
	return NewOrderState(entries)
}

// parentSet returns the ids that are the parent of at least one entry.
func (o OrderState) parentSet() map[int]bool {
	out := make(map[int]bool)
	for _, e := range o.entries {
		if e.Parent != noParent {
			out[e.Parent] = true
		}
	}
	return out
}

// children returns the child ids of every parent, in display order.
func (o OrderState) children() map[int][]int {
	out := make(map[int][]int)
	for _, e := range o.entries {
		if e.Parent != noParent {
			out[e.Parent] = append(out[e.Parent], e.ID)
		}
	}
	return out
}

// subtree returns ids and all of their descendants.
func (o OrderState) subtree(ids []int) map[int]bool {
	kids := o.children()
	out := make(map[int]bool, len(ids))
	stack := append([]int(nil), ids...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if out[id] {
			continue
		}
		out[id] = true
		stack = append(stack, kids[id]...)
	}
	return out
}

// isDescendant reports whether id has ancestor somewhere up its parent
// chain. The walk is bounded by the number of entries so a corrupt order
// cannot loop forever.
func (o OrderState) isDescendant(id, ancestor int) bool {
	cur := id
	for range len(o.entries) + 1 {
		p := o.Parent(cur)
		if p == noParent {
			return false
		}
		if p == ancestor {
			return true
		}
		cur = p
	}
	return false
}

// HasCycle reports whether any entry is its own ancestor.
func (o OrderState) HasCycle() bool {
	for _, e := range o.entries {
		if o.isDescendant(e.ID, e.ID) {
			return true
		}
	}
	return false
}
