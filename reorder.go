package arbor

// Reorder moves the dragged branches, together with everything beneath them,
// to pos relative to target and returns the new order. ok is false, and the
// original order is returned untouched, when the move cannot be applied:
// nothing was dragged, the target is unknown, or the target sits inside the
// moved subtrees. Excluding every moved descendant before resolving the
// target is what keeps a branch from being dropped into its own subtree.
func Reorder(o OrderState, dragged []int, target int, pos DropPosition) (next OrderState, ok bool) {
	if len(dragged) == 0 {
		return o, false
	}
	moving := o.subtree(dragged)
	if moving[target] {
		return o, false
	}
	t, found := o.Lookup(target)
	if !found {
		return o, false
	}

	kept := make([]OrderEntry, 0, len(o.entries))
	removed := make([]OrderEntry, 0, len(moving))
	for _, e := range o.entries {
		if moving[e.ID] {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	if len(removed) == 0 {
		return o, false
	}
	keptOrder := NewOrderState(kept)
	ti := keptOrder.indexOf(target)
	if ti < 0 {
		return o, false
	}

	parent, base := t.Parent, t.Depth
	switch pos {
	case DropInto:
		parent, base = target, t.Depth+1
	case DropAfter:
		if t.Parent != noParent && isLastSibling(kept, ti) && !hasRootAfter(kept, ti) {
			// Dropping after the last nested row with nothing at the root
			// level below it pops the moved items out to the top level.
			parent, base = noParent, 0
		}
	}

	insert := ti
	switch pos {
	case DropInto:
		insert = ti + 1
	case DropAfter:
		insert = ti + 1
		for insert < len(kept) && keptOrder.isDescendant(kept[insert].ID, target) {
			insert++
		}
	}

	roots := movedRoots(o, dragged)
	for i := range removed {
		e := &removed[i]
		if roots[e.ID] {
			e.Parent = parent
			e.Depth = base
			continue
		}
		root := movedRootOf(o, e.ID, roots)
		old := e.Depth
		if r, ok := o.Lookup(root); ok {
			old = r.Depth
		}
		d := int(e.Depth) + int(base) - int(old)
		e.Depth = uint16(max(d, 0))
	}

	entries := make([]OrderEntry, 0, len(o.entries))
	entries = append(entries, kept[:insert]...)
	entries = append(entries, removed...)
	entries = append(entries, kept[insert:]...)
	return NewOrderState(entries), true
}

// isLastSibling reports whether no entry after index i shares its parent.
func isLastSibling(entries []OrderEntry, i int) bool {
	p := entries[i].Parent
	for _, e := range entries[i+1:] {
		if e.Parent == p {
			return false
		}
	}
	return true
}

// hasRootAfter reports whether any root-level entry follows index i.
func hasRootAfter(entries []OrderEntry, i int) bool {
	for _, e := range entries[i+1:] {
		if e.Parent == noParent {
			return true
		}
	}
	return false
}

// movedRoots returns the dragged ids none of whose ancestors were dragged.
// Only these are re-parented; their descendants keep their parents.
func movedRoots(o OrderState, dragged []int) map[int]bool {
	set := make(map[int]bool, len(dragged))
	for _, id := range dragged {
		set[id] = true
	}
	roots := make(map[int]bool, len(dragged))
	for _, id := range dragged {
		nested := false
		for other := range set {
			if other != id && o.isDescendant(id, other) {
				nested = true
				break
			}
		}
		if !nested {
			roots[id] = true
		}
	}
	return roots
}

// movedRootOf walks up from id to the moved root that carries it.
func movedRootOf(o OrderState, id int, roots map[int]bool) int {
	cur := id
	for range len(o.entries) + 1 {
		if roots[cur] {
			return cur
		}
		p := o.Parent(cur)
		if p == noParent {
			break
		}
		cur = p
	}
	return id
}
