package arbor

// visibility resolves, for every branch, whether it is rendered this frame.
// A branch is hidden when it or an ancestor is being dragged, or when its
// parent is hidden or collapsed. Root-level branches, and branches whose
// parent no longer exists, are visible unless dragged.
//
// Results are memoized so the pass is O(n) regardless of depth. A parent
// chain that loops back on itself resolves as hidden.
func visibility(res []resolved, expanded, dragged map[int]bool) []bool {
	const (
		unknown = iota
		visiting
		hidden
		shown
	)
	n := len(res)
	memo := make([]uint8, n)
	out := make([]bool, n)

	var resolve func(i int) bool
	resolve = func(i int) bool {
		switch memo[i] {
		case hidden:
			return false
		case shown:
			return true
		case visiting:
			return false
		}
		memo[i] = visiting
		vis := !dragged[i]
		if vis {
			if p := res[i].parent; p >= 0 && p < n {
				vis = resolve(p) && expanded[p]
			}
		}
		if vis {
			memo[i] = shown
		} else {
			memo[i] = hidden
		}
		return vis
	}

	for i := range n {
		out[i] = resolve(i)
	}
	return out
}
