package arbor

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// SnapshotEntry is one row of a persisted order, keyed by external id.
type SnapshotEntry[ID comparable] struct {
	ID     ID     `json:"id"`
	Parent *ID    `json:"parent,omitempty"`
	Depth  uint16 `json:"depth"`
}

// Snapshot is the part of a State worth keeping across process restarts:
// order, expansion, and selection. Internal ids are only stable within one
// declaration, so everything is keyed by external id and branches without
// one are left out.
type Snapshot[ID comparable] struct {
	Order    []SnapshotEntry[ID] `json:"order"`
	Expanded []ID                `json:"expanded"`
	Selected []ID                `json:"selected"`
	Focused  *ID                 `json:"focused,omitempty"`
}

// Snapshot captures st in terms of this tree's external ids.
func (t *Tree[ID]) Snapshot(st *State) Snapshot[ID] {
	t.ensureLayout(st)
	var snap Snapshot[ID]
	for _, e := range st.order.entries {
		ext, ok := t.reg.externalID(e.ID)
		if !ok {
			continue
		}
		se := SnapshotEntry[ID]{ID: ext, Depth: e.Depth}
		if p, ok := t.reg.externalID(e.Parent); ok {
			se.Parent = &p
		}
		snap.Order = append(snap.Order, se)
	}
	snap.Expanded = t.externalIDs(st.Expanded())
	snap.Selected = t.externalIDs(st.Selected())
	if ext, ok := t.reg.externalID(st.focused); ok {
		snap.Focused = &ext
	}
	return snap
}

// Restore loads snap into st. Entries naming external ids this tree does
// not declare are dropped; declared branches missing from the snapshot keep
// their declared position. Restore replaces any order st already holds.
func (t *Tree[ID]) Restore(st *State, snap Snapshot[ID]) {
	entries := make([]OrderEntry, 0, len(snap.Order))
	for _, se := range snap.Order {
		id, ok := t.reg.internalID(se.ID)
		if !ok {
			continue
		}
		e := OrderEntry{ID: id, Parent: noParent, Depth: se.Depth}
		if se.Parent != nil {
			if p, ok := t.reg.internalID(*se.Parent); ok {
				e.Parent = p
			}
		}
		if e.Parent == noParent {
			e.Depth = 0
		}
		entries = append(entries, e)
	}
	order := synced(NewOrderState(entries), t.reg.branches)
	if order.HasCycle() {
		order = t.reg.declaredOrder()
	}
	st.order = order
	st.hadChildren = order.parentSet()

	clear(st.expanded)
	for _, ext := range snap.Expanded {
		if id, ok := t.reg.internalID(ext); ok {
			st.expanded[id] = true
		}
	}
	clear(st.selected)
	for _, ext := range snap.Selected {
		if id, ok := t.reg.internalID(ext); ok {
			st.selected[id] = true
		}
	}
	st.focused = noBranch
	if snap.Focused != nil {
		if id, ok := t.reg.internalID(*snap.Focused); ok {
			st.focused = id
		}
	}
	st.clearDrag()
	st.initialized = true
	st.invalidate()
}

// SaveSnapshot writes snap to path as JSON.
func SaveSnapshot[ID comparable](path string, snap Snapshot[ID]) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot[ID comparable](path string) (Snapshot[ID], error) {
	var snap Snapshot[ID]
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}
