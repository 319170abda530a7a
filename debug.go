package arbor

import (
	"fmt"
	"os"
	"slices"
	"time"
)

// WarningKind classifies a non-fatal anomaly. None of these are surfaced to
// the user; the interaction that caused them simply has no effect.
type WarningKind uint8

const (
	WarnDuplicateID WarningKind = iota // two branches declared the same external id
	WarnDragDesync                     // a drag referenced branches that no longer exist
	WarnReorderNoop                    // a drop could not be applied to the order
	WarnTreeDepth                      // a branch is nested deeper than debugMaxTreeDepth
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateID:
		return "duplicate-id"
	case WarnDragDesync:
		return "drag-desync"
	case WarnReorderNoop:
		return "reorder-noop"
	case WarnTreeDepth:
		return "tree-depth"
	default:
		return "unknown"
	}
}

// Warning is one recorded anomaly.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}

// maxWarnings bounds the warnings kept on a State.
const maxWarnings = 64

// warn records w on the state and echoes it to stderr in debug mode.
func (st *State) warn(w Warning) {
	if len(st.warnings) >= maxWarnings {
		copy(st.warnings, st.warnings[1:])
		st.warnings = st.warnings[:len(st.warnings)-1]
	}
	st.warnings = append(st.warnings, w)
	if st.debug {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: %s\n", w)
	}
}

// recordDeclared records the warnings found while flattening a tree. Trees
// rebuilt every frame report the same anomalies each time, so they are only
// recorded when they differ from the last tree's.
func (st *State) recordDeclared(ws []Warning) {
	if slices.Equal(ws, st.declared) {
		return
	}
	st.declared = append(st.declared[:0], ws...)
	for _, w := range ws {
		st.warn(w)
	}
}

// layoutStats holds per-frame layout timing. Only populated in debug mode.
type layoutStats struct {
	layoutTime time.Duration
	branches   int
	visible    int
}

// debugLog prints layout timing to stderr.
func (st *State) debugLog(stats layoutStats) {
	if !st.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[arbor] layout: %v | branches: %d | visible: %d\n",
		stats.layoutTime, stats.branches, stats.visible)
}

// debugMaxTreeDepth is the resolved depth past which a warning is recorded.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth records a warning for the first branch nested deeper
// than debugMaxTreeDepth.
func (st *State) debugCheckTreeDepth(res []resolved) {
	for i, r := range res {
		if r.depth > debugMaxTreeDepth {
			st.warn(Warning{
				Kind:    WarnTreeDepth,
				Message: fmt.Sprintf("branch %d at depth %d exceeds %d", i, r.depth, debugMaxTreeDepth),
			})
			return
		}
	}
}
