// Package arbor is a drag-and-drop tree view for immediate-layout GUIs.
//
// Arbor flattens a declarative tree of branches into parallel arrays, keeps
// a persisted order of those branches across rebuilds, and lets the user
// select, expand, collapse, and reorder them by dragging. It does not paint
// or read input itself: the host hands it events and a [Renderer]. The
// ebitenui subpackage provides both for [Ebitengine].
//
// # Quick start
//
// Declare the tree every frame and keep one [State] for the widget's
// lifetime:
//
//	st := arbor.NewState()
//
//	tree := arbor.New(
//		arbor.NewBranch[string](arbor.NewLabel("Fruits")).WithID("fruits").WithChildren(
//			arbor.NewBranch[string](arbor.NewLabel("Apple")).WithID("apple"),
//			arbor.NewBranch[string](arbor.NewLabel("Pear")).WithID("pear"),
//		),
//		arbor.NewBranch[string](arbor.NewLabel("Inbox")).WithID("inbox").AcceptsDrops(),
//	).OnDrop(func(info arbor.DropInfo[string]) {
//		log.Printf("moved %v %s %v", info.Dragged, info.Position, info.Target)
//	})
//
//	tree.Frame(st, bounds, &queue, renderer)
//
// [Tree.Frame] runs layout, every queued [Event], and drawing in one call.
// Hosts that need the phases apart call [Tree.Layout], [Tree.Update], and
// [Tree.Draw] themselves.
//
// # Identity and order
//
// Every branch gets an internal id equal to its position in a depth-first
// pre-order walk of the declared roots. External ids ([Branch.WithID]) are
// the caller's own stable identities and are what callbacks report; the
// zero value of ID means "no external id". The persisted [OrderState] lists
// each branch's parent and depth in display order and is the source of
// truth for the tree's shape once the user starts reordering. Call
// [Tree.ResetOrder] after changing the declared shape out of band.
//
// # Dragging
//
// A press on a draggable row arms a drag; it becomes active once the
// pointer travels [Config.DragThreshold] pixels. The dragged set is the
// draggable part of the selection minus any branch whose ancestor is also
// selected. While dragging, each row splits into thirds: the top third
// drops before it, the bottom third after it, and the middle third into it
// when the row shows children or [Branch.AcceptsDrops]. A drop is refused
// when it would make a branch its own descendant.
//
// # Application-owned trees
//
// [TreeNode] holds a tree in application state. Convert it with
// [ToBranches] each frame, call [Tree.ResetOrder] on the result, and mirror
// drops back with [ApplyDrop]. The forest is then the source of truth and
// its declaration order is what gets displayed; without the reset the
// persisted order, keyed by the old internal ids, would rearrange the
// rebuilt rows. Forests and [Snapshot] values persist as JSON (and YAML for
// tree nodes).
//
// # Testing
//
// [EventQueue] and its Inject helpers synthesize input. [TestRunner] plays
// JSON scripts of clicks, drags, keys, and screenshots; [RunScript] does so
// headlessly through [ImageRenderer].
//
// [Ebitengine]: https://ebitengine.org
package arbor
