package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/arbor"
)

// TreeEventKind identifies what a TreeEvent reports.
type TreeEventKind uint8

const (
	TreeSelected    TreeEventKind = iota // the selection changed; IDs holds it
	TreeExpanded                         // ID was expanded or collapsed
	TreeDragStarted                      // a drag began; IDs holds the dragged set
	TreeDropped                          // a drop was applied; Drop describes it
)

// String returns a short name for the kind.
func (k TreeEventKind) String() string {
	switch k {
	case TreeSelected:
		return "selected"
	case TreeExpanded:
		return "expanded"
	case TreeDragStarted:
		return "drag-started"
	case TreeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// TreeEvent carries one tree event into the ECS world.
type TreeEvent[ID comparable] struct {
	Kind TreeEventKind
	IDs  []ID

	// Expansion fields (valid for TreeExpanded)
	ID       ID
	Expanded bool

	// Drop fields (valid for TreeDropped)
	Drop arbor.DropInfo[ID]
}

// NewEventType creates a Donburi event type for trees keyed by ID.
func NewEventType[ID comparable]() *events.EventType[TreeEvent[ID]] {
	return events.NewEventType[TreeEvent[ID]]()
}

// StringEventType is the event type for trees keyed by string ids.
var StringEventType = NewEventType[string]()

type donburiSink[ID comparable] struct {
	world donburi.World
	typ   *events.EventType[TreeEvent[ID]]
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to typ and can be consumed with Subscribe and ProcessEvents.
func NewDonburiSink[ID comparable](world donburi.World, typ *events.EventType[TreeEvent[ID]]) arbor.EventSink[ID] {
	return &donburiSink[ID]{world: world, typ: typ}
}

func (s *donburiSink[ID]) Selected(ids []ID) {
	s.typ.Publish(s.world, TreeEvent[ID]{Kind: TreeSelected, IDs: ids})
}

func (s *donburiSink[ID]) Expanded(id ID, expanded bool) {
	s.typ.Publish(s.world, TreeEvent[ID]{Kind: TreeExpanded, ID: id, Expanded: expanded})
}

func (s *donburiSink[ID]) DragStarted(ids []ID) {
	s.typ.Publish(s.world, TreeEvent[ID]{Kind: TreeDragStarted, IDs: ids})
}

func (s *donburiSink[ID]) Dropped(info arbor.DropInfo[ID]) {
	s.typ.Publish(s.world, TreeEvent[ID]{Kind: TreeDropped, Drop: info})
}
