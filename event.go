package arbor

// EventKind identifies a kind of host input event.
type EventKind uint8

const (
	EventPointerDown  EventKind = iota // a pointer button was pressed
	EventPointerUp                     // a pointer button was released
	EventPointerMove                   // the pointer moved (with or without a button held)
	EventPointerLeave                  // the pointer left the tracked area
	EventKeyDown                       // a key was pressed
	EventModifiers                     // the held modifier set changed
)

// String returns a short name for the kind, used in debug output.
func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerLeave:
		return "pointer-leave"
	case EventKeyDown:
		return "key-down"
	case EventModifiers:
		return "modifiers"
	default:
		return "unknown"
	}
}

// Event is one input event delivered to the tree. Position is in the same
// coordinate space as the bounds passed to Tree.Layout.
type Event struct {
	Kind      EventKind
	Position  Vec2
	Button    MouseButton
	Key       Key
	Modifiers KeyModifiers
}

// PointerDown builds a left-button press event.
func PointerDown(x, y float64, mods KeyModifiers) Event {
	return Event{Kind: EventPointerDown, Position: Vec2{x, y}, Button: MouseButtonLeft, Modifiers: mods}
}

// PointerUp builds a left-button release event.
func PointerUp(x, y float64) Event {
	return Event{Kind: EventPointerUp, Position: Vec2{x, y}, Button: MouseButtonLeft}
}

// PointerMove builds a pointer move event.
func PointerMove(x, y float64) Event {
	return Event{Kind: EventPointerMove, Position: Vec2{x, y}}
}

// PointerLeave builds an event signalling the pointer left the tracked area.
func PointerLeave() Event {
	return Event{Kind: EventPointerLeave}
}

// KeyDown builds a key press event.
func KeyDown(key Key, mods KeyModifiers) Event {
	return Event{Kind: EventKeyDown, Key: key, Modifiers: mods}
}
