package arbor

// EventQueue buffers input events between the host's polling step and the
// tree's Update. Hosts push real input into it; tests and scripted runs use
// the Inject helpers to synthesize the same events.
type EventQueue struct {
	events []Event
}

// Push appends an event to the queue.
func (q *EventQueue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Drain returns all queued events and empties the queue. The returned slice
// is only valid until the next Push.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = q.events[:0]
	return out
}

// Pop removes and returns the oldest event. ok is false if the queue is empty.
func (q *EventQueue) Pop() (ev Event, ok bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev = q.events[0]
	copy(q.events, q.events[1:])
	q.events = q.events[:len(q.events)-1]
	return ev, true
}

// InjectPress queues a left-button press at (x, y).
func (q *EventQueue) InjectPress(x, y float64) {
	q.Push(PointerDown(x, y, 0))
}

// InjectMove queues a pointer move to (x, y). Use this between InjectPress
// and InjectRelease to simulate a drag.
func (q *EventQueue) InjectMove(x, y float64) {
	q.Push(PointerMove(x, y))
}

// InjectRelease queues a left-button release at (x, y).
func (q *EventQueue) InjectRelease(x, y float64) {
	q.Push(PointerUp(x, y))
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates.
func (q *EventQueue) InjectClick(x, y float64) {
	q.InjectPress(x, y)
	q.InjectRelease(x, y)
}

// InjectKey queues a key press with the given modifiers.
func (q *EventQueue) InjectKey(key Key, mods KeyModifiers) {
	q.Push(KeyDown(key, mods))
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over steps-2 intermediate points, and
// release at (toX, toY). Minimum steps is 2 (press + release).
func (q *EventQueue) InjectDrag(fromX, fromY, toX, toY float64, steps int) {
	if steps < 2 {
		steps = 2
	}
	q.InjectPress(fromX, fromY)
	moves := steps - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves+1)
		q.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	// Final move so the drop target reflects the release position.
	q.InjectMove(toX, toY)
	q.InjectRelease(toX, toY)
}
