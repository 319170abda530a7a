package arbor

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	FromX  float64  `json:"fromX,omitempty"`
	FromY  float64  `json:"fromY,omitempty"`
	ToX    float64  `json:"toX,omitempty"`
	ToY    float64  `json:"toY,omitempty"`
	Frames int      `json:"frames,omitempty"`
	Key    string   `json:"key,omitempty"`
	Mods   []string `json:"mods,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events and screenshots across frames
// for automated visual testing. Call Step once per frame before the tree's
// Update, or hand the runner to RunScript to play it headlessly.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "screenshot", "click", "move", "drag", "wait", "leave":
	case "key":
		if parseKey(st.Key) == KeyUnknown {
			return fmt.Errorf("unknown key %q", st.Key)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	for _, m := range st.Mods {
		if parseModifier(m) == 0 {
			return fmt.Errorf("unknown modifier %q", m)
		}
	}
	return nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, queueing input on q. shoot is
// called for screenshot steps and may be nil. Steps wait for q to drain
// before advancing.
func (r *TestRunner) Step(q *EventQueue, shoot func(label string)) {
	if r.done {
		return
	}
	if q.Len() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	mods := modifierSet(st.Mods)

	switch st.Action {
	case "screenshot":
		if shoot != nil {
			shoot(st.Label)
		}
	case "click":
		q.Push(PointerDown(st.X, st.Y, mods))
		q.InjectRelease(st.X, st.Y)
	case "move":
		q.InjectMove(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		q.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "key":
		q.InjectKey(parseKey(st.Key), mods)
	case "leave":
		q.Push(PointerLeave())
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && q.Len() == 0 {
		r.done = true
	}
}

// RunScript plays runner against tree headlessly, one Frame per step, until
// the script is done. Screenshot steps are written to dir at the size of
// bounds. It returns the paths of the screenshots taken.
func RunScript[ID comparable](tree *Tree[ID], st *State, bounds Rect, runner *TestRunner, dir string) ([]string, error) {
	var (
		q     EventQueue
		shots []string
		err   error
	)
	w, h := int(bounds.X+bounds.Width), int(bounds.Y+bounds.Height)
	shoot := func(label string) {
		if err != nil {
			return
		}
		var path string
		path, err = tree.Screenshot(st, dir, label, w, h)
		if err == nil {
			shots = append(shots, path)
		}
	}
	// Each step either queues input, waits, or shoots; the bound keeps a
	// malformed runner from spinning forever.
	limit := 2 * (len(runner.steps) + 1)
	for _, s := range runner.steps {
		limit += s.Frames
	}
	tree.Layout(st, bounds)
	for i := 0; !runner.Done() && i < limit; i++ {
		runner.Step(&q, shoot)
		tree.Frame(st, bounds, &q, nil)
		if err != nil {
			return shots, err
		}
	}
	return shots, nil
}

func parseKey(name string) Key {
	switch strings.ToLower(name) {
	case "up", "arrowup":
		return KeyArrowUp
	case "down", "arrowdown":
		return KeyArrowDown
	case "left", "arrowleft":
		return KeyArrowLeft
	case "right", "arrowright":
		return KeyArrowRight
	case "space", " ":
		return KeySpace
	}
	return KeyUnknown
}

func parseModifier(name string) KeyModifiers {
	switch strings.ToLower(name) {
	case "shift":
		return ModShift
	case "ctrl", "control":
		return ModCtrl
	case "alt":
		return ModAlt
	case "meta", "cmd", "command":
		return ModMeta
	}
	return 0
}

func modifierSet(names []string) KeyModifiers {
	var m KeyModifiers
	for _, n := range names {
		m |= parseModifier(n)
	}
	return m
}
