package arbor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200, "mods": ["ctrl"]},
			{"action": "wait", "frames": 3},
			{"action": "key", "key": "Down"},
			{"action": "screenshot", "label": "after-click"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "jump"}]}`},
		{"unknown key", `{"steps": [{"action": "key", "key": "F13"}]}`},
		{"unknown modifier", `{"steps": [{"action": "click", "mods": ["hyper"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseKeyAndModifiers(t *testing.T) {
	if k := parseKey("ArrowUp"); k != KeyArrowUp {
		t.Errorf("parseKey(ArrowUp) = %d, want %d", k, KeyArrowUp)
	}
	if k := parseKey("space"); k != KeySpace {
		t.Errorf("parseKey(space) = %d, want %d", k, KeySpace)
	}
	if m := modifierSet([]string{"Shift", "cmd"}); m != ModShift|ModMeta {
		t.Errorf("modifierSet = %b, want %b", m, ModShift|ModMeta)
	}
}

func TestRunnerStep_Click(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 60, "mods": ["ctrl"]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	var q EventQueue

	runner.Step(&q, nil)
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued events, got %d", q.Len())
	}
	if runner.Done() {
		t.Error("runner should not be done while the queue has events")
	}
	ev, _ := q.Pop()
	if ev.Kind != EventPointerDown || ev.Modifiers != ModCtrl || ev.Position != (Vec2{50, 60}) {
		t.Errorf("press = %+v", ev)
	}

	q.Drain()
	runner.Step(&q, nil)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	var q EventQueue
	var shots []string
	shoot := func(label string) { shots = append(shots, label) }

	for frame := 1; frame <= 3; frame++ {
		runner.Step(&q, shoot)
		if runner.Done() {
			t.Fatalf("done during wait at frame %d", frame)
		}
	}
	runner.Step(&q, shoot)
	if !runner.Done() {
		t.Error("runner should be done after screenshot step")
	}
	if len(shots) != 1 || shots[0] != "done" {
		t.Errorf("expected screenshot 'done', got %v", shots)
	}
}

func TestRunnerStep_DragAndLeave(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "frames": 4},
		{"action": "leave"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	var q EventQueue
	runner.Step(&q, nil)
	if q.Len() != 5 {
		t.Fatalf("expected 5 queued events for drag, got %d", q.Len())
	}
	q.Drain()
	runner.Step(&q, nil)
	if ev, _ := q.Pop(); ev.Kind != EventPointerLeave {
		t.Errorf("event = %s, want pointer-leave", ev.Kind)
	}
}

func TestRunnerWaitsForQueue(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 50, "y": 50},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	var q EventQueue
	var shots []string
	shoot := func(label string) { shots = append(shots, label) }

	runner.Step(&q, shoot)
	runner.Step(&q, shoot)
	if runner.cursor != 1 {
		t.Errorf("cursor should still be 1, got %d", runner.cursor)
	}

	q.Drain()
	runner.Step(&q, shoot)
	if len(shots) != 1 || shots[0] != "after" {
		t.Errorf("expected screenshot 'after', got %v", shots)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunScript(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 150, "y": 165},
		{"action": "key", "key": "up"},
		{"action": "key", "key": "space", "mods": ["ctrl"]},
		{"action": "screenshot", "label": "selected"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	tree := sampleTree()
	st := NewState()
	dir := t.TempDir()

	shots, err := RunScript(tree, st, testBounds, runner, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 1 || !strings.HasSuffix(shots[0], "_selected.png") {
		t.Fatalf("shots = %v", shots)
	}
	if filepath.Dir(shots[0]) != dir {
		t.Errorf("screenshot written to %q, want %q", filepath.Dir(shots[0]), dir)
	}
	if _, err := os.Stat(shots[0]); err != nil {
		t.Error(err)
	}
	if !st.IsSelected(3) || !st.IsSelected(4) {
		t.Errorf("Selected = %v, want [3 4]", st.Selected())
	}
}

func TestRunScriptScreenshotError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "screenshot", "label": "x"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RunScript(sampleTree(), NewState(), testBounds, runner, filepath.Join(file, "sub")); err == nil {
		t.Error("expected the screenshot error to surface")
	}
}
