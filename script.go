package aspen

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ScriptStep is one scheduled input event in a replay script. At is the
// frame index (0-based) the event fires on; Kind selects the event and which
// of the remaining fields apply.
type ScriptStep struct {
	At   int     `json:"at"`
	Kind string  `json:"kind"` // down | move | up | wheel | tool | key
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Dy   float64 `json:"dy,omitempty"`   // wheel only
	Tool string  `json:"tool,omitempty"` // tool only
	Key  string  `json:"key,omitempty"`  // key only
}

type script struct {
	Steps []ScriptStep `json:"steps"`
}

// ScriptRunner replays a scripted sequence of pointer, wheel, tool, and key
// events into an editor, one frame at a time. Scripts make gesture behavior
// reproducible for tests and demos without a real input device.
type ScriptRunner struct {
	steps  []ScriptStep
	cursor int
	frame  int
	done   bool
}

var scriptTools = map[string]Tool{
	"select": ToolSelect,
	"draw":   ToolDraw,
	"erase":  ToolErase,
	"stroke": ToolStroke,
	"place":  ToolPlace,
	"pan":    ToolPan,
}

var scriptKeys = map[string]struct{}{
	"undo": {}, "redo": {}, "delete": {}, "copy": {}, "paste": {}, "escape": {},
}

// LoadScript parses and validates a JSON replay script. Steps may appear in
// any order; they are sorted by frame, preserving relative order within one
// frame.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if st.At < 0 {
			return nil, fmt.Errorf("parse script: step %d: negative frame %d", i, st.At)
		}
		switch st.Kind {
		case "down", "move", "up", "wheel":
		case "tool":
			if _, ok := scriptTools[st.Tool]; !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown tool %q", i, st.Tool)
			}
		case "key":
			if _, ok := scriptKeys[st.Key]; !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown kind %q", i, st.Kind)
		}
	}
	steps := make([]ScriptStep, len(sc.Steps))
	copy(steps, sc.Steps)
	sort.SliceStable(steps, func(a, b int) bool { return steps[a].At < steps[b].At })
	return &ScriptRunner{steps: steps}, nil
}

// Done reports whether every step has fired.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step injects every event scheduled for the current frame, then advances
// the frame counter. Call once per frame until Done.
func (r *ScriptRunner) Step(e *Editor) {
	if r.done {
		return
	}
	for r.cursor < len(r.steps) && r.steps[r.cursor].At == r.frame {
		r.apply(e, r.steps[r.cursor])
		r.cursor++
	}
	r.frame++
	if r.cursor >= len(r.steps) {
		r.done = true
	}
}

func (r *ScriptRunner) apply(e *Editor, st ScriptStep) {
	switch st.Kind {
	case "down":
		e.PointerDown(Vec2{X: st.X, Y: st.Y})
	case "move":
		e.PointerMove(Vec2{X: st.X, Y: st.Y})
	case "up":
		e.PointerUp(Vec2{X: st.X, Y: st.Y})
	case "wheel":
		e.Wheel(Vec2{X: st.X, Y: st.Y}, st.Dy)
	case "tool":
		e.SetTool(scriptTools[st.Tool])
	case "key":
		switch st.Key {
		case "undo":
			e.Undo()
		case "redo":
			e.Redo()
		case "delete":
			e.DeleteSelection()
		case "copy":
			e.CopySelection()
		case "paste":
			e.PasteAt(e.View().ScreenToWorld(Vec2{X: st.X, Y: st.Y}))
		case "escape":
			e.Cancel()
		}
	}
}
