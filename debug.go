package aspen

import "fmt"

// String returns the tool's HUD label.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolStroke:
		return "stroke"
	case ToolPlace:
		return "place"
	case ToolPan:
		return "pan"
	default:
		return fmt.Sprintf("tool(%d)", uint8(t))
	}
}

// Stats is a point-in-time summary of editor state for HUD overlays and
// diagnostics.
type Stats struct {
	Layers        int
	Cells         int // total across all layers
	Marks         int
	Objects       int
	Selected      int
	HistoryLen    int
	HistoryPos    int // 0-based index of the current entry
	PendingAssets int
	Tool          Tool
	Scale         float64
}

// Stats gathers the current counts. Cheap enough to call every frame.
func (e *Editor) Stats() Stats {
	cells := 0
	for _, l := range e.scene.Layers {
		cells += len(l.Cells)
	}
	return Stats{
		Layers:        len(e.scene.Layers),
		Cells:         cells,
		Marks:         len(e.scene.Marks),
		Objects:       len(e.scene.Objects),
		Selected:      e.sel.Count(),
		HistoryLen:    len(e.hist.entries),
		HistoryPos:    e.hist.ptr,
		PendingAssets: e.assets.Pending(),
		Tool:          e.tool,
		Scale:         e.view.Scale,
	}
}

// String formats the stats as one compact HUD line.
func (s Stats) String() string {
	return fmt.Sprintf(
		"tool: %s | zoom: %.2fx | layers: %d | cells: %d | marks: %d | objects: %d | selected: %d | history: %d/%d | assets pending: %d",
		s.Tool, s.Scale, s.Layers, s.Cells, s.Marks, s.Objects, s.Selected,
		s.HistoryPos+1, s.HistoryLen, s.PendingAssets)
}
