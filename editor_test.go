package aspen

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestEditor() *Editor {
	return NewEditor(Config{})
}

func TestNewEditor_Defaults(t *testing.T) {
	e := newTestEditor()
	if got := len(e.Scene().Layers); got != 1 {
		t.Errorf("new editor has %d layers, want 1", got)
	}
	if got := e.View().CellSize; got != BaseCellSize {
		t.Errorf("cell size = %v, want %v", got, BaseCellSize)
	}
	if e.CanUndo() {
		t.Error("fresh editor reports CanUndo")
	}
	if e.Tool() != ToolSelect {
		t.Errorf("default tool = %v, want ToolSelect", e.Tool())
	}
}

func TestEditor_UndoRedo(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{1, 1})
	e.Record()

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if e.Scene().ActiveLayer().Filled(CellCoord{1, 1}) {
		t.Error("cell still present after undo")
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if !e.Scene().ActiveLayer().Filled(CellCoord{1, 1}) {
		t.Error("cell not restored by redo")
	}
}

func TestEditor_RecordTruncatesRedo(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{0, 0})
	e.Record()
	e.Undo()

	e.DrawCell(CellCoord{5, 5})
	e.Record()

	if e.CanRedo() {
		t.Error("redo branch survived a new record")
	}
}

func TestEditor_RestoreClearsSelection(t *testing.T) {
	e := newTestEditor()
	e.Scene().AddMark(FreeformMark{Position: Vec2{50, 50}, Radius: 10})
	e.Record()
	e.SelectAt(Vec2{50, 50})
	if e.Selection().Empty() {
		t.Fatal("setup: nothing selected")
	}

	e.Undo()
	if !e.Selection().Empty() {
		t.Error("selection survived a restore")
	}
}

func TestEditor_ConsumeRedraw(t *testing.T) {
	e := newTestEditor()
	e.ConsumeRedraw()

	e.DrawCell(CellCoord{0, 0})
	e.DrawCell(CellCoord{1, 0})
	if !e.ConsumeRedraw() {
		t.Fatal("no redraw pending after document changes")
	}
	if e.ConsumeRedraw() {
		t.Error("redraw flag did not clear on consume")
	}
}

// --- Save / Load ---

func TestEditor_SaveLoadRoundTrip(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{2, 3})
	e.Scene().AddMark(FreeformMark{Position: Vec2{10, 20}, Radius: 4})
	e.Scene().AddObject(PlacedObject{Position: Vec2{64, 64}, Width: 32, Height: 32})
	e.AddLayer("upper")
	e.Record()

	data, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	e2 := newTestEditor()
	e2.DrawCell(CellCoord{9, 9})
	e2.Record()
	if err := e2.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(e2.Scene().Layers); got != 2 {
		t.Errorf("loaded %d layers, want 2", got)
	}
	if !e2.Scene().Layers[0].Filled(CellCoord{2, 3}) {
		t.Error("loaded scene missing the drawn cell")
	}
	if e2.Scene().Layers[0].Filled(CellCoord{9, 9}) {
		t.Error("loaded scene kept the pre-load cell")
	}
	if got := len(e2.Scene().Marks); got != 1 {
		t.Errorf("loaded %d marks, want 1", got)
	}
	if e2.CanUndo() {
		t.Error("history not reset by load")
	}
}

func TestEditor_LoadRejectsMalformed(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{1, 1})
	e.Record()

	if err := e.Load([]byte(`{"layers": "nope"`)); err == nil {
		t.Fatal("Load accepted malformed JSON")
	}
	if !e.Scene().ActiveLayer().Filled(CellCoord{1, 1}) {
		t.Error("failed load modified the document")
	}
	if !e.CanUndo() {
		t.Error("failed load reset history")
	}
}

// --- Clipboard ---

func TestClipboard_SingleMarkPastesAtCursor(t *testing.T) {
	e := newTestEditor()
	e.Scene().AddMark(FreeformMark{Position: Vec2{100, 100}, Radius: 20})
	e.SelectAt(Vec2{100, 100})

	if got := e.CopySelection(); got != 1 {
		t.Fatalf("CopySelection = %d, want 1", got)
	}
	if !e.PasteAt(Vec2{500, 500}) {
		t.Fatal("PasteAt failed")
	}

	if got := len(e.Scene().Marks); got != 2 {
		t.Fatalf("scene has %d marks after paste, want 2", got)
	}
	pasted := &e.Scene().Marks[1]
	if !vecApproxEqual(pasted.Position, Vec2{500, 500}, testEps) {
		t.Errorf("pasted mark at %v, want {500 500}", pasted.Position)
	}
	if pasted.Radius != 20 {
		t.Errorf("pasted radius = %v, want 20", pasted.Radius)
	}
	if pasted.ID == e.Scene().Marks[0].ID {
		t.Error("pasted mark reused the source id")
	}
	if _, ok := e.Selection().Marks[pasted.ID]; !ok || e.Selection().Count() != 1 {
		t.Error("selection is not exactly the pasted mark")
	}
}

func TestClipboard_GroupKeepsRelativeOffsets(t *testing.T) {
	e := newTestEditor()
	a := e.Scene().AddMark(FreeformMark{Position: Vec2{100, 100}, Radius: 5})
	b := e.Scene().AddMark(FreeformMark{Position: Vec2{140, 160}, Radius: 5})
	sel := e.Selection()
	sel.Marks[a] = struct{}{}
	sel.Marks[b] = struct{}{}

	e.CopySelection()
	e.PasteAt(Vec2{500, 500})

	// The group centroid (120, 130) lands on the cursor.
	marks := e.Scene().Marks
	if got := len(marks); got != 4 {
		t.Fatalf("scene has %d marks, want 4", got)
	}
	if !vecApproxEqual(marks[2].Position, Vec2{480, 470}, testEps) {
		t.Errorf("first pasted mark at %v, want {480 470}", marks[2].Position)
	}
	if !vecApproxEqual(marks[3].Position, Vec2{520, 530}, testEps) {
		t.Errorf("second pasted mark at %v, want {520 530}", marks[3].Position)
	}
}

func TestClipboard_CellsPasteOnePastCursorCell(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{2, 3})
	e.DrawCell(CellCoord{3, 3})
	e.SelectRect(Vec2{64, 96}, Vec2{128, 128})
	if got := len(e.Selection().Cells); got != 2 {
		t.Fatalf("setup: selected %d cells, want 2", got)
	}

	e.CopySelection()
	e.PasteAt(Vec2{0, 0}) // cursor in cell (0,0)

	layer := e.Scene().ActiveLayer()
	if !layer.Filled(CellCoord{1, 1}) || !layer.Filled(CellCoord{2, 1}) {
		t.Errorf("pasted cells missing; filled = %v", layer.Cells)
	}
	if got := len(layer.Cells); got != 4 {
		t.Errorf("layer has %d cells, want 4", got)
	}
	if got := len(e.Selection().Cells); got != 2 {
		t.Errorf("selection has %d cells after paste, want 2", got)
	}
}

func TestClipboard_SurvivesSourceDeletion(t *testing.T) {
	e := newTestEditor()
	e.Scene().AddMark(FreeformMark{Position: Vec2{100, 100}, Radius: 8})
	e.SelectAt(Vec2{100, 100})
	e.CopySelection()
	e.DeleteSelection()

	if !e.PasteAt(Vec2{200, 200}) {
		t.Fatal("paste failed after source deletion")
	}
	if got := len(e.Scene().Marks); got != 1 {
		t.Fatalf("scene has %d marks, want 1", got)
	}
	if !vecApproxEqual(e.Scene().Marks[0].Position, Vec2{200, 200}, testEps) {
		t.Errorf("pasted mark at %v, want {200 200}", e.Scene().Marks[0].Position)
	}
}

func TestClipboard_EmptyCases(t *testing.T) {
	e := newTestEditor()
	if got := e.CopySelection(); got != 0 {
		t.Errorf("copy with empty selection = %d, want 0", got)
	}
	if e.PasteAt(Vec2{0, 0}) {
		t.Error("paste with empty clipboard succeeded")
	}
}

// --- Group operations through the editor ---

func TestEditor_CellsOnlyRotationRecords(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{1, 1})
	cellBefore, _ := e.Scene().ActiveLayer().Cell(CellCoord{1, 1})
	e.Selection().Cells[CellCoord{1, 1}] = struct{}{}

	records := 0
	e.On(EventHistory, func(Event) { records++ })

	if !e.RotateSelection(90) {
		t.Fatal("cells-only rotation rejected")
	}
	if records != 1 {
		t.Errorf("rotation recorded %d entries, want 1", records)
	}
	cellAfter, ok := e.Scene().ActiveLayer().Cell(CellCoord{1, 1})
	if !ok || !cellAfter.Equal(cellBefore) {
		t.Error("rotation mutated cell data")
	}
}

func TestEditor_MoveSelectionZeroDelta(t *testing.T) {
	e := newTestEditor()
	id := e.Scene().AddMark(FreeformMark{Position: Vec2{10, 10}, Radius: 5})
	e.Selection().Marks[id] = struct{}{}
	if e.MoveSelection(Vec2{}) {
		t.Error("zero-delta move reported success")
	}
}

func TestEditor_DeleteSelection(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{0, 0})
	id := e.Scene().AddMark(FreeformMark{Position: Vec2{100, 100}, Radius: 5})
	sel := e.Selection()
	sel.Cells[CellCoord{0, 0}] = struct{}{}
	sel.Marks[id] = struct{}{}

	if !e.DeleteSelection() {
		t.Fatal("DeleteSelection failed")
	}
	if e.Scene().ActiveLayer().Filled(CellCoord{0, 0}) {
		t.Error("selected cell survived deletion")
	}
	if e.Scene().MarkByID(id) != nil {
		t.Error("selected mark survived deletion")
	}
	if !e.Selection().Empty() {
		t.Error("selection not cleared by deletion")
	}
}

// --- Layer operations ---

func TestEditor_LayerOperations(t *testing.T) {
	e := newTestEditor()
	i := e.AddLayer("props")
	if i != 1 {
		t.Fatalf("AddLayer index = %d, want 1", i)
	}
	if !e.RenameLayer(1, "decor") {
		t.Error("rename rejected")
	}
	if e.RenameLayer(1, "decor") {
		t.Error("rename to the same name reported a change")
	}
	if !e.SetLayerVisible(1, false) {
		t.Error("visibility toggle rejected")
	}
	if !e.MoveLayer(1, 0) {
		t.Error("layer move rejected")
	}
	if got := e.Scene().Layers[0].Name; got != "decor" {
		t.Errorf("layer 0 = %q, want %q", got, "decor")
	}
}

func TestEditor_RemoveLastLayer(t *testing.T) {
	e := newTestEditor()
	var notice string
	e.On(EventNotice, func(ev Event) { notice = ev.Notice })

	if err := e.RemoveLayer(0); err != ErrLastLayer {
		t.Fatalf("RemoveLayer(0) = %v, want ErrLastLayer", err)
	}
	if notice == "" {
		t.Error("no notice emitted for the rejected removal")
	}
	if got := len(e.Scene().Layers); got != 1 {
		t.Errorf("scene has %d layers, want 1", got)
	}
}

func TestEditor_SwitchActiveLayerClearsSelection(t *testing.T) {
	e := newTestEditor()
	e.AddLayer("upper")
	e.DrawCell(CellCoord{0, 0})
	e.Selection().Cells[CellCoord{0, 0}] = struct{}{}

	if !e.SetActiveLayer(1) {
		t.Fatal("SetActiveLayer rejected")
	}
	if !e.Selection().Empty() {
		t.Error("selection survived the active-layer switch")
	}
	if e.SetActiveLayer(1) {
		t.Error("switching to the current layer reported a change")
	}
}

// --- Placement sizing ---

func TestPlaceObjectAt_UsesNaturalAssetSize(t *testing.T) {
	e := newTestEditor()
	img := ebiten.NewImage(64, 16)
	e.Assets().Deliver("props/crate", img, nil)
	e.SetObjectAsset("props/crate")

	id := e.PlaceObjectAt(Vec2{100, 100})
	o := e.Scene().ObjectByID(id)
	if o == nil {
		t.Fatal("object not placed")
	}
	if o.Width != 64 || o.Height != 16 {
		t.Errorf("object sized %gx%g, want 64x16", o.Width, o.Height)
	}
}

func TestPlaceObjectAt_ScalesWithCellSize(t *testing.T) {
	e := NewEditor(Config{CellSize: 64})
	id := e.PlaceObjectAt(Vec2{0, 0})
	o := e.Scene().ObjectByID(id)
	// The pending-asset fallback is one BaseCellSize square, scaled by the
	// grid's logical cell size.
	if o.Width != 64 || o.Height != 64 {
		t.Errorf("object sized %gx%g, want 64x64", o.Width, o.Height)
	}
}
