package aspen

import "testing"

func TestTopmostAtOrdering(t *testing.T) {
	s := NewScene()
	s.GridDraw(CellCoord{X: 3, Y: 3}, testCellStyle())
	markID := s.AddMark(FreeformMark{Position: Vec2{X: 112, Y: 112}, Radius: 20})
	objID := s.AddObject(PlacedObject{Position: Vec2{X: 112, Y: 112}, Width: 30, Height: 30})

	// All three stack at (112,112) inside cell (3,3): objects win.
	hit := TopmostAt(s, Vec2{X: 112, Y: 112}, 32)
	if hit.Kind != HitObject || hit.ID != objID {
		t.Fatalf("hit = %+v, want object %d", hit, objID)
	}

	s.RemoveObject(objID)
	hit = TopmostAt(s, Vec2{X: 112, Y: 112}, 32)
	if hit.Kind != HitMark || hit.ID != markID {
		t.Fatalf("hit = %+v, want mark %d", hit, markID)
	}

	s.RemoveMark(markID)
	hit = TopmostAt(s, Vec2{X: 112, Y: 112}, 32)
	if hit.Kind != HitCell || hit.Cell != (CellCoord{X: 3, Y: 3}) {
		t.Fatalf("hit = %+v, want cell (3,3)", hit)
	}

	s.ActiveLayer().RemoveCell(CellCoord{X: 3, Y: 3})
	hit = TopmostAt(s, Vec2{X: 112, Y: 112}, 32)
	if hit.Kind != HitNone {
		t.Fatalf("hit = %+v, want none", hit)
	}
}

func TestTopmostAtReverseInsertionOrder(t *testing.T) {
	s := NewScene()
	s.AddObject(PlacedObject{Position: Vec2{X: 50, Y: 50}, Width: 40, Height: 40})
	top := s.AddObject(PlacedObject{Position: Vec2{X: 50, Y: 50}, Width: 40, Height: 40})

	hit := TopmostAt(s, Vec2{X: 50, Y: 50}, 32)
	if hit.ID != top {
		t.Errorf("hit = %d, want the later-inserted object %d", hit.ID, top)
	}
}

func TestTopmostAtObjectIgnoresRotation(t *testing.T) {
	s := NewScene()
	id := s.AddObject(PlacedObject{
		Position: Vec2{X: 0, Y: 0}, Width: 20, Height: 20, Rotation: 0.7,
	})
	// Inside the AABB corner, outside the rotated square.
	hit := TopmostAt(s, Vec2{X: 9.5, Y: 9.5}, 32)
	if hit.Kind != HitObject || hit.ID != id {
		t.Errorf("hit = %+v, want object (AABB test, rotation ignored)", hit)
	}
}

func TestTopmostAtMarkFallbackRadius(t *testing.T) {
	s := NewScene()
	id := s.AddMark(FreeformMark{Position: Vec2{X: 200, Y: 200}})

	hit := TopmostAt(s, Vec2{X: 200 + 15, Y: 200}, 32)
	if hit.Kind != HitMark || hit.ID != id {
		t.Errorf("hit inside fallback radius = %+v, want mark", hit)
	}
	hit = TopmostAt(s, Vec2{X: 200 + 17, Y: 200}, 32)
	if hit.Kind == HitMark {
		t.Error("hit outside fallback radius should miss the mark")
	}
}

func TestSelectionSetToAndContains(t *testing.T) {
	sel := NewSelection()
	h := Hit{Kind: HitMark, ID: 7}
	sel.setTo(h)
	if !sel.Contains(h) || sel.Count() != 1 {
		t.Errorf("selection after setTo: count = %d", sel.Count())
	}

	sel.setTo(Hit{Kind: HitCell, Cell: CellCoord{X: 1, Y: 1}})
	if sel.Contains(h) {
		t.Error("setTo should replace the previous selection")
	}
	if sel.Contains(Hit{Kind: HitNone}) {
		t.Error("HitNone is never contained")
	}

	sel.Clear()
	if !sel.Empty() {
		t.Error("selection should be empty after Clear")
	}
}

func TestSelectInRectCellCenterRule(t *testing.T) {
	s := NewScene()
	for x := 0; x < 4; x++ {
		s.GridDraw(CellCoord{X: x, Y: 0}, testCellStyle())
	}
	// Cell centers at 16, 48, 80, 112 (cellSize 32). The half-open rect
	// [10,80) catches the centers 16 and 48 but excludes 80 exactly.
	sel := SelectInRect(s, 32, Vec2{X: 10, Y: 0}, Vec2{X: 80, Y: 32})
	if len(sel.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(sel.Cells))
	}
	if _, ok := sel.Cells[CellCoord{X: 2, Y: 0}]; ok {
		t.Error("cell with center exactly on the max edge must be excluded (half-open)")
	}
}

func TestSelectInRectNormalizesCorners(t *testing.T) {
	s := NewScene()
	s.GridDraw(CellCoord{X: 1, Y: 1}, testCellStyle())

	// Corners given bottom-right to top-left.
	sel := SelectInRect(s, 32, Vec2{X: 70, Y: 70}, Vec2{X: 30, Y: 30})
	if len(sel.Cells) != 1 {
		t.Errorf("cells = %d, want 1 (corner order must not matter)", len(sel.Cells))
	}
}

func TestSelectInRectMarkCenterRule(t *testing.T) {
	s := NewScene()
	in := s.AddMark(FreeformMark{Position: Vec2{X: 50, Y: 50}, Radius: 100})
	out := s.AddMark(FreeformMark{Position: Vec2{X: 150, Y: 50}, Radius: 100})

	// The mark's radius overlaps the rect but its center is outside: the
	// rule is center-in-rect, not overlap.
	sel := SelectInRect(s, 32, Vec2{X: 0, Y: 0}, Vec2{X: 100, Y: 100})
	if _, ok := sel.Marks[in]; !ok {
		t.Error("mark with center inside should be selected")
	}
	if _, ok := sel.Marks[out]; ok {
		t.Error("mark with center outside should not be selected, despite overlap")
	}
}

func TestSelectInRectObjectOverlapRule(t *testing.T) {
	s := NewScene()
	// Object centered outside the rect but whose AABB pokes into it.
	touching := s.AddObject(PlacedObject{Position: Vec2{X: 110, Y: 50}, Width: 40, Height: 40})
	separate := s.AddObject(PlacedObject{Position: Vec2{X: 300, Y: 300}, Width: 40, Height: 40})

	sel := SelectInRect(s, 32, Vec2{X: 0, Y: 0}, Vec2{X: 100, Y: 100})
	if _, ok := sel.Objects[touching]; !ok {
		t.Error("object overlapping the rect should be selected (any intersection)")
	}
	if _, ok := sel.Objects[separate]; ok {
		t.Error("object away from the rect should not be selected")
	}
}

func TestSelectionPrune(t *testing.T) {
	s := NewScene()
	s.GridDraw(CellCoord{X: 0, Y: 0}, testCellStyle())
	mid := s.AddMark(FreeformMark{Position: Vec2{X: 10, Y: 10}, Radius: 5})
	oid := s.AddObject(PlacedObject{Position: Vec2{X: 20, Y: 20}, Width: 10, Height: 10})

	sel := NewSelection()
	sel.Cells[CellCoord{X: 0, Y: 0}] = struct{}{}
	sel.Cells[CellCoord{X: 9, Y: 9}] = struct{}{} // never existed
	sel.Marks[mid] = struct{}{}
	sel.Objects[oid] = struct{}{}

	s.RemoveMark(mid)
	sel.prune(s)

	if _, ok := sel.Cells[CellCoord{X: 9, Y: 9}]; ok {
		t.Error("missing cell should be pruned")
	}
	if _, ok := sel.Cells[CellCoord{X: 0, Y: 0}]; !ok {
		t.Error("existing cell should survive")
	}
	if len(sel.Marks) != 0 {
		t.Error("removed mark should be pruned")
	}
	if _, ok := sel.Objects[oid]; !ok {
		t.Error("existing object should survive")
	}
}
