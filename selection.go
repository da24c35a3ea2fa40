package aspen

import "math"

// HitKind identifies what a point hit test resolved to.
type HitKind uint8

const (
	HitNone   HitKind = iota // nothing under the point
	HitObject                // a placed object (topmost class)
	HitMark                  // a freeform mark
	HitCell                  // a filled cell on the active layer
)

// Hit is the result of TopmostAt. Cell is valid for HitCell; ID for HitMark
// and HitObject.
type Hit struct {
	Kind HitKind
	Cell CellCoord
	ID   int64
}

// TopmostAt resolves the topmost item under a world point. Objects are
// tested first in reverse insertion order (AABB, rotation ignored), then
// marks in reverse insertion order (distance under the hit radius), then the
// active layer's cell containing the point. First match wins.
func TopmostAt(s *Scene, point Vec2, cellSize float64) Hit {
	for i := len(s.Objects) - 1; i >= 0; i-- {
		if s.Objects[i].AABB().Contains(point.X, point.Y) {
			return Hit{Kind: HitObject, ID: s.Objects[i].ID}
		}
	}

	for i := len(s.Marks) - 1; i >= 0; i-- {
		m := &s.Marks[i]
		dx := m.Position.X - point.X
		dy := m.Position.Y - point.Y
		r := m.hitRadius(cellSize)
		if dx*dx+dy*dy < r*r {
			return Hit{Kind: HitMark, ID: m.ID}
		}
	}

	coord := CellCoord{
		X: int(math.Floor(point.X / cellSize)),
		Y: int(math.Floor(point.Y / cellSize)),
	}
	if s.ActiveLayer().Filled(coord) {
		return Hit{Kind: HitCell, Cell: coord}
	}

	return Hit{Kind: HitNone}
}

// Selection is the transient set of currently selected entities. Cell keys
// reference the active layer; the whole selection is rebuilt on every click
// or drag release and cleared on layer switch, restore, and load.
type Selection struct {
	Cells   map[CellCoord]struct{}
	Marks   map[int64]struct{}
	Objects map[int64]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		Cells:   make(map[CellCoord]struct{}),
		Marks:   make(map[int64]struct{}),
		Objects: make(map[int64]struct{}),
	}
}

// Clear empties the selection in place.
func (sel *Selection) Clear() {
	clear(sel.Cells)
	clear(sel.Marks)
	clear(sel.Objects)
}

// Empty reports whether nothing is selected.
func (sel *Selection) Empty() bool {
	return len(sel.Cells) == 0 && len(sel.Marks) == 0 && len(sel.Objects) == 0
}

// Count returns the total number of selected entities.
func (sel *Selection) Count() int {
	return len(sel.Cells) + len(sel.Marks) + len(sel.Objects)
}

// Contains reports whether the given hit refers to a selected entity.
func (sel *Selection) Contains(h Hit) bool {
	switch h.Kind {
	case HitCell:
		_, ok := sel.Cells[h.Cell]
		return ok
	case HitMark:
		_, ok := sel.Marks[h.ID]
		return ok
	case HitObject:
		_, ok := sel.Objects[h.ID]
		return ok
	default:
		return false
	}
}

// setTo replaces the selection with exactly the given hit.
func (sel *Selection) setTo(h Hit) {
	sel.Clear()
	switch h.Kind {
	case HitCell:
		sel.Cells[h.Cell] = struct{}{}
	case HitMark:
		sel.Marks[h.ID] = struct{}{}
	case HitObject:
		sel.Objects[h.ID] = struct{}{}
	}
}

// normalizeRect builds the axis-aligned rectangle spanned by two arbitrary
// corner points.
func normalizeRect(a, b Vec2) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// inRectHalfOpen reports whether p lies in [min, max) on both axes. Cell and
// mark membership in a drag rectangle uses this rule so adjacent drags do
// not double-select along shared edges.
func inRectHalfOpen(r Rect, p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// SelectInRect rebuilds the selection from a drag rectangle given by two
// world-space corners. Active-layer cells and marks are members when their
// center lies in the half-open rect; objects when their AABB overlaps it.
func SelectInRect(s *Scene, cellSize float64, cornerA, cornerB Vec2) Selection {
	rect := normalizeRect(cornerA, cornerB)
	sel := NewSelection()

	for coord := range s.ActiveLayer().Cells {
		center := Vec2{
			X: (float64(coord.X) + 0.5) * cellSize,
			Y: (float64(coord.Y) + 0.5) * cellSize,
		}
		if inRectHalfOpen(rect, center) {
			sel.Cells[coord] = struct{}{}
		}
	}

	for i := range s.Marks {
		if inRectHalfOpen(rect, s.Marks[i].Position) {
			sel.Marks[s.Marks[i].ID] = struct{}{}
		}
	}

	for i := range s.Objects {
		if s.Objects[i].AABB().Intersects(rect) {
			sel.Objects[s.Objects[i].ID] = struct{}{}
		}
	}

	return sel
}

// prune drops selection references to entities that no longer exist.
func (sel *Selection) prune(s *Scene) {
	for coord := range sel.Cells {
		if !s.ActiveLayer().Filled(coord) {
			delete(sel.Cells, coord)
		}
	}
	for id := range sel.Marks {
		if s.MarkByID(id) == nil {
			delete(sel.Marks, id)
		}
	}
	for id := range sel.Objects {
		if s.ObjectByID(id) == nil {
			delete(sel.Objects, id)
		}
	}
}
