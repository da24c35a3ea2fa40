package aspen

import (
	"errors"
	"fmt"
	"math"
)

// ErrLastLayer is returned when an operation would remove the scene's only
// remaining layer.
var ErrLastLayer = errors.New("aspen: cannot remove the last layer")

// FreeformMark is a freely positioned circular or stamped decoration. Marks
// are global (not layer-scoped) and are stacked in insertion order, topmost
// last.
type FreeformMark struct {
	ID       int64
	Position Vec2
	Radius   float64
	Fill     Color
	Stroke   Color
	AssetRef string
}

// hitRadius returns the radius used by hit tests and erase, falling back to
// half a cell for marks with no radius of their own.
func (m *FreeformMark) hitRadius(cellSize float64) float64 {
	if m.Radius > 0 {
		return m.Radius
	}
	return cellSize / 2
}

// PlacedObject is a freely positioned, sized, and rotated rectangular
// decoration, typically image-backed. Position is the center. Objects are
// global and stacked in insertion order, topmost last.
type PlacedObject struct {
	ID       int64
	Position Vec2
	Width    float64
	Height   float64
	// Rotation is in radians, kept normalized into [0, 2π).
	Rotation float64
	AssetRef string
}

// AABB returns the object's axis-aligned bounding box with rotation
// intentionally ignored, matching the hit-test and erase rules.
func (o *PlacedObject) AABB() Rect {
	return Rect{
		X:      o.Position.X - o.Width/2,
		Y:      o.Position.Y - o.Height/2,
		Width:  o.Width,
		Height: o.Height,
	}
}

// Scene is the editable document: an ordered list of layers holding grid
// cells, plus global marks and objects. At least one layer always exists and
// Active is always a valid index.
type Scene struct {
	Layers  []*Layer
	Active  int
	Marks   []FreeformMark
	Objects []PlacedObject
}

// NewScene creates a scene with a single empty layer.
func NewScene() *Scene {
	return &Scene{
		Layers: []*Layer{NewLayer("Layer 1")},
	}
}

// ActiveLayer returns the layer drawing operations target.
func (s *Scene) ActiveLayer() *Layer {
	return s.Layers[s.Active]
}

// GridDraw upserts a cell on the active layer. Returns false when the write
// would produce data identical to the stored cell, which callers treat as a
// no-op for both redraw and history.
func (s *Scene) GridDraw(coord CellCoord, style CellStyle) bool {
	return s.ActiveLayer().SetCell(GridCell{
		Coord:  coord,
		Fill:   style.Fill,
		Border: style.Border,
	})
}

// AddMark appends a mark, assigning a fresh id when the mark carries none.
// Returns the mark's id.
func (s *Scene) AddMark(m FreeformMark) int64 {
	if m.ID == 0 {
		m.ID = newEntityID()
	}
	s.Marks = append(s.Marks, m)
	return m.ID
}

// AddObject appends an object, assigning a fresh id when the object carries
// none. Returns the object's id.
func (s *Scene) AddObject(o PlacedObject) int64 {
	if o.ID == 0 {
		o.ID = newEntityID()
	}
	s.Objects = append(s.Objects, o)
	return o.ID
}

// MarkByID returns a pointer into the mark list, or nil.
func (s *Scene) MarkByID(id int64) *FreeformMark {
	for i := range s.Marks {
		if s.Marks[i].ID == id {
			return &s.Marks[i]
		}
	}
	return nil
}

// ObjectByID returns a pointer into the object list, or nil.
func (s *Scene) ObjectByID(id int64) *PlacedObject {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// RemoveMark deletes the mark with the given id, preserving stacking order.
func (s *Scene) RemoveMark(id int64) bool {
	for i := range s.Marks {
		if s.Marks[i].ID == id {
			s.Marks = append(s.Marks[:i], s.Marks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveObject deletes the object with the given id, preserving stacking order.
func (s *Scene) RemoveObject(id int64) bool {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// EraseAt removes everything under the given world point: the active-layer
// cell containing it, every mark whose distance to it is under the mark's
// hit radius, and every object whose AABB contains it (rotation ignored).
// Returns whether anything was removed.
func (s *Scene) EraseAt(point Vec2, cellSize float64) bool {
	removed := false

	coord := CellCoord{
		X: int(math.Floor(point.X / cellSize)),
		Y: int(math.Floor(point.Y / cellSize)),
	}
	if s.ActiveLayer().RemoveCell(coord) {
		removed = true
	}

	for i := len(s.Marks) - 1; i >= 0; i-- {
		m := &s.Marks[i]
		dx := m.Position.X - point.X
		dy := m.Position.Y - point.Y
		r := m.hitRadius(cellSize)
		if dx*dx+dy*dy < r*r {
			s.Marks = append(s.Marks[:i], s.Marks[i+1:]...)
			removed = true
		}
	}

	for i := len(s.Objects) - 1; i >= 0; i-- {
		if s.Objects[i].AABB().Contains(point.X, point.Y) {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			removed = true
		}
	}

	return removed
}

// --- Layer management ---

// AddLayer appends an empty layer and returns its index. An empty name gets
// a generated one.
func (s *Scene) AddLayer(name string) int {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.Layers)+1)
	}
	s.Layers = append(s.Layers, NewLayer(name))
	return len(s.Layers) - 1
}

// RemoveLayer deletes the layer at index i. Removing the only remaining
// layer is rejected with ErrLastLayer; an out-of-range index is rejected
// silently. The active index is adjusted to stay valid.
func (s *Scene) RemoveLayer(i int) error {
	if i < 0 || i >= len(s.Layers) {
		return nil
	}
	if len(s.Layers) == 1 {
		return ErrLastLayer
	}
	s.Layers = append(s.Layers[:i], s.Layers[i+1:]...)
	if s.Active >= len(s.Layers) {
		s.Active = len(s.Layers) - 1
	} else if s.Active > i {
		s.Active--
	}
	return nil
}

// MoveLayer reorders the layer at index from to index to, shifting the
// layers between them. The active index follows its layer.
func (s *Scene) MoveLayer(from, to int) bool {
	n := len(s.Layers)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	active := s.Layers[s.Active]
	l := s.Layers[from]
	s.Layers = append(s.Layers[:from], s.Layers[from+1:]...)
	s.Layers = append(s.Layers[:to], append([]*Layer{l}, s.Layers[to:]...)...)
	for i, cand := range s.Layers {
		if cand == active {
			s.Active = i
			break
		}
	}
	return true
}

// ContentBounds returns the world-space bounding box over all filled cells
// on every layer, all marks inflated by their hit radius, and all object
// AABBs. ok is false when the scene has no content.
func (s *Scene) ContentBounds(cellSize float64) (Rect, bool) {
	var minX, minY, maxX, maxY float64
	have := false

	extend := func(r Rect) {
		if !have {
			minX, minY = r.X, r.Y
			maxX, maxY = r.X+r.Width, r.Y+r.Height
			have = true
			return
		}
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}

	for _, l := range s.Layers {
		if bx0, by0, bx1, by1, ok := l.cellBounds(); ok {
			extend(Rect{
				X:      float64(bx0) * cellSize,
				Y:      float64(by0) * cellSize,
				Width:  float64(bx1-bx0+1) * cellSize,
				Height: float64(by1-by0+1) * cellSize,
			})
		}
	}
	for i := range s.Marks {
		m := &s.Marks[i]
		r := m.hitRadius(cellSize)
		extend(Rect{X: m.Position.X - r, Y: m.Position.Y - r, Width: 2 * r, Height: 2 * r})
	}
	for i := range s.Objects {
		extend(s.Objects[i].AABB())
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, have
}

// --- Stroke gating ---

// strokeGate spaces out freeform-stroke emission: a point is accepted only
// when its distance from the last accepted point exceeds period*cellSize.
// Period 0 accepts every point. The gate advances on acceptance only, so
// rejected points do not drift the reference.
type strokeGate struct {
	period float64
	last   Vec2
	has    bool
}

func newStrokeGate(period float64) *strokeGate {
	return &strokeGate{period: period}
}

// Accept reports whether the point should be emitted and, if so, records it
// as the new reference point.
func (g *strokeGate) Accept(p Vec2, cellSize float64) bool {
	if g.has && g.period > 0 {
		dx := p.X - g.last.X
		dy := p.Y - g.last.Y
		min := g.period * cellSize
		if dx*dx+dy*dy <= min*min {
			return false
		}
	}
	g.last = p
	g.has = true
	return true
}
