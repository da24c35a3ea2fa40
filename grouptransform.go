package aspen

import "math"

// SelectionCentroid returns the arithmetic mean position of every selected
// item regardless of kind: grid-cell centers for selected cells, plus the
// raw positions of selected marks and objects. ok is false for an empty
// selection.
func SelectionCentroid(s *Scene, sel *Selection, cellSize float64) (Vec2, bool) {
	var sum Vec2
	n := 0

	for coord := range sel.Cells {
		sum.X += (float64(coord.X) + 0.5) * cellSize
		sum.Y += (float64(coord.Y) + 0.5) * cellSize
		n++
	}
	for id := range sel.Marks {
		if m := s.MarkByID(id); m != nil {
			sum.X += m.Position.X
			sum.Y += m.Position.Y
			n++
		}
	}
	for id := range sel.Objects {
		if o := s.ObjectByID(id); o != nil {
			sum.X += o.Position.X
			sum.Y += o.Position.Y
			n++
		}
	}

	if n == 0 {
		return Vec2{}, false
	}
	return Vec2{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}

// normalizeAngle wraps an angle in radians into [0, 2π).
func normalizeAngle(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

// RotateSelection rotates the selected marks and objects about the selection
// centroid by deltaDeg degrees. Object rotation accumulates and stays
// normalized in [0, 2π). Grid cells contribute to the centroid but are
// otherwise untouched (rotation is undefined on lattice coordinates).
// Returns false for an empty selection.
func RotateSelection(s *Scene, sel *Selection, cellSize, deltaDeg float64) bool {
	c, ok := SelectionCentroid(s, sel, cellSize)
	if !ok {
		return false
	}

	r := deltaDeg * math.Pi / 180
	sin, cos := math.Sincos(r)

	rotate := func(p Vec2) Vec2 {
		dx := p.X - c.X
		dy := p.Y - c.Y
		return Vec2{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}

	for id := range sel.Marks {
		if m := s.MarkByID(id); m != nil {
			m.Position = rotate(m.Position)
		}
	}
	for id := range sel.Objects {
		if o := s.ObjectByID(id); o != nil {
			o.Position = rotate(o.Position)
			o.Rotation = normalizeAngle(o.Rotation + r)
		}
	}
	return true
}

// ResizeSelection scales the selected marks' and objects' offsets from the
// selection centroid by factor, along with mark radii and object
// dimensions. A factor ≤ 0 or an empty selection is rejected as a no-op.
// Grid cells contribute to the centroid but are otherwise untouched.
func ResizeSelection(s *Scene, sel *Selection, cellSize, factor float64) bool {
	if factor <= 0 {
		return false
	}
	c, ok := SelectionCentroid(s, sel, cellSize)
	if !ok {
		return false
	}

	scale := func(p Vec2) Vec2 {
		return Vec2{
			X: c.X + (p.X-c.X)*factor,
			Y: c.Y + (p.Y-c.Y)*factor,
		}
	}

	for id := range sel.Marks {
		if m := s.MarkByID(id); m != nil {
			m.Position = scale(m.Position)
			m.Radius *= factor
		}
	}
	for id := range sel.Objects {
		if o := s.ObjectByID(id); o != nil {
			o.Position = scale(o.Position)
			o.Width *= factor
			o.Height *= factor
		}
	}
	return true
}

// MoveSelection translates the selected marks and objects by delta. Grid
// cells are never relocated: re-keying risks collision with existing cells
// at the destination, so cell movement is unsupported. Returns false for an
// empty selection.
func MoveSelection(s *Scene, sel *Selection, delta Vec2) bool {
	if sel.Empty() {
		return false
	}
	for id := range sel.Marks {
		if m := s.MarkByID(id); m != nil {
			m.Position.X += delta.X
			m.Position.Y += delta.Y
		}
	}
	for id := range sel.Objects {
		if o := s.ObjectByID(id); o != nil {
			o.Position.X += delta.X
			o.Position.Y += delta.Y
		}
	}
	return true
}

// DeleteSelection removes every selected entity from the scene and clears
// the selection. Returns the number of entities removed.
func DeleteSelection(s *Scene, sel *Selection) int {
	n := 0
	layer := s.ActiveLayer()
	for coord := range sel.Cells {
		if layer.RemoveCell(coord) {
			n++
		}
	}
	for id := range sel.Marks {
		if s.RemoveMark(id) {
			n++
		}
	}
	for id := range sel.Objects {
		if s.RemoveObject(id) {
			n++
		}
	}
	sel.Clear()
	return n
}
