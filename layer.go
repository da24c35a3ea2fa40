package aspen

// GridCell is one filled lattice square. A cell is owned by exactly one
// layer and is keyed there by its coordinate.
type GridCell struct {
	Coord  CellCoord
	Fill   CellFill
	Border Color
}

// Equal reports field-by-field equality of cell data. Grid-draw uses this to
// skip writes that would not change anything.
func (c GridCell) Equal(other GridCell) bool {
	return c.Coord == other.Coord &&
		c.Fill.Equal(other.Fill) &&
		c.Border == other.Border
}

// ShadowConfig controls the directional shadow cast by a layer's filled
// cells into their empty neighbors. Color carries the shadow alpha, which is
// applied once to the composited buffer rather than per fragment.
type ShadowConfig struct {
	Enabled      bool    `json:"enabled"`
	AngleDegrees float64 `json:"angleDegrees"`
	// OffsetCells is the cast distance in cell units. Zero disables the
	// cast entirely.
	OffsetCells float64 `json:"offsetCells"`
	Color       Color   `json:"color"`
}

// defaultShadowConfig is applied to new layers.
func defaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		Enabled:      true,
		AngleDegrees: 45,
		OffsetCells:  0.35,
		Color:        Color{0, 0, 0, 0.4},
	}
}

// Layer is one independently toggleable plane of grid cells with its own
// shadow configuration. Layers are composited in the scene's list order.
type Layer struct {
	Name    string
	Visible bool
	Shadow  ShadowConfig
	Cells   map[CellCoord]GridCell
}

// NewLayer creates an empty visible layer with the default shadow config.
func NewLayer(name string) *Layer {
	return &Layer{
		Name:    name,
		Visible: true,
		Shadow:  defaultShadowConfig(),
		Cells:   make(map[CellCoord]GridCell),
	}
}

// Cell returns the cell at the given coordinate, if present.
func (l *Layer) Cell(coord CellCoord) (GridCell, bool) {
	c, ok := l.Cells[coord]
	return c, ok
}

// Filled reports whether a cell exists at the given coordinate.
func (l *Layer) Filled(coord CellCoord) bool {
	_, ok := l.Cells[coord]
	return ok
}

// SetCell upserts a cell. Returns false without writing when the stored cell
// is already field-identical, so callers can skip redraw and history churn.
func (l *Layer) SetCell(cell GridCell) bool {
	if cur, ok := l.Cells[cell.Coord]; ok && cur.Equal(cell) {
		return false
	}
	l.Cells[cell.Coord] = cell
	return true
}

// RemoveCell deletes the cell at the given coordinate. Returns whether a
// cell was present.
func (l *Layer) RemoveCell(coord CellCoord) bool {
	if _, ok := l.Cells[coord]; !ok {
		return false
	}
	delete(l.Cells, coord)
	return true
}

// clone returns a deep copy of the layer.
func (l *Layer) clone() *Layer {
	cells := make(map[CellCoord]GridCell, len(l.Cells))
	for k, v := range l.Cells {
		cells[k] = v
	}
	return &Layer{
		Name:    l.Name,
		Visible: l.Visible,
		Shadow:  l.Shadow,
		Cells:   cells,
	}
}

// cellBounds returns the inclusive coordinate extents of the layer's filled
// cells. ok is false for an empty layer.
func (l *Layer) cellBounds() (minX, minY, maxX, maxY int, ok bool) {
	first := true
	for c := range l.Cells {
		if first {
			minX, maxX = c.X, c.X
			minY, maxY = c.Y, c.Y
			first = false
			continue
		}
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return minX, minY, maxX, maxY, !first
}
