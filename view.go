package aspen

import "math"

// ViewState controls the view into the scene: screen-space pan offset, zoom
// scale, and the size of one grid cell in world units.
//
// The mapping is a uniform scale plus translation:
//
//	screen = world*Scale + Offset
//	world  = (screen - Offset) / Scale
type ViewState struct {
	// Offset is the screen-space translation applied after scaling.
	Offset Vec2
	// Scale is the zoom factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Scale float64
	// CellSize is the edge length of one grid cell in world units.
	CellSize float64

	// MinScale and MaxScale bound ZoomAtPoint. Requests outside the range
	// are rejected, never clamped into it.
	MinScale float64
	MaxScale float64
}

// newViewState returns a view with identity pan, unit zoom, and the given
// cell size and zoom bounds.
func newViewState(cellSize, minScale, maxScale float64) ViewState {
	return ViewState{
		Scale:    1.0,
		CellSize: cellSize,
		MinScale: minScale,
		MaxScale: maxScale,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *ViewState) WorldToScreen(p Vec2) Vec2 {
	return Vec2{
		X: p.X*v.Scale + v.Offset.X,
		Y: p.Y*v.Scale + v.Offset.Y,
	}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *ViewState) ScreenToWorld(p Vec2) Vec2 {
	return Vec2{
		X: (p.X - v.Offset.X) / v.Scale,
		Y: (p.Y - v.Offset.Y) / v.Scale,
	}
}

// ZoomAtPoint sets the zoom scale while keeping the world point under the
// given screen point visually stationary. A newScale outside
// [MinScale, MaxScale] is rejected and the view is left untouched; the
// return value reports whether the zoom was applied.
func (v *ViewState) ZoomAtPoint(screenPt Vec2, newScale float64) bool {
	if newScale < v.MinScale || newScale > v.MaxScale {
		return false
	}
	before := v.ScreenToWorld(screenPt)
	v.Scale = newScale
	v.Offset.X = screenPt.X - before.X*newScale
	v.Offset.Y = screenPt.Y - before.Y*newScale
	return true
}

// PanBy translates the view by a screen-space delta.
func (v *ViewState) PanBy(delta Vec2) {
	v.Offset.X += delta.X
	v.Offset.Y += delta.Y
}

// VisibleBounds returns the world-space rectangle covered by a viewport of
// the given pixel size under the current transform.
func (v *ViewState) VisibleBounds(viewportW, viewportH float64) Rect {
	tl := v.ScreenToWorld(Vec2{0, 0})
	br := v.ScreenToWorld(Vec2{viewportW, viewportH})
	return Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// CellAt returns the grid cell containing the given world point.
func (v *ViewState) CellAt(world Vec2) CellCoord {
	return CellCoord{
		X: int(math.Floor(world.X / v.CellSize)),
		Y: int(math.Floor(world.Y / v.CellSize)),
	}
}

// CellRect returns the world-space square occupied by the given cell.
func (v *ViewState) CellRect(c CellCoord) Rect {
	return Rect{
		X:      float64(c.X) * v.CellSize,
		Y:      float64(c.Y) * v.CellSize,
		Width:  v.CellSize,
		Height: v.CellSize,
	}
}

// CellCenter returns the world-space center of the given cell.
func (v *ViewState) CellCenter(c CellCoord) Vec2 {
	return Vec2{
		X: (float64(c.X) + 0.5) * v.CellSize,
		Y: (float64(c.Y) + 0.5) * v.CellSize,
	}
}
