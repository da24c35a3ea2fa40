package aspen

// BorderStyle configures the strip renderer that traces the outline of
// filled cell regions.
type BorderStyle struct {
	Enabled bool `json:"enabled"`
	// ThicknessCells is the strip thickness as a fraction of the cell size.
	// Zero disables the strips.
	ThicknessCells float64 `json:"thicknessCells"`
}

func defaultBorderStyle() BorderStyle {
	return BorderStyle{Enabled: true, ThicknessCells: 0.12}
}

// BorderStrip is one fixed-thickness rectangle stamped inside an empty
// neighbor along the edge it shares with a filled cell, tinted with the
// source cell's border color.
type BorderStrip struct {
	Source   CellCoord
	Neighbor CellCoord
	Rect     Rect
	Color    Color
}

var axialOffsets = [4]CellCoord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// BorderStrips computes the strip set for one layer: every filled cell
// contributes a strip into each of its 4 axial empty neighbors, hugging the
// shared edge from the neighbor's side. Unlike the shadow caster there is no
// offset or angle geometry, so strips never need clipping.
//
// bounds, when non-nil, restricts synthesis to source cells near it. Pass
// nil for the full extent.
func BorderStrips(l *Layer, style BorderStyle, cellSize float64, bounds *Rect) []BorderStrip {
	if !style.Enabled || style.ThicknessCells <= 0 {
		return nil
	}
	t := style.ThicknessCells * cellSize

	var clip Rect
	useClip := bounds != nil
	if useClip {
		pad := cellSize + t
		clip = Rect{
			X:      bounds.X - pad,
			Y:      bounds.Y - pad,
			Width:  bounds.Width + 2*pad,
			Height: bounds.Height + 2*pad,
		}
	}

	var strips []BorderStrip
	for coord, cell := range l.Cells {
		x0 := float64(coord.X) * cellSize
		y0 := float64(coord.Y) * cellSize

		if useClip && !clip.Intersects(Rect{X: x0, Y: y0, Width: cellSize, Height: cellSize}) {
			continue
		}

		for _, d := range axialOffsets {
			n := CellCoord{X: coord.X + d.X, Y: coord.Y + d.Y}
			if l.Filled(n) {
				continue
			}

			var r Rect
			switch {
			case d.X == 1:
				r = Rect{X: x0 + cellSize, Y: y0, Width: t, Height: cellSize}
			case d.X == -1:
				r = Rect{X: x0 - t, Y: y0, Width: t, Height: cellSize}
			case d.Y == 1:
				r = Rect{X: x0, Y: y0 + cellSize, Width: cellSize, Height: t}
			default:
				r = Rect{X: x0, Y: y0 - t, Width: cellSize, Height: t}
			}

			strips = append(strips, BorderStrip{
				Source:   coord,
				Neighbor: n,
				Rect:     r,
				Color:    cell.Border,
			})
		}
	}
	return strips
}
