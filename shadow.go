package aspen

import "math"

// shadowDirEps is the threshold on dot(neighborDir, castOffset) below which
// a neighbor is considered to face away from the cast direction.
const shadowDirEps = 1e-9

// neighborOffsets enumerates the 8 cells around a source cell.
var neighborOffsets = [8]CellCoord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ShadowFragment is one quadrilateral of synthesized shadow cast from a
// filled source cell into one empty neighbor, already clipped to the
// neighbor's cell square. Points holds 3 to 8 vertices in winding order.
type ShadowFragment struct {
	Source   CellCoord
	Neighbor CellCoord
	Points   []Vec2
}

// shadowOffset returns the world-space cast vector for a config, and whether
// it is long enough to produce any shadow at all.
func shadowOffset(cfg ShadowConfig, cellSize float64) (Vec2, bool) {
	a := cfg.AngleDegrees * math.Pi / 180
	sin, cos := math.Sincos(a)
	v := Vec2{
		X: cos * cfg.OffsetCells * cellSize,
		Y: sin * cfg.OffsetCells * cellSize,
	}
	if math.Abs(v.X) < shadowDirEps && math.Abs(v.Y) < shadowDirEps {
		return Vec2{}, false
	}
	return v, true
}

// ShadowFragments synthesizes the directional shadow geometry for one
// layer's filled cells. For every filled cell and each of its 8 empty
// neighbors that the cast offset points toward, it emits one fragment: a
// parallelogram sliver spanning the shared edge for axial neighbors, or the
// small quad anchored at the shared corner for diagonal neighbors, clipped
// to the neighbor's square so no shadow bleeds past the immediate neighbor.
// Corner quads are emitted only at convex silhouette corners, where both
// cells flanking the shared corner are empty; when one flanking cell is
// filled its own edge sweep owns that region. At axis-aligned angles the
// corner quads collapse to zero height and paint nothing, but they remain
// in the returned list.
//
// bounds, when non-nil, restricts synthesis to source cells whose square
// intersects it (inflated internally by the cast distance so casters just
// outside still contribute). Pass nil for the full extent.
func ShadowFragments(l *Layer, cellSize float64, bounds *Rect) []ShadowFragment {
	cfg := l.Shadow
	if !cfg.Enabled {
		return nil
	}
	vo, ok := shadowOffset(cfg, cellSize)
	if !ok {
		return nil
	}

	var clip Rect
	useClip := bounds != nil
	if useClip {
		// Inflate by one cell plus the cast length so border-adjacent
		// casters are not lost.
		pad := cellSize + math.Max(math.Abs(vo.X), math.Abs(vo.Y))
		clip = Rect{
			X:      bounds.X - pad,
			Y:      bounds.Y - pad,
			Width:  bounds.Width + 2*pad,
			Height: bounds.Height + 2*pad,
		}
	}

	var frags []ShadowFragment
	for coord := range l.Cells {
		x0 := float64(coord.X) * cellSize
		y0 := float64(coord.Y) * cellSize
		x1 := x0 + cellSize
		y1 := y0 + cellSize

		if useClip && !clip.Intersects(Rect{X: x0, Y: y0, Width: cellSize, Height: cellSize}) {
			continue
		}

		for _, d := range neighborOffsets {
			// Only cast toward neighbors the offset points at.
			if float64(d.X)*vo.X+float64(d.Y)*vo.Y <= shadowDirEps {
				continue
			}
			n := CellCoord{X: coord.X + d.X, Y: coord.Y + d.Y}
			if l.Filled(n) {
				continue
			}

			var quad [4]Vec2
			if d.X == 0 || d.Y == 0 {
				// Axial: sweep the shared edge by the offset.
				var e0, e1 Vec2
				switch {
				case d.X == 1:
					e0, e1 = Vec2{x1, y0}, Vec2{x1, y1}
				case d.X == -1:
					e0, e1 = Vec2{x0, y0}, Vec2{x0, y1}
				case d.Y == 1:
					e0, e1 = Vec2{x0, y1}, Vec2{x1, y1}
				default:
					e0, e1 = Vec2{x0, y0}, Vec2{x1, y0}
				}
				quad = [4]Vec2{
					e0,
					e1,
					{e1.X + vo.X, e1.Y + vo.Y},
					{e0.X + vo.X, e0.Y + vo.Y},
				}
			} else {
				// Diagonal: only convex silhouette corners cast; a filled
				// flanking cell sweeps the corner region itself.
				if l.Filled(CellCoord{X: coord.X + d.X, Y: coord.Y}) ||
					l.Filled(CellCoord{X: coord.X, Y: coord.Y + d.Y}) {
					continue
				}
				// The rectangle spanned by the offset from the single
				// shared corner.
				var k Vec2
				if d.X == 1 {
					k.X = x1
				} else {
					k.X = x0
				}
				if d.Y == 1 {
					k.Y = y1
				} else {
					k.Y = y0
				}
				quad = [4]Vec2{
					k,
					{k.X + vo.X, k.Y},
					{k.X + vo.X, k.Y + vo.Y},
					{k.X, k.Y + vo.Y},
				}
			}

			nRect := Rect{
				X:      float64(n.X) * cellSize,
				Y:      float64(n.Y) * cellSize,
				Width:  cellSize,
				Height: cellSize,
			}
			pts := clipPolyRect(quad[:], nRect)
			if len(pts) < 3 {
				continue
			}
			frags = append(frags, ShadowFragment{
				Source:   coord,
				Neighbor: n,
				Points:   pts,
			})
		}
	}
	return frags
}

// clipPolyRect clips a convex polygon to an axis-aligned rectangle using
// successive half-plane clips. Returns the clipped vertices (possibly empty)
// in the input winding.
func clipPolyRect(points []Vec2, r Rect) []Vec2 {
	out := make([]Vec2, 0, len(points)+4)
	buf := make([]Vec2, 0, len(points)+4)
	out = append(out, points...)

	// inside predicates and edge-intersection parameters for each side.
	clipEdge := func(in []Vec2, out []Vec2, inside func(Vec2) bool, cross func(a, b Vec2) Vec2) []Vec2 {
		out = out[:0]
		n := len(in)
		for i := 0; i < n; i++ {
			cur := in[i]
			prev := in[(i+n-1)%n]
			curIn := inside(cur)
			prevIn := inside(prev)
			switch {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn && !prevIn:
				out = append(out, cross(prev, cur), cur)
			case !curIn && prevIn:
				out = append(out, cross(prev, cur))
			}
		}
		return out
	}

	left, right := r.X, r.X+r.Width
	top, bottom := r.Y, r.Y+r.Height

	atX := func(a, b Vec2, x float64) Vec2 {
		t := (x - a.X) / (b.X - a.X)
		return Vec2{X: x, Y: a.Y + (b.Y-a.Y)*t}
	}
	atY := func(a, b Vec2, y float64) Vec2 {
		t := (y - a.Y) / (b.Y - a.Y)
		return Vec2{X: a.X + (b.X-a.X)*t, Y: y}
	}

	buf = clipEdge(out, buf, func(p Vec2) bool { return p.X >= left }, func(a, b Vec2) Vec2 { return atX(a, b, left) })
	if len(buf) == 0 {
		return nil
	}
	out = clipEdge(buf, out[:0], func(p Vec2) bool { return p.X <= right }, func(a, b Vec2) Vec2 { return atX(a, b, right) })
	if len(out) == 0 {
		return nil
	}
	buf = clipEdge(out, buf[:0], func(p Vec2) bool { return p.Y >= top }, func(a, b Vec2) Vec2 { return atY(a, b, top) })
	if len(buf) == 0 {
		return nil
	}
	out = clipEdge(buf, out[:0], func(p Vec2) bool { return p.Y <= bottom }, func(a, b Vec2) Vec2 { return atY(a, b, bottom) })
	if len(out) < 3 {
		return nil
	}
	return out
}
