package aspen

import "github.com/hajimehoshi/ebiten/v2"

// RenderTexture is a persistent offscreen canvas owned by the caller. The
// shadow compositor accumulates fragments into one, and the exporter renders
// the full extent into one before reading pixels back.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int

	// Scratch buffers for polygon fills, grown to the high-water mark.
	vertsBuf []ebiten.Vertex
	indsBuf  []uint16
}

// NewRenderTexture creates an offscreen canvas of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for direct drawing.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Fill fills the entire texture with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.toNRGBA())
}

// EnsureSize reallocates the canvas when the requested dimensions differ
// from the current ones. Contents are undefined afterward; callers Clear or
// Fill before drawing.
func (rt *RenderTexture) EnsureSize(w, h int) {
	if w == rt.w && h == rt.h {
		return
	}
	if rt.image != nil {
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(w, h)
	rt.w = w
	rt.h = h
}

// FillPolygon fills a convex polygon, fan-triangulated over the shared
// white pixel with color applied per vertex. Fewer than 3 points is a no-op.
func (rt *RenderTexture) FillPolygon(points []Vec2, c Color) {
	n := len(points)
	if n < 3 {
		return
	}

	if cap(rt.vertsBuf) < n {
		rt.vertsBuf = make([]ebiten.Vertex, n)
	}
	verts := rt.vertsBuf[:n]

	numInds := (n - 2) * 3
	if cap(rt.indsBuf) < numInds {
		rt.indsBuf = make([]uint16, numInds)
	}
	inds := rt.indsBuf[:numInds]

	cr := float32(c.R)
	cg := float32(c.G)
	cb := float32(c.B)
	ca := float32(c.A)
	for i, p := range points {
		verts[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}

	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	rt.image.DrawTriangles(verts, inds, WhitePixel, &op)
}

// FillRect fills an axis-aligned rectangle with the given color.
func (rt *RenderTexture) FillRect(r Rect, c Color) {
	pts := [4]Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	rt.FillPolygon(pts[:], c)
}

// DrawImage draws src onto this texture using the provided options.
func (rt *RenderTexture) DrawImage(src *ebiten.Image, op *ebiten.DrawImageOptions) {
	rt.image.DrawImage(src, op)
}

// Dispose deallocates the underlying image. The RenderTexture must not be
// used afterward.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
	rt.vertsBuf = nil
	rt.indsBuf = nil
}
