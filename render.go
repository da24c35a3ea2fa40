package aspen

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// selectionAccent is the color of selection highlights and the rubber-band
// rectangle.
var selectionAccent = Color{R: 0.15, G: 0.55, B: 1, A: 1}

// highlightThickness is the selection outline thickness in screen pixels.
const highlightThickness = 2.0

// Renderer composites the scene onto a destination image. It owns reusable
// scratch resources: the offscreen buffer the shadow compositor accumulates
// into, and a cache of antialiased disc textures for freeform marks.
//
// The renderer is a pure projection of live editor state; drawing the same
// state twice produces the same output. One Renderer can serve both the
// interactive per-frame path and the full-extent export path.
type Renderer struct {
	shadowRT  *RenderTexture
	discCache map[int]*ebiten.Image // filled discs keyed by quantized radius
	imgOp     ebiten.DrawImageOptions
}

// NewRenderer creates a renderer with no scratch resources allocated yet;
// they are built lazily on first use.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// DrawFrame renders the interactive view of the editor onto screen: the
// visible portion of every layer with shadows and borders, the global marks
// and objects, the in-progress drag rectangle, and the selection highlights.
func (r *Renderer) DrawFrame(screen *ebiten.Image, e *Editor) {
	b := screen.Bounds()
	view := *e.View()
	bounds := view.VisibleBounds(float64(b.Dx()), float64(b.Dy()))
	r.renderScene(screen, e, view, bounds, true)
}

// exportPadCells pads the export extent around the content bounding box.
const exportPadCells = 1

// ExtentView computes the synthetic view and pixel dimensions covering the
// scene's content bounding box padded by one cell, at the given resolution.
// ok is false for an empty scene or a non-positive resolution.
func ExtentView(e *Editor, pixelsPerCell float64) (view ViewState, w, h int, ok bool) {
	if pixelsPerCell <= 0 {
		return ViewState{}, 0, 0, false
	}
	content, has := e.ContentBounds()
	if !has {
		return ViewState{}, 0, 0, false
	}
	cellSize := e.View().CellSize
	pad := float64(exportPadCells) * cellSize
	bounds := Rect{
		X:      content.X - pad,
		Y:      content.Y - pad,
		Width:  content.Width + 2*pad,
		Height: content.Height + 2*pad,
	}

	scale := pixelsPerCell / cellSize
	view = ViewState{
		Offset:   Vec2{X: -bounds.X * scale, Y: -bounds.Y * scale},
		Scale:    scale,
		CellSize: cellSize,
		MinScale: scale,
		MaxScale: scale,
	}
	w = int(math.Ceil(bounds.Width * scale))
	h = int(math.Ceil(bounds.Height * scale))
	return view, w, h, w > 0 && h > 0
}

// RenderExtent renders the full content extent onto dst through the same
// passes as DrawFrame, minus the interactive overlays (drag rectangle and
// selection highlights). dst should be sized per ExtentView. Reports whether
// anything was rendered.
func (r *Renderer) RenderExtent(dst *ebiten.Image, e *Editor, pixelsPerCell float64) bool {
	view, _, _, ok := ExtentView(e, pixelsPerCell)
	if !ok {
		return false
	}
	b := dst.Bounds()
	bounds := view.VisibleBounds(float64(b.Dx()), float64(b.Dy()))
	r.renderScene(dst, e, view, bounds, false)
	return true
}

// renderScene runs the draw passes in order: background, then per visible
// layer shadow → border → cells, then marks, objects, and (interactively)
// the drag rectangle and selection highlights. Every item is culled against
// bounds before drawing.
func (r *Renderer) renderScene(dst *ebiten.Image, e *Editor, view ViewState, bounds Rect, interactive bool) {
	scene := e.Scene()
	set := e.Settings()

	dst.Fill(set.EmptyCell.toNRGBA())

	for _, layer := range scene.Layers {
		if !layer.Visible {
			continue
		}
		r.drawShadow(dst, layer, view, bounds)
		r.drawBorder(dst, layer, set.Border, view, bounds)
		r.drawCells(dst, layer, e.Assets(), view, bounds)
	}

	r.drawMarks(dst, scene, e.Assets(), view, bounds)
	r.drawObjects(dst, scene, e.Assets(), view, bounds)

	if interactive {
		if rect, ok := e.DragRect(); ok {
			r.drawDragRect(dst, rect, view)
		}
		r.drawHighlights(dst, e, view, bounds)
	}
}

// --- Shadow pass ---

// drawShadow composites one layer's shadow. Fragments are painted at full
// opacity into the offscreen buffer and the configured alpha is applied once
// when the buffer lands on dst; blending fragments directly would
// double-darken where casts from different source cells overlap.
func (r *Renderer) drawShadow(dst *ebiten.Image, layer *Layer, view ViewState, bounds Rect) {
	frags := ShadowFragments(layer, view.CellSize, &bounds)
	if len(frags) == 0 {
		return
	}

	db := dst.Bounds()
	if r.shadowRT == nil {
		r.shadowRT = NewRenderTexture(db.Dx(), db.Dy())
	} else {
		r.shadowRT.EnsureSize(db.Dx(), db.Dy())
	}
	r.shadowRT.Clear()

	c := layer.Shadow.Color
	opaque := Color{R: c.R, G: c.G, B: c.B, A: 1}
	var pts [8]Vec2
	for _, f := range frags {
		n := len(f.Points)
		for i, p := range f.Points {
			pts[i] = view.WorldToScreen(p)
		}
		r.shadowRT.FillPolygon(pts[:n], opaque)
	}

	op := &r.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.ColorScale.ScaleAlpha(float32(clamp01(c.A)))
	op.Blend = ebiten.Blend{}
	dst.DrawImage(r.shadowRT.Image(), op)
}

// --- Border pass ---

func (r *Renderer) drawBorder(dst *ebiten.Image, layer *Layer, style BorderStyle, view ViewState, bounds Rect) {
	for _, strip := range BorderStrips(layer, style, view.CellSize, &bounds) {
		r.fillWorldRect(dst, strip.Rect, strip.Color, view)
	}
}

// --- Cell pass ---

func (r *Renderer) drawCells(dst *ebiten.Image, layer *Layer, pool *AssetPool, view ViewState, bounds Rect) {
	for coord, cell := range layer.Cells {
		rect := view.CellRect(coord)
		if !rect.Intersects(bounds) {
			continue
		}
		if cell.Fill.Mode == FillTextured {
			h := pool.Resolve(cell.Fill.AssetRef)
			if h != nil {
				r.drawImageInWorldRect(dst, h.Image(), rect, 0, view)
				continue
			}
		}
		r.fillWorldRect(dst, rect, cell.Fill.Color, view)
	}
}

// --- Mark pass ---

func (r *Renderer) drawMarks(dst *ebiten.Image, scene *Scene, pool *AssetPool, view ViewState, bounds Rect) {
	for i := range scene.Marks {
		m := &scene.Marks[i]
		rad := m.hitRadius(view.CellSize)
		box := Rect{X: m.Position.X - rad, Y: m.Position.Y - rad, Width: 2 * rad, Height: 2 * rad}
		if !box.Intersects(bounds) {
			continue
		}

		if m.AssetRef != "" {
			if h := pool.Resolve(m.AssetRef); h != nil {
				r.drawImageInWorldRect(dst, h.Image(), box, 0, view)
				continue
			}
		}

		center := view.WorldToScreen(m.Position)
		screenRad := rad * view.Scale
		r.drawDisc(dst, center, screenRad, m.Stroke)
		r.drawDisc(dst, center, screenRad*0.8, m.Fill)
	}
}

// --- Object pass ---

func (r *Renderer) drawObjects(dst *ebiten.Image, scene *Scene, pool *AssetPool, view ViewState, bounds Rect) {
	for i := range scene.Objects {
		o := &scene.Objects[i]
		box := o.AABB()
		if !box.Intersects(bounds) {
			continue
		}
		var img *ebiten.Image
		if h := pool.Resolve(o.AssetRef); h != nil {
			img = h.Image()
		} else {
			img = ensurePlaceholderImage()
		}
		r.drawImageInWorldRect(dst, img, box, o.Rotation, view)
	}
}

// --- Interactive overlays ---

func (r *Renderer) drawDragRect(dst *ebiten.Image, rect Rect, view ViewState) {
	fill := selectionAccent
	fill.A = 0.12
	r.fillWorldRect(dst, rect, fill, view)
	r.strokeWorldRect(dst, rect, highlightThickness, selectionAccent, view)
}

func (r *Renderer) drawHighlights(dst *ebiten.Image, e *Editor, view ViewState, bounds Rect) {
	sel := e.Selection()
	if sel.Empty() {
		return
	}
	c := selectionAccent
	c.A = e.PulseAlpha()
	scene := e.Scene()

	for coord := range sel.Cells {
		rect := view.CellRect(coord)
		if rect.Intersects(bounds) {
			r.strokeWorldRect(dst, rect, highlightThickness, c, view)
		}
	}
	for id := range sel.Marks {
		m := scene.MarkByID(id)
		if m == nil {
			continue
		}
		rad := m.hitRadius(view.CellSize)
		rect := Rect{X: m.Position.X - rad, Y: m.Position.Y - rad, Width: 2 * rad, Height: 2 * rad}
		if rect.Intersects(bounds) {
			r.strokeWorldRect(dst, rect, highlightThickness, c, view)
		}
	}
	for id := range sel.Objects {
		o := scene.ObjectByID(id)
		if o == nil {
			continue
		}
		rect := o.AABB()
		if rect.Intersects(bounds) {
			r.strokeWorldRect(dst, rect, highlightThickness, c, view)
		}
	}
}

// --- Primitive helpers ---

// fillWorldRect fills a world-space rectangle with a flat color.
func (r *Renderer) fillWorldRect(dst *ebiten.Image, rect Rect, c Color, view ViewState) {
	tl := view.WorldToScreen(Vec2{X: rect.X, Y: rect.Y})
	op := &r.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(rect.Width*view.Scale, rect.Height*view.Scale)
	op.GeoM.Translate(tl.X, tl.Y)
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(c.toNRGBA())
	op.Blend = ebiten.Blend{}
	dst.DrawImage(WhitePixel, op)
}

// strokeWorldRect outlines a world-space rectangle with a fixed screen-pixel
// thickness, so outlines stay crisp at any zoom.
func (r *Renderer) strokeWorldRect(dst *ebiten.Image, rect Rect, thickness float64, c Color, view ViewState) {
	tl := view.WorldToScreen(Vec2{X: rect.X, Y: rect.Y})
	w := rect.Width * view.Scale
	h := rect.Height * view.Scale
	t := thickness

	edges := [4]Rect{
		{X: tl.X - t, Y: tl.Y - t, Width: w + 2*t, Height: t}, // top
		{X: tl.X - t, Y: tl.Y + h, Width: w + 2*t, Height: t}, // bottom
		{X: tl.X - t, Y: tl.Y, Width: t, Height: h},           // left
		{X: tl.X + w, Y: tl.Y, Width: t, Height: h},           // right
	}
	op := &r.imgOp
	for _, edge := range edges {
		op.GeoM.Reset()
		op.GeoM.Scale(edge.Width, edge.Height)
		op.GeoM.Translate(edge.X, edge.Y)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(c.toNRGBA())
		op.Blend = ebiten.Blend{}
		dst.DrawImage(WhitePixel, op)
	}
}

// drawImageInWorldRect draws img stretched into a world-space rectangle,
// rotated by rotation radians about the rectangle's center.
func (r *Renderer) drawImageInWorldRect(dst *ebiten.Image, img *ebiten.Image, rect Rect, rotation float64, view ViewState) {
	ib := img.Bounds()
	iw, ih := float64(ib.Dx()), float64(ib.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	w := rect.Width * view.Scale
	h := rect.Height * view.Scale
	center := view.WorldToScreen(Vec2{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2})

	op := &r.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(w/iw, h/ih)
	op.GeoM.Translate(-w/2, -h/2)
	if rotation != 0 {
		op.GeoM.Rotate(rotation)
	}
	op.GeoM.Translate(center.X, center.Y)
	op.ColorScale.Reset()
	op.Blend = ebiten.Blend{}
	dst.DrawImage(img, op)
}

// drawDisc draws a filled antialiased disc centered at a screen point,
// tinted with c. Disc textures are cached by quantized radius, the same way
// the mark radius rarely varies within a document.
func (r *Renderer) drawDisc(dst *ebiten.Image, center Vec2, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	img := r.disc(radius)
	sz := float64(img.Bounds().Dx())
	d := radius * 2

	op := &r.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(d/sz, d/sz)
	op.GeoM.Translate(center.X-radius, center.Y-radius)
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(c.toNRGBA())
	op.Blend = ebiten.Blend{}
	dst.DrawImage(img, op)
}

// disc returns a cached white disc texture for the given radius, generating
// one on first use. Radius is quantized to the nearest integer so tiny
// differences share a texture.
func (r *Renderer) disc(radius float64) *ebiten.Image {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if r.discCache == nil {
		r.discCache = make(map[int]*ebiten.Image)
	}
	if img, ok := r.discCache[key]; ok {
		return img
	}
	img := generateDisc(float64(key))
	r.discCache[key] = img
	return img
}

// generateDisc creates a hard-edged white disc with a one-pixel antialiased
// rim, in premultiplied alpha.
func generateDisc(radius float64) *ebiten.Image {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			alpha := clamp01(radius - dist + 0.5)
			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a // premultiplied white
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// Dispose releases the renderer's scratch resources. The renderer must not
// be used afterward.
func (r *Renderer) Dispose() {
	if r.shadowRT != nil {
		r.shadowRT.Dispose()
		r.shadowRT = nil
	}
	for _, img := range r.discCache {
		img.Deallocate()
	}
	r.discCache = nil
}
