package aspen

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toNRGBA converts the color to 8-bit straight-alpha form, clamping each
// component to [0, 1].
func (c Color) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WhitePixel is a 1x1 white image used for solid color fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toNRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// CellCoord identifies one lattice square by its integer grid indices.
// It is comparable and is used directly as the cell map key within a layer.
type CellCoord struct {
	X, Y int
}

// FillMode discriminates how a grid cell is filled.
type FillMode uint8

const (
	FillColor    FillMode = iota // flat color fill
	FillTextured                 // image fill resolved from AssetRef
)

// CellFill is the fill half of a cell's style: either a flat color or a
// texture referenced by its source identifier. AssetRef is meaningful only
// when Mode is FillTextured; Color only when Mode is FillColor.
type CellFill struct {
	Mode     FillMode
	Color    Color
	AssetRef string
}

// Equal reports field-by-field equality, honoring the mode tag: the inactive
// half of the union does not participate.
func (f CellFill) Equal(other CellFill) bool {
	if f.Mode != other.Mode {
		return false
	}
	if f.Mode == FillTextured {
		return f.AssetRef == other.AssetRef
	}
	return f.Color == other.Color
}

// CellStyle bundles the fill and border color applied by a grid-draw.
type CellStyle struct {
	Fill   CellFill
	Border Color
}

// MarkStyle bundles the defaults applied to new freeform marks.
type MarkStyle struct {
	Radius   float64 `json:"radius"`
	Fill     Color   `json:"fill"`
	Stroke   Color   `json:"stroke"`
	AssetRef string  `json:"assetRef,omitempty"`
}

// Tool selects how pointer gestures are interpreted by the editor.
type Tool uint8

const (
	ToolSelect Tool = iota // click/drag selection and group move
	ToolDraw               // paint grid cells on the active layer
	ToolErase              // remove cells, marks, and objects under the pointer
	ToolStroke             // emit period-gated freeform marks along the drag path
	ToolPlace              // place an object on click
	ToolPan                // drag the view
)

// BaseCellSize is the reference cell size in pixels. Placed objects derive
// their world size from their asset's natural pixel size scaled by
// cellSize/BaseCellSize, so object size tracks the grid's logical scale
// rather than the live render scale.
const BaseCellSize = 32.0

// nextEntityID hands out ids for marks and objects. Single-threaded, so
// no atomic counter.
var nextEntityID int64 = 1

func newEntityID() int64 {
	id := nextEntityID
	nextEntityID++
	return id
}

// noteEntityID raises the id counter past an externally supplied id so that
// entities restored from a snapshot never collide with freshly created ones.
func noteEntityID(id int64) {
	if id >= nextEntityID {
		nextEntityID = id + 1
	}
}
