// Package aspen is an interactive 2D scene-editor engine for grid-based
// maps, built on [Ebitengine].
//
// Aspen maintains a layered scene of grid-aligned cells, freely positioned
// marks, and freely placed rectangular objects; it supports pan/zoom,
// drawing, erasing, rectangular and point selection, group
// move/rotate/resize/delete/copy/paste, bounded undo/redo, and a full-extent
// render pass for print-oriented export. It is an engine, not an
// application: control panels, file pickers, and page tiling belong to the
// host, which talks to aspen through the [Editor] facade, the asset pool,
// and snapshot bytes.
//
// # Quick start
//
// Create an editor, feed it pointer events, and draw it each frame:
//
//	type Game struct {
//		editor   *aspen.Editor
//		renderer *aspen.Renderer
//	}
//
//	func (g *Game) Update() error {
//		x, y := ebiten.CursorPosition()
//		p := aspen.Vec2{X: float64(x), Y: float64(y)}
//		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
//			g.editor.PointerDown(p)
//		}
//		g.editor.PointerMove(p)
//		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
//			g.editor.PointerUp(p)
//		}
//		g.editor.Step(1.0 / 60)
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.renderer.DrawFrame(screen, g.editor)
//	}
//
// # Scene model
//
// The document is a [Scene]: an ordered list of [Layer] values holding
// [GridCell] entries keyed by [CellCoord], plus global [FreeformMark] and
// [PlacedObject] slices whose order is the explicit z-order. At least one
// layer always exists. The active [Tool] decides how pointer gestures are
// interpreted; each completed gesture records at most one history entry.
//
// # History and persistence
//
// [Editor.Record] captures an immutable [Snapshot] into a bounded undo log;
// [Editor.Undo] and [Editor.Redo] walk it. [Editor.Save] and [Editor.Load]
// move the same snapshot format as JSON bytes, with asset references stored
// as source-identifier strings, never live handles.
//
// # Assets
//
// Image resources resolve through the [AssetPool]: entities hold stable
// source identifiers, the host decodes pixels however it likes, and delivers
// them with [AssetPool.Deliver]. Unready or failed assets render as a flat
// placeholder; a frame never fails because of a missing image.
//
// # Threading
//
// Aspen is single-threaded. Every method must be called from the
// engine (game loop) thread; asset delivery is the only asynchronous edge
// and re-enters through the pool on that same thread.
//
// [Ebitengine]: https://ebitengine.org
package aspen
