// editor is an interactive aspen session: draw cells, scatter marks, place
// crates, select and drag groups around, undo, and export the map to a PNG.
//
// Keys: 1-6 pick a tool (select, draw, erase, stroke, place, pan),
// Z/Y undo/redo, C/V copy/paste, X delete, F focus the content,
// S saves aspen-demo.json, L loads it back, E exports aspen-demo.png.
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/aspen"
)

const (
	screenW = 1280
	screenH = 720

	saveFile   = "aspen-demo.json"
	exportFile = "aspen-demo.png"
)

// makeTile procedurally builds a checkered tile texture so the demo needs no
// asset files on disk.
func makeTile(size int, a, b color.RGBA) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(a)
	quad := ebiten.NewImage(size/2, size/2)
	quad.Fill(b)
	var op ebiten.DrawImageOptions
	img.DrawImage(quad, &op)
	op.GeoM.Translate(float64(size/2), float64(size/2))
	img.DrawImage(quad, &op)
	return img
}

type game struct {
	editor   *aspen.Editor
	renderer *aspen.Renderer

	prevMouse bool
	prevWheel float64
	prevKeys  map[ebiten.Key]bool
}

func newGame() *game {
	e := aspen.NewEditor(aspen.Config{})

	// Deliver the demo textures up front; a real host would decode files in
	// response to the RequestAsset hook.
	e.Assets().Deliver("tiles/stone", makeTile(32,
		color.RGBA{R: 140, G: 140, B: 148, A: 255},
		color.RGBA{R: 115, G: 115, B: 128, A: 255}), nil)
	e.Assets().Deliver("props/crate", makeTile(32,
		color.RGBA{R: 153, G: 115, B: 64, A: 255},
		color.RGBA{R: 128, G: 90, B: 51, A: 255}), nil)

	e.SetGridAssets([]string{"tiles/stone"})
	e.SetObjectAsset("props/crate")
	e.SetLayerShadow(0, aspen.ShadowConfig{
		Enabled:      true,
		AngleDegrees: 135,
		OffsetCells:  0.35,
		Color:        aspen.Color{A: 0.3},
	})

	return &game{
		editor:   e,
		renderer: aspen.NewRenderer(),
		prevKeys: make(map[ebiten.Key]bool),
	}
}

func (g *game) pressed(k ebiten.Key) bool {
	now := ebiten.IsKeyPressed(k)
	was := g.prevKeys[k]
	g.prevKeys[k] = now
	return now && !was
}

func (g *game) Update() error {
	e := g.editor

	switch {
	case g.pressed(ebiten.Key1):
		e.SetTool(aspen.ToolSelect)
	case g.pressed(ebiten.Key2):
		e.SetTool(aspen.ToolDraw)
	case g.pressed(ebiten.Key3):
		e.SetTool(aspen.ToolErase)
	case g.pressed(ebiten.Key4):
		e.SetTool(aspen.ToolStroke)
	case g.pressed(ebiten.Key5):
		e.SetTool(aspen.ToolPlace)
	case g.pressed(ebiten.Key6):
		e.SetTool(aspen.ToolPan)
	case g.pressed(ebiten.KeyZ):
		e.Undo()
	case g.pressed(ebiten.KeyY):
		e.Redo()
	case g.pressed(ebiten.KeyX):
		e.DeleteSelection()
	case g.pressed(ebiten.KeyC):
		e.CopySelection()
	case g.pressed(ebiten.KeyV):
		x, y := ebiten.CursorPosition()
		e.PasteAt(e.View().ScreenToWorld(aspen.Vec2{X: float64(x), Y: float64(y)}))
	case g.pressed(ebiten.KeyF):
		if bounds, ok := e.ContentBounds(); ok {
			e.FocusOn(bounds, screenW, screenH, 0.4)
		}
	case g.pressed(ebiten.KeyEscape):
		e.Cancel()
		e.ClearSelection()
	case g.pressed(ebiten.KeyS):
		g.save()
	case g.pressed(ebiten.KeyL):
		g.load()
	case g.pressed(ebiten.KeyE):
		g.export()
	}

	x, y := ebiten.CursorPosition()
	cursor := aspen.Vec2{X: float64(x), Y: float64(y)}

	mouse := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case mouse && !g.prevMouse:
		e.PointerDown(cursor)
	case mouse:
		e.PointerMove(cursor)
	case g.prevMouse:
		e.PointerUp(cursor)
	}
	g.prevMouse = mouse

	if _, dy := ebiten.Wheel(); dy != 0 {
		e.Wheel(cursor, dy)
	}

	e.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) save() {
	data, err := g.editor.Save()
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	if err := os.WriteFile(saveFile, data, 0o644); err != nil {
		log.Printf("save: %v", err)
	}
}

func (g *game) load() {
	data, err := os.ReadFile(saveFile)
	if err != nil {
		log.Printf("load: %v", err)
		return
	}
	if err := g.editor.Load(data); err != nil {
		log.Printf("load: %v", err)
	}
}

func (g *game) export() {
	f, err := os.Create(exportFile)
	if err != nil {
		log.Printf("export: %v", err)
		return
	}
	defer f.Close()
	if err := g.editor.ExportPNG(f, aspen.ExportOptions{PixelsPerCell: 64, MaxDim: 4096}); err != nil {
		log.Printf("export: %v", err)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.editor.ConsumeRedraw()
	g.renderer.DrawFrame(screen, g.editor)
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s\n1-6 tools | Z/Y undo/redo | C/V copy/paste | X delete | F focus | S/L save/load | E export",
		g.editor.Stats()))
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Aspen Scene Editor")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
