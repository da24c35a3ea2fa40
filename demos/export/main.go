// export builds a small courtyard map in code and writes it out as a PNG,
// showing the headless render path: draw a frame so the scene is visible,
// then read the full content extent back at print resolution.
package main

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/aspen"
)

const (
	screenW = 960
	screenH = 540
	outFile = "courtyard.png"
)

func buildCourtyard() *aspen.Editor {
	e := aspen.NewEditor(aspen.Config{})
	e.SetLayerShadow(0, aspen.ShadowConfig{
		Enabled:      true,
		AngleDegrees: 120,
		OffsetCells:  0.4,
		Color:        aspen.Color{A: 0.35},
	})

	// A walled courtyard: a ring of cells with an opening on the south side.
	for x := 0; x < 12; x++ {
		for y := 0; y < 8; y++ {
			onWall := x == 0 || x == 11 || y == 0 || y == 7
			gate := y == 7 && x >= 5 && x <= 6
			if onWall && !gate {
				e.DrawCell(aspen.CellCoord{X: x, Y: y})
			}
		}
	}

	// A well in the middle and a path of marks leading out the gate.
	e.Scene().AddObject(aspen.PlacedObject{
		Position: aspen.Vec2{X: 6 * 32, Y: 3.5 * 32},
		Width:    48,
		Height:   48,
		Rotation: 0.2,
	})
	for i := 0; i < 6; i++ {
		e.Scene().AddMark(aspen.FreeformMark{
			Position: aspen.Vec2{X: 5.75 * 32, Y: (4.2 + 0.6*float64(i)) * 32},
			Radius:   4,
			Fill:     aspen.Color{R: 0.35, G: 0.3, B: 0.25, A: 1},
			Stroke:   aspen.Color{R: 0.35, G: 0.3, B: 0.25, A: 0.4},
		})
	}
	e.Record()
	return e
}

type game struct {
	editor   *aspen.Editor
	renderer *aspen.Renderer
	frame    int
}

func (g *game) Update() error {
	g.frame++
	if g.frame >= 2 {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := g.editor.ExportPNG(f, aspen.ExportOptions{PixelsPerCell: 64}); err != nil {
			return err
		}
		log.Printf("wrote %s", outFile)
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.DrawFrame(screen, g.editor)
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	e := buildCourtyard()
	if bounds, ok := e.ContentBounds(); ok {
		e.FocusOn(bounds, screenW, screenH, 0)
	}

	if err := ebiten.RunGame(&game{editor: e, renderer: aspen.NewRenderer()}); err != nil {
		log.Fatal(err)
	}
}
