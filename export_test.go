package aspen

import (
	"image"
	"testing"
)

func TestExtentView_PadsOneCell(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{0, 0})

	view, w, h, ok := ExtentView(e, 32)
	if !ok {
		t.Fatal("ExtentView failed on a non-empty scene")
	}
	// Content is one cell at the origin; one padding cell on every side.
	if w != 96 || h != 96 {
		t.Errorf("extent = %dx%d, want 96x96", w, h)
	}
	if !approxEqual(view.Scale, 1, testEps) {
		t.Errorf("scale = %v, want 1", view.Scale)
	}
	if !vecApproxEqual(view.Offset, Vec2{32, 32}, testEps) {
		t.Errorf("offset = %v, want {32 32}", view.Offset)
	}

	// The padded top-left corner maps to the image origin.
	if got := view.WorldToScreen(Vec2{-32, -32}); !vecApproxEqual(got, Vec2{0, 0}, testEps) {
		t.Errorf("padded corner maps to %v, want {0 0}", got)
	}
}

func TestExtentView_ResolutionScales(t *testing.T) {
	e := newTestEditor()
	e.DrawCell(CellCoord{0, 0})

	view, w, h, ok := ExtentView(e, 16)
	if !ok {
		t.Fatal("ExtentView failed")
	}
	if w != 48 || h != 48 {
		t.Errorf("extent at half resolution = %dx%d, want 48x48", w, h)
	}
	if !approxEqual(view.Scale, 0.5, testEps) {
		t.Errorf("scale = %v, want 0.5", view.Scale)
	}
}

func TestExtentView_EmptyScene(t *testing.T) {
	e := newTestEditor()
	if _, _, _, ok := ExtentView(e, 32); ok {
		t.Error("ExtentView succeeded on an empty scene")
	}
	e.DrawCell(CellCoord{0, 0})
	if _, _, _, ok := ExtentView(e, 0); ok {
		t.Error("ExtentView accepted a non-positive resolution")
	}
}

func TestExtentView_MarkInflatesByRadius(t *testing.T) {
	e := newTestEditor()
	e.Scene().AddMark(FreeformMark{Position: Vec2{0, 0}, Radius: 10})

	_, w, h, ok := ExtentView(e, 32)
	if !ok {
		t.Fatal("ExtentView failed")
	}
	// 20 world units of content plus 32 of padding each side.
	if w != 84 || h != 84 {
		t.Errorf("extent = %dx%d, want 84x84", w, h)
	}
}

func TestExportImage_EmptyScene(t *testing.T) {
	e := newTestEditor()
	if _, err := e.ExportImage(ExportOptions{}); err != ErrNothingToExport {
		t.Errorf("ExportImage on empty scene = %v, want ErrNothingToExport", err)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 32, 128, // half-transparent
		10, 20, 30, 255, // opaque passes through
		0, 0, 0, 0, // fully transparent passes through
	}
	img := unpremultiply(pixels, 3, 1)

	want := []byte{
		255, 127, 63, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], b)
		}
	}
}

func TestDownscale(t *testing.T) {
	wide := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	got := downscale(wide, 50)
	if b := got.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("wide downscale = %dx%d, want 50x25", b.Dx(), b.Dy())
	}

	tall := image.NewNRGBA(image.Rect(0, 0, 50, 100))
	got = downscale(tall, 50)
	if b := got.Bounds(); b.Dx() != 25 || b.Dy() != 50 {
		t.Errorf("tall downscale = %dx%d, want 25x50", b.Dx(), b.Dy())
	}
}
