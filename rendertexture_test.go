package aspen

import "testing"

func TestRenderTextureSize(t *testing.T) {
	rt := NewRenderTexture(64, 32)
	defer rt.Dispose()

	if rt.Width() != 64 || rt.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", rt.Width(), rt.Height())
	}
	b := rt.Image().Bounds()
	if b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("image bounds = %dx%d, want 64x32", b.Dx(), b.Dy())
	}
}

func TestRenderTextureEnsureSize(t *testing.T) {
	rt := NewRenderTexture(16, 16)
	defer rt.Dispose()

	img := rt.Image()
	rt.EnsureSize(16, 16)
	if rt.Image() != img {
		t.Error("EnsureSize reallocated at the same dimensions")
	}

	rt.EnsureSize(32, 48)
	if rt.Image() == img {
		t.Error("EnsureSize kept the old image after a resize")
	}
	if rt.Width() != 32 || rt.Height() != 48 {
		t.Errorf("size after EnsureSize = %dx%d, want 32x48", rt.Width(), rt.Height())
	}
}

func TestRenderTextureFillPolygonDegenerate(t *testing.T) {
	rt := NewRenderTexture(16, 16)
	defer rt.Dispose()

	// Fewer than 3 points must be ignored without drawing or panicking.
	rt.FillPolygon(nil, ColorWhite)
	rt.FillPolygon([]Vec2{{0, 0}, {8, 8}}, ColorWhite)
}

func TestRenderTextureFillPolygonGrowsScratch(t *testing.T) {
	rt := NewRenderTexture(16, 16)
	defer rt.Dispose()

	tri := []Vec2{{0, 0}, {16, 0}, {8, 16}}
	rt.FillPolygon(tri, Color{R: 1, A: 1})
	oct := []Vec2{{4, 0}, {12, 0}, {16, 4}, {16, 12}, {12, 16}, {4, 16}, {0, 12}, {0, 4}}
	rt.FillPolygon(oct, Color{G: 1, A: 1})

	if cap(rt.vertsBuf) < 8 {
		t.Errorf("vertex scratch cap = %d, want at least 8", cap(rt.vertsBuf))
	}
	if cap(rt.indsBuf) < 18 {
		t.Errorf("index scratch cap = %d, want at least 18", cap(rt.indsBuf))
	}
}

func TestRenderTextureDispose(t *testing.T) {
	rt := NewRenderTexture(8, 8)
	rt.Dispose()
	if rt.Image() != nil {
		t.Error("Image() non-nil after Dispose")
	}
}
