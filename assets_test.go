package aspen

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestAssetPool_ResolveCreatesPending(t *testing.T) {
	var requested []string
	p := NewAssetPool(func(ref string) { requested = append(requested, ref) })

	h := p.Resolve("tiles/grass")
	if h == nil {
		t.Fatal("Resolve returned nil for a real ref")
	}
	if h.Ready() || h.Failed() {
		t.Error("fresh handle is not pending")
	}
	if h.SourceRef() != "tiles/grass" {
		t.Errorf("SourceRef = %q, want %q", h.SourceRef(), "tiles/grass")
	}
	if len(requested) != 1 || requested[0] != "tiles/grass" {
		t.Errorf("request hook calls = %v, want one for tiles/grass", requested)
	}
}

func TestAssetPool_ResolveIsIdempotent(t *testing.T) {
	requests := 0
	p := NewAssetPool(func(string) { requests++ })

	a := p.Resolve("tiles/grass")
	b := p.Resolve("tiles/grass")
	if a != b {
		t.Error("second resolve returned a different handle")
	}
	if requests != 1 {
		t.Errorf("request hook fired %d times, want 1", requests)
	}
}

func TestAssetPool_ResolveEmptyRef(t *testing.T) {
	p := NewAssetPool(nil)
	if h := p.Resolve(""); h != nil {
		t.Errorf("Resolve(\"\") = %v, want nil", h)
	}
}

func TestAssetPool_DeliverReady(t *testing.T) {
	p := NewAssetPool(nil)
	h := p.Resolve("tiles/grass")

	changed := 0
	p.SetOnChange(func() { changed++ })

	img := ebiten.NewImage(48, 24)
	p.Deliver("tiles/grass", img, nil)

	if !h.Ready() {
		t.Fatal("handle not ready after delivery")
	}
	w, hgt := h.NaturalSize()
	if w != 48 || hgt != 24 {
		t.Errorf("NaturalSize = %gx%g, want 48x24", w, hgt)
	}
	if h.Image() != img {
		t.Error("Image does not return the delivered pixels")
	}
	if changed != 1 {
		t.Errorf("onChange fired %d times, want 1", changed)
	}
	if p.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", p.Pending())
	}
}

func TestAssetPool_DeliverFailureIsPermanent(t *testing.T) {
	p := NewAssetPool(nil)
	h := p.Resolve("tiles/bad")

	p.Deliver("tiles/bad", nil, errors.New("decode failed"))
	if !h.Failed() {
		t.Fatal("handle not failed after error delivery")
	}

	// A later successful delivery must not resurrect the handle.
	p.Deliver("tiles/bad", ebiten.NewImage(8, 8), nil)
	if !h.Failed() || h.Ready() {
		t.Error("failed handle recovered on re-delivery")
	}
}

func TestAssetPool_DeliverAheadOfResolve(t *testing.T) {
	p := NewAssetPool(nil)
	p.Deliver("tiles/early", ebiten.NewImage(16, 16), nil)

	h := p.Resolve("tiles/early")
	if !h.Ready() {
		t.Error("pre-delivered ref resolved to a non-ready handle")
	}
}

func TestAssetHandle_PlaceholderBeforeDelivery(t *testing.T) {
	p := NewAssetPool(nil)
	h := p.Resolve("tiles/slow")

	if h.Image() != ensurePlaceholderImage() {
		t.Error("pending handle does not draw the placeholder")
	}
	w, hgt := h.NaturalSize()
	if w != BaseCellSize || hgt != BaseCellSize {
		t.Errorf("pending NaturalSize = %gx%g, want the one-cell fallback", w, hgt)
	}
}

func TestAssetPool_PendingCount(t *testing.T) {
	p := NewAssetPool(nil)
	p.Resolve("a")
	p.Resolve("b")
	p.Resolve("c")
	p.Deliver("b", ebiten.NewImage(4, 4), nil)

	if got := p.Pending(); got != 2 {
		t.Errorf("Pending = %d, want 2", got)
	}
}

func TestEditor_AssetDeliveryRequestsRedraw(t *testing.T) {
	e := newTestEditor()
	e.SetObjectAsset("props/crate")
	e.ConsumeRedraw()

	events := 0
	e.On(EventAssets, func(Event) { events++ })

	e.Assets().Deliver("props/crate", ebiten.NewImage(32, 32), nil)

	if !e.ConsumeRedraw() {
		t.Error("delivery did not schedule a redraw")
	}
	if events != 1 {
		t.Errorf("EventAssets fired %d times, want 1", events)
	}
}
