package aspen

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// AssetState tracks the lifecycle of an asset handle. Failure is terminal:
// a failed handle renders as the placeholder forever.
type AssetState uint8

const (
	AssetPending AssetState = iota // requested, pixels not yet delivered
	AssetReady                     // pixels available
	AssetFailed                    // decode failed permanently
)

// AssetHandle is an opaque, pool-owned reference to an external image
// resource, keyed by its stable source identifier. Entities store the
// identifier; handles are shared through the pool and never copied.
type AssetHandle struct {
	ref      string
	state    AssetState
	img      *ebiten.Image
	naturalW float64
	naturalH float64
}

// SourceRef returns the stable source identifier this handle was resolved
// from.
func (h *AssetHandle) SourceRef() string {
	return h.ref
}

// Ready reports whether pixels have been delivered.
func (h *AssetHandle) Ready() bool {
	return h.state == AssetReady
}

// Failed reports whether the resolve failed. Failed handles never recover.
func (h *AssetHandle) Failed() bool {
	return h.state == AssetFailed
}

// NaturalSize returns the asset's natural pixel dimensions once ready. An
// unready or failed handle reports one BaseCellSize square so dependent
// sizing stays sensible before delivery.
func (h *AssetHandle) NaturalSize() (w, hgt float64) {
	if h.state == AssetReady {
		return h.naturalW, h.naturalH
	}
	return BaseCellSize, BaseCellSize
}

// Image returns the drawable image: the delivered pixels when ready, the
// flat placeholder otherwise.
func (h *AssetHandle) Image() *ebiten.Image {
	if h.state == AssetReady {
		return h.img
	}
	return ensurePlaceholderImage()
}

// placeholder singleton, created lazily on the engine thread
var placeholderImage *ebiten.Image

// ensurePlaceholderImage returns the shared 1×1 magenta image drawn in place
// of unready or failed assets.
func ensurePlaceholderImage() *ebiten.Image {
	if placeholderImage == nil {
		placeholderImage = ebiten.NewImage(1, 1)
		placeholderImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return placeholderImage
}

// AssetPool resolves source identifiers into shared handles. Resolution is
// the engine's only asynchronous edge: Resolve returns a pending handle
// immediately and invokes the request hook; the host decodes however it
// likes and re-enters through Deliver on the engine thread.
type AssetPool struct {
	handles map[string]*AssetHandle

	// request is invoked once per unknown ref to kick off host-side
	// decoding. May be nil, in which case handles stay pending until
	// Deliver is called.
	request func(ref string)

	// onChange fires after every delivery so the owner can schedule one
	// redraw.
	onChange func()
}

// NewAssetPool creates a pool with the given request hook.
func NewAssetPool(request func(ref string)) *AssetPool {
	return &AssetPool{
		handles: make(map[string]*AssetHandle),
		request: request,
	}
}

// SetOnChange installs the delivery notification hook.
func (p *AssetPool) SetOnChange(fn func()) {
	p.onChange = fn
}

// Resolve returns the shared handle for a source identifier, creating a
// pending one (and invoking the request hook) on first sight. An empty ref
// resolves to nil.
func (p *AssetPool) Resolve(ref string) *AssetHandle {
	if ref == "" {
		return nil
	}
	if h, ok := p.handles[ref]; ok {
		return h
	}
	h := &AssetHandle{ref: ref, state: AssetPending}
	p.handles[ref] = h
	if p.request != nil {
		p.request(ref)
	}
	return h
}

// Deliver completes a resolve with decoded pixels or a permanent failure.
// Delivery for an unknown ref creates the handle (the host may decode ahead
// of use). Handles that already completed are left untouched.
func (p *AssetPool) Deliver(ref string, img *ebiten.Image, err error) {
	if ref == "" {
		return
	}
	h, ok := p.handles[ref]
	if !ok {
		h = &AssetHandle{ref: ref, state: AssetPending}
		p.handles[ref] = h
	}
	if h.state != AssetPending {
		return
	}

	if err != nil || img == nil {
		h.state = AssetFailed
		if err != nil {
			fmt.Fprintf(os.Stderr, "[aspen] asset %s: %v\n", ref, err)
		}
	} else {
		b := img.Bounds()
		h.state = AssetReady
		h.img = img
		h.naturalW = float64(b.Dx())
		h.naturalH = float64(b.Dy())
	}

	if p.onChange != nil {
		p.onChange()
	}
}

// Pending returns the number of handles still awaiting delivery.
func (p *AssetPool) Pending() int {
	n := 0
	for _, h := range p.handles {
		if h.state == AssetPending {
			n++
		}
	}
	return n
}
