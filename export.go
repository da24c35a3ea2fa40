package aspen

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// ErrNothingToExport is returned when an export is requested on a scene with
// no content.
var ErrNothingToExport = errors.New("aspen: nothing to export")

// ExportOptions controls the full-extent PNG export. Page tiling, DPI, and
// paper arithmetic are the caller's concern; the exporter only produces one
// logical-coordinate image of the whole content extent.
type ExportOptions struct {
	// PixelsPerCell is the output resolution. Defaults to BaseCellSize.
	PixelsPerCell float64
	// MaxDim, when positive, downscales the result with Catmull-Rom so that
	// neither edge exceeds it.
	MaxDim int
}

// ExportPNG renders the content bounding box padded by one cell through the
// ordinary render passes (without interactive overlays), reads the pixels
// back, and encodes them as a PNG to w. An empty scene fails with
// ErrNothingToExport before anything is allocated.
func (e *Editor) ExportPNG(w io.Writer, opts ExportOptions) error {
	img, err := e.ExportImage(opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// ExportImage is ExportPNG without the encode step: it returns the rendered
// full-extent image in straight-alpha form.
func (e *Editor) ExportImage(opts ExportOptions) (*image.NRGBA, error) {
	if opts.PixelsPerCell <= 0 {
		opts.PixelsPerCell = BaseCellSize
	}
	_, w, h, ok := ExtentView(e, opts.PixelsPerCell)
	if !ok {
		return nil, ErrNothingToExport
	}

	rt := NewRenderTexture(w, h)
	defer rt.Dispose()
	r := NewRenderer()
	defer r.Dispose()
	r.RenderExtent(rt.Image(), e, opts.PixelsPerCell)

	pixels := make([]byte, 4*w*h)
	rt.Image().ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	if opts.MaxDim > 0 && (w > opts.MaxDim || h > opts.MaxDim) {
		img = downscale(img, opts.MaxDim)
	}
	return img, nil
}

// unpremultiply converts premultiplied RGBA pixel bytes to a straight-alpha
// NRGBA image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// downscale resizes img with Catmull-Rom so that neither edge exceeds
// maxDim, preserving aspect ratio.
func downscale(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
