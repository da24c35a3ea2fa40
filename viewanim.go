package aspen

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnimator tweens the three view fields (Offset.X, Offset.Y, Scale)
// toward a target. There is no global animation manager; Editor.Step
// advances it once per frame.
type viewAnimator struct {
	tweens  [3]*gween.Tween
	running bool
}

func (a *viewAnimator) animateTo(v *ViewState, offset Vec2, scale float64, duration float64, fn ease.TweenFunc) {
	d := float32(duration)
	a.tweens[0] = gween.New(float32(v.Offset.X), float32(offset.X), d, fn)
	a.tweens[1] = gween.New(float32(v.Offset.Y), float32(offset.Y), d, fn)
	a.tweens[2] = gween.New(float32(v.Scale), float32(scale), d, fn)
	a.running = true
}

// step advances the transition, writing into the view. Reports whether the
// view changed this frame; completion lands exactly on the target.
func (a *viewAnimator) step(v *ViewState, dt float64) bool {
	if !a.running {
		return false
	}
	ox, d0 := a.tweens[0].Update(float32(dt))
	oy, d1 := a.tweens[1].Update(float32(dt))
	sc, d2 := a.tweens[2].Update(float32(dt))
	v.Offset.X = float64(ox)
	v.Offset.Y = float64(oy)
	v.Scale = float64(sc)
	if d0 && d1 && d2 {
		a.running = false
	}
	return true
}

func (a *viewAnimator) stop() {
	a.running = false
}

func (v *ViewState) clampScale(s float64) float64 {
	return math.Min(math.Max(s, v.MinScale), v.MaxScale)
}

// AnimateTo transitions the view to the given offset and scale over
// duration seconds. The scale is clamped into the view's bounds. A nil
// easing function defaults to ease.InOutQuad; duration ≤ 0 jumps
// immediately.
func (e *Editor) AnimateTo(offset Vec2, scale, duration float64, fn ease.TweenFunc) {
	scale = e.view.clampScale(scale)
	if duration <= 0 {
		e.anim.stop()
		e.view.Offset = offset
		e.view.Scale = scale
		e.RequestRedraw()
		e.emit(EventView)
		return
	}
	if fn == nil {
		fn = ease.InOutQuad
	}
	e.anim.animateTo(&e.view, offset, scale, duration, fn)
}

// focusMargin pads the focused rect on each side, as a fraction of its size.
const focusMargin = 0.08

// FocusOn animates the view to fit a world-space rectangle inside the
// viewport with a small margin. Degenerate rects are padded to at least one
// cell; the fitted scale is clamped to the view's bounds.
func (e *Editor) FocusOn(worldRect Rect, viewportW, viewportH, duration float64) {
	if viewportW <= 0 || viewportH <= 0 {
		return
	}
	w := math.Max(worldRect.Width, e.view.CellSize) * (1 + 2*focusMargin)
	h := math.Max(worldRect.Height, e.view.CellSize) * (1 + 2*focusMargin)
	scale := e.view.clampScale(math.Min(viewportW/w, viewportH/h))
	cx := worldRect.X + worldRect.Width/2
	cy := worldRect.Y + worldRect.Height/2
	offset := Vec2{X: viewportW/2 - cx*scale, Y: viewportH/2 - cy*scale}
	e.AnimateTo(offset, scale, duration, nil)
}

// --- Selection highlight pulse ---

const (
	pulseLow  = 0.35
	pulseHigh = 0.9
	pulseDur  = 0.6
)

// pulseAnim loops the selection-highlight alpha between pulseLow and
// pulseHigh. gween tweens are one-shot, so each completion re-arms the
// tween with the direction flipped.
type pulseAnim struct {
	tween *gween.Tween
	up    bool
	alpha float64
}

func newPulseAnim() pulseAnim {
	return pulseAnim{
		tween: gween.New(pulseLow, pulseHigh, pulseDur, ease.InOutSine),
		up:    true,
		alpha: pulseLow,
	}
}

func (p *pulseAnim) step(dt float64) {
	val, finished := p.tween.Update(float32(dt))
	p.alpha = float64(val)
	if finished {
		p.up = !p.up
		from, to := float32(pulseHigh), float32(pulseLow)
		if p.up {
			from, to = float32(pulseLow), float32(pulseHigh)
		}
		p.tween = gween.New(from, to, pulseDur, ease.InOutSine)
	}
}

// PulseAlpha is the current selection-highlight alpha, looping while the
// editor steps.
func (e *Editor) PulseAlpha() float64 {
	return e.pulse.alpha
}
