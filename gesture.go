package aspen

import "math"

// zoomStepFactor is the per-wheel-notch zoom multiplier.
const zoomStepFactor = 1.1

// gestureState tracks one pointer interaction from press to release. The
// tool is captured at press time; switching tools cancels the gesture.
type gestureState struct {
	active     bool
	tool       Tool
	startWorld Vec2
	lastWorld  Vec2
	lastScreen Vec2
	groupMove  bool // select: dragging an already-selected item
	moved      Vec2 // accumulated group-move delta
	rubber     bool // select: rubber-band rectangle in progress
	changed    bool // document changed during this gesture
	gate       *strokeGate
}

// PointerDown begins a gesture at a screen point.
func (e *Editor) PointerDown(screen Vec2) {
	if e.gesture.active {
		return
	}
	e.anim.stop()
	world := e.view.ScreenToWorld(screen)
	g := &e.gesture
	*g = gestureState{
		active:     true,
		tool:       e.tool,
		startWorld: world,
		lastWorld:  world,
		lastScreen: screen,
	}

	switch g.tool {
	case ToolDraw:
		if e.DrawCell(e.view.CellAt(world)) {
			g.changed = true
		}
	case ToolErase:
		if e.EraseAt(world) {
			g.changed = true
		}
	case ToolStroke:
		// The first point always emits and seeds the gate's reference.
		g.gate = newStrokeGate(e.settings.StrokePeriod)
		g.gate.Accept(world, e.view.CellSize)
		e.StrokeMarkAt(world)
		g.changed = true
	case ToolSelect:
		hit := e.TopmostAt(world)
		if hit.Kind != HitNone && e.sel.Contains(hit) {
			g.groupMove = true
		}
	}
}

// PointerMove continues the active gesture. Group-moves translate the
// selection live; the single history record waits for release.
func (e *Editor) PointerMove(screen Vec2) {
	g := &e.gesture
	if !g.active {
		return
	}
	world := e.view.ScreenToWorld(screen)

	switch g.tool {
	case ToolDraw:
		if e.DrawCell(e.view.CellAt(world)) {
			g.changed = true
		}
	case ToolErase:
		if e.EraseAt(world) {
			g.changed = true
		}
	case ToolStroke:
		if g.gate.Accept(world, e.view.CellSize) {
			e.StrokeMarkAt(world)
			g.changed = true
		}
	case ToolSelect:
		if g.groupMove {
			delta := Vec2{X: world.X - g.lastWorld.X, Y: world.Y - g.lastWorld.Y}
			if delta != (Vec2{}) && MoveSelection(e.scene, &e.sel, delta) {
				g.moved.X += delta.X
				g.moved.Y += delta.Y
				e.RequestRedraw()
			}
		} else if world != g.startWorld {
			g.rubber = true
			e.RequestRedraw()
		}
	case ToolPan:
		e.view.PanBy(Vec2{X: screen.X - g.lastScreen.X, Y: screen.Y - g.lastScreen.Y})
		e.RequestRedraw()
		e.emit(EventView)
	}

	g.lastWorld = world
	g.lastScreen = screen
}

// PointerUp completes the gesture. A press/release pair with identical
// start and end world points classifies as a click; anything else is a
// drag. At most one history entry is recorded per gesture, and only when
// the document changed.
func (e *Editor) PointerUp(screen Vec2) {
	g := &e.gesture
	if !g.active {
		return
	}
	world := e.view.ScreenToWorld(screen)
	click := world == g.startWorld

	switch g.tool {
	case ToolDraw:
		if e.DrawCell(e.view.CellAt(world)) {
			g.changed = true
		}
		if g.changed {
			e.Record()
		}
	case ToolErase:
		if e.EraseAt(world) {
			g.changed = true
		}
		if g.changed {
			e.Record()
		}
	case ToolStroke:
		if g.gate.Accept(world, e.view.CellSize) {
			e.StrokeMarkAt(world)
			g.changed = true
		}
		if g.changed {
			e.Record()
		}
	case ToolSelect:
		switch {
		case g.groupMove:
			delta := Vec2{X: world.X - g.lastWorld.X, Y: world.Y - g.lastWorld.Y}
			if delta != (Vec2{}) && MoveSelection(e.scene, &e.sel, delta) {
				g.moved.X += delta.X
				g.moved.Y += delta.Y
			}
			if g.moved != (Vec2{}) {
				e.Record()
				e.RequestRedraw()
				e.emit(EventDocument)
			}
		case click:
			e.SelectAt(world)
		default:
			e.SelectRect(g.startWorld, world)
		}
	case ToolPlace:
		if click {
			e.PlaceObjectAt(world)
			e.Record()
		}
	}

	*g = gestureState{}
}

// Cancel aborts any in-progress gesture without recording. A partial
// group-move is rolled back; draw/erase/stroke changes stay in the scene
// and are captured by whatever record comes next.
func (e *Editor) Cancel() {
	g := &e.gesture
	if !g.active {
		return
	}
	if g.groupMove && g.moved != (Vec2{}) {
		MoveSelection(e.scene, &e.sel, Vec2{X: -g.moved.X, Y: -g.moved.Y})
	}
	if g.rubber || g.groupMove || g.changed {
		e.RequestRedraw()
	}
	*g = gestureState{}
}

// Wheel applies one zoom step at the given screen point. Positive dy zooms
// in. Steps that would leave the scale bounds are rejected silently.
func (e *Editor) Wheel(screen Vec2, dy float64) bool {
	if dy == 0 {
		return false
	}
	return e.ZoomAt(screen, e.view.Scale*math.Pow(zoomStepFactor, dy))
}

// ZoomAt zooms to an absolute scale, keeping the world point under the
// screen point stationary. Out-of-range scales are rejected.
func (e *Editor) ZoomAt(screen Vec2, newScale float64) bool {
	if !e.view.ZoomAtPoint(screen, newScale) {
		return false
	}
	e.anim.stop()
	e.RequestRedraw()
	e.emit(EventView)
	return true
}

// Pan translates the view by a screen-space delta.
func (e *Editor) Pan(delta Vec2) {
	e.anim.stop()
	e.view.PanBy(delta)
	e.RequestRedraw()
	e.emit(EventView)
}

// DragRect returns the rubber-band rectangle of an in-progress selection
// drag in world space.
func (e *Editor) DragRect() (Rect, bool) {
	g := &e.gesture
	if !g.active || !g.rubber {
		return Rect{}, false
	}
	return normalizeRect(g.startWorld, g.lastWorld), true
}
