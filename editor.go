package aspen

// Settings are the document-level style defaults and render options. They
// travel with snapshots, so a loaded document brings its own look along.
type Settings struct {
	// EmptyCell is the background fill drawn where no cell exists.
	EmptyCell Color
	// Border configures the strip renderer around filled cell regions.
	Border BorderStyle
	// GridAssets is the palette of texture refs offered for cell fills.
	GridAssets []string
	// DrawDefaults is the style applied by the draw tool.
	DrawDefaults CellStyle
	// MarkDefaults is the style applied to new freeform marks.
	MarkDefaults MarkStyle
	// ObjectAsset is the source ref placed by the place tool.
	ObjectAsset string
	// StrokePeriod gates freeform-stroke emission in cell units; 0 emits
	// every point.
	StrokePeriod float64
}

func defaultSettings() Settings {
	return Settings{
		EmptyCell: Color{R: 0.93, G: 0.91, B: 0.85, A: 1},
		Border:    defaultBorderStyle(),
		DrawDefaults: CellStyle{
			Fill:   CellFill{Mode: FillColor, Color: Color{R: 1, G: 1, B: 1, A: 1}},
			Border: Color{R: 0.25, G: 0.22, B: 0.2, A: 1},
		},
		MarkDefaults: MarkStyle{
			Radius: 6,
			Fill:   Color{R: 0.25, G: 0.22, B: 0.2, A: 1},
			Stroke: Color{R: 0.25, G: 0.22, B: 0.2, A: 0.5},
		},
		StrokePeriod: 0.5,
	}
}

// Config holds editor construction options. The zero value is usable;
// blanks are filled from defaults.
type Config struct {
	// CellSize is the grid cell edge length in world units.
	// Defaults to BaseCellSize.
	CellSize float64
	// MinScale and MaxScale bound the zoom. Default 0.1 and 8.
	MinScale float64
	MaxScale float64
	// HistoryLimit caps retained undo entries. Default DefaultHistoryLimit.
	HistoryLimit int
	// RequestAsset is invoked once per unknown asset ref so the host can
	// start decoding; results come back through Editor.Assets().Deliver.
	RequestAsset func(ref string)
	// Settings overrides the default document settings when non-nil.
	Settings *Settings
}

const (
	defaultMinScale = 0.1
	defaultMaxScale = 8.0
)

// Editor owns the scene and every operation on it: tools and gestures,
// selection, view, history, assets, and change notification. It is
// single-threaded; all methods must be called from the engine thread.
type Editor struct {
	scene    *Scene
	view     ViewState
	settings Settings
	sel      Selection
	assets   *AssetPool
	hist     *history

	tool    Tool
	gesture gestureState
	clip    clipboard

	handlers eventRegistry
	sink     EventSink

	redrawPending bool

	anim  viewAnimator
	pulse pulseAnim
}

// NewEditor creates an editor with one empty layer and an initial history
// entry capturing that state.
func NewEditor(cfg Config) *Editor {
	if cfg.CellSize <= 0 {
		cfg.CellSize = BaseCellSize
	}
	if cfg.MinScale <= 0 {
		cfg.MinScale = defaultMinScale
	}
	if cfg.MaxScale <= 0 {
		cfg.MaxScale = defaultMaxScale
	}

	set := defaultSettings()
	if cfg.Settings != nil {
		set = *cfg.Settings
	}

	e := &Editor{
		scene:    NewScene(),
		view:     newViewState(cfg.CellSize, cfg.MinScale, cfg.MaxScale),
		settings: set,
		sel:      NewSelection(),
		assets:   NewAssetPool(cfg.RequestAsset),
		pulse:    newPulseAnim(),
	}
	e.assets.SetOnChange(func() {
		e.RequestRedraw()
		e.emit(EventAssets)
	})
	e.hist = newHistory(cfg.HistoryLimit, captureSnapshot(e.scene, e.view, e.settings))
	e.resolveSceneAssets()
	return e
}

// --- Accessors ---

// Scene returns the live document. Mutating it directly bypasses events,
// redraw scheduling, and history; prefer the editor's operations.
func (e *Editor) Scene() *Scene { return e.scene }

// View returns the live view transform.
func (e *Editor) View() *ViewState { return &e.view }

// Selection returns the live selection.
func (e *Editor) Selection() *Selection { return &e.sel }

// Assets returns the asset pool. Hosts deliver decode results through it.
func (e *Editor) Assets() *AssetPool { return e.assets }

// Settings returns a copy of the current document settings.
func (e *Editor) Settings() Settings { return e.settings }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches the active tool, canceling any gesture in progress.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.Cancel()
	e.tool = t
}

// TopmostAt resolves the topmost item under a world point using the current
// cell size.
func (e *Editor) TopmostAt(point Vec2) Hit {
	return TopmostAt(e.scene, point, e.view.CellSize)
}

// ContentBounds returns the world-space bounding box of all scene content.
func (e *Editor) ContentBounds() (Rect, bool) {
	return e.scene.ContentBounds(e.view.CellSize)
}

// --- Redraw coalescing ---

// RequestRedraw schedules one redraw. Any number of requests between two
// frames collapse into a single pending flag.
func (e *Editor) RequestRedraw() {
	e.redrawPending = true
}

// ConsumeRedraw reports whether a redraw is pending and clears the flag.
// Call once per frame.
func (e *Editor) ConsumeRedraw() bool {
	p := e.redrawPending
	e.redrawPending = false
	return p
}

// --- History ---

// Record snapshots the current scene, view, and settings as a new history
// entry, discarding any redo branch.
func (e *Editor) Record() {
	e.hist.record(captureSnapshot(e.scene, e.view, e.settings))
	e.emit(EventHistory)
}

// CanUndo reports whether an older history entry exists.
func (e *Editor) CanUndo() bool { return e.hist.canUndo() }

// CanRedo reports whether a newer history entry exists.
func (e *Editor) CanRedo() bool { return e.hist.canRedo() }

// Undo restores the previous history entry.
func (e *Editor) Undo() bool {
	snap, ok := e.hist.undo()
	if !ok {
		return false
	}
	e.restore(snap)
	e.emit(EventHistory)
	return true
}

// Redo restores the next history entry.
func (e *Editor) Redo() bool {
	snap, ok := e.hist.redo()
	if !ok {
		return false
	}
	e.restore(snap)
	e.emit(EventHistory)
	return true
}

// restore replaces scene, view, and settings from a snapshot. The selection
// and any in-progress gesture are dropped; stored asset refs are re-resolved
// through the pool.
func (e *Editor) restore(snap Snapshot) {
	e.Cancel()
	e.anim.stop()
	e.scene = snap.buildScene()
	e.view = snap.view(e.view.MinScale, e.view.MaxScale)
	e.settings = snap.settings()
	e.sel = NewSelection()
	e.resolveSceneAssets()
	e.RequestRedraw()
	e.emit(EventDocument)
	e.emit(EventSelection)
	e.emit(EventView)
	e.emit(EventLayers)
}

// Save serializes the current scene, view, and settings.
func (e *Editor) Save() ([]byte, error) {
	return EncodeSnapshot(captureSnapshot(e.scene, e.view, e.settings))
}

// Load replaces the whole document from snapshot bytes and restarts history
// at the loaded state; a load is not undoable past that boundary. Malformed
// data is rejected under ErrInvalidSnapshot with nothing touched.
func (e *Editor) Load(data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return e.LoadSnapshot(snap)
}

// LoadSnapshot is Load for an already decoded snapshot.
func (e *Editor) LoadSnapshot(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	e.restore(snap)
	e.hist.reset(snap)
	e.emit(EventHistory)
	return nil
}

// resolveSceneAssets warms the pool with every ref the document mentions so
// delivery can begin before anything is drawn.
func (e *Editor) resolveSceneAssets() {
	for _, l := range e.scene.Layers {
		for _, cell := range l.Cells {
			if cell.Fill.Mode == FillTextured {
				e.assets.Resolve(cell.Fill.AssetRef)
			}
		}
	}
	for i := range e.scene.Marks {
		e.assets.Resolve(e.scene.Marks[i].AssetRef)
	}
	for i := range e.scene.Objects {
		e.assets.Resolve(e.scene.Objects[i].AssetRef)
	}
	for _, ref := range e.settings.GridAssets {
		e.assets.Resolve(ref)
	}
	if e.settings.DrawDefaults.Fill.Mode == FillTextured {
		e.assets.Resolve(e.settings.DrawDefaults.Fill.AssetRef)
	}
	e.assets.Resolve(e.settings.MarkDefaults.AssetRef)
	e.assets.Resolve(e.settings.ObjectAsset)
}

// --- Document verbs ---
//
// The pointer-gesture verbs below mutate without recording; the gesture
// controller records once per completed gesture. Programmatic callers that
// want undo should call Record after a batch.

// DrawCell applies the draw defaults to one cell of the active layer.
// A write identical to the stored cell is skipped entirely.
func (e *Editor) DrawCell(coord CellCoord) bool {
	if !e.scene.GridDraw(coord, e.settings.DrawDefaults) {
		return false
	}
	e.RequestRedraw()
	e.emit(EventDocument)
	return true
}

// EraseAt removes everything under a world point per the erase rules.
func (e *Editor) EraseAt(point Vec2) bool {
	if !e.scene.EraseAt(point, e.view.CellSize) {
		return false
	}
	e.sel.prune(e.scene)
	e.RequestRedraw()
	e.emit(EventDocument)
	return true
}

// StrokeMarkAt appends one freeform mark with the mark defaults. Gating
// against the stroke period is the gesture controller's job.
func (e *Editor) StrokeMarkAt(point Vec2) int64 {
	def := e.settings.MarkDefaults
	id := e.scene.AddMark(FreeformMark{
		Position: point,
		Radius:   def.Radius,
		Fill:     def.Fill,
		Stroke:   def.Stroke,
		AssetRef: def.AssetRef,
	})
	e.RequestRedraw()
	e.emit(EventDocument)
	return id
}

// PlaceObjectAt instantiates an object centered at a world point, using the
// configured object asset. Width and height derive from the asset's natural
// pixel size scaled by CellSize/BaseCellSize, so object size tracks the
// grid's logical scale rather than the live zoom. An unready or failed
// handle sizes as one BaseCellSize square.
func (e *Editor) PlaceObjectAt(point Vec2) int64 {
	ref := e.settings.ObjectAsset
	naturalW, naturalH := float64(BaseCellSize), float64(BaseCellSize)
	if h := e.assets.Resolve(ref); h != nil {
		naturalW, naturalH = h.NaturalSize()
	}
	k := e.view.CellSize / BaseCellSize
	id := e.scene.AddObject(PlacedObject{
		Position: point,
		Width:    naturalW * k,
		Height:   naturalH * k,
		AssetRef: ref,
	})
	e.RequestRedraw()
	e.emit(EventDocument)
	return id
}

// --- Selection operations ---

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	if e.sel.Empty() {
		return
	}
	e.sel.Clear()
	e.RequestRedraw()
	e.emit(EventSelection)
}

// SelectAt applies click-selection at a world point: the topmost item
// becomes the whole selection, or empty space clears it.
func (e *Editor) SelectAt(point Vec2) {
	hit := e.TopmostAt(point)
	if hit.Kind == HitNone {
		e.ClearSelection()
		return
	}
	e.sel.setTo(hit)
	e.RequestRedraw()
	e.emit(EventSelection)
}

// SelectRect replaces the selection with the drag-rectangle membership
// between two world-space corners.
func (e *Editor) SelectRect(cornerA, cornerB Vec2) {
	e.sel = SelectInRect(e.scene, e.view.CellSize, cornerA, cornerB)
	e.RequestRedraw()
	e.emit(EventSelection)
}

// --- Group operations ---
//
// Each successful group operation records exactly one history entry.

// RotateSelection rotates the selected marks/objects about the selection
// centroid by deltaDeg degrees. Cells contribute to the centroid but are
// never rotated; a nonempty cells-only selection still records.
func (e *Editor) RotateSelection(deltaDeg float64) bool {
	if !RotateSelection(e.scene, &e.sel, e.view.CellSize, deltaDeg) {
		return false
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventDocument)
	return true
}

// ResizeSelection scales the selected marks/objects about the selection
// centroid. A factor ≤ 0 is rejected silently.
func (e *Editor) ResizeSelection(factor float64) bool {
	if !ResizeSelection(e.scene, &e.sel, e.view.CellSize, factor) {
		return false
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventDocument)
	return true
}

// MoveSelection translates the selected marks/objects. A zero delta or an
// empty selection is a silent no-op.
func (e *Editor) MoveSelection(delta Vec2) bool {
	if delta == (Vec2{}) {
		return false
	}
	if !MoveSelection(e.scene, &e.sel, delta) {
		return false
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventDocument)
	return true
}

// DeleteSelection removes every selected entity and clears the selection.
func (e *Editor) DeleteSelection() bool {
	if DeleteSelection(e.scene, &e.sel) == 0 {
		return false
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventDocument)
	e.emit(EventSelection)
	return true
}

// --- Clipboard ---

type clipboard struct {
	has     bool
	cells   []GridCell
	marks   []FreeformMark
	objects []PlacedObject
}

// CopySelection deep-copies the selected entities into the clipboard and
// returns how many were copied. Asset fields are already source refs, so
// the clipboard never holds live handles.
func (e *Editor) CopySelection() int {
	if e.sel.Empty() {
		return 0
	}
	clip := clipboard{}
	layer := e.scene.ActiveLayer()
	for coord := range e.sel.Cells {
		if cell, ok := layer.Cell(coord); ok {
			clip.cells = append(clip.cells, cell)
		}
	}
	for id := range e.sel.Marks {
		if m := e.scene.MarkByID(id); m != nil {
			clip.marks = append(clip.marks, *m)
		}
	}
	for id := range e.sel.Objects {
		if o := e.scene.ObjectByID(id); o != nil {
			clip.objects = append(clip.objects, *o)
		}
	}
	n := len(clip.cells) + len(clip.marks) + len(clip.objects)
	if n == 0 {
		return 0
	}
	clip.has = true
	e.clip = clip
	return n
}

// PasteAt re-instantiates the clipboard contents near a world-space cursor:
// cells keep their relative arrangement keyed one lattice step past the
// cursor's cell, marks/objects are shifted so their group centroid lands on
// the cursor (a single item lands exactly there). Pasted entities get fresh
// ids and become the new selection; one history entry is recorded.
func (e *Editor) PasteAt(cursor Vec2) bool {
	if !e.clip.has {
		return false
	}
	newSel := NewSelection()

	if len(e.clip.cells) > 0 {
		minX, minY := e.clip.cells[0].Coord.X, e.clip.cells[0].Coord.Y
		for _, c := range e.clip.cells[1:] {
			if c.Coord.X < minX {
				minX = c.Coord.X
			}
			if c.Coord.Y < minY {
				minY = c.Coord.Y
			}
		}
		anchor := e.view.CellAt(cursor)
		layer := e.scene.ActiveLayer()
		for _, c := range e.clip.cells {
			coord := CellCoord{
				X: anchor.X + 1 + c.Coord.X - minX,
				Y: anchor.Y + 1 + c.Coord.Y - minY,
			}
			cell := c
			cell.Coord = coord
			layer.SetCell(cell)
			newSel.Cells[coord] = struct{}{}
		}
	}

	if n := len(e.clip.marks) + len(e.clip.objects); n > 0 {
		var cx, cy float64
		for i := range e.clip.marks {
			cx += e.clip.marks[i].Position.X
			cy += e.clip.marks[i].Position.Y
		}
		for i := range e.clip.objects {
			cx += e.clip.objects[i].Position.X
			cy += e.clip.objects[i].Position.Y
		}
		dx := cursor.X - cx/float64(n)
		dy := cursor.Y - cy/float64(n)
		for _, m := range e.clip.marks {
			m.ID = 0
			m.Position.X += dx
			m.Position.Y += dy
			newSel.Marks[e.scene.AddMark(m)] = struct{}{}
		}
		for _, o := range e.clip.objects {
			o.ID = 0
			o.Position.X += dx
			o.Position.Y += dy
			newSel.Objects[e.scene.AddObject(o)] = struct{}{}
		}
	}

	e.sel = newSel
	e.Record()
	e.RequestRedraw()
	e.emit(EventDocument)
	e.emit(EventSelection)
	return true
}

// --- Layer operations ---
//
// Layer structure is part of the snapshot, so every effective layer change
// records one history entry.

// AddLayer appends an empty layer and returns its index.
func (e *Editor) AddLayer(name string) int {
	i := e.scene.AddLayer(name)
	e.Record()
	e.emit(EventLayers)
	return i
}

// RemoveLayer deletes the layer at index i. Removing the only remaining
// layer fails with ErrLastLayer and a Notice event; an out-of-range index is
// ignored.
func (e *Editor) RemoveLayer(i int) error {
	if i < 0 || i >= len(e.scene.Layers) {
		return nil
	}
	activeBefore := e.scene.ActiveLayer()
	if err := e.scene.RemoveLayer(i); err != nil {
		e.emitNotice(EventNotice, "cannot remove the last layer")
		return err
	}
	if e.scene.ActiveLayer() != activeBefore {
		e.sel.Clear()
		e.emit(EventSelection)
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventLayers)
	return nil
}

// RenameLayer sets the layer's display name.
func (e *Editor) RenameLayer(i int, name string) bool {
	if i < 0 || i >= len(e.scene.Layers) || e.scene.Layers[i].Name == name {
		return false
	}
	e.scene.Layers[i].Name = name
	e.Record()
	e.emit(EventLayers)
	return true
}

// SetLayerVisible toggles a layer in or out of the composite.
func (e *Editor) SetLayerVisible(i int, visible bool) bool {
	if i < 0 || i >= len(e.scene.Layers) || e.scene.Layers[i].Visible == visible {
		return false
	}
	e.scene.Layers[i].Visible = visible
	e.Record()
	e.RequestRedraw()
	e.emit(EventLayers)
	return true
}

// SetLayerShadow replaces a layer's shadow configuration.
func (e *Editor) SetLayerShadow(i int, cfg ShadowConfig) bool {
	if i < 0 || i >= len(e.scene.Layers) || e.scene.Layers[i].Shadow == cfg {
		return false
	}
	e.scene.Layers[i].Shadow = cfg
	e.Record()
	e.RequestRedraw()
	e.emit(EventLayers)
	return true
}

// MoveLayer reorders the layer stack; the active index follows its layer.
func (e *Editor) MoveLayer(from, to int) bool {
	if !e.scene.MoveLayer(from, to) {
		return false
	}
	e.Record()
	e.RequestRedraw()
	e.emit(EventLayers)
	return true
}

// SetActiveLayer switches the drawing target. The selection is cleared,
// since selected cells are scoped to the active layer.
func (e *Editor) SetActiveLayer(i int) bool {
	if i < 0 || i >= len(e.scene.Layers) || i == e.scene.Active {
		return false
	}
	e.scene.Active = i
	e.sel.Clear()
	e.Record()
	e.RequestRedraw()
	e.emit(EventLayers)
	e.emit(EventSelection)
	return true
}

// --- Settings setters ---
//
// Style defaults affect future drawing, not existing content; they are not
// recorded on their own and ride along with the next recorded snapshot.

// SetDrawDefaults sets the style applied by the draw tool.
func (e *Editor) SetDrawDefaults(style CellStyle) {
	e.settings.DrawDefaults = style
	if style.Fill.Mode == FillTextured {
		e.assets.Resolve(style.Fill.AssetRef)
	}
}

// SetMarkDefaults sets the style applied to new freeform marks.
func (e *Editor) SetMarkDefaults(style MarkStyle) {
	e.settings.MarkDefaults = style
	e.assets.Resolve(style.AssetRef)
}

// SetObjectAsset sets the source ref placed by the place tool.
func (e *Editor) SetObjectAsset(ref string) {
	e.settings.ObjectAsset = ref
	e.assets.Resolve(ref)
}

// SetGridAssets replaces the cell texture palette.
func (e *Editor) SetGridAssets(refs []string) {
	e.settings.GridAssets = append([]string(nil), refs...)
	for _, ref := range refs {
		e.assets.Resolve(ref)
	}
}

// SetStrokePeriod sets the freeform-stroke gating period in cell units.
func (e *Editor) SetStrokePeriod(period float64) {
	if period < 0 {
		period = 0
	}
	e.settings.StrokePeriod = period
}

// SetEmptyCell sets the background fill.
func (e *Editor) SetEmptyCell(c Color) {
	e.settings.EmptyCell = c
	e.RequestRedraw()
}

// SetBorderStyle reconfigures the border strip renderer.
func (e *Editor) SetBorderStyle(style BorderStyle) {
	e.settings.Border = style
	e.RequestRedraw()
}

// --- Frame tick ---

// Step advances time-based state: the view animator and the selection
// highlight pulse. dt is in seconds. Call once per frame.
func (e *Editor) Step(dt float64) {
	if e.anim.step(&e.view, dt) {
		e.RequestRedraw()
		e.emit(EventView)
	}
	e.pulse.step(dt)
	if !e.sel.Empty() {
		// The highlight pulse animates whenever something is selected.
		e.RequestRedraw()
	}
}
