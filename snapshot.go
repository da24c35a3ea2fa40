package aspen

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidSnapshot is returned when imported snapshot data fails
// structural validation. Decoding rejects before any live state is touched.
var ErrInvalidSnapshot = errors.New("aspen: invalid snapshot")

// SnapshotVersion is the format version written by EncodeSnapshot.
const SnapshotVersion = 1

const snapshotApp = "aspen"

// Wire labels for the cell fill tagged union.
const (
	fillModeColor    = "color"
	fillModeTextured = "textured"
)

// Snapshot is an immutable, serializable projection of the full scene plus
// view and settings. Asset fields are source-identifier strings, never live
// handles, so a snapshot stays valid regardless of resolution state.
type Snapshot struct {
	Version  int            `json:"version"`
	App      string         `json:"app"`
	Layers   []LayerRecord  `json:"layers"`
	Marks    []MarkEntry    `json:"marks"`
	Objects  []ObjectEntry  `json:"objects"`
	Settings SettingsRecord `json:"settings"`
}

// LayerRecord is one layer in stacking order.
type LayerRecord struct {
	Name    string       `json:"name"`
	Visible bool         `json:"visible"`
	Shadow  ShadowConfig `json:"shadow"`
	Cells   []CellEntry  `json:"cells"`
}

// CellRecord is the wire form of one cell's style. FillMode is the
// tagged-union discriminant, "color" or "textured".
type CellRecord struct {
	FillMode    string `json:"fillMode"`
	FillColor   Color  `json:"fillColor"`
	BorderColor Color  `json:"borderColor"`
	AssetRef    string `json:"assetRef,omitempty"`
}

// CellEntry pairs a cell key ("x,y") with its data. Encoded as a
// two-element JSON array.
type CellEntry struct {
	Key  string
	Cell CellRecord
}

func (e CellEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Cell})
}

func (e *CellEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if pair[0] == nil || pair[1] == nil {
		return errors.New("cell entry: want a [key, cell] pair")
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Cell)
}

// MarkRecord is the wire form of a freeform mark.
type MarkRecord struct {
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
	Fill     Color   `json:"fill"`
	Stroke   Color   `json:"stroke"`
	AssetRef string  `json:"assetRef,omitempty"`
}

// MarkEntry pairs a mark id with its data. Encoded as a two-element JSON
// array; entry order is the stacking order.
type MarkEntry struct {
	ID   int64
	Mark MarkRecord
}

func (e MarkEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Mark})
}

func (e *MarkEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if pair[0] == nil || pair[1] == nil {
		return errors.New("mark entry: want an [id, mark] pair")
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Mark)
}

// ObjectRecord is the wire form of a placed object. Position is the center;
// Rotation is radians in [0, 2π).
type ObjectRecord struct {
	Position Vec2    `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	AssetRef string  `json:"assetRef,omitempty"`
}

// ObjectEntry pairs an object id with its data. Encoded as a two-element
// JSON array; entry order is the stacking order.
type ObjectEntry struct {
	ID     int64
	Object ObjectRecord
}

func (e ObjectEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Object})
}

func (e *ObjectEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if pair[0] == nil || pair[1] == nil {
		return errors.New("object entry: want an [id, object] pair")
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Object)
}

// SettingsRecord is the settings section: the view transform, the active
// layer, and the style defaults that travel with the document.
type SettingsRecord struct {
	CellSize     float64     `json:"cellSize"`
	ViewOffset   Vec2        `json:"viewOffset"`
	ViewScale    float64     `json:"viewScale"`
	ActiveLayer  int         `json:"activeLayer"`
	EmptyCell    Color       `json:"emptyCell"`
	Border       BorderStyle `json:"border"`
	GridAssets   []string    `json:"gridAssets,omitempty"`
	DrawDefaults CellRecord  `json:"drawDefaults"`
	MarkDefaults MarkStyle   `json:"markDefaults"`
	ObjectAsset  string      `json:"objectAsset,omitempty"`
	StrokePeriod float64     `json:"strokePeriod"`
}

// --- Cell keys ---

// formatCellKey encodes a coordinate as the snapshot key "x,y".
func formatCellKey(c CellCoord) string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// parseCellKey decodes an "x,y" key.
func parseCellKey(key string) (CellCoord, bool) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return CellCoord{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return CellCoord{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return CellCoord{}, false
	}
	return CellCoord{X: x, Y: y}, true
}

// --- Fill mode labels ---

func fillModeLabel(m FillMode) string {
	if m == FillTextured {
		return fillModeTextured
	}
	return fillModeColor
}

func parseFillMode(label string) (FillMode, bool) {
	switch label {
	case fillModeColor:
		return FillColor, true
	case fillModeTextured:
		return FillTextured, true
	}
	return FillColor, false
}

func cellRecordFrom(fill CellFill, border Color) CellRecord {
	return CellRecord{
		FillMode:    fillModeLabel(fill.Mode),
		FillColor:   fill.Color,
		BorderColor: border,
		AssetRef:    fill.AssetRef,
	}
}

// style rebuilds the live cell style. Callers validate FillMode beforehand.
func (r CellRecord) style() CellStyle {
	mode, _ := parseFillMode(r.FillMode)
	return CellStyle{
		Fill:   CellFill{Mode: mode, Color: r.FillColor, AssetRef: r.AssetRef},
		Border: r.BorderColor,
	}
}

// --- Capture / rebuild ---

// captureSnapshot deep-copies the scene, view, and settings into a snapshot.
// Cell entries are sorted by coordinate so encoding is deterministic; mark
// and object entries keep their stacking order.
func captureSnapshot(s *Scene, view ViewState, set Settings) Snapshot {
	layers := make([]LayerRecord, len(s.Layers))
	for i, l := range s.Layers {
		coords := make([]CellCoord, 0, len(l.Cells))
		for c := range l.Cells {
			coords = append(coords, c)
		}
		sort.Slice(coords, func(a, b int) bool {
			if coords[a].Y != coords[b].Y {
				return coords[a].Y < coords[b].Y
			}
			return coords[a].X < coords[b].X
		})
		cells := make([]CellEntry, len(coords))
		for j, c := range coords {
			cell := l.Cells[c]
			cells[j] = CellEntry{
				Key:  formatCellKey(c),
				Cell: cellRecordFrom(cell.Fill, cell.Border),
			}
		}
		layers[i] = LayerRecord{
			Name:    l.Name,
			Visible: l.Visible,
			Shadow:  l.Shadow,
			Cells:   cells,
		}
	}

	marks := make([]MarkEntry, len(s.Marks))
	for i := range s.Marks {
		m := &s.Marks[i]
		marks[i] = MarkEntry{ID: m.ID, Mark: MarkRecord{
			Position: m.Position,
			Radius:   m.Radius,
			Fill:     m.Fill,
			Stroke:   m.Stroke,
			AssetRef: m.AssetRef,
		}}
	}

	objects := make([]ObjectEntry, len(s.Objects))
	for i := range s.Objects {
		o := &s.Objects[i]
		objects[i] = ObjectEntry{ID: o.ID, Object: ObjectRecord{
			Position: o.Position,
			Width:    o.Width,
			Height:   o.Height,
			Rotation: o.Rotation,
			AssetRef: o.AssetRef,
		}}
	}

	return Snapshot{
		Version: SnapshotVersion,
		App:     snapshotApp,
		Layers:  layers,
		Marks:   marks,
		Objects: objects,
		Settings: SettingsRecord{
			CellSize:     view.CellSize,
			ViewOffset:   view.Offset,
			ViewScale:    view.Scale,
			ActiveLayer:  s.Active,
			EmptyCell:    set.EmptyCell,
			Border:       set.Border,
			GridAssets:   append([]string(nil), set.GridAssets...),
			DrawDefaults: cellRecordFrom(set.DrawDefaults.Fill, set.DrawDefaults.Border),
			MarkDefaults: set.MarkDefaults,
			ObjectAsset:  set.ObjectAsset,
			StrokePeriod: set.StrokePeriod,
		},
	}
}

// buildScene reconstructs a live scene from a validated snapshot. Restored
// entity ids raise the id counter so later entities never collide.
func (snap *Snapshot) buildScene() *Scene {
	s := &Scene{
		Layers: make([]*Layer, len(snap.Layers)),
		Active: snap.Settings.ActiveLayer,
	}
	for i, lr := range snap.Layers {
		l := NewLayer(lr.Name)
		l.Visible = lr.Visible
		l.Shadow = lr.Shadow
		for _, e := range lr.Cells {
			coord, ok := parseCellKey(e.Key)
			if !ok {
				continue
			}
			st := e.Cell.style()
			l.Cells[coord] = GridCell{Coord: coord, Fill: st.Fill, Border: st.Border}
		}
		s.Layers[i] = l
	}
	for _, e := range snap.Marks {
		noteEntityID(e.ID)
		s.Marks = append(s.Marks, FreeformMark{
			ID:       e.ID,
			Position: e.Mark.Position,
			Radius:   e.Mark.Radius,
			Fill:     e.Mark.Fill,
			Stroke:   e.Mark.Stroke,
			AssetRef: e.Mark.AssetRef,
		})
	}
	for _, e := range snap.Objects {
		noteEntityID(e.ID)
		s.Objects = append(s.Objects, PlacedObject{
			ID:       e.ID,
			Position: e.Object.Position,
			Width:    e.Object.Width,
			Height:   e.Object.Height,
			Rotation: e.Object.Rotation,
			AssetRef: e.Object.AssetRef,
		})
	}
	return s
}

// settings rebuilds the live settings carried by the snapshot.
func (snap *Snapshot) settings() Settings {
	return Settings{
		EmptyCell:    snap.Settings.EmptyCell,
		Border:       snap.Settings.Border,
		GridAssets:   append([]string(nil), snap.Settings.GridAssets...),
		DrawDefaults: snap.Settings.DrawDefaults.style(),
		MarkDefaults: snap.Settings.MarkDefaults,
		ObjectAsset:  snap.Settings.ObjectAsset,
		StrokePeriod: snap.Settings.StrokePeriod,
	}
}

// view rebuilds the view transform. Zoom bounds are not part of the format;
// the caller supplies its configured bounds.
func (snap *Snapshot) view(minScale, maxScale float64) ViewState {
	return ViewState{
		Offset:   snap.Settings.ViewOffset,
		Scale:    snap.Settings.ViewScale,
		CellSize: snap.Settings.CellSize,
		MinScale: minScale,
		MaxScale: maxScale,
	}
}

// --- Validation and the wire boundary ---

// Validate checks snapshot structure without touching any live state.
// Violations are reported as ErrInvalidSnapshot wrapped with detail.
func (snap *Snapshot) Validate() error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}
	if len(snap.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidSnapshot)
	}
	if snap.Settings.ActiveLayer < 0 || snap.Settings.ActiveLayer >= len(snap.Layers) {
		return fmt.Errorf("%w: active layer %d out of range", ErrInvalidSnapshot, snap.Settings.ActiveLayer)
	}
	if snap.Settings.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %v", ErrInvalidSnapshot, snap.Settings.CellSize)
	}
	if snap.Settings.ViewScale <= 0 {
		return fmt.Errorf("%w: view scale %v", ErrInvalidSnapshot, snap.Settings.ViewScale)
	}
	if _, ok := parseFillMode(snap.Settings.DrawDefaults.FillMode); !ok {
		return fmt.Errorf("%w: unknown fill mode %q", ErrInvalidSnapshot, snap.Settings.DrawDefaults.FillMode)
	}
	for li, lr := range snap.Layers {
		for _, e := range lr.Cells {
			if _, ok := parseCellKey(e.Key); !ok {
				return fmt.Errorf("%w: layer %d: bad cell key %q", ErrInvalidSnapshot, li, e.Key)
			}
			if _, ok := parseFillMode(e.Cell.FillMode); !ok {
				return fmt.Errorf("%w: layer %d: unknown fill mode %q", ErrInvalidSnapshot, li, e.Cell.FillMode)
			}
		}
	}
	return nil
}

// EncodeSnapshot serializes a snapshot to its JSON wire form.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses and validates snapshot bytes. Malformed input of any
// kind is reported under ErrInvalidSnapshot and nothing is mutated.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
