package aspen

// DefaultHistoryLimit is the retained-entry cap used when Config leaves
// HistoryLimit at zero.
const DefaultHistoryLimit = 64

// history is a bounded linear undo stack of document snapshots.
// entries[ptr] always matches the current document state, so recording
// after undos drops the redo tail first.
type history struct {
	entries []Snapshot
	ptr     int
	limit   int
}

func newHistory(limit int, initial Snapshot) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{entries: []Snapshot{initial}, limit: limit}
}

// record pushes a new current state, discarding any redo tail and evicting
// the oldest entry once the cap is exceeded.
func (h *history) record(snap Snapshot) {
	h.entries = h.entries[:h.ptr+1]
	h.entries = append(h.entries, snap)
	h.ptr++
	if len(h.entries) > h.limit {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = Snapshot{}
		h.entries = h.entries[:len(h.entries)-1]
		h.ptr--
	}
}

// undo steps the pointer back and returns the snapshot to restore.
// Reports false at the oldest retained entry.
func (h *history) undo() (Snapshot, bool) {
	if h.ptr == 0 {
		return Snapshot{}, false
	}
	h.ptr--
	return h.entries[h.ptr], true
}

// redo steps the pointer forward and returns the snapshot to restore.
// Reports false at the newest entry.
func (h *history) redo() (Snapshot, bool) {
	if h.ptr == len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.ptr++
	return h.entries[h.ptr], true
}

func (h *history) canUndo() bool { return h.ptr > 0 }

func (h *history) canRedo() bool { return h.ptr < len(h.entries)-1 }

// reset discards all entries and restarts the stack at initial. Used when a
// whole document is loaded.
func (h *history) reset(initial Snapshot) {
	h.entries = h.entries[:0]
	h.entries = append(h.entries, initial)
	h.ptr = 0
}
