package aspen

// EventKind identifies which aspect of the editor a notification is about.
type EventKind uint8

const (
	// EventDocument fires when scene content changed (cells, marks, objects).
	EventDocument EventKind = iota
	// EventSelection fires when selection membership changed.
	EventSelection
	// EventView fires when pan or zoom changed.
	EventView
	// EventLayers fires when the layer list, order, visibility, or the
	// active layer changed.
	EventLayers
	// EventHistory fires when undo/redo availability changed.
	EventHistory
	// EventAssets fires when an asset delivery completed.
	EventAssets
	// EventNotice carries a short user-facing message in Event.Notice.
	EventNotice
)

// Event is the payload passed to every registered callback. Notice holds the
// message text for EventNotice and is empty for all other kinds.
type Event struct {
	Kind   EventKind
	Notice string
}

// EventSink receives a copy of every event the editor emits, independent of
// callback registrations. The ecs subpackage adapts a donburi world to this.
type EventSink interface {
	EmitEvent(Event)
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

type eventRegistry struct {
	handlers map[EventKind][]eventHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered editor callback.
type CallbackHandle struct {
	id   uint32
	reg  *eventRegistry
	kind EventKind
}

// Remove unregisters this callback so it no longer fires. It may be called
// from inside a callback; the emission in progress completes with the
// handler set it started with.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers[h.kind]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.handlers[h.kind] = s[:len(s)-1]
			return
		}
	}
}

// On registers a callback for one event kind. Callbacks run synchronously
// on the engine thread, after the operation that caused them completed.
func (e *Editor) On(kind EventKind, fn func(Event)) CallbackHandle {
	if e.handlers.handlers == nil {
		e.handlers.handlers = make(map[EventKind][]eventHandler)
	}
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.handlers[kind] = append(e.handlers.handlers[kind], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, kind: kind}
}

// SetEventSink installs a sink that receives every emitted event alongside
// registered callbacks. Pass nil to detach.
func (e *Editor) SetEventSink(sink EventSink) {
	e.sink = sink
}

// emit fires all callbacks registered for kind, then forwards to the sink.
func (e *Editor) emit(kind EventKind) {
	e.emitNotice(kind, "")
}

func (e *Editor) emitNotice(kind EventKind, notice string) {
	ev := Event{Kind: kind, Notice: notice}
	// Dispatch over a snapshot; a callback may remove itself or a sibling
	// without perturbing this emission.
	if hs := e.handlers.handlers[kind]; len(hs) > 0 {
		snap := make([]eventHandler, len(hs))
		copy(snap, hs)
		for _, h := range snap {
			h.fn(ev)
		}
	}
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}
