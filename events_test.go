package aspen

import "testing"

type collectingSink struct {
	events []Event
}

func (s *collectingSink) EmitEvent(ev Event) {
	s.events = append(s.events, ev)
}

func TestOn_FiresForMatchingKind(t *testing.T) {
	e := newTestEditor()
	var got []EventKind
	e.On(EventDocument, func(ev Event) { got = append(got, ev.Kind) })
	e.On(EventView, func(ev Event) { got = append(got, ev.Kind) })

	e.DrawCell(CellCoord{0, 0})

	if len(got) != 1 || got[0] != EventDocument {
		t.Fatalf("callbacks fired for %v, want [EventDocument]", got)
	}

	e.Pan(Vec2{10, 0})
	if len(got) != 2 || got[1] != EventView {
		t.Fatalf("callbacks fired for %v, want document then view", got)
	}
}

func TestCallbackHandle_Remove(t *testing.T) {
	e := newTestEditor()
	calls := 0
	h := e.On(EventDocument, func(Event) { calls++ })

	e.DrawCell(CellCoord{0, 0})
	h.Remove()
	e.DrawCell(CellCoord{1, 0})

	if calls != 1 {
		t.Errorf("callback fired %d times, want 1", calls)
	}
}

func TestCallbackHandle_RemoveKeepsOthers(t *testing.T) {
	e := newTestEditor()
	var first, second int
	h1 := e.On(EventDocument, func(Event) { first++ })
	e.On(EventDocument, func(Event) { second++ })

	h1.Remove()
	e.DrawCell(CellCoord{0, 0})

	if first != 0 {
		t.Errorf("removed callback fired %d times", first)
	}
	if second != 1 {
		t.Errorf("surviving callback fired %d times, want 1", second)
	}
}

func TestCallbackHandle_RemoveSelfDuringDispatch(t *testing.T) {
	e := newTestEditor()
	var first, second int
	var h1 CallbackHandle
	h1 = e.On(EventDocument, func(Event) {
		first++
		h1.Remove()
	})
	e.On(EventDocument, func(Event) { second++ })

	e.DrawCell(CellCoord{0, 0})
	if first != 1 || second != 1 {
		t.Fatalf("first emission ran callbacks %d/%d times, want 1/1", first, second)
	}

	e.DrawCell(CellCoord{1, 0})
	if first != 1 {
		t.Errorf("self-removed callback fired again, %d total", first)
	}
	if second != 2 {
		t.Errorf("surviving callback fired %d times, want 2", second)
	}
}

func TestCallbackHandle_RemoveSiblingDuringDispatch(t *testing.T) {
	e := newTestEditor()
	var h2 CallbackHandle
	var order []string
	e.On(EventDocument, func(Event) {
		order = append(order, "first")
		h2.Remove()
	})
	h2 = e.On(EventDocument, func(Event) { order = append(order, "second") })
	e.On(EventDocument, func(Event) { order = append(order, "third") })

	e.DrawCell(CellCoord{0, 0})

	// The emission in progress keeps its handler set; removal takes effect
	// on the next one.
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("callbacks ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("callbacks ran %v, want %v", order, want)
		}
	}

	order = order[:0]
	e.DrawCell(CellCoord{1, 0})
	if len(order) != 2 || order[0] != "first" || order[1] != "third" {
		t.Errorf("second emission ran %v, want [first third]", order)
	}
}

func TestEventSink_ReceivesEveryEmission(t *testing.T) {
	e := newTestEditor()
	sink := &collectingSink{}
	e.SetEventSink(sink)

	e.DrawCell(CellCoord{0, 0})
	e.Record()
	e.Pan(Vec2{5, 5})

	want := []EventKind{EventDocument, EventHistory, EventView}
	if len(sink.events) != len(want) {
		t.Fatalf("sink received %d events, want %d", len(sink.events), len(want))
	}
	for i, k := range want {
		if sink.events[i].Kind != k {
			t.Errorf("event %d kind = %v, want %v", i, sink.events[i].Kind, k)
		}
	}

	e.SetEventSink(nil)
	e.DrawCell(CellCoord{1, 0})
	if len(sink.events) != len(want) {
		t.Error("detached sink still receives events")
	}
}

func TestNoticeCarriesMessage(t *testing.T) {
	e := newTestEditor()
	sink := &collectingSink{}
	e.SetEventSink(sink)

	if err := e.RemoveLayer(0); err != ErrLastLayer {
		t.Fatalf("RemoveLayer = %v, want ErrLastLayer", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Kind != EventNotice || ev.Notice == "" {
		t.Errorf("event = %+v, want a notice with a message", ev)
	}
}

func TestEmit_CallbacksRunBeforeSink(t *testing.T) {
	e := newTestEditor()
	var order []string
	e.SetEventSink(sinkFunc(func(Event) { order = append(order, "sink") }))
	e.On(EventDocument, func(Event) { order = append(order, "callback") })

	e.DrawCell(CellCoord{0, 0})

	if len(order) != 2 || order[0] != "callback" || order[1] != "sink" {
		t.Errorf("emission order = %v, want [callback sink]", order)
	}
}

type sinkFunc func(Event)

func (f sinkFunc) EmitEvent(ev Event) { f(ev) }
