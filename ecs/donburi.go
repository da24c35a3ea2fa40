package ecs

import (
	"github.com/phanxgames/aspen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditorEventType is the Donburi event type for aspen editor events.
// Subscribe to this in your ECS systems to react to document, selection,
// view, layer, history, asset, and notice changes.
var EditorEventType = events.NewEventType[aspen.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Editor events are published to EditorEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) aspen.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event aspen.Event) {
	EditorEventType.Publish(s.world, event)
}
