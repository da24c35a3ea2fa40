// Package ecs provides ECS adapters for aspen's editor event system.
//
// The primary adapter is [NewDonburiSink], which bridges aspen editor events
// (document, selection, view, layers, history, assets, notices) into a
// [Donburi] world as typed events. Subscribe to [EditorEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
