// Package ecs bridges arbor tree events into an ECS world.
//
// The adapter is [NewDonburiSink], which publishes selection, expansion,
// drag-start, and drop events into a [Donburi] world as typed events.
// Create an event type per id type with [NewEventType] (or use
// [StringEventType] for string ids) and subscribe to it in your systems.
//
// Usage:
//
//	tree.SetEventSink(ecs.NewDonburiSink(world, ecs.StringEventType))
//	ecs.StringEventType.Subscribe(world, onTreeEvent)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
