package events

import "moviewrite/core/types"

// Event represents a structured state change emitted by a ledger engine.
type Event interface {
	EventType() string
}

// Payload is implemented by events that can be rendered into the persisted
// log representation.
type Payload interface {
	Event
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Buffer collects the events raised while an operation executes so they can be
// appended to the log only after the operation commits.
type Buffer struct {
	events []*types.Event
}

// Emit implements the Emitter interface. Events that do not carry a payload
// are dropped.
func (b *Buffer) Emit(evt Event) {
	if b == nil || evt == nil {
		return
	}
	payload, ok := evt.(Payload)
	if !ok {
		return
	}
	rendered := payload.Event()
	if rendered == nil {
		return
	}
	b.events = append(b.events, rendered.Clone())
}

// Events returns the buffered events in emission order.
func (b *Buffer) Events() []*types.Event {
	if b == nil {
		return nil
	}
	out := make([]*types.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Reset drops everything buffered so far.
func (b *Buffer) Reset() {
	if b != nil {
		b.events = nil
	}
}

// Len reports the number of buffered events.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.events)
}
