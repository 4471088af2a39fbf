package types

import (
	"sync"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

const (
	EventTypeDispatch     = "dispatch"
	EventTypeUpdate       = "update"
	EventTypeDoubleUpdate = "double_update"
	EventTypeProve        = "prove"
	EventTypeProcess      = "process"
)

// Event is emitted by a home or replica after a state change is committed.
type Event interface {
	EventType() string
}

// EventDispatch is emitted for every dispatched message.
type EventDispatch struct {
	Leaf                   ethcmn.Hash
	LeafIndex              uint32
	DestinationAndSequence uint64
	CommittedRoot          ethcmn.Hash
	Message                []byte
}

// EventUpdate is emitted when a signed update advances the current root.
type EventUpdate struct {
	HomeDomain uint32
	OldRoot    ethcmn.Hash
	NewRoot    ethcmn.Hash
	Signature  []byte
}

// EventDoubleUpdate is emitted when a fraud proof fails the instance.
type EventDoubleUpdate struct {
	OldRoot    ethcmn.Hash
	NewRoots   [2]ethcmn.Hash
	Signatures [2][]byte
}

// EventProve is emitted when a leaf becomes pending.
type EventProve struct {
	Leaf ethcmn.Hash
}

// EventProcess is emitted when a leaf is processed. Success reports whether
// the recipient handled the message without error.
type EventProcess struct {
	Leaf    ethcmn.Hash
	Success bool
}

func (EventDispatch) EventType() string     { return EventTypeDispatch }
func (EventUpdate) EventType() string       { return EventTypeUpdate }
func (EventDoubleUpdate) EventType() string { return EventTypeDoubleUpdate }
func (EventProve) EventType() string        { return EventTypeProve }
func (EventProcess) EventType() string      { return EventTypeProcess }

// EventSink receives committed events.
type EventSink interface {
	Emit(Event)
}

// NopEventSink drops every event.
type NopEventSink struct{}

func (NopEventSink) Emit(Event) {}

// EventRecorder keeps every emitted event in order.
type EventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *EventRecorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// EventsOfType returns the recorded events of the given type.
func (r *EventRecorder) EventsOfType(eventType string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
