package core

import (
	"context"
	"sync"
	"sync/atomic"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// Event is a domain event emitted by the update-client state machine.
type Event interface {
	isEvent()
	// EventType returns the name of the event (e.g. "update_client")
	EventType() string
}

const (
	EventTypeUpdateClient = "update_client"
	EventTypeMisbehaviour = "client_misbehaviour"
)

var (
	_ Event = (*UpdateClientEvent)(nil)
	_ Event = (*MisbehaviourEvent)(nil)
)

// UpdateClientEvent is emitted when a client has been updated with a verified header.
type UpdateClientEvent struct {
	ClientID   string
	ClientType string
	Height     clienttypes.Height
	Header     ClientHeader
}

// MisbehaviourEvent is emitted when a header has caused a client to be frozen.
type MisbehaviourEvent struct {
	ClientID   string
	ClientType string
	Height     clienttypes.Height
	Header     ClientHeader
}

func (*UpdateClientEvent) isEvent() {}
func (*MisbehaviourEvent) isEvent() {}

func (*UpdateClientEvent) EventType() string { return EventTypeUpdateClient }
func (*MisbehaviourEvent) EventType() string { return EventTypeMisbehaviour }

// EventEmitter is a sink of domain events.
// EmitEvent is fire-and-forget: failures are the concern of the emitter.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event Event)
}

// EventEmitterFunc is an adapter to allow the use of ordinary functions as EventEmitter.
type EventEmitterFunc func(ctx context.Context, event Event)

func (f EventEmitterFunc) EmitEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// MultiEmitter emits an event to all the emitters in order.
type MultiEmitter []EventEmitter

var _ EventEmitter = MultiEmitter(nil)

func (m MultiEmitter) EmitEvent(ctx context.Context, event Event) {
	for _, e := range m {
		e.EmitEvent(ctx, event)
	}
}

// EventBus fans out events to subscribers.
//
// Publishing never blocks: when a subscriber's buffer is full, the event is
// dropped for that subscriber and counted in Dropped.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	nextID  uint64
	dropped atomic.Uint64
}

var _ EventEmitter = (*EventBus)(nil)

// NewEventBus returns a new EventBus
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[uint64]chan Event)}
}

// Subscribe returns a channel that receives the events published after this call.
// The channel is closed when `cancel` is called.
func (b *EventBus) Subscribe(bufferSize int) (events <-chan Event, cancel func()) {
	ch := make(chan Event, bufferSize)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *EventBus) EmitEvent(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			logger := GetModuleLogger("event-bus")
			logger.WarnContext(ctx, "event dropped", "event_type", event.EventType())
		}
	}
}

// Dropped returns the number of events dropped because of full subscriber buffers.
func (b *EventBus) Dropped() uint64 {
	return b.dropped.Load()
}
