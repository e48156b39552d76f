// Package events provides the in-process event log plumbing: a non-blocking
// bus plus a recorder that drains it into the store.
package events

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/model"
)

// Event codes recorded by the service.
const (
	CodeDecisionMade      = "DECISION_MADE"
	CodeValuesInitialized = "VALUES_INITIALIZED"
	CodeValuesUpdated     = "VALUES_UPDATED"
	CodeRuleCreated       = "RULE_CREATED"
	CodeRuleDeleted       = "RULE_DELETED"
	CodeFeedbackReceived  = "FEEDBACK_RECEIVED"
)

// Sink accepts events without blocking the caller. Emitting is always
// fire-and-forget; dropped events must never fail a request.
type Sink interface {
	Emit(ev model.Event)
}

// Bus is a lightweight in-process pub-sub implementation backed by a buffered
// channel. Publish never blocks; events are dropped when the buffer is full.
type Bus struct {
	ch      chan model.Event
	dropped atomic.Int64
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{ch: make(chan model.Event, buffer)}
}

// Emit enqueues the event, filling in identity and timestamp when missing.
func (b *Bus) Emit(ev model.Event) {
	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.Level == "" {
		ev.Level = model.EventInfo
	}
	select {
	case b.ch <- ev:
	default:
		b.dropped.Add(1)
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan model.Event { return b.ch }

// Dropped reports how many events were discarded because the buffer was full.
func (b *Bus) Dropped() int64 { return b.dropped.Load() }

// Close stops accepting events. Emit after Close panics; callers stop emitting
// before shutdown.
func (b *Bus) Close() { close(b.ch) }

// NopSink discards every event. Used in tests and when event logging is off.
type NopSink struct{}

func (NopSink) Emit(model.Event) {}
