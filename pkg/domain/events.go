package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatchStart    EventType = "dispatch_start"
	EventDispatchEnd      EventType = "dispatch_end"
	EventSlotCall         EventType = "slot_call"
	EventSlotReturn       EventType = "slot_return"
	EventWritebackSkipped EventType = "writeback_skipped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent describes one dispatch pass.
type DispatchEvent struct {
	EventBase
	Collected []ObjectID    `json:"collected,omitempty"`
	Executed  int           `json:"executed"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// SlotEvent represents one slot invocation.
type SlotEvent struct {
	EventBase
	Object   ObjectID      `json:"object"`
	Index    int           `json:"index"`
	Kind     SlotKind      `json:"kind"`
	Command  string        `json:"command,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// WritebackEvent is emitted when a queue could not be written back because
// its object or its queue component no longer exists.
type WritebackEvent struct {
	EventBase
	Object ObjectID `json:"object"`
	Reason string   `json:"reason"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional.
type LifecycleHooks struct {
	OnDispatchStart    func(context.Context, *DispatchEvent)
	OnDispatchEnd      func(context.Context, *DispatchEvent)
	OnSlotCall         func(context.Context, *SlotEvent)
	OnSlotReturn       func(context.Context, *SlotEvent)
	OnWritebackSkipped func(context.Context, *WritebackEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDispatchStart:    chain(h.OnDispatchStart, other.OnDispatchStart),
		OnDispatchEnd:      chain(h.OnDispatchEnd, other.OnDispatchEnd),
		OnSlotCall:         chain(h.OnSlotCall, other.OnSlotCall),
		OnSlotReturn:       chain(h.OnSlotReturn, other.OnSlotReturn),
		OnWritebackSkipped: chain(h.OnWritebackSkipped, other.OnWritebackSkipped),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
