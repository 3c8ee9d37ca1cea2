package http

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/onclick/pkg/domain"
)

// Events fans dispatch lifecycle events out to SSE subscribers.
// Slow subscribers drop events rather than block the dispatch pass.
type Events struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
	size int
}

// NewEvents creates a broadcaster whose subscribers buffer up to size events.
func NewEvents(size int) *Events {
	if size <= 0 {
		size = 64
	}
	return &Events{subs: make(map[chan []byte]struct{}), size: size}
}

// Subscribe returns a channel of JSON encoded events. It is closed when ctx is done.
func (e *Events) Subscribe(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, e.size)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, ch)
		close(ch)
		e.mu.Unlock()
	}()
	return ch
}

func (e *Events) publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Hooks returns lifecycle hooks publishing every event.
func (e *Events) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatchStart:    func(_ context.Context, ev *domain.DispatchEvent) { e.publish(ev) },
		OnDispatchEnd:      func(_ context.Context, ev *domain.DispatchEvent) { e.publish(ev) },
		OnSlotCall:         func(_ context.Context, ev *domain.SlotEvent) { e.publish(ev) },
		OnSlotReturn:       func(_ context.Context, ev *domain.SlotEvent) { e.publish(ev) },
		OnWritebackSkipped: func(_ context.Context, ev *domain.WritebackEvent) { e.publish(ev) },
	}
}
