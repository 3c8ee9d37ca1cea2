package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// pending is a queue taken from an object during Collect.
type pending struct {
	id    domain.ObjectID
	taken action.Taken
}

// Run satisfies schedule.Pass.
func (e *Engine) Run(ctx context.Context, w *world.World) error {
	return e.Dispatch(ctx, w)
}

// Dispatch runs one Scan, Collect, Execute, Writeback pass over w.
//
// Every queue is taken before any slot runs, so slots are free to despawn objects
// or edit queues. An object's slots run in append order and complete before the
// next object's. A failing slot stops its own queue, every taken queue is still
// written back, and the error is returned as a *domain.SlotError. Objects
// collected after the failing one keep their press and run on the next pass.
func (e *Engine) Dispatch(ctx context.Context, w *world.World) (err error) {
	start := time.Now()
	since := e.lastCheck
	e.lastCheck = w.ChangeTick()

	batch := e.collect(w, since)
	if len(batch) == 0 {
		return nil
	}

	ev := &domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventDispatchStart},
		Collected: make([]domain.ObjectID, len(batch)),
	}
	for i, p := range batch {
		ev.Collected[i] = p.id
	}
	e.emitDispatchStart(ctx, ev)
	e.logger.DebugContext(ctx, "dispatch collected", "objects", len(batch))

	// next is the first batch entry not yet written back. Entries after
	// running never executed and are re-armed.
	next, running := 0, 0
	defer func() {
		for ; next < len(batch); next++ {
			e.writeback(ctx, w, batch[next])
			if next > running {
				e.rearm(ctx, w, batch[next].id)
			}
		}
		ev.Duration = time.Since(start)
		ev.Err = err
		e.emitDispatchEnd(ctx, ev)
	}()

	for next < len(batch) {
		running = next
		p := batch[next]
		n, runErr := e.execute(ctx, w, p)
		ev.Executed += n
		e.writeback(ctx, w, p)
		next++
		if runErr != nil {
			e.logger.DebugContext(ctx, "dispatch aborted", "object", p.id, "err", runErr)
			return runErr
		}
	}
	return nil
}

// collect scans objects with a queue and a fresh interaction, skipping
// suppressed ones, and takes the queues of those that were pressed.
func (e *Engine) collect(w *world.World, since uint64) []pending {
	var batch []pending
	for _, id := range world.Query[action.OnClick](w) {
		if !world.ChangedSince[domain.Interaction](w, id, since) || w.IsDisabled(id) {
			continue
		}
		if state, _ := w.InteractionOf(id); state != domain.InteractionPressed {
			continue
		}
		q, _ := world.Get[action.OnClick](w, id)
		if err := q.Claim(w, id); err != nil {
			e.logger.Warn("press ignored: queue shared", "object", id, "err", err)
			continue
		}
		taken := q.Take()
		_ = world.Set(w, id, q, world.Silent)
		batch = append(batch, pending{id: id, taken: taken})
	}
	return batch
}

// execute runs the slots of one taken queue and returns how many completed.
func (e *Engine) execute(ctx context.Context, w *world.World, p pending) (int, error) {
	done := 0
	for i, slot := range p.taken.Slots {
		if slot.Kind() == domain.SlotDelegated && e.interpreter == nil {
			e.logger.WarnContext(ctx, "skipping delegated slot without interpreter",
				"object", p.id,
				"index", i,
				"command", slot.Command(),
			)
			continue
		}

		sev := &domain.SlotEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSlotCall},
			Object:    p.id,
			Index:     i,
			Kind:      slot.Kind(),
			Command:   slot.Command(),
		}
		e.emitSlotCall(ctx, sev)

		err := slot.Invoke(ctx, p.id, w, e.interpreter)

		sev.Type = domain.EventSlotReturn
		sev.Duration = time.Since(sev.Timestamp)
		sev.IsError = err != nil
		e.emitSlotReturn(ctx, sev)

		if err != nil {
			var slotErr *domain.SlotError
			if errors.As(err, &slotErr) {
				slotErr.Index = i
			}
			return done, err
		}
		done++
	}
	return done, nil
}

// writeback returns the taken slots to the object's queue. Objects despawned
// during the pass, or whose queue was removed, are skipped silently.
func (e *Engine) writeback(ctx context.Context, w *world.World, p pending) {
	if !w.Exists(p.id) {
		e.skipWriteback(ctx, p.id, "object despawned")
		return
	}
	q, ok := world.Get[action.OnClick](w, p.id)
	if !ok {
		e.skipWriteback(ctx, p.id, "queue removed")
		return
	}
	q.Restore(p.taken)
	_ = world.Set(w, p.id, q, world.Silent)
}

// rearm stamps the interaction of id as fresh again so a press collected by an
// aborted pass is seen by the next one.
func (e *Engine) rearm(ctx context.Context, w *world.World, id domain.ObjectID) {
	if state, _ := w.InteractionOf(id); state != domain.InteractionPressed {
		return
	}
	if world.MarkChanged[domain.Interaction](w, id) {
		e.logger.DebugContext(ctx, "press carried to next pass", "object", id)
	}
}

func (e *Engine) skipWriteback(ctx context.Context, id domain.ObjectID, reason string) {
	e.logger.DebugContext(ctx, "writeback skipped", "object", id, "reason", reason)
	e.emitWritebackSkipped(ctx, &domain.WritebackEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventWritebackSkipped},
		Object:    id,
		Reason:    reason,
	})
}
