package runtime

import (
	"context"

	"github.com/aretw0/onclick/pkg/domain"
)

func (e *Engine) emitDispatchStart(ctx context.Context, ev *domain.DispatchEvent) {
	if e.hooks.OnDispatchStart != nil {
		e.hooks.OnDispatchStart(ctx, ev)
	}
}

func (e *Engine) emitDispatchEnd(ctx context.Context, ev *domain.DispatchEvent) {
	if e.hooks.OnDispatchEnd != nil {
		ev.Type = domain.EventDispatchEnd
		e.hooks.OnDispatchEnd(ctx, ev)
	}
}

func (e *Engine) emitSlotCall(ctx context.Context, ev *domain.SlotEvent) {
	if e.hooks.OnSlotCall != nil {
		e.hooks.OnSlotCall(ctx, ev)
	}
}

func (e *Engine) emitSlotReturn(ctx context.Context, ev *domain.SlotEvent) {
	if e.hooks.OnSlotReturn != nil {
		e.hooks.OnSlotReturn(ctx, ev)
	}
}

func (e *Engine) emitWritebackSkipped(ctx context.Context, ev *domain.WritebackEvent) {
	if e.hooks.OnWritebackSkipped != nil {
		e.hooks.OnWritebackSkipped(ctx, ev)
	}
}
