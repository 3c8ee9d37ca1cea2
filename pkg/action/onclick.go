package action

import (
	"fmt"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// OnClick is the action queue attached to an interactive object. Builder methods
// append and never remove or reorder. The zero value is an empty queue.
//
// A queue belongs to one object at a time. Use Attach rather than world.Insert
// so a queue shared between two objects is rejected.
type OnClick struct {
	slots   []*Slot
	cleared bool
	owner   domain.ObjectID
}

// Attach installs q as the action queue of id, replacing any previous one.
// It fails with domain.ErrQueueShared if another live object still holds q.
func Attach(w *world.World, id domain.ObjectID, q *OnClick) error {
	if q == nil {
		return fmt.Errorf("attach to %s: nil queue", id)
	}
	if !w.Exists(id) {
		return domain.ErrObjectNotFound
	}
	if err := q.Claim(w, id); err != nil {
		return err
	}
	return world.Insert(w, id, q)
}

// Claim makes id the owner of q. A previous owner that was despawned or no
// longer carries q gives it up.
func (q *OnClick) Claim(w *world.World, id domain.ObjectID) error {
	if q.owner != 0 && q.owner != id {
		if held, ok := world.Get[OnClick](w, q.owner); ok && held == q {
			return fmt.Errorf("%w: %s holds it", domain.ErrQueueShared, q.owner)
		}
	}
	q.owner = id
	return nil
}

// Owner returns the object that last claimed q, or zero.
func (q *OnClick) Owner() domain.ObjectID {
	return q.owner
}

// New creates an empty queue.
func New() *OnClick {
	return &OnClick{}
}

// System appends a System slot.
func (q *OnClick) System(s System) *OnClick {
	q.slots = append(q.slots, &Slot{kind: domain.SlotSystem, system: s})
	return q
}

// Func appends a System slot built from run.
func (q *OnClick) Func(run RunFunc) *OnClick {
	return q.System(Func(run))
}

// EntitySystem appends a slot that receives the triggering object's id.
func (q *OnClick) EntitySystem(s EntitySystem) *OnClick {
	q.slots = append(q.slots, &Slot{kind: domain.SlotEntitySystem, entity: s})
	return q
}

// EntityFunc appends an EntitySystem slot built from run.
func (q *OnClick) EntityFunc(run EntityRunFunc) *OnClick {
	return q.EntitySystem(EntityFunc(run))
}

// Command appends a slot that forwards command to the configured Interpreter.
func (q *OnClick) Command(command string) *OnClick {
	q.slots = append(q.slots, &Slot{kind: domain.SlotDelegated, command: command})
	return q
}

// Len returns the number of slots currently in the queue.
func (q *OnClick) Len() int {
	return len(q.slots)
}

// Kinds lists the slot kinds in queue order.
func (q *OnClick) Kinds() []domain.SlotKind {
	kinds := make([]domain.SlotKind, len(q.slots))
	for i, s := range q.slots {
		kinds[i] = s.kind
	}
	return kinds
}

// Commands returns the command strings of the delegated slots, in order.
func (q *OnClick) Commands() []string {
	var out []string
	for _, s := range q.slots {
		if s.kind == domain.SlotDelegated {
			out = append(out, s.command)
		}
	}
	return out
}

// Clear drops every slot. Called from a running action on its own object's
// queue, it also discards the slots being executed, so nothing is written back.
func (q *OnClick) Clear() {
	q.slots = nil
	q.cleared = true
}

// Taken holds the slots removed from a queue for one dispatch pass.
type Taken struct {
	from  *OnClick
	Slots []*Slot
}

// Take moves every slot out of q, leaving it empty.
func (q *OnClick) Take() Taken {
	t := Taken{from: q, Slots: q.slots}
	q.slots = nil
	q.cleared = false
	return t
}

// Restore writes the taken slots back into q.
//
// The executed slots come first, followed by anything appended to q while they
// ran. If q was cleared meanwhile, only the later appends survive. If q is a
// different queue than the one the slots were taken from, the object's queue was
// replaced and is left as it is.
func (q *OnClick) Restore(t Taken) {
	defer func() { q.cleared = false }()
	if t.from != nil && t.from != q {
		return
	}
	if q.cleared {
		return
	}
	q.slots = append(t.Slots, q.slots...)
}
