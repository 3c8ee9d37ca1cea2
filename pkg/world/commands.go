package world

import "github.com/aretw0/onclick/pkg/domain"

// Commands buffers world writes staged by an action. The buffer is applied right
// after the invocation that staged it, before the next action runs.
type Commands struct {
	queue []func(*World)
}

// Push stages an arbitrary world mutation.
func (c *Commands) Push(fn func(*World)) {
	c.queue = append(c.queue, fn)
}

// Spawn stages the creation of an object; then, if non-nil, runs with the new id.
func (c *Commands) Spawn(then func(*World, domain.ObjectID)) {
	c.Push(func(w *World) {
		id := w.Spawn()
		if then != nil {
			then(w, id)
		}
	})
}

// Despawn stages the removal of id.
func (c *Commands) Despawn(id domain.ObjectID) {
	c.Push(func(w *World) { w.Despawn(id) })
}

// SetInteraction stages an interaction change for id.
func (c *Commands) SetInteraction(id domain.ObjectID, state domain.Interaction) {
	c.Push(func(w *World) { _ = w.SetInteraction(id, state) })
}

// Press stages a complete click on id.
func (c *Commands) Press(id domain.ObjectID) {
	c.Push(func(w *World) { _ = w.Press(id) })
}

// InsertLater stages a Notify insert of v on id.
func InsertLater[T any](c *Commands, id domain.ObjectID, v *T) {
	c.Push(func(w *World) { _ = Insert(w, id, v) })
}

// Len returns the number of staged writes.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Apply runs the staged writes in order and empties the buffer.
func (c *Commands) Apply(w *World) {
	queue := c.queue
	c.queue = nil
	for _, fn := range queue {
		fn(w)
	}
}
