package world

import (
	"reflect"
	"slices"

	"github.com/aretw0/onclick/pkg/domain"
)

// WriteMode selects whether a write is observable as a change.
type WriteMode int

const (
	// Notify advances the change tick, stamps the component and notifies observers.
	Notify WriteMode = iota
	// Silent stores the value without touching change tracking.
	Silent
)

// ChangeEvent is delivered to observers for every Notify write.
type ChangeEvent struct {
	Object    domain.ObjectID
	Component string
	Tick      uint64
	Removed   bool
}

type entry struct {
	value   any
	changed uint64
}

// World is the object/component store.
type World struct {
	nextID    domain.ObjectID
	order     []domain.ObjectID
	alive     map[domain.ObjectID]struct{}
	stores    map[reflect.Type]map[domain.ObjectID]*entry
	resources map[reflect.Type]any
	tick      uint64
	observers []func(ChangeEvent)
}

// New creates an empty world.
func New() *World {
	return &World{
		alive:     make(map[domain.ObjectID]struct{}),
		stores:    make(map[reflect.Type]map[domain.ObjectID]*entry),
		resources: make(map[reflect.Type]any),
	}
}

// Spawn creates a new object and returns its id.
func (w *World) Spawn() domain.ObjectID {
	w.nextID++
	id := w.nextID
	w.alive[id] = struct{}{}
	w.order = append(w.order, id)
	return id
}

// Despawn removes an object and all of its components.
// It reports whether the object existed.
func (w *World) Despawn(id domain.ObjectID) bool {
	if _, ok := w.alive[id]; !ok {
		return false
	}
	delete(w.alive, id)
	for _, store := range w.stores {
		delete(store, id)
	}
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	w.tick++
	w.notify(ChangeEvent{Object: id, Tick: w.tick, Removed: true})
	return true
}

// Exists reports whether id names a live object.
func (w *World) Exists(id domain.ObjectID) bool {
	_, ok := w.alive[id]
	return ok
}

// Objects returns the live objects in spawn order.
func (w *World) Objects() []domain.ObjectID {
	return slices.Clone(w.order)
}

// Len returns the number of live objects.
func (w *World) Len() int {
	return len(w.order)
}

// ChangeTick returns the tick of the most recent Notify write.
func (w *World) ChangeTick() uint64 {
	return w.tick
}

// Observe registers fn to receive every Notify write.
func (w *World) Observe(fn func(ChangeEvent)) {
	w.observers = append(w.observers, fn)
}

func (w *World) notify(ev ChangeEvent) {
	for _, fn := range w.observers {
		fn(ev)
	}
}

func (w *World) store(t reflect.Type) map[domain.ObjectID]*entry {
	s, ok := w.stores[t]
	if !ok {
		s = make(map[domain.ObjectID]*entry)
		w.stores[t] = s
	}
	return s
}

func (w *World) write(t reflect.Type, id domain.ObjectID, v any, mode WriteMode) error {
	if !w.Exists(id) {
		return domain.ErrObjectNotFound
	}
	s := w.store(t)
	e, ok := s[id]
	if !ok {
		e = &entry{}
		s[id] = e
	}
	e.value = v
	if mode == Notify {
		w.tick++
		e.changed = w.tick
		w.notify(ChangeEvent{Object: id, Component: t.String(), Tick: w.tick})
	}
	return nil
}
