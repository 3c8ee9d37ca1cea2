package world

import (
	"reflect"

	"github.com/aretw0/onclick/pkg/domain"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Insert attaches v to id with a Notify write, replacing any previous value.
func Insert[T any](w *World, id domain.ObjectID, v *T) error {
	return w.write(typeOf[T](), id, v, Notify)
}

// Set writes v to id using the given mode.
func Set[T any](w *World, id domain.ObjectID, v *T, mode WriteMode) error {
	return w.write(typeOf[T](), id, v, mode)
}

// Get returns the component of type T attached to id.
func Get[T any](w *World, id domain.ObjectID) (*T, bool) {
	e, ok := w.stores[typeOf[T]()][id]
	if !ok {
		return nil, false
	}
	return e.value.(*T), true
}

// Has reports whether id carries a component of type T.
func Has[T any](w *World, id domain.ObjectID) bool {
	_, ok := w.stores[typeOf[T]()][id]
	return ok
}

// Remove detaches the component of type T from id.
func Remove[T any](w *World, id domain.ObjectID) bool {
	t := typeOf[T]()
	s := w.stores[t]
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	w.tick++
	w.notify(ChangeEvent{Object: id, Component: t.String(), Tick: w.tick, Removed: true})
	return true
}

// MarkChanged stamps the component of type T on id as changed, for mutations
// made in place through the pointer returned by Get.
func MarkChanged[T any](w *World, id domain.ObjectID) bool {
	t := typeOf[T]()
	e, ok := w.stores[t][id]
	if !ok {
		return false
	}
	w.tick++
	e.changed = w.tick
	w.notify(ChangeEvent{Object: id, Component: t.String(), Tick: w.tick})
	return true
}

// ChangedSince reports whether the component of type T on id received a Notify
// write after tick.
func ChangedSince[T any](w *World, id domain.ObjectID, tick uint64) bool {
	e, ok := w.stores[typeOf[T]()][id]
	return ok && e.changed > tick
}

// Query returns the live objects carrying a component of type T, in spawn order.
func Query[T any](w *World) []domain.ObjectID {
	s := w.stores[typeOf[T]()]
	if len(s) == 0 {
		return nil
	}
	out := make([]domain.ObjectID, 0, len(s))
	for _, id := range w.order {
		if _, ok := s[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
