package world

// SetResource installs v as the world-wide singleton of type T.
func SetResource[T any](w *World, v *T) {
	w.resources[typeOf[T]()] = v
}

// Resource returns the singleton of type T, if installed.
func Resource[T any](w *World) (*T, bool) {
	v, ok := w.resources[typeOf[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// ResourceOrInit returns the singleton of type T, installing init() first if missing.
func ResourceOrInit[T any](w *World, init func() *T) *T {
	if v, ok := Resource[T](w); ok {
		return v
	}
	v := init()
	SetResource(w, v)
	return v
}

// RemoveResource uninstalls the singleton of type T.
func RemoveResource[T any](w *World) {
	delete(w.resources, typeOf[T]())
}
