package ecs

// First returns the first component on the entity that implements T.
// Dead entities have no components.
func First[T any](w *World, id EntityID) (T, bool) {
	var zero T
	if !w.Alive(id) {
		return zero, false
	}
	for _, c := range w.components.Get(id) {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// All returns every component on the entity that implements T, in attach order.
func All[T any](w *World, id EntityID) []T {
	if !w.Alive(id) {
		return nil
	}
	var out []T
	for _, c := range w.components.Get(id) {
		if t, ok := c.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
