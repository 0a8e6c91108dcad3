package ecs

// Removable is implemented by all per-entity stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// ComponentSet holds the components attached to each entity in attach order.
// Components are opaque values; capability checks happen at query time with
// a type assertion (see First and All).
type ComponentSet struct {
	data map[EntityID][]any
}

func NewComponentSet() *ComponentSet {
	return &ComponentSet{
		data: make(map[EntityID][]any, 256),
	}
}

// Attach appends c to the entity's component list. Attaching the same
// pointer twice is a no-op.
func (s *ComponentSet) Attach(id EntityID, c any) {
	list := s.data[id]
	for _, existing := range list {
		if sameComponent(existing, c) {
			return
		}
	}
	s.data[id] = append(list, c)
}

// Detach removes c from the entity's component list.
func (s *ComponentSet) Detach(id EntityID, c any) {
	list := s.data[id]
	for i, existing := range list {
		if sameComponent(existing, c) {
			s.data[id] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Get returns the entity's components. The slice is owned by the set.
func (s *ComponentSet) Get(id EntityID) []any {
	return s.data[id]
}

func (s *ComponentSet) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *ComponentSet) Len() int {
	return len(s.data)
}

// sameComponent compares by identity. Non-comparable values (slices, maps)
// are never considered equal, which keeps Attach from panicking on them.
func sameComponent(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
