package ecs

// Registry tracks all per-entity stores and supports bulk cleanup on entity destroy.
// Packages that keep their own per-entity state (scene membership, hierarchy)
// register a Removable here so a destroyed entity leaves nothing behind.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

// Register adds a store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
