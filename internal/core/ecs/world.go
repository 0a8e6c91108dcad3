package ecs

// World is the top-level object container. It owns the entity pool, the
// component set, the store registry, and a deferred destruction queue flushed
// by CleanupSystem each tick.
// Single-goroutine access only (game loop).
type World struct {
	pool         *EntityPool
	registry     *Registry
	components   *ComponentSet
	destroyQueue []EntityID
}

func NewWorld() *World {
	w := &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		components:   NewComponentSet(),
		destroyQueue: make([]EntityID, 0, 64),
	}
	w.registry.Register(w.components)
	return w
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Attach adds a component to a live entity. Attaching to a dead entity is ignored.
func (w *World) Attach(id EntityID, c any) {
	if !w.pool.Alive(id) {
		return
	}
	w.components.Attach(id, c)
}

func (w *World) Detach(id EntityID, c any) {
	w.components.Detach(id, c)
}

// Components returns the components of a live entity, or nil.
func (w *World) Components(id EntityID) []any {
	if !w.pool.Alive(id) {
		return nil
	}
	return w.components.Get(id)
}

// Destroy removes the entity and all of its store data immediately.
func (w *World) Destroy(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction returns the number of queued entities.
func (w *World) PendingDestruction() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their store data.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
