package scene

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	"go.uber.org/zap"
)

// Manager owns the loaded scenes and the object hierarchy.
// Single-goroutine access only (game loop), no locks.
type Manager struct {
	world   *ecs.World
	bus     *event.Bus
	log     *zap.Logger
	scenes  map[Handle]*Scene
	order   []Handle // loaded content scenes, load order
	current Handle
	next    Handle
	objects map[ecs.EntityID]*object
}

func NewManager(world *ecs.World, bus *event.Bus, log *zap.Logger) *Manager {
	m := &Manager{
		world:   world,
		bus:     bus,
		log:     log,
		scenes:  make(map[Handle]*Scene, 8),
		next:    firstContentHandle,
		objects: make(map[ecs.EntityID]*object, 256),
	}
	m.scenes[Persistent] = &Scene{Handle: Persistent, Name: PersistentSceneName}
	world.Registry().Register(m)
	return m
}

// ── Scenes ────────────────────────────────────────────────────────

// Load opens a new instance of the named scene. Single mode unloads every
// content scene first and makes the new scene current; Additive keeps them
// and only makes the new scene current when nothing else is.
func (m *Manager) Load(name string, mode LoadMode) Handle {
	if mode == Single {
		for len(m.order) > 0 {
			m.Unload(m.order[len(m.order)-1])
		}
	}
	h := m.next
	m.next++
	m.scenes[h] = &Scene{Handle: h, Name: name}
	m.order = append(m.order, h)

	event.Emit(m.bus, event.SceneLoaded{Scene: int32(h), Name: name, Additive: mode == Additive})
	if m.current == None {
		m.setCurrent(h)
	}
	m.log.Debug("scene loaded",
		zap.String("scene", name),
		zap.Int32("handle", int32(h)),
		zap.Bool("additive", mode == Additive),
	)
	return h
}

// Unload destroys every object in a content scene and closes it. The
// Persistent scene and unknown handles are refused.
func (m *Manager) Unload(h Handle) bool {
	s, ok := m.scenes[h]
	if !ok || h == Persistent {
		return false
	}
	roots := append([]ecs.EntityID(nil), s.roots...)
	for _, r := range roots {
		m.Destroy(r)
	}
	delete(m.scenes, h)
	for i, o := range m.order {
		if o == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	event.Emit(m.bus, event.SceneUnloaded{Scene: int32(h), Name: s.Name})
	if m.current == h {
		next := None
		if len(m.order) > 0 {
			next = m.order[len(m.order)-1]
		}
		m.setCurrent(next)
	}
	m.log.Debug("scene unloaded", zap.String("scene", s.Name), zap.Int32("handle", int32(h)))
	return true
}

// SetActive makes a loaded content scene the current one.
func (m *Manager) SetActive(h Handle) bool {
	if h == Persistent {
		return false
	}
	if _, ok := m.scenes[h]; !ok {
		return false
	}
	m.setCurrent(h)
	return true
}

func (m *Manager) setCurrent(h Handle) {
	if m.current == h {
		return
	}
	prev := m.current
	m.current = h
	event.Emit(m.bus, event.ActiveSceneChanged{Previous: int32(prev), Current: int32(h)})
}

// Scene returns a loaded scene, including Persistent.
func (m *Manager) Scene(h Handle) (*Scene, bool) {
	s, ok := m.scenes[h]
	return s, ok
}

// Scenes returns the loaded content scenes in load order.
func (m *Manager) Scenes() []Handle {
	return append([]Handle(nil), m.order...)
}

// Name returns the scene name for h, or "" when h is not loaded.
func (m *Manager) Name(h Handle) string {
	if s, ok := m.scenes[h]; ok {
		return s.Name
	}
	return ""
}

// Lookup returns the most recently loaded content scene with the given name.
func (m *Manager) Lookup(name string) (Handle, bool) {
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.scenes[m.order[i]].Name == name {
			return m.order[i], true
		}
	}
	if name == PersistentSceneName {
		return Persistent, true
	}
	return None, false
}

// ResetWorld destroys every object in every scene, the Persistent scene
// included, and closes all content scenes.
func (m *Manager) ResetWorld() {
	for len(m.order) > 0 {
		m.Unload(m.order[len(m.order)-1])
	}
	p := m.scenes[Persistent]
	roots := append([]ecs.EntityID(nil), p.roots...)
	for _, r := range roots {
		m.Destroy(r)
	}
	m.setCurrent(None)
	event.Emit(m.bus, event.WorldReset{})
	m.log.Info("world reset")
}

// ── Objects ───────────────────────────────────────────────────────

// Spawn creates an enabled object. With a live parent the object joins the
// parent's scene and the scene argument is ignored; otherwise it becomes a
// root of the given loaded scene. Returns the zero EntityID when neither
// the parent nor the scene is valid.
func (m *Manager) Spawn(h Handle, parent ecs.EntityID, flags Flags, components ...any) ecs.EntityID {
	var po *object
	if !parent.IsZero() {
		po = m.live(parent)
		if po == nil {
			return 0
		}
		h = po.scene
	}
	s, ok := m.scenes[h]
	if !ok {
		return 0
	}

	id := m.world.CreateEntity()
	for _, c := range components {
		m.world.Attach(id, c)
	}
	m.objects[id] = &object{scene: h, parent: parent, flags: flags, enabled: true}
	if po != nil {
		po.children = append(po.children, id)
	} else {
		s.roots = append(s.roots, id)
	}
	if m.ActiveInHierarchy(id) {
		event.Emit(m.bus, event.ObjectEnabled{Entity: id})
	}
	return id
}

// SetEnabled toggles an object's own enabled flag and emits enable/disable
// events for every object in its subtree whose effective state changes.
func (m *Manager) SetEnabled(id ecs.EntityID, enabled bool) {
	o := m.live(id)
	if o == nil || o.enabled == enabled {
		return
	}
	subtree := m.subtree(id)
	before := make([]bool, len(subtree))
	for i, e := range subtree {
		before[i] = m.ActiveInHierarchy(e)
	}
	o.enabled = enabled
	for i, e := range subtree {
		after := m.ActiveInHierarchy(e)
		switch {
		case after && !before[i]:
			event.Emit(m.bus, event.ObjectEnabled{Entity: e})
		case !after && before[i]:
			event.Emit(m.bus, event.ObjectDisabled{Entity: e})
		}
	}
}

// ActiveInHierarchy reports whether the object and all its ancestors are enabled.
func (m *Manager) ActiveInHierarchy(id ecs.EntityID) bool {
	for !id.IsZero() {
		o := m.live(id)
		if o == nil || !o.enabled {
			return false
		}
		id = o.parent
	}
	return true
}

// DontDestroyOnLoad moves the object's root, with its whole subtree, into the
// Persistent scene.
func (m *Manager) DontDestroyOnLoad(id ecs.EntityID) {
	root := m.Root(id)
	o := m.live(root)
	if o == nil || o.scene == Persistent {
		return
	}
	if s, ok := m.scenes[o.scene]; ok {
		s.removeRoot(root)
	}
	p := m.scenes[Persistent]
	p.roots = append(p.roots, root)
	for _, e := range m.subtree(root) {
		m.objects[e].scene = Persistent
	}
}

// Destroy disables and destroys the object and its subtree immediately.
// Destroying the entity through the ecs.World directly has the same effect.
func (m *Manager) Destroy(id ecs.EntityID) {
	if m.live(id) == nil {
		return
	}
	m.world.Destroy(id)
}

// Remove drops hierarchy data for an entity the world is destroying. Called
// through the ecs.Registry while the entity is still alive, so the subtree is
// destroyed first and disable events go out children before parents.
func (m *Manager) Remove(id ecs.EntityID) {
	o, ok := m.objects[id]
	if !ok {
		return
	}
	for _, c := range append([]ecs.EntityID(nil), o.children...) {
		m.world.Destroy(c)
	}
	if m.ActiveInHierarchy(id) {
		event.Emit(m.bus, event.ObjectDisabled{Entity: id})
	}
	delete(m.objects, id)
	if po, ok := m.objects[o.parent]; ok && !o.parent.IsZero() {
		for i, c := range po.children {
			if c == id {
				po.children = append(po.children[:i], po.children[i+1:]...)
				break
			}
		}
		return
	}
	if s, ok := m.scenes[o.scene]; ok {
		s.removeRoot(id)
	}
}

// Root returns the topmost live ancestor of the object (itself when it is a root).
func (m *Manager) Root(id ecs.EntityID) ecs.EntityID {
	for {
		o := m.live(id)
		if o == nil || o.parent.IsZero() || m.live(o.parent) == nil {
			return id
		}
		id = o.parent
	}
}

// Parent returns the object's parent, or the zero EntityID for roots.
func (m *Manager) Parent(id ecs.EntityID) ecs.EntityID {
	if o := m.live(id); o != nil {
		return o.parent
	}
	return 0
}

// Children returns a copy of the object's direct children.
func (m *Manager) Children(id ecs.EntityID) []ecs.EntityID {
	if o := m.live(id); o != nil {
		return append([]ecs.EntityID(nil), o.children...)
	}
	return nil
}

// Flags returns the object's spawn-time flags.
func (m *Manager) Flags(id ecs.EntityID) Flags {
	if o := m.live(id); o != nil {
		return o.flags
	}
	return 0
}

// ObjectCount returns the number of live objects across all scenes.
func (m *Manager) ObjectCount() int { return len(m.objects) }

// live returns hierarchy data only for entities that are still alive, so a
// recycled index never reads another object's data.
func (m *Manager) live(id ecs.EntityID) *object {
	if !m.world.Alive(id) {
		return nil
	}
	return m.objects[id]
}

// subtree returns id followed by its descendants, parents before children.
func (m *Manager) subtree(id ecs.EntityID) []ecs.EntityID {
	out := []ecs.EntityID{id}
	for i := 0; i < len(out); i++ {
		if o := m.objects[out[i]]; o != nil {
			out = append(out, o.children...)
		}
	}
	return out
}
