package scene

import "github.com/l1jgo/idreg/internal/core/ecs"

// Membership queries consumed by the identity registry.

// CurrentScene returns the active content scene, or None when nothing is loaded.
func (m *Manager) CurrentScene() Handle { return m.current }

// SubScenesOpen reports whether more than one content scene is loaded.
// The Persistent scene does not count.
func (m *Manager) SubScenesOpen() bool { return len(m.order) > 1 }

// SceneOf returns the scene the object belongs to, or None for dead handles.
func (m *Manager) SceneOf(id ecs.EntityID) Handle {
	if o := m.live(id); o != nil {
		return o.scene
	}
	return None
}

// IsPersistent reports whether the object survives scene unloads.
func (m *Manager) IsPersistent(id ecs.EntityID) bool {
	return m.SceneOf(id) == Persistent
}

// IsPlayerOwned reports whether the object, or any ancestor, is a player.
func (m *Manager) IsPlayerOwned(id ecs.EntityID) bool {
	for !id.IsZero() {
		o := m.live(id)
		if o == nil {
			return false
		}
		if o.flags.Has(FlagPlayer) {
			return true
		}
		id = o.parent
	}
	return false
}

func (m *Manager) HasRecordingCapability(id ecs.EntityID) bool {
	return m.Flags(id).Has(FlagRecording)
}

// RootIsPersistentUIContainer reports whether the object's topmost ancestor
// is a UI container living in the Persistent scene.
func (m *Manager) RootIsPersistentUIContainer(id ecs.EntityID) bool {
	root := m.Root(id)
	o := m.live(root)
	return o != nil && o.scene == Persistent && o.flags.Has(FlagUIContainer)
}
