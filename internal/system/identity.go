package system

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	"go.uber.org/zap"
)

// IdentitySync applies object and scene lifecycle events to the identity
// registry: enable registers, disable unregisters, a scene unload prunes the
// scene's records and a world reset clears everything. It has no per-tick
// work of its own; events arrive through EventDispatchSystem.
type IdentitySync struct {
	world *ecs.World
	reg   *identity.Registry
	log   *zap.Logger
}

func NewIdentitySync(world *ecs.World, bus *event.Bus, reg *identity.Registry, log *zap.Logger) *IdentitySync {
	s := &IdentitySync{world: world, reg: reg, log: log}
	event.Subscribe(bus, s.onEnabled)
	event.Subscribe(bus, s.onDisabled)
	event.Subscribe(bus, s.onSceneUnloaded)
	event.Subscribe(bus, s.onWorldReset)
	return s
}

func (s *IdentitySync) onEnabled(ev event.ObjectEnabled) {
	for _, ident := range ecs.All[*identity.Identity](s.world, ev.Entity) {
		s.reg.Register(ident)
	}
}

// onDisabled runs after the object may already be destroyed, so it cannot
// read components from the world. It unregisters through the identities the
// registry holds for the owner.
func (s *IdentitySync) onDisabled(ev event.ObjectDisabled) {
	for _, ident := range s.reg.OwnedBy(ev.Entity) {
		s.reg.Unregister(ident)
	}
}

func (s *IdentitySync) onSceneUnloaded(ev event.SceneUnloaded) {
	n := s.reg.DropScene(scene.Handle(ev.Scene))
	s.log.Debug("scene unloaded",
		zap.String("scene", ev.Name),
		zap.Int("dropped", n),
		zap.Int("general", s.reg.Len()),
	)
}

func (s *IdentitySync) onWorldReset(event.WorldReset) {
	s.reg.Reset()
}
