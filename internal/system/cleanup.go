package system

import (
	"time"

	"github.com/l1jgo/idreg/internal/core/ecs"
	coresys "github.com/l1jgo/idreg/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// The scene manager takes each destroyed object's subtree with it and emits
// the disable events, which unregister their identities next tick.
// Phase 3 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
}

func NewCleanupSystem(world *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: world}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.FlushDestroyQueue()
}
