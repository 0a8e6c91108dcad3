package system

import (
	"time"

	"github.com/l1jgo/idreg/internal/core/event"
	coresys "github.com/l1jgo/idreg/internal/core/system"
)

// EventDispatchSystem rotates the bus and delivers last tick's events.
// Phase 0 (Events).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
