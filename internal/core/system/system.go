package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: swap + dispatch last tick's lifecycle events
	PhaseScene                  // 1: apply queued scene loads/unloads
	PhaseUpdate                 // 2: game logic that resolves identities
	PhaseCleanup                // 3: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseScene:
		return "scene"
	case PhaseUpdate:
		return "update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
