package system

import (
	"time"

	coresys "github.com/l1jgo/idreg/internal/core/system"
	"github.com/l1jgo/idreg/internal/scene"
	"github.com/l1jgo/idreg/internal/world"
	"go.uber.org/zap"
)

type sceneRequest struct {
	load   string
	mode   scene.LoadMode
	unload scene.Handle
	active string
}

// SceneSystem applies queued scene transitions at a fixed point in the tick
// so game logic never observes a half-loaded topology. Phase 1 (Scene).
type SceneSystem struct {
	loader  *world.Loader
	scenes  *scene.Manager
	log     *zap.Logger
	pending []sceneRequest
}

func NewSceneSystem(loader *world.Loader, scenes *scene.Manager, log *zap.Logger) *SceneSystem {
	return &SceneSystem{loader: loader, scenes: scenes, log: log}
}

func (s *SceneSystem) Phase() coresys.Phase { return coresys.PhaseScene }

// RequestLoad queues a manifest scene load.
func (s *SceneSystem) RequestLoad(name string, mode scene.LoadMode) {
	s.pending = append(s.pending, sceneRequest{load: name, mode: mode})
}

// RequestUnload queues a scene unload.
func (s *SceneSystem) RequestUnload(h scene.Handle) {
	s.pending = append(s.pending, sceneRequest{unload: h})
}

// RequestActive queues switching the current scene to the most recently
// loaded scene with the given name.
func (s *SceneSystem) RequestActive(name string) {
	s.pending = append(s.pending, sceneRequest{active: name})
}

// Pending returns the number of queued transitions.
func (s *SceneSystem) Pending() int { return len(s.pending) }

func (s *SceneSystem) Update(_ time.Duration) {
	if len(s.pending) == 0 {
		return
	}
	reqs := s.pending
	s.pending = nil
	for _, req := range reqs {
		switch {
		case req.load != "":
			if _, err := s.loader.Load(req.load, req.mode); err != nil {
				s.log.Warn("scene load failed", zap.String("scene", req.load), zap.Error(err))
			}
		case req.unload != scene.None:
			if !s.scenes.Unload(req.unload) {
				s.log.Warn("scene unload refused", zap.Int32("handle", int32(req.unload)))
			}
		case req.active != "":
			h, ok := s.scenes.Lookup(req.active)
			if !ok || !s.scenes.SetActive(h) {
				s.log.Warn("set active scene failed", zap.String("scene", req.active))
			}
		}
	}
}
