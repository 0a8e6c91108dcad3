package world

import (
	"fmt"

	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/data"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	"go.uber.org/zap"
)

// Loader instantiates manifest scenes into the scene manager. Every spawned
// object gets a *Label and one *identity.Identity per manifest id; the
// identities are registered when the enable events are dispatched.
type Loader struct {
	world    *ecs.World
	scenes   *scene.Manager
	manifest *data.SceneManifest
	log      *zap.Logger
}

func NewLoader(world *ecs.World, scenes *scene.Manager, manifest *data.SceneManifest, log *zap.Logger) *Loader {
	return &Loader{world: world, scenes: scenes, manifest: manifest, log: log}
}

// Load opens the named manifest scene and spawns its objects.
func (l *Loader) Load(name string, mode scene.LoadMode) (scene.Handle, error) {
	def := l.manifest.Get(name)
	if def == nil {
		return scene.None, fmt.Errorf("scene %q not in manifest", name)
	}
	h := l.scenes.Load(name, mode)
	for i := range def.Objects {
		l.spawn(h, 0, &def.Objects[i])
	}
	l.log.Info("scene instantiated",
		zap.String("scene", name),
		zap.Int32("handle", int32(h)),
		zap.Int("objects", def.ObjectCount()),
	)
	return h, nil
}

func (l *Loader) spawn(h scene.Handle, parent ecs.EntityID, def *data.ObjectDef) ecs.EntityID {
	id := l.scenes.Spawn(h, parent, flagsOf(def), &Label{Name: def.Name, Tags: def.Tags})
	if id.IsZero() {
		return id
	}
	for _, n := range def.IDs {
		l.world.Attach(id, &identity.Identity{ID: n, Owner: id})
	}
	if def.Persistent && parent.IsZero() {
		l.scenes.DontDestroyOnLoad(id)
	}
	for i := range def.Children {
		l.spawn(h, id, &def.Children[i])
	}
	if def.Disabled {
		l.scenes.SetEnabled(id, false)
	}
	return id
}

func flagsOf(def *data.ObjectDef) scene.Flags {
	var f scene.Flags
	if def.Player {
		f |= scene.FlagPlayer
	}
	if def.UIContainer {
		f |= scene.FlagUIContainer
	}
	if def.Recording {
		f |= scene.FlagRecording
	}
	return f
}
