package identity

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	"github.com/l1jgo/idreg/internal/scene"
	"go.uber.org/zap"
)

// named is the capability the tests resolve.
type named interface {
	Name() string
}

type marker struct {
	name string
}

func (m *marker) Name() string { return m.name }

// unrelated is a component that does not implement named.
type unrelated struct{}

type fixture struct {
	world  *ecs.World
	scenes *scene.Manager
	reg    *Registry
	res    *Resolver
}

func newFixture() *fixture {
	w := ecs.NewWorld()
	sm := scene.NewManager(w, event.NewBus(), zap.NewNop())
	reg := NewRegistry(sm, w, zap.NewNop(), 0)
	return &fixture{world: w, scenes: sm, reg: reg, res: NewResolver(reg)}
}

// spawn creates an object carrying a marker named name and one identity.
func (f *fixture) spawn(h scene.Handle, parent ecs.EntityID, flags scene.Flags, id int32, name string) (*Identity, *marker) {
	m := &marker{name: name}
	owner := f.scenes.Spawn(h, parent, flags, m)
	ident := &Identity{ID: id, Owner: owner}
	f.world.Attach(owner, ident)
	return ident, m
}

// register spawns and registers in one step.
func (f *fixture) register(h scene.Handle, parent ecs.EntityID, flags scene.Flags, id int32, name string) (*Identity, *marker) {
	ident, m := f.spawn(h, parent, flags, id, name)
	f.reg.Register(ident)
	return ident, m
}

// twoScenes loads scenes a and b additively; b is made current.
func (f *fixture) twoScenes() (a, b scene.Handle) {
	a = f.scenes.Load("a", scene.Single)
	b = f.scenes.Load("b", scene.Additive)
	f.scenes.SetActive(b)
	return a, b
}

// persistentCanvas creates a UI container root moved to the persistent scene.
func (f *fixture) persistentCanvas(h scene.Handle) ecs.EntityID {
	canvas := f.scenes.Spawn(h, 0, scene.FlagUIContainer)
	f.scenes.DontDestroyOnLoad(canvas)
	return canvas
}
