package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	"github.com/l1jgo/idreg/internal/world"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

type env struct {
	world  *ecs.World
	bus    *event.Bus
	scenes *scene.Manager
	reg    *identity.Registry
	engine *Engine
}

func newEnv(t *testing.T, scripts map[string]string) *env {
	t.Helper()
	dir := t.TempDir()
	for name, src := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	log := zap.NewNop()
	w := ecs.NewWorld()
	bus := event.NewBus()
	sm := scene.NewManager(w, bus, log)
	reg := identity.NewRegistry(sm, w, log, 0)
	e, err := NewEngine(dir, w, sm, identity.NewResolver(reg), log)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return &env{world: w, bus: bus, scenes: sm, reg: reg, engine: e}
}

func (v *env) register(h scene.Handle, id int32, label string) ecs.EntityID {
	owner := v.scenes.Spawn(h, 0, 0, &world.Label{Name: label})
	ident := &identity.Identity{ID: id, Owner: owner}
	v.world.Attach(owner, ident)
	v.reg.Register(ident)
	return owner
}

func (v *env) global(name string) lua.LValue {
	return v.engine.vm.GetGlobal(name)
}

func TestEngine_Find(t *testing.T) {
	v := newEnv(t, nil)
	a := v.scenes.Load("town", scene.Single)
	b := v.scenes.Load("dungeon", scene.Additive)
	v.register(a, 7, "guard")
	owner := v.register(b, 7, "boss")

	require.NoError(t, v.engine.DoString(`
		local rec = idreg.find(7, idreg.current_scene(), true)
		found_label = rec.label
		found_scene = rec.scene
		found_category = rec.category
		missing = idreg.find(99) == nil
		open = idreg.sub_scenes_open()
	`))
	require.Equal(t, lua.LString("guard"), v.global("found_label"))
	require.Equal(t, lua.LNumber(a), v.global("found_scene"))
	require.Equal(t, lua.LString("general"), v.global("found_category"))
	require.Equal(t, lua.LTrue, v.global("missing"))
	require.Equal(t, lua.LTrue, v.global("open"))

	require.True(t, v.scenes.SetActive(b))
	require.NoError(t, v.engine.DoString(`
		local rec = idreg.find(7)
		preferred = rec.label
		entity = rec.entity
		current = idreg.scene_name(idreg.current_scene())
	`))
	require.Equal(t, lua.LString("boss"), v.global("preferred"))
	require.Equal(t, lua.LString(owner.String()), v.global("entity"))
	require.Equal(t, lua.LString("dungeon"), v.global("current"))
}

func TestEngine_FindAll(t *testing.T) {
	v := newEnv(t, nil)
	a := v.scenes.Load("town", scene.Single)
	v.register(a, 7, "guard")
	v.register(a, 7, "captain")
	v.register(a, 8, "merchant")

	require.NoError(t, v.engine.DoString(`
		all = #idreg.find_all(7)
		in_scene = #idreg.find_in_scene(idreg.current_scene())
	`))
	require.Equal(t, lua.LNumber(2), v.global("all"))
	require.Equal(t, lua.LNumber(3), v.global("in_scene"))
}

func TestEngine_OutOfRangeArgumentsDoNotWrap(t *testing.T) {
	v := newEnv(t, nil)
	a := v.scenes.Load("town", scene.Single)
	v.register(a, 7, "guard")

	require.NoError(t, v.engine.DoString(`
		local wrapped = 7 + 2^32
		found = idreg.find(wrapped) == nil
		scoped = idreg.find(7, idreg.current_scene() + 2^32, true) == nil
		all = #idreg.find_all(wrapped)
		in_scene = #idreg.find_in_scene(idreg.current_scene() + 2^32)
		name = idreg.scene_name(idreg.current_scene() - 2^32)
		plain = idreg.find(7).label
	`))
	require.Equal(t, lua.LTrue, v.global("found"))
	require.Equal(t, lua.LTrue, v.global("scoped"))
	require.Equal(t, lua.LNumber(0), v.global("all"))
	require.Equal(t, lua.LNumber(0), v.global("in_scene"))
	require.Equal(t, lua.LString(""), v.global("name"))
	require.Equal(t, lua.LString("guard"), v.global("plain"))
}

func TestEngine_SceneHooksAndCallString(t *testing.T) {
	v := newEnv(t, map[string]string{
		"hooks.lua": `
			local seen = {}
			function on_scene_loaded(name, handle) seen[#seen + 1] = "+" .. name end
			function on_scene_unloaded(name, handle) seen[#seen + 1] = "-" .. name end
			function report() return table.concat(seen, ",") end
		`,
		"notes.txt": "not lua",
	})
	v.engine.SubscribeSceneHooks(v.bus)

	h := v.scenes.Load("town", scene.Single)
	v.scenes.Unload(h)
	v.bus.SwapBuffers()
	v.bus.DispatchAll()

	require.Equal(t, "+town,-town", v.engine.CallString("report"))
	require.Equal(t, "", v.engine.CallString("no_such_function"))
}

func TestNewEngine_BadScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644))

	w := ecs.NewWorld()
	sm := scene.NewManager(w, event.NewBus(), zap.NewNop())
	reg := identity.NewRegistry(sm, w, zap.NewNop(), 0)
	_, err := NewEngine(dir, w, sm, identity.NewResolver(reg), zap.NewNop())
	require.ErrorContains(t, err, "broken.lua")
}

func TestNewEngine_MissingDir(t *testing.T) {
	w := ecs.NewWorld()
	sm := scene.NewManager(w, event.NewBus(), zap.NewNop())
	reg := identity.NewRegistry(sm, w, zap.NewNop(), 0)
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), w, sm, identity.NewResolver(reg), zap.NewNop())
	require.NoError(t, err)
	e.Close()
}
