package scripting

import (
	"math"

	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	"github.com/l1jgo/idreg/internal/world"
	lua "github.com/yuin/gopher-lua"
)

// installModule registers the global idreg table:
//
//	idreg.find(id [, scene [, scene_only]]) -> record table or nil
//	idreg.find_all(id)                      -> array of labels
//	idreg.find_in_scene(scene)              -> array of labels
//	idreg.current_scene()                   -> handle
//	idreg.scene_name(handle)                -> string
//	idreg.sub_scenes_open()                 -> bool
func (e *Engine) installModule() {
	mod := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"find":            e.luaFind,
		"find_all":        e.luaFindAll,
		"find_in_scene":   e.luaFindInScene,
		"current_scene":   e.luaCurrentScene,
		"scene_name":      e.luaSceneName,
		"sub_scenes_open": e.luaSubScenesOpen,
	})
	e.vm.SetGlobal("idreg", mod)
}

// checkInt32 reads argument n as an int32. Values outside the int32 range
// report false instead of wrapping onto another id or handle.
func checkInt32(L *lua.LState, n int) (int32, bool) {
	v := L.CheckInt64(n)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

func (e *Engine) luaFind(L *lua.LState) int {
	id, ok := checkInt32(L, 1)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	var rec identity.Record
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		h, valid := checkInt32(L, 2)
		if !valid {
			L.Push(lua.LNil)
			return 1
		}
		sceneOnly := L.OptBool(3, false)
		rec, ok = e.resolver.FindIdentityInScene(id, scene.Handle(h), sceneOnly)
	} else {
		rec, ok = e.resolver.FindIdentity(id, true)
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(e.recordTable(L, rec))
	return 1
}

func (e *Engine) recordTable(L *lua.LState, rec identity.Record) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(rec.Identity.ID))
	t.RawSetString("entity", lua.LString(rec.Identity.Owner.String()))
	t.RawSetString("scene", lua.LNumber(rec.Scene))
	t.RawSetString("persistent", lua.LBool(rec.Persistent))
	t.RawSetString("category", lua.LString(rec.Category.String()))
	if l, ok := ecs.First[world.Labeled](e.world, rec.Identity.Owner); ok {
		t.RawSetString("label", lua.LString(l.Label()))
	}
	return t
}

func labelTable(L *lua.LState, labels []world.Labeled) *lua.LTable {
	t := L.CreateTable(len(labels), 0)
	for _, l := range labels {
		t.Append(lua.LString(l.Label()))
	}
	return t
}

func (e *Engine) luaFindAll(L *lua.LState) int {
	id, ok := checkInt32(L, 1)
	if !ok {
		L.Push(L.NewTable())
		return 1
	}
	L.Push(labelTable(L, identity.FindAll[world.Labeled](e.resolver, id)))
	return 1
}

func (e *Engine) luaFindInScene(L *lua.LState) int {
	h, ok := checkInt32(L, 1)
	if !ok {
		L.Push(L.NewTable())
		return 1
	}
	L.Push(labelTable(L, identity.FindAllByScene[world.Labeled](e.resolver, scene.Handle(h))))
	return 1
}

func (e *Engine) luaCurrentScene(L *lua.LState) int {
	L.Push(lua.LNumber(e.scenes.CurrentScene()))
	return 1
}

func (e *Engine) luaSceneName(L *lua.LState) int {
	h, ok := checkInt32(L, 1)
	if !ok {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(e.scenes.Name(scene.Handle(h))))
	return 1
}

func (e *Engine) luaSubScenesOpen(L *lua.LState) int {
	L.Push(lua.LBool(e.scenes.SubScenesOpen()))
	return 1
}
