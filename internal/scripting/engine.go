package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that gameplay scripts use to resolve
// identities. Single-goroutine access only (game loop).
type Engine struct {
	vm       *lua.LState
	world    *ecs.World
	scenes   *scene.Manager
	resolver *identity.Resolver
	log      *zap.Logger
}

// NewEngine creates a Lua engine, installs the idreg module and loads all
// scripts from the given directory. A missing directory is not an error.
func NewEngine(scriptsDir string, w *ecs.World, scenes *scene.Manager, resolver *identity.Resolver, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, world: w, scenes: scenes, resolver: resolver, log: log}
	e.installModule()

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SubscribeSceneHooks calls the Lua on_scene_loaded(name, handle) and
// on_scene_unloaded(name, handle) hooks for dispatched scene events.
func (e *Engine) SubscribeSceneHooks(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.SceneLoaded) {
		e.callHook("on_scene_loaded", lua.LString(ev.Name), lua.LNumber(ev.Scene))
	})
	event.Subscribe(bus, func(ev event.SceneUnloaded) {
		e.callHook("on_scene_unloaded", lua.LString(ev.Name), lua.LNumber(ev.Scene))
	})
}

// callHook calls an optional global Lua function, discarding results.
func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
	}
}

// CallString calls a global Lua function and returns its single string result.
// Returns "" when the function is missing, fails, or returns a non-string.
func (e *Engine) CallString(name string, args ...lua.LValue) string {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return ""
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("fn", name), zap.Error(err))
		return ""
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return ""
}
