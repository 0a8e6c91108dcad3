package event

import "github.com/l1jgo/idreg/internal/core/ecs"

// Scene lifecycle events. Scene handles are carried as int32 so this package
// stays below internal/scene in the import graph.

type SceneLoaded struct {
	Scene    int32
	Name     string
	Additive bool
}

type SceneUnloaded struct {
	Scene int32
	Name  string
}

type ActiveSceneChanged struct {
	Previous int32
	Current  int32
}

// Object activation events drive identity registration.

type ObjectEnabled struct {
	Entity ecs.EntityID
}

type ObjectDisabled struct {
	Entity ecs.EntityID
}

// WorldReset is emitted when every scene and object has been torn down
// (for example on return to the title screen).
type WorldReset struct{}
