// Package identity indexes live objects by small numeric ids across the
// loaded scenes and resolves ids back to objects or their components.
//
// Ids are not unique: the same id may exist once per scene, and the
// Resolver decides which copy wins. Owners are held as generational
// ecs.EntityID handles, so an object destroyed without unregistering is
// skipped rather than resolved.
package identity

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/scene"
)

// Identity is the component an object carries to be addressable by id.
type Identity struct {
	ID    int32
	Owner ecs.EntityID
}

// Category is the registry partition a record lives in.
type Category uint8

const (
	// General records are removed on unregister and on scene unload.
	General Category = iota
	// UIRetained records belong to persistent UI and are only removed by Reset.
	UIRetained
)

func (c Category) String() string {
	switch c {
	case General:
		return "general"
	case UIRetained:
		return "ui_retained"
	}
	return "unknown"
}

// Record is a query-time snapshot of a registered identity.
type Record struct {
	Identity   *Identity
	Scene      scene.Handle
	Category   Category
	Persistent bool
}

// Membership reports scene membership for owners.
type Membership interface {
	CurrentScene() scene.Handle
	SubScenesOpen() bool
	IsPersistent(owner ecs.EntityID) bool
	SceneOf(owner ecs.EntityID) scene.Handle
	IsPlayerOwned(owner ecs.EntityID) bool
	HasRecordingCapability(owner ecs.EntityID) bool
	RootIsPersistentUIContainer(owner ecs.EntityID) bool
}

// Objects gives access to owner liveness and components.
type Objects interface {
	Alive(owner ecs.EntityID) bool
	Components(owner ecs.EntityID) []any
}
