// Package scene tracks loaded scenes, the object hierarchy inside them, and
// which objects survive scene transitions. Manager is the scene membership
// collaborator consumed by the identity registry.
package scene

import "github.com/l1jgo/idreg/internal/core/ecs"

// Handle identifies one loaded instance of a scene. Loading the same scene
// name twice yields two handles.
type Handle int32

const (
	// None is the zero handle: no scene, or an object that is no longer alive.
	None Handle = 0
	// Persistent is the scene objects move to when they must survive unloads.
	// It is always loaded and never counted as a content scene.
	Persistent Handle = 1

	firstContentHandle Handle = 2
)

// PersistentSceneName is the display name of the Persistent scene.
const PersistentSceneName = "DontDestroyOnLoad"

// LoadMode selects whether a load replaces the loaded content scenes.
type LoadMode int

const (
	Single   LoadMode = iota // unload every content scene first
	Additive                 // load alongside the scenes already open
)

// Flags are object categories resolved once at spawn time.
type Flags uint8

const (
	FlagPlayer      Flags = 1 << iota // player-controlled entity
	FlagUIContainer                   // root UI container (canvas)
	FlagRecording                     // records its own state for persistence
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Scene is one loaded scene instance.
type Scene struct {
	Handle Handle
	Name   string
	roots  []ecs.EntityID
}

// Roots returns the scene's root objects in spawn order. The slice is owned
// by the scene.
func (s *Scene) Roots() []ecs.EntityID { return s.roots }

func (s *Scene) removeRoot(id ecs.EntityID) {
	for i, r := range s.roots {
		if r == id {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return
		}
	}
}

type object struct {
	scene    Handle
	parent   ecs.EntityID
	children []ecs.EntityID
	flags    Flags
	enabled  bool
}
