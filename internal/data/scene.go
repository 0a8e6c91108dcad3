package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ObjectDef describes one object to spawn when its scene loads.
type ObjectDef struct {
	Name        string      `yaml:"name"`
	IDs         []int32     `yaml:"ids"`          // one identity component per id
	Player      bool        `yaml:"player"`       // player-controlled entity
	UIContainer bool        `yaml:"ui_container"` // root UI canvas
	Recording   bool        `yaml:"recording"`    // records its own state
	Persistent  bool        `yaml:"persistent"`   // moved to the persistent scene on spawn (roots only)
	Disabled    bool        `yaml:"disabled"`     // spawned disabled
	Tags        []string    `yaml:"tags"`
	Children    []ObjectDef `yaml:"children"`
}

// SceneDef is one scene's object tree.
type SceneDef struct {
	Name    string      `yaml:"name"`
	Objects []ObjectDef `yaml:"objects"`
}

type sceneFile struct {
	Scenes []SceneDef `yaml:"scenes"`
}

// SceneManifest provides lookup of scene definitions by name.
type SceneManifest struct {
	scenes map[string]*SceneDef
	order  []string
}

// LoadSceneManifest loads a scene manifest YAML file.
func LoadSceneManifest(path string) (*SceneManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene manifest: %w", err)
	}
	m, err := ParseSceneManifest(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseSceneManifest parses manifest YAML. Scene names must be non-empty
// and unique.
func ParseSceneManifest(raw []byte) (*SceneManifest, error) {
	var f sceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scene manifest: %w", err)
	}
	m := &SceneManifest{
		scenes: make(map[string]*SceneDef, len(f.Scenes)),
		order:  make([]string, 0, len(f.Scenes)),
	}
	for i := range f.Scenes {
		s := &f.Scenes[i]
		if s.Name == "" {
			return nil, fmt.Errorf("scene %d: missing name", i)
		}
		if _, dup := m.scenes[s.Name]; dup {
			return nil, fmt.Errorf("scene %q defined twice", s.Name)
		}
		m.scenes[s.Name] = s
		m.order = append(m.order, s.Name)
	}
	return m, nil
}

// Get returns the scene definition, or nil if none.
func (m *SceneManifest) Get(name string) *SceneDef {
	return m.scenes[name]
}

// Names returns scene names in file order.
func (m *SceneManifest) Names() []string {
	return append([]string(nil), m.order...)
}

// Count returns the total number of scenes loaded.
func (m *SceneManifest) Count() int {
	return len(m.scenes)
}

// ObjectCount returns the number of objects in the scene, children included.
func (s *SceneDef) ObjectCount() int {
	return countObjects(s.Objects)
}

func countObjects(defs []ObjectDef) int {
	n := len(defs)
	for i := range defs {
		n += countObjects(defs[i].Children)
	}
	return n
}
