package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Registry  RegistryConfig  `toml:"registry"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WorldConfig struct {
	Name           string        `toml:"name"`
	TickRate       time.Duration `toml:"tick_rate"`
	BootScene      string        `toml:"boot_scene"`
	AdditiveScenes []string      `toml:"additive_scenes"` // loaded on top of the boot scene
	StartTime      int64         // set at boot, not from config
}

type RegistryConfig struct {
	InitialCapacity int `toml:"initial_capacity"` // General partition pre-allocation
}

type DataConfig struct {
	SceneManifest string `toml:"scene_manifest"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.World.TickRate <= 0 {
		return nil, fmt.Errorf("config %s: world.tick_rate must be positive", path)
	}
	cfg.World.StartTime = time.Now().Unix()
	return cfg, nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	cfg := defaults()
	cfg.World.StartTime = time.Now().Unix()
	return cfg
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			Name:      "idreg",
			TickRate:  200 * time.Millisecond,
			BootScene: "title",
		},
		Registry: RegistryConfig{
			InitialCapacity: 256,
		},
		Data: DataConfig{
			SceneManifest: "data/yaml/scenes.yaml",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
