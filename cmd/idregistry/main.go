package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/idreg/internal/config"
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/core/event"
	coresys "github.com/l1jgo/idreg/internal/core/system"
	"github.com/l1jgo/idreg/internal/data"
	"github.com/l1jgo/idreg/internal/identity"
	"github.com/l1jgo/idreg/internal/scene"
	"github.com/l1jgo/idreg/internal/scripting"
	"github.com/l1jgo/idreg/internal/system"
	"github.com/l1jgo/idreg/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        idreg · scene identity registry     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mWorld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/idreg.toml"
	if p := os.Getenv("IDREG_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.World.Name)

	// 3. Load scene manifest
	printSection("Data")
	manifest, err := data.LoadSceneManifest(cfg.Data.SceneManifest)
	if err != nil {
		return fmt.Errorf("scene manifest: %w", err)
	}
	printStat("Scenes in manifest", manifest.Count())
	fmt.Println()

	// 4. World, scenes, registry
	ecsWorld := ecs.NewWorld()
	bus := event.NewBus()
	scenes := scene.NewManager(ecsWorld, bus, log)
	registry := identity.NewRegistry(scenes, ecsWorld, log, cfg.Registry.InitialCapacity)
	resolver := identity.NewResolver(registry)
	loader := world.NewLoader(ecsWorld, scenes, manifest, log)

	// 5. Systems
	runner := coresys.NewRunner()
	sceneSys := system.NewSceneSystem(loader, scenes, log)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(sceneSys)
	runner.Register(system.NewCleanupSystem(ecsWorld))
	system.NewIdentitySync(ecsWorld, bus, registry, log)

	// 6. Scripting
	var engine *scripting.Engine
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.Dir, ecsWorld, scenes, resolver, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		engine.SubscribeSceneHooks(bus)
		printOK("Lua engine ready")
	}

	// 7. Boot scenes: the boot scene loads single, the rest additively.
	sceneSys.RequestLoad(cfg.World.BootScene, scene.Single)
	for _, name := range cfg.World.AdditiveScenes {
		sceneSys.RequestLoad(name, scene.Additive)
	}
	// One tick applies the loads, the next dispatches their enable events.
	runner.Tick(cfg.World.TickRate)
	runner.Tick(cfg.World.TickRate)

	printSection("Registry")
	for _, h := range scenes.Scenes() {
		s, _ := scenes.Scene(h)
		printStat(fmt.Sprintf("%s (#%d) roots", s.Name, h), len(s.Roots()))
	}
	printStat("General identities", registry.Len())
	printStat("UI-retained identities", registry.RetainedLen())
	printStat("Persistent non-player objects", len(identity.FindPersistentExcludingPlayer[world.Labeled](resolver)))
	if engine != nil {
		if report := engine.CallString("boot_report"); report != "" {
			printOK(report)
		}
	}
	fmt.Println()

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("Loop started (tick: %s)", cfg.World.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.World.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			scenes.ResetWorld()
			runner.Tick(cfg.World.TickRate)
			log.Info("world stopped",
				zap.Uint64("ticks", runner.Ticks()),
				zap.Duration("uptime", time.Since(time.Unix(cfg.World.StartTime, 0)).Round(time.Second)),
				zap.Int("general", registry.Len()),
				zap.Int("retained", registry.RetainedLen()),
			)
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
