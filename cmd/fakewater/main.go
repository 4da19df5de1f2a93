package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/core/event"
	"github.com/afelia/fakewater/internal/core/sched"
	coresys "github.com/afelia/fakewater/internal/core/system"
	"github.com/afelia/fakewater/internal/handler"
	"github.com/afelia/fakewater/internal/locale"
	"github.com/afelia/fakewater/internal/persist"
	"github.com/afelia/fakewater/internal/scripting"
	"github.com/afelia/fakewater/internal/system"
	"github.com/afelia/fakewater/internal/tags"
	"github.com/afelia/fakewater/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxConsoleLinesPerTick = 16

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              FakeWater  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s\n\n", serverName)
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

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/fakewater.toml"
	if p := os.Getenv("FAKEWATER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Host worlds and event bus
	printSection("World")
	bus := event.NewBus()
	worldState := world.NewState(bus, cfg.Worlds.Names...)
	worldState.SetMessageSink(func(p *world.PlayerInfo, msg string) {
		fmt.Printf("  \033[90m[%s]\033[0m %s\n", p.Name, msg)
	})
	printStat("Worlds", len(cfg.Worlds.Names))
	fmt.Println()

	// 4. Open the tag backend and load persisted tags
	printSection("Storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, closer, err := persist.OpenBackend(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closer.Close()
	printOK(fmt.Sprintf("Backend %s", backend.Name()))

	store := tags.NewStore(backend, worldState, log)
	loaded, err := store.LoadAll(ctx)
	if err != nil {
		// the file or database may be repaired later; start empty
		log.Warn("failed to load fake water blocks", zap.Error(err))
	}
	printStat("Fake water blocks", len(loaded))
	fmt.Println()

	// 5. Scripts and messages
	printSection("Scripting")
	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua scripts loaded")
	msgs := locale.New(cfg.Server.Language)
	fmt.Println()

	// 6. Mechanic wiring
	scheduler := sched.New()
	tracker := system.NewContactTracker(worldState, store, scheduler, luaEngine, cfg.FakeWater, msgs, log, nil)
	deps := &handler.Deps{
		Config:  cfg,
		Log:     log,
		Bus:     bus,
		World:   worldState,
		Tags:    store,
		Contact: tracker,
		Locale:  msgs,
	}
	handler.RegisterAll(deps)
	tracker.StartSweep()

	// 7. Console input
	lines := make(chan string, 64)
	go readConsole(os.Stdin, lines)

	// 8. Create systems and register with runner
	persistSys := system.NewPersistenceSystem(store, log, cfg.Storage.AutosaveIntervalTick, cfg.Storage.IOTimeout)
	runner := coresys.NewRunner()
	runner.Register(system.NewConsoleSystem(lines, handler.ConsoleSender{W: os.Stdout}, deps, maxConsoleLinesPerTick))
	runner.Register(event.NewDispatchSystem(bus))
	runner.Register(scheduler)
	runner.Register(persistSys)

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Game loop running (tick: %s)", cfg.Server.TickRate))
	printReady("Type 'help' for console commands")
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Server.TickRate)
		case sig := <-shutdownCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			tracker.StopSweep()
			if err := persistSys.SaveNow(); err != nil {
				log.Error("final save failed", zap.Error(err))
			}
			log.Info("server stopped", zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
	}
}

// readConsole forwards stdin lines to the game loop until EOF.
func readConsole(f *os.File, out chan<- string) {
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out <- line
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
