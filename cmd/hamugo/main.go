package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hamugo/server/internal/config"
	"github.com/hamugo/server/internal/core/event"
	coresys "github.com/hamugo/server/internal/core/system"
	"github.com/hamugo/server/internal/data"
	"github.com/hamugo/server/internal/persist"
	"github.com/hamugo/server/internal/scene"
	"github.com/hamugo/server/internal/scripting"
	"github.com/hamugo/server/internal/system"
	"github.com/hamugo/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            HamuGo  v0.1.0                 \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      倉鼠迷宮 · Go 舞台伺服器             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(編號: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	// Use rune count for CJK width calculation (each CJK char = 2 columns)
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := 46 - displayWidth - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	// Use display width for CJK characters
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := 42 - displayWidth - len(numStr)
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
	cfgPath := "config/server.toml"
	if p := os.Getenv("HAMUGO_CONFIG"); p != "" {
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

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("資料庫")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL 連線成功")

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("資料庫遷移完成")
	fmt.Println()

	// 4. Create repositories
	mapRepo := persist.NewMapRepo(db)
	journalRepo := persist.NewJournalRepo(db)
	ownerRepo := persist.NewOwnerRepo(db)

	// 5. Load tile data
	printSection("資料載入")

	tileTable, err := data.LoadTileTable(cfg.Data.TilesPath)
	if err != nil {
		return fmt.Errorf("load tile table: %w", err)
	}
	printStat("磚塊模板", tileTable.Count())

	owners, err := ownerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load owners: %w", err)
	}
	printStat("玩家帳號", len(owners))

	maps, err := mapRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load map library: %w", err)
	}
	printStat("地圖收藏", len(maps))

	// 6. Build the stage
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua 腳本載入完成")

	graph := scene.NewGraph()
	bus := event.NewBus()
	stage := world.NewStage(graph, tileTable, bus, luaEngine)

	event.Subscribe(bus, func(e event.WorldSpawned) {
		luaEngine.OnWorldSpawned(e.MapID, e.Name, e.Count)
	})
	fmt.Println()

	// 7. Create systems and register with runner
	runner := coresys.NewRunner()
	journalSys := system.NewJournalSystem(bus, stage, journalRepo, log, cfg.Stage.JournalFlushTicks)
	autosaveSys := system.NewAutosaveSystem(bus, stage, mapRepo, journalRepo, log, cfg.Stage.AutosaveTicks)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewBehaviorSystem(stage, graph, tileTable, log, cfg.Stage.ClearType))
	runner.Register(journalSys)
	runner.Register(autosaveSys)
	runner.Register(system.NewCleanupSystem(stage, log))

	// 8. Spawn the boot map, if one is configured
	printSection("舞台")
	if cfg.Stage.MapID != "" {
		src, err := mapRepo.Load(ctx, cfg.Stage.MapID)
		if err != nil {
			return fmt.Errorf("load map %s: %w", cfg.Stage.MapID, err)
		}
		if src == nil {
			return fmt.Errorf("load map %s: not found", cfg.Stage.MapID)
		}
		if err := stage.SpawnWorld(src); err != nil {
			return fmt.Errorf("spawn map %s: %w", cfg.Stage.MapID, err)
		}
		printReady(fmt.Sprintf("已生成地圖 %s (%d 元素)", src.Name, stage.Level().Len()))
	} else {
		printReady("舞台閒置, 等待地圖")
	}

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Stage.TickRate)
	defer ticker.Stop()

	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Stage.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Stage.TickRate)
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			// Deliver anything still buffered on the bus, then flush.
			runner.Tick(cfg.Stage.TickRate)
			journalSys.Flush()
			autosaveSys.Save()
			log.Info("伺服器已停止", zap.Duration("遊戲時間", stage.ElapsedGameTime()))
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
