package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/realmcore/achievement-server-go/internal/config"
	"github.com/realmcore/achievement-server-go/internal/datapack"
	"github.com/realmcore/achievement-server-go/internal/game/achievements"
	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/platform/otel"
	"github.com/realmcore/achievement-server-go/internal/realm"
	"github.com/realmcore/achievement-server-go/internal/repository"
	"github.com/realmcore/achievement-server-go/internal/transport/ws"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging, cfg.Tracing.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting achievement server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("achievement server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, otel.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Load definitions
	doc, err := datapack.Load(ctx, cfg.Data.PackPath, logger)
	if err != nil {
		return err
	}
	registry, stats := criteria.Load(doc.Data(), logger)
	logger.Info("criteria registry loaded",
		zap.Int("criteria", stats.Criteria),
		zap.Int("criteria_trees", stats.CriteriaTrees),
		zap.Int("achievements", stats.Achievements),
		zap.Int("skipped_rows", stats.SkippedRows),
	)

	globals := world.NewNullGlobals(logger)
	evaluator := conditions.NewEvaluator(registry, globals, logger,
		conditions.WithMaxDepth(cfg.Engine.MaxModifierDepth))

	// Initialize database
	store, err := repository.Open(ctx, repository.Config{
		Driver:     cfg.Database.Driver,
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		SQLitePath: cfg.Database.SQLitePath,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	bus := events.NewBus()
	var hub *ws.Hub
	if cfg.Notifications.Enabled {
		hub = ws.NewHub(cfg.Notifications.Buffer, logger)
		bus.Subscribe(hub.Publish)
	}

	r := realm.New(realm.Options{
		Registry:         registry,
		Evaluator:        evaluator,
		Globals:          globals,
		Store:            store,
		RealmFirst:       achievements.NewRealmFirst(globals, cfg.Engine.RealmFirstKillWindow, logger),
		Publisher:        bus,
		AchievementHooks: rewardLogger{logger: logger},
		Disabled:         cfg.Engine.DisabledSet(),
		Config: realm.Config{
			TickInterval:    cfg.Engine.TickInterval,
			SaveInterval:    cfg.Engine.SaveInterval,
			SaveConcurrency: cfg.Engine.SaveConcurrency,
		},
		Logger: logger,
	})
	if err := r.LoadRealmFirsts(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Run(gctx)
	})
	if hub != nil {
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		g.Go(func() error {
			return ws.Serve(gctx, cfg.Notifications.Address, ws.NewRouter(hub, r.RealmFirst(), logger), logger)
		})
	}

	logger.Info("achievement server initialized",
		zap.String("version", version),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("notifications", cfg.Notifications.Enabled),
		zap.String("notifications_address", cfg.Notifications.Address),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// rewardLogger records completions and rewards until a mail and title
// service is attached.
type rewardLogger struct {
	logger *zap.Logger
}

func (h rewardLogger) OnAchievementCompleted(owner world.Owner, ach *criteria.AchievementRecord, _ world.Player) {
	h.logger.Debug("achievement completion hook",
		zap.Stringer("owner", owner),
		zap.Uint32("achievement_id", ach.ID),
	)
}

func (h rewardLogger) RewardAchievement(player world.Player, ach *criteria.AchievementRecord, reward *criteria.AchievementRewardRecord) {
	h.logger.Info("achievement reward pending",
		zap.Uint64("guid", uint64(player.GUID())),
		zap.Uint32("achievement_id", ach.ID),
		zap.Uint32("item_id", reward.ItemID),
		zap.Uint32("title_alliance", reward.TitleAlliance),
		zap.Uint32("title_horde", reward.TitleHorde),
	)
}

// initLogger builds the process logger from the logging section. An empty
// level means info; any other unknown level is a configuration error.
func initLogger(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging.level: %w", err)
		}
		level = parsed
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "", "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("logging.format: unknown format %q", cfg.Format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build(zap.Fields(zap.String("service", service)))
}
