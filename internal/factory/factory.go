package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ftpong/pong-server/internal/config"
	"github.com/ftpong/pong-server/internal/dependencies/clock"
	"github.com/ftpong/pong-server/internal/dependencies/random"
	"github.com/ftpong/pong-server/internal/engine"
	"github.com/ftpong/pong-server/internal/services/matchmaking"
	"github.com/ftpong/pong-server/internal/services/session"
	"github.com/ftpong/pong-server/internal/storage"
	"github.com/ftpong/pong-server/internal/storage/memory"
	redisstorage "github.com/ftpong/pong-server/internal/storage/redis"
	"github.com/ftpong/pong-server/internal/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Connection layer
	Registry    *ws.Registry
	Broadcaster *ws.Broadcaster

	// Services
	Engine      engine.Engine
	Controller  *session.Controller
	Queue       *matchmaking.Queue
	Coordinator *matchmaking.Coordinator
}

// New creates a new application with all dependencies wired
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	switch cfg.StorageType {
	case "", config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(cfg, store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg config.Config, store storage.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	registry := ws.NewRegistry(logger)
	broadcaster := ws.NewBroadcaster(registry, logger)
	eng := engine.NewClassic(engine.Config{WinningScore: cfg.WinningScore})

	controller := session.NewController(
		session.Config{ReadyTimeout: cfg.ReadyTimeout, TickInterval: cfg.TickInterval},
		eng, broadcaster, store, clk, logger,
	)

	queue := matchmaking.NewQueue(cfg.QueueCapacity)
	coordinator := matchmaking.NewCoordinator(
		matchmaking.Config{NotifyDelay: cfg.NotifyDelay},
		queue, controller, rnd, logger,
	)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Registry:    registry,
		Broadcaster: broadcaster,
		Engine:      eng,
		Controller:  controller,
		Queue:       queue,
		Coordinator: coordinator,
	}
}
