package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/flightcarbon/backend/internal/cache"
	"github.com/flightcarbon/backend/internal/config"
	"github.com/flightcarbon/backend/internal/delivery/http"
	"github.com/flightcarbon/backend/internal/engine"
	"github.com/flightcarbon/backend/internal/events"
	"github.com/flightcarbon/backend/internal/repository/postgres"
	"github.com/flightcarbon/backend/internal/repository/sqlite"
	"github.com/flightcarbon/backend/internal/service"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// run wires and serves the application. Deferred closes run on every return.
func run(configPath string) error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment")
	}

	if configPath != "" {
		os.Setenv("FLIGHTCARBON_CONFIG_PATH", configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	dataRepo, closeRepo, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Dependency Injection: Engine
	engineOpts := []engine.Option{engine.WithWorkers(cfg.Fleet.Workers)}
	if cfg.Registry.Path != "" {
		registry, err := loadRegistry(cfg.Registry.Path)
		if err != nil {
			return fmt.Errorf("failed to load airport registry %s: %w", cfg.Registry.Path, err)
		}
		slog.Info("Loaded airport registry", "path", cfg.Registry.Path, "airports", registry.Len())
		engineOpts = append(engineOpts, engine.WithRegistry(registry))
	}
	eng := engine.New(engineOpts...)

	// Optional cache and event stream
	var fleetCache service.FleetCache
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis)
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("Could not connect to Redis, fleet cache disabled", "addr", cfg.Redis.Addr, "error", err)
			rc.Close()
		} else {
			defer rc.Close()
			fleetCache = rc
			slog.Info("Connected to Redis", "addr", cfg.Redis.Addr)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewProducer(cfg.Kafka)
		slog.Info("Publishing fleet events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Dependency Injection: Services
	flightSvc := service.NewFlightService(eng, dataRepo, service.Options{
		Cache:        fleetCache,
		Publisher:    publisher,
		BaselineTons: cfg.Emissions.BaselineTons,
		DefaultCount: cfg.Fleet.DefaultCount,
		MaxCount:     cfg.Fleet.MaxCount,
	})

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "FlightCarbon API v1.0",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, flightSvc)

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("Server starting", "port", cfg.Server.Port, "store", cfg.Store.Driver)
	err = serve(app, ":"+cfg.Server.Port, quit)
	flightSvc.WaitBackground()
	if err != nil {
		return err
	}
	slog.Info("Server exited gracefully")
	return nil
}

// serve listens on addr until quit fires or the listener fails, then shuts
// the app down. A listener failure is returned.
func serve(app *fiber.App, addr string, quit <-chan os.Signal) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := app.Listen(addr); err != nil {
			serverErr <- err
		}
	}()

	var listenErr error
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case listenErr = <-serverErr:
		slog.Error("Server error", "error", listenErr)
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if listenErr != nil {
		return fmt.Errorf("server error: %w", listenErr)
	}
	return nil
}

// openStore picks the repository for the configured driver. A failed
// PostgreSQL connection falls back to the in-memory store.
func openStore(ctx context.Context, cfg config.StoreConfig) (service.DataRepository, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			slog.Warn("Could not connect to database, running in memory", "error", err)
			if pool != nil {
				pool.Close()
			}
			return postgres.NewMockRepository(), func() {}, nil
		}

		repo := postgres.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		slog.Info("Connected to PostgreSQL")
		return repo, pool.Close, nil

	case "sqlite":
		repo, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite database %s: %w", cfg.SQLitePath, err)
		}
		slog.Info("Opened SQLite database", "path", cfg.SQLitePath)
		return repo, func() {
			if err := repo.Close(); err != nil {
				slog.Error("Failed to close SQLite database", "error", err)
			}
		}, nil

	default:
		slog.Info("Running with in-memory store")
		return postgres.NewMockRepository(), func() {}, nil
	}
}

func loadRegistry(path string) (*engine.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return engine.LoadRegistryYAML(f)
}
