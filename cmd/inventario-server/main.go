// Package main is the entry point for the Inventario API server, a
// multi-tenant inventory backend where users manage warehouses and the
// products stored in them.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/inventario/internal/auth"
	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/handler"
	"github.com/prn-tf/inventario/internal/lock"
	"github.com/prn-tf/inventario/internal/repository"
	"github.com/prn-tf/inventario/internal/repository/postgres"
	"github.com/prn-tf/inventario/internal/repository/sqlite"
	"github.com/prn-tf/inventario/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	logger := newLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting Inventario server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	repos, health, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer health.Close()

	// Entity locks: in-process by default, Redis when running more than
	// one instance.
	locker, err := buildLocker(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize locker")
	}

	// Session tokens
	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	// Services
	authService := service.NewAuthService(repos.User, tokens, logger)
	userService := service.NewUserService(repos.User, locker, logger)
	warehouseService := service.NewWarehouseService(repos.Warehouse, repos.Product, locker, logger)
	productService := service.NewProductService(repos.Product, repos.Warehouse, locker, logger)

	// HTTP layer
	authConfig := auth.DefaultConfig()
	if cfg.Metrics.Enabled {
		authConfig.SkipPaths = append(authConfig.SkipPaths, cfg.Metrics.Path)
	}

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(authService, logger),
		UserHandler:      handler.NewUserHandler(userService, logger),
		WarehouseHandler: handler.NewWarehouseHandler(warehouseService, logger),
		ProductHandler:   handler.NewProductHandler(productService, logger),
		AuthMiddleware:   auth.Middleware(tokens, repos.User, authConfig),
		Health:           health,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsPath:      cfg.Metrics.Path,
		Logger:           logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr()).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newLogger builds a zerolog logger per logging configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// buildRepositories connects to the configured database and returns the
// repository set plus a health handle.
func buildRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Repositories, repository.DatabaseHealth, error) {
	if cfg.Database.IsEmbedded() {
		dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
		dbCfg.JournalMode = cfg.Database.JournalMode
		dbCfg.BusyTimeout = cfg.Database.BusyTimeout
		dbCfg.SynchronousMode = cfg.Database.SynchronousMode

		db, err := sqlite.NewDB(ctx, dbCfg, logger)
		if err != nil {
			return repository.Repositories{}, nil, err
		}

		// The embedded database migrates itself on startup.
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}

		return repository.Repositories{
			User:      sqlite.NewUserRepository(db),
			Warehouse: sqlite.NewWarehouseRepository(db),
			Product:   sqlite.NewProductRepository(db),
		}, db, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return repository.Repositories{}, nil, err
	}

	return repository.Repositories{
		User:      postgres.NewUserRepository(db),
		Warehouse: postgres.NewWarehouseRepository(db),
		Product:   postgres.NewProductRepository(db),
	}, db, nil
}

// buildLocker picks the lock backend.
func buildLocker(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (lock.Locker, error) {
	if !cfg.Redis.Enabled {
		logger.Info().Msg("using in-memory entity locks")
		return lock.NewMemoryLocker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info().Str("addr", cfg.Redis.Addr()).Msg("using Redis entity locks")
	return lock.NewRedisLocker(client), nil
}
