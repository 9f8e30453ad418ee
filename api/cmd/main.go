package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/application/location"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/real-time-ressys/services/location-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/infrastructure/seed"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/router"
)

// sysClock implements location.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// Store is what the app needs from a record store: the repository ports plus a liveness probe.
type Store interface {
	location.Repo
	Ping(ctx context.Context) error
}

// App holds all dependencies for the service
type App struct {
	Config  *config.Config
	Server  *http.Server
	Store   Store
	Service *location.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	// Root ctx with signal cancellation
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(rootCtx, cfg, logger.Logger.With().Str("env", cfg.AppEnv).Logger())
	stop()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("location-service exited")
		os.Exit(1)
	}
}

// run owns every resource it opens and releases them before returning, so main can exit
// with a status code without skipping cleanup.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("store init (%s): %w", cfg.StoreDriver, err)
	}
	if db != nil {
		defer db.Close()
	}

	if cfg.SeedStates {
		if _, err := seed.SeedStates(ctx, store, log); err != nil {
			return fmt.Errorf("state seeding: %w", err)
		}
	}

	// publisher wiring
	var pub location.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return fmt.Errorf("rabbit publisher init: %w", err)
		}
		defer p.Close()
		pub = p
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		log.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	app := NewApp(cfg, store, pub)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server starting")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server crash
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("shutdown complete")

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// openStore returns the configured store. db is non-nil only for postgres and must be closed by the caller.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store: data is lost on restart")
		return memory.NewRepo(), nil, nil
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		log.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.DBMigrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("migrations applied")
	}
	return postgres.New(db), db, nil
}

func NewApp(cfg *config.Config, store Store, pub location.EventPublisher) *App {
	// 1) Application
	svc := location.New(store, sysClock{}, pub)

	// 2) Transport
	h := handlers.NewCitiesHandler(svc)
	z := handlers.NewHealthHandler(store)

	// 3) Router
	httpHandler := router.New(h, z, cfg)

	// 4) Server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:  cfg,
		Server:  srv,
		Store:   store,
		Service: svc,
	}
}
