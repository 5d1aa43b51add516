package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/corkboardhq/corkboard/internal/auth"
	"github.com/corkboardhq/corkboard/internal/config"
	"github.com/corkboardhq/corkboard/internal/events"
	"github.com/corkboardhq/corkboard/internal/mutate"
	"github.com/corkboardhq/corkboard/internal/notify"
	"github.com/corkboardhq/corkboard/internal/realtime"
	"github.com/corkboardhq/corkboard/internal/server"
	"github.com/corkboardhq/corkboard/internal/store/postgres"
	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

const scopeLockTTL = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("CORKBOARD_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("CORKBOARD_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis (pub/sub bus, event streams, scope locks).
	bus, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer bus.Close()

	verifier := auth.NewVerifier(cfg.JWT.Secret)

	// Real-time hub fanning board and user events out to WebSocket rooms.
	hub := realtime.NewHub(bus, verifier, store.Boards())

	// Mutation service: permission check, scope lock, position engine,
	// persist, then emit to the hub and the durable stream.
	locker := redisstore.NewScopeLocker(bus, scopeLockTTL)
	publisher := events.NewPublisher(bus, cfg.Events.Stream)
	mutator := mutate.New(store.Boards(), store.Lists(), store.Cards(), locker, hub, publisher)

	// Durable consumer delivering personal notifications.
	registry := events.NewRegistry()
	notify.New(hub).Register(registry)
	consumer := events.NewConsumer(
		bus,
		registry,
		cfg.Events.Stream,
		cfg.Events.Group,
		cfg.Events.Consumer,
		events.WithMaxAttempts(cfg.Events.MaxAttempts),
		events.WithBaseBackoff(cfg.Events.BaseBackoff),
	)

	srv := server.New(cfg, store, hub, mutator, verifier)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		return srv.Start(gctx)
	})
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("stopped")
	return nil
}
