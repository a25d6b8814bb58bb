package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsanano/storefront/internal/config"
	"fsanano/storefront/internal/events"
	"fsanano/storefront/internal/handler"
	"fsanano/storefront/internal/logger"
	"fsanano/storefront/internal/repository"
	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel)

	// 2. Setup Database
	if cfg.MigrateOnStart {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations applied")
	}

	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("connected to database")

	// 3. Setup Sessions
	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		sessionStore = session.NewRedisStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session store")
	}
	sessions := session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure)

	// 4. Setup Events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("publishing order events")
	}
	defer publisher.Close()

	// 5. Setup Logic
	repo := repository.NewRepository(dbPool)

	catalogService := service.NewCatalogService(repo, log)
	userService := service.NewUserService(repo, service.NewBcryptHasher(), log)
	orderService := service.NewOrderService(repo, log,
		service.WithPublisher(publisher),
		service.WithStockDecrement(cfg.DecrementStockOnOrder),
	)
	inventoryService := service.NewInventoryService(repo, log)

	h := handler.NewHandler(log, sessions,
		handler.NewCatalogHandler(catalogService),
		handler.NewUserHandler(userService, sessions),
		handler.NewOrderHandler(orderService),
		handler.NewInventoryHandler(inventoryService),
	)

	// 6. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Run Server with Graceful Shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server exiting")
}
