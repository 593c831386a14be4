package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fuelnet/loyalty/internal/config"
	"github.com/fuelnet/loyalty/internal/db"
	"github.com/fuelnet/loyalty/internal/events"
	"github.com/fuelnet/loyalty/internal/handlers"
	"github.com/fuelnet/loyalty/internal/loyalty"
	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/fuelnet/loyalty/internal/service"
	"github.com/fuelnet/loyalty/pkg/rabbitmq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting loyalty api",
		"port", cfg.Server.Port,
		"storage", cfg.Database.Driver,
		"broker_enabled", cfg.Broker.URL != "",
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	tiers, err := loyalty.LoadTierTable(cfg.Loyalty.TiersFile)
	if err != nil {
		logger.Error("failed to load tier table", "error", err)
		os.Exit(1)
	}
	rules := loyalty.NewRules(tiers, cfg.Loyalty.PremiumFuelTypeID, cfg.Loyalty.PremiumBonus, cfg.Loyalty.UnitsPerPoint)

	cache, err := service.NewCardInfoCache(cfg.Loyalty.CacheSize)
	if err != nil {
		logger.Error("failed to create card cache", "error", err)
		os.Exit(1)
	}

	loyaltySvc := service.NewLoyaltyService(store, rules, cache, cfg.Broker.EventsExchange, cfg.Loyalty.CardNumberAttempts)
	purchaseSvc := service.NewPurchaseService(store, loyaltySvc, cfg.Loyalty.MaxRedeemShare)

	repos := store.Repos()
	handler := handlers.NewHandler(loyaltySvc, purchaseSvc, store, logger)
	router, err := handlers.NewRouter(handler, repos.Idempotency, logger)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	publisher, err := newPublisher(&cfg.Broker, logger)
	if err != nil {
		logger.Error("failed to connect event producer", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	dispatcher := events.NewOutboxDispatcher(repos.Outbox, repos.Idempotency, publisher, events.DispatcherConfig{
		BatchSize:       cfg.Outbox.BatchSize,
		StaleAfter:      cfg.Outbox.StaleAfter,
		OutboxRetention: cfg.Outbox.Retention,
		IdempotencyTTL:  cfg.Server.IdempotencyTTL,
	}, logger)

	scheduler, err := events.NewScheduler([]events.Job{
		{Name: "outbox flush", Schedule: cfg.Outbox.FlushSchedule, Run: dispatcher.Flush},
		{Name: "prune", Schedule: cfg.Outbox.PruneSchedule, Run: dispatcher.Prune},
	}, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Broker.URL != "" {
		registration := events.NewRegistrationHandler(loyaltySvc, logger)
		g.Go(func() error {
			return consumeRegistrations(gctx, &cfg.Broker, registration, logger)
		})
	}

	scheduler.Start()

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		scheduler.Stop(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}

		// Publish whatever the last requests committed
		if _, err := dispatcher.FlushOnce(shutdownCtx); err != nil {
			logger.Warn("final outbox flush failed", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (repository.Store, func(), error) {
	if cfg.Driver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database, err := db.Connect(connectCtx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	return repository.NewPostgresStore(database), closeDB, nil
}

func newPublisher(cfg *config.BrokerConfig, logger *slog.Logger) (rabbitmq.Publisher, error) {
	if cfg.URL == "" {
		logger.Warn("RABBITMQ_URL not set; loyalty events are logged instead of published")
		return rabbitmq.NewLogPublisher(logger), nil
	}
	return rabbitmq.NewEventProducer(cfg.URL, logger)
}

// consumeRegistrations issues cards for user.created events. Losing the
// broker connection is logged and leaves the HTTP API running.
func consumeRegistrations(
	ctx context.Context,
	cfg *config.BrokerConfig,
	registration *events.RegistrationHandler,
	logger *slog.Logger,
) error {
	consumer, err := rabbitmq.NewConsumer(cfg.URL, logger)
	if err != nil {
		logger.Error("failed to connect registration consumer", "error", err)
		return nil
	}
	defer consumer.Close()

	err = consumer.Consume(ctx, cfg.RegistrationQueue, []rabbitmq.Binding{{
		Exchange:   cfg.RegistrationExchange,
		RoutingKey: cfg.RegistrationRoutingKey,
		Handler:    registration.HandleUserCreated,
	}})
	if err != nil {
		logger.Error("registration consumer stopped", "error", err)
	}
	return nil
}
