package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/go_cart/storefront/internal/cartstore"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/events"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cred := &repository.Credentials{
		Driver:            cfg.DBDriver,
		Path:              cfg.DBPath,
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	db, err := repository.Open(cred)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.RunMigrations(db, cred); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()
	logger.Info("session store ready", zap.String("backend", cfg.SessionBackend))

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	carts := cartstore.New(sessions, logger.Named("cartstore"))
	checkoutService := checkout.NewService(carts, orders, publisher, logger.Named("checkout"))
	metrics := h.NewServerMetrics(prometheus.DefaultRegisterer)

	router := h.NewRouter(h.RouterConfig{
		Products:   h.NewProductHandler(products, cfg.PageSize, cfg.RequestTimeout, logger),
		Cart:       h.NewCartHandler(carts, products, cfg.RequestTimeout, logger),
		Checkout:   h.NewCheckoutHandler(checkoutService, metrics, cfg.RequestTimeout, logger),
		Orders:     h.NewOrdersHandler(orders, cfg.RequestTimeout, logger),
		Admin:      h.NewAdminHandler(products, cfg.RequestTimeout, logger.Named("admin")),
		Metrics:    metrics,
		Gatherer:   prometheus.DefaultGatherer,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger.Named("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return zcfg.Build()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil

	case config.SessionBackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := session.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewMongoStore(db, cfg.SessionTTL)
		if err := store.CreateIndexes(connectCtx); err != nil {
			db.Client().Disconnect(context.Background())
			return nil, nil, err
		}
		return store, func() { db.Client().Disconnect(context.Background()) }, nil

	default:
		return session.NewMemoryStore(cfg.SessionMemorySize, cfg.SessionTTL), func() {}, nil
	}
}
