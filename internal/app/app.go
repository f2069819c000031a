package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/globaltire/storefront/internal/account"
	"github.com/globaltire/storefront/internal/config"
	"github.com/globaltire/storefront/internal/database"
	handler "github.com/globaltire/storefront/internal/handler/http"
	"github.com/globaltire/storefront/internal/health"
	"github.com/globaltire/storefront/internal/httpclient"
	"github.com/globaltire/storefront/internal/repository/postgres"
	redisrepo "github.com/globaltire/storefront/internal/repository/redis"
	"github.com/globaltire/storefront/internal/session"
	"github.com/globaltire/storefront/internal/shop"
	"github.com/globaltire/storefront/internal/upstream"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	shopCtrl   *shop.Controller
	httpServer *http.Server
}

// NewApp creates the application, connecting to its backing stores and
// building the dependency graph.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL pool for accounts and addresses.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)
	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "storefront"))

	// Redis for per-client carts and login records.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	// Upstream store API client. Raw catalog traffic bypasses the breaker
	// so upstream responses are mirrored unchanged; decoded reads go
	// through it.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("upstream-store"),
		logger,
	)
	upstreamClient := upstream.New(httpClient, breaker, upstream.Config{
		BaseURL:        cfg.UpstreamBaseURL,
		CatalogPath:    cfg.CatalogPath,
		OrdersPath:     cfg.OrdersPath,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
	}, logger)

	// Repositories and services.
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour
	sessionStore := session.NewStore(redisrepo.NewSessionRepository(rdb, sessionTTL, logger))

	accountService := account.NewService(
		postgres.NewUserRepository(pool),
		postgres.NewAddressRepository(pool),
		upstreamClient,
		cfg.CustomerRole,
		logger,
	)

	shopCtrl := shop.NewController(upstreamClient, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	router := handler.NewRouter(handler.RouterConfig{
		Upstream:       upstreamClient,
		AccountService: accountService,
		SessionStore:   sessionStore,
		ShopController: shopCtrl,
		HealthHandler:  healthHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		rdb:        rdb,
		shopCtrl:   shopCtrl,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Warm the shop listing. A failed load leaves the controller in its
	// failed state; the next reload request recovers it.
	if err := a.shopCtrl.Load(ctx); err != nil {
		a.logger.Warn("initial catalog load failed", slog.String("error", err.Error()))
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
