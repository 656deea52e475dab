// Package app wires together all dependencies and runs the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"

	"github.com/tausif1337/remart/internal/auth"
	fsrepo "github.com/tausif1337/remart/internal/catalog/firestore"
	"github.com/tausif1337/remart/internal/checkout"
	"github.com/tausif1337/remart/internal/config"
	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/event"
	handler "github.com/tausif1337/remart/internal/handler/http"
	"github.com/tausif1337/remart/internal/hydrate"
	"github.com/tausif1337/remart/internal/payment"
	"github.com/tausif1337/remart/internal/storage"
	"github.com/tausif1337/remart/internal/store"
	"github.com/tausif1337/remart/pkg/database"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/health"
	"github.com/tausif1337/remart/pkg/httpclient"
	"github.com/tausif1337/remart/pkg/middleware"
	"github.com/tausif1337/remart/pkg/tracing"
)

// App holds the storefront's long-lived components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	rdb       *redis.Client
	fsClient  *firestore.Client
	bus       *event.Bus
	cart      *store.CartStore
	wishlist  *store.WishlistStore
	observer  *auth.Observer
	hydrator  *hydrate.Coordinator
	checkout  *checkout.Service
	tracerFin func(context.Context) error

	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis: local durable storage for cart/wishlist snapshots.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Firestore: products, reviews and orders live there.
	fsClient, err := firestore.NewClient(ctx, cfg.FirestoreProject)
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to firestore: %w", err)
	}
	logger.Info("connected to Firestore", slog.String("project", cfg.FirestoreProject))

	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirestoreProject)
	if err != nil {
		fsClient.Close()
		rdb.Close()
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	// Tracing.
	tracerFin, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "remart-storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		fsClient.Close()
		rdb.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Build the dependency graph.
	kv := storage.NewRedisKV(rdb)
	cartSnapshots := storage.NewSnapshotStore[domain.CartItem](kv, logger)
	wishlistSnapshots := storage.NewSnapshotStore[domain.Product](kv, logger)

	bus := event.NewBus(logger)
	cart := store.NewCartStore(cartSnapshots, bus, logger)
	wishlist := store.NewWishlistStore(wishlistSnapshots, bus, logger)

	observer := auth.NewObserver(verifier, logger)
	hydrator := hydrate.NewCoordinator(cart, wishlist, cartSnapshots, wishlistSnapshots, observer, logger)

	products := fsrepo.NewProductRepository(fsClient)
	reviews := fsrepo.NewReviewRepository(fsClient)
	orders := fsrepo.NewOrderRepository(fsClient)

	gatewayHTTP := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("sslcommerz"),
		logger,
	)
	gateway := payment.NewClient(payment.Config{
		BaseURL:       cfg.GatewayBaseURL,
		StoreID:       cfg.GatewayStoreID,
		StorePassword: cfg.GatewayStorePass,
		Currency:      cfg.GatewayCurrency,
		SuccessURL:    cfg.PaymentSuccessURL,
		FailURL:       cfg.PaymentFailURL,
		CancelURL:     cfg.PaymentCancelURL,
	}, gatewayHTTP, logger)

	checkoutSvc := checkout.NewService(cart, orders, gateway, hydrator, bus, logger, cfg.GatewayCurrency)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("hydration", func(ctx context.Context) error {
		if !hydrator.IsReady() {
			return apperrors.NotReady("stores not hydrated")
		}
		return nil
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.Deps{
		Cart:        cart,
		Wishlist:    wishlist,
		Coordinator: hydrator,
		Checkout:    checkoutSvc,
		Classifier:  gateway,
		Products:    products,
		Reviews:     reviews,
		Orders:      orders,
		Verifier:    verifier,
		Health:      healthHandler,
		Logger:      logger,
		CORS:        corsCfg,
		PprofCIDRs:  cfg.PprofCIDRs,
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
		rdb:        rdb,
		fsClient:   fsClient,
		bus:        bus,
		cart:       cart,
		wishlist:   wishlist,
		observer:   observer,
		hydrator:   hydrator,
		checkout:   checkoutSvc,
		tracerFin:  tracerFin,
		httpServer: httpServer,
	}, nil
}

// Run starts background work and the HTTP server, blocking until the context
// is canceled. Hydration runs detached so the server can answer health and
// read requests immediately; mutations stay gated until the coordinator is
// ready.
func (a *App) Run(ctx context.Context) error {
	go a.observer.Resolve(ctx, a.cfg.SessionToken)
	go a.hydrator.Run(ctx)
	go a.checkout.RunSweeper(ctx)

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

// Shutdown gracefully stops all components. Pending snapshot writes are
// flushed before the storage clients close so the last mutation survives
// restart.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.cart.Flush()
	a.wishlist.Flush()
	a.bus.Close()

	if err := a.tracerFin(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	if err := a.fsClient.Close(); err != nil {
		a.logger.Error("firestore close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
