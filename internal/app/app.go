// Package app wires the storefront's dependencies together and runs the
// HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/hydroflex/storefront/internal/cart"
	"github.com/hydroflex/storefront/internal/catalog"
	"github.com/hydroflex/storefront/internal/commerce"
	"github.com/hydroflex/storefront/internal/handler"
	"github.com/hydroflex/storefront/internal/session"
	"github.com/hydroflex/storefront/internal/storage/file"
	"github.com/hydroflex/storefront/internal/storage/postgres"
	"github.com/hydroflex/storefront/pkg/health"
	"github.com/hydroflex/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Sessions.Store),
		zap.Bool("commerce_configured", cfg.Commerce.StoreDomain != "" && cfg.Commerce.Token != ""),
	)

	cat, err := catalog.Default()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Cart store: file by default, postgres when configured.
	var store cart.Store
	switch cfg.Sessions.Store {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Sessions.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		pgStore := postgres.NewStore(pool, cfg.Sessions.TTL)
		startPurge(ctx, pgStore, cfg.Sessions.Cleanup)
		store = pgStore

		healthSvc.Add(health.Readiness, "postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	default:
		fileStore, err := file.New(cfg.Sessions.DataDir)
		if err != nil {
			return errors.Wrap(err, "create cart store")
		}
		store = fileStore
	}

	// Commerce client and session layer.
	client := commerce.NewClient(commerce.Config{
		StoreDomain: cfg.Commerce.StoreDomain,
		AccessToken: cfg.Commerce.Token,
		APIVersion:  cfg.Commerce.APIVersion,
		Timeout:     cfg.Commerce.Timeout,
	})
	sessions := session.NewManager(store, client, cfg.Sessions.TTL)
	sessions.StartCleanup(ctx, cfg.Sessions.Cleanup)

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.NewHandler(cat, sessions, client, cfg.SecureCookies)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront", m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// startPurge deletes expired persisted carts on an interval.
func startPurge(ctx context.Context, store *postgres.Store, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.PurgeExpired(ctx)
				if err != nil {
					zctx.From(ctx).Warn("purge expired carts", zap.Error(err))
					continue
				}
				if n > 0 {
					zctx.From(ctx).Info("purged expired carts", zap.Int64("count", n))
				}
			}
		}
	}()
}
