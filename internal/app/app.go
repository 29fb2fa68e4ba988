package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/optika-storefront/internal/cache"
	"github.com/xenking/optika-storefront/internal/catalogapi"
	"github.com/xenking/optika-storefront/internal/handler"
	"github.com/xenking/optika-storefront/pkg/health"
	"github.com/xenking/optika-storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, warms the catalog cache, starts the HTTP
// server, and handles graceful shutdown. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog_url", cfg.Catalog.URL),
	)

	// Upstream Catalog API client with instrumented transport.
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)
	client, err := catalogapi.NewClient(cfg.Catalog.URL,
		catalogapi.WithHTTPClient(&http.Client{
			Timeout:   cfg.Catalog.Timeout,
			Transport: transport,
		}),
		catalogapi.WithTokenSource(catalogapi.StaticToken(cfg.Catalog.Token)),
		catalogapi.WithListLimit(cfg.Catalog.Limit),
	)
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	// Catalog cache, warmed before the server takes traffic. A partial warm
	// is not fatal: each collection keeps its own error state and the UI
	// offers retry.
	store := cache.New(client)
	if err := store.Refresh(ctx); err != nil {
		lg.Warn("Initial cache warm incomplete", zap.Error(err))
	}
	if cfg.Catalog.RefreshInterval > 0 {
		go refreshLoop(ctx, lg, store, cfg.Catalog.RefreshInterval)
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog-api", 5*time.Second, health.PingCheck(client))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Storefront routes + health endpoints on one mux.
	h := handler.New(handler.Config{ImageBaseURL: cfg.ImageBaseURL}, store, client)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
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

// refreshLoop re-warms the cache at the configured interval until ctx is
// cancelled. Settlement order does not matter: the cache keeps whatever
// settled last.
func refreshLoop(ctx context.Context, lg *zap.Logger, store *cache.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Refresh(ctx); err != nil {
				lg.Warn("Cache refresh incomplete", zap.Error(err))
			}
		}
	}
}
