// Package app wires the storefront's dependencies and runs the HTTP
// server with graceful shutdown.
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

	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/gateway"
	"github.com/xenking/storefront/internal/retry"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("environment", cfg.Environment),
	)

	// Catalog client + controllers. The client is constructed once here
	// and injected; nothing else reaches the upstream endpoint.
	client := catalog.NewClient(catalog.ClientConfig{
		Endpoint:      cfg.Catalog.URL,
		Production:    cfg.Production(),
		Timeout:       cfg.Catalog.Timeout,
		HealthTimeout: cfg.Catalog.HealthTimeout,
		Retry: retry.Options{
			MaxRetries: cfg.Catalog.MaxRetries,
			BaseDelay:  cfg.Catalog.BaseDelay,
			Multiplier: cfg.Catalog.Multiplier,
			MaxDelay:   cfg.Catalog.MaxDelay,
		},
	}, lg.Named("catalog"), m.TracerProvider())

	catalogCtrl, err := catalog.NewController(client, lg.Named("catalog"), m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create catalog controller")
	}
	cartCtrl := cart.NewController(lg.Named("cart"))

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", cfg.Catalog.HealthTimeout,
		health.UpstreamCheck("catalog", client.CheckAPIHealth))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Warm the catalog cache before accepting traffic. A failure is kept
	// in the error slot and surfaced to consumers, not fatal here.
	catalogCtrl.Fetch(zctx.Base(ctx, lg))
	healthSvc.SetReady(true)

	// Routes.
	h := gateway.NewHandler(catalogCtrl, cartCtrl, lg.Named("gateway"))
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	handler := httpmiddleware.Wrap(
		otelhttp.NewHandler(mux, "storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           handler,
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
