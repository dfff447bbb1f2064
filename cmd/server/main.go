package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/TobiasBrasser/aquabalance/internal/config"
	"github.com/TobiasBrasser/aquabalance/internal/metrics"
	"github.com/TobiasBrasser/aquabalance/internal/middleware"
	"github.com/TobiasBrasser/aquabalance/internal/service"
	"github.com/TobiasBrasser/aquabalance/internal/storage/backend"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/api/apiconnect"
	"github.com/TobiasBrasser/aquabalance/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("AQUABALANCE_CONFIG"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.Storage.Backend, "database", cfg.Storage.Path)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	app, err := tracker.Open(ctx, store, tracker.SettingsFromConfig(cfg), tracker.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("failed to open tracker: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(flushCtx); err != nil {
			slog.Error("Failed to flush tracker state", "error", err)
		}
	}()

	handler := newHandler(app, m, reg, cfg.Metrics)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr: addr,
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler mounts the Connect services, /healthz and, when enabled, the
// metrics endpoint.
func newHandler(app *tracker.App, m *metrics.Metrics, gatherer prometheus.Gatherer, mc config.MetricsConfig) http.Handler {
	mux := http.NewServeMux()

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(m))

	profilePath, profileHandler := apiconnect.NewProfileServiceHandler(service.NewProfileService(app), interceptors)
	mux.Handle(profilePath, profileHandler)

	trackerPath, trackerHandler := apiconnect.NewTrackerServiceHandler(service.NewTrackerService(app), interceptors)
	mux.Handle(trackerPath, trackerHandler)

	if mc.Enabled {
		mux.Handle(mc.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.RequestLogger(middleware.CORS(mux))
}
