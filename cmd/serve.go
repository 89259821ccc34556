package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/comerian/gmaildrafter/internal/config"
	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/logging"
	"github.com/comerian/gmaildrafter/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		httpAddr    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server backing the drafter front end.

The server exposes:
  - POST /api/load-sheet  Load and normalize a Google Sheet
  - POST /api/drafts      Create Gmail drafts for every sheet row
  - GET  /api/health      Service status for the front end
  - /healthz, /readyz     Kubernetes probes

Sheet reads use a service account key supplied via the
GOOGLE_SERVICE_ACCOUNT_KEY environment variable (JSON blob). Draft
creation uses the signed-in user's Google access token sent with each
request; the server never stores Google credentials for end users.

Prometheus metrics are served on a dedicated port (default :9090) so
operational data stays off the public listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(debugMode, httpAddr, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP server address (overrides SERVER_ADDR, default :3000)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (overrides METRICS_ADDR, default :9090)")

	return cmd
}

func runServe(debugMode bool, httpAddr, metricsAddr string) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if httpAddr != "" {
		cfg.ServerAddr = httpAddr
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if debugMode {
		cfg.LogLevel = "debug"
	}

	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	// Start metrics server on its own port
	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, cfg, provider)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	health := server.NewHealthChecker(serverContext)

	limiter := server.NewRateLimiter(server.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   5 * time.Minute,
	}, logging.DefaultLogger())
	defer limiter.Stop()

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           server.NewRouter(serverContext, health, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting gmaildrafter API server on %s", cfg.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-shutdownCtx.Done():
	}

	log.Println("Shutdown signal received, stopping HTTP server...")
	health.SetReady(false)

	gracefulCtx, gracefulCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer gracefulCancel()

	if err := httpServer.Shutdown(gracefulCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	log.Println("HTTP server gracefully stopped")
	return nil
}
