// Command edbo-proxy serves a rate-limited, cached mirror of the EDBO
// Opendata Registry API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	edbo "github.com/edbo-tools/edbo-go"
	"github.com/edbo-tools/edbo-go/internal/config"
	xlog "github.com/edbo-tools/edbo-go/internal/log"
	"github.com/edbo-tools/edbo-go/internal/proxy"
	"github.com/edbo-tools/edbo-go/internal/telemetry"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("edbo-proxy %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	os.Exit(run(*configPath))
}

func run(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edbo-proxy: %v\n", err)
		return 1
	}

	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Service: "edbo-proxy"})
	logger := xlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.OTELEnabled,
		ServiceName:    "edbo-proxy",
		ServiceVersion: version,
		Environment:    cfg.Environment,
		ExporterType:   cfg.OTELExporter,
		Endpoint:       cfg.OTELEndpoint,
		SamplingRate:   cfg.OTELSampling,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise telemetry")
		return 1
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	client, err := edbo.NewWithOptions(edbo.Options{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		RateLimit:      rate.Limit(cfg.UpstreamRate),
		RateLimitBurst: cfg.UpstreamBurst,
		CacheTTL:       cfg.CacheTTL,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise registry client")
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           proxy.New(client).Router(cfg.RequestsPerMinute),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("listen", cfg.Listen).
			Str("upstream", cfg.BaseURL).
			Dur("cache_ttl", cfg.CacheTTL).
			Msg("proxy listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return 1
	}

	logger.Info().Msg("stopped")
	return 0
}
