package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kahdian/wikiproxy/internal/config"
	"github.com/kahdian/wikiproxy/internal/logging"
	"github.com/kahdian/wikiproxy/internal/metrics"
	"github.com/kahdian/wikiproxy/internal/proxy"
	"github.com/kahdian/wikiproxy/internal/proxy/handler"
	"github.com/kahdian/wikiproxy/internal/wiki"
)

func main() {
	configPath := flag.String("config", "", "path to wikiproxy YAML config (defaults only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogSettings)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, field := range config.UnknownFields(cfg) {
		logger.Warn("unknown config field ignored", zap.String("field", field))
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("wikiproxy exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.ProxyConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	up := cfg.UpstreamSettings
	client := wiki.NewClient(wiki.Options{
		APIBase:           up.APIBase,
		UserAgent:         up.UserAgent,
		Timeout:           up.TimeoutDuration(),
		RequestsPerSecond: up.RateLimit(),
		Burst:             up.Burst,
		Logger:            logger.Named("wiki"),
		Recorder:          m,
	})

	srv := proxy.NewServer(proxy.ServerConfig{
		Handlers: &handler.Handlers{
			Wiki:    client,
			Logger:  logger.Named("handler"),
			Metrics: m,
		},
		Logger:   logger.Named("http"),
		Observer: m,
	})

	gs := cfg.GeneralSettings
	addr := fmt.Sprintf(":%d", gs.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  gs.ReadTimeoutDuration(),
		WriteTimeout: gs.WriteTimeoutDuration(),
		IdleTimeout:  gs.IdleTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("wikiproxy listening",
			zap.String("addr", addr),
			zap.String("api_base", up.APIBase),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return metrics.ListenAndServe(gctx, cfg.MetricsAddr(), prometheus.DefaultGatherer, logger.Named("metrics"))
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gs.ShutdownTimeoutDuration())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
