// Command server starts the Tika gateway.
//
// The gateway accepts HTTP traffic immediately and polls the Tika engine in
// the background; document endpoints stay gated until the engine answers.
// Graceful shutdown is triggered by SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"tikagate/internal/cache"
	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/handler"
	"tikagate/internal/logging"
	"tikagate/internal/metrics"
	"tikagate/internal/port"
	"tikagate/internal/readiness"
	"tikagate/internal/router"
	"tikagate/internal/service"
	"tikagate/internal/tika"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.Setup(&cfg.Log)
	log.WithFields(logrus.Fields{
		"service":     handler.ServiceName,
		"version":     handler.ServiceVersion,
		"environment": cfg.Server.Environment,
		"tika_url":    cfg.Tika.BaseURL(),
	}).Info("starting gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// Engine client and background readiness probe
	engine := tika.NewClient(&cfg.Tika, log.WithField("component", "tika"))

	var observers []readiness.StateObserver
	if m != nil {
		observers = append(observers, func(state domain.ServiceState) {
			m.EngineState.Set(float64(state))
		})
	}
	monitor := readiness.NewMonitor(engine, &cfg.Tika, log.WithField("component", "readiness"), observers...)
	go monitor.Start(ctx)

	// Cache backend for capability listings and optional result caching
	var backend port.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close()
		backend = redisCache
		log.WithField("addr", cfg.Cache.RedisAddr).Info("cache: using redis backend")
	default:
		backend = cache.NewMemory(cfg.Cache.TTL)
	}

	var results *cache.ResultCache
	if cfg.Cache.Results {
		results = cache.NewResultCache(backend, cfg.Cache.TTL, log.WithField("component", "cache"))
		log.WithField("ttl", cfg.Cache.TTL.String()).Info("cache: result caching enabled")
	}

	// Initialize services
	docSvc := service.NewDocumentService(engine, backend, cfg.Cache.TTL, results, m, log.WithField("component", "service"))

	// Initialize handlers
	docH := handler.NewDocumentHandler(docSvc, &cfg.Tika, m, log)
	infoH := handler.NewInfoHandler(docSvc, monitor, log)
	healthH := handler.NewHealthHandler(monitor, startTime)

	// Setup router
	r := router.Setup(cfg, log, m, monitor, docH, infoH, healthH)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithField("error", err.Error()).Error("server shutdown error")
		}
	}()

	log.WithField("addr", server.Addr).Info("gateway listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("gateway stopped")
	return nil
}
