package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/handlers"
	"github.com/seo-optimizer/insights/insight"
	"github.com/seo-optimizer/insights/logging"
	"github.com/seo-optimizer/insights/middleware"
	"github.com/seo-optimizer/insights/stats"
)

// retainMonths is how many past months of analysis counts are kept.
const retainMonths = 12

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	if cfg.Perplexity.APIKey == "" {
		logger.Warn("PERPLEXITY_API_KEY is not set; insight requests will be rejected upstream")
	}

	// Pipeline
	httpClient := analyzer.NewHTTPClient()
	fetcher := analyzer.NewHTTPFetcher(httpClient, cfg.Fetch.UserAgent, cfg.Fetch.Timeout)
	prober := analyzer.NewProber(fetcher, cfg.Fetch.UserAgent, cfg.Fetch.ProbeTimeout)
	// The insight client sets its own timeout on the client it is given.
	insights := insight.New(&http.Client{Transport: httpClient.Transport}, insight.Config{
		APIKey:   cfg.Perplexity.APIKey,
		Endpoint: cfg.Perplexity.URL,
		Model:    cfg.Perplexity.Model,
		Timeout:  cfg.Perplexity.Timeout,
	})
	seoAnalyzer := analyzer.New(fetcher, prober, insights, logger)

	// Statistics
	monthly, err := stats.NewStorage(cfg.Stats.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize statistics storage", zap.Error(err))
	}
	traffic, err := stats.NewTraffic(filepath.Join(cfg.Stats.DataDir, "traffic.json"))
	if err != nil {
		logger.Warn("failed to load traffic statistics, starting fresh", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(metrics.Handler())

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		r.Use(limiter.RateLimit())
	}
	r.Use(middleware.StatsMiddleware(traffic, logger))

	handlers.New(seoAnalyzer, handlers.Options{
		Metrics: metrics,
		Traffic: traffic,
		Monthly: monthly,
		DevMode: cfg.Server.DevMode,
		Logger:  logger,
	}).Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go housekeeping(ctx, limiter, monthly, logger)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
	case err := <-errChan:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	if err := traffic.Save(); err != nil {
		logger.Error("failed to save traffic statistics", zap.Error(err))
	}
	if err := monthly.Shutdown(); err != nil {
		logger.Error("failed to save statistics", zap.Error(err))
	}
}

// housekeeping prunes idle rate limiter clients and old statistics hourly.
func housekeeping(ctx context.Context, limiter *middleware.RateLimiter, monthly *stats.Storage, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if limiter != nil {
				if n := limiter.Prune(); n > 0 {
					logger.Debug("pruned idle rate limiter clients", zap.Int("count", n))
				}
			}
			monthly.Cleanup(retainMonths)
		}
	}
}
