package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/http/api"
	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/http/ws"
	service "github.com/MalekSoula7/AI-Career-Studio/internal/app"
	"github.com/MalekSoula7/AI-Career-Studio/internal/config"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/attention"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/insights"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Drop the default collectors; the system metrics updater below covers
	// what the dashboards actually read.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithQuestionTimeout(time.Duration(cfg.QuestionTimeoutS)*time.Second),
		service.WithEventBufferSize(cfg.EventBufferSize),
		service.WithMaxSessions(cfg.MaxSessions),
		service.WithSessionTTL(time.Duration(cfg.SessionTTLMin)*time.Minute),
		service.WithEvictionInterval(time.Duration(cfg.EvictionIntervalS)*time.Second),
		service.WithTracker(attention.New(
			attention.WithAlpha(cfg.EMAAlpha),
			attention.WithNudgePolicy(cfg.NudgeThreshold, time.Duration(cfg.NudgeCooldownS)*time.Second),
			attention.WithStatusInterval(time.Duration(cfg.StatusIntervalS)*time.Second),
		)),
		service.WithAggregator(insights.New(
			insights.WithScoreWeights(cfg.ContentWeight, cfg.AttentionWeight),
			insights.WithAttentionEMAShare(cfg.AttentionEMAShare),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", ws.NewHandler(svc).HandleSession)

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater periodically records runtime-level metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
