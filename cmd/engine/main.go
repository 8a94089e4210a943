package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sentinel/internal/config"
	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/httpapi"
	"github.com/hamed0406/sentinel/internal/httpapi/middleware"
	"github.com/hamed0406/sentinel/internal/logging"
	"github.com/hamed0406/sentinel/internal/notify"
	"github.com/hamed0406/sentinel/internal/probe"
	"github.com/hamed0406/sentinel/internal/repo"
	"github.com/hamed0406/sentinel/internal/repo/memory"
	"github.com/hamed0406/sentinel/internal/repo/postgres"
	"github.com/hamed0406/sentinel/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		targets  repo.TargetStore
		outcomes repo.OutcomeStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect", zap.Error(err))
		}
		defer pg.Close()
		targets, outcomes = pg, pg
	} else {
		mem := memory.New()
		targets, outcomes = mem, mem
		logger.Info("using_memory_store")
	}

	registry := probe.NewRegistry(map[domain.TargetKind]probe.Checker{
		domain.KindHTTP:       probe.NewHTTPChecker(10 * time.Second),
		domain.KindICMP:       probe.NewICMPChecker(4, 2*time.Second),
		domain.KindTLS:        probe.NewTLSChecker(10 * time.Second),
		domain.KindPort:       probe.NewPortChecker(2 * time.Second),
		domain.KindCrawlAudit: probe.NewCrawlChecker(cfg.CrawlMaxPages, cfg.CrawlMaxDepth),
		domain.KindTyposquat:  probe.NewTyposquatChecker(cfg.TyposquatLimit),
		domain.KindEcoAudit:   probe.NewEcoChecker(10 * time.Second),
	})

	alerts := notify.NewAlerts(notify.Multi{notify.NewSlack(cfg.SlackWebhook)}, logger)
	dispatcher := scheduler.NewDispatcher(logger, registry, cfg.Concurrency)
	engine := scheduler.NewEngine(logger, targets, outcomes, alerts, dispatcher,
		cfg.PollInterval, scheduler.AnomalyConfig{
			Window:        cfg.AnomalyWindow,
			MinBaselineMS: cfg.AnomalyMinBaselineMS,
			SpikeFactor:   cfg.AnomalySpikeFactor,
			MinCurrentMS:  cfg.AnomalyMinCurrentMS,
		})

	go engine.Run(ctx)

	api := httpapi.NewServer(logger, targets, outcomes, engine,
		middleware.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
		cfg.PublicRPM, cfg.PublicBurst)

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_serve", zap.Error(err))
	}
}
