package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/macrolab/macrosim/internal/alerts"
	"github.com/macrolab/macrosim/internal/config"
	"github.com/macrolab/macrosim/internal/logger"
	"github.com/macrolab/macrosim/internal/market"
	"github.com/macrolab/macrosim/internal/monitoring"
	"github.com/macrolab/macrosim/internal/server"
	"github.com/macrolab/macrosim/internal/telegram"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config %s not readable (%v), using defaults", *configPath, err)
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	tracker := market.NewTracker(market.DefaultIndexes(), nil)
	tracker.Refresh()

	alertStore, err := alerts.NewStore(cfg.Alerts.FilePath)
	if err != nil {
		logger.Error("open alert store: %v", err)
		os.Exit(1)
	}

	var notifier alerts.Notifier
	if cfg.Telegram.Enabled {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error("telegram setup: %v", err)
			os.Exit(1)
		}
		notifier = tg
		logger.Info("telegram notifications enabled")
	}

	watcher := alerts.NewWatcher(alertStore, tracker.Quote, notifier)
	if err := watcher.Start(cfg.Alerts.CronSpec); err != nil {
		logger.Error("start alert watcher: %v", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	// Conditions refresh keeps event context and historical comparisons moving.
	refresher := cron.New()
	if _, err := refresher.AddFunc(cfg.Server.RefreshSpec, tracker.Refresh); err != nil {
		logger.Error("register conditions refresh: %v", err)
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()

	metrics := monitoring.NewMetrics("macrosim")
	api := server.New(tracker, alertStore, metrics)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
