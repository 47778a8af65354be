package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macrolab/macrosim/internal/client"
	"github.com/macrolab/macrosim/internal/config"
	"github.com/macrolab/macrosim/internal/logger"
	"github.com/macrolab/macrosim/internal/recorder"
	"github.com/macrolab/macrosim/internal/session"
	"github.com/macrolab/macrosim/internal/session/core"
	"github.com/macrolab/macrosim/tui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	local := flag.Bool("local", false, "run without a collaborator server")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config %s not readable (%v), using defaults", *configPath, err)
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// The terminal owns stdout, so logs go to a file (or nowhere).
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "./macrosim-tui.log"
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, logFile); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	var collab *client.Client
	if !*local {
		collab = client.NewClient(cfg.Collab.BaseURL, cfg.Collab.Timeout, cfg.Collab.MaxRetries)
	}

	var rec recorder.Recorder
	if cfg.Recording.SQLitePath != "" {
		r, err := recorder.NewSQLiteRecorder(cfg.Recording.SQLitePath)
		if err != nil {
			logger.Warn("session recording disabled: %v", err)
		} else {
			rec = r
			defer r.Close()
		}
	}

	// A typed nil pointer must not end up inside the source interfaces.
	var scenarioSrc session.ScenarioSource
	var eventSrc session.EventSource
	if collab != nil {
		scenarioSrc = collab
		eventSrc = collab
	}

	svc := session.NewService(session.Config{
		Core: core.Config{
			LengthTicks:                 cfg.Session.Length,
			DriftEvery:                  cfg.Session.DriftEveryTicks,
			EventEvery:                  cfg.Session.EventEveryTicks,
			InitialValue:                cfg.Session.InitialValue,
			InflationStabilityThreshold: cfg.Session.InflationCeiling,
		},
		TickInterval:    cfg.Session.TickInterval,
		NotificationTTL: cfg.Session.NotificationTTL,
		RequestTimeout:  cfg.Collab.Timeout,
		Seed:            cfg.Session.RandomSeed,
	}, scenarioSrc, eventSrc, rec)
	defer svc.Close()

	model := tui.NewModel(svc, collab)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui: %v", err)
		log.Fatalf("tui: %v", err)
	}
}
