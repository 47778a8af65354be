package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
server:
  listen_addr: ":9090"
  conditions_refresh_cron: "@every 2m"

session:
  length_seconds: 60
  tick_interval: 1s
  initial_value: 500000
  drift_every_ticks: 5
  event_every_ticks: 10
  notification_ttl: 3s

collaborator:
  base_url: "http://localhost:9090"
  timeout: 5s
  max_retries: 2

alerts:
  file_path: "./data/alerts.json"
  cron: "@every 1m"

telegram:
  enabled: false

logging:
  level: "debug"
  format: "console"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("unexpected listen addr: %s", cfg.Server.ListenAddr)
	}
	if cfg.Session.Length != 60 {
		t.Errorf("unexpected session length: %d", cfg.Session.Length)
	}
	if cfg.Session.InitialValue != 500000 {
		t.Errorf("unexpected initial value: %f", cfg.Session.InitialValue)
	}
	if cfg.Collab.MaxRetries != 2 {
		t.Errorf("unexpected max retries: %d", cfg.Collab.MaxRetries)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Session.Length != 120 {
		t.Errorf("expected default session length 120, got %d", cfg.Session.Length)
	}
	if cfg.Session.TickInterval != time.Second {
		t.Errorf("expected default tick interval 1s, got %v", cfg.Session.TickInterval)
	}
	if cfg.Session.InitialValue != 1_000_000 {
		t.Errorf("expected default initial value 1000000, got %f", cfg.Session.InitialValue)
	}
	if cfg.Session.NotificationTTL != 3*time.Second {
		t.Errorf("expected default notification ttl 3s, got %v", cfg.Session.NotificationTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.Session.Length = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero session length")
	}

	cfg = Default()
	cfg.Telegram.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled telegram without token")
	}

	cfg = Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}
}
