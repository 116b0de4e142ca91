package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/config"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers/sheets"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Sheets.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Sheets.Timeout)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", cfg.RefreshInterval)
	}
	if cfg.Retry.Attempts != 3 || cfg.Retry.InitialDelay != 500*time.Millisecond {
		t.Errorf("unexpected retry config %+v", cfg.Retry)
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled by default")
	}
	if cfg.LoadLogEnabled() {
		t.Error("load log needs a postgres dsn")
	}
	if len(cfg.Slots) != 5 || cfg.Slots[0] != "human-vs-ai" {
		t.Errorf("expected every game to have a slot, got %v", cfg.Slots)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("expected no overrides, got %v", cfg.Sources)
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
sheets:
  api_key: abc123
refresh:
  interval: 30s
postgres:
  dsn: postgres://localhost/dash?sslmode=disable
dashboard:
  slots: [countdown, cybertrace]
log:
  level: debug
games:
  countdown:
    source:
      kind: postgres
      table_id: countdown_results
      range: played_at
  cybertrace:
    source:
      table_id: another-sheet
`)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sheets.APIKey != "abc123" {
		t.Errorf("unexpected api key %q", cfg.Sheets.APIKey)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.RefreshInterval)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug, got %v", cfg.LogLevel)
	}

	want := models.SourceLocator{Kind: models.SourcePostgres, TableID: "countdown_results", Range: "played_at"}
	if got := cfg.Sources["countdown"]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	// Kind and range default for sheets
	want = models.SourceLocator{Kind: models.SourceSheets, TableID: "another-sheet", Range: "Sheet1"}
	if got := cfg.Sources["cybertrace"]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if len(cfg.Slots) != 2 {
		t.Errorf("unexpected slots %v", cfg.Slots)
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	t.Setenv("DASH_SERVER_ADDR", ":9090")
	t.Setenv("DASH_REDIS_URL", "localhost:6380")

	cfg, err := config.LoadFile(writeConfig(t, "server:\n  addr: \":7070\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected env to win, got %s", cfg.Server.Addr)
	}
	if !cfg.RedisEnabled() {
		t.Error("expected redis enabled")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"non-positive interval", "refresh:\n  interval: 0s\n", "refresh.interval"},
		{"unknown game override", "games:\n  chess:\n    source:\n      table_id: x\n", "unknown game"},
		{"postgres without dsn", "games:\n  countdown:\n    source:\n      kind: postgres\n      table_id: t\n", "postgres.dsn"},
		{"unknown source kind", "games:\n  countdown:\n    source:\n      kind: ftp\n      table_id: t\n", "unknown source kind"},
		{"missing table id", "games:\n  countdown:\n    source:\n      kind: sheets\n", "table_id"},
		{"unknown slot", "dashboard:\n  slots: [chess]\n", "dashboard.slots"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"zero retries", "retry:\n  attempts: 0\n", "retry.attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	cfg := config.Config{Redis: config.RedisConfig{URL: "redis://:secret@cache:6379/2"}}
	opts, err := cfg.RedisOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.Password != "secret" {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg = config.Config{Redis: config.RedisConfig{URL: "localhost:6380", Password: "pw"}}
	opts, _ = cfg.RedisOptions()
	if opts.Addr != "localhost:6380" || opts.Password != "pw" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoadFile_SheetsMode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want sheets.Mode
	}{
		{"no key", "{}\n", sheets.ModeDemo},
		{"placeholder key", "sheets:\n  api_key: " + sheets.PlaceholderAPIKey + "\n", sheets.ModeDemo},
		{"real key", "sheets:\n  api_key: abc123\n", sheets.ModeLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadFile(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Sheets.Mode != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cfg.Sheets.Mode)
			}
		})
	}
}
