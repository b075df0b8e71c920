package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sacredtrees/sappie/internal/sacredtime"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(sacredtime.DefaultMarks, cfg.Sacred.Marks); diff != "" {
		t.Fatalf("default marks mismatch (-want +got):\n%s", diff)
	}
	if cfg.Sacred.Location.String() != DefaultTimezone {
		t.Fatalf("location = %s, want %s", cfg.Sacred.Location, DefaultTimezone)
	}
	if got := cfg.Scheduler.Tasks[TaskSacredPost].Interval; got != DefaultPollInterval {
		t.Fatalf("sacred_post interval = %v, want poll interval %v", got, DefaultPollInterval)
	}
	if got := cfg.Scheduler.Tasks[TaskSQLMaintenance].Schedule; got != DefaultMaintenanceSchedule {
		t.Fatalf("maintenance schedule = %q", got)
	}
	if cfg.Twitter.DailyLimit != DefaultTwitterDailyLimit {
		t.Fatalf("daily limit = %d", cfg.Twitter.DailyLimit)
	}
	if err := cfg.RequireTelegram(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("RequireTelegram without token = %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
log:
  level: debug
telegram:
  token: file-token
  admin_ids: [11, 22]
sacred:
  timezone: America/New_York
  times: ["3:33", "11:11"]
  poll_interval: 45s
groups:
  idle_threshold: 5m
`)
	t.Setenv("SAPPIE_TELEGRAM_TOKEN", "env-token")
	t.Setenv("SAPPIE_GEMINI_API_KEY", "gem-key")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("token = %q, env should win", cfg.Telegram.Token)
	}
	if cfg.Gemini.APIKey != "gem-key" {
		t.Fatalf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if !cfg.Telegram.IsAdmin(22) || cfg.Telegram.IsAdmin(33) {
		t.Fatalf("admin ids = %v", cfg.Telegram.AdminIDs)
	}
	want := []sacredtime.Mark{{Hour: 3, Minute: 33}, {Hour: 11, Minute: 11}}
	if diff := cmp.Diff(want, cfg.Sacred.Marks); diff != "" {
		t.Fatalf("marks mismatch (-want +got):\n%s", diff)
	}
	if cfg.Sacred.PollInterval != 45*time.Second || cfg.Scheduler.Tasks[TaskSacredPost].Interval != 45*time.Second {
		t.Fatalf("poll interval not propagated: %v / %v", cfg.Sacred.PollInterval, cfg.Scheduler.Tasks[TaskSacredPost].Interval)
	}
	if cfg.Groups.IdleThreshold != 5*time.Minute {
		t.Fatalf("idle threshold = %v", cfg.Groups.IdleThreshold)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	envPath := writeFile(t, ".env", "SAPPIE_TWITTER_HANDLE=grove_voice\n")
	t.Cleanup(func() { os.Unsetenv("SAPPIE_TWITTER_HANDLE") })

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Twitter.Handle != "grove_voice" {
		t.Fatalf("handle = %q, want value from .env", cfg.Twitter.Handle)
	}
}

func TestLoadRejectsEmptyMarks(t *testing.T) {
	path := writeFile(t, "config.yaml", "sacred:\n  times: []\n")

	_, err := Load(path, filepath.Join(t.TempDir(), "none.env"))
	if !errors.Is(err, sacredtime.ErrInvalidConfiguration) {
		t.Fatalf("Load with empty times = %v, want ErrInvalidConfiguration", err)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Load with empty times = %v, want ErrConfiguration", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad mark":          "sacred:\n  times: [\"25:00\"]\n",
		"bad timezone":      "sacred:\n  timezone: Mars/Olympus\n",
		"bad log level":     "log:\n  level: loud\n",
		"twitter creds":     "twitter:\n  enabled: true\n",
		"jitter order":      "sacred:\n  jitter_min: 20s\n  jitter_max: 10s\n",
		"task without when": "scheduler:\n  tasks:\n    group_musings:\n      enabled: true\n      interval: 0s\n",
	}
	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", yaml)
			if _, err := Load(path, filepath.Join(t.TempDir(), "none.env")); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Load = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "log: [unclosed\n")
	if _, err := Load(path, filepath.Join(t.TempDir(), "none.env")); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Load = %v, want ErrConfiguration", err)
	}
}
