package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	if c.UserHeightCm != 170 || c.FPS != 30 || c.Addr != ":8080" {
		t.Errorf("unexpected defaults %+v", c)
	}
	if want := filepath.Join(c.DataDir, "fitassess.db"); c.Database() != want {
		t.Errorf("Database() = %q, want %q", c.Database(), want)
	}

	c.DBPath = "/tmp/x.db"
	if c.Database() != "/tmp/x.db" {
		t.Errorf("Database() should prefer DBPath, got %q", c.Database())
	}
}

func TestFromEnv(t *testing.T) {
	c, err := FromEnv(Default(), envMap(map[string]string{
		"FITASSESS_CAMERA":         "2",
		"FITASSESS_FPS":            "15",
		"FITASSESS_USER_HEIGHT_CM": "182.5",
		"FITASSESS_TRAY":           "true",
		"FITASSESS_EXERCISES":      "squats,plank:45",
		"FITASSESS_LOG_FORMAT":     "json",
		"FITASSESS_ADDR":           "  ",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if c.CameraID != 2 || c.FPS != 15 || c.UserHeightCm != 182.5 || !c.Tray {
		t.Errorf("numeric overrides not applied: %+v", c)
	}
	if c.Exercises != "squats,plank:45" || c.LogFormat != "json" {
		t.Errorf("string overrides not applied: %+v", c)
	}
	if c.Addr != ":8080" {
		t.Errorf("blank override should keep default, got %q", c.Addr)
	}
	if c.Width != 1280 {
		t.Errorf("unset variable changed width to %d", c.Width)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FITASSESS_WIDTH", "wide"},
		{"FITASSESS_USER_HEIGHT_CM", "tall"},
		{"FITASSESS_TRAY", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := FromEnv(Default(), envMap(map[string]string{tt.key: tt.value}))
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error = %v, want one naming %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative height", func(c *Config) { c.UserHeightCm = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn", "json")

	log.Info("hidden")
	log.Warn("rep rejected", "exercise", "Squats")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "rep rejected" || entry["exercise"] != "Squats" {
		t.Errorf("unexpected entry %v", entry)
	}
	if ts, _ := entry["time"].(string); len(ts) != len("2006-01-02 15:04:05.000") {
		t.Errorf("time = %q, want local layout", ts)
	}

	buf.Reset()
	NewLogger(&buf, "debug", "text").Debug("frame")
	if !strings.Contains(buf.String(), "msg=frame") {
		t.Errorf("text logger output %q", buf.String())
	}
}
