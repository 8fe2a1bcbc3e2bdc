package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BOOKING_OPEN_HOUR", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.OpenHour != 9 || cfg.CloseHour != 19 {
		t.Fatalf("expected default business hours 9-19, got %d-%d", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.BreakStartHour != 0 || cfg.BreakEndHour != 0 {
		t.Fatalf("expected break window disabled by default")
	}
	if cfg.BookingWindowDays != 3 {
		t.Fatalf("expected default booking window of 3 days, got %d", cfg.BookingWindowDays)
	}
	if !cfg.AllowStatusOverride {
		t.Fatalf("expected status override allowed by default")
	}
	if cfg.CreateRateWindow != time.Minute {
		t.Fatalf("expected default rate window, got %s", cfg.CreateRateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("BOOKING_BREAK_START_HOUR", "13")
	t.Setenv("BOOKING_BREAK_END_HOUR", "14")
	t.Setenv("BOOKING_WINDOW_DAYS", "5")
	t.Setenv("ALLOW_STATUS_OVERRIDE", "false")
	t.Setenv("CREATE_RATE_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.BreakStartHour != 13 || cfg.BreakEndHour != 14 {
		t.Fatalf("expected break window 13-14, got %d-%d", cfg.BreakStartHour, cfg.BreakEndHour)
	}
	if cfg.BookingWindowDays != 5 {
		t.Fatalf("expected booking window override, got %d", cfg.BookingWindowDays)
	}
	if cfg.AllowStatusOverride {
		t.Fatalf("expected status override disabled")
	}
	if cfg.CreateRateWindow != 30*time.Second {
		t.Fatalf("expected rate window override, got %s", cfg.CreateRateWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected parsed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}
