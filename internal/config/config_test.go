package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected server port: %q", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Name != "bitewise" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.JWT.AccessTokenTTL != 24*time.Hour {
		t.Errorf("unexpected token TTL: %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.OpenAI.Model != "gpt-4-turbo" || cfg.OpenAI.ImageModel != "dall-e-3" {
		t.Errorf("unexpected OpenAI defaults: %+v", cfg.OpenAI)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing DB_PASSWORD, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected server port: %q", cfg.Server.Port)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("unexpected max conns: %d", cfg.Database.MaxConns)
	}
	if cfg.JWT.AccessTokenTTL != 2*time.Hour {
		t.Errorf("unexpected token TTL: %v", cfg.JWT.AccessTokenTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.CORS.AllowCredentials {
		t.Errorf("expected credentials disabled")
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:        "db.internal",
			Port:        "5433",
			User:        "bitewise",
			Password:    "pw",
			Name:        "bitewise",
			SSLMode:     "require",
			ConnTimeout: 10 * time.Second,
		},
	}

	want := "postgres://bitewise:pw@db.internal:5433/bitewise?sslmode=require&connect_timeout=10"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("unexpected DSN:\ngot  %s\nwant %s", got, want)
	}
}

func TestGetDurationEnv_Invalid(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")

	if got := getDurationEnv("SOME_DURATION", 5*time.Second); got != 5*time.Second {
		t.Fatalf("expected default duration, got %v", got)
	}
}

func TestGetStringSliceEnv_TrimsEmptyParts(t *testing.T) {
	t.Setenv("SOME_SLICE", " a ,, b ,")

	got := getStringSliceEnv("SOME_SLICE", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected slice: %v", got)
	}
}
