package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "GRPC_PORT", "RESOURCES_CSV", "CITY_ZIPS_FILE", "CORS_ORIGIN", "NATS_URL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := loadConfig()
	want := Config{
		Port:           "8000",
		ResourcesCSV:   "resources.csv",
		CORSOrigin:     "*",
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		LogLevel:       "info",
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GRPC_PORT", "9091")
	t.Setenv("RESOURCES_CSV", "/data/resources.csv")
	t.Setenv("CITY_ZIPS_FILE", "/data/cityzips.yaml")
	t.Setenv("CORS_ORIGIN", "https://app.example")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := loadConfig()
	if cfg.Port != "9090" || cfg.GRPCPort != "9091" {
		t.Errorf("ports = %q, %q", cfg.Port, cfg.GRPCPort)
	}
	if cfg.ResourcesCSV != "/data/resources.csv" || cfg.CityZipsFile != "/data/cityzips.yaml" {
		t.Errorf("files = %q, %q", cfg.ResourcesCSV, cfg.CityZipsFile)
	}
	if cfg.CORSOrigin != "https://app.example" || cfg.NATSURL != "nats://nats:4222" {
		t.Errorf("cors/nats = %q, %q", cfg.CORSOrigin, cfg.NATSURL)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 5 {
		t.Errorf("rate limit = %v, %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TEST_ENV_OR", "")
	if got := envOr("TEST_ENV_OR", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
	t.Setenv("TEST_ENV_OR", "set")
	if got := envOr("TEST_ENV_OR", "fallback"); got != "set" {
		t.Errorf("expected set, got %s", got)
	}
}

func TestEnvNumbersFallBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_ENV_NUM", "lots")
	if got := envInt("TEST_ENV_NUM", 7); got != 7 {
		t.Errorf("envInt = %d", got)
	}
	if got := envFloat("TEST_ENV_NUM", 1.5); got != 1.5 {
		t.Errorf("envFloat = %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildIndex_Default(t *testing.T) {
	idx, err := buildIndex(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if city, ok := idx.ResolveCity("73069"); !ok || city != "norman" {
		t.Errorf("ResolveCity(73069) = %q, %v", city, ok)
	}
}

func TestBuildIndex_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cityzips.yaml")
	body := "cities:\n  - name: Lawton\n    zips: [\"73501\", \"73505\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	idx, err := buildIndex(Config{CityZipsFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if city, ok := idx.ResolveCity("73505"); !ok || city != "lawton" {
		t.Errorf("ResolveCity(73505) = %q, %v", city, ok)
	}
	if _, ok := idx.ResolveCity("74127"); ok {
		t.Error("file table should replace the built-in one")
	}
}

func TestBuildIndex_DuplicateZipIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cityzips.yaml")
	body := "cities:\n  - name: a\n    zips: [\"11111\"]\n  - name: b\n    zips: [\"11111\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := buildIndex(Config{CityZipsFile: path})
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrDuplicateZip) {
		t.Errorf("expected ErrDuplicateZip, got %v", err)
	}
}

func TestBuildIndex_MissingFile(t *testing.T) {
	if _, err := buildIndex(Config{CityZipsFile: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Fatal("expected error")
	}
}
