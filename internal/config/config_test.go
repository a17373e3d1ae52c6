package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("CONVERTER_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "8780" {
		t.Errorf("Port = %q, want 8780", cfg.Port)
	}
	if cfg.MongoDatabase != "IndoorMap" {
		t.Errorf("MongoDatabase = %q, want IndoorMap", cfg.MongoDatabase)
	}
	if cfg.ConverterTimeout != 30*time.Minute {
		t.Errorf("ConverterTimeout = %v, want 30m", cfg.ConverterTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BUNDEBUG", "true")
	t.Setenv("STATEMENT_TIMEOUT", "45s")
	t.Setenv("CONVERTER_TIMEOUT", "not-a-duration")

	cfg := Load()
	if !cfg.BunDebug {
		t.Error("BunDebug should be true")
	}
	if cfg.StatementTimeout != 45*time.Second {
		t.Errorf("StatementTimeout = %v, want 45s", cfg.StatementTimeout)
	}
	if cfg.ConverterTimeout != 30*time.Minute {
		t.Errorf("bad duration should fall back, got %v", cfg.ConverterTimeout)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := Load()
	cfg.OgrPGConnection = "host=localhost"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for converter connection without PG: prefix")
	}

	cfg = Load()
	cfg.Environment = "qa"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}
}
