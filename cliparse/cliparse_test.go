// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/voteledger/models"
)

var configEnv = []string{
	"PORT", "METRICS_PATH", "DATABASE_TYPE", "DATABASE_URL", "ADMIN_ADDRESS",
	"TOKEN_SECRET", "TOKEN_TTL", "SHUTDOWN_TIMEOUT", "DEBUG", "CONFIG_FILE",
}

// clearEnv unsets every variable ParseFlags reads and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"--admin", "0xOwner", "--token-secret", "s"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "memory" {
		t.Errorf("expected memory database, got %q", cfg.DatabaseType)
	}
	if cfg.MetricsPath != "/metrics" {
		t.Errorf("expected /metrics, got %q", cfg.MetricsPath)
	}
	if cfg.AdminAddress != models.Address("0xowner") {
		t.Errorf("expected normalised admin address, got %q", cfg.AdminAddress)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token TTL, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("ADMIN_ADDRESS", "0xadmin")
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("DEBUG", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != "file:test.db" {
		t.Errorf("unexpected database config %q %q", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("expected 90m token TTL, got %v", cfg.TokenTTL)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_SECRET", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "8080", "-t", "badger", "-d", "/tmp/ledger", "--admin", "0xadmin", "--token-secret", "cli-secret"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.TokenSecret != "cli-secret" {
		t.Errorf("CLI should override env: expected cli-secret, got %q", cfg.TokenSecret)
	}
	if cfg.DatabaseType != "badger" {
		t.Errorf("expected badger, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "voteledger.yaml")
	contents := "port: 7000\nadminAddress: 0xfile\ntokenSecret: file-secret\nshutdownTimeout: 3s\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}

	// Env should override the file
	if cfg.Port != 7100 {
		t.Errorf("expected env port 7100, got %d", cfg.Port)
	}
	if cfg.AdminAddress != "0xfile" {
		t.Errorf("expected admin from file, got %q", cfg.AdminAddress)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing admin", []string{"--token-secret", "s"}},
		{"blank admin", []string{"--admin", "   ", "--token-secret", "s"}},
		{"missing secret", []string{"--admin", "0xadmin"}},
		{"unknown database type", []string{"--admin", "0xadmin", "--token-secret", "s", "-t", "mongodb", "-d", "x"}},
		{"database URL required", []string{"--admin", "0xadmin", "--token-secret", "s", "-t", "postgres"}},
		{"port out of range", []string{"--admin", "0xadmin", "--token-secret", "s", "-p", "70000"}},
		{"negative ttl", []string{"--admin", "0xadmin", "--token-secret", "s", "--token-ttl", "-1h"}},
		{"relative metrics path", []string{"--admin", "0xadmin", "--token-secret", "s", "--metrics-path", "metrics"}},
		{"unknown flag", []string{"--admin", "0xadmin", "--token-secret", "s", "--nope"}},
		{"missing config file", []string{"--admin", "0xadmin", "--token-secret", "s", "-c", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_DoesNotValidate(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "voteledger.yaml")
	if err := os.WriteFile(path, []byte("tokenSecret: file-secret\ntokenTtl: 2h\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// No admin address anywhere, which ParseFlags would reject
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenSecret != "file-secret" {
		t.Errorf("expected token secret from file, got %q", cfg.TokenSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h token TTL from file, got %v", cfg.TokenTTL)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port to survive, got %d", cfg.Port)
	}

	t.Setenv("TOKEN_TTL", "30m")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("expected env TTL to override file, got %v", cfg.TokenTTL)
	}
}

func TestValidateTokenSettings(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
	}{
		{"valid", "s", time.Hour, false},
		{"no expiry", "s", 0, false},
		{"missing secret", "", time.Hour, true},
		{"negative ttl", "s", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{TokenSecret: tt.secret, TokenTTL: tt.ttl}
			err := cfg.ValidateTokenSettings()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTokenSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
