package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@localhost:5432/staffhub"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@localhost:5432/staffhub" {
		t.Fatalf("DSN mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNAssemblesFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "staffhub",
		Password: "s3cret",
		Name:     "staffhub",
		SSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"postgres://", "staffhub:s3cret@db.internal:5432", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Errorf("DSN %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing user/name")
	}
	if !strings.Contains(err.Error(), "STAFFHUB_DB_USER") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Dev"}).IsDev() {
		t.Error("IsDev should be case-insensitive")
	}
	if !(AppConfig{Env: "PROD"}).IsProd() {
		t.Error("IsProd should be case-insensitive")
	}
}
