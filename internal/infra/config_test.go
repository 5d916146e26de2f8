package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want 8080", cfg.Port)
	}
	if cfg.UploadDir != "instance/uploads" {
		t.Fatalf("UploadDir mismatch: got %q", cfg.UploadDir)
	}
	if cfg.GradingMaxAttempts != 3 {
		t.Fatalf("GradingMaxAttempts mismatch: got %d want 3", cfg.GradingMaxAttempts)
	}
	if cfg.GradingTimeout != 5*time.Second {
		t.Fatalf("GradingTimeout mismatch: got %s", cfg.GradingTimeout)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}

func TestLoadConfigHonorsGradingOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GRADING_TIMEOUT_SECONDS", "9")
	t.Setenv("GRADING_MAX_ATTEMPTS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GradingTimeout != 9*time.Second {
		t.Fatalf("GradingTimeout mismatch: got %s want 9s", cfg.GradingTimeout)
	}
	if cfg.GradingMaxAttempts != 5 {
		t.Fatalf("GradingMaxAttempts mismatch: got %d want 5", cfg.GradingMaxAttempts)
	}
}
