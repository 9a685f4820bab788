package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != ModeRemote {
		t.Errorf("expected default mode Remote, got %q", cfg.Mode)
	}
	if cfg.Separator != "//////" {
		t.Errorf("expected default separator //////, got %q", cfg.Separator)
	}
	if cfg.ContextDepth != 2 {
		t.Errorf("expected default context depth 2, got %d", cfg.ContextDepth)
	}
	if cfg.ProbeInterval != 60*time.Second {
		t.Errorf("expected default probe interval 60s, got %v", cfg.ProbeInterval)
	}
	if cfg.FailureThreshold != 3 {
		t.Errorf("expected default failure threshold 3, got %d", cfg.FailureThreshold)
	}
	if cfg.ServerPort != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.ServerPort)
	}
	if !cfg.Primary.ContextEnabled {
		t.Error("expected primary context enabled by default")
	}
	if cfg.Local.ContextEnabled {
		t.Error("expected local context disabled by default")
	}
	if cfg.Primary.HasKey() {
		t.Error("expected no primary key by default")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ACTIVE_MODE", "Local")
	t.Setenv("SAFE_SEPARATOR", "|||")
	t.Setenv("PRIMARY_CLOUD_KEY", "sk-test")
	t.Setenv("HEALTH_PROBE_INTERVAL", "5s")
	t.Setenv("HEALTH_FAILURE_THRESHOLD", "7")
	t.Setenv("CONTEXT_DEPTH", "4")
	t.Setenv("LOCAL_API_MODEL", "custom-model")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != ModeLocal {
		t.Errorf("expected Local mode, got %q", cfg.Mode)
	}
	if cfg.Separator != "|||" {
		t.Errorf("expected overridden separator, got %q", cfg.Separator)
	}
	if !cfg.Primary.HasKey() {
		t.Error("expected primary key to be set")
	}
	if cfg.ProbeInterval != 5*time.Second {
		t.Errorf("expected 5s probe interval, got %v", cfg.ProbeInterval)
	}
	if cfg.FailureThreshold != 7 {
		t.Errorf("expected threshold 7, got %d", cfg.FailureThreshold)
	}
	if cfg.ContextDepth != 4 {
		t.Errorf("expected context depth 4, got %d", cfg.ContextDepth)
	}
	if cfg.Local.Model != "custom-model" {
		t.Errorf("expected local model override, got %q", cfg.Local.Model)
	}
}

func TestLoad_ZeroContextDepth(t *testing.T) {
	t.Setenv("CONTEXT_DEPTH", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ContextDepth != 0 {
		t.Errorf("expected context depth 0 to be honored, got %d", cfg.ContextDepth)
	}
}

func TestLoad_LegacyCloudModeName(t *testing.T) {
	t.Setenv("ACTIVE_MODE", "Cloud")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeRemote {
		t.Errorf("expected Cloud to map to Remote mode, got %q", cfg.Mode)
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("ACTIVE_MODE", "Hybrid")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid ACTIVE_MODE")
	}
}

func TestLoad_InvalidTemperature(t *testing.T) {
	t.Setenv("PRIMARY_CLOUD_TEMPERATURE", "3.5")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range temperature")
	}
}
