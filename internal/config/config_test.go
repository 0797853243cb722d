package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "4000" {
		t.Errorf("default port: got %q", cfg.Port)
	}
	if cfg.RetrievalTopK != 5 {
		t.Errorf("default top-k: got %d", cfg.RetrievalTopK)
	}
	if cfg.AnalysisTimeout != 2*time.Minute {
		t.Errorf("default analysis timeout: got %v", cfg.AnalysisTimeout)
	}
	if !cfg.EnableHealthCheck {
		t.Error("health check should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ANALYSIS_TIMEOUT", "15s")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("ENABLE_CORS", "false")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("port override: got %q", cfg.Port)
	}
	if cfg.AnalysisTimeout != 15*time.Second {
		t.Errorf("timeout override: got %v", cfg.AnalysisTimeout)
	}
	if cfg.RetrievalTopK != 3 {
		t.Errorf("top-k override: got %d", cfg.RetrievalTopK)
	}
	if cfg.EnableCORS {
		t.Error("cors override not applied")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ANALYSIS_TIMEOUT", "not-a-duration")
	t.Setenv("RETRIEVAL_TOP_K", "many")

	cfg := Load()

	if cfg.AnalysisTimeout != 2*time.Minute {
		t.Errorf("malformed duration should fall back: got %v", cfg.AnalysisTimeout)
	}
	if cfg.RetrievalTopK != 5 {
		t.Errorf("malformed int should fall back: got %d", cfg.RetrievalTopK)
	}
}
