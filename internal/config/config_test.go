package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Render.Mode != "layered" {
		t.Errorf("default mode = %q, want layered", cfg.Render.Mode)
	}
	if cfg.Render.ActiveThreshold != 0.1 {
		t.Errorf("default threshold = %v, want 0.1", cfg.Render.ActiveThreshold)
	}
	if cfg.Render.GlobalIntensity != 1.0 {
		t.Errorf("default intensity = %v, want 1.0", cfg.Render.GlobalIntensity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Mode != "layered" {
		t.Errorf("missing file should fall back to defaults, got mode %q", cfg.Render.Mode)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
render:
  mode: sequential
  active_threshold: 0.2
  global_intensity: 1.5
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Mode != "sequential" {
		t.Errorf("mode = %q, want sequential", cfg.Render.Mode)
	}
	if cfg.Render.ActiveThreshold != 0.2 {
		t.Errorf("threshold = %v, want 0.2", cfg.Render.ActiveThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PHENOSCOPE_RENDER_MODE", "parallel")
	t.Setenv("PHENOSCOPE_GLOBAL_INTENSITY", "0.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Mode != "parallel" {
		t.Errorf("env mode override ignored, got %q", cfg.Render.Mode)
	}
	if cfg.Render.GlobalIntensity != 0.5 {
		t.Errorf("env intensity override ignored, got %v", cfg.Render.GlobalIntensity)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render:\n  mode: spiral\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid mode")
	}

	if err := os.WriteFile(path, []byte("render:\n  mode: layered\n  global_intensity: 5\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range intensity")
	}
}
