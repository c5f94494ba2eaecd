package markers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONOverridesNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
  "default_rr": 0.75,
  "moving_std_len": 0.12,
  "bandpass_poles": 6
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := DefaultConfig().LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if cfg.DefaultRR != 0.75 {
		t.Errorf("DefaultRR = %f, want 0.75", cfg.DefaultRR)
	}
	if cfg.MovingStdLen != 0.12 {
		t.Errorf("MovingStdLen = %f, want 0.12", cfg.MovingStdLen)
	}
	if cfg.BandpassPoles != 6 {
		t.Errorf("BandpassPoles = %d, want 6", cfg.BandpassPoles)
	}

	def := DefaultConfig()
	if cfg.SStart != def.SStart || cfg.SEnd != def.SEnd {
		t.Errorf("SStart/SEnd should be untouched by a file that never names them")
	}
}

func TestLoadJSONRejectsSEndBeforeSStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"s_end": -0.2}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := DefaultConfig().LoadJSON(path); err == nil {
		t.Fatal("expected error when s_end falls at or before s_start")
	}
}

func TestLoadJSONRejectsNonPositiveBandpassPoles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"bandpass_poles": 0}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := DefaultConfig().LoadJSON(path); err == nil {
		t.Fatal("expected error for bandpass_poles < 1")
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := DefaultConfig().LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
