package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Expansion.AssumeDefaults {
		t.Fatal("assume_defaults should default on")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved = %q", resolved)
	}
	if cfg.Generation.Model == "" {
		t.Fatal("defaults not applied")
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("file not detected")
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir not absolute: %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.LockDir() != filepath.Join(cfg.Paths.DataDir, "locks") {
		t.Fatalf("lock dir = %q", cfg.LockDir())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"completeness": "[expansion]\ncompleteness = \"everything\"\n",
		"format":       "[logging]\nformat = \"xml\"\n",
		"level":        "[logging]\nlevel = \"loud\"\n",
		"timeout":      "[generation]\ntimeout_seconds = 0\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation failure", name)
		}
	}
}

func TestSampleConfigParses(t *testing.T) {
	cfg := Default()
	if err := toml.Unmarshal([]byte(sampleConfig), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(written), "[generation]") {
		t.Fatal("sample missing generation section")
	}
}

func TestExpandPathResolvesTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := ExpandPath("~/imprint-data")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(home, "imprint-data") {
		t.Fatalf("expanded = %q", expanded)
	}
}
