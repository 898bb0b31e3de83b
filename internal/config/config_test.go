package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoaderLoadWithFileAndEnv(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "binsentry.config.yml")
	configBody := []byte("rulesDir: /opt/rules\nformat: json\nscanTimeout: 15\ndetectors:\n  - clamav\n  - strings\n")
	if err := os.WriteFile(configPath, configBody, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(envScanTimeout, "45")
	t.Setenv(envFormat, "ndjson")

	loader := Loader{ConfigPath: configPath}
	cfg, err := loader.Load(Overrides{})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}

	if cfg.RulesDir != "/opt/rules" {
		t.Fatalf("expected rules dir from file, got %s", cfg.RulesDir)
	}
	if !reflect.DeepEqual(cfg.Detectors, []string{"clamav", "strings"}) {
		t.Fatalf("unexpected detectors: %v", cfg.Detectors)
	}
	if cfg.ScanTimeout != 45 {
		t.Fatalf("env override should set scan timeout to 45, got %d", cfg.ScanTimeout)
	}
	if cfg.Format != FormatNDJSON {
		t.Fatalf("env override should set format to ndjson, got %s", cfg.Format)
	}
}

func TestLoaderFlagOverridesWinOverEnv(t *testing.T) {
	t.Setenv(envRulesDir, "/from/env")

	loader := Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cfg, err := loader.Load(Overrides{RulesDir: "/from/flag", Format: "JSON"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.RulesDir != "/from/flag" {
		t.Fatalf("flag override should win, got %s", cfg.RulesDir)
	}
	if cfg.Format != FormatJSON {
		t.Fatalf("format should be lowercased, got %s", cfg.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  RuntimeConfig
	}{
		{"empty rules dir", RuntimeConfig{Format: FormatText, ScanTimeout: 30}},
		{"unknown format", RuntimeConfig{RulesDir: "rules", Format: "xml", ScanTimeout: 30}},
		{"timeout too small", RuntimeConfig{RulesDir: "rules", Format: FormatText, ScanTimeout: 0}},
		{"timeout too large", RuntimeConfig{RulesDir: "rules", Format: FormatText, ScanTimeout: 601}},
	}

	for _, tc := range cases {
		if err := tc.cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	if err := DefaultRuntimeConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestParseDetectors(t *testing.T) {
	got := ParseDetectors("clamav, peid\nstrings ")
	want := []string{"clamav", "peid", "strings"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if ParseDetectors("  ") != nil {
		t.Fatal("blank input should parse to nil")
	}
}
