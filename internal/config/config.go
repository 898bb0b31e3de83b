package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "binsentry.config.yml"

	envRulesDir    = "BINSENTRY_RULES_DIR"
	envDetectors   = "BINSENTRY_DETECTORS"
	envFormat      = "BINSENTRY_FORMAT"
	envOutputFile  = "BINSENTRY_OUTPUT_FILE"
	envScanTimeout = "BINSENTRY_SCAN_TIMEOUT"
)

// Formats accepted by the scan command.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Loader merges configuration coming from files, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the fully merged settings required by binsentry sub-commands.
type RuntimeConfig struct {
	RulesDir    string
	Detectors   []string
	Format      string
	OutputFile  string
	ScanTimeout int // seconds
}

// Overrides captures values coming from env vars or CLI flags.
type Overrides struct {
	RulesDir       string
	Detectors      []string
	Format         string
	OutputFile     string
	ScanTimeout    int
	ScanTimeoutSet bool
}

// DefaultRuntimeConfig returns the baseline configuration when no overrides are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		RulesDir:    "yara_rules",
		Format:      FormatText,
		ScanTimeout: 30,
	}
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.apply(fileOv)
	}

	cfg.apply(overridesFromEnv())
	cfg.apply(override)

	return cfg, nil
}

// Validate ensures the config contains the minimum required data for a scan.
func (c RuntimeConfig) Validate() error {
	if c.RulesDir == "" {
		return errors.New("rules directory cannot be empty")
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or ndjson)", c.Format)
	}

	if c.ScanTimeout < 1 || c.ScanTimeout > 600 {
		return fmt.Errorf("scan timeout must be between 1 and 600 seconds (got %d)", c.ScanTimeout)
	}

	return nil
}

func (c *RuntimeConfig) apply(src Overrides) {
	if src.RulesDir != "" {
		c.RulesDir = src.RulesDir
	}

	if len(src.Detectors) > 0 {
		c.Detectors = cleanList(src.Detectors)
	}

	if src.Format != "" {
		c.Format = strings.ToLower(src.Format)
	}

	if src.OutputFile != "" {
		c.OutputFile = src.OutputFile
	}

	if src.ScanTimeoutSet {
		c.ScanTimeout = src.ScanTimeout
	}
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, err
	}

	type rawConfig struct {
		RulesDir    string   `yaml:"rulesDir"`
		Detectors   []string `yaml:"detectors"`
		Format      string   `yaml:"format"`
		OutputFile  string   `yaml:"outputFile"`
		ScanTimeout *int     `yaml:"scanTimeout"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, err
	}

	over := Overrides{
		RulesDir:   raw.RulesDir,
		Detectors:  raw.Detectors,
		Format:     raw.Format,
		OutputFile: raw.OutputFile,
	}

	if raw.ScanTimeout != nil {
		over.ScanTimeout = *raw.ScanTimeout
		over.ScanTimeoutSet = true
	}

	return over, nil
}

func overridesFromEnv() Overrides {
	ov := Overrides{}

	if value := os.Getenv(envRulesDir); value != "" {
		ov.RulesDir = value
	}

	if value := os.Getenv(envDetectors); value != "" {
		ov.Detectors = ParseDetectors(value)
	}

	if value := os.Getenv(envFormat); value != "" {
		ov.Format = value
	}

	if value := os.Getenv(envOutputFile); value != "" {
		ov.OutputFile = value
	}

	if value := os.Getenv(envScanTimeout); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			ov.ScanTimeout = parsed
			ov.ScanTimeoutSet = true
		}
	}

	return ov
}

// ParseDetectors turns comma or whitespace separated input into detector ids.
func ParseDetectors(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' '
	})
	return cleanList(parts)
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		candidate := strings.TrimSpace(v)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
