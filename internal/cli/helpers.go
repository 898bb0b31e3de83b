package cli

import (
	"io"
	"os"
	"time"

	"github.com/example/binsentry/internal/config"
	"github.com/example/binsentry/internal/detector"
	"github.com/example/binsentry/internal/rules"
)

// newEngine builds the rule engine used by scan and doctor. Swapped out in
// tests to avoid a libyara dependency.
var newEngine = func(timeout time.Duration) rules.Engine {
	return &rules.YaraEngine{Timeout: timeout}
}

// buildRegistry populates a fresh registry with the shipped detectors.
func buildRegistry(cfg config.RuntimeConfig) (*detector.Registry, error) {
	engine := newEngine(time.Duration(cfg.ScanTimeout) * time.Second)
	reg := detector.NewRegistry()
	if err := detector.RegisterBuiltins(reg, cfg.RulesDir, engine); err != nil {
		return nil, err
	}
	return reg, nil
}

// openOutput returns the report destination: the given file, or fallback when
// no path is configured. The returned closer is a no-op for the fallback.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
