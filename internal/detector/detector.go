package detector

import (
	"fmt"
	"sync"

	"github.com/example/binsentry/internal/binary"
	"github.com/example/binsentry/internal/result"
	"github.com/example/binsentry/internal/rules"
)

// APIVersion is the plugin protocol version the host expects. Detectors
// reporting a different version are excluded at registration time.
const APIVersion = 1

// Detector is implemented by plugins that can analyze a binary.
type Detector interface {
	ID() string
	Description() string
	APIVersion() int
	Analyze(bin *binary.File) (*result.Result, error)
}

// Config fixes the rule file and presentation parameters of one rule-driven
// detector. The shipped detectors differ only in these values.
type Config struct {
	ID          string
	Description string
	RuleFile    string
	Summary     string
	Level       result.Severity
	MetaField   string
	ShowStrings bool
}

// RuleDetector scans binaries against one rule file and reports findings at a
// fixed severity. The rule-set is compiled lazily on the first Analyze call
// and kept for the detector's lifetime; a failed load is retried on the next
// call.
type RuleDetector struct {
	cfg     Config
	adapter *rules.Adapter

	mu     sync.Mutex
	loaded bool
}

// NewRuleDetector builds a detector from its configuration and a rule engine.
func NewRuleDetector(cfg Config, engine rules.Engine) *RuleDetector {
	return &RuleDetector{cfg: cfg, adapter: rules.NewAdapter(engine)}
}

// ID implements Detector.
func (d *RuleDetector) ID() string { return d.cfg.ID }

// Description implements Detector.
func (d *RuleDetector) Description() string { return d.cfg.Description }

// APIVersion implements Detector.
func (d *RuleDetector) APIVersion() int { return APIVersion }

// RuleFile returns the rule file this detector is bound to.
func (d *RuleDetector) RuleFile() string { return d.cfg.RuleFile }

// Analyze scans the binary and renders matches into a Result. A rule-load or
// scan failure returns the Result in its default "no finding" state together
// with a non-nil error: failures are surfaced to the host but never promoted
// to a finding.
func (d *RuleDetector) Analyze(bin *binary.File) (*result.Result, error) {
	res := result.New()

	if err := d.ensureRules(); err != nil {
		return res, fmt.Errorf("detector %s: %w", d.cfg.ID, err)
	}

	matches, err := d.adapter.ScanFile(bin.Path())
	if err != nil {
		return res, fmt.Errorf("detector %s: scan %s: %w", d.cfg.ID, bin.Path(), err)
	}

	if len(matches) == 0 {
		return res, nil
	}

	res.SetLevel(d.cfg.Level)
	res.SetSummary(d.cfg.Summary)

	for _, match := range matches {
		value := match.Meta[d.cfg.MetaField]
		if !d.cfg.ShowStrings {
			res.AddInformation(value)
			continue
		}

		res.AddInformation(value + " String(s) found:")
		for _, found := range match.Strings {
			res.AddInformation("\t" + found)
		}
	}

	return res, nil
}

func (d *RuleDetector) ensureRules() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		return nil
	}

	if err := d.adapter.LoadRules(d.cfg.RuleFile); err != nil {
		return err
	}

	d.loaded = true
	return nil
}
