package detector

import (
	"path/filepath"

	"github.com/example/binsentry/internal/result"
	"github.com/example/binsentry/internal/rules"
)

// Builtins returns the configurations of the detectors that ship with the
// scanner. Rule files are resolved relative to rulesDir.
func Builtins(rulesDir string) []Config {
	return []Config{
		{
			ID:          "clamav",
			Description: "Scans the binary with ClamAV virus definitions.",
			RuleFile:    filepath.Join(rulesDir, "clamav.yara"),
			Summary:     "Matching ClamAV signature(s):",
			Level:       result.Malicious,
			MetaField:   "signature",
		},
		{
			ID:          "compilers",
			Description: "Tries to determine which compiler generated the binary.",
			RuleFile:    filepath.Join(rulesDir, "compilers.yara"),
			Summary:     "Matching compiler(s):",
			Level:       result.NoOpinion,
			MetaField:   "description",
		},
		{
			ID:          "peid",
			Description: "Returns the PEiD signature of the binary.",
			RuleFile:    filepath.Join(rulesDir, "peid.yara"),
			Summary:     "PEiD Signature:",
			Level:       result.Suspicious,
			MetaField:   "packer_name",
		},
		{
			ID:          "strings",
			Description: "Looks for suspicious strings (anti-VM, process names...).",
			RuleFile:    filepath.Join(rulesDir, "suspicious_strings.yara"),
			Summary:     "Strings found in the binary may indicate undesirable behavior:",
			Level:       result.Suspicious,
			MetaField:   "description",
			ShowStrings: true,
		},
	}
}

// RegisterBuiltins constructs the shipped detectors on the given engine and
// adds them to the registry.
func RegisterBuiltins(reg *Registry, rulesDir string, engine rules.Engine) error {
	for _, cfg := range Builtins(rulesDir) {
		if err := reg.Register(NewRuleDetector(cfg, engine)); err != nil {
			return err
		}
	}
	return nil
}
