package rules

import (
	"fmt"
	"os"
	"sort"
	"time"

	yara "github.com/hillu/go-yara/v4"
)

// DefaultScanTimeout bounds a single ScanFile call inside libyara.
const DefaultScanTimeout = 30 * time.Second

// YaraEngine compiles and runs YARA rules via the libyara bindings.
type YaraEngine struct {
	// Timeout is applied to every scan; zero means DefaultScanTimeout.
	Timeout time.Duration
}

// NewYaraEngine returns an engine with the default scan timeout.
func NewYaraEngine() *YaraEngine {
	return &YaraEngine{Timeout: DefaultScanTimeout}
}

// CompileFile compiles a YARA rule file into a scannable rule-set.
func (e *YaraEngine) CompileFile(path string) (RuleSet, error) {
	compiler, err := yara.NewCompiler()
	if err != nil {
		return nil, fmt.Errorf("create compiler: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := compiler.AddFile(file, ""); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	compiled, err := compiler.GetRules()
	if err != nil {
		return nil, fmt.Errorf("finalize rules: %w", err)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	return &yaraRuleSet{rules: compiled, timeout: timeout}, nil
}

type yaraRuleSet struct {
	rules   *yara.Rules
	timeout time.Duration
}

// ScanFile runs the compiled rules against the file at path and converts
// libyara match records into the adapter's Match shape.
func (s *yaraRuleSet) ScanFile(path string) ([]Match, error) {
	var hits yara.MatchRules
	if err := s.rules.ScanFile(path, 0, s.timeout, &hits); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		meta := make(map[string]string, len(hit.Metas))
		for _, m := range hit.Metas {
			meta[m.Identifier] = fmt.Sprintf("%v", m.Value)
		}

		seen := make(map[string]struct{}, len(hit.Strings))
		var found []string
		for _, ms := range hit.Strings {
			text := string(ms.Data)
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			found = append(found, text)
		}
		sort.Strings(found)

		matches = append(matches, Match{Rule: hit.Rule, Meta: meta, Strings: found})
	}

	return matches, nil
}
