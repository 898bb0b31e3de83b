package rules

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotLoaded is returned by ScanFile when no rule-set has been loaded yet.
var ErrNotLoaded = errors.New("no rule-set loaded")

// Match is one rule hit against a scanned file.
type Match struct {
	// Rule is the identifier of the rule that matched.
	Rule string
	// Meta maps metadata field names to values, as declared in the rule.
	Meta map[string]string
	// Strings holds the pattern text actually located in the file,
	// deduplicated and sorted.
	Strings []string
}

// RuleSet is a compiled collection of rules ready to scan files.
type RuleSet interface {
	ScanFile(path string) ([]Match, error)
}

// Engine compiles rule files into scannable rule-sets.
type Engine interface {
	CompileFile(path string) (RuleSet, error)
}

// Adapter owns one compiled rule-set and scans files against it. Reloads are
// explicit: LoadRules replaces the previous set. Concurrent scans are safe
// against a reload, but a reload during in-flight scans should still be
// serialized by the caller if match consistency matters.
type Adapter struct {
	engine Engine

	mu     sync.RWMutex
	set    RuleSet
	source string
}

// NewAdapter returns an adapter backed by the given engine.
func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// LoadRules compiles the rule file at path and installs it as the current
// rule-set, replacing any previously loaded one. On failure the previous
// rule-set stays in place.
func (a *Adapter) LoadRules(path string) error {
	set, err := a.engine.CompileFile(path)
	if err != nil {
		return fmt.Errorf("load rules %s: %w", path, err)
	}

	a.mu.Lock()
	a.set = set
	a.source = path
	a.mu.Unlock()

	return nil
}

// Loaded reports whether a rule-set is currently installed.
func (a *Adapter) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.set != nil
}

// Source returns the path of the currently loaded rule file.
func (a *Adapter) Source() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source
}

// ScanFile scans the file at path against the loaded rule-set. Scanning
// before a successful LoadRules returns ErrNotLoaded.
func (a *Adapter) ScanFile(path string) ([]Match, error) {
	a.mu.RLock()
	set := a.set
	a.mu.RUnlock()

	if set == nil {
		return nil, ErrNotLoaded
	}

	return set.ScanFile(path)
}
