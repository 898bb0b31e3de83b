package result

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how concerning a finding is, ordered by ascending
// concern. NoFinding is the default for a scan that matched nothing and is
// distinct from NoOpinion, which means a rule matched but carries no verdict.
type Severity int

const (
	NoFinding Severity = iota
	NoOpinion
	Suspicious
	Malicious
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case NoFinding:
		return "none"
	case NoOpinion:
		return "no opinion"
	case Suspicious:
		return "suspicious"
	case Malicious:
		return "malicious"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON renders the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a string form back into a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return NoFinding, nil
	case "no opinion", "no-opinion":
		return NoOpinion, nil
	case "suspicious":
		return Suspicious, nil
	case "malicious":
		return Malicious, nil
	default:
		return NoFinding, fmt.Errorf("unknown severity: %q", value)
	}
}

// Result accumulates the findings of one analysis pass. A fresh Result starts
// in the "no finding" state; level and summary can each be set once, and
// information lines are append-only. The caller of an analyze call is the
// single owner.
type Result struct {
	level       Severity
	levelSet    bool
	summary     string
	summarySet  bool
	information []string
}

// New returns a Result in its default "no finding" state.
func New() *Result {
	return &Result{level: NoFinding}
}

// SetLevel records the severity of the findings. Only the first call has an
// effect.
func (r *Result) SetLevel(level Severity) {
	if r.levelSet {
		return
	}
	r.level = level
	r.levelSet = true
}

// SetSummary records the one-line summary. Only the first call has an effect.
func (r *Result) SetSummary(summary string) {
	if r.summarySet {
		return
	}
	r.summary = summary
	r.summarySet = true
}

// AddInformation appends one human-readable finding line.
func (r *Result) AddInformation(line string) {
	r.information = append(r.information, line)
}

// Level returns the recorded severity, NoFinding when nothing matched.
func (r *Result) Level() Severity {
	return r.level
}

// Summary returns the one-line summary, empty when nothing matched.
func (r *Result) Summary() string {
	return r.summary
}

// Information returns a copy of the finding lines in append order.
func (r *Result) Information() []string {
	if len(r.information) == 0 {
		return nil
	}
	out := make([]string, len(r.information))
	copy(out, r.information)
	return out
}

// HasFindings reports whether the scan recorded anything at all.
func (r *Result) HasFindings() bool {
	return r.levelSet || r.summarySet || len(r.information) > 0
}
