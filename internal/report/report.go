package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/example/binsentry/internal/binary"
	"github.com/example/binsentry/internal/detector"
	"github.com/example/binsentry/internal/result"
)

// Entry is the report surface of one detector's findings.
type Entry struct {
	Detector    string   `json:"detector"`
	Level       string   `json:"level"`
	Summary     string   `json:"summary,omitempty"`
	Information []string `json:"information,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Report aggregates one binary's findings across all detectors that ran.
type Report struct {
	Path      string    `json:"path"`
	Size      int64     `json:"sizeBytes"`
	SHA256    string    `json:"sha256"`
	ScannedAt time.Time `json:"scannedAt"`
	Verdict   string    `json:"verdict"`
	Findings  []Entry   `json:"findings,omitempty"`
	Errors    int       `json:"errors,omitempty"`
}

// Build converts raw findings into a report. The verdict is the highest
// severity any detector reported; entries are ordered by descending severity,
// detectors with equal severity staying in execution order.
func Build(bin *binary.File, findings []detector.Finding) Report {
	rep := Report{
		Path:      bin.Path(),
		Size:      bin.Size(),
		SHA256:    bin.SHA256(),
		ScannedAt: time.Now().UTC(),
		Verdict:   result.NoFinding.String(),
	}

	type ranked struct {
		entry Entry
		level result.Severity
	}

	verdict := result.NoFinding
	entries := make([]ranked, 0, len(findings))

	for _, f := range findings {
		level := f.Result.Level()
		if f.Err != nil {
			rep.Errors++
		}
		if level > verdict {
			verdict = level
		}

		entry := Entry{
			Detector:    f.Detector,
			Level:       level.String(),
			Summary:     f.Result.Summary(),
			Information: f.Result.Information(),
		}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}

		entries = append(entries, ranked{entry: entry, level: level})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].level > entries[j].level
	})

	for _, r := range entries {
		rep.Findings = append(rep.Findings, r.entry)
	}

	rep.Verdict = verdict.String()
	return rep
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}

var (
	maliciousColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	suspiciousColor = color.New(color.FgYellow).SprintFunc()
	noOpinionColor  = color.New(color.FgBlue).SprintFunc()
	cleanColor      = color.New(color.FgGreen).SprintFunc()
)

func colorize(level string) string {
	switch level {
	case result.Malicious.String():
		return maliciousColor(level)
	case result.Suspicious.String():
		return suspiciousColor(level)
	case result.NoOpinion.String():
		return noOpinionColor(level)
	default:
		return cleanColor(level)
	}
}

// WriteText renders the report for a terminal.
func WriteText(w io.Writer, rep Report) error {
	if _, err := fmt.Fprintf(w, "%s (%d bytes, sha256 %s)\n", rep.Path, rep.Size, rep.SHA256); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Verdict: %s\n", colorize(rep.Verdict)); err != nil {
		return err
	}

	for _, entry := range rep.Findings {
		if entry.Error != "" {
			if _, err := fmt.Fprintf(w, "[%s] error: %s\n", entry.Detector, entry.Error); err != nil {
				return err
			}
			continue
		}
		if entry.Summary == "" && len(entry.Information) == 0 {
			continue
		}

		if _, err := fmt.Fprintf(w, "[%s] %s %s\n", entry.Detector, colorize(entry.Level), entry.Summary); err != nil {
			return err
		}
		for _, line := range entry.Information {
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}

	return nil
}
