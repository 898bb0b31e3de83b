package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/binsentry/internal/config"
	"github.com/example/binsentry/internal/events"
	"github.com/example/binsentry/internal/report"
	"github.com/example/binsentry/internal/rules"
)

func TestScanCommandWritesJSONReport(t *testing.T) {
	swapEngine(t, fakeEngine{sets: map[string]fakeRuleSet{
		"clamav.yara": {matches: []rules.Match{
			{Rule: "Win_Trojan_A", Meta: map[string]string{"signature": "Win.Trojan.A"}},
		}},
	}})

	binaryPath := writeSampleBinary(t)
	outputPath := filepath.Join(t.TempDir(), "report.json")

	loader := &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cmd := newScanCmd(loader)

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"--rules-dir", t.TempDir(),
		"--format", "json",
		"--output", outputPath,
		binaryPath,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan command failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("parse report: %v", err)
	}

	if rep.Verdict != "malicious" {
		t.Fatalf("expected malicious verdict, got %s", rep.Verdict)
	}
	if len(rep.Findings) != 4 {
		t.Fatalf("expected an entry per builtin detector, got %d", len(rep.Findings))
	}
	if rep.Findings[0].Detector != "clamav" {
		t.Fatalf("malicious finding should rank first, got %s", rep.Findings[0].Detector)
	}
	if len(rep.Findings[0].Information) != 1 || rep.Findings[0].Information[0] != "Win.Trojan.A" {
		t.Fatalf("unexpected information: %v", rep.Findings[0].Information)
	}
}

func TestScanCommandNDJSONStream(t *testing.T) {
	swapEngine(t, fakeEngine{sets: map[string]fakeRuleSet{
		"peid.yara": {matches: []rules.Match{
			{Rule: "UPX", Meta: map[string]string{"packer_name": "UPX 3.x"}},
		}},
	}})

	binaryPath := writeSampleBinary(t)

	loader := &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cmd := newScanCmd(loader)

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"--rules-dir", t.TempDir(),
		"--format", "ndjson",
		"--detectors", "peid",
		binaryPath,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan command failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected start, finding, finished events, got %d lines: %q", len(lines), buf.String())
	}

	var types []string
	for _, line := range lines {
		var evt events.Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("invalid NDJSON line %q: %v", line, err)
		}
		types = append(types, evt.Type)
	}

	want := []string{events.TypeScanStart, events.TypeDetectorFinding, events.TypeScanFinished}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected event types %v, got %v", want, types)
		}
	}
}

func TestScanCommandSurfacesDetectorErrorsAsWarnings(t *testing.T) {
	color.NoColor = true
	swapEngine(t, fakeEngine{compileErr: errors.New("rule file missing")})

	binaryPath := writeSampleBinary(t)

	loader := &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cmd := newScanCmd(loader)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{
		"--rules-dir", t.TempDir(),
		binaryPath,
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("detector failures must not fail the command: %v", err)
	}

	if !strings.Contains(out.String(), "Verdict: none") {
		t.Fatalf("load failures must leave the verdict clean: %s", out.String())
	}
	if !strings.Contains(errOut.String(), "warning:") {
		t.Fatalf("expected warnings on stderr, got %q", errOut.String())
	}
}

func TestScanCommandUnknownDetector(t *testing.T) {
	swapEngine(t, fakeEngine{})

	loader := &config.Loader{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
	cmd := newScanCmd(loader)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--detectors", "nope", writeSampleBinary(t)})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown detector id")
	}
}
