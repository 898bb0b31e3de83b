package cli

import (
	"reflect"
	"testing"

	"github.com/example/binsentry/internal/config"
	"github.com/spf13/cobra"
)

func TestRuntimeFlagsToOverrides(t *testing.T) {
	flags := &runtimeFlagSet{}
	cmd := &cobra.Command{Use: "test"}
	bindRuntimeFlags(cmd, flags)

	if err := cmd.ParseFlags([]string{
		"--rules-dir", "/opt/rules",
		"--detectors", "clamav,peid",
		"--format", "json",
		"--scan-timeout", "20",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	ov := flags.toOverrides(cmd)

	if ov.RulesDir != "/opt/rules" {
		t.Fatalf("unexpected rules dir %q", ov.RulesDir)
	}
	if !reflect.DeepEqual(ov.Detectors, []string{"clamav", "peid"}) {
		t.Fatalf("unexpected detectors %v", ov.Detectors)
	}
	if ov.Format != "json" {
		t.Fatalf("unexpected format %q", ov.Format)
	}
	if !ov.ScanTimeoutSet || ov.ScanTimeout != 20 {
		t.Fatalf("unexpected timeout %d (set=%v)", ov.ScanTimeout, ov.ScanTimeoutSet)
	}
	if ov.OutputFile != "" {
		t.Fatalf("unset flag should not override, got %q", ov.OutputFile)
	}
}

func TestRuntimeFlagsUntouchedYieldEmptyOverrides(t *testing.T) {
	flags := &runtimeFlagSet{}
	cmd := &cobra.Command{Use: "test"}
	bindRuntimeFlags(cmd, flags)

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	ov := flags.toOverrides(cmd)
	if !reflect.DeepEqual(ov, config.Overrides{}) {
		t.Fatalf("expected zero overrides, got %+v", ov)
	}
}
