package cli

import (
	"github.com/example/binsentry/internal/config"
	"github.com/spf13/cobra"
)

// runtimeFlagSet tracks shared scan/doctor flags before they are converted
// into config overrides.
type runtimeFlagSet struct {
	rulesDir    string
	detectors   string
	format      string
	output      string
	scanTimeout int
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().StringVar(&flags.rulesDir, "rules-dir", "", "Directory containing the YARA rule files")
	cmd.Flags().StringVar(&flags.detectors, "detectors", "", "Comma-separated detectors to run (clamav,compilers,peid,strings)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text, json, or ndjson")
	cmd.Flags().StringVar(&flags.output, "output", "", "Write the report to a file instead of stdout")
	cmd.Flags().IntVar(&flags.scanTimeout, "scan-timeout", 0, "Per-file scan timeout in seconds (1-600)")
}

func (f runtimeFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}

	if cmd.Flags().Changed("rules-dir") {
		ov.RulesDir = f.rulesDir
	}

	if cmd.Flags().Changed("detectors") {
		ov.Detectors = config.ParseDetectors(f.detectors)
	}

	if cmd.Flags().Changed("format") {
		ov.Format = f.format
	}

	if cmd.Flags().Changed("output") {
		ov.OutputFile = f.output
	}

	if cmd.Flags().Changed("scan-timeout") {
		ov.ScanTimeout = f.scanTimeout
		ov.ScanTimeoutSet = true
	}

	return ov
}
