package cli

import (
	"fmt"

	"github.com/example/binsentry/internal/binary"
	"github.com/example/binsentry/internal/config"
	"github.com/example/binsentry/internal/detector"
	"github.com/example/binsentry/internal/events"
	"github.com/example/binsentry/internal/report"
	"github.com/spf13/cobra"
)

func newScanCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "scan <binary> [binary...]",
		Short: "Run all registered detectors against one or more binaries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.toOverrides(cmd)
			cfg, err := loader.Load(overrides)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}

			detectors, err := reg.Filter(cfg.Detectors)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(cfg.OutputFile, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()

			for _, path := range args {
				bin, err := binary.Open(path)
				if err != nil {
					return fmt.Errorf("open binary %s: %w", path, err)
				}

				findings, err := detector.Run(cmd.Context(), detectors, bin)
				if err != nil {
					return err
				}

				rep := report.Build(bin, findings)

				switch cfg.Format {
				case config.FormatNDJSON:
					if err := emitNDJSON(events.NewEmitter(out), bin, findings, rep); err != nil {
						return err
					}
				case config.FormatJSON:
					if err := report.WriteJSON(out, rep); err != nil {
						return err
					}
				default:
					if err := report.WriteText(out, rep); err != nil {
						return err
					}
				}

				// Detector failures never abort the scan, but the operator
				// should see them even in the human-readable formats.
				if cfg.Format != config.FormatNDJSON {
					for _, f := range findings {
						if f.Err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", f.Err)
						}
					}
				}
			}

			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}

func emitNDJSON(emitter *events.Emitter, bin *binary.File, findings []detector.Finding, rep report.Report) error {
	start := events.Event{
		Type:   events.TypeScanStart,
		Binary: bin.Path(),
		Fields: map[string]interface{}{"sizeBytes": bin.Size(), "sha256": bin.SHA256()},
	}
	if err := emitter.Emit(start); err != nil {
		return err
	}

	for _, f := range findings {
		if f.Err != nil {
			evt := events.Event{
				Type:     events.TypeDetectorError,
				Binary:   bin.Path(),
				Detector: f.Detector,
				Message:  f.Err.Error(),
			}
			if err := emitter.Emit(evt); err != nil {
				return err
			}
			continue
		}

		if !f.Result.HasFindings() {
			continue
		}

		evt := events.Event{
			Type:     events.TypeDetectorFinding,
			Binary:   bin.Path(),
			Detector: f.Detector,
			Level:    f.Result.Level().String(),
			Message:  f.Result.Summary(),
			Fields:   map[string]interface{}{"information": f.Result.Information()},
		}
		if err := emitter.Emit(evt); err != nil {
			return err
		}
	}

	finished := events.Event{
		Type:   events.TypeScanFinished,
		Binary: bin.Path(),
		Level:  rep.Verdict,
		Fields: map[string]interface{}{"detectors": len(findings), "errors": rep.Errors},
	}
	return emitter.Emit(finished)
}
