package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/example/binsentry/internal/config"
	"github.com/example/binsentry/internal/detector"
	"github.com/spf13/cobra"
)

type doctorCheck struct {
	Name   string
	Status string // "✓", "✗", or "⊘"
	Detail string
	Error  error
}

func newDoctorCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var skipCompile bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the rule files and configuration",
		Long: `The doctor subcommand validates the binsentry environment:
- Go runtime version
- Configuration validity
- Rules directory presence
- Presence and compilability of every builtin rule file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.toOverrides(cmd)
			cfg, err := loader.Load(overrides)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			checks := runDoctorChecks(cfg, skipCompile)
			printDoctorReport(cmd, checks)

			for _, check := range checks {
				if check.Error != nil {
					return fmt.Errorf("doctor checks failed")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\n✓ All checks passed. System is ready.")
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&skipCompile, "skip-compile", false, "Only check that rule files exist, without compiling them")

	return cmd
}

func runDoctorChecks(cfg config.RuntimeConfig, skipCompile bool) []doctorCheck {
	checks := []doctorCheck{checkGoVersion(), checkConfiguration(cfg)}

	dirCheck := checkRulesDir(cfg.RulesDir)
	checks = append(checks, dirCheck)

	if dirCheck.Error == nil {
		checks = append(checks, checkRuleFiles(cfg, skipCompile)...)
	}

	return checks
}

func checkGoVersion() doctorCheck {
	return doctorCheck{
		Name:   "Go Runtime",
		Status: "✓",
		Detail: fmt.Sprintf("Version %s", runtime.Version()),
	}
}

func checkConfiguration(cfg config.RuntimeConfig) doctorCheck {
	if err := cfg.Validate(); err != nil {
		return doctorCheck{
			Name:   "Configuration",
			Status: "✗",
			Detail: "Invalid configuration",
			Error:  err,
		}
	}

	return doctorCheck{
		Name:   "Configuration",
		Status: "✓",
		Detail: fmt.Sprintf("format=%s, timeout=%ds", cfg.Format, cfg.ScanTimeout),
	}
}

func checkRulesDir(dir string) doctorCheck {
	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{
			Name:   "Rules Directory",
			Status: "✗",
			Detail: dir,
			Error:  err,
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:   "Rules Directory",
			Status: "✗",
			Detail: dir,
			Error:  fmt.Errorf("%s is not a directory", dir),
		}
	}

	return doctorCheck{
		Name:   "Rules Directory",
		Status: "✓",
		Detail: dir,
	}
}

func checkRuleFiles(cfg config.RuntimeConfig, skipCompile bool) []doctorCheck {
	engine := newEngine(time.Duration(cfg.ScanTimeout) * time.Second)

	var checks []doctorCheck
	for _, builtin := range detector.Builtins(cfg.RulesDir) {
		name := fmt.Sprintf("Rules: %s", builtin.ID)

		if _, err := os.Stat(builtin.RuleFile); err != nil {
			checks = append(checks, doctorCheck{
				Name:   name,
				Status: "✗",
				Detail: "Missing " + builtin.RuleFile,
				Error:  err,
			})
			continue
		}

		if skipCompile {
			checks = append(checks, doctorCheck{
				Name:   name,
				Status: "⊘",
				Detail: "Present (compile skipped)",
			})
			continue
		}

		if _, err := engine.CompileFile(builtin.RuleFile); err != nil {
			checks = append(checks, doctorCheck{
				Name:   name,
				Status: "✗",
				Detail: "Does not compile",
				Error:  err,
			})
			continue
		}

		checks = append(checks, doctorCheck{
			Name:   name,
			Status: "✓",
			Detail: builtin.RuleFile,
		})
	}

	return checks
}

func printDoctorReport(cmd *cobra.Command, checks []doctorCheck) {
	fmt.Fprintln(cmd.OutOrStdout(), "Running environment diagnostics...")

	for _, check := range checks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", check.Status, check.Name+":", check.Detail)
		if check.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "   Error: %v\n", check.Error)
		}
	}
}
