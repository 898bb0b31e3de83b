package cli

import (
	"fmt"

	"github.com/example/binsentry/internal/config"
	"github.com/example/binsentry/internal/detector"
	"github.com/spf13/cobra"
)

func newPluginsCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the registered detector plugins",
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

			for _, d := range reg.Detectors() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s (api v%d) %s\n", d.ID(), d.APIVersion(), d.Description())
				if rd, ok := d.(*detector.RuleDetector); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s rules: %s\n", "", rd.RuleFile())
				}
			}

			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}
