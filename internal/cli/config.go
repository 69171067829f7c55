package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/scloud/config"
	"github.com/wesleyorama2/scloud/internal/output"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect scloud configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [FILE]",
		Short: "Load and validate a configuration file",
		Long: `Load and validate a configuration file. FILE defaults to the --config flag.
Environment variables and credential flags are applied before validation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				g.configFile = args[0]
			}
			if g.configFile == "" {
				return fmt.Errorf("no configuration file given: pass FILE or --config")
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := config.ValidateConfig(cfg)
			if len(errs) == 0 {
				fmt.Fprintf(out, "%s %s is valid\n", output.SuccessIcon(g.noColor), g.configFile)
				return nil
			}

			fmt.Fprintf(out, "%s %s has %d error(s):\n", output.ErrorIcon(g.noColor), g.configFile, len(errs))
			for _, e := range errs {
				fmt.Fprintf(out, "  %s\n", e)
			}
			return errCheckFailed
		},
	})

	return cmd
}
