package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexusriot/ducknetspeed/internal/config"
	"github.com/nexusriot/ducknetspeed/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration ducknetspeed would run with, after merging the
config file, DUCKNETSPEED_* environment variables and flags. The output is
valid YAML and can be saved as a starting config file.

Examples:
  ducknetspeed config
  ducknetspeed config > ~/.config/ducknetspeed/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}
		data, err := config.Dump(cfg)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
		}
		if path == "" {
			path = "built-in defaults"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", path, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
