package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexusriot/ducknetspeed/internal/config"
	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

// Global flags
var (
	cfgFile      string
	intervalFlag time.Duration
	modeFlag     string
	plainFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "ducknetspeed",
	Short: "Live network throughput in your terminal",
	Long: `ducknetspeed shows the current download and upload rate of this machine,
summed over its physical interfaces, together with details about the active
connection (address, link speed, Wi-Fi network).

Without a terminal on stdout, or with --plain, it prints one line per change
instead of drawing the interactive view.

Examples:
  ducknetspeed
  ducknetspeed --mode down --interval 2s
  ducknetspeed --plain | tee speed.log`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return monitor(commandContext(cmd), cfg, cmd.OutOrStdout())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./.ducknetspeed.yaml or ~/.config/ducknetspeed/config.yaml)")
	pf.DurationVar(&intervalFlag, "interval", 0, "time between polls (e.g. 1s, 500ms)")
	pf.StringVar(&modeFlag, "mode", "", "display mode: both, down or up")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "print plain lines instead of the interactive view")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Interval = intervalFlag
	}
	if flags.Changed("mode") {
		m, err := speedfmt.ParseMode(modeFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a display mode", modeFlag),
				"Use --mode both, down or up.")
		}
		cfg.Mode = m.String()
	}
	return config.Validate(cfg)
}
