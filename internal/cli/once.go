package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexusriot/ducknetspeed/internal/config"
	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/logger"
)

var onceWait time.Duration

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Measure once and print the result",
	Long: `Take two samples --wait apart, then print the rate and the details of the
active connection and exit.

Examples:
  ducknetspeed once
  ducknetspeed once --wait 3s --mode down`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runOnce(commandContext(cmd), cfg, onceWait, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
	onceCmd.Flags().DurationVar(&onceWait, "wait", time.Second, "time between the two samples")
}

// lastFrame keeps the most recent title and menu.
type lastFrame struct {
	title string
	menu  []display.MenuItem
}

func (f *lastFrame) SetTitle(text string)             { f.title = text }
func (f *lastFrame) SetMenu(items []display.MenuItem) { f.menu = items }

func runOnce(ctx context.Context, cfg *config.Config, wait time.Duration, out io.Writer) error {
	if wait <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--wait must be positive, got %s", wait),
			"Rates are averaged over at least one second; try --wait 1s.")
	}

	frame := &lastFrame{}
	orch := newOrchestrator(cfg, frame, plainGlyphs, logger.Default(), nil)

	if err := orch.Poll(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	if err := orch.Poll(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, frame.title)
	for _, it := range frame.menu {
		if it.Separator {
			break
		}
		fmt.Fprintf(out, "  %s\n", it.Label)
	}
	return nil
}
