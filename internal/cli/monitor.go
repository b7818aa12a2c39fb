package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nexusriot/ducknetspeed/internal/config"
	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/logger"
	"github.com/nexusriot/ducknetspeed/internal/poller"
	"github.com/nexusriot/ducknetspeed/internal/probe"
	"github.com/nexusriot/ducknetspeed/internal/rate"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
	"github.com/nexusriot/ducknetspeed/internal/ui"
)

// newSource builds the system probe; tests swap it for a fake.
var newSource = func() poller.Source { return probe.NewSystem() }

// isTerminal reports whether stdout is a terminal.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// plainGlyphs replace the spinner in line output so loading prints once.
var plainGlyphs = []string{"…"}

func monitor(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := isTerminal()
	ui.ConfigureColor(tty)
	if plainFlag || !tty {
		return runPlain(ctx, cfg, out)
	}
	return runTUI(ctx, cfg)
}

// setupLogging points the standard logger at cfg.LogFile. Without a log
// file the terminal UI discards log output so it can't corrupt the screen;
// line output keeps logging to stderr.
func setupLogging(cfg *config.Config, tui bool) (logger.Logger, func(), error) {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "ducknetspeed")
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+cfg.LogFile,
				"Check log_file points to a writable location")
		}
		restore := func() {
			log.SetOutput(os.Stderr)
			log.SetPrefix("")
			_ = f.Close()
		}
		return logger.NewEnvLogger("[poll]"), restore, nil
	}
	if tui {
		log.SetOutput(io.Discard)
		return logger.Noop(), func() { log.SetOutput(os.Stderr) }, nil
	}
	return logger.NewEnvLogger("[poll]"), func() {}, nil
}

func newOrchestrator(cfg *config.Config, r display.Renderer, frames []string, log logger.Logger, onSample func(rate.Sample)) *poller.Orchestrator {
	glyphs := spinner.Spinner{Frames: frames, FPS: cfg.AnimationInterval}
	machine := display.NewMachine(r, glyphs, cfg.DisplayMode())
	return poller.New(newSource(), machine, poller.Options{
		Interval:         cfg.Interval,
		PollTimeout:      cfg.PollTimeout,
		ExcludedPrefixes: cfg.ExcludePrefixes,
		SkipWifi:         !cfg.Wifi,
		Logger:           log,
		OnSample:         onSample,
	})
}

func runPlain(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log, closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	r := ui.NewLineRenderer(out)
	orch := newOrchestrator(cfg, r, plainGlyphs, log, nil)
	if err := orch.Run(ctx); err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Failed to write output", "")
	}
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	log, closeLog, err := setupLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The model needs the orchestrator for mode requests and stats, and the
	// orchestrator needs the program to render into.
	var orch *poller.Orchestrator
	model := ui.NewModel(ui.Options{
		Hostname: probe.Hostname(ctx),
		History:  cfg.History,
		Stats:    func() poller.Stats { return orch.Stats() },
		OnMode:   func(m speedfmt.Mode) { orch.RequestMode(m) },
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	r := ui.NewProgramRenderer(p)
	orch = newOrchestrator(cfg, r, display.DefaultSpinner.Frames, log, r.Sample)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orch.Run(ctx)
	}()

	_, err = p.Run()
	cancel()
	<-done

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Terminal UI failed",
			"Try --plain for line output")
	}
	return nil
}
