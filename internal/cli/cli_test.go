package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusriot/ducknetspeed/internal/config"
	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/iface"
	"github.com/nexusriot/ducknetspeed/internal/poller"
	pollertest "github.com/nexusriot/ducknetspeed/internal/poller/testing"
)

func wiredSource(steps ...[]iface.Counter) *pollertest.FakeSource {
	src := pollertest.NewFakeSource(steps...)
	src.Records = []iface.Record{{
		Name:      "eth0",
		IsDefault: true,
		OperState: iface.OperUp,
		LinkType:  iface.LinkWired,
		IP4:       "192.168.1.10",
	}}
	return src
}

// useSource swaps the system probe for src for the duration of the test.
func useSource(t *testing.T, src poller.Source) {
	t.Helper()
	orig := newSource
	newSource = func() poller.Source { return src }
	t.Cleanup(func() { newSource = orig })
}

// createTestFlagCmd builds a standalone command bound to the global flags.
func createTestFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	intervalFlag, modeFlag = 0, ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyFlags(t *testing.T) {
	t.Run("no flags keeps config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		require.NoError(t, applyFlags(createTestFlagCmd(t), cfg))
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cmd := createTestFlagCmd(t, "--interval", "2s", "--mode", "Upload")
		require.NoError(t, applyFlags(cmd, cfg))
		assert.Equal(t, 2*time.Second, cfg.Interval)
		assert.Equal(t, "up", cfg.Mode)
	})

	t.Run("bad mode", func(t *testing.T) {
		err := applyFlags(createTestFlagCmd(t, "--mode", "sideways"), config.DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("non-positive interval", func(t *testing.T) {
		err := applyFlags(createTestFlagCmd(t, "--interval", "0s"), config.DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestRunOnce(t *testing.T) {
	useSource(t, wiredSource(
		[]iface.Counter{{Name: "eth0", RxBytes: 0, TxBytes: 0}, {Name: "lo", RxBytes: 5, TxBytes: 5}},
		[]iface.Counter{{Name: "eth0", RxBytes: 125000, TxBytes: 0}, {Name: "lo", RxBytes: 900000, TxBytes: 900000}},
	))

	var out bytes.Buffer
	err := runOnce(context.Background(), config.DefaultConfig(), 10*time.Millisecond, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "↓ 1 Mb/s ↑ --", lines[0])
	assert.Contains(t, lines, "  Interface: eth0")
	assert.Contains(t, lines, "  IPv4: 192.168.1.10")
}

func TestRunOnceHonoursMode(t *testing.T) {
	useSource(t, wiredSource(
		[]iface.Counter{{Name: "eth0"}},
		[]iface.Counter{{Name: "eth0", RxBytes: 125000, TxBytes: 12500}},
	))
	cfg := config.DefaultConfig()
	cfg.Mode = "up"

	var out bytes.Buffer
	require.NoError(t, runOnce(context.Background(), cfg, time.Millisecond, &out))
	assert.True(t, strings.HasPrefix(out.String(), "↑ 97.7 Kb/s\n"), out.String())
}

func TestRunOnceErrors(t *testing.T) {
	t.Run("acquisition failure", func(t *testing.T) {
		src := wiredSource([]iface.Counter{{Name: "eth0"}})
		src.SetCountersErr(os.ErrPermission)
		useSource(t, src)

		err := runOnce(context.Background(), config.DefaultConfig(), time.Millisecond, &bytes.Buffer{})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrAcquisition))
	})

	t.Run("bad wait", func(t *testing.T) {
		useSource(t, wiredSource([]iface.Counter{{Name: "eth0"}}))
		err := runOnce(context.Background(), config.DefaultConfig(), 0, &bytes.Buffer{})
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		useSource(t, wiredSource([]iface.Counter{{Name: "eth0"}}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := runOnce(ctx, config.DefaultConfig(), time.Hour, &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunPlain(t *testing.T) {
	useSource(t, wiredSource(
		[]iface.Counter{{Name: "eth0"}},
		[]iface.Counter{{Name: "eth0", RxBytes: 125000}},
	))
	cfg := config.DefaultConfig()
	cfg.Interval = 20 * time.Millisecond
	cfg.AnimationInterval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, runPlain(ctx, cfg, &out))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "…\n"), got)
	assert.Contains(t, got, "  Interface: eth0\n")
	assert.Contains(t, got, "↓ 1 Mb/s ↑ --\n")
	// Loading prints once despite the animation ticks.
	assert.Equal(t, 1, strings.Count(got, "Loading network details"))
}

func TestSetupLoggingToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "ducknetspeed.log")

	log, closeLog, err := setupLogging(cfg, true)
	require.NoError(t, err)
	log.Warn("poll failed: %s", "boom")
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll failed: boom")
}

func TestSetupLoggingBadPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "dir", "x.log")

	_, _, err := setupLogging(cfg, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestConfigCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "# source: built-in defaults")
	assert.Contains(t, out, "interval: 1s")
	assert.Contains(t, out, "mode: both")
}

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { SetVersionInfo(origVersion, origCommit, origDate) })
	SetVersionInfo("1.2.3", "abc1234", "2026-01-08T12:00:00Z")

	run := func(args ...string) string {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(args)
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
			versionShort = false
		})
		require.NoError(t, rootCmd.Execute())
		return buf.String()
	}

	out := run("version")
	assert.Contains(t, out, "ducknetspeed v1.2.3")
	assert.Contains(t, out, "commit: abc1234")
	assert.Contains(t, out, "built: 2026-01-08T12:00:00Z")
	assert.Contains(t, out, "go: "+runtime.Version())

	versionShort = false
	assert.Equal(t, "1.2.3\n", run("version", "--short"))
}

func TestFormatVersion(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"dev":    "dev",
		"1.0.0":  "v1.0.0",
		"v2.1.0": "v2.1.0",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatVersion(in), in)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
