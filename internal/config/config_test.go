package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/iface"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Positive(t, cfg.AnimationInterval)
	assert.Zero(t, cfg.PollTimeout)
	assert.Equal(t, "both", cfg.Mode)
	assert.Equal(t, iface.DefaultExcludedPrefixes, cfg.ExcludePrefixes)
	assert.True(t, cfg.Wifi)
	assert.Equal(t, 60, cfg.History)
	require.NoError(t, Validate(cfg))

	// Defaults must not alias the package-level slice.
	cfg.ExcludePrefixes[0] = "changed"
	assert.Equal(t, "lo", iface.DefaultExcludedPrefixes[0])
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "cfg.yaml", `
interval: 2s
poll_timeout: 500ms
mode: up
exclude_prefixes: [lo, wg]
wifi: false
history: 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.PollTimeout)
	assert.Equal(t, speedfmt.UploadOnly, cfg.DisplayMode())
	assert.Equal(t, []string{"lo", "wg"}, cfg.ExcludePrefixes)
	assert.False(t, cfg.Wifi)
	assert.Equal(t, 30, cfg.History)
	assert.Equal(t, DefaultConfig().AnimationInterval, cfg.AnimationInterval)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DUCKNETSPEED_INTERVAL", "250ms")
	t.Setenv("DUCKNETSPEED_MODE", "down")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, speedfmt.DownloadOnly, cfg.DisplayMode())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"bad yaml", writeConfig(t, dir, "bad.yaml", "interval: [1s\n")},
		{"bad duration", writeConfig(t, dir, "dur.yaml", "interval: soon\n")},
		{"invalid mode", writeConfig(t, dir, "mode.yaml", "mode: sideways\n")},
		{"zero interval", writeConfig(t, dir, "zero.yaml", "interval: 0s\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"interval", func(c *Config) { c.Interval = -time.Second }, "interval must be positive"},
		{"animation", func(c *Config) { c.AnimationInterval = 0 }, "animation_interval must be positive"},
		{"timeout", func(c *Config) { c.PollTimeout = -1 }, "poll_timeout can't be negative"},
		{"mode", func(c *Config) { c.Mode = "sideways" }, "isn't a display mode"},
		{"history", func(c *Config) { c.History = 0 }, "history must be at least 1"},
		{"empty prefix", func(c *Config) { c.ExcludePrefixes = []string{"lo", ""} }, "empty prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFind(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, work)

	path, err := Find("")
	require.NoError(t, err)
	assert.Empty(t, path)

	global := writeConfig(t, home, filepath.Join(GlobalConfigDir, GlobalConfigFile), "mode: up\n")
	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, global, path)

	local := writeConfig(t, work, ConfigFileName, "mode: down\n")
	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, local, path)

	explicit := writeConfig(t, t.TempDir(), "x.yaml", "mode: both\n")
	path, err = Find(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	_, err = Find(filepath.Join(work, "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	chdir(t, work)

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "both", cfg.Mode)

	writeConfig(t, work, ConfigFileName, "mode: down\n")
	cfg, path, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, speedfmt.DownloadOnly, cfg.DisplayMode())
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollTimeout = 3 * time.Second
	cfg.Mode = "up"

	out, err := Dump(cfg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &raw))
	assert.Equal(t, "1s", raw["interval"])
	assert.Equal(t, "3s", raw["poll_timeout"])

	path := writeConfig(t, t.TempDir(), "dump.yaml", string(out))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
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
