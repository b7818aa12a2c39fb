package config

import (
	"time"

	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/iface"
	"github.com/nexusriot/ducknetspeed/internal/poller"
)

// Config is the complete ducknetspeed configuration.
type Config struct {
	// Interval between polls.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// AnimationInterval is the loading glyph cadence.
	AnimationInterval time.Duration `yaml:"animation_interval" mapstructure:"animation_interval"`

	// PollTimeout bounds one acquisition. Zero means no timeout.
	PollTimeout time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`

	// Mode is the initial display mode: both, down or up.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// ExcludePrefixes are interface name prefixes left out of the totals.
	ExcludePrefixes []string `yaml:"exclude_prefixes" mapstructure:"exclude_prefixes"`

	// Wifi enables Wi-Fi details for wireless links.
	Wifi bool `yaml:"wifi" mapstructure:"wifi"`

	// LogFile receives log output while the terminal UI owns the screen.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	// History is how many samples the sparkline keeps.
	History int `yaml:"history" mapstructure:"history"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:          poller.DefaultInterval,
		AnimationInterval: display.DefaultSpinner.FPS,
		Mode:              "both",
		ExcludePrefixes:   append([]string(nil), iface.DefaultExcludedPrefixes...),
		Wifi:              true,
		History:           60,
	}
}
