package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nexusriot/ducknetspeed/internal/errors"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

// Validate checks cfg and returns a structured error for the first problem.
func Validate(cfg *Config) error {
	if cfg.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval must be positive, got %s", cfg.Interval),
			"Try something like 1s or 500ms.")
	}
	if cfg.AnimationInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("animation_interval must be positive, got %s", cfg.AnimationInterval),
			"Try something like 100ms.")
	}
	if cfg.PollTimeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll_timeout can't be negative, got %s", cfg.PollTimeout),
			"Use 0 to disable the timeout.")
	}
	if _, err := speedfmt.ParseMode(cfg.Mode); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a display mode", cfg.Mode),
			"Use both, down or up.")
	}
	if cfg.History < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history must be at least 1, got %d", cfg.History),
			"The default is 60 samples.")
	}
	for _, p := range cfg.ExcludePrefixes {
		if p == "" {
			return errors.New(errors.ErrConfig,
				"exclude_prefixes contains an empty prefix",
				"An empty prefix would exclude every interface; remove it.")
		}
	}
	return nil
}

// DisplayMode returns the parsed display mode.
func (c *Config) DisplayMode() speedfmt.Mode {
	m, _ := speedfmt.ParseMode(c.Mode)
	return m
}

// dumpView renders durations as strings instead of nanoseconds.
type dumpView struct {
	Interval          string   `yaml:"interval"`
	AnimationInterval string   `yaml:"animation_interval"`
	PollTimeout       string   `yaml:"poll_timeout"`
	Mode              string   `yaml:"mode"`
	ExcludePrefixes   []string `yaml:"exclude_prefixes"`
	Wifi              bool     `yaml:"wifi"`
	LogFile           string   `yaml:"log_file"`
	History           int      `yaml:"history"`
}

// Dump renders cfg as YAML in the same shape Load accepts.
func Dump(cfg *Config) ([]byte, error) {
	return yaml.Marshal(dumpView{
		Interval:          cfg.Interval.String(),
		AnimationInterval: cfg.AnimationInterval.String(),
		PollTimeout:       cfg.PollTimeout.String(),
		Mode:              cfg.Mode,
		ExcludePrefixes:   cfg.ExcludePrefixes,
		Wifi:              cfg.Wifi,
		LogFile:           cfg.LogFile,
		History:           cfg.History,
	})
}
