// Package config parses the rtstate command's environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds rtstate command configuration.
type Config struct {
	FramePeriod  time.Duration `env:"RTSTATE_FRAME_PERIOD"  envDefault:"20ms"`
	PollInterval time.Duration `env:"RTSTATE_POLL_INTERVAL" envDefault:"1ms"`
	Debounce     time.Duration `env:"RTSTATE_DEBOUNCE"      envDefault:"300ms"`
	ResetPeriod  time.Duration `env:"RTSTATE_RESET_PERIOD"  envDefault:"15s"`

	Width  int    `env:"RTSTATE_WIDTH"  envDefault:"640"`
	Height int    `env:"RTSTATE_HEIGHT" envDefault:"480"`
	Title  string `env:"RTSTATE_TITLE"  envDefault:"rtstate"`

	// Headless reads keys from standard input and presents nowhere.
	Headless bool `env:"RTSTATE_HEADLESS"`

	LogLevel  string `env:"RTSTATE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"RTSTATE_LOG_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses environment and flags into a Config. Flags override the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.DurationVar(&cfg.FramePeriod, "frame", cfg.FramePeriod, "The screen refresh period")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "The input polling period")
	fs.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "The minimum time between two state changes")
	fs.DurationVar(&cfg.ResetPeriod, "reset", cfg.ResetPeriod, "The counter reset period")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "The window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "The window height")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "The window title")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Read keys from standard input instead of opening a window")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "The log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "The log format (console or json)")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the application cannot run with.
func (c Config) Validate() error {
	if c.FramePeriod <= 0 {
		return fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.ResetPeriod <= 0 {
		return fmt.Errorf("reset period must be positive, got %v", c.ResetPeriod)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
