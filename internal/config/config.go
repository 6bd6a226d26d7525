// Package config handles threadcopy configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tOgg1/threadcopy/internal/harvest"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatText  = "text"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration structure for threadcopy.
type Config struct {
	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Harvest tunes the scroll loop.
	Harvest HarvestConfig `yaml:"harvest" mapstructure:"harvest"`

	// Browser selects the DevTools endpoint and tab.
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`

	// Output controls how results are rendered.
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// HarvestConfig mirrors harvest.Config.
type HarvestConfig struct {
	// SettleDelay is the wait after jumping to the top of the thread.
	SettleDelay time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`

	// StepDelay is the wait after each scroll step.
	StepDelay time.Duration `yaml:"step_delay" mapstructure:"step_delay"`

	// StepFraction is the share of the visible height scrolled per step.
	StepFraction float64 `yaml:"step_fraction" mapstructure:"step_fraction"`

	// StuckLimit is the number of no-progress steps that end the loop.
	StuckLimit int `yaml:"stuck_limit" mapstructure:"stuck_limit"`

	// MaxIterations bounds the loop.
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations"`
}

// BrowserConfig contains live browser settings.
type BrowserConfig struct {
	// RemoteURL is the Chrome DevTools endpoint.
	RemoteURL string `yaml:"remote_url" mapstructure:"remote_url"`

	// URLMatch is the substring identifying the chat tab.
	URLMatch string `yaml:"url_match" mapstructure:"url_match"`

	// Timeout bounds a whole extraction.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig contains result rendering settings.
type OutputConfig struct {
	// Format is json, text, yaml or table.
	Format string `yaml:"format" mapstructure:"format"`

	// IncludeReactions keeps reactions in the output.
	IncludeReactions bool `yaml:"include_reactions" mapstructure:"include_reactions"`

	// Copy also writes the rendered output to the clipboard.
	Copy bool `yaml:"copy" mapstructure:"copy"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	h := harvest.DefaultConfig()

	return &Config{
		Logging: LoggingConfig{
			Level:        "warn",
			Format:       "console",
			EnableCaller: false,
		},
		Harvest: HarvestConfig{
			SettleDelay:   h.SettleDelay,
			StepDelay:     h.StepDelay,
			StepFraction:  h.StepFraction,
			StuckLimit:    h.StuckLimit,
			MaxIterations: h.MaxIterations,
		},
		Browser: BrowserConfig{
			RemoteURL: "http://127.0.0.1:9222",
			URLMatch:  "slack.com",
			Timeout:   2 * time.Minute,
		},
		Output: OutputConfig{
			Format:           FormatJSON,
			IncludeReactions: true,
			Copy:             false,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format must be json or console", ErrInvalid)
	}

	if c.Harvest.SettleDelay < 0 {
		return fmt.Errorf("%w: harvest.settle_delay must not be negative", ErrInvalid)
	}
	if c.Harvest.StepDelay < 0 {
		return fmt.Errorf("%w: harvest.step_delay must not be negative", ErrInvalid)
	}
	if c.Harvest.StepFraction <= 0 || c.Harvest.StepFraction > 1 {
		return fmt.Errorf("%w: harvest.step_fraction must be in (0, 1]", ErrInvalid)
	}
	if c.Harvest.StuckLimit < 1 {
		return fmt.Errorf("%w: harvest.stuck_limit must be at least 1", ErrInvalid)
	}
	if c.Harvest.MaxIterations < 1 {
		return fmt.Errorf("%w: harvest.max_iterations must be at least 1", ErrInvalid)
	}

	if c.Browser.RemoteURL == "" {
		return fmt.Errorf("%w: browser.remote_url is required", ErrInvalid)
	}
	if c.Browser.URLMatch == "" {
		return fmt.Errorf("%w: browser.url_match is required", ErrInvalid)
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("%w: browser.timeout must be positive", ErrInvalid)
	}

	switch c.Output.Format {
	case FormatJSON, FormatText, FormatYAML, FormatTable:
	default:
		return fmt.Errorf("%w: output.format must be one of json, text, yaml, table", ErrInvalid)
	}

	return nil
}

// HarvestSettings converts the harvest section for harvest.New.
func (c *Config) HarvestSettings() harvest.Config {
	return harvest.Config{
		SettleDelay:   c.Harvest.SettleDelay,
		StepDelay:     c.Harvest.StepDelay,
		StepFraction:  c.Harvest.StepFraction,
		StuckLimit:    c.Harvest.StuckLimit,
		MaxIterations: c.Harvest.MaxIterations,
	}
}

// DefaultConfigDir returns ~/.config/threadcopy, honoring XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "threadcopy")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "threadcopy")
}
