// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/ahuca/twinget/internal/automation"
	"github.com/ahuca/twinget/pkg/nupkg"
)

const (
	// LogFormatText writes human readable log lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON writes one JSON object per event.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt writes logfmt key=value lines.
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogFormat selects the diagnostic log encoding.
	LogFormat string

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Pack configures package creation.
		Pack PackConfig `json:"pack" mapstructure:"pack" toml:"pack"`
		// Automation configures the TwinCAT automation interface.
		Automation AutomationConfig `json:"automation" mapstructure:"automation" toml:"automation"`
		// UI configures output.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// PackConfig configures package creation.
	PackConfig struct {
		OutputDir  string `json:"output_dir" mapstructure:"output_dir" toml:"output_dir"`
		LibraryDir string `json:"library_dir" mapstructure:"library_dir" toml:"library_dir"`
	}

	// AutomationConfig configures the TwinCAT automation interface.
	AutomationConfig struct {
		ProgID        string `json:"prog_id" mapstructure:"prog_id" toml:"prog_id"`
		SuppressUI    bool   `json:"suppress_ui" mapstructure:"suppress_ui" toml:"suppress_ui"`
		RetryAttempts int    `json:"retry_attempts" mapstructure:"retry_attempts" toml:"retry_attempts"`
	}

	// UIConfig configures output.
	UIConfig struct {
		Verbose   bool      `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		LogFormat LogFormat `json:"log_format" mapstructure:"log_format" toml:"log_format"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Pack: PackConfig{
			OutputDir:  ".",
			LibraryDir: nupkg.DefaultLibraryDir,
		},
		Automation: AutomationConfig{
			ProgID:        automation.DefaultProgID,
			SuppressUI:    true,
			RetryAttempts: automation.DefaultRetryAttempts,
		},
		UI: UIConfig{
			LogFormat: LogFormatText,
		},
	}
}

// Validate returns an error if the LogFormat is not recognized.
func (f LogFormat) Validate() error {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected text, json or logfmt)", ErrInvalidLogFormat, string(f))
	}
}

// Validate checks the constraints environment overrides can break after the
// schema check.
func (c *Config) Validate() error {
	var errs []error
	if c.Pack.OutputDir == "" {
		errs = append(errs, errors.New("pack.output_dir must not be empty"))
	}
	if c.Automation.ProgID == "" {
		errs = append(errs, errors.New("automation.prog_id must not be empty"))
	}
	if c.Automation.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("automation.retry_attempts must not be negative, got %d", c.Automation.RetryAttempts))
	}
	if err := c.UI.LogFormat.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
