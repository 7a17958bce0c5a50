// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/ahuca/twinget/internal/automation"
	"github.com/ahuca/twinget/internal/config"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App and delegate through it.
	App struct {
		Config     config.Provider
		Capability automation.Capability
		configDir  string
		stdout     io.Writer
		stderr     io.Writer

		// Persistent flag values.
		verbose bool
		cfgFile string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Capability replaces the TwinCAT automation interface configured by
		// the automation.* settings.
		Capability automation.Capability
		// ConfigDir overrides the platform config directory.
		ConfigDir string
		Stdout    io.Writer
		Stderr    io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:     deps.Config,
		Capability: deps.Capability,
		configDir:  deps.ConfigDir,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.cfgFile, ConfigDirPath: a.configDir}
}

// loadConfig loads the configuration and applies ui.verbose unless --verbose
// was given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, "", err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return cfg, path, nil
}

// logger returns the diagnostic logger writing to stderr. Without verbose
// output only errors are logged.
func (a *App) logger(cfg *config.Config) *log.Logger {
	level := log.ErrorLevel
	if a.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "twinget",
		Level:  level,
	})
	switch cfg.UI.LogFormat {
	case config.LogFormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case config.LogFormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}

// capability returns the injected capability or the DTE capability the
// configuration describes.
func (a *App) capability(cfg *config.Config) automation.Capability {
	if a.Capability != nil {
		return a.Capability
	}
	return automation.NewDTE(automation.DTEOptions{
		ProgID:        cfg.Automation.ProgID,
		SuppressUI:    cfg.Automation.SuppressUI,
		RetryAttempts: cfg.Automation.RetryAttempts,
	})
}
