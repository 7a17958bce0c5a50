// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/ahuca/twinget/internal/config"

	"github.com/spf13/cobra"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `twinget config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage twinget configuration",
		Long: `Manage twinget configuration.

Configuration is stored in:
  - Linux: ~/.config/twinget/config.cue
  - macOS: ~/Library/Application Support/twinget/config.cue
  - Windows: %APPDATA%\twinget\config.cue

A ./config.cue is used when no file exists there. TWINGET_* environment
variables override individual keys, e.g. TWINGET_PACK_OUTPUT_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(app.loadOptions())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpConfig(cmd, app, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", dumpFormatCUE, "output format (cue or toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, path, err := app.loadConfig(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("pack"))
	fmt.Fprintf(out, "  output_dir: %s\n", valueStyle.Render(cfg.Pack.OutputDir))
	fmt.Fprintf(out, "  library_dir: %s\n", valueStyle.Render(cfg.Pack.LibraryDir))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("automation"))
	fmt.Fprintf(out, "  prog_id: %s\n", valueStyle.Render(cfg.Automation.ProgID))
	fmt.Fprintf(out, "  suppress_ui: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Automation.SuppressUI)))
	fmt.Fprintf(out, "  retry_attempts: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Automation.RetryAttempts)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(out, "  log_format: %s\n", valueStyle.Render(string(cfg.UI.LogFormat)))

	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.FilePath(app.loadOptions())
	if err != nil {
		return err
	}

	written, err := config.CreateDefaultConfig(path, force)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", infoIcon, path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}

func dumpConfig(cmd *cobra.Command, app *App, format string) error {
	cfg, _, err := app.loadConfig(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	switch format {
	case dumpFormatCUE:
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	case dumpFormatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
	default:
		return usageError(fmt.Errorf("unknown format %q (expected %s or %s)", format, dumpFormatCUE, dumpFormatTOML))
	}
	return nil
}
