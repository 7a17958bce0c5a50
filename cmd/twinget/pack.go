// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ahuca/twinget/internal/automation"
	"github.com/ahuca/twinget/internal/issue"
	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/internal/pack"
	"github.com/ahuca/twinget/pkg/nupkg"
	"github.com/ahuca/twinget/pkg/plcproj"
	"github.com/ahuca/twinget/pkg/solution"

	"github.com/spf13/cobra"
)

type packFlags struct {
	output   string
	solution string
}

func newPackCommand(app *App) *cobra.Command {
	var flags packFlags

	packCmd := &cobra.Command{
		Use:   "pack <path>",
		Short: "Pack a PLC project into a NuGet package",
		Long: `Pack a TwinCAT PLC project (.plcproj) into a NuGet package.

The project is exported as a .library through the TwinCAT XAE automation
interface and packaged as <Title>.nupkg in the output directory. When no
solution is given, the nearest .sln referencing the project is used.

Files that are neither .plcproj nor .nuspec are ignored.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, app, args[0], flags)
		},
	}

	packCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default pack.output_dir)")
	packCmd.Flags().StringVarP(&flags.solution, "solution", "s", "", "solution file backing the project (default: discovered)")

	return packCmd
}

func runPack(cmd *cobra.Command, app *App, source string, flags packFlags) error {
	cfg, _, err := app.loadConfig(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	output := flags.output
	if output == "" {
		output = cfg.Pack.OutputDir
	}

	packer := pack.New(pack.Options{
		Capability: app.capability(cfg),
		Assembler:  nupkg.Options{LibraryDir: cfg.Pack.LibraryDir},
		Observer:   observe.Logger(app.logger(cfg)),
	})

	res, err := packer.Pack(cmd.Context(), pack.Request{
		SourcePath:      source,
		OutputDirectory: output,
		SolutionPath:    flags.solution,
	})
	if err != nil {
		return classifyPackError(err, source)
	}

	if res.PassThrough {
		fmt.Fprintf(app.stdout, "%s Nothing to pack: %s is not a %s or %s file\n",
			warningIcon, source, plcproj.ProjectExt, plcproj.ManifestExt)
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Created package %s\n", successIcon, CmdStyle.Render(res.ArchivePath))
	if info, statErr := os.Stat(res.ArchivePath); statErr == nil {
		fmt.Fprintf(app.stdout, "%s Size: %s\n", infoIcon, formatFileSize(info.Size()))
	}
	return nil
}

// classifyPackError maps pack failures to issue catalog entries and exit codes.
func classifyPackError(err error, source string) error {
	if errors.Is(err, pack.ErrInvalidArgument) {
		return usageError(err)
	}

	ctx := issue.NewErrorContext().WithOperation("pack").WithResource(source)
	switch {
	case errors.Is(err, solution.ErrSolutionNotFound):
		ctx.WithIssue(issue.SolutionNotFoundId).
			WithSuggestion("Pass the solution explicitly with --solution")
	case errors.Is(err, automation.ErrUnsupportedPlatform):
		ctx.WithIssue(issue.UnsupportedPlatformId)
	case errors.Is(err, automation.ErrExportFailed):
		ctx.WithIssue(issue.LibraryExportFailedId)
	case errors.Is(err, nupkg.ErrInvalidVersion):
		ctx.WithIssue(issue.InvalidVersionId).
			WithSuggestion("Set ProjectVersion to a semantic version such as 1.0.0")
	case errors.Is(err, nupkg.ErrInvalidID):
		ctx.WithIssue(issue.InvalidPackageIdId)
	case errors.Is(err, plcproj.ErrMalformedDescriptor):
		ctx.WithIssue(issue.MalformedProjectId)
	case errors.Is(err, pack.ErrNotImplemented):
		ctx.WithIssue(issue.ManifestNotImplementedId)
	case errors.Is(err, os.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	}
	return &ExitError{Code: ExitFailure, Err: ctx.Wrap(err).BuildError()}
}

// formatFileSize formats a byte count as a human-readable string.
func formatFileSize(size int64) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
