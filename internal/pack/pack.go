// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahuca/twinget/internal/automation"
	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/pkg/nupkg"
	"github.com/ahuca/twinget/pkg/plcproj"
	"github.com/ahuca/twinget/pkg/solution"

	"github.com/spf13/afero"
)

var (
	// ErrInvalidArgument is returned when a required request field is empty.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotImplemented is returned for manifest-only (.nuspec) sources.
	ErrNotImplemented = errors.New("packing from a .nuspec manifest is not implemented")
)

type (
	// Request describes one pack operation.
	Request struct {
		// SourcePath is the .plcproj (or .nuspec) to pack.
		SourcePath string
		// OutputDirectory receives the package archive.
		OutputDirectory string
		// SolutionPath is the backing solution. Resolved from SourcePath when empty.
		SolutionPath string
		// Observer overrides the Packer observer for this request.
		Observer observe.Observer
	}

	// Result is a successful pack outcome.
	Result struct {
		// ArchivePath is the written package. Empty for a pass-through.
		ArchivePath string
		// PassThrough is set when the source kind is not handled and nothing
		// was done.
		PassThrough bool
	}

	// Outcome is delivered by PackAsync once the operation settles.
	Outcome struct {
		Result Result
		Err    error
	}

	// ArgumentError reports a missing request field.
	ArgumentError struct {
		Field string
	}

	// Options configures a Packer.
	Options struct {
		// Capability opens the automation interface. Defaults to the DTE
		// capability with default options.
		Capability automation.Capability
		// Resolver discovers solutions. Defaults to a solution.Resolver over Fs.
		Resolver automation.SolutionResolver
		// Assembler configures the package assembler. Its Fs and Observer are
		// taken from the Packer.
		Assembler nupkg.Options
		// Observer receives pipeline events. Defaults to a no-op.
		Observer observe.Observer
		// Fs is used to read the project and to remove the exported library.
		// Defaults to the OS filesystem.
		Fs afero.Fs
	}

	// Packer runs pack operations.
	Packer struct {
		capability automation.Capability
		resolver   automation.SolutionResolver
		assembler  nupkg.Options
		obs        observe.Observer
		fs         afero.Fs
	}
)

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// New creates a Packer.
func New(opts Options) *Packer {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Capability == nil {
		opts.Capability = automation.NewDTE(automation.DTEOptions{SuppressUI: true})
	}
	return &Packer{
		capability: opts.Capability,
		resolver:   opts.Resolver,
		assembler:  opts.Assembler,
		obs:        observe.OrNop(opts.Observer),
		fs:         opts.Fs,
	}
}

// Pack runs req and blocks until it settles.
func (p *Packer) Pack(ctx context.Context, req Request) (Result, error) {
	outcome, err := p.PackAsync(ctx, req)
	if err != nil {
		return Result{}, err
	}
	o := <-outcome
	return o.Result, o.Err
}

// PackAsync validates req and starts the operation. Argument errors are
// returned immediately, before anything touches the filesystem. Otherwise
// exactly one Outcome is delivered on the returned channel, which is then
// closed.
func (p *Packer) PackAsync(ctx context.Context, req Request) (<-chan Outcome, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	obs := p.obs
	if req.Observer != nil {
		obs = req.Observer
	}

	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		var res Result
		err := observe.SafeExecute(obs, "pack "+req.SourcePath, func() error {
			var err error
			res, err = p.run(ctx, req, obs)
			return err
		})
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch, nil
}

func normalize(req Request) (Request, error) {
	if req.SourcePath == "" {
		return req, &ArgumentError{Field: "source path"}
	}
	if req.OutputDirectory == "" {
		return req, &ArgumentError{Field: "output directory"}
	}

	var err error
	if req.SourcePath, err = filepath.Abs(req.SourcePath); err != nil {
		return req, fmt.Errorf("failed to resolve source path: %w", err)
	}
	if req.OutputDirectory, err = filepath.Abs(req.OutputDirectory); err != nil {
		return req, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if req.SolutionPath != "" {
		if req.SolutionPath, err = filepath.Abs(req.SolutionPath); err != nil {
			return req, fmt.Errorf("failed to resolve solution path: %w", err)
		}
	}
	return req, nil
}

func (p *Packer) run(ctx context.Context, req Request, obs observe.Observer) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	switch plcproj.KindOf(req.SourcePath) {
	case plcproj.KindProject:
		archive, err := p.packProject(ctx, req, obs)
		if err != nil {
			return Result{}, err
		}
		return Result{ArchivePath: archive}, nil
	case plcproj.KindManifest:
		err := fmt.Errorf("%s: %w", req.SourcePath, ErrNotImplemented)
		obs.Observe(observe.Error(observe.KindFault, "unsupported source", req.SourcePath, err))
		return Result{}, err
	default:
		// TODO: decide whether unknown inputs should fail once callers stop
		// relying on them being ignored.
		obs.Observe(observe.Info(observe.KindPassThrough, "nothing to pack", req.SourcePath))
		return Result{PassThrough: true}, nil
	}
}

// packProject exports the library, packages it and removes the library again.
func (p *Packer) packProject(ctx context.Context, req Request, obs observe.Observer) (archive string, err error) {
	descriptor, err := plcproj.Read(p.fs, req.SourcePath)
	if err != nil {
		obs.Observe(observe.Error(observe.KindFault, "failed to read project", req.SourcePath, err))
		return "", err
	}

	resolver := p.resolver
	if resolver == nil {
		resolver = solution.NewResolver(p.fs)
	}
	session := automation.NewSession(automation.SessionOptions{
		Capability: p.capability,
		Resolver:   resolver,
		Observer:   obs,
	})

	artifact, err := session.ExportLibrary(ctx, req.SourcePath, req.OutputDirectory, req.SolutionPath)
	if artifact != "" {
		defer p.removeArtifact(artifact, obs)
	}
	if err != nil || artifact == "" {
		if err == nil {
			err = automation.ErrExportFailed
		}
		obs.Observe(observe.Error(observe.KindExportFailed, automation.ErrExportFailed.Error(), req.SourcePath, err))
		return "", err
	}
	obs.Observe(observe.Info(observe.KindLibrarySaved, "library saved", artifact))

	assemblerOpts := p.assembler
	assemblerOpts.Fs = p.fs
	assemblerOpts.Observer = obs
	archive, err = nupkg.NewAssembler(assemblerOpts).BuildPackage(descriptor, artifact, req.OutputDirectory)
	if err != nil {
		obs.Observe(observe.Error(observe.KindFault, "failed to build package", req.SourcePath, err))
		return "", err
	}
	return archive, nil
}

func (p *Packer) removeArtifact(artifact string, obs observe.Observer) {
	if err := p.fs.Remove(artifact); err != nil && !errors.Is(err, os.ErrNotExist) {
		obs.Observe(observe.Error(observe.KindFault, "failed to remove exported library", artifact, err))
	}
}
